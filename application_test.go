package gatt

import (
	"reflect"
	"testing"

	"github.com/godbus/dbus/v5"
)

func buildTestApp() *Application {
	app := NewApplication()
	svc := app.AddService("1814", true)

	m := svc.AddCharacteristic("2a53")
	m.AddFlags(FlagBroadcast)
	m.HandleNotify(NotifyHandlerFunc(func(n Notifier) {}))
	m.AddDescriptor("2901").HandleReadFunc(func(map[string]dbus.Variant) ([]byte, *dbus.Error) {
		return []byte("RSC Measurement"), nil
	})

	loc := svc.AddCharacteristic("2a5d")
	loc.HandleReadFunc(func(map[string]dbus.Variant) ([]byte, *dbus.Error) {
		return []byte{0x01}, nil
	})
	return app
}

func TestGetManagedObjectsConsistency(t *testing.T) {
	app := buildTestApp()
	objects, derr := app.GetManagedObjects()
	if derr != nil {
		t.Fatalf("GetManagedObjects: %v", derr)
	}

	// 1 service + 2 characteristics + 1 descriptor
	if len(objects) != 4 {
		t.Fatalf("got %d objects, want 4", len(objects))
	}

	for _, svc := range app.Services() {
		entry, ok := objects[svc.Path()]
		if !ok {
			t.Fatalf("service %s missing from managed objects", svc.Path())
		}
		want, _ := svc.GetAll(InterfaceGattService)
		if !reflect.DeepEqual(entry[InterfaceGattService], want) {
			t.Errorf("service %s properties mismatch: got %v want %v", svc.Path(), entry[InterfaceGattService], want)
		}

		charPaths := entry[InterfaceGattService]["Characteristics"].Value().([]dbus.ObjectPath)
		if len(charPaths) != len(svc.Characteristics()) {
			t.Fatalf("service lists %d characteristics, owns %d", len(charPaths), len(svc.Characteristics()))
		}
		for i, c := range svc.Characteristics() {
			if charPaths[i] != c.Path() {
				t.Errorf("characteristic path %d: got %s want %s", i, charPaths[i], c.Path())
			}
			centry, ok := objects[c.Path()]
			if !ok {
				t.Fatalf("characteristic %s referenced but not a top-level key", c.Path())
			}
			cwant, _ := c.GetAll(InterfaceGattCharacteristic)
			if !reflect.DeepEqual(centry[InterfaceGattCharacteristic], cwant) {
				t.Errorf("characteristic %s properties mismatch", c.Path())
			}

			descPaths := centry[InterfaceGattCharacteristic]["Descriptors"].Value().([]dbus.ObjectPath)
			for j, d := range c.Descriptors() {
				if descPaths[j] != d.Path() {
					t.Errorf("descriptor path %d: got %s want %s", j, descPaths[j], d.Path())
				}
				dentry, ok := objects[d.Path()]
				if !ok {
					t.Fatalf("descriptor %s referenced but not a top-level key", d.Path())
				}
				dwant, _ := d.GetAll(InterfaceGattDescriptor)
				if !reflect.DeepEqual(dentry[InterfaceGattDescriptor], dwant) {
					t.Errorf("descriptor %s properties mismatch", d.Path())
				}
			}
		}
	}
}

func TestGetManagedObjectsFreshSnapshot(t *testing.T) {
	app := buildTestApp()
	before, _ := app.GetManagedObjects()

	svc := app.Services()[0]
	c := svc.Characteristics()[0]
	if err := c.setValue([]byte{0x00, 0x0d, 0x03, 0xb4}); err != nil {
		t.Fatalf("setValue: %v", err)
	}

	after, _ := app.GetManagedObjects()
	bv := before[c.Path()][InterfaceGattCharacteristic]["Value"].Value().([]byte)
	av := after[c.Path()][InterfaceGattCharacteristic]["Value"].Value().([]byte)
	if len(bv) != 0 {
		t.Errorf("initial cached value not empty: % X", bv)
	}
	if !reflect.DeepEqual(av, []byte{0x00, 0x0d, 0x03, 0xb4}) {
		t.Errorf("snapshot did not pick up new value: % X", av)
	}
}

func TestGetAllInterfaceMismatch(t *testing.T) {
	app := buildTestApp()
	svc := app.Services()[0]
	char := svc.Characteristics()[0]
	desc := char.Descriptors()[0]

	cases := []struct {
		name  string
		query func(iface string) (map[string]dbus.Variant, *dbus.Error)
		own   string
	}{
		{"service", svc.GetAll, InterfaceGattService},
		{"characteristic", char.GetAll, InterfaceGattCharacteristic},
		{"descriptor", desc.GetAll, InterfaceGattDescriptor},
	}
	for _, tt := range cases {
		if props, err := tt.query(tt.own); err != nil || len(props) == 0 {
			t.Errorf("%s: GetAll(%q) failed: %v", tt.name, tt.own, err)
		}
		for _, wrong := range []string{"", "org.bluez.Adapter1", InterfaceProperties} {
			props, err := tt.query(wrong)
			if err == nil || err.Name != ErrInvalidArgs.Name {
				t.Errorf("%s: GetAll(%q) = (%v, %v), want InvalidArgs", tt.name, wrong, props, err)
			}
		}
	}
}
