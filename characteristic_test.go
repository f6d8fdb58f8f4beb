package gatt

import (
	"reflect"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
)

func newTestCharacteristic(uuid string) *Characteristic {
	app := NewApplication()
	return app.AddService("1814", true).AddCharacteristic(uuid)
}

func TestDefaultCapabilitiesNotSupported(t *testing.T) {
	c := newTestCharacteristic("2a53")

	if _, err := c.ReadValue(nil); err == nil || err.Name != ErrNotSupported.Name {
		t.Errorf("ReadValue: got %v, want NotSupported", err)
	}
	if err := c.WriteValue([]byte{1}, nil); err == nil || err.Name != ErrNotSupported.Name {
		t.Errorf("WriteValue: got %v, want NotSupported", err)
	}
	if err := c.StartNotify(); err == nil || err.Name != ErrNotSupported.Name {
		t.Errorf("StartNotify: got %v, want NotSupported", err)
	}
	if err := c.StopNotify(); err == nil || err.Name != ErrNotSupported.Name {
		t.Errorf("StopNotify: got %v, want NotSupported", err)
	}
	if c.Notifying() {
		t.Error("failed operations must not change state")
	}

	d := c.AddDescriptor("2901")
	if _, err := d.ReadValue(nil); err == nil || err.Name != ErrNotSupported.Name {
		t.Errorf("descriptor ReadValue: got %v, want NotSupported", err)
	}
	if err := d.WriteValue([]byte{1}, nil); err == nil || err.Name != ErrNotSupported.Name {
		t.Errorf("descriptor WriteValue: got %v, want NotSupported", err)
	}
}

func TestHandlersDeclareFlags(t *testing.T) {
	c := newTestCharacteristic("2a53")
	if len(c.flags) != 0 {
		t.Fatalf("new characteristic already has flags %v", c.flags)
	}

	c.HandleReadFunc(func(map[string]dbus.Variant) ([]byte, *dbus.Error) { return nil, nil })
	c.HandleWriteFunc(func([]byte, map[string]dbus.Variant) *dbus.Error { return nil })
	c.HandleNotify(NotifyHandlerFunc(func(n Notifier) {}))
	c.AddFlags(FlagBroadcast, FlagBroadcast)

	want := []string{FlagRead, FlagWrite, FlagNotify, FlagBroadcast}
	if !reflect.DeepEqual(c.flags, want) {
		t.Errorf("flags = %v, want %v", c.flags, want)
	}
}

func TestAddCharacteristicDuplicateUUIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate characteristic uuid")
		}
	}()
	svc := NewApplication().AddService("1814", true)
	svc.AddCharacteristic("2a53")
	svc.AddCharacteristic("2a53")
}

func TestNotifyIdempotence(t *testing.T) {
	c := newTestCharacteristic("2a53")
	started := make(chan Notifier, 2)
	c.HandleNotifyFunc(func(n Notifier) {
		started <- n
	})

	if err := c.StartNotify(); err != nil {
		t.Fatalf("StartNotify: %v", err)
	}
	if err := c.StartNotify(); err != nil {
		t.Fatalf("second StartNotify: %v", err)
	}
	if !c.Notifying() {
		t.Fatal("Notifying() = false after StartNotify")
	}

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("notify handler never started")
	}
	select {
	case <-started:
		t.Fatal("notify handler started twice")
	case <-time.After(50 * time.Millisecond):
	}

	if err := c.StopNotify(); err != nil {
		t.Fatalf("StopNotify: %v", err)
	}
	if err := c.StopNotify(); err != nil {
		t.Fatalf("second StopNotify: %v", err)
	}
	if c.Notifying() {
		t.Fatal("Notifying() = true after StopNotify")
	}
}

func TestNotifierWriteEmitsPropertiesChanged(t *testing.T) {
	type emitted struct {
		path    dbus.ObjectPath
		iface   string
		changed map[string]dbus.Variant
	}

	c := newTestCharacteristic("2a53")
	var signals []emitted
	c.emit = func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) error {
		signals = append(signals, emitted{path, iface, changed})
		return nil
	}
	started := make(chan Notifier, 1)
	c.HandleNotifyFunc(func(n Notifier) { started <- n })

	if err := c.StartNotify(); err != nil {
		t.Fatalf("StartNotify: %v", err)
	}
	n := <-started

	payload := []byte{0x00, 0x0d, 0x03, 0xb4}
	if _, err := n.Write(payload); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !reflect.DeepEqual(c.Value(), payload) {
		t.Errorf("cached value = % X, want % X", c.Value(), payload)
	}
	if len(signals) != 1 {
		t.Fatalf("got %d signals, want 1", len(signals))
	}
	sig := signals[0]
	if sig.path != c.Path() || sig.iface != InterfaceGattCharacteristic {
		t.Errorf("signal scoped to (%s, %s), want (%s, %s)", sig.path, sig.iface, c.Path(), InterfaceGattCharacteristic)
	}
	if got := sig.changed["Value"].Value().([]byte); !reflect.DeepEqual(got, payload) {
		t.Errorf("signal value = % X, want % X", got, payload)
	}

	if err := c.StopNotify(); err != nil {
		t.Fatalf("StopNotify: %v", err)
	}
	if !n.Done() {
		t.Error("notifier not done after StopNotify")
	}
	if _, err := n.Write(payload); err == nil {
		t.Error("Write after StopNotify should fail")
	}
	if len(signals) != 1 {
		t.Errorf("signal emitted while not notifying: got %d, want 1", len(signals))
	}
}
