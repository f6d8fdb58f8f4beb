package gatt

import (
	"reflect"
	"testing"
)

func TestAdvertisementProperties(t *testing.T) {
	a := NewAdvertisement(0, AdTypePeripheral)

	props := a.Properties()
	if got := props["Type"].Value().(string); got != AdTypePeripheral {
		t.Errorf("Type = %q, want %q", got, AdTypePeripheral)
	}
	if _, ok := props["ServiceUUIDs"]; ok {
		t.Error("ServiceUUIDs present before any UUID was added")
	}
	if _, ok := props["IncludeTxPower"]; ok {
		t.Error("IncludeTxPower present before it was set")
	}

	a.AddServiceUUID("1814")
	a.SetIncludeTxPower(true)

	props = a.Properties()
	if got := props["ServiceUUIDs"].Value().([]string); !reflect.DeepEqual(got, []string{"1814"}) {
		t.Errorf("ServiceUUIDs = %v, want [1814]", got)
	}
	if got := props["IncludeTxPower"].Value().(bool); !got {
		t.Error("IncludeTxPower = false, want true")
	}
}

func TestAdvertisementGetAll(t *testing.T) {
	a := NewAdvertisement(1, AdTypePeripheral)
	a.AddServiceUUID("1814")

	props, err := a.GetAll(InterfaceLEAdvertisement)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if !reflect.DeepEqual(props, a.Properties()) {
		t.Error("GetAll result differs from Properties")
	}

	if _, err := a.GetAll(InterfaceGattService); err == nil || err.Name != ErrInvalidArgs.Name {
		t.Errorf("GetAll with wrong interface: got %v, want InvalidArgs", err)
	}
}

func TestAdvertisementRelease(t *testing.T) {
	a := NewAdvertisement(2, AdTypePeripheral)
	if err := a.Release(); err != nil {
		t.Errorf("Release: %v", err)
	}
}
