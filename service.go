package gatt

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// A Service is a BLE GATT service. Calls to AddCharacteristic must occur
// before the service's application is exported. A service exclusively owns
// its characteristics; the tree is never restructured at runtime.
type Service struct {
	path    dbus.ObjectPath
	uuid    string
	primary bool
	chars   []*Characteristic
}

// Path returns the service's object path.
func (s *Service) Path() dbus.ObjectPath { return s.path }

// UUID returns the service's UUID.
func (s *Service) UUID() string { return s.uuid }

// AddCharacteristic adds a characteristic to a service.
// AddCharacteristic panics if the service already contains
// another characteristic with the same UUID.
func (s *Service) AddCharacteristic(uuid string) *Characteristic {
	for _, c := range s.chars {
		if c.uuid == uuid {
			panic("service already contains a characteristic with uuid " + uuid)
		}
	}
	c := &Characteristic{
		path:    dbus.ObjectPath(fmt.Sprintf("%s/char%d", s.path, len(s.chars))),
		uuid:    uuid,
		service: s,
	}
	s.chars = append(s.chars, c)
	return c
}

// Characteristics returns the service's characteristics in registration order.
func (s *Service) Characteristics() []*Characteristic { return s.chars }

func (s *Service) characteristicPaths() []dbus.ObjectPath {
	paths := make([]dbus.ObjectPath, 0, len(s.chars))
	for _, c := range s.chars {
		paths = append(paths, c.path)
	}
	return paths
}

// Properties returns the org.bluez.GattService1 property set.
func (s *Service) Properties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"UUID":            dbus.MakeVariant(s.uuid),
		"Primary":         dbus.MakeVariant(s.primary),
		"Characteristics": dbus.MakeVariant(s.characteristicPaths()),
	}
}

// GetAll implements org.freedesktop.DBus.Properties for the service.
func (s *Service) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	if iface != InterfaceGattService {
		return nil, ErrInvalidArgs
	}
	return s.Properties(), nil
}
