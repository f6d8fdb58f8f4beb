package gatt

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

// An Application is the root of a GATT object tree. It owns the services
// registered with BlueZ and answers discovery queries for the whole tree.
// All services must be added before the application is exported.
type Application struct {
	path     dbus.ObjectPath
	services []*Service
}

// NewApplication creates an empty application rooted at "/".
func NewApplication() *Application {
	return &Application{path: "/"}
}

// Path returns the application's object path.
func (a *Application) Path() dbus.ObjectPath { return a.path }

// AddService appends a new service with the given UUID to the application
// and returns it. Service paths are assigned sequentially.
func (a *Application) AddService(uuid string, primary bool) *Service {
	s := &Service{
		path:    dbus.ObjectPath(fmt.Sprintf("%s%d", servicePathBase, len(a.services))),
		uuid:    uuid,
		primary: primary,
	}
	a.services = append(a.services, s)
	return s
}

// Services returns the application's services in registration order.
func (a *Application) Services() []*Service { return a.services }

// GetManagedObjects implements org.freedesktop.DBus.ObjectManager. The
// snapshot is computed fresh on every call; it is the discovery contract
// BlueZ relies on, so every path referenced from a parent's child list
// appears as a top-level key.
func (a *Application) GetManagedObjects() (map[dbus.ObjectPath]map[string]map[string]dbus.Variant, *dbus.Error) {
	objects := make(map[dbus.ObjectPath]map[string]map[string]dbus.Variant)
	for _, s := range a.services {
		objects[s.path] = map[string]map[string]dbus.Variant{
			InterfaceGattService: s.Properties(),
		}
		for _, c := range s.chars {
			objects[c.path] = map[string]map[string]dbus.Variant{
				InterfaceGattCharacteristic: c.Properties(),
			}
			for _, d := range c.descs {
				objects[d.path] = map[string]map[string]dbus.Variant{
					InterfaceGattDescriptor: d.Properties(),
				}
			}
		}
	}
	return objects, nil
}
