// Package bluez wraps the BlueZ D-Bus calls the daemon needs: adapter
// discovery, power management, and GATT application and advertisement
// registration.
package bluez

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"
)

const busName = "org.bluez"

const (
	adapterIface     = "org.bluez.Adapter1"
	gattManagerIface = "org.bluez.GattManager1"
	advManagerIface  = "org.bluez.LEAdvertisingManager1"

	objectManagerIface = "org.freedesktop.DBus.ObjectManager"
	propertiesIface    = "org.freedesktop.DBus.Properties"
)

// An Adapter is a BlueZ adapter object, e.g. /org/bluez/hci0.
type Adapter struct {
	conn *dbus.Conn
	path dbus.ObjectPath
}

// NewAdapter wraps a known adapter path without probing it.
func NewAdapter(conn *dbus.Conn, path dbus.ObjectPath) *Adapter {
	return &Adapter{conn: conn, path: path}
}

// FindAdapter returns the first adapter exposing both a GATT manager and an
// LE advertising manager.
func FindAdapter(conn *dbus.Conn) (*Adapter, error) {
	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	root := conn.Object(busName, "/")
	if err := root.Call(objectManagerIface+".GetManagedObjects", 0).Store(&objects); err != nil {
		return nil, fmt.Errorf("listing bluez objects: %w", err)
	}
	for path, ifaces := range objects {
		_, hasGatt := ifaces[gattManagerIface]
		_, hasAdv := ifaces[advManagerIface]
		if hasGatt && hasAdv {
			log.WithField("adapter", path).Debug("bluez: found LE-capable adapter")
			return &Adapter{conn: conn, path: path}, nil
		}
	}
	return nil, fmt.Errorf("no adapter exposing %s and %s", gattManagerIface, advManagerIface)
}

// Path returns the adapter's object path.
func (a *Adapter) Path() dbus.ObjectPath { return a.path }

func (a *Adapter) obj() dbus.BusObject {
	return a.conn.Object(busName, a.path)
}

func (a *Adapter) setProp(name string, value interface{}) error {
	call := a.obj().Call(propertiesIface+".Set", 0, adapterIface, name, dbus.MakeVariant(value))
	if call.Err != nil {
		return fmt.Errorf("setting %s.%s: %w", adapterIface, name, call.Err)
	}
	return nil
}

// PowerOn powers the radio and leaves it generally discoverable with no
// discoverability timeout.
func (a *Adapter) PowerOn() error {
	if err := a.setProp("Powered", true); err != nil {
		return err
	}
	if err := a.setProp("Discoverable", true); err != nil {
		return err
	}
	if err := a.setProp("DiscoverableTimeout", uint32(0)); err != nil {
		return err
	}
	log.WithField("adapter", a.path).Info("bluez: adapter powered and discoverable")
	return nil
}

// RegisterApplication hands the exported GATT object tree rooted at path to
// bluetoothd. The caller must have exported the tree on the same connection
// first.
func (a *Adapter) RegisterApplication(path dbus.ObjectPath) error {
	options := map[string]dbus.Variant{}
	if call := a.obj().Call(gattManagerIface+".RegisterApplication", 0, path, options); call.Err != nil {
		return fmt.Errorf("registering application: %w", call.Err)
	}
	log.Info("bluez: GATT application registered")
	return nil
}

// UnregisterApplication releases a previously registered application.
func (a *Adapter) UnregisterApplication(path dbus.ObjectPath) error {
	if call := a.obj().Call(gattManagerIface+".UnregisterApplication", 0, path); call.Err != nil {
		return fmt.Errorf("unregistering application: %w", call.Err)
	}
	return nil
}

// RegisterAdvertisement hands the exported advertisement at path to the LE
// advertising manager.
func (a *Adapter) RegisterAdvertisement(path dbus.ObjectPath) error {
	options := map[string]dbus.Variant{}
	if call := a.obj().Call(advManagerIface+".RegisterAdvertisement", 0, path, options); call.Err != nil {
		return fmt.Errorf("registering advertisement: %w", call.Err)
	}
	log.Info("bluez: advertisement registered")
	return nil
}

// UnregisterAdvertisement releases a previously registered advertisement.
func (a *Adapter) UnregisterAdvertisement(path dbus.ObjectPath) error {
	if call := a.obj().Call(advManagerIface+".UnregisterAdvertisement", 0, path); call.Err != nil {
		return fmt.Errorf("unregistering advertisement: %w", call.Err)
	}
	return nil
}
