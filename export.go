package gatt

import "github.com/godbus/dbus/v5"

// Export binds the application tree onto conn: the ObjectManager on the
// root, and every service, characteristic and descriptor under its own
// path and interfaces. Characteristic notifications are emitted through
// the same connection. Export must be called before the application is
// registered with BlueZ.
func (a *Application) Export(conn *dbus.Conn) error {
	if err := conn.Export(a, a.path, InterfaceObjectManager); err != nil {
		return err
	}
	emit := func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) error {
		return conn.Emit(path, signalPropertiesChanged, iface, changed, []string{})
	}
	for _, s := range a.services {
		if err := conn.Export(s, s.path, InterfaceProperties); err != nil {
			return err
		}
		for _, c := range s.chars {
			c.mu.Lock()
			c.emit = emit
			c.mu.Unlock()
			if err := conn.Export(c, c.path, InterfaceProperties); err != nil {
				return err
			}
			if err := conn.Export(c, c.path, InterfaceGattCharacteristic); err != nil {
				return err
			}
			for _, d := range c.descs {
				if err := conn.Export(d, d.path, InterfaceProperties); err != nil {
					return err
				}
				if err := conn.Export(d, d.path, InterfaceGattDescriptor); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Export binds the advertisement onto conn under its object path.
func (a *Advertisement) Export(conn *dbus.Conn) error {
	if err := conn.Export(a, a.path, InterfaceProperties); err != nil {
		return err
	}
	return conn.Export(a, a.path, InterfaceLEAdvertisement)
}
