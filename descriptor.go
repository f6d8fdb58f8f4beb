package gatt

import "github.com/godbus/dbus/v5"

// A Descriptor is a BLE descriptor. Like characteristics, descriptors
// declare only the capabilities they have handlers for; operations without
// a handler fail with NotSupported.
type Descriptor struct {
	path  dbus.ObjectPath
	uuid  string
	flags []string
	char  *Characteristic

	rhandler ReadHandler
	whandler WriteHandler
}

// Path returns the descriptor's object path.
func (d *Descriptor) Path() dbus.ObjectPath { return d.path }

// UUID returns the descriptor's UUID.
func (d *Descriptor) UUID() string { return d.uuid }

// HandleRead makes the descriptor support read requests, and routes
// read requests to h.
func (d *Descriptor) HandleRead(h ReadHandler) {
	d.addFlag(FlagRead)
	d.rhandler = h
}

// HandleReadFunc calls HandleRead(ReadHandlerFunc(f)).
func (d *Descriptor) HandleReadFunc(f func(options map[string]dbus.Variant) ([]byte, *dbus.Error)) {
	d.HandleRead(ReadHandlerFunc(f))
}

// HandleWrite makes the descriptor support write requests, and routes
// write requests to h.
func (d *Descriptor) HandleWrite(h WriteHandler) {
	d.addFlag(FlagWrite)
	d.whandler = h
}

// HandleWriteFunc calls HandleWrite(WriteHandlerFunc(f)).
func (d *Descriptor) HandleWriteFunc(f func(value []byte, options map[string]dbus.Variant) *dbus.Error) {
	d.HandleWrite(WriteHandlerFunc(f))
}

func (d *Descriptor) addFlag(flag string) {
	for _, f := range d.flags {
		if f == flag {
			return
		}
	}
	d.flags = append(d.flags, flag)
}

// Properties returns the org.bluez.GattDescriptor1 property set.
func (d *Descriptor) Properties() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"Characteristic": dbus.MakeVariant(d.char.path),
		"UUID":           dbus.MakeVariant(d.uuid),
		"Flags":          dbus.MakeVariant(d.flags),
	}
}

// GetAll implements org.freedesktop.DBus.Properties for the descriptor.
func (d *Descriptor) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	if iface != InterfaceGattDescriptor {
		return nil, ErrInvalidArgs
	}
	return d.Properties(), nil
}

// ReadValue implements org.bluez.GattDescriptor1.ReadValue.
func (d *Descriptor) ReadValue(options map[string]dbus.Variant) ([]byte, *dbus.Error) {
	if d.rhandler == nil {
		return nil, ErrNotSupported
	}
	return d.rhandler.ServeRead(options)
}

// WriteValue implements org.bluez.GattDescriptor1.WriteValue.
func (d *Descriptor) WriteValue(value []byte, options map[string]dbus.Variant) *dbus.Error {
	if d.whandler == nil {
		return ErrNotSupported
	}
	return d.whandler.ServeWrite(value, options)
}
