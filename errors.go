package gatt

import "github.com/godbus/dbus/v5"

// Errors returned to the requesting central. BlueZ maps them onto ATT error
// responses; they are local to one request and never affect the tree.
var (
	ErrInvalidArgs        = dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs", nil)
	ErrNotSupported       = dbus.NewError("org.bluez.Error.NotSupported", nil)
	ErrNotPermitted       = dbus.NewError("org.bluez.Error.NotPermitted", nil)
	ErrFailed             = dbus.NewError("org.bluez.Error.Failed", nil)
	ErrInvalidValueLength = dbus.NewError("org.bluez.Error.InvalidValueLength", nil)
)
