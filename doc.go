// Package gatt implements the peripheral side of the Bluetooth Low Energy
// Generic Attribute Profile as a tree of BlueZ D-Bus objects.
//
// Gatt (Generic Attribute Profile) is the protocol used to expose a
// peripheral's services, characteristics and descriptors to a connected
// central. This package models that tree, answers BlueZ's discovery and
// property queries, and dispatches read, write and notify requests to
// per-characteristic handlers.
//
// SETUP
//
// gatt only supports Linux, with BlueZ (5.40 or later) running. The tree is
// handed to bluetoothd over the system bus via
// org.bluez.GattManager1.RegisterApplication; bluetoothd owns the radio,
// connections and the ATT transport, and calls back into the exported
// objects. The process must be allowed to talk to org.bluez on the system
// bus, which usually means running as root or shipping a D-Bus policy file.
//
// USAGE
//
// Trees are constructed by creating an Application, adding services and
// characteristics, and exporting the result on a bus connection:
//
//	app := gatt.NewApplication()
//	svc := app.AddService("180d", true)
//
//	c := svc.AddCharacteristic("2a38")
//	c.HandleReadFunc(func(options map[string]dbus.Variant) ([]byte, *dbus.Error) {
//		return []byte{0x01}, nil
//	})
//
//	app.Export(conn)
//
// Installing a handler is what declares the matching capability flag, so a
// characteristic never advertises an operation it cannot serve; operations
// without a handler fail with org.bluez.Error.NotSupported.
//
// Notification support follows the same shape: a NotifyHandler is started
// when a central subscribes and receives a Notifier whose Write pushes a new
// characteristic value to the central. The handler should return once
// Notifier.Done reports true.
package gatt
