package gatt

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Characteristic property flags, in BlueZ string form.
const (
	FlagBroadcast            = "broadcast"
	FlagRead                 = "read"
	FlagWriteWithoutResponse = "write-without-response"
	FlagWrite                = "write"
	FlagNotify               = "notify"
)

// A ReadHandler handles GATT read requests.
type ReadHandler interface {
	ServeRead(options map[string]dbus.Variant) ([]byte, *dbus.Error)
}

// ReadHandlerFunc is an adapter to allow the use of
// ordinary functions as ReadHandlers. If f is a function
// with the appropriate signature, ReadHandlerFunc(f) is a
// ReadHandler that calls f.
type ReadHandlerFunc func(options map[string]dbus.Variant) ([]byte, *dbus.Error)

// ServeRead returns f(options).
func (f ReadHandlerFunc) ServeRead(options map[string]dbus.Variant) ([]byte, *dbus.Error) {
	return f(options)
}

// A WriteHandler handles GATT write requests.
type WriteHandler interface {
	ServeWrite(value []byte, options map[string]dbus.Variant) *dbus.Error
}

// WriteHandlerFunc is an adapter to allow the use of
// ordinary functions as WriteHandlers. If f is a function
// with the appropriate signature, WriteHandlerFunc(f) is a
// WriteHandler that calls f.
type WriteHandlerFunc func(value []byte, options map[string]dbus.Variant) *dbus.Error

// ServeWrite returns f(value, options).
func (f WriteHandlerFunc) ServeWrite(value []byte, options map[string]dbus.Variant) *dbus.Error {
	return f(value, options)
}

// A NotifyHandler is started when a central subscribes to a characteristic.
// Value updates are sent using the provided notifier. The handler should
// return once Notifier.Done reports true.
type NotifyHandler interface {
	ServeNotify(n Notifier)
}

// NotifyHandlerFunc is an adapter to allow the use of
// ordinary functions as NotifyHandlers. If f is a function
// with the appropriate signature, NotifyHandlerFunc(f) is a
// NotifyHandler that calls f.
type NotifyHandlerFunc func(n Notifier)

// ServeNotify calls f(n).
func (f NotifyHandlerFunc) ServeNotify(n Notifier) {
	f(n)
}

// A Notifier provides a means for a GATT server to send
// notifications about value changes to a subscribed central.
// Notifiers are provided to NotifyHandlers.
type Notifier interface {
	// Write caches data as the characteristic value and pushes it
	// to the central.
	Write(data []byte) (int, error)

	// Done reports whether the central has unsubscribed. A handler
	// that observes Done must not schedule further work.
	Done() bool
}

// A Characteristic is a BLE characteristic.
type Characteristic struct {
	path    dbus.ObjectPath
	uuid    string
	flags   []string
	service *Service
	descs   []*Descriptor

	rhandler ReadHandler
	whandler WriteHandler
	nhandler NotifyHandler

	mu        sync.Mutex
	value     []byte
	notifying bool
	notifier  *notifier
	emit      emitFunc
}

// emitFunc delivers a PropertiesChanged signal for one object. It is owned
// by the export layer; a nil emitFunc drops the signal.
type emitFunc func(path dbus.ObjectPath, iface string, changed map[string]dbus.Variant) error

// Path returns the characteristic's object path.
func (c *Characteristic) Path() dbus.ObjectPath { return c.path }

// UUID returns the characteristic's UUID.
func (c *Characteristic) UUID() string { return c.uuid }

// Service returns the characteristic's owning service.
func (c *Characteristic) Service() *Service { return c.service }

// HandleRead makes the characteristic support read requests, and routes
// read requests to h. HandleRead must be called before the application
// is exported.
func (c *Characteristic) HandleRead(h ReadHandler) {
	c.addFlag(FlagRead)
	c.rhandler = h
}

// HandleReadFunc calls HandleRead(ReadHandlerFunc(f)).
func (c *Characteristic) HandleReadFunc(f func(options map[string]dbus.Variant) ([]byte, *dbus.Error)) {
	c.HandleRead(ReadHandlerFunc(f))
}

// HandleWrite makes the characteristic support write requests, and routes
// write requests to h. HandleWrite must be called before the application
// is exported.
func (c *Characteristic) HandleWrite(h WriteHandler) {
	c.addFlag(FlagWrite)
	c.whandler = h
}

// HandleWriteFunc calls HandleWrite(WriteHandlerFunc(f)).
func (c *Characteristic) HandleWriteFunc(f func(value []byte, options map[string]dbus.Variant) *dbus.Error) {
	c.HandleWrite(WriteHandlerFunc(f))
}

// HandleNotify makes the characteristic support notify subscriptions, and
// starts h on each subscription. HandleNotify must be called before the
// application is exported.
func (c *Characteristic) HandleNotify(h NotifyHandler) {
	c.addFlag(FlagNotify)
	c.nhandler = h
}

// HandleNotifyFunc calls HandleNotify(NotifyHandlerFunc(f)).
func (c *Characteristic) HandleNotifyFunc(f func(n Notifier)) {
	c.HandleNotify(NotifyHandlerFunc(f))
}

// AddFlags declares flags that carry no local behavior, such as broadcast.
// Flags backed by handlers are declared by the Handle functions instead.
func (c *Characteristic) AddFlags(flags ...string) {
	for _, f := range flags {
		c.addFlag(f)
	}
}

func (c *Characteristic) addFlag(flag string) {
	for _, f := range c.flags {
		if f == flag {
			return
		}
	}
	c.flags = append(c.flags, flag)
}

// AddDescriptor adds a descriptor to a characteristic.
// AddDescriptor panics if the characteristic already contains
// another descriptor with the same UUID.
func (c *Characteristic) AddDescriptor(uuid string) *Descriptor {
	for _, d := range c.descs {
		if d.uuid == uuid {
			panic("characteristic already contains a descriptor with uuid " + uuid)
		}
	}
	d := &Descriptor{
		path: dbus.ObjectPath(fmt.Sprintf("%s/desc%d", c.path, len(c.descs))),
		uuid: uuid,
		char: c,
	}
	c.descs = append(c.descs, d)
	return d
}

// Descriptors returns the characteristic's descriptors in registration order.
func (c *Characteristic) Descriptors() []*Descriptor { return c.descs }

func (c *Characteristic) descriptorPaths() []dbus.ObjectPath {
	paths := make([]dbus.ObjectPath, 0, len(c.descs))
	for _, d := range c.descs {
		paths = append(paths, d.path)
	}
	return paths
}

// Value returns the cached characteristic value, refreshed by every
// notification write.
func (c *Characteristic) Value() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.value...)
}

// Notifying reports whether a central is subscribed.
func (c *Characteristic) Notifying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notifying
}

// Properties returns the org.bluez.GattCharacteristic1 property set.
func (c *Characteristic) Properties() map[string]dbus.Variant {
	c.mu.Lock()
	value := append([]byte(nil), c.value...)
	c.mu.Unlock()
	return map[string]dbus.Variant{
		"Service":     dbus.MakeVariant(c.service.path),
		"UUID":        dbus.MakeVariant(c.uuid),
		"Flags":       dbus.MakeVariant(c.flags),
		"Descriptors": dbus.MakeVariant(c.descriptorPaths()),
		"Value":       dbus.MakeVariant(value),
	}
}

// GetAll implements org.freedesktop.DBus.Properties for the characteristic.
func (c *Characteristic) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	if iface != InterfaceGattCharacteristic {
		return nil, ErrInvalidArgs
	}
	return c.Properties(), nil
}

// ReadValue implements org.bluez.GattCharacteristic1.ReadValue. Without a
// read handler it fails with NotSupported.
func (c *Characteristic) ReadValue(options map[string]dbus.Variant) ([]byte, *dbus.Error) {
	if c.rhandler == nil {
		return nil, ErrNotSupported
	}
	return c.rhandler.ServeRead(options)
}

// WriteValue implements org.bluez.GattCharacteristic1.WriteValue. Without a
// write handler it fails with NotSupported.
func (c *Characteristic) WriteValue(value []byte, options map[string]dbus.Variant) *dbus.Error {
	if c.whandler == nil {
		return ErrNotSupported
	}
	return c.whandler.ServeWrite(value, options)
}

// StartNotify implements org.bluez.GattCharacteristic1.StartNotify.
// Starting an already-notifying characteristic is a no-op; the handler is
// started exactly once per subscription.
func (c *Characteristic) StartNotify() *dbus.Error {
	if c.nhandler == nil {
		return ErrNotSupported
	}
	c.mu.Lock()
	if c.notifying {
		c.mu.Unlock()
		return nil
	}
	c.notifying = true
	n := newNotifier(c)
	c.notifier = n
	c.mu.Unlock()
	go c.nhandler.ServeNotify(n)
	return nil
}

// StopNotify implements org.bluez.GattCharacteristic1.StopNotify.
// Stopping a non-notifying characteristic is a no-op.
func (c *Characteristic) StopNotify() *dbus.Error {
	if c.nhandler == nil {
		return ErrNotSupported
	}
	c.mu.Lock()
	if !c.notifying {
		c.mu.Unlock()
		return nil
	}
	c.notifying = false
	n := c.notifier
	c.notifier = nil
	c.mu.Unlock()
	n.stop()
	return nil
}

// setValue caches b and, while a central is subscribed, emits a
// PropertiesChanged signal for the Value property. The invalidated
// properties list is always empty.
func (c *Characteristic) setValue(b []byte) error {
	c.mu.Lock()
	c.value = append([]byte(nil), b...)
	notifying := c.notifying
	emit := c.emit
	c.mu.Unlock()
	if !notifying || emit == nil {
		return nil
	}
	return emit(c.path, InterfaceGattCharacteristic, map[string]dbus.Variant{
		"Value": dbus.MakeVariant(append([]byte(nil), b...)),
	})
}
