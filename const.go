package gatt

// D-Bus interfaces implemented by the object tree. BlueZ discovers the tree
// through the ObjectManager on the application root and talks to each entity
// through its GATT interface and the generic Properties interface.
const (
	InterfaceObjectManager      = "org.freedesktop.DBus.ObjectManager"
	InterfaceProperties         = "org.freedesktop.DBus.Properties"
	InterfaceGattService        = "org.bluez.GattService1"
	InterfaceGattCharacteristic = "org.bluez.GattCharacteristic1"
	InterfaceGattDescriptor     = "org.bluez.GattDescriptor1"
	InterfaceLEAdvertisement    = "org.bluez.LEAdvertisement1"
)

const signalPropertiesChanged = InterfaceProperties + ".PropertiesChanged"

// Object path layout. Services hang off a fixed base; characteristics and
// descriptors nest under their parent's path.
const (
	servicePathBase       = "/org/bluez/rscd/service"
	advertisementPathBase = "/org/bluez/rscd/advertisement"
)

// AdTypePeripheral is the advertisement type for a connectable peripheral.
const AdTypePeripheral = "peripheral"
