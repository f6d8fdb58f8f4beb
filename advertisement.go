package gatt

import (
	"fmt"
	"log"

	"github.com/godbus/dbus/v5"
)

// An Advertisement is the broadcast payload handed to the LE advertising
// manager: the ad type plus an optional service UUID list and an optional
// include-tx-power flag. It must be fully built before registration and is
// not mutated afterwards.
type Advertisement struct {
	path           dbus.ObjectPath
	adType         string
	serviceUUIDs   []string
	includeTxPower bool
	hasTxPower     bool
}

// NewAdvertisement creates an advertisement of the given type, e.g.
// AdTypePeripheral.
func NewAdvertisement(index int, adType string) *Advertisement {
	return &Advertisement{
		path:   dbus.ObjectPath(fmt.Sprintf("%s%d", advertisementPathBase, index)),
		adType: adType,
	}
}

// Path returns the advertisement's object path.
func (a *Advertisement) Path() dbus.ObjectPath { return a.path }

// AddServiceUUID appends uuid to the advertised service UUID list.
func (a *Advertisement) AddServiceUUID(uuid string) {
	a.serviceUUIDs = append(a.serviceUUIDs, uuid)
}

// SetIncludeTxPower sets whether the transmit power level is included in
// the advertising data.
func (a *Advertisement) SetIncludeTxPower(include bool) {
	a.includeTxPower = include
	a.hasTxPower = true
}

// Properties returns the org.bluez.LEAdvertisement1 property set. Optional
// fields that were never set are omitted.
func (a *Advertisement) Properties() map[string]dbus.Variant {
	props := map[string]dbus.Variant{
		"Type": dbus.MakeVariant(a.adType),
	}
	if len(a.serviceUUIDs) > 0 {
		props["ServiceUUIDs"] = dbus.MakeVariant(a.serviceUUIDs)
	}
	if a.hasTxPower {
		props["IncludeTxPower"] = dbus.MakeVariant(a.includeTxPower)
	}
	return props
}

// GetAll implements org.freedesktop.DBus.Properties for the advertisement.
func (a *Advertisement) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	if iface != InterfaceLEAdvertisement {
		return nil, ErrInvalidArgs
	}
	return a.Properties(), nil
}

// Release is called by BlueZ when the advertisement is unregistered.
func (a *Advertisement) Release() *dbus.Error {
	log.Printf("advertisement %s released", a.path)
	return nil
}
