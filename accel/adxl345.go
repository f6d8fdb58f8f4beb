package accel

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// ADXL345 register map (the subset used here).
const (
	regThreshAct   = 0x24
	regActInactCtl = 0x27
	regPowerCtl    = 0x2D
	regIntEnable   = 0x2E
	regIntSource   = 0x30
	regDataFormat  = 0x31
	regDataX0      = 0x32
)

const (
	dataFormatRange4G = 0x01 // ±4 g
	actACCoupledXYZ   = 0xF0 // AC-coupled activity detection on all axes
	intActivity       = 0x10
	powerCtlMeasure   = 0x08
)

// activityThreshold is the activity interrupt threshold in units of
// 62.5 mg/LSB; 16 is 1 g.
const activityThreshold = 16

// lsbScale converts a raw reading to m/s² (4 mg/LSB at ±4 g).
const lsbScale = 0.004 * 9.80665

// i2cSlave is the Linux i2c-dev ioctl selecting the peer address.
const i2cSlave = 0x0703

// DefaultI2CAddr is the ADXL345 address with SDO tied low.
const DefaultI2CAddr = 0x53

// An ADXL345 reads an ADXL345 accelerometer through a Linux i2c-dev
// character device.
type ADXL345 struct {
	f *os.File
}

// OpenADXL345 opens the accelerometer on the given I2C device, switches it
// to ±4 g measurement mode and arms the activity interrupt.
func OpenADXL345(device string, addr int) (*ADXL345, error) {
	f, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", device, err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), i2cSlave, addr); err != nil {
		f.Close()
		return nil, fmt.Errorf("selecting i2c address %#x: %w", addr, err)
	}

	a := &ADXL345{f: f}
	setup := []struct{ reg, val byte }{
		{regDataFormat, dataFormatRange4G},
		{regThreshAct, activityThreshold},
		{regActInactCtl, actACCoupledXYZ},
		{regIntEnable, intActivity},
		{regPowerCtl, powerCtlMeasure},
	}
	for _, s := range setup {
		if err := a.writeReg(s.reg, s.val); err != nil {
			f.Close()
			return nil, err
		}
	}
	return a, nil
}

// Sample implements Source. Reading INT_SOURCE clears the latched activity
// bit, so the motion flag reports activity since the previous tick.
func (a *ADXL345) Sample() (float64, bool, error) {
	var src [1]byte
	if err := a.readReg(regIntSource, src[:]); err != nil {
		return 0, false, err
	}
	motion := src[0]&intActivity != 0

	var d [2]byte
	if err := a.readReg(regDataX0, d[:]); err != nil {
		return 0, false, err
	}
	raw := int16(binary.LittleEndian.Uint16(d[:]))
	return float64(raw) * lsbScale, motion, nil
}

// Close powers the device down and releases it.
func (a *ADXL345) Close() error {
	// Best effort; the register write fails once the bus is gone anyway.
	a.writeReg(regPowerCtl, 0)
	return a.f.Close()
}

func (a *ADXL345) writeReg(reg, val byte) error {
	if _, err := a.f.Write([]byte{reg, val}); err != nil {
		return fmt.Errorf("writing register %#x: %w", reg, err)
	}
	return nil
}

func (a *ADXL345) readReg(reg byte, buf []byte) error {
	if _, err := a.f.Write([]byte{reg}); err != nil {
		return fmt.Errorf("selecting register %#x: %w", reg, err)
	}
	if _, err := io.ReadFull(a.f, buf); err != nil {
		return fmt.Errorf("reading register %#x: %w", reg, err)
	}
	return nil
}
