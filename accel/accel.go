// Package accel provides the accelerometer sources that feed the cadence
// estimator.
package accel

// A Source yields single-axis acceleration samples. Sample must be fast
// and non-blocking; it is called from the measurement sampling loop on
// every tick.
type Source interface {
	// Sample returns the instantaneous X-axis acceleration in m/s² and
	// whether the hardware motion detector is currently active.
	Sample() (x float64, motion bool, err error)

	// Close releases the underlying device.
	Close() error
}
