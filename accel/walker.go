package accel

import (
	"math"
	"time"
)

// A Walker is a synthetic Source producing a steady sinusoidal stride, for
// running the daemon without hardware attached.
type Walker struct {
	// StrideMs is the duration of one full stride. Defaults to 1000.
	StrideMs int64
	// Amplitude is the peak acceleration in m/s². Defaults to 6.
	Amplitude float64

	now func() int64 // test hook
}

// Sample implements Source.
func (w *Walker) Sample() (float64, bool, error) {
	stride := w.StrideMs
	if stride <= 0 {
		stride = 1000
	}
	amp := w.Amplitude
	if amp == 0 {
		amp = 6
	}
	ms := time.Now().UnixMilli()
	if w.now != nil {
		ms = w.now()
	}
	phase := float64(ms%stride) / float64(stride)
	return amp * math.Sin(2*math.Pi*phase), true, nil
}

// Close implements Source.
func (w *Walker) Close() error { return nil }
