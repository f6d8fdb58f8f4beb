package rsc

import "encoding/binary"

// X-axis acceleration thresholds bounding one stride half-cycle, in m/s².
// A crossing above starting is the upstroke, below stopping the downstroke;
// the downstroke is the timing edge cadence is computed from.
const (
	starting = 3.0
	stopping = -3.0
)

const (
	// restTicksToStop is how many consecutive motion-inactive ticks force
	// the stopped state.
	restTicksToStop = 20

	// staleAfterMs zeroes the speed when no threshold crossing arrives in
	// time, so a signal too weak to cross the thresholds cannot leave a
	// nonzero reading stuck.
	staleAfterMs = 2000
)

// Empirically tuned against the elliptical this was built for. Do not
// re-derive from physical units.
const (
	accelPenalty = 1.5
	speedDivisor = 18.0
	speedScale   = 114.44 // mph to RSC wire units
)

const rscFlags = 0x00 // no optional measurement fields

// An Estimator converts a noisy single-axis acceleration signal into a
// stable stride rate and speed. It is driven by a fixed-period tick while a
// central is subscribed and is not safe for concurrent use: all mutations
// must come from a single sampling loop, one tick at a time.
type Estimator struct {
	stopped             bool
	moving              bool // reserved
	atRest              int
	changedDirection    bool
	startingFromStopped int
	t0                  int64
	maxAccel            float64
	speed               float64
	spm                 int
}

// NewEstimator returns an estimator in the stopped state. now is the
// current time in milliseconds.
func NewEstimator(now int64) *Estimator {
	return &Estimator{
		stopped:             true,
		startingFromStopped: -1,
		t0:                  now,
	}
}

// Tick advances the state machine by one sample: motion is the hardware
// motion-interrupt flag, x the instantaneous X-axis acceleration, now the
// current time in milliseconds. It reports whether a publishable change
// occurred.
//
// The startingFromStopped latch discards the first downstroke after every
// stop, which has no valid preceding timing edge. It saturates at 1 and is
// reset to -1 by stop detection.
func (e *Estimator) Tick(motion bool, x float64, now int64) bool {
	changed := false

	if !motion {
		e.atRest++
	}
	if e.atRest == restTicksToStop {
		// Push the counter past the threshold so the reset fires once
		// per rest period.
		e.atRest++
		e.startingFromStopped = -1
		e.speed = 0
		e.spm = 0
		changed = true
	}

	if x > e.maxAccel {
		e.maxAccel = x
	}

	switch {
	case x > starting:
		e.atRest = 0
		if e.changedDirection || e.stopped {
			e.changedDirection = false
			e.stopped = false
		}
	case x < stopping:
		e.atRest = 0
		if !e.changedDirection {
			e.changedDirection = true
			e.stopped = false
			t1 := now
			if e.startingFromStopped < 1 {
				e.startingFromStopped++
			}
			if e.startingFromStopped == 1 {
				cadence := 60000 / float64(t1-e.t0)
				// Penalise low peak acceleration at high stroke rates.
				e.speed = (cadence + e.maxAccel*accelPenalty) / speedDivisor
				if e.speed < 0 {
					e.speed = 0
				}
				e.spm = int((120 + cadence*8) / 6)
				changed = true
			}
			e.t0 = t1
			e.maxAccel = 0
		}
	case e.speed != 0:
		if now-e.t0 > staleAfterMs {
			e.spm = 0
			e.speed = 0
			changed = true
			e.t0 = now
		}
	}

	return changed
}

// Speed returns the current estimated speed in mph.
func (e *Estimator) Speed() float64 { return e.speed }

// StepsPerMinute returns the current simulated step rate.
func (e *Estimator) StepsPerMinute() int { return e.spm }

// Encode renders the 4-byte RSC Measurement payload: flags, instantaneous
// speed as a little-endian uint16, instantaneous cadence.
func (e *Estimator) Encode() []byte {
	b := make([]byte, 4)
	b[0] = rscFlags
	binary.LittleEndian.PutUint16(b[1:3], uint16(int(e.speed*speedScale)))
	b[3] = byte(e.spm)
	return b
}
