// Package rsc provides the Running Speed and Cadence GATT service, fed by
// an accelerometer-driven cadence and speed estimator.
package rsc

import (
	"time"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"

	gatt "github.com/XC-/rscd"
	"github.com/XC-/rscd/accel"
)

// Assigned numbers for the Running Speed and Cadence service.
const (
	ServiceUUID        = "1814"
	MeasurementUUID    = "2a53"
	SensorLocationUUID = "2a5d"
)

// sensorLocationOther is the fixed Sensor Location value ("other").
const sensorLocationOther = 0x01

// DefaultSamplePeriod is the estimator tick period.
const DefaultSamplePeriod = 10 * time.Millisecond

// AddService appends the Running Speed and Cadence service to app. The
// measurement characteristic samples src every period while a central is
// subscribed; no background work happens otherwise.
func AddService(app *gatt.Application, src accel.Source, period time.Duration) *gatt.Service {
	if period <= 0 {
		period = DefaultSamplePeriod
	}
	svc := app.AddService(ServiceUUID, true)

	m := svc.AddCharacteristic(MeasurementUUID)
	m.HandleNotify(&measurement{src: src, period: period})
	m.AddFlags(gatt.FlagBroadcast)

	loc := svc.AddCharacteristic(SensorLocationUUID)
	loc.HandleReadFunc(func(map[string]dbus.Variant) ([]byte, *dbus.Error) {
		return []byte{sensorLocationOther}, nil
	})

	return svc
}

// measurement drives the estimator while a central is subscribed. Each
// subscription runs one goroutine the estimator is confined to, so every
// tick is a single atomic step and a notification always completes before
// the next tick is processed. Disarming happens by not entering the next
// tick once the notifier reports done.
type measurement struct {
	src    accel.Source
	period time.Duration
}

func (m *measurement) ServeNotify(n gatt.Notifier) {
	log.Debug("rsc: measurement sampling armed")
	defer log.Debug("rsc: measurement sampling disarmed")

	est := NewEstimator(nowMillis())
	t := time.NewTicker(m.period)
	defer t.Stop()

	for !n.Done() {
		<-t.C
		x, motion, err := m.src.Sample()
		if err != nil {
			log.WithError(err).Warn("rsc: accelerometer sample failed")
			continue
		}
		if !est.Tick(motion, x, nowMillis()) {
			continue
		}
		if _, err := n.Write(est.Encode()); err != nil {
			return
		}
		log.WithFields(log.Fields{
			"speed_mph": est.Speed(),
			"spm":       est.StepsPerMinute(),
		}).Debug("rsc: measurement published")
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
