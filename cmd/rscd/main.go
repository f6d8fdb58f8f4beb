// Command rscd advertises a Running Speed and Cadence peripheral over
// BlueZ, sourcing its measurement from an ADXL345 accelerometer.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"

	gatt "github.com/XC-/rscd"
	"github.com/XC-/rscd/accel"
	"github.com/XC-/rscd/bluez"
	"github.com/XC-/rscd/config"
	"github.com/XC-/rscd/rsc"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	sim := flag.Bool("sim", false, "use a synthetic stride source instead of the accelerometer")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("config: %v", err)
		}
	}
	if *sim {
		cfg.Accel.Sim = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(level)

	src, err := openSource(cfg)
	if err != nil {
		log.Fatalf("accelerometer: %v", err)
	}
	defer src.Close()

	conn, err := dbus.SystemBus()
	if err != nil {
		log.Fatalf("system bus: %v", err)
	}
	defer conn.Close()

	adapter, err := openAdapter(conn, cfg)
	if err != nil {
		log.Fatalf("adapter: %v", err)
	}
	if err := adapter.PowerOn(); err != nil {
		log.Fatalf("adapter: %v", err)
	}

	app := gatt.NewApplication()
	rsc.AddService(app, src, time.Duration(cfg.TickMs)*time.Millisecond)

	adv := gatt.NewAdvertisement(0, gatt.AdTypePeripheral)
	adv.AddServiceUUID(rsc.ServiceUUID)
	adv.SetIncludeTxPower(true)

	if err := app.Export(conn); err != nil {
		log.Fatalf("exporting application: %v", err)
	}
	if err := adv.Export(conn); err != nil {
		log.Fatalf("exporting advertisement: %v", err)
	}

	// Registration failures are fatal: nothing useful can run without
	// either the advertisement or the application in place.
	if err := adapter.RegisterAdvertisement(adv.Path()); err != nil {
		log.Fatalf("advertisement: %v", err)
	}
	if err := adapter.RegisterApplication(app.Path()); err != nil {
		adapter.UnregisterAdvertisement(adv.Path())
		log.Fatalf("application: %v", err)
	}

	log.Info("advertising Running Speed and Cadence")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")
	if err := adapter.UnregisterAdvertisement(adv.Path()); err != nil {
		log.WithError(err).Warn("releasing advertisement")
	}
	if err := adapter.UnregisterApplication(app.Path()); err != nil {
		log.WithError(err).Warn("releasing application")
	}
}

func openSource(cfg *config.Config) (accel.Source, error) {
	if cfg.Accel.Sim {
		log.Info("using synthetic stride source")
		return &accel.Walker{}, nil
	}
	return accel.OpenADXL345(cfg.Accel.Device, cfg.Accel.Addr)
}

func openAdapter(conn *dbus.Conn, cfg *config.Config) (*bluez.Adapter, error) {
	if cfg.Adapter != "" {
		return bluez.NewAdapter(conn, dbus.ObjectPath(cfg.Adapter)), nil
	}
	return bluez.FindAdapter(conn)
}
