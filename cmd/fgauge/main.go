package main

import (
	"flag"
	"log"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"fgauge/internal/config"
	"fgauge/internal/max1730x"
	"fgauge/internal/max77779i2cm"
	"fgauge/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a JSON config file")
	flag.Parse()

	log.Println("Starting fgauge...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		log.Fatalf("failed to open I2C: %v", err)
	}
	defer bus.Close()

	// The gauge either hangs off the host bus or sits behind the PMIC's
	// I2C master.
	var gaugeBus i2c.Bus = bus
	if cfg.Bridge.Enabled {
		ctl, err := max77779i2cm.New(bus, cfg.Bridge.Addr, cfg.Bridge.Opts())
		if err != nil {
			log.Fatalf("failed to set up I2CM: %v", err)
		}
		if err := ctl.Init(); err != nil {
			log.Fatalf("failed to enable I2CM: %v", err)
		}
		gaugeBus = ctl
		log.Printf("Using %s at %s", ctl, ctl.Speed())
	}

	gauge, err := max1730x.NewMAX1730X(gaugeBus, &max1730x.Opts{
		Addr:      cfg.Gauge.Addr,
		NVRAMAddr: cfg.Gauge.NVRAMAddr,
		RSense:    cfg.Gauge.RSense(),
	})
	if err != nil {
		log.Fatalf("Failed to init MAX1730x: %v", err)
	}
	if err := gauge.Init(); err != nil {
		log.Printf("Failed to identify MAX1730x: %v", err)
	}
	if sn, err := gauge.SerialNumber(); err == nil {
		log.Printf("Battery serial %s", sn)
	}

	log.Printf("Hardware Initialized: MAX1730x (Addr: 0x%X, NVRAM: 0x%X)", cfg.Gauge.Addr, cfg.Gauge.NVRAMAddr)

	if err := server.Run(cfg.Port, gauge); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
