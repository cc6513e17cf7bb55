// cmd/catsbridge/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/cats-bridge/internal/api"
	"github.com/tamzrod/cats-bridge/internal/bridge"
	"github.com/tamzrod/cats-bridge/internal/config"
	"github.com/tamzrod/cats-bridge/internal/gateway"
	"github.com/tamzrod/cats-bridge/internal/location"
	"github.com/tamzrod/cats-bridge/internal/logging"
	"github.com/tamzrod/cats-bridge/internal/metrics"
	"github.com/tamzrod/cats-bridge/internal/protocol"
	"github.com/tamzrod/cats-bridge/internal/transport"
	"github.com/tamzrod/cats-bridge/internal/writer"
)

// relay forwards transport events to the controller once it exists.
// The clients must be built before the controller, which sends through them.
type relay struct {
	ctrl *bridge.Controller
}

func (r *relay) OnConnect(ch protocol.Channel)    { r.ctrl.OnConnect(ch) }
func (r *relay) OnDisconnect(ch protocol.Channel) { r.ctrl.OnDisconnect(ch) }
func (r *relay) OnMessage(text string, ch protocol.Channel) {
	r.ctrl.OnMessage(text, ch)
}

func main() {
	var (
		cfgPath  = flag.String("config", "", "path to YAML config")
		verbose  = flag.Bool("v", false, "debug logging")
		device   = flag.String("device", "", "device name (overrides config)")
		address  = flag.String("address", "", "robot address (overrides config)")
		commands = flag.Int("commands", 0, "robot command port (overrides config)")
		statusP  = flag.Int("status", 0, "robot status port (overrides config)")
	)
	flag.Parse()

	// --------------------
	// Load + validate config
	// --------------------

	cfg := &config.Config{}
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	}

	if *device != "" {
		cfg.Device = *device
	}
	if *address != "" {
		cfg.Robot.Address = *address
	}
	if *commands != 0 {
		cfg.Robot.CommandPort = *commands
	}
	if *statusP != 0 {
		cfg.Robot.StatusPort = *statusP
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	logger := logging.New(cfg.Log)
	lg := logger.WithField("device", cfg.Device)

	m := metrics.New(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Core
	// --------------------

	store, err := bridge.NewStore()
	if err != nil {
		lg.WithError(err).Fatal("store init failed")
	}

	rl := &relay{}
	cmdClient, statusClient, err := transport.Build(cfg.Robot, rl, lg)
	if err != nil {
		lg.WithError(err).Fatal("transport build failed")
	}

	ctrl, err := bridge.New(store, cmdClient, statusClient,
		bridge.WithLogger(lg),
		bridge.WithMetrics(m),
		bridge.WithTools(location.Tools{Puck: cfg.Robot.Tools.Puck, Plate: cfg.Robot.Tools.Plate}),
		bridge.WithPlateTypes(cfg.Robot.PlateTypes),
		bridge.WithPowerOnDelay(time.Duration(cfg.Robot.PowerOnDelayMs)*time.Millisecond),
		bridge.WithPollInterval(time.Duration(cfg.Robot.StatusIntervalMs)*time.Millisecond),
	)
	if err != nil {
		lg.WithError(err).Fatal("controller init failed")
	}
	rl.ctrl = ctrl

	var wg sync.WaitGroup
	spawn := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.WithError(err).WithField("component", name).Error("stopped with error")
				stop()
			}
		}()
	}

	spawn("command", cmdClient.Run)
	spawn("status", statusClient.Run)

	// --------------------
	// Outer surfaces (optional)
	// --------------------

	if cfg.Redis.Enabled {
		gw, closeGW, err := gateway.Build(ctx, cfg.Redis, cfg.Device, store, lg)
		if err != nil {
			lg.WithError(err).Fatal("redis gateway failed")
		}
		defer closeGW()
		spawn("gateway", gw.Run)
	}

	if cfg.HTTP.Listen != "" {
		router := api.NewRouter(store, ctrl, promhttp.Handler(), lg.WithField("component", "api"))
		spawn("http", func(ctx context.Context) error { return api.Serve(ctx, cfg.HTTP.Listen, router) })
		lg.WithField("listen", cfg.HTTP.Listen).Info("http api enabled")
	}

	if len(cfg.Mirror.Targets) > 0 {
		mirror, closeMirror, err := writer.Build(cfg.Mirror, cfg.Device)
		if err != nil {
			lg.WithError(err).Fatal("status mirror failed")
		}
		defer closeMirror()

		runner := writer.NewRunner(ctrl, mirror, time.Duration(cfg.Mirror.IntervalMs)*time.Millisecond, lg, m)
		spawn("mirror", func(ctx context.Context) error { runner.Run(ctx); return nil })
		lg.WithField("targets", mirror.Len()).Info("status mirror enabled")
	}

	lg.WithFields(logrus.Fields{
		"address": cfg.Robot.Address,
		"command": cfg.Robot.CommandPort,
		"status":  cfg.Robot.StatusPort,
	}).Info("bridge started")

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ctrl.Shutdown(shutdownCtx); err != nil {
		lg.WithError(err).Warn("controller shutdown incomplete")
	}
	wg.Wait()
}
