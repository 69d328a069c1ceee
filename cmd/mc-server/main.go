// Command mc-server runs the network core: it loads configuration,
// starts the connection manager's accept loop, and waits for a signal to
// shut down cleanly. The "Server"/game-logic layer that would consume
// completed Play-state connections (spec §1, out of scope) is not
// started here; OnRegistered is left nil so handed-over connections are
// simply tracked without further processing.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/itzg/go-flagsfiller"
	"github.com/sirupsen/logrus"

	"github.com/snapgo-project/snapgo/internal/config"
	"github.com/snapgo-project/snapgo/internal/metrics"
	"github.com/snapgo-project/snapgo/internal/network"
)

// cliOverrides is the small CLI-overrides struct spec-full's AMBIENT
// STACK section calls for, filled by go-flagsfiller's struct-tag
// defaults/usage the same way itzg-mc-router declares its flags.
type cliOverrides struct {
	ConfigPath string `default:"config.yaml" usage:"path to the YAML configuration file"`
	Debug      bool   `usage:"enable debug-level logging"`
	Version    bool   `usage:"print version and exit"`
}

const serverVersion = "0.1.0"

func main() {
	var cli cliOverrides
	if err := flagsfiller.New().Fill(flag.CommandLine, &cli); err != nil {
		logrus.WithError(err).Fatal("failed to define flags")
	}
	flag.Parse()

	if cli.Version {
		logrus.Infof("mc-server %s (protocol 754, 1.16.5)", serverVersion)
		return
	}

	if cli.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(cli.ConfigPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}
	store := config.NewStore(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Watch(ctx, cli.ConfigPath); err != nil {
		logrus.WithError(err).Warn("config hot-reload disabled")
	}

	var influxCfg *metrics.InfluxDBConfig
	builder := metrics.NewBuilder(cfg.Network.Admin.MetricsBackend, influxCfg)
	if err := builder.Start(ctx); err != nil {
		logrus.WithError(err).Warn("failed to start metrics backend")
	}
	conns := builder.Build()

	manager := network.NewManager(store, conns)
	if err := manager.Start(); err != nil {
		logrus.WithError(err).Fatal("failed to start connection manager")
	}

	if bind := cfg.Network.Admin.Bind; bind != "" {
		manager.StartAdminAPI(bind)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logrus.Info("shutting down")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	manager.Stop(stopCtx)
}
