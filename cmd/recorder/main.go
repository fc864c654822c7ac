// Command recorder captures, edits and replays the motion of a single
// entity in the simulated world. It exposes a console command surface
// (record, seek, save, play, ...) over one recorder session.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ricksterhd123/recorder/internal/channel"
	"github.com/ricksterhd123/recorder/internal/config"
	"github.com/ricksterhd123/recorder/internal/controller"
	"github.com/ricksterhd123/recorder/internal/dispatcher"
	"github.com/ricksterhd123/recorder/internal/engine/sim"
	"github.com/ricksterhd123/recorder/internal/logging"
	"github.com/ricksterhd123/recorder/internal/metrics"
	"github.com/ricksterhd123/recorder/internal/monitor"
	"github.com/ricksterhd123/recorder/internal/otel"
	"github.com/ricksterhd123/recorder/internal/sched"
	"github.com/ricksterhd123/recorder/internal/storage/factory"
	"github.com/ricksterhd123/recorder/pkg/core"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "recorder:", err)
		os.Exit(1)
	}
}

func run() error {
	configDir := flag.String("config", ".", "directory containing recorder.cfg.json")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		return err
	}

	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("create logs dir: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(logsDir, "recorder.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	// OTel log records go to their own file; the OTLP endpoint is optional
	var otelLogWriter io.Writer
	if config.GetBool("otel.enabled") {
		otelLogFile, err := os.OpenFile(filepath.Join(logsDir, "otel.log"),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open otel log file: %w", err)
		}
		defer otelLogFile.Close()
		otelLogWriter = otelLogFile
	}

	otelProvider, err := otel.New(otel.Config{
		Enabled:      config.GetBool("otel.enabled"),
		ServiceName:  "recorder",
		BatchTimeout: 5 * time.Second,
		LogWriter:    otelLogWriter,
		Endpoint:     config.GetString("otel.endpoint"),
		Insecure:     config.GetBool("otel.insecure"),
	})
	if err != nil {
		return err
	}

	logMgr := logging.NewManager()
	logOpts := logging.Options{
		File:     logFile,
		Level:    config.GetString("logLevel"),
		Provider: otelProvider.LoggerProvider(),
	}
	if config.GetBool("graylog.enabled") {
		logOpts.GelfAddress = config.GetString("graylog.address")
	}
	if err := logMgr.Setup(logOpts); err != nil {
		return err
	}
	log := logMgr.Logger()

	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// run loop and simulated world; the loop outlives the signal
	// context so shutdown work can still run on it
	loopCtx, stopLoop := context.WithCancel(context.Background())
	defer stopLoop()
	loop := sched.New(config.GetInt("tick.rateHz"))
	world := sim.New()
	loop.EachTick(func() {
		world.Step(loop.Interval().Seconds())
	})
	go loop.Run(loopCtx)

	// recording library
	store, err := factory.New(config.Storage(), log, zlog)
	if err != nil {
		return err
	}
	if err := store.Init(); err != nil {
		return fmt.Errorf("init recording library: %w", err)
	}
	defer store.Close()

	shape, err := core.ShapeForName(config.GetString("capture.frameShape"))
	if err != nil {
		return err
	}
	sess := controller.NewSession(loop, world, store, controller.Defaults{
		SampleRateHz: config.GetInt("capture.sampleRateHz"),
		Shape:        shape,
		Target: core.TargetDescriptor{
			ModelID:    config.GetInt("target.modelId"),
			EntityType: config.GetString("target.entityType"),
		},
	}, log)

	// telemetry, best effort
	var influx *metrics.Manager
	if config.GetBool("influx.enabled") {
		influx = metrics.NewManager(zlog, filepath.Join(logsDir, "influx_backup.gz"))
		if err := influx.Connect(); err != nil {
			log.Warn("telemetry disabled", "error", err)
			influx = nil
		} else {
			defer influx.Close()
		}
	}

	// the loop publishes a status snapshot once a second; a full buffer
	// just drops the sample
	snaps := channel.New[monitor.Snapshot](4)
	loop.Every(time.Second, func() {
		if snap, ok := sess.Status(); ok {
			snaps.TrySend(monitor.Snapshot(snap))
		}
	})

	mon := monitor.NewService(monitor.Dependencies{
		Dir:       logsDir,
		Logger:    log,
		Influx:    influx,
		Snapshots: snaps,
	})
	if err := mon.Start(); err != nil {
		return err
	}
	defer mon.Stop()

	d, err := dispatcher.New(log)
	if err != nil {
		return err
	}
	registerCommands(d, sess, loop)

	log.Info("recorder ready",
		"tickRateHz", config.GetInt("tick.rateHz"),
		"sampleRateHz", config.GetInt("capture.sampleRateHz"),
		"shape", shape.String(),
		"storage", config.Storage().Type)

	runConsole(ctx, d, influx, log)

	// release any frozen entity before the loop stops
	mon.Stop()
	loop.Do(sess.Clear)
	stopLoop()
	cancel()

	if err := logMgr.Flush(context.Background()); err != nil {
		log.Warn("log flush failed", "error", err)
	}
	return otelProvider.Shutdown(context.Background())
}
