package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devdash/internal/api"
	"devdash/internal/config"
	"devdash/internal/device"
	"devdash/internal/history"
	"devdash/internal/logger"
	"devdash/internal/pid"
	"devdash/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if config.IsHelp(err) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
		fmt.Fprintf(os.Stderr, "devdash: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	var logWriter io.Writer
	if !cfg.NoUI {
		// The dashboard owns the terminal; logs go to a file.
		f, err := logger.OpenLogFile(cfg.LogFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logWriter = f
	}
	if err := logger.Init(cfg.LogLevel, logWriter); err != nil {
		return err
	}
	logger.Debug().Str("device", cfg.DeviceURL).Msg("config loaded")

	if err := pid.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove pid file")
		}
	}()

	client, err := api.NewClient(cfg.DeviceURL, time.Duration(cfg.Timeout)*time.Second)
	if err != nil {
		return err
	}

	recorder, err := history.NewRecorder(history.Config{
		Enabled: cfg.History,
		DBPath:  cfg.HistoryDB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close history recorder")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	store := device.NewStore()
	lock := &device.LockState{}

	if cfg.NoUI {
		return monitor(ctx, cfg, client, store, recorder)
	}

	return runDashboard(ctx, cancel, cfg, client, store, lock, recorder)
}

func runDashboard(
	ctx context.Context,
	cancel context.CancelFunc,
	cfg *config.Config,
	client *api.Client,
	store *device.Store,
	lock *device.LockState,
	recorder history.Recorder,
) error {
	dash := ui.New(ctx, client, store, lock)

	// Initial lock flag comes from the device; until it answers, the
	// form stays locked.
	go func() {
		if unlocked, err := client.AuthState(ctx); err == nil {
			lock.Set(unlocked)
		} else {
			logger.Debug().Err(err).Msg("auth state fetch failed")
		}
		dash.ApplyLockState()
	}()

	go pollStatus(ctx, cfg, client, store, recorder, dash.RenderFull)
	go pollPing(ctx, cfg, client, dash.SetOnline)
	go clockTick(ctx, dash.Tick)
	go client.RunStream(ctx, func(u device.FastUpdate) {
		dash.RenderFast(store.ApplyFast(u))
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- dash.Run()
	}()

	select {
	case <-ctx.Done():
		dash.Stop()
		<-errCh
		return nil
	case err := <-errCh:
		cancel()
		return err
	}
}

// pollStatus drives the low-frequency full snapshot poll. A failed
// poll is skipped; the next tick retries naturally.
func pollStatus(
	ctx context.Context,
	cfg *config.Config,
	client *api.Client,
	store *device.Store,
	recorder history.Recorder,
	render func(device.Snapshot),
) {
	ticker := time.NewTicker(time.Duration(cfg.Interval) * time.Second)
	defer ticker.Stop()

	for {
		update, err := client.Status(ctx)
		if err != nil {
			logger.Debug().Err(err).Msg("status poll failed")
		} else {
			snap := store.ApplyStatus(update)
			render(snap)
			if err := recorder.Record(ctx, time.Now(), snap); err != nil {
				logger.Warn().Err(err).Msg("history record failed")
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func pollPing(ctx context.Context, cfg *config.Config, client *api.Client, setOnline func(bool)) {
	ticker := time.NewTicker(time.Duration(cfg.PingInterval) * time.Second)
	defer ticker.Stop()

	for {
		if online, err := client.Ping(ctx); err != nil {
			logger.Debug().Err(err).Msg("reachability poll failed")
		} else {
			setOnline(online)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func clockTick(ctx context.Context, tick func(time.Time)) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			tick(now)
		}
	}
}

// monitor is the headless mode: no dashboard, just structured logging
// of every merged snapshot.
func monitor(
	ctx context.Context,
	cfg *config.Config,
	client *api.Client,
	store *device.Store,
	recorder history.Recorder,
) error {
	logger.Info().Msg("Monitor mode activated. Logging device status...")

	go client.RunStream(ctx, func(u device.FastUpdate) {
		store.ApplyFast(u)
	})

	ticker := time.NewTicker(time.Duration(cfg.Interval) * time.Second)
	defer ticker.Stop()

	for {
		update, err := client.Status(ctx)
		if err != nil {
			logger.Debug().Err(err).Msg("status poll failed")
		} else {
			snap := store.ApplyStatus(update)
			logSnapshot(snap)
			if err := recorder.Record(ctx, time.Now(), snap); err != nil {
				logger.Warn().Err(err).Msg("history record failed")
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func logSnapshot(snap device.Snapshot) {
	event := logger.Info().Event.
		Float64("cpu_percent", snap.CPUPercent).
		Float64("load_1m", snap.Load1).
		Float64("load_5m", snap.Load5).
		Float64("load_15m", snap.Load15).
		Float64("freq_khz", snap.FreqKHz).
		Str("governor", snap.Governor).
		Float64("uptime_seconds", snap.UptimeSeconds)
	if snap.TempValid {
		event = event.Float64("temp_c", snap.TempC)
	}
	event.Msg("")
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
