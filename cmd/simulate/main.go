package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jsuvanto/pyrl/internal/config"
	"github.com/jsuvanto/pyrl/internal/domain"
	"github.com/jsuvanto/pyrl/internal/engine"
	"github.com/jsuvanto/pyrl/internal/infrastructure/storage"
	"github.com/jsuvanto/pyrl/internal/network"
	"github.com/jsuvanto/pyrl/internal/server"
	"github.com/jsuvanto/pyrl/pkg/logger"
	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг флагов
	var (
		configPath string
		seed       int64
		rounds     int
		hold       bool
	)
	flag.StringVar(&configPath, "config", "", "Path to TOML config (empty = built-in room)")
	flag.Int64Var(&seed, "seed", 0, "Random seed for wandering actors (0 = from config or random)")
	flag.IntVar(&rounds, "rounds", -1, "Rounds to simulate (-1 = from config)")
	flag.BoolVar(&hold, "hold", false, "Keep the debug server running after the simulation until interrupted")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			logger.Log.Fatal("Failed to load config: ", err)
		}
		cfg = loaded
	}
	if seed != 0 {
		cfg.Simulation.Seed = seed
	}
	if rounds >= 0 {
		cfg.Simulation.Rounds = rounds
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.Fatal("Invalid config: ", err)
	}

	// LOG_LEVEL из окружения важнее конфига
	level := cfg.Logging.Level
	if env, ok := os.LookupEnv("LOG_LEVEL"); ok {
		level = env
	}
	logger.Configure(level, cfg.Logging.Format, nil)

	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
		logger.Log.Infof("🎲 Using random seed: %d", cfg.Simulation.Seed)
	} else {
		logger.Log.Infof("🎲 Using explicit seed: %d", cfg.Simulation.Seed)
	}

	// 2. Сборка уровня и акторов
	inst, err := buildInstance(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to build level: ", err)
	}

	inst.Subscribe(logTurn)

	var recorder *storage.Recorder
	if cfg.Trace.Path != "" {
		recorder = storage.NewRecorder(cfg.Simulation.Seed, time.Now().Unix())
		inst.Subscribe(recorder.Record)
	}

	// 3. Debug сервер
	var srv *server.Server
	if cfg.Debug.Addr != "" {
		hub := network.NewBroadcaster(256)
		inst.Subscribe(hub.Broadcast)

		srv = server.New(inst, hub, cfg.Debug.Addr)
		go func() {
			if err := srv.Run(); err != nil {
				logger.Log.Fatal("Server start error: ", err)
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// 4. Симуляция
	done := make(chan error, 1)
	go func() {
		done <- inst.RunRounds(cfg.Simulation.Rounds)
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.Log.WithError(err).Error("Simulation stopped")
		} else {
			logger.Log.WithFields(logrus.Fields{
				"rounds": inst.Round(),
				"alive":  len(inst.Actors()),
			}).Info("Simulation finished")
		}
		if srv != nil && hold {
			logger.Log.Info("Holding debug server, press Ctrl+C to exit")
			<-stop
		}
	case <-stop:
		logger.Log.Info("Interrupted")
	}

	// Graceful Shutdown
	logger.Log.Info("Shutting down...")
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(ctx); err != nil {
			logger.Log.WithError(err).Warn("Debug server shutdown failed")
		}
		cancel()
	}

	if recorder != nil {
		if err := recorder.Save(cfg.Trace.Path); err != nil {
			logger.Log.WithError(err).Error("Failed to save turn trace")
		} else {
			logger.Log.WithField("path", cfg.Trace.Path).Info("Turn trace saved")
		}
	}

	logger.Log.Info("Done.")
}

func buildInstance(cfg *config.Config) (*engine.Instance, error) {
	lvl, err := cfg.BuildLevel()
	if err != nil {
		return nil, err
	}
	strategy, err := cfg.FOVStrategy()
	if err != nil {
		return nil, err
	}

	inst := engine.NewInstance(lvl, strategy)

	for i, a := range cfg.BuildActors() {
		ctrl, err := cfg.Actors[i].Controller(cfg.Simulation.Seed)
		if err != nil {
			return nil, err
		}
		if err := inst.Spawn(a, ctrl); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func logTurn(ev domain.TurnEvent) {
	entry := logger.Log.WithFields(logrus.Fields{
		"round":    ev.Round,
		"turn":     ev.Turn,
		"actor_id": ev.Actor,
		"action":   ev.Action,
		"to":       ev.To,
	})
	if ev.Target != "" {
		entry = entry.WithField("target", ev.Target)
	}
	if ev.Killed {
		entry.Info("💀 Actor killed")
		return
	}
	entry.Debug("Turn")
}
