// Package main provides the simulation server binary that loads cultivators
// from PostgreSQL and drives their progression on a periodic tick.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/daasheo/immortalworld/internal/config"
	"github.com/daasheo/immortalworld/internal/game/cultivation"
	"github.com/daasheo/immortalworld/internal/observability"
	"github.com/daasheo/immortalworld/internal/server"
	"github.com/daasheo/immortalworld/internal/simulation"
	"github.com/daasheo/immortalworld/internal/storage/postgres"
)

// logSink forwards advancement events to the structured log. A richer host
// would fan these out to connected clients instead.
type logSink struct {
	logger *zap.Logger
}

func (s *logSink) AdvancementAchieved(ev cultivation.AdvancementEvent) {
	s.logger.Info("advancement achieved",
		zap.String("realm", ev.Tier.String()),
		zap.String("sub_tier", ev.SubTier.String()),
		zap.Float64("total_exp", ev.TotalExp),
	)
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting simulation server",
		zap.Duration("tick_interval", cfg.Simulation.TickInterval),
		zap.Duration("hour_interval", cfg.Simulation.HourInterval),
	)

	// Connect to PostgreSQL for cultivator persistence
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)
	repo := postgres.NewCultivatorRepository(pool)

	svc := cultivation.NewService(logger, &logSink{logger: logger})
	roster := simulation.NewRoster()
	driver := simulation.NewTickDriver(cfg.Simulation.TickInterval)
	clock := simulation.NewDayClock(0, int32(cfg.Simulation.DayResetHour), cfg.Simulation.HourInterval)

	// Load persisted cultivators and hook each into the tick loop.
	records, err := repo.List(ctx)
	if err != nil {
		logger.Fatal("loading cultivators", zap.Error(err))
	}
	for _, rec := range records {
		entry := roster.Add(rec.Name, rec.State)
		driver.Register(entry.ID.String(), func(dtSeconds float64) {
			entry.WithState(func(s *cultivation.State) {
				if err := svc.OnTick(s, dtSeconds); err != nil {
					logger.Warn("tick failed",
						zap.String("cultivator", entry.Name),
						zap.Error(err),
					)
				}
			})
		})
	}
	logger.Info("cultivators loaded", zap.Int("count", roster.Len()))

	lifecycle := server.NewLifecycle(logger)

	// Tick driver: per-cultivator Qi regeneration.
	tickCtx, tickCancel := context.WithCancel(ctx)
	lifecycle.Add("tick-driver", &server.FuncService{
		StartFn: func() error {
			driver.Start(tickCtx)
			<-tickCtx.Done()
			return nil
		},
		StopFn: tickCancel,
	})

	// Day clock: resets daily rest time at the configured hour.
	dayCh := make(chan simulation.GameDay, 1)
	clock.Subscribe(dayCh)
	dayCtx, dayCancel := context.WithCancel(ctx)
	lifecycle.Add("day-clock", &server.FuncService{
		StartFn: func() error {
			stop := clock.Start()
			defer stop()
			for {
				select {
				case day := <-dayCh:
					roster.ForEach(func(e *simulation.Entry) {
						e.WithState(func(s *cultivation.State) {
							svc.ResetDailyRestTime(s)
						})
					})
					logger.Info("daily rest time reset",
						zap.Int64("game_day", int64(day)),
						zap.Int("cultivators", roster.Len()),
					)
				case <-dayCtx.Done():
					return nil
				}
			}
		},
		StopFn: dayCancel,
	})

	// Persistence sweep: writes every roster entry back on an interval and
	// once more on shutdown.
	saveCtx, saveCancel := context.WithCancel(ctx)
	saveAll := func() {
		roster.ForEach(func(e *simulation.Entry) {
			// Clone under the entry lock; the database write runs outside it.
			snap := e.StateCopy()
			if err := repo.Save(ctx, e.ID, snap); err != nil {
				logger.Error("saving cultivator",
					zap.String("cultivator", e.Name),
					zap.Error(err),
				)
			}
		})
	}
	lifecycle.Add("persistence", &server.FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(cfg.Simulation.SaveInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					sweepStart := time.Now()
					saveAll()
					logger.Debug("persistence sweep complete",
						zap.Int("cultivators", roster.Len()),
						zap.Duration("elapsed", time.Since(sweepStart)),
					)
				case <-saveCtx.Done():
					saveAll()
					return nil
				}
			}
		},
		StopFn: saveCancel,
	})

	logger.Info("simulation server ready",
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("lifecycle error", zap.Error(err))
	}
	pool.Close()
}
