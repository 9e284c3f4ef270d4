// Package jobs provides the scheduled background tasks of the platform,
// built on github.com/robfig/cron/v3.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/fleetline/logistics-platform/internal/core/ports"
)

// SimulationJob drives the fleet simulation on a fixed interval, so the
// fleet keeps moving without anyone hitting the tick endpoint.
type SimulationJob struct {
	sim      ports.SimulationService
	interval time.Duration
	cron     *cron.Cron
	logger   zerolog.Logger
}

func NewSimulationJob(sim ports.SimulationService, interval time.Duration, logger zerolog.Logger) *SimulationJob {
	return &SimulationJob{
		sim:      sim,
		interval: interval,
		cron:     cron.New(),
		logger:   logger,
	}
}

// Start schedules the recurring tick and begins running it.
func (j *SimulationJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		result, err := j.sim.Tick(context.Background())
		if err != nil {
			j.logger.Error().Err(err).Msg("scheduled simulation tick failed")
			return
		}
		if result.VehiclesUpdated > 0 {
			j.logger.Debug().
				Int("vehicles_updated", result.VehiclesUpdated).
				Msg("scheduled simulation tick")
		}
	})
	if err != nil {
		return fmt.Errorf("simulation job: %w", err)
	}

	j.cron.Start()
	j.logger.Info().Dur("interval", j.interval).Msg("simulation job started")
	return nil
}

// Stop halts the scheduler. Already-running ticks finish on their own.
func (j *SimulationJob) Stop() {
	j.cron.Stop()
	j.logger.Info().Msg("simulation job stopped")
}
