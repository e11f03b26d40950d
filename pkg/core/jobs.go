package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"skydrift/pkg/config"
	"skydrift/pkg/db"
	"skydrift/pkg/solar"
	"skydrift/pkg/weather"
)

// Jobs runs the background refresh cadences: the reference city board,
// the subsolar point, local clocks and cache pruning.
type Jobs struct {
	scheduler *gocron.Scheduler
	client    *weather.Client
	board     *weather.Board
	solar     *solar.Service
	database  *db.DB
	cfg       config.TickerConfig
}

// NewJobs creates the periodic job runner.
func NewJobs(client *weather.Client, board *weather.Board, solarSvc *solar.Service, database *db.DB, cfg config.TickerConfig) *Jobs {
	return &Jobs{
		scheduler: gocron.NewScheduler(time.UTC),
		client:    client,
		board:     board,
		solar:     solarSvc,
		database:  database,
		cfg:       cfg,
	}
}

// Start schedules the jobs and begins running them. The city board is
// primed immediately so the first page load is not empty.
func (j *Jobs) Start() error {
	if _, err := j.scheduler.Every(durationOr(j.cfg.CityRefresh, 5*time.Minute)).Do(j.refreshCities); err != nil {
		return err
	}
	if _, err := j.scheduler.Every(durationOr(j.cfg.SolarRefresh, 10*time.Minute)).Do(j.refreshSolar); err != nil {
		return err
	}
	if _, err := j.scheduler.Every(durationOr(j.cfg.ClockTick, time.Minute)).Do(j.tickClocks); err != nil {
		return err
	}
	if j.database != nil {
		if _, err := j.scheduler.Every(time.Hour).Do(j.pruneCache); err != nil {
			return err
		}
	}

	go j.refreshCities()

	j.scheduler.StartAsync()
	slog.Info("Jobs: background tickers started",
		"cities", time.Duration(j.cfg.CityRefresh),
		"solar", time.Duration(j.cfg.SolarRefresh),
		"clocks", time.Duration(j.cfg.ClockTick))
	return nil
}

// Stop halts the job runner.
func (j *Jobs) Stop() {
	j.scheduler.Stop()
}

func (j *Jobs) refreshCities() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cities := j.client.BatchTemperatures(ctx)
	j.board.Update(cities)
	slog.Debug("Jobs: city board refreshed", "count", len(cities))
}

func (j *Jobs) refreshSolar() {
	j.solar.Refresh()
}

func (j *Jobs) tickClocks() {
	j.board.TickClocks()
}

func (j *Jobs) pruneCache() {
	if err := j.database.PruneCache(); err != nil {
		slog.Warn("Jobs: cache prune failed", "error", err)
	}
}

func durationOr(d config.Duration, fallback time.Duration) time.Duration {
	if time.Duration(d) <= 0 {
		return fallback
	}
	return time.Duration(d)
}
