// handlers/sync_scheduler.go
package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"p9e.in/aquagate/config"
	"p9e.in/aquagate/models"
)

const defaultSyncInterval = 20 * time.Minute

// SyncScheduler runs the reconciliation engine on a fixed interval. The
// manual trigger endpoint shares the same engine, so overlapping runs are
// rejected by the engine's lock rather than coordinated here.
type SyncScheduler struct {
	engine *SyncEngine
	cron   *cron.Cron
	log    *logrus.Logger
}

func NewSyncScheduler(engine *SyncEngine) *SyncScheduler {
	return &SyncScheduler{
		engine: engine,
		cron:   cron.New(),
		log:    config.GetLogger(),
	}
}

// SyncIntervalFromEnv reads SYNC_INTERVAL_MINUTES, defaulting to 20.
func SyncIntervalFromEnv() time.Duration {
	raw := config.Getenv("SYNC_INTERVAL_MINUTES", "")
	if raw == "" {
		return defaultSyncInterval
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes < 1 {
		return defaultSyncInterval
	}
	return time.Duration(minutes) * time.Minute
}

// Start schedules the recurring run and, when runImmediately is set, kicks
// off one cycle right away so a fresh deployment does not wait a full
// interval for data.
func (s *SyncScheduler) Start(interval time.Duration, runImmediately bool) error {
	spec := fmt.Sprintf("@every %s", interval)
	if _, err := s.cron.AddFunc(spec, s.runScheduled); err != nil {
		return err
	}
	s.cron.Start()
	s.log.WithField("module", "sync").Infof("document sync scheduled every %s", interval)

	if runImmediately {
		go s.runScheduled()
	}
	return nil
}

func (s *SyncScheduler) Stop() {
	s.cron.Stop()
}

func (s *SyncScheduler) runScheduled() {
	report, err := s.engine.Run(models.SyncTriggerScheduled)
	if err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			s.log.WithField("module", "sync").Warn("scheduled sync skipped, a run is already in progress")
			return
		}
		config.LogError("sync", "runScheduled", err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"module":  "sync",
		"inserts": report.TotalInserts,
		"updates": report.TotalUpdates,
	}).Info("scheduled sync finished")
}
