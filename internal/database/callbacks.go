package database

import (
	"time"

	"gorm.io/gorm"
)

// MetricsRecorder receives query timings and connection pool stats.
// Declared here rather than importing the metrics package so the
// database layer stays dependency-free.
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

const queryStartKey = "tracker:query_start"

// RegisterMetricsCallbacks hooks timing callbacks into GORM so every
// CRUD statement is recorded per table and operation
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) error {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(queryStartKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			start, ok := tx.InstanceGet(queryStartKey)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			recorder.RecordDBQuery(operation, table, time.Since(start.(time.Time)), tx.Error)
		}
	}

	cb := db.Callback()
	if err := cb.Query().Before("gorm:query").Register("tracker:query_before", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("tracker:query_after", after("select")); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("tracker:create_before", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("tracker:create_after", after("insert")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("tracker:update_before", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("tracker:update_after", after("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("tracker:delete_before", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("tracker:delete_after", after("delete")); err != nil {
		return err
	}
	return nil
}

// StartDBStatsCollector samples the connection pool every interval tick
// and pushes the stats to the recorder. Close the returned channel to
// stop the collector.
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
