package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"devdash/internal/device"
	"devdash/internal/errors"
	"devdash/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

type sqliteRepository struct {
	db *sql.DB
	mu sync.Mutex
}

func newRepository(cfg Config) (*sqliteRepository, error) {
	errFactory := errors.New()

	logger.Debug().Str("path", cfg.DBPath).Msg("initializing history repository")

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal=WAL")
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteRepository{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS snapshots (
            timestamp INTEGER PRIMARY KEY,
            cpu_percent REAL,
            load_1m REAL,
            load_5m REAL,
            load_15m REAL,
            freq_khz REAL,
            temp_c REAL,
            governor TEXT,
            uptime_seconds REAL
        )
    `)
	if err != nil {
		return errors.New().Wrap(ErrStorageInit, err)
	}

	return nil
}

func (r *sqliteRepository) store(ctx context.Context, at time.Time, snap device.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var temp any
	if snap.TempValid {
		temp = snap.TempC
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO snapshots (
            timestamp, cpu_percent, load_1m, load_5m, load_15m,
            freq_khz, temp_c, governor, uptime_seconds
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(timestamp) DO UPDATE SET
            cpu_percent = excluded.cpu_percent,
            load_1m = excluded.load_1m,
            load_5m = excluded.load_5m,
            load_15m = excluded.load_15m,
            freq_khz = excluded.freq_khz,
            temp_c = excluded.temp_c,
            governor = excluded.governor,
            uptime_seconds = excluded.uptime_seconds
    `,
		at.Unix(),
		snap.CPUPercent,
		snap.Load1,
		snap.Load5,
		snap.Load15,
		snap.FreqKHz,
		temp,
		snap.Governor,
		snap.UptimeSeconds,
	)
	if err != nil {
		return errors.New().Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRepository) close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}

	return nil
}
