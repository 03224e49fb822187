package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// SQLiteStore keeps entries in a single SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens (and migrates) the database at path.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLiteStore{db: db, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Debug("database opened", zap.String("path", path))
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL DEFAULT '',
			external_id TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL,
			day TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT,
			duration_minutes REAL,
			pause_minutes REAL NOT NULL DEFAULT 0,
			driver_time_hours REAL NOT NULL DEFAULT 0,
			passenger_time_hours REAL NOT NULL DEFAULT 0,
			source TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_day ON entries(day)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}

const entryColumns = `id, user_id, external_id, location, start_time, end_time, duration_minutes,
	pause_minutes, driver_time_hours, passenger_time_hours, source`

// Save inserts or replaces an entry by id.
func (s *SQLiteStore) Save(e model.TimeEntry) error {
	var end sql.NullString
	if e.End != nil {
		end = sql.NullString{String: e.End.Format(time.RFC3339Nano), Valid: true}
	}
	var dur sql.NullFloat64
	if e.DurationMinutes != nil {
		dur = sql.NullFloat64{Float64: *e.DurationMinutes, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO entries (`+entryColumns+`, day)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			external_id = excluded.external_id,
			location = excluded.location,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_minutes = excluded.duration_minutes,
			pause_minutes = excluded.pause_minutes,
			driver_time_hours = excluded.driver_time_hours,
			passenger_time_hours = excluded.passenger_time_hours,
			source = excluded.source,
			day = excluded.day`,
		e.ID, e.UserID, e.ExternalID, e.Location, e.Start.Format(time.RFC3339Nano), end, dur,
		e.PauseMinutes, e.DriverTimeHours, e.PassengerTimeHours, e.Source, timecalc.DayKey(e.Start),
	)
	if err != nil {
		return fmt.Errorf("saving entry %s: %w", e.ID, err)
	}
	return nil
}

// Delete removes the entry with id from day.
func (s *SQLiteStore) Delete(id string, day time.Time) error {
	res, err := s.db.Exec("DELETE FROM entries WHERE id = ? AND day = ?", id, timecalc.DayKey(day))
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s on %s", ErrEntryNotFound, id, timecalc.DayKey(day))
	}
	return nil
}

// FindActive returns the most recent open entry started in the week up to asOf, or nil.
func (s *SQLiteStore) FindActive(asOf time.Time) (*model.TimeEntry, error) {
	entries, err := s.query(
		`SELECT `+entryColumns+` FROM entries
		 WHERE end_time IS NULL AND duration_minutes IS NULL AND day >= ? AND day <= ?`,
		timecalc.DayKey(asOf.AddDate(0, 0, 1-ActiveLookbackDays)), timecalc.DayKey(asOf),
	)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	sortByStart(entries)
	return &entries[len(entries)-1], nil
}

// LoadRange returns all entries whose day lies in [from, to].
func (s *SQLiteStore) LoadRange(from, to time.Time) ([]model.TimeEntry, error) {
	entries, err := s.query(
		`SELECT `+entryColumns+` FROM entries WHERE day >= ? AND day <= ?`,
		timecalc.DayKey(from), timecalc.DayKey(to),
	)
	if err != nil {
		return nil, err
	}
	sortByStart(entries)
	return entries, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(query string, args ...interface{}) ([]model.TimeEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var entries []model.TimeEntry
	for rows.Next() {
		var e model.TimeEntry
		var startStr string
		var endStr sql.NullString
		var dur sql.NullFloat64

		if err := rows.Scan(
			&e.ID, &e.UserID, &e.ExternalID, &e.Location, &startStr, &endStr, &dur,
			&e.PauseMinutes, &e.DriverTimeHours, &e.PassengerTimeHours, &e.Source,
		); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		if e.Start, err = time.Parse(time.RFC3339Nano, startStr); err != nil {
			return nil, fmt.Errorf("entry %s: parsing start time: %w", e.ID, err)
		}
		if endStr.Valid {
			end, err := time.Parse(time.RFC3339Nano, endStr.String)
			if err != nil {
				return nil, fmt.Errorf("entry %s: parsing end time: %w", e.ID, err)
			}
			e.End = &end
		}
		if dur.Valid {
			d := dur.Float64
			e.DurationMinutes = &d
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
