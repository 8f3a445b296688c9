package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jgoulah/powerplot/pkg/models"
	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables. Measurement columns are
// nullable so missing source values stay NULL rather than zero.
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS readings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ts TEXT NOT NULL,
		global_active_power REAL,
		global_reactive_power REAL,
		voltage REAL,
		global_intensity REAL,
		sub_metering_1 REAL,
		sub_metering_2 REAL,
		sub_metering_3 REAL,
		created_at TEXT NOT NULL,
		published INTEGER DEFAULT 0,
		UNIQUE(ts)
	);
	CREATE INDEX IF NOT EXISTS idx_readings_ts ON readings(ts);
	CREATE INDEX IF NOT EXISTS idx_readings_published ON readings(published);
	`

	_, err := db.conn.Exec(schema)
	return err
}

const tsLayout = "2006-01-02 15:04:05"

// InsertReading inserts a reading, ignoring duplicates
func (db *DB) InsertReading(r *models.Reading) error {
	query := `
	INSERT OR IGNORE INTO readings
	(ts, global_active_power, global_reactive_power, voltage, global_intensity,
	 sub_metering_1, sub_metering_2, sub_metering_3, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC().Format(time.RFC3339)
	_, err := db.conn.Exec(query,
		r.Timestamp.Format(tsLayout),
		nullable(r.GlobalActivePower),
		nullable(r.GlobalReactivePower),
		nullable(r.Voltage),
		nullable(r.GlobalIntensity),
		nullable(r.SubMetering1),
		nullable(r.SubMetering2),
		nullable(r.SubMetering3),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("inserting reading: %w", err)
	}

	return nil
}

// ListReadings retrieves all cached readings ordered by timestamp
func (db *DB) ListReadings() ([]models.Reading, error) {
	return db.list(`
	SELECT id, ts, global_active_power, global_reactive_power, voltage,
	       global_intensity, sub_metering_1, sub_metering_2, sub_metering_3
	FROM readings
	ORDER BY ts
	`)
}

// ListUnpublished retrieves readings not yet pushed to Home Assistant
func (db *DB) ListUnpublished() ([]models.Reading, error) {
	return db.list(`
	SELECT id, ts, global_active_power, global_reactive_power, voltage,
	       global_intensity, sub_metering_1, sub_metering_2, sub_metering_3
	FROM readings
	WHERE published = 0
	ORDER BY ts
	`)
}

func (db *DB) list(query string, args ...any) ([]models.Reading, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying readings: %w", err)
	}
	defer rows.Close()

	var results []models.Reading
	for rows.Next() {
		var r models.Reading
		var tsStr string
		var gap, grp, volt, gi, sm1, sm2, sm3 sql.NullFloat64

		if err := rows.Scan(&r.ID, &tsStr, &gap, &grp, &volt, &gi, &sm1, &sm2, &sm3); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		r.Timestamp, err = time.Parse(tsLayout, tsStr)
		if err != nil {
			return nil, fmt.Errorf("parsing ts: %w", err)
		}

		r.GlobalActivePower = fromNull(gap)
		r.GlobalReactivePower = fromNull(grp)
		r.Voltage = fromNull(volt)
		r.GlobalIntensity = fromNull(gi)
		r.SubMetering1 = fromNull(sm1)
		r.SubMetering2 = fromNull(sm2)
		r.SubMetering3 = fromNull(sm3)

		results = append(results, r)
	}

	return results, rows.Err()
}

// CountReadings returns the number of cached readings
func (db *DB) CountReadings() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM readings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting readings: %w", err)
	}
	return n, nil
}

// MarkPublished marks a reading as published
func (db *DB) MarkPublished(id int) error {
	query := `UPDATE readings SET published = 1 WHERE id = ?`
	_, err := db.conn.Exec(query, id)
	if err != nil {
		return fmt.Errorf("marking reading as published: %w", err)
	}
	return nil
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNull(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
