package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jgoulah/powerplot/pkg/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func f(v float64) *float64 { return &v }

func TestInsertAndListReadings(t *testing.T) {
	db := testDB(t)

	first := models.Reading{
		Timestamp:           time.Date(2007, 2, 1, 0, 0, 0, 0, time.UTC),
		GlobalActivePower:   f(0.326),
		GlobalReactivePower: f(0.128),
		Voltage:             f(243.15),
		GlobalIntensity:     f(1.4),
		SubMetering1:        f(0),
		SubMetering2:        f(0),
		SubMetering3:        f(0),
	}
	second := models.Reading{
		Timestamp: time.Date(2007, 2, 1, 0, 1, 0, 0, time.UTC),
		// All measurements missing
	}

	// Insert out of order; listing sorts by timestamp
	require.NoError(t, db.InsertReading(&second))
	require.NoError(t, db.InsertReading(&first))

	readings, err := db.ListReadings()
	require.NoError(t, err)
	require.Len(t, readings, 2)

	require.Equal(t, first.Timestamp, readings[0].Timestamp)
	require.NotNil(t, readings[0].GlobalActivePower)
	require.InDelta(t, 0.326, *readings[0].GlobalActivePower, 1e-9)

	// NULL round-trips as nil, never zero
	require.Nil(t, readings[1].GlobalActivePower)
	require.Nil(t, readings[1].Voltage)
	require.Nil(t, readings[1].SubMetering3)
}

func TestInsertReadingIgnoresDuplicates(t *testing.T) {
	db := testDB(t)

	r := models.Reading{
		Timestamp:         time.Date(2007, 2, 1, 0, 0, 0, 0, time.UTC),
		GlobalActivePower: f(0.326),
	}
	require.NoError(t, db.InsertReading(&r))
	require.NoError(t, db.InsertReading(&r))

	n, err := db.CountReadings()
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestUnpublishedLifecycle(t *testing.T) {
	db := testDB(t)

	for i := 0; i < 3; i++ {
		r := models.Reading{
			Timestamp:         time.Date(2007, 2, 1, 0, i, 0, 0, time.UTC),
			GlobalActivePower: f(float64(i)),
		}
		require.NoError(t, db.InsertReading(&r))
	}

	unpublished, err := db.ListUnpublished()
	require.NoError(t, err)
	require.Len(t, unpublished, 3)

	require.NoError(t, db.MarkPublished(unpublished[0].ID))

	unpublished, err = db.ListUnpublished()
	require.NoError(t, err)
	require.Len(t, unpublished, 2)

	all, err := db.ListReadings()
	require.NoError(t, err)
	require.Len(t, all, 3)
}
