package dataset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var scenarioLines = []string{
	"16/12/2006;17:24:00;4.216;0.418;234.840;18.400;0.000;1.000;17.000",
	"16/12/2006;17:25:00;5.360;0.436;233.630;23.000;0.000;1.000;16.000",
	"31/1/2007;23:59:00;0.486;0.066;245.150;2.000;0.000;0.000;0.000",
	"1/2/2007;00:00:00;0.326;0.128;243.150;1.400;0.000;0.000;0.000",
	"1/2/2007;00:01:00;?;0.112;242.920;1.400;0.000;0.000;?",
	"1/2/2007;23:59:00;0.322;0.110;243.110;1.400;0.000;0.000;0.000",
	"2/2/2007;00:00:00;0.330;0.120;242.500;1.400;0.000;0.000;0.000",
	"2/2/2007;23:59:00;2.208;0.052;240.050;9.200;0.000;0.000;18.000",
	"3/2/2007;00:00:00;0.616;0.104;243.230;2.600;0.000;0.000;0.000",
	"27/11/2010;21:02:00;0.946;0.000;240.430;4.000;0.000;0.000;0.000",
}

func writeFixture(t *testing.T, lines []string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "household_power_consumption.txt")
	content := fixtureHeader + "\n"
	for _, l := range lines {
		content += l + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestPrepareScenario(t *testing.T) {
	path := writeFixture(t, scenarioLines)
	loader := NewLoader(path, 100)

	table, err := loader.Prepare(DateRange{Start: "1/2/2007", End: "2/2/2007"})
	require.NoError(t, err)

	// Inclusive span: lines 4..8 of the data
	require.Len(t, table.Rows, 5)

	// Timestamp replaces Date, Time is dropped, measurement order kept
	require.Equal(t, "Timestamp", table.Columns[0].Name)
	require.Equal(t, "Global_active_power", table.Columns[1].Name)
	require.Equal(t, "Sub_metering_3", table.Columns[7].Name)
	require.Len(t, table.Columns, 8)

	wantFirst := time.Date(2007, time.February, 1, 0, 0, 0, 0, time.UTC)
	wantLast := time.Date(2007, time.February, 2, 23, 59, 0, 0, time.UTC)
	require.Equal(t, wantFirst, table.Rows[0].Timestamp)
	require.Equal(t, wantLast, table.Rows[4].Timestamp)

	// Ascending, no reordering relative to source
	for i := 1; i < len(table.Rows); i++ {
		require.True(t, table.Rows[i].Timestamp.After(table.Rows[i-1].Timestamp))
	}
}

func TestPrepareTimestampRoundTrip(t *testing.T) {
	path := writeFixture(t, scenarioLines)
	loader := NewLoader(path, 100)

	table, err := loader.Prepare(DateRange{Start: "1/2/2007", End: "2/2/2007"})
	require.NoError(t, err)

	require.Equal(t, "1/2/2007 00:00:00", table.Rows[0].Timestamp.Format("2/1/2006 15:04:05"))
	require.Equal(t, "2/2/2007 23:59:00", table.Rows[4].Timestamp.Format("2/1/2006 15:04:05"))
}

func TestPrepareMissingValueFidelity(t *testing.T) {
	path := writeFixture(t, scenarioLines)
	loader := NewLoader(path, 100)

	table, err := loader.Prepare(DateRange{Start: "1/2/2007", End: "2/2/2007"})
	require.NoError(t, err)

	// Row 2 of the span has sentinel active power and sub_metering_3
	row := table.Rows[1]
	require.True(t, row.Cells[0].Missing, "sentinel must become the explicit absent marker")
	_, ok := row.Cells[0].Float()
	require.False(t, ok)

	sm3 := table.ColumnIndex("Sub_metering_3") - 1
	require.True(t, row.Cells[sm3].Missing)

	// Neighboring present values are untouched
	v, ok := row.Cells[1].Float()
	require.True(t, ok)
	require.InDelta(t, 0.112, v, 1e-9)
}

func TestPrepareSeriesSkipsMissing(t *testing.T) {
	path := writeFixture(t, scenarioLines)
	loader := NewLoader(path, 100)

	table, err := loader.Prepare(DateRange{Start: "1/2/2007", End: "2/2/2007"})
	require.NoError(t, err)

	ts, vals, err := table.Series("Global_active_power")
	require.NoError(t, err)
	require.Len(t, vals, 4) // 5 rows, one sentinel
	require.Len(t, ts, 4)
	require.InDelta(t, 0.326, vals[0], 1e-9)
}

func TestPrepareRangeNotFound(t *testing.T) {
	path := writeFixture(t, scenarioLines)
	loader := NewLoader(path, 100)

	_, err := loader.Prepare(DateRange{Start: "15/6/2008", End: "16/6/2008"})
	var notFound *RangeNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestPrepareTimestampParseError(t *testing.T) {
	lines := []string{
		"1/2/2007;00:00:00;0.326;0.128;243.150;1.400;0.000;0.000;0.000",
		"1/2/2007;bogus;0.326;0.128;243.150;1.400;0.000;0.000;0.000",
		"2/2/2007;23:59:00;2.208;0.052;240.050;9.200;0.000;0.000;18.000",
	}
	path := writeFixture(t, lines)
	loader := NewLoader(path, 100)

	_, err := loader.Prepare(DateRange{Start: "1/2/2007", End: "2/2/2007"})
	var parseErr *TimestampParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, 2, parseErr.Row)
}

func TestPrepareZeroPaddedDates(t *testing.T) {
	lines := []string{
		"01/02/2007;00:00:00;0.326;0.128;243.150;1.400;0.000;0.000;0.000",
		"01/02/2007;23:59:00;0.322;0.110;243.110;1.400;0.000;0.000;0.000",
	}
	path := writeFixture(t, lines)
	loader := NewLoader(path, 100)

	// Boundary keys are matched verbatim against the file's own date
	// style, so the request must use the same padding
	table, err := loader.Prepare(DateRange{Start: "01/02/2007", End: "01/02/2007"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	require.Equal(t, time.Date(2007, time.February, 1, 0, 0, 0, 0, time.UTC), table.Rows[0].Timestamp)
}

func TestReadingsConversion(t *testing.T) {
	path := writeFixture(t, scenarioLines)
	loader := NewLoader(path, 100)

	table, err := loader.Prepare(DateRange{Start: "1/2/2007", End: "2/2/2007"})
	require.NoError(t, err)

	readings := table.Readings()
	require.Len(t, readings, 5)

	require.Nil(t, readings[1].GlobalActivePower)
	require.Nil(t, readings[1].SubMetering3)
	require.NotNil(t, readings[0].GlobalActivePower)
	require.InDelta(t, 0.326, *readings[0].GlobalActivePower, 1e-9)
	require.NotNil(t, readings[4].Voltage)
	require.InDelta(t, 240.05, *readings[4].Voltage, 1e-9)
}
