// Package render draws the exploratory chart variants from a prepared
// table. Each variant writes a single PNG.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jgoulah/powerplot/internal/dataset"
)

// Options holds output dimensions
type Options struct {
	Width  int
	Height int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 480
	}
	if o.Height <= 0 {
		o.Height = 480
	}
	return o
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 1.0,
	}
}

// timeFormatter picks tick labels for the window: weekday names for
// short windows (matching the exploratory two-day plots), dates
// otherwise
func timeFormatter(ts []time.Time) chart.ValueFormatter {
	if len(ts) > 0 && ts[len(ts)-1].Sub(ts[0]) <= 72*time.Hour {
		return chart.TimeValueFormatterWithFormat("Mon")
	}
	return chart.TimeValueFormatterWithFormat("Jan 2")
}

// ActivePower renders global active power over time as a single line
func ActivePower(t *dataset.Table, w io.Writer, opts Options) error {
	return renderLine(t, w, opts, "Global_active_power", "Global Active Power (kilowatts)")
}

// Voltage renders mains voltage over time
func Voltage(t *dataset.Table, w io.Writer, opts Options) error {
	return renderLine(t, w, opts, "Voltage", "Voltage")
}

// ReactivePower renders global reactive power over time
func ReactivePower(t *dataset.Table, w io.Writer, opts Options) error {
	return renderLine(t, w, opts, "Global_reactive_power", "Global Reactive Power (kilowatts)")
}

func renderLine(t *dataset.Table, w io.Writer, opts Options, column, yLabel string) error {
	opts = opts.withDefaults()

	ts, vals, err := t.Series(column)
	if err != nil {
		return err
	}
	if len(ts) < 2 {
		return fmt.Errorf("column %s has %d plottable points, need at least 2", column, len(ts))
	}

	ch := chart.Chart{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 10}},
		XAxis:      chart.XAxis{ValueFormatter: timeFormatter(ts)},
		YAxis:      chart.YAxis{Name: yLabel},
		Series: []chart.Series{
			chart.TimeSeries{XValues: ts, YValues: vals, Style: lineStyle(chart.ColorBlack)},
		},
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering %s chart: %w", column, err)
	}
	return nil
}

// SubMetering renders the three sub-metering channels with a legend
// (black kitchen, red laundry, blue water heater / AC)
func SubMetering(t *dataset.Table, w io.Writer, opts Options) error {
	opts = opts.withDefaults()

	channels := []struct {
		column string
		color  drawing.Color
	}{
		{"Sub_metering_1", chart.ColorBlack},
		{"Sub_metering_2", chart.ColorRed},
		{"Sub_metering_3", chart.ColorBlue},
	}

	var series []chart.Series
	var firstTS []time.Time
	for _, c := range channels {
		ts, vals, err := t.Series(c.column)
		if err != nil {
			return err
		}
		if len(ts) < 2 {
			continue
		}
		if firstTS == nil {
			firstTS = ts
		}
		series = append(series, chart.TimeSeries{
			Name:    c.column,
			XValues: ts,
			YValues: vals,
			Style:   lineStyle(c.color),
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("no plottable sub-metering points in range")
	}

	ch := chart.Chart{
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 10}},
		XAxis:      chart.XAxis{ValueFormatter: timeFormatter(firstTS)},
		YAxis:      chart.YAxis{Name: "Energy sub metering"},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering sub-metering chart: %w", err)
	}
	return nil
}

// Histogram renders the frequency distribution of global active power
// as red bars
func Histogram(t *dataset.Table, w io.Writer, opts Options) error {
	opts = opts.withDefaults()

	_, vals, err := t.Series("Global_active_power")
	if err != nil {
		return err
	}
	if len(vals) == 0 {
		return fmt.Errorf("no plottable active power points in range")
	}

	bars := binValues(vals, 12)

	ch := chart.BarChart{
		Title:      "Global Active Power",
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 12, Bottom: 10}},
		BarWidth:   (opts.Width - 80) / len(bars),
		YAxis:      chart.YAxis{Name: "Frequency"},
		Bars:       bars,
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering histogram: %w", err)
	}
	return nil
}

// binValues buckets values into equal-width bins over [min, max]
func binValues(vals []float64, bins int) []chart.Value {
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		width = 1
	}

	counts := make([]int, bins)
	for _, v := range vals {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}

	barStyle := chart.Style{
		FillColor:   chart.ColorRed,
		StrokeColor: chart.ColorRed,
	}

	out := make([]chart.Value, bins)
	for i, n := range counts {
		out[i] = chart.Value{
			Value: float64(n),
			Label: fmt.Sprintf("%.1f", lo+width*(float64(i)+0.5)),
			Style: barStyle,
		}
	}
	return out
}

// Panels renders the 2x2 exploratory grid: active power, voltage,
// sub-metering with legend, reactive power. go-chart has no subplot
// support, so each panel is rendered separately and composited.
func Panels(t *dataset.Table, w io.Writer, opts Options) error {
	opts = opts.withDefaults()
	half := Options{Width: opts.Width / 2, Height: opts.Height / 2}

	panels := []func(*dataset.Table, io.Writer, Options) error{
		ActivePower, Voltage,
		SubMetering, ReactivePower,
	}

	images := make([]image.Image, len(panels))
	for i, render := range panels {
		var buf bytes.Buffer
		if err := render(t, &buf, half); err != nil {
			return err
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return fmt.Errorf("decoding panel %d: %w", i, err)
		}
		images[i] = img
	}

	grid := image.NewRGBA(image.Rect(0, 0, half.Width*2, half.Height*2))
	draw.Draw(grid, grid.Bounds(), image.White, image.Point{}, draw.Src)
	for i, img := range images {
		x := (i % 2) * half.Width
		y := (i / 2) * half.Height
		r := image.Rect(x, y, x+half.Width, y+half.Height)
		draw.Draw(grid, r, img, img.Bounds().Min, draw.Src)
	}

	if err := png.Encode(w, grid); err != nil {
		return fmt.Errorf("encoding panel grid: %w", err)
	}
	return nil
}
