package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/df07/go-bdpt/pkg/core"
	"github.com/olekukonko/tablewriter"
)

// RenderStats contains statistics about one pass or a whole render
type RenderStats struct {
	TotalPixels    int           // Total number of pixels rendered
	TotalSamples   int           // Total number of samples taken
	AverageSamples float64       // Average samples per pixel
	Splats         int           // Light tracing splats that landed on the film
	Duration       time.Duration // Wall clock time
}

// WorkerStats records what one worker did during a render
type WorkerStats struct {
	ID      int
	Tiles   int
	Samples int
	Busy    time.Duration
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum  core.Vec3 // RGB accumulator for final result
	SampleCount int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// Merge folds another pixel's samples into this one
func (ps *PixelStats) Merge(other *PixelStats) {
	ps.ColorAccum = ps.ColorAccum.Add(other.ColorAccum)
	ps.SampleCount += other.SampleCount
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// WriteStatsTable renders per-pass and per-worker statistics as text tables
func WriteStatsTable(w io.Writer, passes []PassResult, workers []WorkerStats) error {
	passTable := tablewriter.NewWriter(w)
	passTable.SetAutoFormatHeaders(false)
	passTable.SetAutoWrapText(false)
	passTable.SetHeader([]string{"Pass", "Samples/pixel", "Samples", "Splats", "Render time"})
	var total RenderStats
	for _, pass := range passes {
		passTable.Append([]string{
			fmt.Sprintf("%d", pass.PassNumber),
			fmt.Sprintf("%.1f", pass.Stats.AverageSamples),
			fmt.Sprintf("%d", pass.Stats.TotalSamples),
			fmt.Sprintf("%d", pass.Stats.Splats),
			pass.Stats.Duration.String(),
		})
		total.TotalSamples += pass.Stats.TotalSamples
		total.Splats += pass.Stats.Splats
		total.Duration += pass.Stats.Duration
	}
	passTable.SetFooter([]string{"", "TOTAL", fmt.Sprintf("%d", total.TotalSamples), fmt.Sprintf("%d", total.Splats), total.Duration.String()})
	passTable.Render()

	if len(workers) == 0 {
		return nil
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("writing stats: %w", err)
	}

	workerTable := tablewriter.NewWriter(w)
	workerTable.SetAutoFormatHeaders(false)
	workerTable.SetAutoWrapText(false)
	workerTable.SetHeader([]string{"Worker", "Tiles", "Samples", "Busy time", "% of samples"})
	for _, stat := range workers {
		percent := 0.0
		if total.TotalSamples > 0 {
			percent = 100 * float64(stat.Samples) / float64(total.TotalSamples)
		}
		workerTable.Append([]string{
			fmt.Sprintf("%d", stat.ID),
			fmt.Sprintf("%d", stat.Tiles),
			fmt.Sprintf("%d", stat.Samples),
			stat.Busy.String(),
			fmt.Sprintf("%02.1f %%", percent),
		})
	}
	workerTable.Render()
	return nil
}
