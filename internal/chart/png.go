package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PNGRenderer writes each chart as <Dir>/<Name>.png.
type PNGRenderer struct {
	Dir    string
	Width  vg.Length
	Height vg.Length
}

// NewPNGRenderer creates a renderer with a 10x5 inch canvas.
func NewPNGRenderer(dir string) *PNGRenderer {
	return &PNGRenderer{
		Dir:    dir,
		Width:  10 * vg.Inch,
		Height: 5 * vg.Inch,
	}
}

// Render draws the chart and returns the written file path.
func (r *PNGRenderer) Render(c Chart) (string, error) {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, s := range c.Series {
		for j, xys := range segments(s.Points) {
			line, err := plotter.NewLine(xys)
			if err != nil {
				return "", fmt.Errorf("chart %s: series %q: %w", c.Name, s.Label, err)
			}
			line.Color = plotutil.Color(i)
			line.Width = vg.Points(1.5)

			p.Add(line)
			if j == 0 {
				p.Legend.Add(s.Label, line)
			}
		}
	}

	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create chart directory: %w", err)
	}

	path := filepath.Join(r.Dir, Slug(c.Name)+".png")
	if err := p.Save(r.Width, r.Height, path); err != nil {
		return "", fmt.Errorf("failed to save chart %s: %w", path, err)
	}
	return path, nil
}

// segments splits points into runs of defined values. Each run is drawn as
// its own line so a NaN leaves a visible gap.
func segments(points []Point) []plotter.XYs {
	var (
		out []plotter.XYs
		cur plotter.XYs
	)
	for _, pt := range points {
		if math.IsNaN(pt.Value) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: float64(pt.Time.Unix()), Y: pt.Value})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
