// Package plotobs renders reduction diagnostics with gonum/plot. It is an
// optional, side-effect-only observer: the numerical core never depends on
// it, and any rendering failure is logged rather than propagated.
package plotobs

import (
	"log"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"solxs/pkg/analyze"
	"solxs/pkg/curve"
)

// Plotter writes one PNG per pipeline event into Dir. Intensity plots are
// drawn log-log with replicates stacked by Offset, the usual reduction
// notebook view.
type Plotter struct {
	Dir    string
	Offset float64 // vertical stacking factor between replicate curves
}

// New returns a Plotter writing into dir with the conventional 1.5x
// replicate offset.
func New(dir string) *Plotter {
	return &Plotter{Dir: dir, Offset: 1.5}
}

// Merged draws the merged curve together with the retained raw overlap
// intensities.
func (p *Plotter) Merged(c *curve.Curve) {
	plt := newLogPlot("merged: "+c.Label, "q (1/Å)", "I")
	addLine(plt, c.Label, positiveXYs(c.Grid, c.Intensity, 1))
	if ov := c.Overlap; ov != nil {
		addScatter(plt, "overlap set 1", positiveXYs(ov.Q, ov.RawSelf, 1))
		addScatter(plt, "overlap set 2", positiveXYs(ov.Q, ov.RawOther, 1))
	}
	p.save(plt, c.Label+"_merged")
}

// Averaged draws the averaged curve over the stacked replicates.
func (p *Plotter) Averaged(avg *curve.Curve, inputs []*curve.Curve) {
	plt := newLogPlot("averaged: "+avg.Label, "q (1/Å)", "I")
	addLine(plt, "averaged", positiveXYs(avg.Grid, avg.Intensity, 1))
	off := p.Offset
	for _, c := range inputs {
		addLine(plt, c.Label, positiveXYs(c.Grid, c.Intensity, off))
		off *= p.Offset
	}
	p.save(plt, avg.Label+"_averaged")
}

// Subtracted draws the corrected sample next to the scaled background.
func (p *Plotter) Subtracted(sample, background *curve.Curve, scFactor float64) {
	plt := newLogPlot("subtracted: "+sample.Label, "q (1/Å)", "I")
	addLine(plt, sample.Label, positiveXYs(sample.Grid, sample.Intensity, 1))
	addLine(plt, background.Label+", scaled", positiveXYs(background.Grid, background.Intensity, scFactor))
	p.save(plt, sample.Label+"_subtracted")
}

// GuinierFitted draws ln I against q² with the fitted model over the data.
func (p *Plotter) GuinierFitted(c *curve.Curve, fit analyze.GuinierResult) {
	plt := plot.New()
	plt.Title.Text = "Guinier: " + c.Label
	plt.X.Label.Text = "q² (1/Å²)"
	plt.Y.Label.Text = "I"
	plt.Y.Scale = plot.LogScale{}
	plt.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	var data, model plotter.XYs
	for i, q := range c.Grid {
		if q*q > 2*fit.QE*fit.QE {
			break
		}
		if c.Intensity[i] > 0 {
			data = append(data, plotter.XY{X: q * q, Y: c.Intensity[i]})
		}
		model = append(model, plotter.XY{
			X: q * q,
			Y: fit.I0 * math.Exp(-q*q*fit.Rg*fit.Rg/3),
		})
	}
	addScatter(plt, c.Label, data)
	addLine(plt, "fit", model)
	p.save(plt, c.Label+"_guinier")
}

// PairDistanceComputed draws the normalized P(r).
func (p *Plotter) PairDistanceComputed(r, pr []float64) {
	plt := plot.New()
	plt.Title.Text = "pair-distance distribution"
	plt.X.Label.Text = "r (Å)"
	plt.Y.Label.Text = "P(r)"

	xys := make(plotter.XYs, len(r))
	for i := range r {
		xys[i] = plotter.XY{X: r[i], Y: pr[i]}
	}
	addLine(plt, "P(r)", xys)
	p.save(plt, "pair_distance")
}

func newLogPlot(title, xlabel, ylabel string) *plot.Plot {
	plt := plot.New()
	plt.Title.Text = title
	plt.X.Label.Text = xlabel
	plt.Y.Label.Text = ylabel
	plt.X.Scale = plot.LogScale{}
	plt.Y.Scale = plot.LogScale{}
	plt.X.Tick.Marker = plot.LogTicks{Prec: -1}
	plt.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	return plt
}

// positiveXYs pairs the grid with sc-scaled values, dropping non-positive
// points so log axes stay valid.
func positiveXYs(grid, vals []float64, sc float64) plotter.XYs {
	var xys plotter.XYs
	for i := range grid {
		if grid[i] > 0 && vals[i]*sc > 0 {
			xys = append(xys, plotter.XY{X: grid[i], Y: vals[i] * sc})
		}
	}
	return xys
}

func addLine(plt *plot.Plot, name string, xys plotter.XYs) {
	if len(xys) == 0 {
		return
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		log.Printf("plot %s: %v", name, err)
		return
	}
	plt.Add(l)
	plt.Legend.Add(name, l)
}

func addScatter(plt *plot.Plot, name string, xys plotter.XYs) {
	if len(xys) == 0 {
		return
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		log.Printf("plot %s: %v", name, err)
		return
	}
	plt.Add(s)
	plt.Legend.Add(name, s)
}

func (p *Plotter) save(plt *plot.Plot, name string) {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	path := filepath.Join(p.Dir, name+".png")
	if err := plt.Save(6*vg.Inch, 4.5*vg.Inch, path); err != nil {
		log.Printf("save plot %s: %v", path, err)
	}
}
