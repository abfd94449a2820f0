// Package pipeline sequences the reduction of detector measurements into a
// single corrected curve: per-detector load, SAXS/WAXS merge, transmission
// normalization, replicate averaging, buffer subtraction and the derived
// Guinier and pair-distance analyses.
//
// Each measurement is identified by a file prefix shared across detectors;
// every Source contributes one curve per prefix and all sources must sample
// the same angular grid.
package pipeline

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/floats"

	"solxs/pkg/analyze"
	"solxs/pkg/curve"
)

// ProteinWaterDensityRatio is the assumed ratio between average protein
// density and water density, used to derive the buffer volume fraction from
// the sample concentration. It is treated as a constant although it varies
// between proteins; see Fischer et al., Protein Sci. 13 (2004) 2825.
const ProteinWaterDensityRatio = 1.35

// initialRg seeds the Guinier window-tightening rule.
const initialRg = 15

// Source yields one detector's curve for a measurement file prefix. The
// pipeline treats the result as an opaque curve on the shared grid;
// detector.Source is the 2D-frame-backed implementation.
type Source interface {
	Extension() string
	Grid() []float64
	Load(prefix string) (*curve.Curve, error)
}

// Options carries the per-run knobs of the orchestrators. The zero value
// means: merge window determined from the data, least-squares merge scale,
// no reference transmission, no flat-text exports, default configuration,
// no observer.
type Options struct {
	QMin, QMax float64      // merge window bounds; <= 0 means determine from data
	FixScale   float64      // fixed merge scale when > 0
	RefTrans   float64      // rescale each curve's transmission to this when > 0
	Save1D     bool         // write per-curve .ave and final .ddd exports
	Config     curve.Config // zero value replaced by curve.DefaultConfig()
	Observer   Observer
}

func (o Options) config() curve.Config {
	if o.Config == (curve.Config{}) {
		return curve.DefaultConfig()
	}
	return o.Config
}

// Average reduces every file prefix across all detector sources, merging
// the detectors in order and normalizing the transmission, then averages
// the per-file curves into one replicate-averaged curve.
func Average(files []string, sources []Source, opts Options) (*curve.Curve, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("average: no files")
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("average: no detector sources")
	}
	for i := 1; i < len(sources); i++ {
		if !floats.Equal(sources[i-1].Grid(), sources[i].Grid()) {
			return nil, &curve.GridMismatchError{
				Op: "average",
				A:  sources[i-1].Extension(),
				B:  sources[i].Extension(),
			}
		}
	}

	cfg := opts.config()
	qmin, qmax, fixScale := opts.QMin, opts.QMax, opts.FixScale
	if qmin <= 0 {
		qmin = -1
	}
	if qmax <= 0 {
		qmax = -1
	}
	if fixScale <= 0 {
		fixScale = -1
	}

	var reduced []*curve.Curve
	for _, fn := range files {
		var s0 *curve.Curve
		for _, src := range sources {
			d0, err := src.Load(fn)
			if err != nil {
				return nil, fmt.Errorf("load %s%s: %w", fn, src.Extension(), err)
			}
			if opts.Save1D {
				if err := d0.Save(fn+src.Extension()+".ave", false); err != nil {
					return nil, err
				}
			}
			if s0 == nil {
				s0 = d0
				continue
			}
			if err := s0.Merge(d0, qmin, qmax, fixScale); err != nil {
				return nil, err
			}
			if opts.Observer != nil {
				opts.Observer.Merged(s0)
			}
		}
		if err := s0.SetTrans(cfg, -1, opts.RefTrans); err != nil {
			return nil, err
		}
		reduced = append(reduced, s0)
	}

	avg := reduced[0]
	if err := avg.Average(reduced[1:]); err != nil {
		return nil, err
	}
	if opts.Observer != nil {
		opts.Observer.Averaged(avg, reduced[1:])
	}
	if opts.Save1D {
		if err := avg.Save(avg.Label+".ddd", false); err != nil {
			return nil, err
		}
	}
	return avg, nil
}

// Process reduces the sample and buffer file sets independently and
// subtracts the averaged buffer from the averaged sample. conc is the
// sample concentration in mg/ml; the buffer is scaled by the remaining
// solvent volume fraction 1 - 0.001*conc/ProteinWaterDensityRatio on top
// of the transmission ratio.
func Process(sampleFiles, bufferFiles []string, sources []Source, opts Options, conc float64) (*curve.Curve, error) {
	ds, err := Average(sampleFiles, sources, opts)
	if err != nil {
		return nil, fmt.Errorf("process samples: %w", err)
	}
	db, err := Average(bufferFiles, sources, opts)
	if err != nil {
		return nil, fmt.Errorf("process buffers: %w", err)
	}

	scFactor := 1 - 0.001*conc/ProteinWaterDensityRatio
	if err := ds.SubtractBackground(db, scFactor); err != nil {
		return nil, err
	}
	if opts.Observer != nil {
		opts.Observer.Subtracted(ds, db, scFactor)
	}
	return ds, nil
}

// Result bundles the structural parameters derived from a corrected curve.
type Result struct {
	Guinier analyze.GuinierResult
	R       []float64 // real-space distances, 1 Å steps
	PR      []float64 // normalized pair-distance distribution
}

// Analyze runs the Guinier fit over [qs, qe] (window tightening unless
// fixQE) followed by the pair-distance transform truncated at qcutoff and
// extending to dmax Å.
func Analyze(c *curve.Curve, qs, qe float64, fixQE bool, qcutoff float64, dmax int, obs Observer) (*Result, error) {
	fit, err := analyze.Guinier(c, qs, qe, fixQE, initialRg)
	if err != nil {
		return nil, err
	}
	log.Printf("I0=%f, Rg=%f", fit.I0, fit.Rg)
	if obs != nil {
		obs.GuinierFitted(c, fit)
	}

	pr, err := analyze.PairDistance(c, fit.I0, fit.Rg, qcutoff, dmax)
	if err != nil {
		return nil, err
	}
	r := make([]float64, dmax)
	for i := range r {
		r[i] = float64(i)
	}
	if obs != nil {
		obs.PairDistanceComputed(r, pr)
	}
	return &Result{Guinier: fit, R: r, PR: pr}, nil
}
