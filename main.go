// Command solxs reduces sets of 1D solution scattering curves: merge the
// detectors for each exposure, normalize transmission, average replicates,
// subtract the buffer and run the Guinier / pair-distance analysis.
//
// The input files are flat-text curves (q, I, sigma per line) named
// <prefix><ext>, one extension per detector. Frame integration happens
// upstream; see pkg/detector for the 2D path.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"solxs/pkg/curve"
	"solxs/pkg/pipeline"
	"solxs/pkg/plotobs"
)

// fileSource serves pre-integrated curves from flat-text files.
type fileSource struct {
	ext  string
	grid []float64
}

func (s *fileSource) Extension() string { return s.ext }
func (s *fileSource) Grid() []float64   { return s.grid }

func (s *fileSource) Load(prefix string) (*curve.Curve, error) {
	return curve.Load(prefix + s.ext)
}

func main() {
	samples := flag.String("samples", "", "Comma-separated sample file prefixes")
	buffers := flag.String("buffers", "", "Comma-separated buffer file prefixes")
	exts := flag.String("exts", "_SAXS.dat,_WAXS.dat", "Per-detector file extensions, merge order")
	conc := flag.Float64("conc", 0, "Sample concentration in mg/ml")
	qmin := flag.Float64("qmin", -1, "Lower merge window bound (1/Å), <=0 = from data")
	qmax := flag.Float64("qmax", -1, "Upper merge window bound (1/Å), <=0 = from data")
	fixScale := flag.Float64("fix-scale", -1, "Fixed merge scale, <=0 = least squares")
	refTrans := flag.Float64("ref-trans", -1, "Reference transmission, <=0 = none")
	save1d := flag.Bool("save1d", false, "Write per-curve .ave and averaged .ddd files")
	out := flag.String("out", "", "Path for the final subtracted curve")
	plots := flag.String("plots", "", "Directory for diagnostic plots")
	qs := flag.Float64("qs", 0, "Guinier window start (1/Å); 0 disables the analysis")
	qe := flag.Float64("qe", 0.05, "Guinier window end (1/Å)")
	fixQE := flag.Bool("fix-qe", false, "Do not tighten the Guinier window to 1/Rg")
	qcutoff := flag.Float64("qcutoff", 0.3, "Upper q for the pair-distance transform (1/Å)")
	dmax := flag.Int("dmax", 150, "Maximum pair distance (Å)")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	sampleFiles := splitList(*samples)
	if len(sampleFiles) == 0 {
		fmt.Println("Usage: solxs -samples s1,s2 [-buffers b1,b2] [-exts _SAXS.dat,_WAXS.dat] [options]")
		os.Exit(1)
	}

	sources, err := openSources(sampleFiles[0], splitList(*exts))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open detector sources: %v\n", err)
		os.Exit(1)
	}

	opts := pipeline.Options{
		QMin:     *qmin,
		QMax:     *qmax,
		FixScale: *fixScale,
		RefTrans: *refTrans,
		Save1D:   *save1d,
	}
	if *plots != "" {
		if err := os.MkdirAll(*plots, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create plot directory: %v\n", err)
			os.Exit(1)
		}
		opts.Observer = plotobs.New(*plots)
	}

	var result *curve.Curve
	bufferFiles := splitList(*buffers)
	if len(bufferFiles) > 0 {
		result, err = pipeline.Process(sampleFiles, bufferFiles, sources, opts, *conc)
	} else {
		result, err = pipeline.Average(sampleFiles, sources, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Reduction failed: %v\n", err)
		os.Exit(1)
	}

	if *out != "" {
		if err := result.Save(*out, false); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save %s: %v\n", *out, err)
			os.Exit(1)
		}
		log.Printf("Saved %s", *out)
	}

	if *qs > 0 {
		res, err := pipeline.Analyze(result, *qs, *qe, *fixQE, *qcutoff, *dmax, opts.Observer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("I0 = %.4g\n", res.Guinier.I0)
		fmt.Printf("Rg = %.4g Å over q in (%.4f, %.4f), %d points\n",
			res.Guinier.Rg, res.Guinier.QS, res.Guinier.QE, res.Guinier.NPoints)
	}
}

// openSources builds one source per extension, taking the common grid from
// the first prefix's files. Grid consistency across the remaining files is
// checked during reduction.
func openSources(firstPrefix string, exts []string) ([]pipeline.Source, error) {
	if len(exts) == 0 {
		return nil, fmt.Errorf("no detector extensions")
	}
	sources := make([]pipeline.Source, 0, len(exts))
	for _, ext := range exts {
		c, err := curve.Load(firstPrefix + ext)
		if err != nil {
			return nil, err
		}
		sources = append(sources, &fileSource{ext: ext, grid: c.Grid})
	}
	return sources, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
