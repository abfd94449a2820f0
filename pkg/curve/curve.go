// Package curve implements one-dimensional scattering curve reduction:
// histogram grid correction, transmission normalization, detector merging,
// replicate averaging and background subtraction over a shared angular grid.
//
// Every combining operation (Merge, Average, SubtractBackground) requires
// its operands to share the grid element-wise; a mismatch is reported as a
// GridMismatchError and the batch item should be abandoned.
package curve

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Overlap holds the angular sub-range of a merge window and the two raw
// pre-merge intensities inside it. It is retained for diagnostic plotting
// only and is never read back by the reduction itself.
type Overlap struct {
	Q        []float64
	RawSelf  []float64
	RawOther []float64
}

// Curve is a one-dimensional scattering intensity profile over an angular
// grid, with per-point uncertainty. The grid (the "q" axis) is strictly
// increasing and index-aligned with Intensity and Err.
type Curve struct {
	Grid      []float64
	Intensity []float64
	Err       []float64

	// Trans is the transmitted beam intensity proxy used to cross-normalize
	// exposures; -1 means not yet determined.
	Trans float64

	// ROI is the beam-center region-of-interest intensity sum captured when
	// the curve was reduced from a 2D frame. TransFromBeamCenter reads it.
	ROI float64

	Label string

	// Comments is the append-only provenance log: "#"-prefixed lines
	// recording every transformation applied to the curve. Logs inherited
	// from combined curves gain an extra "#" per nesting level.
	Comments string

	// Overlap is set by Merge and retained for diagnostics; nil otherwise.
	Overlap *Overlap
}

// New returns an empty curve on the given grid with transmission unset.
func New(grid []float64) *Curve {
	return &Curve{
		Grid:      grid,
		Intensity: make([]float64, len(grid)),
		Err:       make([]float64, len(grid)),
		Trans:     -1,
	}
}

// sameGrid reports element-wise equality, the hard invariant for combining
// two curves.
func sameGrid(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// commonName reduces two labels to their shared leading substring, the
// naming rule applied when curves are merged or averaged. Separator
// characters left dangling by the cut are trimmed; if nothing is shared the
// first label wins.
func commonName(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	s := strings.TrimRight(a[:i], "-_. ")
	if s == "" {
		return a
	}
	return s
}

// nest re-prefixes a provenance block so logs inherited from a combined
// curve read as nested comments.
func nest(comments string) string {
	return strings.ReplaceAll(comments, "# ", "## ")
}

// Scale multiplies intensity and uncertainty by sc. A non-positive factor
// is accepted with a warning; the scaling is recorded in the provenance log
// either way.
func (c *Curve) Scale(sc float64) {
	if sc <= 0 {
		log.Printf("scaling factor is non-positive: %f", sc)
	}
	for i := range c.Intensity {
		c.Intensity[i] *= sc
		c.Err[i] *= sc
	}
	c.Comments += fmt.Sprintf("# data is scaled by %f.\n", sc)
}

// Save writes the curve as fixed-width text rows (angular position,
// intensity, uncertainty) followed by the full provenance log. Rows with
// non-positive intensity are dropped unless keepZero is set.
func (c *Curve) Save(path string, keepZero bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save curve: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := range c.Grid {
		if !keepZero && c.Intensity[i] <= 0 {
			continue
		}
		fmt.Fprintf(w, "%12.5f %12.5f %12.5f\n", c.Grid[i], c.Intensity[i], c.Err[i])
	}
	if _, err := w.WriteString(c.Comments); err != nil {
		return fmt.Errorf("save curve: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("save curve: %w", err)
	}
	return nil
}

// Load reads a curve previously written by Save. The trailing comment block
// (lines starting with "#", arbitrary length) is kept as the provenance log;
// blank lines are ignored.
func Load(path string) (*Curve, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load curve: %w", err)
	}
	defer f.Close()

	c := &Curve{
		Trans: -1,
		Label: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			c.Comments += line + "\n"
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) != 3 {
			return nil, fmt.Errorf("load curve: malformed row %q", line)
		}
		var row [3]float64
		for i, fd := range fields {
			v, err := strconv.ParseFloat(fd, 64)
			if err != nil {
				return nil, fmt.Errorf("load curve: %w", err)
			}
			row[i] = v
		}
		c.Grid = append(c.Grid, row[0])
		c.Intensity = append(c.Intensity, row[1])
		c.Err = append(c.Err, row[2])
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("load curve: %w", err)
	}
	return c, nil
}
