package curve

// TransMode selects how the transmitted beam intensity of a curve is
// determined.
type TransMode int

const (
	// TransExternal uses a caller-supplied transmission value.
	TransExternal TransMode = iota
	// TransFromBeamCenter uses the beam-center ROI sum captured when the
	// curve was reduced from its 2D frame.
	TransFromBeamCenter
	// TransFromWAXS derives the transmission from the curve's own
	// high-angle intensity, a proxy for water scattering.
	TransFromWAXS
)

func (m TransMode) String() string {
	switch m {
	case TransExternal:
		return "external"
	case TransFromBeamCenter:
		return "beam center"
	case TransFromWAXS:
		return "WAXS"
	default:
		return "unknown"
	}
}

// Config carries the process-wide reduction constants. It is a plain value
// threaded explicitly through the pipeline, so independent batch runs can
// use different configurations without interfering.
type Config struct {
	TransMode TransMode

	// BeamSizeHW and BeamSizeHH are the beam-stop window half width and
	// half height in pixels, used when capturing the beam-center ROI from
	// a 2D frame.
	BeamSizeHW int
	BeamSizeHH int

	// WAXSThresh is the minimum intensity accepted without complaint when
	// the transmission is derived from WAXS data.
	WAXSThresh float64

	// PlotOffset is the vertical stacking factor applied by plotting
	// observers when drawing replicate curves over each other.
	PlotOffset float64
}

// DefaultConfig returns the constants of the beamline setup this reduction
// was written for.
func DefaultConfig() Config {
	return Config{
		TransMode:  TransFromWAXS,
		BeamSizeHW: 5,
		BeamSizeHH: 4,
		WAXSThresh: 300,
		PlotOffset: 1.5,
	}
}
