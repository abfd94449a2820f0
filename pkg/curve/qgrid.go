package curve

// ModQGrid nudges interior grid points so that every point sits at the
// center of its implied histogram bin. The azimuthal integration step
// reconstructs bin boundaries from the recurrence
//
//	width[0] = grid[1] - grid[0]
//	width[i] = 2*(grid[i]-grid[i-1]) - width[i-1]
//
// which only yields consistent boundaries if every transition between
// spacing regimes carries a corrected node. Whenever the input spacing
// changes, the transition point is shifted by (dqPrev+dqNext)/4 - dqPrev/2;
// uniformly spaced stretches are left untouched.
//
// The grid is modified in place and returned. Run this once, before the
// grid is handed to the integration step.
func ModQGrid(grid []float64) []float64 {
	if len(grid) < 3 {
		return grid
	}
	dq := grid[1] - grid[0]
	for i := 1; i < len(grid)-1; i++ {
		dq1 := grid[i+1] - grid[i]
		if dq1 != dq {
			grid[i] += (dq+dq1)/4 - dq/2
			dq = dq1
		}
	}
	return grid
}
