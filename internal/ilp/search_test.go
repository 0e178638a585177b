package ilp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_firstFractional(t *testing.T) {
	tests := []struct {
		name         string
		x            []float64
		integrality  []bool
		wantBranchOn int
		wantFeasible bool
	}{
		{
			name:         "no integrality constraints",
			x:            []float64{1, 2, 3, 4.5},
			integrality:  []bool{false, false, false, false},
			wantBranchOn: 0,
			wantFeasible: true,
		},
		{
			name:         "one fractional integer variable",
			x:            []float64{1, 2, 3, 4.5},
			integrality:  []bool{false, false, false, true},
			wantBranchOn: 3,
			wantFeasible: false,
		},
		{
			name:         "first fractional wins even with a later one",
			x:            []float64{1.5, 2, 3, 4.5},
			integrality:  []bool{true, false, false, true},
			wantBranchOn: 0,
			wantFeasible: false,
		},
		{
			name:         "all integer-constrained values already whole",
			x:            []float64{1, 2, 3, 4},
			integrality:  []bool{true, true, true, true},
			wantBranchOn: 0,
			wantFeasible: true,
		},
		{
			name:         "within tolerance of an integer counts as whole",
			x:            []float64{1.0000000001, 2},
			integrality:  []bool{true, true},
			wantBranchOn: 0,
			wantFeasible: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			branchOn, feasible := firstFractional(tt.x, tt.integrality)
			assert.Equal(t, tt.wantFeasible, feasible)
			if !feasible {
				assert.Equal(t, tt.wantBranchOn, branchOn)
			}
		})
	}
}
