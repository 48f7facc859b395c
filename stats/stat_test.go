package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectOutliers(t *testing.T) {
	y := []float64{1, 1, 1, 1, 1, 1, 1, 1, 50, 1}
	idxs := DetectOutliers(y, 0.1, 0.9, 1.0)
	assert.Contains(t, idxs, 8)

	flat := []float64{2, 2, 2, 2, 2}
	// a constant series places the fences on the series itself
	idxs = DetectOutliers(flat, 0.0, 1.0, 1.0)
	assert.Len(t, idxs, 5)
}

func TestRollingStdDev(t *testing.T) {
	y := []float64{1, 1, 1, 5, 1, 1}
	res, err := RollingStdDev(y, 3)
	require.NoError(t, err)
	require.Len(t, res, 4)
	assert.Equal(t, 0.0, res[0])
	assert.Greater(t, res[1], 0.0)

	_, err = RollingStdDev(y, 7)
	assert.ErrorIs(t, err, ErrWindowTooLarge)
}
