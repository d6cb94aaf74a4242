package numconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt64FromFloat64SafeBoundary(t *testing.T) {
	n, err := Int64FromFloat64(float64(MaxSafeInt64))
	require.NoError(t, err)
	assert.Equal(t, MaxSafeInt64, n)

	_, err = Int64FromFloat64(float64(MaxSafeInt64) + 2)
	assert.Error(t, err)
}

func TestUint64FromFloat64SafeBoundary(t *testing.T) {
	n, err := Uint64FromFloat64(float64(MaxSafeUint64))
	require.NoError(t, err)
	assert.Equal(t, MaxSafeUint64, n)

	_, err = Uint64FromFloat64(-1)
	assert.Error(t, err)
}

func TestInt32FromStringTolerance(t *testing.T) {
	for _, in := range []string{"42", "4.2e1", "42.0"} {
		n, err := Int32FromString(in)
		require.NoError(t, err, in)
		assert.EqualValues(t, 42, n)
	}

	_, err := Int32FromString("42.5")
	assert.Error(t, err)
}

func TestFloat64FromStringSpecials(t *testing.T) {
	f, err := Float64FromString("NaN")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(f))

	f, err = Float64FromString("Infinity")
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, +1))

	f, err = Float64FromString("-Infinity")
	require.NoError(t, err)
	assert.True(t, math.IsInf(f, -1))

	f, err = Float64FromString("1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, f)
}

func TestFloat32FromFloat64Boundary(t *testing.T) {
	_, err := Float32FromFloat64(3.4028235e38)
	assert.NoError(t, err)

	_, err = Float32FromFloat64(3.5e38)
	assert.Error(t, err)
}

func TestIsIntegral(t *testing.T) {
	assert.True(t, IsIntegral(42.0))
	assert.False(t, IsIntegral(42.5))
	assert.False(t, IsIntegral(math.NaN()))
	assert.False(t, IsIntegral(math.Inf(1)))
}
