package learning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcrew/fcrew/types"
)

func TestEncodeState_OrderIndependent(t *testing.T) {
	t.Parallel()

	a := Observation{}
	a["progress"] = 0.4
	a["complexity"] = 0.9
	a["urgency"] = 0.1

	b := Observation{}
	b["urgency"] = 0.1
	b["complexity"] = 0.9
	b["progress"] = 0.4

	assert.Equal(t, EncodeState(a), EncodeState(b))
}

func TestEncodeState_DistinguishesContent(t *testing.T) {
	t.Parallel()

	base := Observation{"progress": 0.4, "urgency": 0.1}

	assert.NotEqual(t, EncodeState(base), EncodeState(Observation{"progress": 0.5, "urgency": 0.1}))
	assert.NotEqual(t, EncodeState(base), EncodeState(Observation{"progress": 0.4, "effort": 0.1}))
	assert.NotEqual(t, EncodeState(base), EncodeState(Observation{"progress": 0.4}))
}

func TestEncodeState_EmptyAndNil(t *testing.T) {
	t.Parallel()

	assert.Equal(t, EncodeState(nil), EncodeState(Observation{}))
}

func TestEncodeState_NonFiniteValues(t *testing.T) {
	t.Parallel()

	// NaN and Inf are treated as opaque floats, never a panic.
	nan := Observation{"x": math.NaN()}
	inf := Observation{"x": math.Inf(1)}

	assert.NotPanics(t, func() { EncodeState(nan) })
	assert.Equal(t, EncodeState(nan), EncodeState(Observation{"x": math.NaN()}))
	assert.NotEqual(t, EncodeState(nan), EncodeState(inf))
}

func TestObservationFrom(t *testing.T) {
	t.Parallel()

	obs, err := ObservationFrom(map[string]any{
		"progress": 0.5,
		"retries":  3,
		"budget":   int64(7),
		"ratio":    float32(0.25),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, obs["progress"], 1e-12)
	assert.InDelta(t, 3.0, obs["retries"], 1e-12)
	assert.InDelta(t, 7.0, obs["budget"], 1e-12)
	assert.InDelta(t, 0.25, obs["ratio"], 1e-6)
}

func TestObservationFrom_NonNumeric(t *testing.T) {
	t.Parallel()

	obs, err := ObservationFrom(map[string]any{
		"progress": 0.5,
		"owner":    "alice",
	})
	require.Error(t, err)
	assert.Nil(t, obs)
	assert.Equal(t, types.ErrInvalidObservation, types.GetErrorCode(err))
}
