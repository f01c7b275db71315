package learning

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_TrackUpdates(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	l := testLearner(WithMetrics(m))

	for _, r := range []float64{1.0, -0.25, 0.5} {
		require.NoError(t, l.Update(expAt(Observation{"a": 1}, ActionAskQuestion, r, Observation{"a": 2})))
	}

	assert.InDelta(t, 3.0, testutil.ToFloat64(m.updatesTotal), 1e-9)
	assert.InDelta(t, l.ExplorationRate(), testutil.ToFloat64(m.explorationRate), 1e-12)
}
