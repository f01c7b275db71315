package learning

import (
	"sort"
	"strconv"
	"strings"

	"github.com/fcrew/fcrew/types"
)

// Observation is a set of named numeric features describing the agent's
// current situation. Insertion order is irrelevant: two observations
// with the same name/value pairs encode to the same StateKey.
type Observation map[string]float64

// StateKey is the canonical string form of an Observation, used as the
// Q-table's outer key.
type StateKey string

// EncodeState canonicalizes an observation into a deterministic key by
// sorting feature names and serializing the name/value pairs.
// NaN and infinite values are encoded as opaque floats, not rejected.
func EncodeState(obs Observation) StateKey {
	names := make([]string, 0, len(obs))
	for name := range obs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteByte('[')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(name))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(obs[name], 'g', -1, 64))
	}
	b.WriteByte(']')
	return StateKey(b.String())
}

// ObservationFrom converts an untyped feature map (typically decoded
// JSON) into an Observation. A non-numeric value fails with
// INVALID_OBSERVATION; nothing is converted partially.
func ObservationFrom(raw map[string]any) (Observation, error) {
	obs := make(Observation, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case float64:
			obs[name] = v
		case float32:
			obs[name] = float64(v)
		case int:
			obs[name] = float64(v)
		case int64:
			obs[name] = float64(v)
		default:
			return nil, types.NewErrorf(types.ErrInvalidObservation,
				"feature %q has non-numeric value %T", name, value)
		}
	}
	return obs, nil
}

// Clone returns an independent copy of the observation. Cloning a nil
// observation yields an empty, writable one.
func (o Observation) Clone() Observation {
	out := make(Observation, len(o))
	for name, value := range o {
		out[name] = value
	}
	return out
}
