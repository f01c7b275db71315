package collaboration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcrew/fcrew/types"
)

func sampleNetwork() *Network {
	n := NewNetwork(nil)
	n.AddAgent("researcher", map[string]Skill{
		"analysis": {Name: "analysis", Level: 0.9},
		"writing":  {Name: "writing", Level: 0.4},
	})
	n.AddAgent("writer", map[string]Skill{
		"writing": {Name: "writing", Level: 0.9},
	})
	n.AddAgent("planner", map[string]Skill{
		"planning": {Name: "planning", Level: 0.8},
		"analysis": {Name: "analysis", Level: 0.3},
	})
	return n
}

func TestRecordOutcome(t *testing.T) {
	t.Parallel()

	n := sampleNetwork()
	n.AddLink("researcher", "writer", 0.5)

	n.RecordOutcome("researcher", "writer", true)
	link := n.Links[0]
	assert.Equal(t, 1, link.Successes)
	assert.InDelta(t, 0.6, link.Strength, 1e-12)

	n.RecordOutcome("researcher", "writer", false)
	assert.Equal(t, 1, link.Failures)
	assert.InDelta(t, 0.5, link.Strength, 1e-12)

	// Repeated successes saturate at 1.0.
	for i := 0; i < 10; i++ {
		n.RecordOutcome("researcher", "writer", true)
	}
	assert.Equal(t, 1.0, link.Strength)
}

func TestBestCollaborator(t *testing.T) {
	t.Parallel()

	n := sampleNetwork()

	partner, ok := n.BestCollaborator("researcher", []string{"writing"})
	require.True(t, ok)
	assert.Equal(t, "writer", partner)

	partner, ok = n.BestCollaborator("writer", []string{"analysis"})
	require.True(t, ok)
	assert.Equal(t, "researcher", partner)

	_, ok = n.BestCollaborator("ghost", []string{"writing"})
	assert.False(t, ok)
}

func TestBestCollaborator_LinkStrengthBreaksSkillTies(t *testing.T) {
	t.Parallel()

	n := NewNetwork(nil)
	skills := map[string]Skill{"coding": {Name: "coding", Level: 0.8}}
	n.AddAgent("lead", nil)
	n.AddAgent("dev_a", skills)
	n.AddAgent("dev_b", skills)
	n.AddLink("lead", "dev_b", 0.9)

	partner, ok := n.BestCollaborator("lead", []string{"coding"})
	require.True(t, ok)
	assert.Equal(t, "dev_b", partner)
}

func TestOptimalTeam(t *testing.T) {
	t.Parallel()

	n := sampleNetwork()

	team := n.OptimalTeam(map[string]float64{"analysis": 0.8, "writing": 0.8}, 2)
	assert.ElementsMatch(t, []string{"researcher", "writer"}, team)

	// Size caps the team even with requirements left over.
	team = n.OptimalTeam(map[string]float64{"analysis": 5, "writing": 5, "planning": 5}, 1)
	assert.Len(t, team, 1)

	// No one covers the skill: nobody scores, team stays empty.
	team = n.OptimalTeam(map[string]float64{"juggling": 1.0}, 3)
	assert.Empty(t, team)
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	n := sampleNetwork()
	n.AddLink("researcher", "writer", 0.5)
	n.AddLink("writer", "researcher", 0.5)

	analysis := n.Analyze()
	// 2 directed edges out of 3*2 possible.
	assert.InDelta(t, 2.0/6.0, analysis.Density, 1e-12)
	assert.InDelta(t, 1.0, analysis.Centrality["researcher"], 1e-12)
	assert.InDelta(t, 1.0, analysis.Centrality["writer"], 1e-12)
	assert.Zero(t, analysis.Centrality["planner"])
}

func TestAnalyze_Empty(t *testing.T) {
	t.Parallel()

	analysis := NewNetwork(nil).Analyze()
	assert.Zero(t, analysis.Density)
	assert.Empty(t, analysis.Centrality)
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "network.json")

	n := sampleNetwork()
	n.AddLink("researcher", "writer", 0.5)
	n.Teams["core"] = []string{"researcher", "writer"}
	require.NoError(t, n.Save(path))

	restored := NewNetwork(nil)
	require.NoError(t, restored.Load(path))
	assert.Equal(t, n.Agents, restored.Agents)
	assert.Len(t, restored.Links, 1)
	assert.Equal(t, n.Teams, restored.Teams)
}

func TestLoad_MissingAndCorrupt(t *testing.T) {
	t.Parallel()

	n := sampleNetwork()
	require.NoError(t, n.Load(filepath.Join(t.TempDir(), "absent.json")))
	assert.Len(t, n.Agents, 3)

	path := filepath.Join(t.TempDir(), "network.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	err := n.Load(path)
	require.Error(t, err)
	assert.Equal(t, types.ErrCorruptState, types.GetErrorCode(err))
	assert.Len(t, n.Agents, 3, "corrupt load leaves the network unchanged")
}
