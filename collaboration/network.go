// Package collaboration tracks who works well with whom. It keeps a
// directed network of agents, their skills, and weighted collaboration
// links, and answers partner-selection and team-assembly queries.
package collaboration

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/fcrew/fcrew/types"
)

// Skill is a named competence with a level in [0, 1].
type Skill struct {
	Name        string   `json:"name"`
	Level       float64  `json:"level"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// Link is a directed collaboration edge between two agents.
type Link struct {
	From            string    `json:"agent_from"`
	To              string    `json:"agent_to"`
	Strength        float64   `json:"strength"`
	LastInteraction time.Time `json:"last_interaction"`
	Successes       int       `json:"successful_collaborations"`
	Failures        int       `json:"failed_collaborations"`
}

// defaultLinkStrength is assumed for agent pairs with no recorded link.
const defaultLinkStrength = 0.5

// strengthStep is the per-outcome adjustment applied by RecordOutcome.
const strengthStep = 0.1

// Network is a directed collaboration graph over agents.
// Not safe for concurrent use.
type Network struct {
	Agents map[string]map[string]Skill `json:"agents"`
	Links  []*Link                     `json:"links"`
	Teams  map[string][]string         `json:"teams"`

	logger *zap.Logger
}

// NewNetwork creates an empty collaboration network. A nil logger
// defaults to a no-op logger.
func NewNetwork(logger *zap.Logger) *Network {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Network{
		Agents: make(map[string]map[string]Skill),
		Links:  make([]*Link, 0),
		Teams:  make(map[string][]string),
		logger: logger,
	}
}

// AddAgent registers an agent with its skill set, replacing any
// previous registration.
func (n *Network) AddAgent(agentID string, skills map[string]Skill) {
	if skills == nil {
		skills = make(map[string]Skill)
	}
	n.Agents[agentID] = skills
	n.logger.Debug("agent added", zap.String("agent", agentID), zap.Int("skills", len(skills)))
}

// AddLink adds a directed collaboration link with the given strength.
func (n *Network) AddLink(from, to string, strength float64) {
	n.Links = append(n.Links, &Link{
		From:            from,
		To:              to,
		Strength:        clamp01(strength),
		LastInteraction: time.Now().UTC(),
	})
}

// RecordOutcome updates the first matching link's statistics: success
// strengthens the link, failure weakens it, both clamped to [0, 1].
func (n *Network) RecordOutcome(from, to string, success bool) {
	for _, link := range n.Links {
		if link.From != from || link.To != to {
			continue
		}
		if success {
			link.Successes++
			link.Strength = clamp01(link.Strength + strengthStep)
		} else {
			link.Failures++
			link.Strength = clamp01(link.Strength - strengthStep)
		}
		link.LastInteraction = time.Now().UTC()
		return
	}
}

// linkStrength returns the strength from one agent to another, falling
// back to the default for unknown pairs.
func (n *Network) linkStrength(from, to string) float64 {
	for _, link := range n.Links {
		if link.From == from && link.To == to {
			return link.Strength
		}
	}
	return defaultLinkStrength
}

// BestCollaborator picks the partner whose skills best match the
// requirements, weighting skill coverage at 0.7 and link strength at
// 0.3. The second return is false when the agent is unknown or no
// candidate exists.
func (n *Network) BestCollaborator(agentID string, requiredSkills []string) (string, bool) {
	if _, ok := n.Agents[agentID]; !ok || len(requiredSkills) == 0 {
		return "", false
	}

	best := ""
	bestScore := 0.0
	for _, candidate := range n.sortedAgentIDs() {
		if candidate == agentID {
			continue
		}
		skills := n.Agents[candidate]

		skillScore := 0.0
		for _, name := range requiredSkills {
			skillScore += skills[name].Level
		}
		skillScore /= float64(len(requiredSkills))

		score := skillScore*0.7 + n.linkStrength(agentID, candidate)*0.3
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// OptimalTeam greedily assembles up to size agents covering the skill
// requirements, preferring agents that both contribute missing skills
// and collaborate well with the team so far.
func (n *Network) OptimalTeam(requirements map[string]float64, size int) []string {
	team := make([]string, 0, size)
	remaining := make(map[string]float64, len(requirements))
	for name, level := range requirements {
		remaining[name] = level
	}

	for len(team) < size && len(remaining) > 0 {
		bestAgent := ""
		bestScore := 0.0

		for _, agentID := range n.sortedAgentIDs() {
			if contains(team, agentID) {
				continue
			}
			skills := n.Agents[agentID]

			score := 0.0
			for name, required := range remaining {
				if skill, ok := skills[name]; ok {
					score += minFloat(skill.Level, required)
				}
			}

			if len(team) > 0 {
				collab := 0.0
				for _, member := range team {
					for _, link := range n.Links {
						if (link.From == agentID && link.To == member) ||
							(link.From == member && link.To == agentID) {
							collab += link.Strength
						}
					}
				}
				score += collab / float64(len(team)) * 0.3
			}

			if score > bestScore {
				bestScore = score
				bestAgent = agentID
			}
		}

		if bestAgent == "" {
			break
		}
		team = append(team, bestAgent)

		for name := range remaining {
			if skill, ok := n.Agents[bestAgent][name]; ok {
				remaining[name] = maxFloat(0, remaining[name]-skill.Level)
				if remaining[name] == 0 {
					delete(remaining, name)
				}
			}
		}
	}
	return team
}

// Analysis summarizes the network's structure.
type Analysis struct {
	Density    float64            `json:"density"`
	Centrality map[string]float64 `json:"centrality"`
}

// Analyze computes the directed edge density and per-agent degree
// centrality (in-degree plus out-degree over distinct neighbors,
// normalized by n-1).
func (n *Network) Analyze() Analysis {
	analysis := Analysis{Centrality: make(map[string]float64, len(n.Agents))}

	count := len(n.Agents)
	if count == 0 {
		return analysis
	}
	for agentID := range n.Agents {
		analysis.Centrality[agentID] = 0
	}
	if count < 2 {
		return analysis
	}

	edges := make(map[[2]string]struct{}, len(n.Links))
	for _, link := range n.Links {
		edges[[2]string{link.From, link.To}] = struct{}{}
	}

	degree := make(map[string]int, count)
	for edge := range edges {
		degree[edge[0]]++
		degree[edge[1]]++
	}

	analysis.Density = float64(len(edges)) / float64(count*(count-1))
	for agentID := range n.Agents {
		analysis.Centrality[agentID] = float64(degree[agentID]) / float64(count-1)
	}
	return analysis
}

// Save writes the network (agents, links, teams) to a JSON file.
func (n *Network) Save(path string) error {
	data, err := json.MarshalIndent(n, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tempPath, path)
}

// Load restores the network from a JSON file. A missing file is a
// no-op; a malformed one fails with CORRUPT_PERSISTED_STATE and leaves
// the network unchanged.
func (n *Network) Load(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var loaded Network
	if err := json.Unmarshal(data, &loaded); err != nil {
		return types.NewErrorf(types.ErrCorruptState,
			"network file %s is not valid JSON", path).WithCause(err)
	}

	n.Agents = loaded.Agents
	n.Links = loaded.Links
	n.Teams = loaded.Teams
	if n.Agents == nil {
		n.Agents = make(map[string]map[string]Skill)
	}
	if n.Links == nil {
		n.Links = make([]*Link, 0)
	}
	if n.Teams == nil {
		n.Teams = make(map[string][]string)
	}
	return nil
}

// sortedAgentIDs returns agent IDs in lexical order so scoring scans
// are deterministic across runs.
func (n *Network) sortedAgentIDs() []string {
	ids := make([]string, 0, len(n.Agents))
	for id := range n.Agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
