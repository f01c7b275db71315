// Package personality simulates agent character traits and emotions.
// Traits follow the Big Five model; emotions follow Plutchik's eight
// primaries. Every mutable quantity is an explicit struct field updated
// through a typed setter, never through reflection.
package personality

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// EmotionalState holds the eight primary emotions, each in [0, 1].
type EmotionalState struct {
	Joy          float64 `json:"joy"`
	Trust        float64 `json:"trust"`
	Fear         float64 `json:"fear"`
	Surprise     float64 `json:"surprise"`
	Sadness      float64 `json:"sadness"`
	Disgust      float64 `json:"disgust"`
	Anger        float64 `json:"anger"`
	Anticipation float64 `json:"anticipation"`
}

// DefaultEmotionalState returns the neutral baseline.
func DefaultEmotionalState() EmotionalState {
	return EmotionalState{Joy: 0.5, Trust: 0.5, Anticipation: 0.5}
}

// Stimulus is a per-emotion delta produced by an interaction.
type Stimulus struct {
	Joy          float64
	Trust        float64
	Fear         float64
	Surprise     float64
	Sadness      float64
	Disgust      float64
	Anger        float64
	Anticipation float64
}

// Apply adjusts each emotion by its stimulus delta scaled by intensity,
// clamping every field to [0, 1].
func (e *EmotionalState) Apply(s Stimulus, intensity float64) {
	e.Joy = clamp01(e.Joy + s.Joy*intensity)
	e.Trust = clamp01(e.Trust + s.Trust*intensity)
	e.Fear = clamp01(e.Fear + s.Fear*intensity)
	e.Surprise = clamp01(e.Surprise + s.Surprise*intensity)
	e.Sadness = clamp01(e.Sadness + s.Sadness*intensity)
	e.Disgust = clamp01(e.Disgust + s.Disgust*intensity)
	e.Anger = clamp01(e.Anger + s.Anger*intensity)
	e.Anticipation = clamp01(e.Anticipation + s.Anticipation*intensity)
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

// Trait is a single personality trait with a value in [0, 1].
type Trait struct {
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// InteractionRecord captures the emotional state right after an
// interaction was processed.
type InteractionRecord struct {
	Timestamp   time.Time      `json:"timestamp"`
	Interaction string         `json:"interaction"`
	Emotions    EmotionalState `json:"emotional_state"`
}

// DefaultIntensity scales stimuli produced by ProcessInteraction.
const DefaultIntensity = 0.1

var positiveWords = []string{"excellent", "great", "well done", "thanks", "perfect"}
var negativeWords = []string{"error", "problem", "bad", "failure", "wrong"}

// Personality simulates an agent's character and mood over time.
type Personality struct {
	Traits   map[string]Trait    `json:"traits"`
	Emotions EmotionalState      `json:"emotional_state"`
	History  []InteractionRecord `json:"emotional_history"`

	logger *zap.Logger
}

// New creates a personality with neutral Big Five traits and baseline
// emotions. A nil logger defaults to a no-op logger.
func New(logger *zap.Logger) *Personality {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Personality{
		Traits: map[string]Trait{
			"openness":          {Name: "openness", Value: 0.5, Description: "Openness to new experiences"},
			"conscientiousness": {Name: "conscientiousness", Value: 0.5, Description: "Diligence and organization"},
			"extraversion":      {Name: "extraversion", Value: 0.5, Description: "Outgoing energy"},
			"agreeableness":     {Name: "agreeableness", Value: 0.5, Description: "Cooperativeness"},
			"neuroticism":       {Name: "neuroticism", Value: 0.5, Description: "Emotional volatility"},
		},
		Emotions: DefaultEmotionalState(),
		History:  make([]InteractionRecord, 0),
		logger:   logger,
	}
}

// SetTrait sets a trait value, clamped to [0, 1].
func (p *Personality) SetTrait(name string, value float64) {
	trait, ok := p.Traits[name]
	if !ok {
		trait = Trait{Name: name}
	}
	trait.Value = clamp01(value)
	p.Traits[name] = trait
}

// TraitValue returns a trait value, 0 when the trait is unknown.
func (p *Personality) TraitValue(name string) float64 {
	return p.Traits[name].Value
}

// ProcessInteraction derives an emotional stimulus from keyword cues in
// the interaction text, applies it, and appends a history record.
func (p *Personality) ProcessInteraction(interaction string) {
	lower := strings.ToLower(interaction)

	var stimulus Stimulus
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			stimulus.Joy += 0.2
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			stimulus.Sadness += 0.2
		}
	}

	p.Emotions.Apply(stimulus, DefaultIntensity)
	p.History = append(p.History, InteractionRecord{
		Timestamp:   time.Now().UTC(),
		Interaction: interaction,
		Emotions:    p.Emotions,
	})
	p.logger.Debug("interaction processed",
		zap.Float64("joy", p.Emotions.Joy),
		zap.Float64("sadness", p.Emotions.Sadness))
}

// AdjustResponse colors a response according to the current traits and
// mood.
func (p *Personality) AdjustResponse(response string) string {
	switch extraversion := p.TraitValue("extraversion"); {
	case extraversion > 0.7:
		response = strings.ReplaceAll(response, ".", "!")
	case extraversion < 0.3:
		response = strings.ReplaceAll(response, "!", ".") + "..."
	}

	if p.TraitValue("openness") > 0.7 {
		response += "\n\nIncidentally, this brings something else to mind."
	}

	if p.Emotions.Joy > 0.7 {
		response = fmt.Sprintf("I am delighted to report that %s", response)
	} else if p.Emotions.Sadness > 0.7 {
		response = fmt.Sprintf("Unfortunately, %s", response)
	}
	return response
}

// Influence derives behavior weights from the current traits and mood.
func (p *Personality) Influence() map[string]float64 {
	return map[string]float64{
		"creativity":    p.TraitValue("openness")*0.7 + p.Emotions.Joy*0.3,
		"detail_focus":  p.TraitValue("conscientiousness")*0.8 + p.Emotions.Trust*0.2,
		"collaboration": p.TraitValue("agreeableness")*0.6 + p.Emotions.Trust*0.4,
		"risk_taking":   p.TraitValue("extraversion")*0.5 + p.Emotions.Anticipation*0.5,
	}
}

// SaveState writes the traits, emotions, and history to a JSON file.
func (p *Personality) SaveState(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal personality state: %w", err)
	}
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tempPath, path)
}

// LoadState restores the personality from a JSON file. A missing file
// is a no-op.
func (p *Personality) LoadState(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var loaded Personality
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to decode personality state: %w", err)
	}

	p.Traits = loaded.Traits
	p.Emotions = loaded.Emotions
	p.History = loaded.History
	if p.Traits == nil {
		p.Traits = make(map[string]Trait)
	}
	if p.History == nil {
		p.History = make([]InteractionRecord, 0)
	}
	return nil
}
