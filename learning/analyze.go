package learning

// PerformanceReport summarizes the rewards in the experience log.
type PerformanceReport struct {
	AverageReward    float64 `json:"average_reward"`
	MaxReward        float64 `json:"max_reward"`
	MinReward        float64 `json:"min_reward"`
	TotalExperiences int     `json:"total_experiences"`
	ExplorationRate  float64 `json:"exploration_rate"`
}

// Analyze computes reward statistics over the full experience log.
// It returns nil when the log is empty; callers must treat "no data"
// as distinct from a report with zero rewards.
func (l *Learner) Analyze() *PerformanceReport {
	if len(l.log) == 0 {
		return nil
	}

	sum := l.log[0].Reward
	max := l.log[0].Reward
	min := l.log[0].Reward
	for _, exp := range l.log[1:] {
		sum += exp.Reward
		if exp.Reward > max {
			max = exp.Reward
		}
		if exp.Reward < min {
			min = exp.Reward
		}
	}

	return &PerformanceReport{
		AverageReward:    sum / float64(len(l.log)),
		MaxReward:        max,
		MinReward:        min,
		TotalExperiences: len(l.log),
		ExplorationRate:  l.explorationRate,
	}
}
