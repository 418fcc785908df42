package pipeline

import "time"

// Statistics summarizes the build history of one orchestrator.
type Statistics struct {
	TotalBuilds      int           `json:"totalBuilds"`
	SuccessfulBuilds int           `json:"successfulBuilds"`
	FailedBuilds     int           `json:"failedBuilds"`
	SuccessRate      float64       `json:"successRate"`
	AverageDuration  time.Duration `json:"averageDuration,omitempty"`
	FastestBuild     time.Duration `json:"fastestBuild,omitempty"`
	SlowestBuild     time.Duration `json:"slowestBuild,omitempty"`
	LastSuccess      *time.Time    `json:"lastSuccess,omitempty"`
	LastFailure      *time.Time    `json:"lastFailure,omitempty"`
}

// Statistics computes summary figures over the recorded history.
func (o *Orchestrator) Statistics() Statistics {
	stats := Statistics{TotalBuilds: len(o.history)}
	if len(o.history) == 0 {
		return stats
	}

	var total time.Duration
	for i := range o.history {
		r := &o.history[i]
		if !r.Success {
			stats.FailedBuilds++
			ts := r.Timestamp
			stats.LastFailure = &ts
			continue
		}
		stats.SuccessfulBuilds++
		total += r.Duration
		if stats.FastestBuild == 0 || r.Duration < stats.FastestBuild {
			stats.FastestBuild = r.Duration
		}
		if r.Duration > stats.SlowestBuild {
			stats.SlowestBuild = r.Duration
		}
		ts := r.Timestamp
		stats.LastSuccess = &ts
	}

	stats.SuccessRate = float64(stats.SuccessfulBuilds) / float64(stats.TotalBuilds) * 100
	if stats.SuccessfulBuilds > 0 {
		stats.AverageDuration = total / time.Duration(stats.SuccessfulBuilds)
	}
	return stats
}
