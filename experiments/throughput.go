package experiments

import (
	"context"
	"kalah/config"
	"kalah/experiments/metrics"

	"github.com/rs/zerolog/log"
)

// RunThroughputExperiment measures search speed at every depth up to maxDepth.
func RunThroughputExperiment(ctx context.Context, s Settings, maxDepth int) (Report, error) {
	configs := []metrics.AgentConfig{}
	for depth := 1; depth <= maxDepth; depth++ {
		configs = append(configs, metrics.AgentConfig{ID: depth, Kind: KindMinimax, Depth: depth, Evaluation: config.EvaluationStoreLead})
	}
	// Same config for both players in each game
	// for the same playing strength and similar game length
	matchUps := [][]metrics.AgentConfig{}
	for _, c := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{c, c})
	}

	report, err := runExperiment(ctx, "throughput", s, configs, matchUps)
	if err != nil {
		return Report{}, err
	}
	for _, c := range configs {
		log.Info().Int("depth", c.Depth).Msgf("%.0f nodes/s", report.Throughput[c.ID])
	}
	return report, nil
}
