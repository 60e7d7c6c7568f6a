package experiments

import (
	"context"
	"fmt"
	"kalah/agent"
	"kalah/config"
	"kalah/engine"
	"kalah/experiments/metrics"
	"kalah/game"
	"kalah/kalah"
	"kalah/searcher"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	KindMinimax  = "minimax"
	KindSampling = "sampling"
	KindRandom   = "random"
)

type Settings struct {
	NumGames  int // Per match up
	MaxTurns  int
	OutputDir string
	Workers   int // Games played at once, runtime.NumCPU() if zero
}

func SettingsFrom(c config.Config) Settings {
	return Settings{
		NumGames:  c.NumGames,
		MaxTurns:  c.MaxTurns,
		OutputDir: c.OutputDir,
	}
}

// Report summarizes an experiment. Maps are keyed by AgentConfig.ID.
type Report struct {
	Dir        string
	Games      int
	Wins       map[int]int
	Draws      int
	Throughput map[int]float64 // Searched nodes per second
}

// RunDepthExperiment pairs shallower and random agents against the baseline
// depth.
func RunDepthExperiment(ctx context.Context, s Settings, baselineDepth int) (Report, error) {
	baseline := metrics.AgentConfig{ID: 0, Kind: KindMinimax, Depth: baselineDepth, Evaluation: config.EvaluationStoreLead}
	configs := []metrics.AgentConfig{
		{ID: 1, Kind: KindRandom, Seed: 1},
	}
	for i, depth := range []int{2, 4, 6} {
		if depth >= baselineDepth {
			break
		}
		configs = append(configs, metrics.AgentConfig{ID: i + 2, Kind: KindMinimax, Depth: depth, Evaluation: config.EvaluationStoreLead})
	}

	// Each matchup pairs a challenger against the baseline agent
	matchUps := [][]metrics.AgentConfig{}
	for _, c := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, c})
	}

	return runExperiment(ctx, "depth", s, append(configs, baseline), matchUps)
}

// RunEvaluationExperiment pits the two static evaluations against each other
// at the same depth.
func RunEvaluationExperiment(ctx context.Context, s Settings, depth int) (Report, error) {
	storeLead := metrics.AgentConfig{ID: 0, Kind: KindMinimax, Depth: depth, Evaluation: config.EvaluationStoreLead}
	stores := metrics.AgentConfig{ID: 1, Kind: KindMinimax, Depth: depth, Evaluation: config.EvaluationStores}
	matchUps := [][]metrics.AgentConfig{{storeLead, stores}}
	return runExperiment(ctx, "evaluation", s, []metrics.AgentConfig{storeLead, stores}, matchUps)
}

// RunLayerExperiment compares strictly alternating layers with layers that
// follow the player to move.
func RunLayerExperiment(ctx context.Context, s Settings, depth int) (Report, error) {
	parity := metrics.AgentConfig{ID: 0, Kind: KindMinimax, Depth: depth, Evaluation: config.EvaluationStoreLead}
	turnAware := metrics.AgentConfig{ID: 1, Kind: KindMinimax, Depth: depth, TurnAware: true, Evaluation: config.EvaluationStoreLead}
	matchUps := [][]metrics.AgentConfig{{parity, turnAware}}
	return runExperiment(ctx, "layers", s, []metrics.AgentConfig{parity, turnAware}, matchUps)
}

type job struct {
	id      int
	configs [2]metrics.AgentConfig // Indexed by seat
}

func runExperiment(ctx context.Context, name string, s Settings, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (Report, error) {
	startTime := time.Now()
	log.Info().Msgf("starting %s experiment...", name)

	// Alternate seats so neither agent always moves first
	jobs := []job{}
	for _, matchup := range matchUps {
		for i := 0; i < s.NumGames; i++ {
			seats := [2]metrics.AgentConfig{matchup[0], matchup[1]}
			if i%2 == 1 {
				seats[0], seats[1] = seats[1], seats[0]
			}
			jobs = append(jobs, job{id: len(jobs) + 1, configs: seats})
		}
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	var mu sync.Mutex
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	nodes := map[int]int{}
	searchTime := map[int]time.Duration{}
	for _, j := range jobs {
		group.Go(func() error {
			gameRecord, moves, err := runGame(ctx, j, s.MaxTurns)
			if err != nil {
				return fmt.Errorf("game %d: %w", j.id, err)
			}
			log.Info().Msgf("completed game %d of %d between agent %d and agent %d with winner: %q", j.id, len(jobs), j.configs[0].ID, j.configs[1].ID, gameRecord.Winner)

			mu.Lock()
			defer mu.Unlock()
			gameRecords = append(gameRecords, gameRecord)
			moveRecords = append(moveRecords, moves...)
			for _, move := range moves {
				id := j.configs[move.Player].ID
				nodes[id] += move.Nodes
				searchTime[id] += move.Duration
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Report{}, err
	}

	slices.SortFunc(gameRecords, func(a, b metrics.GameRecord) int { return a.ID - b.ID })
	slices.SortStableFunc(moveRecords, func(a, b metrics.MoveRecord) int { return a.Game - b.Game })

	log.Info().Msgf("completed %s experiment", name)

	endTime := time.Now()
	dir, err := writeResults(name, s, metrics.Setup{
		Name:      name,
		Matchups:  matchUps,
		NumGames:  s.NumGames,
		StartTime: startTime,
		EndTime:   endTime,
		Duration:  endTime.Sub(startTime),
	}, configs, gameRecords, moveRecords)
	if err != nil {
		return Report{}, err
	}

	report := Report{Dir: dir, Games: len(gameRecords), Wins: map[int]int{}, Throughput: map[int]float64{}}
	for id, d := range searchTime {
		if d > 0 {
			report.Throughput[id] = float64(nodes[id]) / d.Seconds()
		}
	}
	for _, record := range gameRecords {
		switch record.Winner {
		case game.First.String():
			report.Wins[record.Agent1]++
		case game.Second.String():
			report.Wins[record.Agent2]++
		default:
			report.Draws++
		}
	}
	return report, nil
}

func writeResults(name string, s Settings, setup metrics.Setup, configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) (string, error) {
	writer, err := metrics.NewWriter(s.OutputDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteSetup(setup); err != nil {
		return "", fmt.Errorf("failed to store setup: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	// Store experiment results
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), nil
}

// runGame executes a single game between two agents and returns its records
func runGame(ctx context.Context, j job, maxTurns int) (metrics.GameRecord, []metrics.MoveRecord, error) {
	g := kalah.New()
	agents := [2]agent.Agent[kalah.Snapshot, kalah.Action]{}
	for seat, c := range j.configs {
		a, err := CreateAgent(g, c)
		if err != nil {
			return metrics.GameRecord{}, nil, err
		}
		agents[seat] = a
	}

	e := engine.New(g, agents, engine.WithMaxTurns(maxTurns))
	result, err := e.Run(ctx)
	if err != nil {
		return metrics.GameRecord{}, nil, err
	}
	result.Game.Stores = e.State().Snapshot.Stores

	moves := make([]metrics.MoveRecord, 0, len(result.Moves))
	for _, mm := range result.Moves {
		moves = append(moves, metrics.MoveRecord{Game: j.id, MoveMetric: mm})
	}
	return metrics.GameRecord{
		ID:         j.id,
		Agent1:     j.configs[0].ID,
		Agent2:     j.configs[1].ID,
		GameMetric: result.Game,
	}, moves, nil
}

// CreateAgent builds the agent described by c.
func CreateAgent(g kalah.Game, c metrics.AgentConfig) (agent.Agent[kalah.Snapshot, kalah.Action], error) {
	switch c.Evaluation {
	case "", config.EvaluationStoreLead:
	case config.EvaluationStores:
		g = game.WithEvaluation(g, kalah.EvaluateStores)
	default:
		return nil, fmt.Errorf("unknown evaluation %q", c.Evaluation)
	}

	options := []searcher.Option{searcher.WithMetrics()}
	if c.Depth > 0 {
		options = append(options, searcher.WithDepth(c.Depth))
	}
	if c.TurnAware {
		options = append(options, searcher.WithTurnAwareLayers())
	}

	switch c.Kind {
	case KindMinimax:
		return agent.NewMinimax(g, options...), nil
	case KindSampling:
		if c.Temperature <= 0 {
			return nil, fmt.Errorf("sampling agent %d needs a positive temperature", c.ID)
		}
		return agent.NewSampling(g, c.Temperature, c.Seed, options...), nil
	case KindRandom:
		return agent.NewRandom(g, c.Seed), nil
	}
	return nil, fmt.Errorf("unknown agent kind %q", c.Kind)
}
