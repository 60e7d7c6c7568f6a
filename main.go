package main

import (
	"context"
	"flag"
	"fmt"
	"kalah/agent"
	"kalah/communication/client"
	"kalah/communication/server"
	"kalah/config"
	"kalah/engine"
	"kalah/experiments"
	"kalah/experiments/metrics"
	"kalah/game"
	"kalah/gamemaster"
	"kalah/kalah"
	"kalah/player"
	"kalah/shell"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	mode := flag.String("mode", "shell", "shell, selfplay, experiment or serve")
	configPath := flag.String("config", "", "optional config file")
	seat := flag.Int("seat", 1, "seat of the human in shell mode, 1 or 2")
	remote := flag.String("remote", "", "bot server URL that plays the second seat in selfplay mode")
	experiment := flag.String("experiment", "depth", "depth, evaluation, layers or throughput")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	setupLogging(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "shell":
		human := game.PlayerID(*seat - 1)
		if !human.Valid() {
			log.Fatal().Msgf("invalid seat %d", *seat)
		}
		err = shell.NewShellController(cfg, os.Stdout, human).Loop(ctx)
	case "selfplay":
		err = runSelfPlay(ctx, cfg, *remote)
	case "experiment":
		err = runExperiment(ctx, cfg, *experiment)
	case "serve":
		err = serve(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil && ctx.Err() == nil {
		log.Fatal().Err(err).Msg("")
	}
	log.Debug().Msg("bye")
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func botConfig(cfg config.Config) metrics.AgentConfig {
	return metrics.AgentConfig{
		Kind:       experiments.KindMinimax,
		Depth:      cfg.Depth,
		TurnAware:  cfg.TurnAware,
		Evaluation: cfg.Evaluation,
	}
}

func runSelfPlay(ctx context.Context, cfg config.Config, remote string) error {
	g := kalah.New()
	bot, err := experiments.CreateAgent(g, botConfig(cfg))
	if err != nil {
		return err
	}
	agents := [2]agent.Agent[kalah.Snapshot, kalah.Action]{bot, bot}
	if remote != "" {
		agents[game.Second] = client.NewRemoteAgent[kalah.Snapshot, kalah.Action](remote)
	}

	e := engine.New(g, agents, engine.WithMaxTurns(cfg.MaxTurns))
	result, err := e.Run(ctx)
	if err != nil {
		return err
	}
	for _, u := range e.Updates() {
		fmt.Printf("%s plays %s\n", u.Player, u.Action)
	}
	fmt.Print(kalah.Display(e.State()))
	log.Info().Msgf("game over after %d moves in %s", result.Game.TotalMoves, result.Game.Duration)
	return nil
}

func runExperiment(ctx context.Context, cfg config.Config, name string) error {
	s := experiments.SettingsFrom(cfg)
	var report experiments.Report
	var err error
	switch name {
	case "depth":
		report, err = experiments.RunDepthExperiment(ctx, s, cfg.Depth)
	case "evaluation":
		report, err = experiments.RunEvaluationExperiment(ctx, s, cfg.Depth)
	case "layers":
		report, err = experiments.RunLayerExperiment(ctx, s, cfg.Depth)
	case "throughput":
		report, err = experiments.RunThroughputExperiment(ctx, s, cfg.Depth)
	default:
		return fmt.Errorf("unknown experiment %q", name)
	}
	if err != nil {
		return err
	}
	log.Info().Msgf("%d games, wins by agent %v, %d draws, results in %s", report.Games, report.Wins, report.Draws, report.Dir)
	return nil
}

// serve hosts the bot for remote engines, plus a session where remote players
// meet the bot in the second seat.
func serve(ctx context.Context, cfg config.Config) error {
	g := kalah.New()
	bot, err := experiments.CreateAgent(g, botConfig(cfg))
	if err != nil {
		return err
	}
	session := gamemaster.NewSession(g)
	go func() {
		if err := player.NewBot[kalah.Snapshot, kalah.Action](game.Second, bot, session, cfg.BotDelay).Run(ctx); err != nil {
			log.Error().Err(err).Msg("session bot stopped")
		}
	}()
	return server.New(g, bot, session).ListenAndServe(ctx, cfg.Addr)
}
