package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"kalah/agent"
	"kalah/config"
	"kalah/experiments"
	"kalah/experiments/metrics"
	"kalah/game"
	"kalah/gamemaster"
	"kalah/kalah"
	"kalah/player"
	"kalah/searcher"
	"strconv"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
)

var errQuit = errors.New("quit")

type ShellController struct {
	out     io.Writer
	cfg     config.Config
	game    kalah.Game
	session *gamemaster.Session[kalah.Snapshot, kalah.Action]
	updates gamemaster.UpdateGetter[kalah.Snapshot, kalah.Action]
	human   game.PlayerID
	bot     *tunableAgent
}

// tunableAgent searches at whatever depth the shell last asked for.
type tunableAgent struct {
	mu     sync.Mutex
	config metrics.AgentConfig
	game   kalah.Game
}

var _ agent.Agent[kalah.Snapshot, kalah.Action] = (*tunableAgent)(nil)

func (a *tunableAgent) FindMove(ctx context.Context, state kalah.State) (kalah.Action, metrics.SearchMetric, error) {
	a.mu.Lock()
	c := a.config
	a.mu.Unlock()
	inner, err := experiments.CreateAgent(a.game, c)
	if err != nil {
		return kalah.Action{}, metrics.SearchMetric{}, err
	}
	return inner.FindMove(ctx, state)
}

func (a *tunableAgent) setDepth(depth int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.config.Depth = depth
}

func (a *tunableAgent) depth() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.config.Depth
}

// NewShellController seats a human at human and the bot at the other seat.
// Output goes to out.
func NewShellController(cfg config.Config, out io.Writer, human game.PlayerID) *ShellController {
	g := kalah.New()
	session := gamemaster.NewSession(g)
	_, _, updates := session.Init()
	return &ShellController{
		out:     out,
		cfg:     cfg,
		game:    g,
		session: session,
		updates: updates,
		human:   human,
		bot: &tunableAgent{
			game: g,
			config: metrics.AgentConfig{
				Kind:       experiments.KindMinimax,
				Depth:      cfg.Depth,
				TurnAware:  cfg.TurnAware,
				Evaluation: cfg.Evaluation,
			},
		},
	}
}

// Start seats the bot. It plays until ctx is done.
func (sc *ShellController) Start(ctx context.Context) error {
	bot := player.NewBot[kalah.Snapshot, kalah.Action](sc.human.Other(), sc.bot, sc.session, sc.cfg.BotDelay)
	go func() {
		if err := bot.Run(ctx); err != nil {
			log.Error().Err(err).Msg("bot stopped")
		}
	}()

	sc.showMessage(fmt.Sprintf("You are %s, the bot searches %d plies. Type help for commands.", sc.human, sc.bot.depth()))
	return sc.await(ctx)
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

// Loop reads commands until exit, EOF or an interrupt on an empty line.
func (sc *ShellController) Loop(ctx context.Context) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[32mkalah>\033[0m ",
		HistoryFile:     "/tmp/kalah_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		return fmt.Errorf("failed to start readline: %w", err)
	}
	defer l.Close()
	sc.out = l.Stdout()

	if err := sc.Start(ctx); err != nil {
		return err
	}
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}

		if err := sc.Execute(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			return err
		}
	}
	log.Debug().Msg("Exiting readline loop...")
	return nil
}

// Execute runs one command line. User mistakes are reported on the output,
// and only a quit or a cancelled context comes back as an error.
func (sc *ShellController) Execute(ctx context.Context, line string) error {
	fields, err := shellquote.Split(strings.TrimSpace(line))
	if err != nil {
		sc.showError(err)
		return nil
	}
	if len(fields) == 0 {
		return nil
	}

	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "exit", "quit":
		return errQuit
	case "help":
		usage(sc.out)
	case "show":
		sc.showBoard(sc.session.State())
	case "new":
		sc.session.Reset()
		return sc.await(ctx)
	case "play", "p":
		return sc.play(ctx, args)
	case "hint":
		sc.hint(args)
	case "depth":
		sc.setDepth(args)
	default:
		// A bare pit number plays it
		if _, err := strconv.Atoi(cmd); err == nil {
			return sc.play(ctx, fields)
		}
		sc.showMessage(fmt.Sprintf("Unknown command %q, type help for commands", cmd))
	}
	return nil
}

func (sc *ShellController) play(ctx context.Context, args []string) error {
	if len(args) != 1 {
		sc.showMessage("Usage: play <pit>")
		return nil
	}
	action, err := kalah.ParseAction(args[0])
	if err != nil {
		sc.showError(err)
		return nil
	}
	if err := sc.session.Play(sc.human, action); err != nil {
		switch {
		case errors.Is(err, game.ErrGameOver):
			sc.showMessage("The game is over, type new to start again")
		case errors.Is(err, gamemaster.ErrNotYourTurn):
			sc.showMessage("Wait for the bot to move")
		case errors.Is(err, game.ErrIllegalAction):
			sc.showMessage(fmt.Sprintf("Pit %s is empty, pick another", args[0]))
		default:
			sc.showError(err)
		}
		return nil
	}
	return sc.await(ctx)
}

// await shows updates until the human is to move or the game is over.
func (sc *ShellController) await(ctx context.Context) error {
	state := sc.session.State()
	if state.Ended || state.CurrentPlayer == sc.human {
		sc.drain()
		sc.showBoard(state)
		return nil
	}
	for {
		u, err := sc.updates(ctx)
		if err != nil {
			return err
		}
		if !u.Reset && u.Player != sc.human {
			sc.showMessage(fmt.Sprintf("%s plays pit %s", u.Player, strings.TrimPrefix(u.Action.String(), "play ")))
		}
		if u.State.Ended || u.State.CurrentPlayer == sc.human {
			sc.showBoard(u.State)
			return nil
		}
	}
}

// drain discards updates that were already shown through the session state.
func (sc *ShellController) drain() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for {
		if _, err := sc.updates(ctx); err != nil {
			return
		}
	}
}

func (sc *ShellController) hint(args []string) {
	depth := sc.bot.depth()
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			sc.showMessage("Usage: hint [depth]")
			return
		}
		depth = d
	}
	state := sc.session.State()
	if state.Ended || state.CurrentPlayer != sc.human {
		sc.showMessage("No hint, it is not your move")
		return
	}

	scored, _ := searcher.NewMinimax(sc.game, searcher.WithDepth(depth)).Search(state, sc.human)
	best := 0
	for i, s := range scored {
		if s.Score > scored[best].Score {
			best = i
		}
	}
	for i, s := range scored {
		marker := " "
		if i == best {
			marker = "*"
		}
		sc.showMessage(fmt.Sprintf("%s %-8s %g", marker, s.Action, s.Score))
	}
}

func (sc *ShellController) setDepth(args []string) {
	if len(args) != 1 {
		sc.showMessage(fmt.Sprintf("Bot depth is %d", sc.bot.depth()))
		return
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		sc.showMessage("Usage: depth <n>, n at least 1")
		return
	}
	sc.bot.setDepth(depth)
	sc.showMessage(fmt.Sprintf("Bot depth set to %d", depth))
}

func (sc *ShellController) showBoard(state kalah.State) {
	io.WriteString(sc.out, kalah.Display(state))
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.out, msg)
	io.WriteString(sc.out, "\n")
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

func usage(w io.Writer) {
	io.WriteString(w, "commands:\n")
	io.WriteString(w, "play <pit> - sow one of your pits, numbered 0 to 5 from your left (p <pit> or just <pit> works too)\n")
	io.WriteString(w, "new - start a new game\n")
	io.WriteString(w, "show - show the board\n")
	io.WriteString(w, "hint [depth] - score your moves, best marked with *; depth defaults to the bot's\n")
	io.WriteString(w, "depth [n] - show or set the bot's search depth\n")
	io.WriteString(w, "exit - leave\n")
}
