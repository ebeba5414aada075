// Command liapd runs tables outside of Nakama: batch simulations of
// bot-vs-bot games for strategy evaluation and rule tuning.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"liap/internal/bot"
	"liap/internal/domain"
	"liap/internal/engine"
	"liap/internal/room"
)

var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Simulate SimulateCmd      `cmd:"" help:"Run bot-vs-bot games and report outcomes"`
}

type SimulateCmd struct {
	Games       int           `default:"100" help:"Number of games to run"`
	Level       string        `default:"planner" help:"Bot level: greedy, planner"`
	Seed        int64         `default:"0" help:"RNG seed (0 for random)"`
	Concurrency int           `default:"8" help:"Tables running in parallel"`
	MinDelay    time.Duration `default:"0s" help:"Minimum bot think delay"`
	MaxDelay    time.Duration `default:"2ms" help:"Maximum bot think delay"`
	Timeout     time.Duration `default:"2m" help:"Per-game deadline"`
	Verbose     bool          `help:"Verbose logging"`
}

type gameResult struct {
	Winner int
	Rounds int
	Totals [domain.NumPlayers]int
}

func (c *SimulateCmd) Run(logger *log.Logger) error {
	if c.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	level, err := bot.ParseBotLevel(c.Level)
	if err != nil {
		return err
	}
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("simulation starting", "games", c.Games, "level", level, "seed", seed)

	var (
		mu     sync.Mutex
		wins   [domain.NumPlayers]int
		rounds int
		done   int
	)

	var g errgroup.Group
	g.SetLimit(c.Concurrency)
	for i := 0; i < c.Games; i++ {
		gameSeed := seed + int64(i)
		g.Go(func() error {
			result, err := c.runGame(gameSeed, level, logger)
			if err != nil {
				return err
			}
			mu.Lock()
			wins[result.Winner]++
			rounds += result.Rounds
			done++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("simulation finished",
		"games", done,
		"avgRounds", fmt.Sprintf("%.1f", float64(rounds)/float64(done)),
		"wins", fmt.Sprintf("%v", wins))
	return nil
}

func (c *SimulateCmd) runGame(seed int64, level bot.BotLevel, logger *log.Logger) (gameResult, error) {
	var specs [domain.NumPlayers]engine.PlayerSpec
	var brains [domain.NumPlayers]bot.Brain
	for seat := range specs {
		specs[seat] = engine.PlayerSpec{ID: fmt.Sprintf("bot-%d", seat), IsBot: true}
		brain, err := bot.NewBrain(level)
		if err != nil {
			return gameResult{}, err
		}
		brains[seat] = brain
	}

	dealer := domain.NewShuffleDealer(rand.New(rand.NewSource(seed)))
	eng := engine.New(specs, dealer, logger, engine.DefaultOptions())
	r := room.New(eng, logger)

	over := make(chan engine.GameOverData, 1)
	r.Subscribe(func(ev engine.PhaseChangeEvent) {
		if data, ok := ev.Data.(engine.GameOverData); ok {
			select {
			case over <- data:
			default:
			}
		}
	})

	seq := bot.NewSequencer(r, brains, quartz.NewReal(), logger, c.MinDelay, c.MaxDelay)
	r.Subscribe(seq.HandleEvent)

	if err := r.Start(); err != nil {
		return gameResult{}, err
	}
	defer r.Close()
	defer seq.Stop()

	select {
	case data := <-over:
		logger.Debug("game finished", "seed", seed, "winner", data.WinnerSeat, "rounds", data.Rounds)
		return gameResult{Winner: data.WinnerSeat, Rounds: data.Rounds, Totals: data.Totals}, nil
	case <-time.After(c.Timeout):
		return gameResult{}, fmt.Errorf("game with seed %d exceeded %s", seed, c.Timeout)
	}
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("liapd"),
		kong.Description("Four-player tile table simulator"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
		kong.Bind(logger),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
