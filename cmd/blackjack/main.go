package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack-cli/internal/config"
	"github.com/lox/blackjack-cli/internal/display"
	"github.com/lox/blackjack-cli/internal/game"
	"github.com/lox/blackjack-cli/internal/randutil"
)

var titleStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1).
	Bold(true)

type CLI struct {
	Players int      `short:"p" help:"Number of players at the table (1-5); prompted for when unset"`
	Names   []string `short:"n" help:"Player names; prompted for when unset"`
	Decks   int      `short:"d" help:"Number of decks in the shoe; sized to the table when unset"`
	Seed    int64    `help:"Shuffle seed for a reproducible session"`
	Config  string   `short:"c" help:"Path to an HCL config file" default:"blackjack.hcl" type:"path"`
	Debug   bool     `help:"Log at debug level"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("blackjack"),
		kong.Description("Casino blackjack at the terminal."))

	if cli.Players != 0 && (cli.Players < 1 || cli.Players > display.MaxPlayers) {
		log.Fatal("Invalid number of players", "players", cli.Players, "max", display.MaxPlayers)
	}
	if len(cli.Names) > display.MaxPlayers {
		log.Fatal("Too many names", "names", len(cli.Names), "max", display.MaxPlayers)
	}

	if err := run(cli); err != nil {
		log.Fatal("Game ended with an error", "error", err)
	}

	fmt.Print(titleStyle.Render(" ♠ ♥ Thanks for playing ♦ ♣ "))
	fmt.Println()

	kctx.Exit(0)
}

func run(cli CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cli.Decks != 0 {
		cfg.Table.Decks = cli.Decks
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o666)
	if err != nil {
		return fmt.Errorf("failed to create debug log: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close log file", "error", err)
		}
	}()

	logger := log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	} else if level, err := log.ParseLevel(cfg.UI.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	seed := cli.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting", "seed", seed, "config", cli.Config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ui := display.NewUI(logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Cancelling here stops the game loop when the user closes
		// the TUI with ctrl+c.
		defer cancel()
		return ui.Run()
	})

	g.Go(func() error {
		defer ui.Quit()

		ui.Announce(titleStyle.Render(" ♠ ♥ Blackjack ♦ ♣ "))

		names := cli.Names
		if len(names) == 0 {
			entered, err := ui.SetupPlayers(ctx, cli.Players)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return fmt.Errorf("setting up players: %w", err)
			}
			names = entered
		}

		decks := config.DecksForPlayers(cfg.Table.Decks, len(names))
		logger.Info("seating table",
			"players", len(names), "decks", decks, "bankroll", cfg.Table.StartingBankroll)

		table := game.NewTable(names, cfg.Table.StartingBankroll, decks, randutil.New(seed), ui,
			game.WithLogger(logger),
			game.WithPace(time.Duration(cfg.UI.PaceMS)*time.Millisecond),
			game.WithDealerStandScore(cfg.Table.DealerStand))
		table.Shoe.SetCutFraction(cfg.Table.CutFraction)
		table.Events().Subscribe(ui)

		if err := table.Run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("running table: %w", err)
		}
		return nil
	})

	return g.Wait()
}
