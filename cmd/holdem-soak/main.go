package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/holdemcore/internal/config"
	"github.com/lox/holdemcore/internal/fileutil"
	"github.com/lox/holdemcore/internal/phh"
	"github.com/lox/holdemcore/internal/randutil"
	"github.com/lox/holdemcore/internal/simulator"
	"github.com/lox/holdemcore/internal/table"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Width(16)

	passStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

type CLI struct {
	Config     string  `short:"c" help:"HCL configuration file" default:"holdem.hcl" type:"path"`
	Table      string  `short:"t" help:"Table block whose blinds and seat count to use" default:"main"`
	Hands      int     `short:"n" help:"Total hands to play (overrides config)"`
	Tables     int     `help:"Tables to run concurrently (overrides config)"`
	Players    int     `short:"p" help:"Players per table (overrides config)"`
	Seed       int64   `short:"s" help:"Base RNG seed (overrides config, 0 picks one from the clock)"`
	Departures float64 `help:"Chance a player walks away instead of acting" default:"0"`
	HistoryDir string  `help:"Write every checked hand as a PHH file under this directory" type:"path"`
	LogLevel   string  `help:"Log level (overrides config)"`
	NoColor    bool    `help:"Disable coloured output"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Description("Soak the hold'em engine with random legal play and check its invariants every hand."))

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		ctx.Exit(1)
	}

	levelName := cfg.LogLevel
	if cli.LogLevel != "" {
		levelName = cli.LogLevel
	}
	level, err := log.ParseLevel(levelName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})

	tc := cfg.Table(cli.Table)
	if tc == nil {
		fmt.Fprintf(os.Stderr, "Error: no table %q in %s\n", cli.Table, cli.Config)
		ctx.Exit(1)
	}

	simCfg := simulator.FromConfig(cfg.Soak, *tc)
	applyOverrides(&simCfg, cli)
	if simCfg.Seed == 0 {
		_, simCfg.Seed = randutil.NewFromTime()
	}
	simCfg.Logger = logger
	if cli.HistoryDir != "" {
		simCfg.OnHand = historyWriter(cli.HistoryDir)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(titleStyle.Render(" ♠ ♥ Hold'em soak ♦ ♣ "))
	fmt.Println()

	stats, err := simulator.New(simCfg).Run(runCtx)
	printSummary(simCfg, stats, err)
	if err != nil {
		ctx.Exit(1)
	}
	ctx.Exit(0)
}

func applyOverrides(cfg *simulator.Config, cli CLI) {
	if cli.Hands > 0 {
		cfg.Hands = cli.Hands
	}
	if cli.Tables > 0 {
		cfg.Tables = cli.Tables
	}
	if cli.Players > 0 {
		cfg.Players = cli.Players
	}
	if cli.Seed != 0 {
		cfg.Seed = cli.Seed
	}
	cfg.DepartureRate = cli.Departures
}

// historyWriter saves each hand to <dir>/<table>/<hand>.phh
func historyWriter(dir string) func(string, *table.HandSummary) error {
	return func(tableID string, h *table.HandSummary) error {
		hh, err := phh.FromSummary(tableID, h, time.Now())
		if err != nil {
			return err
		}
		data, err := phh.EncodeToBytes(hh)
		if err != nil {
			return err
		}
		return fileutil.WriteFileAtomic(filepath.Join(dir, tableID, h.ID+".phh"), data, 0o644)
	}
}

func printSummary(cfg simulator.Config, stats *simulator.Stats, runErr error) {
	row := func(label string, value any) {
		fmt.Println(labelStyle.Render(label) + fmt.Sprint(value))
	}
	pct := func(n int) string {
		if stats.Hands == 0 {
			return "0"
		}
		return fmt.Sprintf("%d (%.1f%%)", n, float64(n)/float64(stats.Hands)*100)
	}

	row("Seed", cfg.Seed)
	row("Tables", fmt.Sprintf("%d x %d players", cfg.Tables, cfg.Players))
	row("Blinds", fmt.Sprintf("%d/%d", cfg.SmallBlind, cfg.BigBlind))
	row("Hands", stats.Hands)
	row("Showdowns", pct(stats.Showdowns))
	row("Fold-outs", pct(stats.FoldOuts))
	row("Side pots", pct(stats.SidePotHands))
	row("Split pots", stats.SplitPots)
	row("All-ins", stats.AllIns)
	row("Departures", stats.Departures)
	row("Actions", stats.Actions)
	row("Biggest pot", stats.BiggestPot)
	if stats.Elapsed > 0 && stats.Hands > 0 {
		row("Elapsed", fmt.Sprintf("%v (%.0f hands/sec)",
			stats.Elapsed.Round(time.Millisecond),
			float64(stats.Hands)/stats.Elapsed.Seconds()))
	}
	fmt.Println()

	switch {
	case runErr == nil:
		fmt.Println(passStyle.Render("✓ all invariants held"))
	case simulator.IsViolation(runErr):
		fmt.Println(failStyle.Render("✗ invariant violated"))
		fmt.Println(runErr)
	default:
		fmt.Println(failStyle.Render("✗ soak stopped"))
		fmt.Println(runErr)
	}
}
