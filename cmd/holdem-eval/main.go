package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/holdemcore/poker"
)

type CLI struct {
	Hands   []string `arg:"" help:"Player hole cards, one argument per player (e.g. 'AcKd' 'Qh Qs')" required:"true"`
	Board   string   `short:"b" help:"Community cards, three to five (e.g. 'Td7s8h')" required:"true"`
	NoColor bool     `help:"Disable coloured output"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	tieStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// PlayerResult is one player's best hand and whether it wins
type PlayerResult struct {
	Player   int
	Hole     []poker.Card
	Rank     poker.HandRank
	BestHand []poker.Card
	Winner   bool
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Description("Evaluate hold'em hands against a board and show who wins."))

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	hands, err := parseHands(cli.Hands)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing hands: %v\n", err)
		ctx.Exit(1)
	}
	board, err := parseBoard(cli.Board)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing board: %v\n", err)
		ctx.Exit(1)
	}
	if err := validateNoDuplicates(hands, board); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}

	results, err := evaluate(hands, board)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
	fmt.Print(render(results, board))
	ctx.Exit(0)
}

func parseHands(handStrings []string) ([][]poker.Card, error) {
	var hands [][]poker.Card
	for i, s := range handStrings {
		hand, err := poker.ParseCards(s)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		if len(hand) != 2 {
			return nil, fmt.Errorf("hand %d: must contain exactly 2 cards, got %d", i+1, len(hand))
		}
		hands = append(hands, hand)
	}
	return hands, nil
}

func parseBoard(s string) ([]poker.Card, error) {
	board, err := poker.ParseCards(s)
	if err != nil {
		return nil, err
	}
	if len(board) < 3 || len(board) > 5 {
		return nil, fmt.Errorf("board must have 3 to 5 cards, got %d", len(board))
	}
	return board, nil
}

func validateNoDuplicates(hands [][]poker.Card, board []poker.Card) error {
	seen := make(map[poker.Card]bool)
	for _, c := range board {
		if seen[c] {
			return fmt.Errorf("duplicate card on board: %s", c)
		}
		seen[c] = true
	}
	for i, hand := range hands {
		for _, c := range hand {
			if seen[c] {
				return fmt.Errorf("duplicate card in hand %d: %s", i+1, c)
			}
			seen[c] = true
		}
	}
	return nil
}

func evaluate(hands [][]poker.Card, board []poker.Card) ([]PlayerResult, error) {
	if len(hands) == 0 {
		return nil, errors.New("no hands to evaluate")
	}

	contenders := make([]poker.Contender, len(hands))
	for i, h := range hands {
		contenders[i] = poker.Contender{Seat: i + 1, HoleCards: h}
	}
	winners, err := poker.DetermineWinners(contenders, board)
	if err != nil {
		return nil, err
	}

	results := make([]PlayerResult, len(hands))
	for i, h := range hands {
		rank, best, err := poker.FindBestHand(h, board)
		if err != nil {
			return nil, fmt.Errorf("hand %d: %w", i+1, err)
		}
		results[i] = PlayerResult{
			Player:   i + 1,
			Hole:     h,
			Rank:     rank,
			BestHand: best,
			Winner: slices.ContainsFunc(winners, func(w poker.Showing) bool {
				return w.Seat == i+1
			}),
		}
	}
	return results, nil
}

func render(results []PlayerResult, board []poker.Card) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Board: "+poker.FormatCards(board)) + "\n\n")

	winners := 0
	for _, r := range results {
		if r.Winner {
			winners++
		}
	}

	for _, r := range results {
		line := fmt.Sprintf("%s  %s  %s",
			handStyle.Render(fmt.Sprintf("Player %d: %s", r.Player, poker.FormatCards(r.Hole))),
			categoryStyle.Render(fmt.Sprintf("%-16s", r.Rank)),
			poker.FormatCards(r.BestHand))
		switch {
		case r.Winner && winners > 1:
			line += "  " + tieStyle.Render("split")
		case r.Winner:
			line += "  " + winStyle.Render("wins")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
