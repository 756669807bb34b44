package game

import (
	"fmt"
	"strings"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

const (
	EmptySymbol = "·"
	ShipSymbol  = "■"
	HitSymbol   = "✕"
	MissSymbol  = "○"
)

// RenderOptions controls what Render shows
type RenderOptions struct {
	// RevealAgentBoard shows the agent's plane, for debugging
	RevealAgentBoard bool
	ShowCoordinates  bool
	// NoColor disables ANSI escapes
	NoColor bool
}

// Render draws both boards side by side followed by a status line.
// The player's own plane is always visible; the agent's only when revealed.
func Render(s GameState, opts RenderOptions) string {
	var sb strings.Builder
	sb.Grow((core.BoardSize*8 + 40) * (core.BoardSize + 4))

	const gap = "     "
	header := func() {
		sb.WriteString("   ")
		for col := 0; col < core.BoardSize; col++ {
			fmt.Fprintf(&sb, "%2d", col)
		}
	}

	sb.WriteString(padRight("   Your board", core.BoardSize*2+3))
	sb.WriteString(gap)
	sb.WriteString("Agent board\n")
	if opts.ShowCoordinates {
		header()
		sb.WriteString(gap)
		header()
		sb.WriteString("\n")
	}

	for row := 0; row < core.BoardSize; row++ {
		writeRow(&sb, s.PlayerBoard, row, true, opts)
		sb.WriteString(gap)
		writeRow(&sb, s.AgentBoard, row, opts.RevealAgentBoard, opts)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(EmptySymbol + "=unknown " + ShipSymbol + "=plane " + HitSymbol + "=hit " + MissSymbol + "=miss\n")
	sb.WriteString(StatusLine(s))
	sb.WriteString("\n")
	return sb.String()
}

// StatusLine summarizes hit counts, the last strikes and the outcome
func StatusLine(s GameState) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Turn %d  you %d/%d  agent %d/%d", s.Turn, s.PlayerHits, core.ShipCells, s.AgentHits, core.ShipCells)
	if !s.LastPlayerStrike.IsZero() {
		fmt.Fprintf(&sb, "  your last: %s %s", s.LastPlayerStrike.Target, s.LastPlayerStrike.Outcome)
	}
	if !s.LastAgentStrike.IsZero() {
		fmt.Fprintf(&sb, "  agent last: %s %s", s.LastAgentStrike.Target, s.LastAgentStrike.Outcome)
	}
	if winner, ok := s.Winner(); ok {
		if winner == core.SidePlayer {
			sb.WriteString("  -- you won")
		} else {
			sb.WriteString("  -- the agent won")
		}
	} else if s.AgentTurnPending {
		sb.WriteString("  -- agent move pending")
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, b core.Board, row int, reveal bool, opts RenderOptions) {
	if opts.ShowCoordinates {
		fmt.Fprintf(sb, "%2d ", row)
	} else {
		sb.WriteString("   ")
	}
	for col := 0; col < core.BoardSize; col++ {
		color, symbol := cellDisplay(b.At(core.NewCoordinate(row, col)), reveal)
		sb.WriteString(" ")
		if !opts.NoColor {
			sb.WriteString(color)
		}
		sb.WriteString(symbol)
		if !opts.NoColor {
			sb.WriteString(ColorReset)
		}
	}
}

// cellDisplay returns the color and symbol of a cell
func cellDisplay(c core.Cell, reveal bool) (string, string) {
	switch c {
	case core.CellHit:
		return ColorRed, HitSymbol
	case core.CellMiss:
		return ColorBlue, MissSymbol
	case core.CellShip:
		if reveal {
			return ColorYellow, ShipSymbol
		}
		return ColorGray, EmptySymbol
	default:
		return ColorGray, EmptySymbol
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
