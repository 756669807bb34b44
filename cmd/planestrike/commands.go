package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchelldurbincs/PlaneStrikeRL/internal/game/core"
)

const helpText = `Commands:
  <row> <col>   strike a cell, e.g. "3 4"
  <index>       strike a cell by row-major index 0-63
  retry         ask the agent again after a failed move
  reset         start a new game
  help          show this text
  quit          leave`

type commandKind int

const (
	cmdNone commandKind = iota
	cmdStrike
	cmdRetry
	cmdReset
	cmdHelp
	cmdQuit
)

type command struct {
	kind   commandKind
	target core.Coordinate
}

// parseCommand turns one input line into a command. Coordinates are only
// syntax-checked here; range checks belong to the engine.
func parseCommand(line string) (command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return command{kind: cmdNone}, nil
	}

	switch fields[0] {
	case "q", "quit", "exit":
		return command{kind: cmdQuit}, nil
	case "h", "help", "?":
		return command{kind: cmdHelp}, nil
	case "reset", "new":
		return command{kind: cmdReset}, nil
	case "retry":
		return command{kind: cmdRetry}, nil
	}

	// Accept "3,4" as well as "3 4"
	if len(fields) == 1 && strings.Contains(fields[0], ",") {
		fields = strings.Split(fields[0], ",")
	}

	switch len(fields) {
	case 1:
		index, err := strconv.Atoi(fields[0])
		if err != nil {
			return command{}, fmt.Errorf("unknown command %q, type 'help'", line)
		}
		if index < 0 || index >= core.BoardSize*core.BoardSize {
			return command{}, fmt.Errorf("index %d out of range 0-%d", index, core.BoardSize*core.BoardSize-1)
		}
		return command{kind: cmdStrike, target: core.FromIndex(index, core.BoardSize)}, nil
	case 2:
		row, err := strconv.Atoi(fields[0])
		if err != nil {
			return command{}, fmt.Errorf("bad row %q", fields[0])
		}
		col, err := strconv.Atoi(fields[1])
		if err != nil {
			return command{}, fmt.Errorf("bad column %q", fields[1])
		}
		return command{kind: cmdStrike, target: core.NewCoordinate(row, col)}, nil
	}
	return command{}, fmt.Errorf("unknown command %q, type 'help'", line)
}
