package console

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies a console command.
type Kind int

const (
	KindNone Kind = iota
	KindAdd
	KindRoll
	KindRollAll
	KindRemove
	KindClear
	KindOptions
	KindSet
	KindHelp
	KindQuit
)

// Command is one parsed input line. Position is 1-based as typed by the user.
type Command struct {
	Kind     Kind
	Sides    float64
	Position int
	Option   string
	Value    string
}

// UsageError reports a line that does not form a valid command.
type UsageError struct {
	Input string
	Usage string
}

func (e *UsageError) Error() string {
	if e.Usage == "" {
		return fmt.Sprintf("unknown command %q", e.Input)
	}
	return fmt.Sprintf("usage: %s", e.Usage)
}

// Parse turns a line of input into a Command. Blank lines parse to KindNone.
func Parse(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(line)))
	if len(fields) == 0 {
		return Command{Kind: KindNone}, nil
	}

	name, args := fields[0], fields[1:]
	switch name {
	case "add", "a":
		if len(args) != 1 {
			return Command{}, &UsageError{Input: line, Usage: "add <sides>"}
		}
		sides, err := parseSides(args[0])
		if err != nil {
			return Command{}, &UsageError{Input: line, Usage: "add <sides>"}
		}
		return Command{Kind: KindAdd, Sides: sides}, nil
	case "roll", "r":
		if len(args) == 0 || (len(args) == 1 && args[0] == "all") {
			return Command{Kind: KindRollAll}, nil
		}
		position, err := parsePosition(args)
		if err != nil {
			return Command{}, &UsageError{Input: line, Usage: "roll [<n>|all]"}
		}
		return Command{Kind: KindRoll, Position: position}, nil
	case "remove", "rm", "x":
		position, err := parsePosition(args)
		if err != nil {
			return Command{}, &UsageError{Input: line, Usage: "remove <n>"}
		}
		return Command{Kind: KindRemove, Position: position}, nil
	case "clear":
		if len(args) != 0 {
			return Command{}, &UsageError{Input: line, Usage: "clear"}
		}
		return Command{Kind: KindClear}, nil
	case "options", "opts":
		return Command{Kind: KindOptions}, nil
	case "set":
		if len(args) != 2 {
			return Command{}, &UsageError{Input: line, Usage: "set <option> <value>"}
		}
		return Command{Kind: KindSet, Option: args[0], Value: args[1]}, nil
	case "help", "?":
		return Command{Kind: KindHelp}, nil
	case "quit", "exit", "q":
		return Command{Kind: KindQuit}, nil
	}

	// Shorthand: "d20", "+d20" or a bare side count adds a die.
	if len(args) == 0 {
		if sides, err := parseSides(name); err == nil {
			return Command{Kind: KindAdd, Sides: sides}, nil
		}
	}
	return Command{}, &UsageError{Input: line}
}

// parseSides accepts "6", "d6" and "+d6". Range checks are left to the die.
func parseSides(token string) (float64, error) {
	token = strings.TrimPrefix(token, "+")
	token = strings.TrimPrefix(token, "d")
	return strconv.ParseFloat(token, 64)
}

func parsePosition(args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("expected one position, got %d", len(args))
	}
	return strconv.Atoi(args[0])
}
