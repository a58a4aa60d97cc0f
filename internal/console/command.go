package console

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/people-search/pkg/errors"
)

// Command is a top-level menu selection.
type Command int

const (
	CommandExit    Command = 0
	CommandSearch  Command = 1
	CommandListAll Command = 2
)

func (c Command) String() string {
	switch c {
	case CommandExit:
		return "exit"
	case CommandSearch:
		return "search"
	case CommandListAll:
		return "list_all"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// ParseCommand accepts the menu numbers 0, 1 and 2.
func ParseCommand(input string) (Command, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", apperrors.ErrInvalidMenuChoice, input)
	}
	switch cmd := Command(n); cmd {
	case CommandExit, CommandSearch, CommandListAll:
		return cmd, nil
	}
	return 0, fmt.Errorf("%w: %d", apperrors.ErrInvalidMenuChoice, n)
}
