// Package console drives the interactive people-search menu. Machine is a
// finite state machine that consumes one input line at a time and returns the
// lines to print; Session binds it to a reader and writer.
package console

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/people-search/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/people-search/internal/searcher/parser"
	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/metrics"
)

const (
	menuHeader      = "=== Menu ==="
	menuSearch      = "1. Find a person"
	menuListAll     = "2. Print all people"
	menuExit        = "0. Exit"
	strategyPrompt  = "Select a matching strategy: ALL, ANY, NONE"
	queryPrompt     = "Enter a name or email to search all matching people."
	listAllHeader   = "=== List of people ==="
	incorrectOption = "Incorrect option! Try again."
	farewell        = "Bye!"
)

type State int

const (
	StateIdle State = iota
	StateAwaitingStrategy
	StateAwaitingQuery
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingStrategy:
		return "awaiting_strategy"
	case StateAwaitingQuery:
		return "awaiting_query"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Searcher is what the console needs from the query executor.
type Searcher interface {
	Execute(ctx context.Context, plan *parser.QueryPlan) *executor.SearchResult
	Records(positions []int) []string
	AllRecords() []string
}

// Output is a rendering instruction: the lines to print, in order.
type Output struct {
	Lines []string
}

type Machine struct {
	searcher Searcher
	metrics  *metrics.Metrics
	state    State
	strategy parser.Strategy
}

func NewMachine(searcher Searcher, m *metrics.Metrics) *Machine {
	return &Machine{
		searcher: searcher,
		metrics:  m,
		state:    StateIdle,
	}
}

func (m *Machine) State() State {
	return m.state
}

// Done reports whether the exit command has been handled.
func (m *Machine) Done() bool {
	return m.state == StateDone
}

// Prompt returns the lines to show before reading the next input.
func (m *Machine) Prompt() []string {
	switch m.state {
	case StateIdle:
		return []string{menuHeader, menuSearch, menuListAll, menuExit}
	case StateAwaitingStrategy:
		return []string{strategyPrompt}
	case StateAwaitingQuery:
		return []string{queryPrompt}
	default:
		return nil
	}
}

// Handle consumes one line of input in the current state.
func (m *Machine) Handle(ctx context.Context, input string) Output {
	switch m.state {
	case StateIdle:
		cmd, err := ParseCommand(input)
		if err != nil {
			m.count("invalid")
			return Output{Lines: []string{incorrectOption}}
		}
		return m.Dispatch(cmd)
	case StateAwaitingStrategy:
		strategy, err := parser.ParseStrategy(input)
		if err != nil {
			// stay put; the prompt is shown again
			return Output{}
		}
		m.strategy = strategy
		m.state = StateAwaitingQuery
		return Output{}
	case StateAwaitingQuery:
		return m.search(ctx, input)
	default:
		return Output{}
	}
}

// Dispatch applies a menu command from the idle state.
func (m *Machine) Dispatch(cmd Command) Output {
	if m.state != StateIdle {
		return Output{}
	}
	m.count(cmd.String())
	switch cmd {
	case CommandSearch:
		m.state = StateAwaitingStrategy
		return Output{}
	case CommandListAll:
		lines := append([]string{listAllHeader}, m.searcher.AllRecords()...)
		return Output{Lines: lines}
	case CommandExit:
		m.state = StateDone
		return Output{Lines: []string{farewell}}
	default:
		return Output{Lines: []string{incorrectOption}}
	}
}

func (m *Machine) search(ctx context.Context, query string) Output {
	m.state = StateIdle
	plan, err := parser.ParseQuery(query, m.strategy)
	if err != nil {
		return Output{}
	}
	result := m.searcher.Execute(ctx, plan)
	return Output{Lines: m.searcher.Records(result.Positions)}
}

func (m *Machine) count(command string) {
	if m.metrics == nil {
		return
	}
	m.metrics.MenuCommandsTotal.WithLabelValues(command).Inc()
}
