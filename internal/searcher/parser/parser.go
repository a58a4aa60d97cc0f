package parser

import (
	"fmt"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/people-search/internal/indexer/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/people-search/pkg/errors"
)

// Strategy selects how per-term matches combine. The zero value is not a
// valid strategy.
type Strategy int

const (
	StrategyAll Strategy = iota + 1
	StrategyAny
	StrategyNone
)

// Strategies lists every valid strategy in menu order.
var Strategies = []Strategy{StrategyAll, StrategyAny, StrategyNone}

func (s Strategy) String() string {
	switch s {
	case StrategyAll:
		return "ALL"
	case StrategyAny:
		return "ANY"
	case StrategyNone:
		return "NONE"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

func (s Strategy) Valid() bool {
	return s >= StrategyAll && s <= StrategyNone
}

// ParseStrategy accepts exactly ALL, ANY or NONE in any letter case.
// Surrounding whitespace makes the input invalid.
func ParseStrategy(input string) (Strategy, error) {
	switch strings.ToUpper(input) {
	case "ALL":
		return StrategyAll, nil
	case "ANY":
		return StrategyAny, nil
	case "NONE":
		return StrategyNone, nil
	}
	return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidStrategy, input)
}

// QueryPlan is a validated search request.
type QueryPlan struct {
	Terms    []string
	Strategy Strategy
	RawQuery string
}

// ParseQuery lowercases the query line and splits it on spaces, the same way
// records are tokenized.
func ParseQuery(query string, strategy Strategy) (*QueryPlan, error) {
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidStrategy, strategy)
	}
	return &QueryPlan{
		Terms:    tokenizer.Terms(query),
		Strategy: strategy,
		RawQuery: query,
	}, nil
}
