package main

import (
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/people-search/pkg/errors"
)

const usage = "usage: search --data <file_name>"

// parseArgs accepts exactly `--data <path>`, with the flag name in any case.
func parseArgs(args []string) (string, error) {
	if len(args) != 2 {
		return "", apperrors.Newf(apperrors.ErrInvalidArguments, apperrors.ExitBadUsage,
			"expected 2 arguments, got %d", len(args))
	}
	if !strings.EqualFold(args[0], "--data") {
		return "", apperrors.Newf(apperrors.ErrInvalidArguments, apperrors.ExitBadUsage,
			"unknown flag %q", args[0])
	}
	return args[1], nil
}
