package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrInvalidArguments, ExitBadUsage, "got %d args", 3)
	assert.True(t, errors.Is(err, ErrInvalidArguments))
	assert.Equal(t, "invalid arguments: got 3 args", err.Error())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitBadUsage, ExitCode(fmt.Errorf("parsing: %w", ErrInvalidArguments)))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	assert.Equal(t, 7, ExitCode(New(ErrInvalidMenuChoice, 7, "custom")))
}
