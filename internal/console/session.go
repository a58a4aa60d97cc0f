package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/people-search/pkg/logger"
)

// Session runs a Machine against line-oriented input.
type Session struct {
	machine *Machine
	in      *bufio.Reader
	out     io.Writer
}

func NewSession(machine *Machine, in io.Reader, out io.Writer) *Session {
	return &Session{
		machine: machine,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run loops until the exit command, end of input, or ctx cancellation.
// Reaching end of input is not an error.
func (s *Session) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)
	for !s.machine.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.print(s.machine.Prompt()); err != nil {
			return err
		}
		line, err := s.readLine()
		if err == io.EOF {
			log.Debug("input closed", "state", s.machine.State())
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		out := s.machine.Handle(ctx, line)
		if err := s.print(out.Lines); err != nil {
			return err
		}
	}
	return nil
}

// readLine returns the next line without its terminator. A final line with no
// terminator is returned before io.EOF.
func (s *Session) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Session) print(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(s.out, line); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
	}
	return nil
}
