package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
)

var (
	errEnd = errors.New("end")
)

// Terminal holds the input and output shared by the journal and catalog CLIs.
type Terminal struct {
	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	location     *time.Location
	bold         *color.Color
	italic       *color.Color
	faint        *color.Color
}

func NewTerminal(stdin io.Reader, stdout io.Writer) *Terminal {
	return &Terminal{
		stdinReader:  bufio.NewReader(stdin),
		stdoutWriter: stdout,
		location:     time.Local,
		bold:         color.New(color.Bold),
		italic:       color.New(color.Italic),
		faint:        color.New(color.Faint),
	}
}

// WithLocation sets the time zone entry dates are displayed in.
func (t *Terminal) WithLocation(location *time.Location) *Terminal {
	t.location = location
	return t
}

// Session is one step of an interactive loop. Returning errEnd stops the loop.
type Session interface {
	Session(ctx context.Context) error
}

func (t *Terminal) Run(ctx context.Context, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

	LOOP:
		for {
			select {
			case <-ctx.Done():
				break LOOP
			default:
			}

			if err := session.Session(ctx); err != nil {
				if errors.Is(err, errEnd) {
					break
				}
				errCh <- err
				break
			}
		}
	}()
	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(t.stdoutWriter, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("error: %w", err)
		}
	}
	return nil
}

// readLine returns the next input line without surrounding spaces. io.EOF is returned as
// errEnd.
func (t *Terminal) readLine() (string, error) {
	line, err := t.stdinReader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line = strings.TrimSpace(line); line != "" {
				return line, nil
			}
			return "", errEnd
		}
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question. Anything other than y or yes is a no.
func (t *Terminal) confirm(question string) (bool, error) {
	_, _ = fmt.Fprintf(t.stdoutWriter, "%s [y/N]: ", question)
	answer, err := t.readLine()
	if err != nil {
		if errors.Is(err, errEnd) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
