// Package console implements the text based debugger console. Commands are
// looked up by their shortest unambiguous prefix and executed synchronously
// by the loop that drives the emulation.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/beevik/cmd"
	"github.com/retroenv/retrochip8/internal/debugger"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// ErrQuit is returned by Execute when the user requested to exit.
var ErrQuit = errors.New("exiting program")

// Console executes debugger commands and prints their results.
type Console struct {
	logger      *log.Logger
	debugger    *debugger.Debugger
	output      *bufio.Writer
	interactive bool
	lastCmd     *cmd.Selection
	settings    settings
}

// settings keep the state of commands that continue where they stopped
// when repeated by an empty line.
type settings struct {
	nextMemoryAddress uint16
	memoryLength      int
	nextDisasmAddress uint16
	disasmLines       int
}

// New returns a console controlling the debugger. If interactive is set, a
// prompt is displayed while waiting for the next command.
func New(logger *log.Logger, d *debugger.Debugger, output io.Writer, interactive bool) *Console {
	return &Console{
		logger:      logger,
		debugger:    d,
		output:      bufio.NewWriter(output),
		interactive: interactive,
	}
}

// IsInteractive returns whether the file is a terminal.
func IsInteractive(file *os.File) bool {
	return term.IsTerminal(int(file.Fd()))
}

// ReadLines reads lines from the reader on a separate goroutine and sends
// them to the returned channel. The channel is closed at the end of the
// input or when the context is cancelled.
func ReadLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// Start prints the greeting, the current instruction and the first prompt.
func (c *Console) Start() {
	if c.interactive {
		c.println("Type 'help' for a list of commands.")
	}
	c.displayPC()
	c.prompt()
}

// Execute runs a single command line. An empty line repeats the last
// command. It returns ErrQuit if the user requested to exit.
func (c *Console) Execute(line string) error {
	err := c.execute(line)
	if !errors.Is(err, ErrQuit) {
		c.prompt()
	}
	return err
}

func (c *Console) execute(line string) error {
	var s cmd.Selection
	if line != "" {
		var err error
		s, err = commands.Lookup(line)
		switch {
		case errors.Is(err, cmd.ErrNotFound):
			c.println("Command not found.")
			return nil
		case errors.Is(err, cmd.ErrAmbiguous):
			c.println("Command is ambiguous.")
			return nil
		case err != nil:
			c.printf("ERROR: %v.\n", err)
			return nil
		}
	} else if c.lastCmd != nil {
		s = *c.lastCmd
	}

	if s.Command == nil {
		return nil
	}
	if s.Command.Data == nil && s.Command.Subtree != nil {
		c.displayCommands(s.Command.Subtree, nil)
		return nil
	}

	c.lastCmd = &s

	handler := s.Command.Data.(func(*Console, cmd.Selection) error)
	return handler(c, s)
}

// Report prints the result of an advance of the debugger that stopped the
// execution.
func (c *Console) Report(event debugger.Event, err error) {
	switch event.Reason {
	case debugger.StopNone:
		return

	case debugger.StopBreakpoint:
		c.printf("\nBreakpoint hit at $%03X.\n", event.Address)
		c.displayPC()

	case debugger.StopStep:
		c.displayPC()

	case debugger.StopHalted:
		c.printf("\nExecution stopped, %v\n", err)
		c.println("Use 'reset' to restart the program.")
	}
	c.prompt()
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.output, format, args...)
	c.flush()
}

func (c *Console) println(args ...any) {
	_, _ = fmt.Fprintln(c.output, args...)
	c.flush()
}

func (c *Console) flush() {
	if err := c.output.Flush(); err != nil {
		c.logger.Error("Writing console output failed", log.Err(err))
	}
}

func (c *Console) prompt() {
	if !c.interactive {
		return
	}
	c.printf("* ")
}
