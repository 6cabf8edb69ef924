package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/evanschultz/kanbo/internal/app"
	"github.com/evanschultz/kanbo/internal/theme"
)

// Terminal control sequences. Scrollback is cleared first (ESC[3J) for
// terminals without alternate screen support.
const (
	clearSequence  = "\033[3J\033[H\033[2J\033[H"
	enterAltScreen = "\033[?1049h"
	leaveAltScreen = "\033[?1049l"
)

const helpText = `Commands:
  add                 Add a new task (prompts for title)
  add <title...>      Shorthand add with inline title (e.g., add write report)
  move                Move a task (interactive prompts)
  mv <id> <status>    Shorthand move; status aliases: t (todo), ip (in-progress), d (done)
  rm <id>             Shorthand remove by id (e.g., rm 2)
  remove              Remove a task by id (prompts or 'remove <id>')
  copy <id>           Copy a task title to the clipboard (e.g., copy 2)
  help                Show this help (press Enter to return)
  exit                Save and exit`

// Options configures a session.
type Options struct {
	Input     io.Reader
	Output    io.Writer
	Styles    theme.Styles
	Width     func() int
	AltScreen bool
}

// session holds loop state for one interactive run.
type session struct {
	svc    *app.Service
	out    io.Writer
	styles theme.Styles
	width  func() int
	lines  <-chan string
	ctx    context.Context
}

// Run drives the interactive loop until exit, interrupt, or end of
// input. The board is cleared and redrawn on every cycle and state is
// persisted after every command.
func Run(ctx context.Context, svc *app.Service, opts Options) error {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Width == nil {
		opts.Width = func() int { return 0 }
	}

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(opts.Input)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		close(lines)
	}()

	s := &session{
		svc:    svc,
		out:    opts.Output,
		styles: opts.Styles,
		width:  opts.Width,
		lines:  lines,
		ctx:    ctx,
	}

	// Interrupt must not abort the final persist.
	flushCtx := context.WithoutCancel(ctx)

	if opts.AltScreen {
		fmt.Fprint(s.out, enterAltScreen)
	}

	exitMessage := ""
	var runErr error
loop:
	for {
		s.redraw()
		fmt.Fprint(s.out, "\n: ")
		line, ok := s.readLine()
		if !ok {
			runErr = svc.Flush(flushCtx)
			exitMessage = "Interrupted. Goodbye."
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "help":
			s.clear()
			fmt.Fprintln(s.out, helpText)
			fmt.Fprint(s.out, "\nPress Enter to return to the board...")
			if _, ok := s.readLine(); !ok {
				runErr = svc.Flush(flushCtx)
				exitMessage = "Interrupted. Goodbye."
				break loop
			}
			continue
		case "exit":
			runErr = svc.Flush(flushCtx)
			exitMessage = "Goodbye."
			break loop
		}
		if !s.dispatch(line) {
			runErr = svc.Flush(flushCtx)
			exitMessage = "Interrupted. Goodbye."
			break
		}
		if err := svc.Flush(flushCtx); err != nil {
			runErr = err
			break
		}
	}

	if opts.AltScreen {
		fmt.Fprint(s.out, leaveAltScreen)
	}
	if exitMessage != "" {
		fmt.Fprintln(s.out, exitMessage)
	}
	return runErr
}

// readLine returns the next input line; ok is false once input is
// exhausted or the context is canceled.
func (s *session) readLine() (string, bool) {
	select {
	case line, ok := <-s.lines:
		return line, ok
	case <-s.ctx.Done():
		return "", false
	}
}

// prompt prints a label and reads one trimmed line.
func (s *session) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	line, ok := s.readLine()
	return strings.TrimSpace(line), ok
}

func (s *session) clear() {
	fmt.Fprint(s.out, clearSequence)
}

func (s *session) redraw() {
	s.clear()
	fmt.Fprintln(s.out, "Kanban Board:")
	fmt.Fprintln(s.out, s.svc.Render(s.width(), s.styles))
}
