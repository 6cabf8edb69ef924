package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/evanschultz/kanbo/internal/board"
	"github.com/evanschultz/kanbo/internal/domain"
)

// dispatch runs one command line. The return value is false when an
// interactive prompt ran out of input.
func (s *session) dispatch(line string) bool {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return true
	}
	switch strings.ToLower(tokens[0]) {
	case "add":
		return s.cmdAdd(tokens)
	case "mv":
		s.cmdMv(tokens)
	case "move":
		return s.moveFlow()
	case "rm":
		s.cmdRm(tokens)
	case "remove":
		return s.cmdRemove(tokens)
	case "copy":
		s.cmdCopy(tokens)
	default:
		s.redraw()
		fmt.Fprintln(s.out, "\nUnknown command. Type 'help' for instructions.")
	}
	return true
}

func (s *session) cmdAdd(tokens []string) bool {
	if len(tokens) > 1 {
		title := strings.TrimSpace(strings.Join(tokens[1:], " "))
		if title == "" {
			fmt.Fprintln(s.out, "Title required.")
			return true
		}
		_, outcome := s.svc.Add(title)
		s.printOutcome(outcome)
		return true
	}

	title, ok := s.prompt("Enter task title: ")
	if !ok {
		return false
	}
	if title == "" {
		fmt.Fprintln(s.out, "Title required.")
		return true
	}
	_, outcome := s.svc.Add(title)
	s.printOutcome(outcome)
	return true
}

func (s *session) cmdMv(tokens []string) {
	if len(tokens) != 3 {
		fmt.Fprintln(s.out, "Usage: mv <id> <status>; statuses: t/ip/d")
		return
	}
	id, ok := parseID(tokens[1])
	if !ok {
		fmt.Fprintln(s.out, "Invalid id.")
		return
	}
	status, err := domain.ParseStatus(tokens[2])
	if err != nil {
		fmt.Fprintln(s.out, "Invalid status.")
		return
	}
	s.printOutcome(s.svc.MoveByID(id, string(status)))
}

func (s *session) moveFlow() bool {
	raw, ok := s.prompt("Enter task id: ")
	if !ok {
		return false
	}
	id, valid := parseID(raw)
	if !valid {
		fmt.Fprintln(s.out, "Invalid id.")
		return true
	}
	target, ok := s.prompt("Enter new status (todo/in-progress/done or t/ip/d): ")
	if !ok {
		return false
	}
	status, err := domain.ParseStatus(target)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid status.")
		return true
	}
	s.printOutcome(s.svc.MoveByID(id, string(status)))
	return true
}

func (s *session) cmdRm(tokens []string) {
	if len(tokens) != 2 {
		fmt.Fprintln(s.out, "Usage: rm <id>")
		return
	}
	id, ok := parseID(strings.TrimRight(tokens[1], "."))
	if !ok {
		fmt.Fprintln(s.out, "Invalid id.")
		return
	}
	s.printOutcome(s.svc.RemoveByID(id))
}

func (s *session) cmdRemove(tokens []string) bool {
	if len(tokens) == 2 {
		if id, ok := parseID(tokens[1]); ok {
			s.printOutcome(s.svc.RemoveByID(id))
			return true
		}
	}

	raw, ok := s.prompt("Enter task id to remove: ")
	if !ok {
		return false
	}
	id, valid := parseID(raw)
	if !valid {
		fmt.Fprintln(s.out, "Invalid id.")
		return true
	}
	s.printOutcome(s.svc.RemoveByID(id))
	return true
}

func (s *session) cmdCopy(tokens []string) {
	if len(tokens) != 2 {
		fmt.Fprintln(s.out, "Usage: copy <id>")
		return
	}
	id, ok := parseID(tokens[1])
	if !ok {
		fmt.Fprintln(s.out, "Invalid id.")
		return
	}
	outcome, err := s.svc.Copy(id)
	if err != nil {
		fmt.Fprintln(s.out, "Clipboard unavailable.")
		return
	}
	s.printOutcome(outcome)
}

// printOutcome prints everything except successful adds and moves;
// those stay silent because the next redraw shows the result.
func (s *session) printOutcome(outcome board.Outcome) {
	switch outcome.Kind {
	case board.OutcomeAdded, board.OutcomeMoved:
	default:
		fmt.Fprintln(s.out, outcome.Message)
	}
}

// parseID accepts plain digit runs only, matching the prompt contract.
func parseID(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return id, true
}
