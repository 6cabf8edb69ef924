package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/evanschultz/kanbo/internal/board"
	"github.com/evanschultz/kanbo/internal/domain"
	"github.com/evanschultz/kanbo/internal/storage"
	"github.com/evanschultz/kanbo/internal/theme"
)

// Clock returns the current time.
type Clock func() time.Time

// ClipboardFunc writes text to the system clipboard.
type ClipboardFunc func(string) error

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	// PruneMaxAge is how long a done task may keep its completion date
	// before a flush archives it. Zero or negative disables pruning.
	PruneMaxAge time.Duration
	Clipboard   ClipboardFunc
}

// Service owns the in-memory board and funnels every surface (REPL,
// TUI, MCP) through the same mutation, prune, and persistence path.
type Service struct {
	mu        sync.Mutex
	board     *board.Board
	store     Store
	archive   Archive
	clock     Clock
	clipboard ClipboardFunc
	pruneAge  time.Duration
}

// NewService constructs a new value for this package.
func NewService(store Store, archive Archive, clock Clock, cfg ServiceConfig) *Service {
	if clock == nil {
		clock = time.Now
	}
	if cfg.Clipboard == nil {
		cfg.Clipboard = clipboard.WriteAll
	}
	return &Service{
		board:     board.New(),
		store:     store,
		archive:   archive,
		clock:     clock,
		clipboard: cfg.Clipboard,
		pruneAge:  cfg.PruneMaxAge,
	}
}

// Load replaces the in-memory board with the persisted state.
func (s *Service) Load() error {
	state, err := s.store.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.board.Load(state)
	return nil
}

// Add adds a task to the todo column.
func (s *Service) Add(title string) (domain.Task, board.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.AddTask(title, s.clock())
}

// MoveByID moves a task looked up by id.
func (s *Service) MoveByID(id int, newStatus string) board.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.MoveByID(id, newStatus, s.clock())
}

// MoveByTitle moves a task looked up by exact title.
func (s *Service) MoveByTitle(title, newStatus string) board.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.MoveByTitle(title, newStatus, s.clock())
}

// MoveByIndex moves a task addressed by column position.
func (s *Service) MoveByIndex(currentStatus string, number int, newStatus string) board.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.MoveByIndex(currentStatus, number, newStatus, s.clock())
}

// RemoveByID removes a task looked up by id.
func (s *Service) RemoveByID(id int) board.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.RemoveByID(id)
}

// RemoveByTitle removes a task looked up by exact title.
func (s *Service) RemoveByTitle(title string) board.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.RemoveByTitle(title)
}

// Copy puts the title of the given task on the system clipboard.
func (s *Service) Copy(id int) (board.Outcome, error) {
	s.mu.Lock()
	title := ""
	found := false
	for _, task := range s.board.Tasks() {
		if task.ID == id {
			title = task.Title
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return board.Outcome{Kind: board.OutcomeNotFound, Message: fmt.Sprintf("Task id %d not found.", id)}, nil
	}
	if err := s.clipboard(title); err != nil {
		return board.Outcome{}, fmt.Errorf("copy to clipboard: %w", err)
	}
	return board.Outcome{Kind: board.OutcomeCopied, Message: fmt.Sprintf("Task %d title copied.", id)}, nil
}

// Render renders the board grid at the given terminal width.
func (s *Service) Render(termWidth int, styles theme.Styles) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Render(termWidth, styles)
}

// Tasks returns every task in fixed column order.
func (s *Service) Tasks() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Tasks()
}

// Column returns the tasks of one column.
func (s *Service) Column(status domain.Status) []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Column(status)
}

// Summary returns the per-column task counts as one line.
func (s *Service) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Summary()
}

// Flush prunes stale done tasks, archives them, and writes the board
// state to disk.
func (s *Service) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	state := s.board.ExportState()
	if s.pruneAge > 0 {
		kept, pruned := storage.PruneDone(state, now, s.pruneAge)
		if len(pruned) > 0 {
			if s.archive != nil {
				if err := s.archive.Archive(ctx, pruned, now); err != nil {
					return fmt.Errorf("archive pruned tasks: %w", err)
				}
			}
			s.board.Load(kept)
			s.board.RenumberSequential()
			state = s.board.ExportState()
		}
	}
	return s.store.Save(state)
}
