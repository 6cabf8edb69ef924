package board

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/evanschultz/kanbo/internal/domain"
)

// Board owns the three status columns and the id counter. Insertion
// order within a column is display order. The board is not safe for
// concurrent use; callers serialize access.
type Board struct {
	columns map[domain.Status][]domain.Task
	nextID  int
}

// New returns an empty board.
func New() *Board {
	return &Board{
		columns: emptyColumns(),
		nextID:  1,
	}
}

func emptyColumns() map[domain.Status][]domain.Task {
	return map[domain.Status][]domain.Task{
		domain.StatusTodo:       {},
		domain.StatusInProgress: {},
		domain.StatusDone:       {},
	}
}

// StoredTask mirrors one persisted task row. A nil Title marks a
// corrupt row and is skipped on load; a non-positive ID means the row
// carried no usable id and one is allocated.
type StoredTask struct {
	ID             int
	Title          *string
	CompletionDate *time.Time
	CreatedAt      *time.Time
}

// State is the persistence record shape: canonical status keys mapping
// to ordered task rows. Legacy key spellings are the storage layer's
// concern; the board only reads the three canonical keys.
type State map[domain.Status][]StoredTask

// Load replaces the board content with a persisted state. Supplied ids
// are kept and nextID advances to one past the maximum seen.
func (b *Board) Load(state State) {
	b.columns = emptyColumns()
	b.nextID = 1

	var collected []domain.Task
	for _, status := range domain.Statuses() {
		for _, row := range state[status] {
			if row.Title == nil {
				continue
			}
			id := row.ID
			if id <= 0 {
				id = b.nextID
				b.nextID++
			}
			collected = append(collected, domain.Task{
				ID:             id,
				Title:          *row.Title,
				Status:         status,
				CompletionDate: row.CompletionDate,
				CreatedAt:      row.CreatedAt,
			})
		}
	}
	if len(collected) > 0 {
		maxID := 0
		for _, task := range collected {
			if task.ID > maxID {
				maxID = task.ID
			}
		}
		b.nextID = maxID + 1
	}
	for _, task := range collected {
		b.columns[task.Status] = append(b.columns[task.Status], task)
	}
}

// ExportState serializes the board into the persistence record shape.
func (b *Board) ExportState() State {
	state := make(State, len(b.columns))
	for _, status := range domain.Statuses() {
		rows := make([]StoredTask, 0, len(b.columns[status]))
		for _, task := range b.columns[status] {
			title := task.Title
			rows = append(rows, StoredTask{
				ID:             task.ID,
				Title:          &title,
				CompletionDate: task.CompletionDate,
				CreatedAt:      task.CreatedAt,
			})
		}
		state[status] = rows
	}
	return state
}

func (b *Board) allocateID() int {
	id := b.nextID
	b.nextID++
	return id
}

// AddTask creates a task in todo with a fresh id.
func (b *Board) AddTask(title string, now time.Time) (domain.Task, Outcome) {
	task, err := domain.NewTask(title, now)
	if err != nil {
		return domain.Task{}, Outcome{Kind: OutcomeInvalidTitle, Message: "Title required."}
	}
	task.ID = b.allocateID()
	b.columns[domain.StatusTodo] = append(b.columns[domain.StatusTodo], task)
	return task, Outcome{Kind: OutcomeAdded, Message: fmt.Sprintf("Task %d added.", task.ID)}
}

// MoveByTitle moves the first task whose title matches exactly.
func (b *Board) MoveByTitle(title, newStatus string, now time.Time) Outcome {
	status, idx, ok := b.findByTitle(title)
	if !ok {
		return Outcome{Kind: OutcomeNotFound, Message: fmt.Sprintf("Task \"%s\" not found.", title)}
	}
	return b.transition(status, idx, newStatus, fmt.Sprintf("Task \"%s\"", title), now)
}

// MoveByID moves the task with the given id.
func (b *Board) MoveByID(id int, newStatus string, now time.Time) Outcome {
	if !domain.IsValidStatus(domain.Status(newStatus)) {
		return Outcome{Kind: OutcomeInvalidStatus, Message: fmt.Sprintf("Invalid status: %s", newStatus)}
	}
	status, idx, ok := b.findByID(id)
	if !ok {
		return Outcome{Kind: OutcomeNotFound, Message: fmt.Sprintf("Task id %d not found.", id)}
	}
	return b.transition(status, idx, newStatus, fmt.Sprintf("Task %d", id), now)
}

// MoveByIndex moves the 1-based nth task of a column.
func (b *Board) MoveByIndex(currentStatus string, number int, newStatus string, now time.Time) Outcome {
	current := domain.Status(currentStatus)
	if !domain.IsValidStatus(current) {
		return Outcome{Kind: OutcomeInvalidStatus, Message: fmt.Sprintf("Invalid current status: %s", currentStatus)}
	}
	if !domain.IsValidStatus(domain.Status(newStatus)) {
		return Outcome{Kind: OutcomeInvalidStatus, Message: fmt.Sprintf("Invalid new status: %s", newStatus)}
	}
	idx := number - 1
	if idx < 0 || idx >= len(b.columns[current]) {
		return Outcome{Kind: OutcomeNotFound, Message: fmt.Sprintf("No task #%d in %s.", number, current)}
	}
	task := b.columns[current][idx]
	return b.transition(current, idx, newStatus, fmt.Sprintf("Task \"%s\"", task.Title), now)
}

// transition applies the shared move rules: validate the target,
// no-op when already there, stamp the completion date on first entry
// to done, append to the target column's tail.
func (b *Board) transition(status domain.Status, idx int, newStatus, label string, now time.Time) Outcome {
	target := domain.Status(newStatus)
	if !domain.IsValidStatus(target) {
		return Outcome{Kind: OutcomeInvalidStatus, Message: fmt.Sprintf("Invalid status: %s", newStatus)}
	}
	task := b.columns[status][idx]
	if task.Status == target {
		return Outcome{Kind: OutcomeAlreadyIn, Message: fmt.Sprintf("%s already in %s.", label, target)}
	}
	b.columns[status] = slices.Delete(b.columns[status], idx, idx+1)
	task.Status = target
	if target == domain.StatusDone && task.CompletionDate == nil {
		completed := now.UTC()
		task.CompletionDate = &completed
	}
	b.columns[target] = append(b.columns[target], task)
	return Outcome{Kind: OutcomeMoved, Message: fmt.Sprintf("%s moved to \"%s\".", label, target)}
}

// RemoveByTitle removes the first task whose title matches exactly.
func (b *Board) RemoveByTitle(title string) Outcome {
	status, idx, ok := b.findByTitle(title)
	if !ok {
		return Outcome{Kind: OutcomeNotFound, Message: fmt.Sprintf("Task \"%s\" not found.", title)}
	}
	b.columns[status] = slices.Delete(b.columns[status], idx, idx+1)
	return Outcome{Kind: OutcomeRemoved, Message: fmt.Sprintf("Task \"%s\" removed.", title)}
}

// RemoveByID removes the task with the given id.
func (b *Board) RemoveByID(id int) Outcome {
	status, idx, ok := b.findByID(id)
	if !ok {
		return Outcome{Kind: OutcomeNotFound, Message: fmt.Sprintf("Task id %d not found.", id)}
	}
	b.columns[status] = slices.Delete(b.columns[status], idx, idx+1)
	return Outcome{Kind: OutcomeRemoved, Message: fmt.Sprintf("Task %d removed.", id)}
}

// RenumberSequential reassigns ids 1..n in creation order. Tasks
// without a created_at timestamp sort first; old ids break remaining
// ties. Calling it twice with no intervening mutation changes nothing.
func (b *Board) RenumberSequential() {
	all := make([]*domain.Task, 0, b.taskCount())
	for _, status := range domain.Statuses() {
		col := b.columns[status]
		for i := range col {
			all = append(all, &col[i])
		}
	}
	slices.SortStableFunc(all, func(x, y *domain.Task) int {
		if c := compareCreatedAt(x.CreatedAt, y.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	for i, task := range all {
		task.ID = i + 1
	}
	b.nextID = len(all) + 1
}

func compareCreatedAt(x, y *time.Time) int {
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return -1
	case y == nil:
		return 1
	default:
		return x.Compare(*y)
	}
}

// Tasks returns every task in fixed column order todo, in-progress,
// done, preserving each column's internal order.
func (b *Board) Tasks() []domain.Task {
	out := make([]domain.Task, 0, b.taskCount())
	for _, status := range domain.Statuses() {
		out = append(out, b.columns[status]...)
	}
	return out
}

// Column returns the ordered tasks currently in one status.
func (b *Board) Column(status domain.Status) []domain.Task {
	return slices.Clone(b.columns[status])
}

// Summary returns a one-line task count by column.
func (b *Board) Summary() string {
	return fmt.Sprintf("Todo: %d tasks, In-Progress: %d tasks, Done: %d tasks",
		len(b.columns[domain.StatusTodo]),
		len(b.columns[domain.StatusInProgress]),
		len(b.columns[domain.StatusDone]))
}

func (b *Board) taskCount() int {
	n := 0
	for _, status := range domain.Statuses() {
		n += len(b.columns[status])
	}
	return n
}

func (b *Board) findByID(id int) (domain.Status, int, bool) {
	for _, status := range domain.Statuses() {
		for i, task := range b.columns[status] {
			if task.ID == id {
				return status, i, true
			}
		}
	}
	return "", 0, false
}

func (b *Board) findByTitle(title string) (domain.Status, int, bool) {
	for _, status := range domain.Statuses() {
		for i, task := range b.columns[status] {
			if task.Title == title {
				return status, i, true
			}
		}
	}
	return "", 0, false
}
