package repo

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	dom "Tasker/internal/domain"
	"Tasker/internal/utils"

	"github.com/google/uuid"
)

// ErrNoRows is returned by lookups when no todo matches the given ID.
var ErrNoRows = errors.New("no rows in result set")

// ListQuery holds the optional filter and sort parameters for List.
// Filters are conjunctive: an item must satisfy all that are set.
type ListQuery struct {
	// DueDate matches by calendar date only; time-of-day is ignored.
	DueDate *time.Time
	// Completed matches the completion flag exactly.
	Completed *bool
	// SortBy is "duedate", "title", or empty. Anything else means no sorting.
	SortBy string
}

type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error)
	List(ctx context.Context, q ListQuery) ([]dom.Todo, error)
	Update(ctx context.Context, id uuid.UUID, patch dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkDone(ctx context.Context, id uuid.UUID, done bool) (dom.Todo, error)
}

// MemoryTodoRepo keeps all todos in an in-process map. It is the only
// writer of that map; every public method takes the single mutex, so each
// operation is atomic with respect to concurrent callers. Items are copied
// on the way in and out — callers never hold a reference into the store.
type MemoryTodoRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]dom.Todo
}

func NewMemoryTodoRepo() *MemoryTodoRepo {
	return &MemoryTodoRepo{items: make(map[uuid.UUID]dom.Todo)}
}

func (r *MemoryTodoRepo) Create(_ context.Context, t dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	for {
		if _, exists := r.items[id]; !exists {
			break
		}
		id = uuid.New()
	}

	now := time.Now().UTC()
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	r.items[id] = copyTodo(t)
	return copyTodo(t), nil
}

func (r *MemoryTodoRepo) GetByID(_ context.Context, id uuid.UUID) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.items[id]
	if !ok {
		return dom.Todo{}, ErrNoRows
	}
	return copyTodo(t), nil
}

func (r *MemoryTodoRepo) List(_ context.Context, q ListQuery) ([]dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]dom.Todo, 0, len(r.items))
	for _, t := range r.items {
		if q.DueDate != nil && (t.DueDate == nil || !utils.SameDate(*t.DueDate, *q.DueDate)) {
			continue
		}
		if q.Completed != nil && t.Completed != *q.Completed {
			continue
		}
		list = append(list, copyTodo(t))
	}

	switch strings.ToLower(q.SortBy) {
	case "duedate":
		// Items without a due date sort last.
		sort.SliceStable(list, func(i, j int) bool {
			a, b := list[i].DueDate, list[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	case "title":
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Title < list[j].Title
		})
	}
	return list, nil
}

func (r *MemoryTodoRepo) Update(_ context.Context, id uuid.UUID, patch dom.Todo) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[id]
	if !ok {
		return dom.Todo{}, ErrNoRows
	}
	existing.Title = patch.Title
	existing.Description = patch.Description
	existing.DueDate = patch.DueDate
	existing.Completed = patch.Completed
	existing.UpdatedAt = time.Now().UTC()
	r.items[id] = copyTodo(existing)
	return copyTodo(existing), nil
}

// Delete removes the todo if present. Deleting an absent ID is a no-op.
func (r *MemoryTodoRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, id)
	return nil
}

func (r *MemoryTodoRepo) MarkDone(_ context.Context, id uuid.UUID, done bool) (dom.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.items[id]
	if !ok {
		return dom.Todo{}, ErrNoRows
	}
	// Idempotent: re-marking with the same flag changes nothing, not even UpdatedAt.
	if existing.Completed != done {
		existing.Completed = done
		existing.UpdatedAt = time.Now().UTC()
		r.items[id] = copyTodo(existing)
	}
	return copyTodo(existing), nil
}

// copyTodo returns a value copy with its own DueDate pointer, so mutating
// the copy can never reach the stored item.
func copyTodo(t dom.Todo) dom.Todo {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}
