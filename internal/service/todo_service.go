package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	dom "Tasker/internal/domain"
	"Tasker/internal/repo"
	"Tasker/internal/utils"

	"github.com/google/uuid"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 500
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmptyTitle         = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title cannot be longer than 100 characters")
	ErrDescriptionTooLong = errors.New("description cannot be longer than 500 characters")
	ErrInvalidDueDate     = errors.New("due_date must be today or in the future")
)

// TodoService validates incoming todo data and translates storage errors
// into the service error taxonomy. All business invariants live here and
// in the repo; handlers only map these errors to HTTP statuses.
type TodoService struct {
	repo repo.TodoRepo
}

func NewTodoService(r repo.TodoRepo) *TodoService {
	return &TodoService{repo: r}
}

func (s *TodoService) Create(ctx context.Context, title, desc string, dueDate *time.Time) (dom.Todo, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)

	if err := validate(title, desc, dueDate); err != nil {
		return dom.Todo{}, err
	}

	return s.repo.Create(ctx, dom.Todo{
		Title:       title,
		Description: desc,
		DueDate:     dueDate,
	})
}

func (s *TodoService) List(ctx context.Context, q repo.ListQuery) ([]dom.Todo, error) {
	return s.repo.List(ctx, q)
}

func (s *TodoService) GetByID(ctx context.Context, id uuid.UUID) (dom.Todo, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

// Update replaces title, description, due date and completion flag of an
// existing todo. The ID itself is never overwritten. Input is validated
// before the item is looked up, so a bad payload reports the validation
// error even when the ID does not exist.
func (s *TodoService) Update(ctx context.Context, id uuid.UUID, title, desc string, dueDate *time.Time, completed bool) (dom.Todo, error) {
	title = strings.TrimSpace(title)
	desc = strings.TrimSpace(desc)

	if err := validate(title, desc, dueDate); err != nil {
		return dom.Todo{}, err
	}

	t, err := s.repo.Update(ctx, id, dom.Todo{
		Title:       title,
		Description: desc,
		DueDate:     dueDate,
		Completed:   completed,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNoRows) {
			return dom.Todo{}, ErrNotFound
		}
		return dom.Todo{}, err
	}
	return t, nil
}

// Complete marks the todo as done. Completing an already-completed todo
// succeeds without changes.
func (s *TodoService) Complete(ctx context.Context, id uuid.UUID) error {
	_, err := s.repo.MarkDone(ctx, id, true)
	if err != nil {
		if errors.Is(err, repo.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes the todo. Deleting an absent ID is not an error at this
// layer; the handler pre-checks existence when a 404 is wanted.
func (s *TodoService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func validate(title, desc string, dueDate *time.Time) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return ErrTitleTooLong
	}
	if utf8.RuneCountInString(desc) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if dueDate != nil && utils.BeforeToday(*dueDate) {
		return ErrInvalidDueDate
	}
	return nil
}

// IsValidationError reports whether err is one of the caller-fixable
// input errors, as opposed to ErrNotFound or an internal failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyTitle) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrDescriptionTooLong) ||
		errors.Is(err, ErrInvalidDueDate)
}
