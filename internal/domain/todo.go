package domain

import (
	"time"

	"github.com/google/uuid"
)

// Todo is the domain entity for a to-do item.
// It does not depend on Gin or the storage layer.
type Todo struct {
	ID          uuid.UUID
	Title       string
	Description string
	Completed   bool
	DueDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
