package model

import (
	"time"

	"github.com/google/uuid"
)

// Run identifies one stored pipeline result.
type Run struct {
	ID      uuid.UUID
	Season  string
	Created time.Time
}
