package state

import (
	"time"

	"github.com/google/uuid"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		RunID: newRunID(),
	}
}

// newRunID returns time ordered identifier, so reports from consecutive runs
// sort naturally.
func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
