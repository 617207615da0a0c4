package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewEntryID_SortsByCreation(t *testing.T) {
	earlier := NewEntryID(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	later := NewEntryID(time.Date(2024, 3, 1, 0, 0, 1, 0, time.UTC))

	assert.Len(t, earlier, 26)
	assert.Less(t, earlier, later)
}
