package stores

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsBusyError(t *testing.T) {
	assert.False(t, IsBusyError(nil))
	assert.False(t, IsBusyError(errors.New("plain")))
	assert.False(t, IsBusyError(sql.ErrNoRows))
	assert.False(t, IsBusyError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)))
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(sql.ErrNoRows))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", sql.ErrNoRows)))
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(errors.New("plain")))
}
