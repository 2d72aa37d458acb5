package errors

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorKeepsTypedError(t *testing.T) {
	err := fmt.Errorf("outer: %w", Clone(ErrConflict, "time slot conflict"))
	appErr := FromError(err)
	assert.Equal(t, ErrConflict.Code, appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "time slot conflict", appErr.Message)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.ErrorIs(t, appErr, sql.ErrConnDone)
}

func TestClonedSentinelMatchesByCode(t *testing.T) {
	err := Clone(ErrNotFound, "timetable not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.True(t, HasCode(err, "NOT_FOUND"))
	assert.False(t, HasCode(sql.ErrNoRows, "NOT_FOUND"))
}

func TestInternalWraps(t *testing.T) {
	err := Internal(sql.ErrTxDone, "failed to commit")
	assert.Equal(t, "failed to commit: sql: transaction has already been committed or rolled back", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}
