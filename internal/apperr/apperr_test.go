package apperr_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"kriya/internal/apperr"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("loading cart: %w", apperr.NotFound("line item %s not found", "x"))

	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, apperr.ErrNotFound))
	assert.False(t, errors.Is(wrapped, apperr.ErrConflict))
	assert.Equal(t, apperr.KindStorage, apperr.KindOf(errors.New("connection reset")))
}

func TestStorageUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := apperr.Storage(cause, "failed to save cart for %s", "buyer-1")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save cart for buyer-1: disk full", err.Error())
	assert.Equal(t, http.StatusInternalServerError, apperr.KindOf(err).Status())
}

func TestStatuses(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, apperr.KindNotAuthenticated.Status())
	assert.Equal(t, http.StatusForbidden, apperr.KindForbidden.Status())
	assert.Equal(t, http.StatusBadRequest, apperr.KindValidation.Status())
	assert.Equal(t, http.StatusNotFound, apperr.KindNotFound.Status())
	assert.Equal(t, http.StatusConflict, apperr.KindConflict.Status())
	assert.Equal(t, http.StatusServiceUnavailable, apperr.KindUnavailable.Status())
	assert.Equal(t, "VALIDATION_FAILED", apperr.KindValidation.String())
}

func TestInvalidField(t *testing.T) {
	err := apperr.InvalidField("shipping_address", "Shipping address is required")

	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	assert.Equal(t, "Shipping address is required", err.Fields["shipping_address"])
}

func TestKindOf_ContextErrors(t *testing.T) {
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(context.Canceled))
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(fmt.Errorf("waiting: %w", context.DeadlineExceeded)))

	err := apperr.Unavailable(context.Canceled, "cart of %s is busy", "buyer-1")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, apperr.KindOf(err).Status())
}
