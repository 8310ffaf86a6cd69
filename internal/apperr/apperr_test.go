package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindBadRequest, KindOf(BadRequest("bad")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindUnauthorized, KindOf(Unauthorized("who")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("no")))
	assert.Equal(t, KindInternal, KindOf(Internal("boom", errors.New("cause"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("untagged")))
}

func TestKindOf_Wrapped(t *testing.T) {
	err := fmt.Errorf("context: %w", NotFound("missing"))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "missing", MessageOf(err))
}

func TestMessageOf_InternalNeverLeaksCause(t *testing.T) {
	err := Internal("db exploded", errors.New("connection refused"))
	assert.Equal(t, "Internal server error.", MessageOf(err))
	assert.Equal(t, "Internal server error.", MessageOf(errors.New("untagged")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	assert.ErrorIs(t, Internal("boom", cause), cause)
}
