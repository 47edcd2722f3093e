package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("update product: %w", NotFound(MsgProductNotFound, nil))
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden(MsgFactoryOnly, nil)))
}

func TestErrorsIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", BadRequest(MsgTemplateRequired, nil))
	assert.True(t, errors.Is(err, BadRequest(MsgTemplateRequired, nil)))
	assert.True(t, errors.Is(err, &Error{Kind: KindBadRequest}))
	assert.False(t, errors.Is(err, BadRequest(MsgFieldKeyRequired, nil)))
	assert.False(t, errors.Is(err, NotFound(MsgTemplateRequired, nil)))
}

func TestAsWrapsUnclassified(t *testing.T) {
	cause := errors.New("connection reset")
	appErr := As(cause)
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.ErrorIs(t, appErr, cause)
}
