package command

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	store := errors.New("connection refused")
	err := fmt.Errorf("todo: %w", Persistence("load", store))

	assert.Equal(t, PersistenceFault, KindOf(err))
	assert.ErrorIs(t, err, store)
	assert.Equal(t, InvalidReference, KindOf(Invalid("notice.invalid_role")))
	assert.Equal(t, MissingRequiredArgument, KindOf(MissingArgument()))
	assert.Equal(t, UnexpectedFault, KindOf(errors.New("x")))
	assert.Equal(t, UnexpectedFault, KindOf(&PanicError{Value: 1}))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "invalid reference: notice.invalid_member", Invalid("notice.invalid_member").Error())
	assert.Equal(t, "persistence fault: load: boom", Persistence("load", errors.New("boom")).Error())
	assert.Equal(t, "missing required argument", MissingArgument().Error())
}
