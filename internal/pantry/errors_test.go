package pantry

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want FailureReason
	}{
		{"nil", nil, ReasonNone},
		{"not found", &OpError{Op: OpFindByCode, Code: 1, Err: ErrNotFound}, ReasonNotFound},
		{"wrapped invalid", fmt.Errorf("decode: %w", ErrInvalidField), ReasonInvalid},
		{"invalid amount", &OpError{Op: OpAdjustAmount, Err: ErrInvalidAmount}, ReasonInvalid},
		{"store", &OpError{Op: OpFindAll, Err: errors.New("connection refused")}, ReasonStore},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Reason(tt.err))
		})
	}
}

func TestOpErrorMessage(t *testing.T) {
	t.Parallel()

	err := &OpError{Op: OpDeleteByCode, Code: 7, Err: ErrNotFound}
	assert.Equal(t, "pantry: delete by code 7: food item not found", err.Error())

	all := &OpError{Op: OpFindAll, Err: errors.New("timeout")}
	assert.Equal(t, "pantry: find all: timeout", all.Error())
	assert.Equal(t, "not found", ReasonNotFound.String())
	assert.Equal(t, "store", ReasonStore.String())
}
