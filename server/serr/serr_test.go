package serr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Error_Is(t *testing.T) {
	baseErr := errors.New("disk on fire")

	testCases := []struct {
		name      string
		err       error
		target    error
		expect    bool
		expectMsg string
	}{
		{
			name:      "matches sole cause",
			err:       New("bad name", ErrBadArgument),
			target:    ErrBadArgument,
			expect:    true,
			expectMsg: "bad name: invalid argument",
		},
		{
			name:      "matches second cause",
			err:       WrapDB("could not save", baseErr),
			target:    ErrDB,
			expect:    true,
			expectMsg: "could not save: disk on fire",
		},
		{
			name:      "matches wrapped cause",
			err:       New("", fmt.Errorf("storing: %w", baseErr)),
			target:    baseErr,
			expect:    true,
			expectMsg: "storing: disk on fire",
		},
		{
			name:      "no match",
			err:       New("bad name", ErrBadArgument),
			target:    ErrNotFound,
			expect:    false,
			expectMsg: "bad name: invalid argument",
		},
		{
			name:      "nil causes skipped",
			err:       New("no rules", nil, ErrBadArgument),
			target:    ErrBadArgument,
			expect:    true,
			expectMsg: "no rules: invalid argument",
		},
		{
			name:      "message only",
			err:       New("just a message"),
			target:    ErrBadArgument,
			expect:    false,
			expectMsg: "just a message",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			assert.Equal(tc.expect, errors.Is(tc.err, tc.target))
			assert.Equal(tc.expectMsg, tc.err.Error())
		})
	}
}
