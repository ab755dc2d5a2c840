// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bassosimone/errclass"
	"github.com/stretchr/testify/assert"
)

func TestDefaultErrClassifier(t *testing.T) {
	type testCase struct {
		// name is the name of the test case
		name string

		// err is the error to classify
		err error

		// expect is the expected class
		expect string
	}

	cases := []testCase{
		{
			name:   "nil error",
			err:    nil,
			expect: "",
		},

		{
			name:   "deadline exceeded",
			err:    context.DeadlineExceeded,
			expect: errclass.ETIMEDOUT,
		},

		{
			name:   "wrapped deadline exceeded",
			err:    fmt.Errorf("gopher: reading request: %w", context.DeadlineExceeded),
			expect: errclass.ETIMEDOUT,
		},

		{
			name:   "unknown error",
			err:    errors.New("unknown error"),
			expect: errclass.EGENERIC,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, DefaultErrClassifier.Classify(tc.err))
		})
	}
}

func TestErrClassifierFunc(t *testing.T) {
	classifier := ErrClassifierFunc(func(err error) string { return "ECUSTOM" })
	assert.Equal(t, "ECUSTOM", classifier.Classify(errors.New("x")))
}
