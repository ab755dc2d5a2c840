// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import "github.com/bassosimone/errclass"

// ErrClassifier maps errors to short labels (e.g., "ECONNRESET").
//
// The labels end up in the errClass attribute of structured logs, which
// makes aggregating transport failures across connections trivial.
type ErrClassifier interface {
	Classify(err error) string
}

// ErrClassifierFunc adapts a function to the [ErrClassifier] interface.
type ErrClassifierFunc func(error) string

var _ ErrClassifier = ErrClassifierFunc(nil)

// Classify implements [ErrClassifier].
func (f ErrClassifierFunc) Classify(err error) string {
	return f(err)
}

// DefaultErrClassifier classifies errors using [errclass.New].
//
// A nil error maps to the empty string.
var DefaultErrClassifier = ErrClassifierFunc(errclass.New)
