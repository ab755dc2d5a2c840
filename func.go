// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import "context"

// Func is an operation turning an input into a result.
//
// The client is a pipeline of Func instances chained with [Compose2] and
// friends: endpoint, connect, observe, cancel watch and Gopher conn.
//
// When a Func receives a closeable resource as input and fails, it must
// close that resource before returning.
type Func[A, B any] interface {
	Call(ctx context.Context, input A) (B, error)
}

// FuncAdapter wraps a function as a [Func] implementation.
type FuncAdapter[A, B any] func(ctx context.Context, input A) (B, error)

// Call implements [Func].
func (f FuncAdapter[A, B]) Call(ctx context.Context, input A) (B, error) {
	return f(ctx, input)
}
