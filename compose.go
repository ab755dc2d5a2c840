// SPDX-License-Identifier: GPL-3.0-or-later

package gopher

import "context"

// Compose2 chains two [Func] instances together into a pipeline.
//
// The output of op1 becomes the input to op2. If op1 fails, op2 is not
// called and the error is returned immediately.
func Compose2[A, B, C any](op1 Func[A, B], op2 Func[B, C]) Func[A, C] {
	return FuncAdapter[A, C](func(ctx context.Context, input A) (C, error) {
		mid, err := op1.Call(ctx, input)
		if err != nil {
			var zero C
			return zero, err
		}
		return op2.Call(ctx, mid)
	})
}

// Compose3 chains three [Func] instances together.
func Compose3[A, B, C, D any](op1 Func[A, B], op2 Func[B, C], op3 Func[C, D]) Func[A, D] {
	return Compose2(Compose2(op1, op2), op3)
}

// Compose4 chains four [Func] instances together.
func Compose4[A, B, C, D, E any](op1 Func[A, B], op2 Func[B, C], op3 Func[C, D], op4 Func[D, E]) Func[A, E] {
	return Compose2(Compose3(op1, op2, op3), op4)
}

// Compose5 chains five [Func] instances together.
//
// This is the length of a complete client pipeline: endpoint, connect,
// observe, cancel watch and Gopher conn.
func Compose5[A, B, C, D, E, F any](
	op1 Func[A, B], op2 Func[B, C], op3 Func[C, D], op4 Func[D, E], op5 Func[E, F]) Func[A, F] {
	return Compose2(Compose4(op1, op2, op3, op4), op5)
}

// Apply binds input to fn, returning a [Func] that takes [Unit] instead.
func Apply[A, B any](fn Func[A, B], input A) Func[Unit, B] {
	return FuncAdapter[Unit, B](func(ctx context.Context, _ Unit) (B, error) {
		return fn.Call(ctx, input)
	})
}

// ConstFunc returns a [Func] that ignores its input and returns value.
func ConstFunc[B any](value B) Func[Unit, B] {
	return FuncAdapter[Unit, B](func(ctx context.Context, _ Unit) (B, error) {
		return value, nil
	})
}
