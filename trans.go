// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

import (
	"code.hybscloud.com/kont"
)

// Trans is a single-input transformer: the one-sided counterpart of
// [Program], used by [AttachL] and [AttachR] to pre-process one side.
// When stepped it either emits a batch, awaits one input (with the
// usual value/early-cause delivery), or halts.
type Trans[I, O any] interface {
	isTrans(I, O)
}

type transEmit[I, O any] struct {
	values []O
}

type transAwait[I, O any] struct {
	recv func(kont.Either[EarlyCause, I]) Trans[I, O]
}

type transHalt[I, O any] struct {
	cause Cause
}

type transAppend[I, O any] struct {
	head  Trans[I, O]
	stack []func(Cause) Trans[I, O]
}

func (transEmit[I, O]) isTrans(I, O)   {}
func (transAwait[I, O]) isTrans(I, O)  {}
func (transHalt[I, O]) isTrans(I, O)   {}
func (transAppend[I, O]) isTrans(I, O) {}

// TransEmit emits a batch and halts with End.
func TransEmit[I, O any](values ...O) Trans[I, O] {
	return transEmit[I, O]{values: values}
}

// TransEmitThen emits a batch and continues with next.
func TransEmitThen[I, O any](values []O, next Trans[I, O]) Trans[I, O] {
	return transOnHalt(transEmit[I, O]{values: values}, func(c Cause) Trans[I, O] {
		if _, ok := c.(End); ok {
			return next
		}
		return TransHalt[I, O](c)
	})
}

// TransAwait demands one input value.
func TransAwait[I, O any](recv func(kont.Either[EarlyCause, I]) Trans[I, O]) Trans[I, O] {
	return transAwait[I, O]{recv: recv}
}

// TransHalt terminates the transformer with cause.
func TransHalt[I, O any](cause Cause) Trans[I, O] {
	return transHalt[I, O]{cause: cause}
}

// TransID passes every input through unchanged.
func TransID[A any]() Trans[A, A] {
	return TransLift(func(a A) A { return a })
}

// TransLift applies f to every input.
func TransLift[I, O any](f func(I) O) Trans[I, O] {
	return TransAwait(func(in kont.Either[EarlyCause, I]) Trans[I, O] {
		if e, ok := in.GetLeft(); ok {
			return TransHalt[I, O](Cause(e))
		}
		v, _ := in.GetRight()
		return TransEmitThen([]O{f(v)}, TransLift(f))
	})
}

// TransTake passes through the first n inputs and then halts with End.
func TransTake[A any](n int) Trans[A, A] {
	if n <= 0 {
		return TransHalt[A, A](End{})
	}
	return TransAwait(func(in kont.Either[EarlyCause, A]) Trans[A, A] {
		if e, ok := in.GetLeft(); ok {
			return TransHalt[A, A](Cause(e))
		}
		v, _ := in.GetRight()
		return TransEmitThen([]A{v}, TransTake[A](n-1))
	})
}

// TransFilter passes through the inputs satisfying pred.
func TransFilter[A any](pred func(A) bool) Trans[A, A] {
	return TransAwait(func(in kont.Either[EarlyCause, A]) Trans[A, A] {
		if e, ok := in.GetLeft(); ok {
			return TransHalt[A, A](Cause(e))
		}
		v, _ := in.GetRight()
		if !pred(v) {
			return TransFilter(pred)
		}
		return TransEmitThen([]A{v}, TransFilter(pred))
	})
}

func transOnHalt[I, O any](t Trans[I, O], f func(Cause) Trans[I, O]) Trans[I, O] {
	if ap, ok := t.(transAppend[I, O]); ok {
		stack := make([]func(Cause) Trans[I, O], 0, len(ap.stack)+1)
		stack = append(stack, ap.stack...)
		stack = append(stack, f)
		return transAppend[I, O]{head: ap.head, stack: stack}
	}
	return transAppend[I, O]{head: t, stack: []func(Cause) Trans[I, O]{f}}
}

func transPrepend[I, O any](t Trans[I, O], stack []func(Cause) Trans[I, O]) Trans[I, O] {
	if len(stack) == 0 {
		return t
	}
	if ap, ok := t.(transAppend[I, O]); ok {
		merged := make([]func(Cause) Trans[I, O], 0, len(ap.stack)+len(stack))
		merged = append(merged, ap.stack...)
		merged = append(merged, stack...)
		return transAppend[I, O]{head: ap.head, stack: merged}
	}
	return transAppend[I, O]{head: t, stack: stack}
}

// tstep is a normalized transformer, analogous to ystep.
type tstep[I, O any] struct {
	head  Trans[I, O]
	tail  []func(Cause) Trans[I, O]
	cause Cause
}

func (s tstep[I, O]) halted() bool { return s.head == nil }

func stepT[I, O any](t Trans[I, O]) tstep[I, O] {
	cur := t
	var stack []func(Cause) Trans[I, O]
	for {
		switch n := cur.(type) {
		case transAppend[I, O]:
			if len(stack) == 0 {
				stack = n.stack
			} else {
				merged := make([]func(Cause) Trans[I, O], 0, len(n.stack)+len(stack))
				merged = append(merged, n.stack...)
				merged = append(merged, stack...)
				stack = merged
			}
			cur = n.head
		case transHalt[I, O]:
			if len(stack) == 0 {
				return tstep[I, O]{cause: n.cause}
			}
			f := stack[0]
			stack = stack[1:]
			cur = applyTransFrame(f, n.cause)
		default:
			return tstep[I, O]{head: cur, tail: stack}
		}
	}
}

func applyTransFrame[I, O any](f func(Cause) Trans[I, O], c Cause) (t Trans[I, O]) {
	defer func() {
		if r := recover(); r != nil {
			t = TransHalt[I, O](Error{Err: recoveredError(r)})
		}
	}()
	return f(c)
}

func applyTransRecv[I, O any](recv func(kont.Either[EarlyCause, I]) Trans[I, O], in kont.Either[EarlyCause, I]) (t Trans[I, O]) {
	defer func() {
		if r := recover(); r != nil {
			t = TransHalt[I, O](Error{Err: recoveredError(r)})
		}
	}()
	return recv(in)
}

// disconnectT rewrites the transformer to behave as if its input were
// gone, terminated by cause.
func disconnectT[I, O any](cause EarlyCause, t Trans[I, O]) Trans[I, O] {
	cur := t
	for {
		s := stepT(cur)
		if s.halted() {
			return TransHalt[I, O](s.cause)
		}
		switch n := s.head.(type) {
		case transEmit[I, O]:
			tail := s.tail
			return transOnHalt(Trans[I, O](transEmit[I, O]{values: n.values}), func(rsn Cause) Trans[I, O] {
				return disconnectT(cause, transPrepend(TransHalt[I, O](rsn), tail))
			})
		case transAwait[I, O]:
			cur = transPrepend(applyTransRecv(n.recv, kont.Left[EarlyCause, I](cause)), s.tail)
		}
	}
}

// haltT reacts to the transformer's input terminating with cause:
// disconnected with the early cause, or detached with a suppressed
// Kill for End.
func haltT[I, O any](cause Cause, t Trans[I, O]) Trans[I, O] {
	if early, ok := cause.(EarlyCause); ok {
		return disconnectT(early, t)
	}
	return transOnHalt(disconnectT(Kill{}, t), func(c Cause) Trans[I, O] {
		return TransHalt[I, O](SwallowKill(c))
	})
}
