// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

import (
	"fmt"

	"code.hybscloud.com/kont"
)

// Program is a reified merge program over a left input of type L, a
// right input of type R, and an output of type O.
//
// A program is a coinductive tree. Its leaves are halts; its internal
// nodes emit a batch downstream or demand input from the left side, the
// right side, or whichever of the two resolves first. Receive functions
// are total: they accept the early-termination case as well as a value.
//
// Programs are pure descriptions. They are stepped by the structural
// transformers ([FeedL], [DisconnectL], …) and executed against two
// asynchronous producers by [Run].
type Program[L, R, O any] interface {
	isProgram(L, R, O)
}

// frame is one pending continuation: applied to the halting cause of
// the program in front of it, it yields the next program.
type frame[L, R, O any] func(Cause) Program[L, R, O]

// contStack is an ordered stack of pending continuations. Frames are
// applied front to back; an empty stack resumes as Halt.
type contStack[L, R, O any] []frame[L, R, O]

type emitNode[L, R, O any] struct {
	values []O
}

type awaitLNode[L, R, O any] struct {
	recv func(kont.Either[EarlyCause, L]) Program[L, R, O]
}

type awaitRNode[L, R, O any] struct {
	recv func(kont.Either[EarlyCause, R]) Program[L, R, O]
}

type awaitBothNode[L, R, O any] struct {
	recv func(ReceiveY[L, R]) Program[L, R, O]
}

type haltNode[L, R, O any] struct {
	cause Cause
}

// appendNode prepends a program to a stack of pending continuations.
// It is the defunctionalized sequencing spine: Emit continuations,
// OnHalt handlers, and feed suspensions are all frames on this stack.
type appendNode[L, R, O any] struct {
	head  Program[L, R, O]
	stack contStack[L, R, O]
}

func (emitNode[L, R, O]) isProgram(L, R, O)      {}
func (awaitLNode[L, R, O]) isProgram(L, R, O)    {}
func (awaitRNode[L, R, O]) isProgram(L, R, O)    {}
func (awaitBothNode[L, R, O]) isProgram(L, R, O) {}
func (haltNode[L, R, O]) isProgram(L, R, O)      {}
func (appendNode[L, R, O]) isProgram(L, R, O)    {}

// Emit produces a finite batch downstream, then halts with End.
func Emit[L, R, O any](values ...O) Program[L, R, O] {
	return emitNode[L, R, O]{values: values}
}

// EmitThen produces a batch downstream and then continues with next.
func EmitThen[L, R, O any](values []O, next Program[L, R, O]) Program[L, R, O] {
	return Append(emitNode[L, R, O]{values: values}, next)
}

// Halt terminates the program with cause.
func Halt[L, R, O any](cause Cause) Program[L, R, O] {
	return haltNode[L, R, O]{cause: cause}
}

// HaltEnd terminates the program with normal completion.
func HaltEnd[L, R, O any]() Program[L, R, O] {
	return haltNode[L, R, O]{cause: End{}}
}

// AwaitL demands one value from the left side. The receive function is
// total: it is applied to the early cause when the left side is gone.
func AwaitL[L, R, O any](recv func(kont.Either[EarlyCause, L]) Program[L, R, O]) Program[L, R, O] {
	return awaitLNode[L, R, O]{recv: recv}
}

// AwaitR demands one value from the right side.
func AwaitR[L, R, O any](recv func(kont.Either[EarlyCause, R]) Program[L, R, O]) Program[L, R, O] {
	return awaitRNode[L, R, O]{recv: recv}
}

// AwaitBoth demands whichever of the two sides resolves first.
func AwaitBoth[L, R, O any](recv func(ReceiveY[L, R]) Program[L, R, O]) Program[L, R, O] {
	return awaitBothNode[L, R, O]{recv: recv}
}

// OnHalt attaches a continuation that receives the halting cause of p.
func OnHalt[L, R, O any](p Program[L, R, O], f func(Cause) Program[L, R, O]) Program[L, R, O] {
	return prependFrames(p, contStack[L, R, O]{f})
}

// Append continues with next when p halts with End; any early cause
// bypasses next and halts.
func Append[L, R, O any](p Program[L, R, O], next Program[L, R, O]) Program[L, R, O] {
	return OnHalt(p, func(c Cause) Program[L, R, O] {
		if _, ok := c.(End); ok {
			return next
		}
		return Halt[L, R, O](c)
	})
}

// causedBy tags the eventual halt of p with an underlying cause.
func causedBy[L, R, O any](p Program[L, R, O], underlying Cause) Program[L, R, O] {
	if _, ok := underlying.(End); ok {
		return p
	}
	return OnHalt(p, func(c Cause) Program[L, R, O] {
		return Halt[L, R, O](CausedBy(c, underlying))
	})
}

// swallowKill converts a terminal Kill of p into End. This is the
// boundary rule applied by [Detach1L], [Detach1R], and the driver.
func swallowKill[L, R, O any](p Program[L, R, O]) Program[L, R, O] {
	return OnHalt(p, func(c Cause) Program[L, R, O] {
		return Halt[L, R, O](SwallowKill(c))
	})
}

// prependFrames pushes a stack of continuations under p, flattening
// nested append nodes so the spine stays a single stack.
func prependFrames[L, R, O any](p Program[L, R, O], stack contStack[L, R, O]) Program[L, R, O] {
	if len(stack) == 0 {
		return p
	}
	if ap, ok := p.(appendNode[L, R, O]); ok {
		merged := make(contStack[L, R, O], 0, len(ap.stack)+len(stack))
		merged = append(merged, ap.stack...)
		merged = append(merged, stack...)
		return appendNode[L, R, O]{head: ap.head, stack: merged}
	}
	return appendNode[L, R, O]{head: p, stack: stack}
}

// runCont resumes a continuation stack with a cause: the first frame
// receives the cause, the remaining frames stay pending. An empty
// stack resumes as Halt.
func runCont[L, R, O any](stack contStack[L, R, O], cause Cause) Program[L, R, O] {
	if len(stack) == 0 {
		return Halt[L, R, O](cause)
	}
	return prependFrames(applyFrame(stack[0], cause), stack[1:])
}

// ystep is a normalized program: either a terminal cause, or a head
// node (emit or await) together with the pending continuation stack.
type ystep[L, R, O any] struct {
	head  Program[L, R, O] // emit/await node; nil when halted
	tail  contStack[L, R, O]
	cause Cause // valid when head is nil
}

func (s ystep[L, R, O]) halted() bool {
	return s.head == nil
}

// resume reassembles the stepped program unchanged.
func (s ystep[L, R, O]) resume() Program[L, R, O] {
	if s.head == nil {
		return prependFrames(Halt[L, R, O](s.cause), s.tail)
	}
	return prependFrames(s.head, s.tail)
}

// stepY normalizes a program to its next observable node. The loop is
// the trampoline: append spines and halt-to-frame hops are unwound
// iteratively, so deeply nested transformers cannot grow the native
// stack. A continuation that panics halts with Error; receives are not
// applied here but by applyRecvL, applyRecvR and applyRecvBoth, which
// guard them the same way.
func stepY[L, R, O any](p Program[L, R, O]) ystep[L, R, O] {
	cur := p
	var stack contStack[L, R, O]
	for {
		switch n := cur.(type) {
		case appendNode[L, R, O]:
			if len(stack) == 0 {
				stack = n.stack
			} else {
				merged := make(contStack[L, R, O], 0, len(n.stack)+len(stack))
				merged = append(merged, n.stack...)
				merged = append(merged, stack...)
				stack = merged
			}
			cur = n.head
		case haltNode[L, R, O]:
			if len(stack) == 0 {
				return ystep[L, R, O]{cause: n.cause}
			}
			f := stack[0]
			stack = stack[1:]
			cur = applyFrame(f, n.cause)
		default:
			return ystep[L, R, O]{head: cur, tail: stack}
		}
	}
}

// applyFrame applies a continuation frame, converting a panic into
// Halt(Error).
func applyFrame[L, R, O any](f frame[L, R, O], c Cause) (p Program[L, R, O]) {
	defer haltOnPanic(&p)
	return f(c)
}

// applyRecvL applies a left receive, converting a panic into Halt(Error).
func applyRecvL[L, R, O any](recv func(kont.Either[EarlyCause, L]) Program[L, R, O], v kont.Either[EarlyCause, L]) (p Program[L, R, O]) {
	defer haltOnPanic(&p)
	return recv(v)
}

// applyRecvR applies a right receive, converting a panic into Halt(Error).
func applyRecvR[L, R, O any](recv func(kont.Either[EarlyCause, R]) Program[L, R, O], v kont.Either[EarlyCause, R]) (p Program[L, R, O]) {
	defer haltOnPanic(&p)
	return recv(v)
}

// applyRecvBoth applies a both-sided receive, converting a panic into
// Halt(Error).
func applyRecvBoth[L, R, O any](recv func(ReceiveY[L, R]) Program[L, R, O], ev ReceiveY[L, R]) (p Program[L, R, O]) {
	defer haltOnPanic(&p)
	return recv(ev)
}

func haltOnPanic[L, R, O any](p *Program[L, R, O]) {
	if r := recover(); r != nil {
		*p = Halt[L, R, O](Error{Err: recoveredError(r)})
	}
}

func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("wye: panic: %v", r)
}

// left and right are the delivery constructors for single-sided
// receives.
func left[A any](e EarlyCause) kont.Either[EarlyCause, A] {
	return kont.Left[EarlyCause, A](e)
}

func right[A any](a A) kont.Either[EarlyCause, A] {
	return kont.Right[EarlyCause, A](a)
}
