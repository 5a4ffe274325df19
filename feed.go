// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

import (
	"code.hybscloud.com/kont"
)

// FeedL synchronously drives the program with a finite sequence of
// values as if they had been delivered by the left side.
//
// Emits encountered while feeding are accumulated and re-emitted in
// front of the result. A left demand consumes one input. A right
// demand flushes the accumulated emits and suspends the remaining
// inputs inside the await: they are fed again once the right side
// produces. A halt terminates, tagged with the halting cause.
func FeedL[L, R, O any](values []L, p Program[L, R, O]) Program[L, R, O] {
	in := values
	var out []O
	cur := p
	for {
		if len(in) == 0 {
			return prependOut(out, cur)
		}
		s := stepY(cur)
		if s.halted() {
			return EmitThen(out, Halt[L, R, O](s.cause))
		}
		switch n := s.head.(type) {
		case emitNode[L, R, O]:
			out = append(out, n.values...)
			cur = runCont(s.tail, Cause(End{}))
		case awaitLNode[L, R, O]:
			cur = prependFrames(applyRecvL(n.recv, right[L](in[0])), s.tail)
			in = in[1:]
		case awaitBothNode[L, R, O]:
			cur = prependFrames(applyRecvBoth(n.recv, ReceiveY[L, R](ReceiveL[L, R]{Value: in[0]})), s.tail)
			in = in[1:]
		case awaitRNode[L, R, O]:
			rest := in
			recv := n.recv
			tail := s.tail
			await := AwaitR(func(r kont.Either[EarlyCause, R]) Program[L, R, O] {
				return FeedL(rest, prependFrames(applyRecvR(recv, r), tail))
			})
			if len(out) == 0 {
				return await
			}
			return OnHalt(Emit[L, R, O](out...), func(c Cause) Program[L, R, O] {
				if e, ok := c.(EarlyCause); ok {
					return FeedL(rest, prependFrames(applyRecvR(recv, left[R](e)), tail))
				}
				return await
			})
		}
	}
}

// FeedR synchronously drives the program with a finite sequence of
// values as if they had been delivered by the right side. Symmetric to
// [FeedL].
func FeedR[L, R, O any](values []R, p Program[L, R, O]) Program[L, R, O] {
	in := values
	var out []O
	cur := p
	for {
		if len(in) == 0 {
			return prependOut(out, cur)
		}
		s := stepY(cur)
		if s.halted() {
			return EmitThen(out, Halt[L, R, O](s.cause))
		}
		switch n := s.head.(type) {
		case emitNode[L, R, O]:
			out = append(out, n.values...)
			cur = runCont(s.tail, Cause(End{}))
		case awaitRNode[L, R, O]:
			cur = prependFrames(applyRecvR(n.recv, right[R](in[0])), s.tail)
			in = in[1:]
		case awaitBothNode[L, R, O]:
			cur = prependFrames(applyRecvBoth(n.recv, ReceiveY[L, R](ReceiveR[L, R]{Value: in[0]})), s.tail)
			in = in[1:]
		case awaitLNode[L, R, O]:
			rest := in
			recv := n.recv
			tail := s.tail
			await := AwaitL(func(l kont.Either[EarlyCause, L]) Program[L, R, O] {
				return FeedR(rest, prependFrames(applyRecvL(recv, l), tail))
			})
			if len(out) == 0 {
				return await
			}
			return OnHalt(Emit[L, R, O](out...), func(c Cause) Program[L, R, O] {
				if e, ok := c.(EarlyCause); ok {
					return FeedR(rest, prependFrames(applyRecvL(recv, left[L](e)), tail))
				}
				return await
			})
		}
	}
}

// Feed1L delivers a single left value.
func Feed1L[L, R, O any](v L, p Program[L, R, O]) Program[L, R, O] {
	return FeedL([]L{v}, p)
}

// Feed1R delivers a single right value.
func Feed1R[L, R, O any](v R, p Program[L, R, O]) Program[L, R, O] {
	return FeedR([]R{v}, p)
}

// Feed1 dispatches a merge event into the program: values feed the
// respective side; a side that halted with End detaches that side, and
// an early cause disconnects it.
func Feed1[L, R, O any](ev ReceiveY[L, R], p Program[L, R, O]) Program[L, R, O] {
	switch e := ev.(type) {
	case ReceiveL[L, R]:
		return Feed1L(e.Value, p)
	case ReceiveR[L, R]:
		return Feed1R(e.Value, p)
	case HaltedL[L, R]:
		if early, ok := e.Cause.(EarlyCause); ok {
			return DisconnectL(early, p)
		}
		return Detach1L(p)
	case HaltedR[L, R]:
		if early, ok := e.Cause.(EarlyCause); ok {
			return DisconnectR(early, p)
		}
		return Detach1R(p)
	}
	return p
}

func prependOut[L, R, O any](out []O, p Program[L, R, O]) Program[L, R, O] {
	if len(out) == 0 {
		return p
	}
	return EmitThen(out, p)
}
