// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

import (
	"code.hybscloud.com/kont"
)

// Flip swaps the left and right sides of the program: left demands
// become right demands and vice versa, and both-sided demands observe
// relabeled events. Outputs are unchanged.
func Flip[L, R, O any](p Program[L, R, O]) Program[R, L, O] {
	s := stepY(p)
	if s.halted() {
		return Halt[R, L, O](s.cause)
	}
	switch n := s.head.(type) {
	case emitNode[L, R, O]:
		tail := s.tail
		return OnHalt(Emit[R, L, O](n.values...), func(rsn Cause) Program[R, L, O] {
			return Flip(prependFrames(Halt[L, R, O](rsn), tail))
		})
	case awaitLNode[L, R, O]:
		recv := n.recv
		tail := s.tail
		return AwaitR(func(in kont.Either[EarlyCause, L]) Program[R, L, O] {
			return Flip(prependFrames(applyRecvL(recv, in), tail))
		})
	case awaitRNode[L, R, O]:
		recv := n.recv
		tail := s.tail
		return AwaitL(func(in kont.Either[EarlyCause, R]) Program[R, L, O] {
			return Flip(prependFrames(applyRecvR(recv, in), tail))
		})
	case awaitBothNode[L, R, O]:
		recv := n.recv
		tail := s.tail
		return AwaitBoth(func(ev ReceiveY[R, L]) Program[R, L, O] {
			return Flip(prependFrames(applyRecvBoth(recv, ev.Flip()), tail))
		})
	}
	panic("wye: unhandled program node in Flip")
}

// AttachL composes a single-input transformer in front of the left
// side: every value arriving on the left is first pushed through t,
// and t's emissions become the left inputs of the program. Termination
// of t disconnects the left side.
func AttachL[I0, L, R, O any](t Trans[I0, L], p Program[L, R, O]) Program[I0, R, O] {
	s := stepY(p)
	if s.halted() {
		return Halt[I0, R, O](s.cause)
	}
	switch n := s.head.(type) {
	case emitNode[L, R, O]:
		tail := s.tail
		return OnHalt(Emit[I0, R, O](n.values...), func(rsn Cause) Program[I0, R, O] {
			return AttachL(t, prependFrames(Halt[L, R, O](rsn), tail))
		})
	case awaitLNode[L, R, O]:
		ts := stepT(t)
		if ts.halted() {
			return AttachL(TransHalt[I0, L](ts.cause), HaltL(ts.cause, s.resume()))
		}
		switch tn := ts.head.(type) {
		case transEmit[I0, L]:
			return AttachL(transCont(ts), FeedL(tn.values, s.resume()))
		case transAwait[I0, L]:
			recv1 := tn.recv
			tail1 := ts.tail
			rest := s.resume()
			return AwaitL(func(in kont.Either[EarlyCause, I0]) Program[I0, R, O] {
				return AttachL(transPrepend(applyTransRecv(recv1, in), tail1), rest)
			})
		}
	case awaitRNode[L, R, O]:
		recv := n.recv
		tail := s.tail
		return AwaitR(func(r kont.Either[EarlyCause, R]) Program[I0, R, O] {
			return AttachL(t, prependFrames(applyRecvR(recv, r), tail))
		})
	case awaitBothNode[L, R, O]:
		ts := stepT(t)
		if ts.halted() {
			return AttachL(TransHalt[I0, L](ts.cause), HaltL(ts.cause, s.resume()))
		}
		switch tn := ts.head.(type) {
		case transEmit[I0, L]:
			return AttachL(transCont(ts), FeedL(tn.values, s.resume()))
		case transAwait[I0, L]:
			recv1 := tn.recv
			tail1 := ts.tail
			rest := s.resume()
			return AwaitBoth(func(ev ReceiveY[I0, R]) Program[I0, R, O] {
				switch e := ev.(type) {
				case ReceiveL[I0, R]:
					return AttachL(transPrepend(applyTransRecv(recv1, kont.Right[EarlyCause, I0](e.Value)), tail1), rest)
				case ReceiveR[I0, R]:
					return AttachL(transPrepend(Trans[I0, L](transAwait[I0, L]{recv: recv1}), tail1), Feed1R(e.Value, rest))
				case HaltedL[I0, R]:
					return AttachL(haltT(e.Cause, transPrepend(Trans[I0, L](transAwait[I0, L]{recv: recv1}), tail1)), rest)
				case HaltedR[I0, R]:
					return AttachL(transPrepend(Trans[I0, L](transAwait[I0, L]{recv: recv1}), tail1), HaltR(e.Cause, rest))
				}
				panic("wye: unhandled program node in AttachL")
			})
		}
	}
	panic("wye: unhandled program node in AttachL")
}

// AttachR composes a single-input transformer in front of the right
// side. AttachR is Flip of AttachL of Flip.
func AttachR[I1, L, R, O any](t Trans[I1, R], p Program[L, R, O]) Program[L, I1, O] {
	return Flip(AttachL(t, Flip(p)))
}

// transCont resumes a stepped transformer past its current emit.
func transCont[I, O any](s tstep[I, O]) Trans[I, O] {
	if len(s.tail) == 0 {
		return TransHalt[I, O](End{})
	}
	return transPrepend(applyTransFrame(s.tail[0], End{}), s.tail[1:])
}
