// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

import (
	"code.hybscloud.com/kont"
)

// DisconnectL rewrites the program to behave as if the left side were
// gone, terminated by cause. Left demands receive the cause
// immediately; both-sided demands become right-only demands; right
// demands are preserved with their results disconnected in turn. The
// rewrite never invents values.
func DisconnectL[L, R, O any](cause EarlyCause, p Program[L, R, O]) Program[L, R, O] {
	cur := p
	for {
		s := stepY(cur)
		if s.halted() {
			return Halt[L, R, O](s.cause)
		}
		switch n := s.head.(type) {
		case emitNode[L, R, O]:
			tail := s.tail
			return OnHalt(Emit[L, R, O](n.values...), func(rsn Cause) Program[L, R, O] {
				return DisconnectL(cause, prependFrames(Halt[L, R, O](rsn), tail))
			})
		case awaitLNode[L, R, O]:
			cur = prependFrames(applyRecvL(n.recv, left[L](cause)), s.tail)
		case awaitRNode[L, R, O]:
			recv := n.recv
			tail := s.tail
			return AwaitR(func(r kont.Either[EarlyCause, R]) Program[L, R, O] {
				return DisconnectL(cause, prependFrames(applyRecvR(recv, r), tail))
			})
		case awaitBothNode[L, R, O]:
			recv := n.recv
			tail := s.tail
			return AwaitR(func(r kont.Either[EarlyCause, R]) Program[L, R, O] {
				var ev ReceiveY[L, R]
				if e, ok := r.GetLeft(); ok {
					ev = HaltedR[L, R]{Cause: e}
				} else {
					v, _ := r.GetRight()
					ev = ReceiveR[L, R]{Value: v}
				}
				return DisconnectL(cause, prependFrames(applyRecvBoth(recv, ev), tail))
			})
		}
	}
}

// DisconnectR rewrites the program to behave as if the right side were
// gone, terminated by cause. Structurally symmetric to [DisconnectL].
func DisconnectR[L, R, O any](cause EarlyCause, p Program[L, R, O]) Program[L, R, O] {
	cur := p
	for {
		s := stepY(cur)
		if s.halted() {
			return Halt[L, R, O](s.cause)
		}
		switch n := s.head.(type) {
		case emitNode[L, R, O]:
			tail := s.tail
			return OnHalt(Emit[L, R, O](n.values...), func(rsn Cause) Program[L, R, O] {
				return DisconnectR(cause, prependFrames(Halt[L, R, O](rsn), tail))
			})
		case awaitRNode[L, R, O]:
			cur = prependFrames(applyRecvR(n.recv, left[R](cause)), s.tail)
		case awaitLNode[L, R, O]:
			recv := n.recv
			tail := s.tail
			return AwaitL(func(l kont.Either[EarlyCause, L]) Program[L, R, O] {
				return DisconnectR(cause, prependFrames(applyRecvL(recv, l), tail))
			})
		case awaitBothNode[L, R, O]:
			recv := n.recv
			tail := s.tail
			return AwaitL(func(l kont.Either[EarlyCause, L]) Program[L, R, O] {
				var ev ReceiveY[L, R]
				if e, ok := l.GetLeft(); ok {
					ev = HaltedL[L, R]{Cause: e}
				} else {
					v, _ := l.GetRight()
					ev = ReceiveL[L, R]{Value: v}
				}
				return DisconnectR(cause, prependFrames(applyRecvBoth(recv, ev), tail))
			})
		}
	}
}

// Detach1L disconnects the left side with Kill, suppressing the Kill at
// the outer boundary: a program that halts only because its left side
// was detached reports End.
func Detach1L[L, R, O any](p Program[L, R, O]) Program[L, R, O] {
	return swallowKill(DisconnectL(Kill{}, p))
}

// Detach1R disconnects the right side with Kill, suppressing the Kill
// at the outer boundary.
func Detach1R[L, R, O any](p Program[L, R, O]) Program[L, R, O] {
	return swallowKill(DisconnectR(Kill{}, p))
}

// HaltL reacts to the left side terminating with cause: a program
// currently awaiting both sides first observes HaltedL(cause), then the
// left side is disconnected — detached for End, disconnected with the
// early cause otherwise.
func HaltL[L, R, O any](cause Cause, p Program[L, R, O]) Program[L, R, O] {
	s := stepY(p)
	next := p
	if n, ok := s.head.(awaitBothNode[L, R, O]); ok {
		next = prependFrames(applyRecvBoth(n.recv, ReceiveY[L, R](HaltedL[L, R]{Cause: cause})), s.tail)
	}
	if early, ok := cause.(EarlyCause); ok {
		return DisconnectL(early, next)
	}
	return Detach1L(next)
}

// HaltR reacts to the right side terminating with cause. Symmetric to
// [HaltL].
func HaltR[L, R, O any](cause Cause, p Program[L, R, O]) Program[L, R, O] {
	s := stepY(p)
	next := p
	if n, ok := s.head.(awaitBothNode[L, R, O]); ok {
		next = prependFrames(applyRecvBoth(n.recv, ReceiveY[L, R](HaltedR[L, R]{Cause: cause})), s.tail)
	}
	if early, ok := cause.(EarlyCause); ok {
		return DisconnectR(early, next)
	}
	return Detach1R(next)
}
