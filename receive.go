// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

// ReceiveY is the tagged event delivered to a program awaiting both
// sides: a value from one side, or the termination of one side while
// the other is still live.
type ReceiveY[L, R any] interface {
	// Flip relabels the event, swapping the left and right tags.
	Flip() ReceiveY[R, L]

	isReceiveY(L, R)
}

// ReceiveL is a value delivered by the left side.
type ReceiveL[L, R any] struct {
	Value L
}

// ReceiveR is a value delivered by the right side.
type ReceiveR[L, R any] struct {
	Value R
}

// HaltedL reports that the left side terminated; the right is still live.
type HaltedL[L, R any] struct {
	Cause Cause
}

// HaltedR reports that the right side terminated; the left is still live.
type HaltedR[L, R any] struct {
	Cause Cause
}

func (e ReceiveL[L, R]) Flip() ReceiveY[R, L] { return ReceiveR[R, L]{Value: e.Value} }
func (e ReceiveR[L, R]) Flip() ReceiveY[R, L] { return ReceiveL[R, L]{Value: e.Value} }
func (e HaltedL[L, R]) Flip() ReceiveY[R, L]  { return HaltedR[R, L]{Cause: e.Cause} }
func (e HaltedR[L, R]) Flip() ReceiveY[R, L]  { return HaltedL[R, L]{Cause: e.Cause} }

func (ReceiveL[L, R]) isReceiveY(L, R) {}
func (ReceiveR[L, R]) isReceiveY(L, R) {}
func (HaltedL[L, R]) isReceiveY(L, R)  {}
func (HaltedR[L, R]) isReceiveY(L, R)  {}

// haltedOne extracts the cause when the event reports either side's
// termination, regardless of which.
func haltedOne[L, R any](ev ReceiveY[L, R]) (Cause, bool) {
	switch e := ev.(type) {
	case HaltedL[L, R]:
		return e.Cause, true
	case HaltedR[L, R]:
		return e.Cause, true
	}
	return nil, false
}
