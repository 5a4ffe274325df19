// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

import (
	"code.hybscloud.com/kont"
)

// ReceiveLOr demands one left value, routing a value to recv and an
// early cause to fallback. Fuses AwaitL + Either branch.
func ReceiveLOr[L, R, O any](fallback func(EarlyCause) Program[L, R, O], recv func(L) Program[L, R, O]) Program[L, R, O] {
	return AwaitL(func(in kont.Either[EarlyCause, L]) Program[L, R, O] {
		if e, ok := in.GetLeft(); ok {
			return fallback(e)
		}
		v, _ := in.GetRight()
		return recv(v)
	})
}

// ReceiveROr demands one right value, routing a value to recv and an
// early cause to fallback. Fuses AwaitR + Either branch.
func ReceiveROr[L, R, O any](fallback func(EarlyCause) Program[L, R, O], recv func(R) Program[L, R, O]) Program[L, R, O] {
	return AwaitR(func(in kont.Either[EarlyCause, R]) Program[L, R, O] {
		if e, ok := in.GetLeft(); ok {
			return fallback(e)
		}
		v, _ := in.GetRight()
		return recv(v)
	})
}

// receiveL demands one left value and halts with the early cause when
// the left side is gone.
func receiveL[L, R, O any](recv func(L) Program[L, R, O]) Program[L, R, O] {
	return ReceiveLOr(haltEarly[L, R, O], recv)
}

// receiveR demands one right value and halts with the early cause when
// the right side is gone.
func receiveR[L, R, O any](recv func(R) Program[L, R, O]) Program[L, R, O] {
	return ReceiveROr(haltEarly[L, R, O], recv)
}

func haltEarly[L, R, O any](e EarlyCause) Program[L, R, O] {
	return Halt[L, R, O](e)
}
