// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

// Cause describes why a stream, or one side of a wye, terminated.
//
// End is normal completion. Kill is forced early termination (the peer
// halted, or downstream went away). Error carries a producer or receive
// failure. Kill and Error additionally implement [EarlyCause].
type Cause interface {
	isCause()
}

// EarlyCause is any termination reason that is not normal completion.
// Only [Kill] and [Error] implement it.
type EarlyCause interface {
	Cause
	isEarly()
}

// End is normal completion of a side or of the whole stream.
type End struct{}

// Kill is forced early termination without an originating failure.
type Kill struct{}

// Error is termination caused by a failure. Err is the original failure.
type Error struct {
	Err error
}

func (End) isCause()   {}
func (Kill) isCause()  {}
func (Error) isCause() {}

func (Kill) isEarly()  {}
func (Error) isEarly() {}

// FoldCause discriminates End from the early causes.
func FoldCause[T any](c Cause, onEnd func() T, onEarly func(EarlyCause) T) T {
	if e, ok := c.(EarlyCause); ok {
		return onEarly(e)
	}
	return onEnd()
}

// CausedBy combines a cause with an underlying cause. Errors dominate:
// the first error observed is kept. Kill dominates End.
func CausedBy(c, underlying Cause) Cause {
	switch t := c.(type) {
	case End:
		return underlying
	case Kill:
		if _, ok := underlying.(Error); ok {
			return underlying
		}
		return t
	case Error:
		return t
	}
	return c
}

// KillOf turns normal completion into Kill and preserves early causes,
// so a Kill that originates from an Error keeps carrying that Error.
func KillOf(c Cause) EarlyCause {
	if e, ok := c.(EarlyCause); ok {
		return e
	}
	return Kill{}
}

// SwallowKill is the downstream boundary rule: a pipeline that ended
// because downstream went away reports End, not Kill. Errors pass.
func SwallowKill(c Cause) Cause {
	if _, ok := c.(Kill); ok {
		return End{}
	}
	return c
}

// AsError converts a terminal cause into the downstream error view.
// End and Kill are not failures; Error yields its payload.
func AsError(c Cause) error {
	if e, ok := c.(Error); ok {
		return e.Err
	}
	return nil
}
