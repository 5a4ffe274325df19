// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

import (
	"time"

	"code.hybscloud.com/kont"
)

// Pair is a paired result from the two sides.
type Pair[L, R any] struct {
	Left  L
	Right R
}

// Request is the demand mode a dynamic program selects after each
// delivery.
type Request uint8

const (
	// RequestL demands the next value from the left side only.
	RequestL Request = iota
	// RequestR demands the next value from the right side only.
	RequestR
	// RequestBoth demands whichever side resolves first.
	RequestBoth
)

// PassL echoes the left side and ignores the right.
func PassL[I, I2 any]() Program[I, I2, I] {
	return receiveL(func(v I) Program[I, I2, I] {
		return EmitThen([]I{v}, PassL[I, I2]())
	})
}

// PassR echoes the right side and ignores the left.
func PassR[I, I2 any]() Program[I, I2, I2] {
	return receiveR(func(v I2) Program[I, I2, I2] {
		return EmitThen([]I2{v}, PassR[I, I2]())
	})
}

// Merge emits each element of either side as soon as it is available.
// When one side ends normally the other is passed through alone; an
// early cause on either side halts the whole with that cause.
func Merge[A any]() Program[A, A, A] {
	return AwaitBoth(func(ev ReceiveY[A, A]) Program[A, A, A] {
		switch e := ev.(type) {
		case ReceiveL[A, A]:
			return EmitThen([]A{e.Value}, Merge[A]())
		case ReceiveR[A, A]:
			return EmitThen([]A{e.Value}, Merge[A]())
		case HaltedL[A, A]:
			if early, ok := e.Cause.(EarlyCause); ok {
				return Halt[A, A, A](Cause(early))
			}
			return PassR[A, A]()
		case HaltedR[A, A]:
			if early, ok := e.Cause.(EarlyCause); ok {
				return Halt[A, A, A](Cause(early))
			}
			return PassL[A, A]()
		}
		panic("wye: unhandled merge event")
	})
}

// MergeHaltL is Merge terminating as soon as the left side finishes,
// even normally.
func MergeHaltL[A any]() Program[A, A, A] {
	return AwaitBoth(func(ev ReceiveY[A, A]) Program[A, A, A] {
		switch e := ev.(type) {
		case ReceiveL[A, A]:
			return EmitThen([]A{e.Value}, MergeHaltL[A]())
		case ReceiveR[A, A]:
			return EmitThen([]A{e.Value}, MergeHaltL[A]())
		case HaltedL[A, A]:
			return Halt[A, A, A](e.Cause)
		case HaltedR[A, A]:
			if early, ok := e.Cause.(EarlyCause); ok {
				return Halt[A, A, A](Cause(early))
			}
			return PassL[A, A]()
		}
		panic("wye: unhandled merge event")
	})
}

// MergeHaltR is Merge terminating as soon as the right side finishes,
// even normally.
func MergeHaltR[A any]() Program[A, A, A] {
	return AwaitBoth(func(ev ReceiveY[A, A]) Program[A, A, A] {
		switch e := ev.(type) {
		case ReceiveL[A, A]:
			return EmitThen([]A{e.Value}, MergeHaltR[A]())
		case ReceiveR[A, A]:
			return EmitThen([]A{e.Value}, MergeHaltR[A]())
		case HaltedL[A, A]:
			if early, ok := e.Cause.(EarlyCause); ok {
				return Halt[A, A, A](Cause(early))
			}
			return PassR[A, A]()
		case HaltedR[A, A]:
			return Halt[A, A, A](e.Cause)
		}
		panic("wye: unhandled merge event")
	})
}

// MergeHaltBoth is Merge terminating as soon as either side finishes.
func MergeHaltBoth[A any]() Program[A, A, A] {
	return AwaitBoth(func(ev ReceiveY[A, A]) Program[A, A, A] {
		switch e := ev.(type) {
		case ReceiveL[A, A]:
			return EmitThen([]A{e.Value}, MergeHaltBoth[A]())
		case ReceiveR[A, A]:
			return EmitThen([]A{e.Value}, MergeHaltBoth[A]())
		}
		c, _ := haltedOne(ev)
		return Halt[A, A, A](c)
	})
}

// Either is Merge with each value tagged by its side of origin.
func Either[L, R any]() Program[L, R, kont.Either[L, R]] {
	return AwaitBoth(func(ev ReceiveY[L, R]) Program[L, R, kont.Either[L, R]] {
		switch e := ev.(type) {
		case ReceiveL[L, R]:
			return EmitThen([]kont.Either[L, R]{kont.Left[L, R](e.Value)}, Either[L, R]())
		case ReceiveR[L, R]:
			return EmitThen([]kont.Either[L, R]{kont.Right[L, R](e.Value)}, Either[L, R]())
		case HaltedL[L, R]:
			if early, ok := e.Cause.(EarlyCause); ok {
				return Halt[L, R, kont.Either[L, R]](Cause(early))
			}
			return eitherPassR[L, R]()
		case HaltedR[L, R]:
			if early, ok := e.Cause.(EarlyCause); ok {
				return Halt[L, R, kont.Either[L, R]](Cause(early))
			}
			return eitherPassL[L, R]()
		}
		panic("wye: unhandled merge event")
	})
}

func eitherPassL[L, R any]() Program[L, R, kont.Either[L, R]] {
	return receiveL(func(v L) Program[L, R, kont.Either[L, R]] {
		return EmitThen([]kont.Either[L, R]{kont.Left[L, R](v)}, eitherPassL[L, R]())
	})
}

func eitherPassR[L, R any]() Program[L, R, kont.Either[L, R]] {
	return receiveR(func(v R) Program[L, R, kont.Either[L, R]] {
		return EmitThen([]kont.Either[L, R]{kont.Right[L, R](v)}, eitherPassR[L, R]())
	})
}

// UnboundedQueue emits right values only; any left delivery halts the
// program with End. The termination of either side halts with its
// cause.
func UnboundedQueue[I, A any]() Program[I, A, A] {
	return AwaitBoth(func(ev ReceiveY[I, A]) Program[I, A, A] {
		switch e := ev.(type) {
		case ReceiveL[I, A]:
			return HaltEnd[I, A, A]()
		case ReceiveR[I, A]:
			return EmitThen([]A{e.Value}, UnboundedQueue[I, A]())
		}
		c, _ := haltedOne(ev)
		return Halt[I, A, A](c)
	})
}

// BoundedQueue emits right values while allowing up to n left values
// to arrive unconsumed; one past n, the program reads only the right
// side until a slot drains. After the right side ends, its empty tail
// is passed through.
func BoundedQueue[I, A any](n int) Program[I, A, A] {
	return Append(YipWithL[I, A, A](n, func(_ I, a A) A { return a }), PassR[I, A]())
}

// DrainL echoes the right side while buffering up to n unconsumed
// left values.
func DrainL[I, A any](n int) Program[I, A, A] {
	return Append(YipWithL[I, A, A](n, func(_ I, a A) A { return a }), PassR[I, A]())
}

// DrainR echoes the left side while buffering up to n unconsumed
// right values.
func DrainR[A, I2 any](n int) Program[A, I2, A] {
	return Flip(DrainL[I2, A](n))
}

// Yip pairs left and right values one for one.
func Yip[L, R any]() Program[L, R, Pair[L, R]] {
	return YipWith(func(l L, r R) Pair[L, R] { return Pair[L, R]{Left: l, Right: r} })
}

// YipL pairs left and right values one for one with a left-side buffer
// of size n.
func YipL[L, R any](n int) Program[L, R, Pair[L, R]] {
	return YipWithL(n, func(l L, r R) Pair[L, R] { return Pair[L, R]{Left: l, Right: r} })
}

// YipWith pairs left and right values one for one, combining each pair
// with f. f is invoked exactly once per pair.
func YipWith[L, R, O any](f func(L, R) O) Program[L, R, O] {
	return receiveL(func(l L) Program[L, R, O] {
		return receiveR(func(r R) Program[L, R, O] {
			return EmitThen([]O{f(l, r)}, YipWith(f))
		})
	})
}

// YipWithL pairs left and right values with a left-side buffer of size
// n: an empty buffer demands the left side only, a buffer past n
// demands the right side only, and anything between races both.
func YipWithL[L, R, O any](n int, f func(L, R) O) Program[L, R, O] {
	var loop func(buf []L) Program[L, R, O]
	loop = func(buf []L) Program[L, R, O] {
		switch {
		case len(buf) > n:
			return receiveR(func(r R) Program[L, R, O] {
				return EmitThen([]O{f(buf[0], r)}, loop(buf[1:]))
			})
		case len(buf) == 0:
			return receiveL(func(l L) Program[L, R, O] {
				return loop([]L{l})
			})
		default:
			return AwaitBoth(func(ev ReceiveY[L, R]) Program[L, R, O] {
				switch e := ev.(type) {
				case ReceiveL[L, R]:
					return loop(append(buf[:len(buf):len(buf)], e.Value))
				case ReceiveR[L, R]:
					return EmitThen([]O{f(buf[0], e.Value)}, loop(buf[1:]))
				}
				c, _ := haltedOne(ev)
				return Halt[L, R, O](c)
			})
		}
	}
	return loop(nil)
}

// EchoLeft reads the left side once to seed its state, then re-emits
// the most recent left value whenever the right side produces, and
// emits and replaces it whenever the left side produces.
func EchoLeft[A, R any]() Program[A, R, A] {
	var loop func(a A) Program[A, R, A]
	loop = func(a A) Program[A, R, A] {
		return AwaitBoth(func(ev ReceiveY[A, R]) Program[A, R, A] {
			switch e := ev.(type) {
			case ReceiveL[A, R]:
				return EmitThen([]A{e.Value}, loop(e.Value))
			case ReceiveR[A, R]:
				return EmitThen([]A{a}, loop(a))
			}
			c, _ := haltedOne(ev)
			return Halt[A, R, A](c)
		})
	}
	return receiveL(func(a A) Program[A, R, A] {
		return EmitThen([]A{a}, loop(a))
	})
}

// Interrupt forwards right values until the left side delivers true,
// which halts with End. A false left value is ignored.
func Interrupt[A any]() Program[bool, A, A] {
	return AwaitBoth(func(ev ReceiveY[bool, A]) Program[bool, A, A] {
		switch e := ev.(type) {
		case ReceiveL[bool, A]:
			if e.Value {
				return HaltEnd[bool, A, A]()
			}
			return Interrupt[A]()
		case ReceiveR[bool, A]:
			return EmitThen([]A{e.Value}, Interrupt[A]())
		}
		c, _ := haltedOne(ev)
		return Halt[bool, A, A](c)
	})
}

// TimedQueue emits each right value as it arrives; the left side
// carries timestamps. When more than maxSize timestamps are buffered,
// or an incoming timestamp is more than d past the oldest buffered
// one, the left side is paused until the right drains a slot. The
// oldest timestamp is dropped only after the next right delivery.
func TimedQueue[A any](d time.Duration, maxSize int) Program[time.Duration, A, A] {
	var loop func(q []time.Duration) Program[time.Duration, A, A]
	loop = func(q []time.Duration) Program[time.Duration, A, A] {
		return AwaitBoth(func(ev ReceiveY[time.Duration, A]) Program[time.Duration, A, A] {
			switch e := ev.(type) {
			case ReceiveL[time.Duration, A]:
				d2 := e.Value
				if len(q) >= maxSize || (len(q) > 0 && d2-q[0] > d) {
					return receiveR(func(a A) Program[time.Duration, A, A] {
						next := append(q[1:len(q):len(q)], d2)
						return EmitThen([]A{a}, loop(next))
					})
				}
				return loop(append(q[:len(q):len(q)], d2))
			case ReceiveR[time.Duration, A]:
				next := q
				if len(next) > 0 {
					next = next[1:]
				}
				return EmitThen([]A{e.Value}, loop(next))
			}
			c, _ := haltedOne(ev)
			return Halt[time.Duration, A, A](c)
		})
	}
	return loop(nil)
}

// Dynamic is a self-modifying program: it starts demanding the left
// side, emits one ReceiveY event per delivery, and consults f after
// each left value and g after each right value to select the next
// demand mode.
func Dynamic[I, I2 any](f func(I) Request, g func(I2) Request) Program[I, I2, ReceiveY[I, I2]] {
	var loop func(req Request) Program[I, I2, ReceiveY[I, I2]]
	loop = func(req Request) Program[I, I2, ReceiveY[I, I2]] {
		switch req {
		case RequestL:
			return receiveL(func(i I) Program[I, I2, ReceiveY[I, I2]] {
				return EmitThen([]ReceiveY[I, I2]{ReceiveL[I, I2]{Value: i}}, loop(f(i)))
			})
		case RequestR:
			return receiveR(func(i2 I2) Program[I, I2, ReceiveY[I, I2]] {
				return EmitThen([]ReceiveY[I, I2]{ReceiveR[I, I2]{Value: i2}}, loop(g(i2)))
			})
		default:
			return AwaitBoth(func(ev ReceiveY[I, I2]) Program[I, I2, ReceiveY[I, I2]] {
				switch e := ev.(type) {
				case ReceiveL[I, I2]:
					return EmitThen([]ReceiveY[I, I2]{ev}, loop(f(e.Value)))
				case ReceiveR[I, I2]:
					return EmitThen([]ReceiveY[I, I2]{ev}, loop(g(e.Value)))
				}
				c, _ := haltedOne(ev)
				return Halt[I, I2, ReceiveY[I, I2]](c)
			})
		}
	}
	return loop(RequestL)
}

// Dynamic1 is Dynamic specialized to one input type, with the events
// flattened to the raw values.
func Dynamic1[I any](f func(I) Request) Program[I, I, I] {
	var loop func(req Request) Program[I, I, I]
	loop = func(req Request) Program[I, I, I] {
		switch req {
		case RequestL:
			return receiveL(func(i I) Program[I, I, I] {
				return EmitThen([]I{i}, loop(f(i)))
			})
		case RequestR:
			return receiveR(func(i I) Program[I, I, I] {
				return EmitThen([]I{i}, loop(f(i)))
			})
		default:
			return AwaitBoth(func(ev ReceiveY[I, I]) Program[I, I, I] {
				switch e := ev.(type) {
				case ReceiveL[I, I]:
					return EmitThen([]I{e.Value}, loop(f(e.Value)))
				case ReceiveR[I, I]:
					return EmitThen([]I{e.Value}, loop(f(e.Value)))
				}
				c, _ := haltedOne(ev)
				return Halt[I, I, I](c)
			})
		}
	}
	return loop(RequestL)
}
