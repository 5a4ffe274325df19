// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye_test

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/wye"
)

// drain pulls a stream to its terminal cause, flattening batches.
func drain[O any](s *wye.Stream[O]) ([]O, wye.Cause) {
	var out []O
	for {
		batch, cause := s.Get()
		if cause != nil {
			return out, cause
		}
		out = append(out, batch...)
	}
}

// countCancels wraps a producer, counting cancel invocations across
// all of its reads. Add(0) reads the counter.
func countCancels[A any](src wye.Resume[A], n *atomix.Uint32) wye.Resume[A] {
	return func(exec wye.Executor, deliver func(wye.Read[A])) wye.CancelFunc {
		cancel := src(exec, func(r wye.Read[A]) {
			if r.Next != nil {
				r.Next = countCancels(r.Next, n)
			}
			deliver(r)
		})
		return func(e wye.EarlyCause) {
			n.Add(1)
			cancel(e)
		}
	}
}

// countReads wraps a producer, counting value deliveries.
func countReads[A any](src wye.Resume[A], n *atomix.Uint32) wye.Resume[A] {
	return func(exec wye.Executor, deliver func(wye.Read[A])) wye.CancelFunc {
		return src(exec, func(r wye.Read[A]) {
			if r.Next != nil {
				r.Next = countReads(r.Next, n)
			}
			if r.Cause == nil {
				n.Add(uint32(len(r.Batch)))
			}
			deliver(r)
		})
	}
}

func preferLeft(int) bool  { return true }
func preferRight(int) bool { return false }

func isEnd(c wye.Cause) bool {
	_, ok := c.(wye.End)
	return ok
}

func equalSlices[A comparable](a, b []A) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sameMultiset reports whether a and b contain the same values with
// the same multiplicities.
func sameMultiset[A comparable](a, b []A) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[A]int, len(a))
	for _, v := range a {
		counts[v]++
	}
	for _, v := range b {
		counts[v]--
		if counts[v] < 0 {
			return false
		}
	}
	return true
}
