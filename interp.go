// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

// Interpret is the pure reference interpreter: it drives the program
// synchronously against two in-memory traces and returns the emitted
// values together with the terminal cause, with Kill suppressed at the
// boundary exactly like the concurrent driver.
//
// When the program races both sides and both traces still hold values,
// schedule decides the winner: true delivers from the left. A nil
// schedule always prefers the left. An exhausted trace behaves as a
// producer that terminated with End.
//
// Interpret exists so that every concurrent run can be checked against
// some deterministic interleaving; the driver in [Run] must emit, for
// one of the possible schedules, exactly what Interpret emits.
func Interpret[L, R, O any](p Program[L, R, O], ls []L, rs []R, schedule func(step int) bool) ([]O, Cause) {
	var out []O
	cur := p
	step := 0
	for {
		s := stepY(cur)
		if s.halted() {
			return out, SwallowKill(s.cause)
		}
		switch n := s.head.(type) {
		case emitNode[L, R, O]:
			out = append(out, n.values...)
			cur = runCont(s.tail, End{})
		case awaitLNode[L, R, O]:
			if len(ls) == 0 {
				cur = HaltL(End{}, s.resume())
				break
			}
			cur = Feed1L(ls[0], s.resume())
			ls = ls[1:]
		case awaitRNode[L, R, O]:
			if len(rs) == 0 {
				cur = HaltR(End{}, s.resume())
				break
			}
			cur = Feed1R(rs[0], s.resume())
			rs = rs[1:]
		case awaitBothNode[L, R, O]:
			switch {
			case len(ls) == 0:
				cur = HaltL(End{}, s.resume())
			case len(rs) == 0:
				cur = HaltR(End{}, s.resume())
			case schedule == nil || schedule(step):
				cur = Feed1L(ls[0], s.resume())
				ls = ls[1:]
			default:
				cur = Feed1R(rs[0], s.resume())
				rs = rs[1:]
			}
		}
		step++
	}
}
