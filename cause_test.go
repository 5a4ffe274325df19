// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/wye"
)

func TestFoldCause(t *testing.T) {
	end := wye.FoldCause[string](wye.End{}, func() string { return "end" }, func(wye.EarlyCause) string { return "early" })
	if end != "end" {
		t.Fatalf("FoldCause(End) got %q, want %q", end, "end")
	}
	kill := wye.FoldCause[string](wye.Kill{}, func() string { return "end" }, func(wye.EarlyCause) string { return "early" })
	if kill != "early" {
		t.Fatalf("FoldCause(Kill) got %q, want %q", kill, "early")
	}
	boom := errors.New("boom")
	got := wye.FoldCause[error](wye.Error{Err: boom}, func() error { return nil }, func(e wye.EarlyCause) error { return e.(wye.Error).Err })
	if got != boom {
		t.Fatalf("FoldCause(Error) got %v, want %v", got, boom)
	}
}

func TestCausedBy(t *testing.T) {
	boom := wye.Error{Err: errors.New("boom")}
	other := wye.Error{Err: errors.New("other")}

	// End defers to the underlying cause.
	if c := wye.CausedBy(wye.End{}, wye.Kill{}); c != wye.Cause(wye.Kill{}) {
		t.Fatalf("End causedBy Kill got %v", c)
	}
	// Kill keeps an underlying error.
	if c := wye.CausedBy(wye.Kill{}, boom); c != wye.Cause(boom) {
		t.Fatalf("Kill causedBy Error got %v", c)
	}
	// Kill dominates End.
	if c := wye.CausedBy(wye.Kill{}, wye.End{}); c != wye.Cause(wye.Kill{}) {
		t.Fatalf("Kill causedBy End got %v", c)
	}
	// The first error observed wins.
	if c := wye.CausedBy(boom, other); c != wye.Cause(boom) {
		t.Fatalf("Error causedBy Error got %v", c)
	}
}

func TestKillOfAndSwallowKill(t *testing.T) {
	if e := wye.KillOf(wye.End{}); e != wye.EarlyCause(wye.Kill{}) {
		t.Fatalf("KillOf(End) got %v", e)
	}
	boom := wye.Error{Err: errors.New("boom")}
	if e := wye.KillOf(boom); e != wye.EarlyCause(boom) {
		t.Fatalf("KillOf(Error) got %v", e)
	}
	if c := wye.SwallowKill(wye.Kill{}); !isEnd(c) {
		t.Fatalf("SwallowKill(Kill) got %v", c)
	}
	if c := wye.SwallowKill(boom); c != wye.Cause(boom) {
		t.Fatalf("SwallowKill(Error) got %v", c)
	}
}

func TestAsError(t *testing.T) {
	if err := wye.AsError(wye.End{}); err != nil {
		t.Fatalf("AsError(End) got %v", err)
	}
	if err := wye.AsError(wye.Kill{}); err != nil {
		t.Fatalf("AsError(Kill) got %v", err)
	}
	boom := errors.New("boom")
	if err := wye.AsError(wye.Error{Err: boom}); err != boom {
		t.Fatalf("AsError(Error) got %v, want %v", err, boom)
	}
}

func TestReceiveYFlip(t *testing.T) {
	if got := (wye.ReceiveL[int, string]{Value: 7}).Flip(); got != (wye.ReceiveY[string, int])(wye.ReceiveR[string, int]{Value: 7}) {
		t.Fatalf("ReceiveL flip got %#v", got)
	}
	if got := (wye.ReceiveR[int, string]{Value: "x"}).Flip(); got != (wye.ReceiveY[string, int])(wye.ReceiveL[string, int]{Value: "x"}) {
		t.Fatalf("ReceiveR flip got %#v", got)
	}
	if got := (wye.HaltedL[int, string]{Cause: wye.Kill{}}).Flip(); got != (wye.ReceiveY[string, int])(wye.HaltedR[string, int]{Cause: wye.Kill{}}) {
		t.Fatalf("HaltedL flip got %#v", got)
	}
	if got := (wye.HaltedR[int, string]{Cause: wye.End{}}).Flip(); got != (wye.ReceiveY[string, int])(wye.HaltedL[string, int]{Cause: wye.End{}}) {
		t.Fatalf("HaltedR flip got %#v", got)
	}
}
