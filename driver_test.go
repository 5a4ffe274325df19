// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye_test

import (
	"testing"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/wye"
)

func TestRunMerge(t *testing.T) {
	skipRace(t)
	out := wye.Run(
		wye.Merge[int](),
		wye.SourceSlice([]int{1, 2, 3}),
		wye.SourceSlice([]int{10, 20}),
		nil,
	)
	got, cause := drain(out)
	if !isEnd(cause) {
		t.Fatalf("merge cause got %v, want End", cause)
	}
	if !sameMultiset(got, []int{1, 2, 3, 10, 20}) {
		t.Fatalf("merge got %v, want multiset {1 2 3 10 20}", got)
	}
}

func TestRunBoundedQueue(t *testing.T) {
	skipRace(t)
	rs := []string{"r1", "r2", "r3", "r4", "r5"}
	out := wye.Run(
		wye.BoundedQueue[string, string](2),
		wye.SourceSlice([]string{"a", "b", "c", "d", "e"}),
		wye.SourceSlice(rs),
		nil,
	)
	got, cause := drain(out)
	if !isEnd(cause) {
		t.Fatalf("boundedQueue cause got %v, want End", cause)
	}
	if !equalSlices(got, rs) {
		t.Fatalf("boundedQueue got %v, want %v", got, rs)
	}
}

func TestRunInterrupt(t *testing.T) {
	skipRace(t)
	var rCancels atomix.Uint32
	out := wye.Run(
		wye.Interrupt[string](),
		wye.SourceSlice([]bool{false, false, true}),
		countCancels(wye.SourceRepeat("x"), &rCancels),
		nil,
	)
	got, cause := drain(out)
	if !isEnd(cause) {
		t.Fatalf("interrupt cause got %v, want End", cause)
	}
	for i, v := range got {
		if v != "x" {
			t.Fatalf("interrupt emitted %q at %d", v, i)
		}
	}
	if rCancels.Add(0) == 0 {
		t.Fatal("interrupt: infinite right producer was never cancelled")
	}
}

func TestRunYipWith(t *testing.T) {
	skipRace(t)
	var rCancels atomix.Uint32
	out := wye.Run(
		wye.YipWith(func(a, b int) int { return a + b }),
		wye.SourceSlice([]int{1, 2, 3}),
		countCancels(wye.SourceSlice([]int{10, 20, 30, 40}), &rCancels),
		nil,
	)
	got, cause := drain(out)
	if !isEnd(cause) {
		t.Fatalf("yipWith cause got %v, want End", cause)
	}
	if !equalSlices(got, []int{11, 22, 33}) {
		t.Fatalf("yipWith got %v, want [11 22 33]", got)
	}
	if rCancels.Add(0) == 0 {
		t.Fatal("yipWith: unconsumed right tail was never cancelled")
	}
}

func TestRunEitherError(t *testing.T) {
	skipRace(t)
	boom := errText("boom")
	var rCancels atomix.Uint32
	out := wye.Run(
		wye.Either[int, int](),
		wye.SourceSliceThen([]int{1}, wye.Error{Err: boom}),
		countCancels(wye.SourceRepeat(100), &rCancels),
		nil,
	)
	got, cause := drain(out)
	if err := wye.AsError(cause); err != error(boom) {
		t.Fatalf("either cause got %v, want %v", cause, boom)
	}
	sawLeft := false
	for _, v := range got {
		if l, ok := v.GetLeft(); ok && l == 1 {
			sawLeft = true
		}
	}
	if !sawLeft {
		t.Fatalf("either never delivered Left(1): %v", got)
	}
	if rCancels.Add(0) == 0 {
		t.Fatal("either: infinite right producer was never cancelled")
	}
}

func TestRunCloseCancelsProducers(t *testing.T) {
	skipRace(t)
	var lCancels, rCancels atomix.Uint32
	out := wye.Run(
		wye.Merge[int](),
		countCancels(wye.SourceRepeat(1), &lCancels),
		countCancels(wye.SourceRepeat(2), &rCancels),
		nil,
	)
	batch, cause := out.Get()
	if cause != nil {
		t.Fatalf("first pull got cause %v", cause)
	}
	if len(batch) == 0 {
		t.Fatal("first pull got empty batch")
	}
	out.Close()
	if _, c := out.Get(); !isEnd(c) {
		t.Fatalf("post-close pull got %v, want End", c)
	}
	// Close returns only after cleanup, so the cancel counts are
	// already visible.
	if lCancels.Add(0) == 0 || rCancels.Add(0) == 0 {
		t.Fatalf("close: cancels left=%d right=%d, want both > 0", lCancels.Add(0), rCancels.Add(0))
	}
}

func TestRunIsCold(t *testing.T) {
	skipRace(t)
	var lReads atomix.Uint32
	out := wye.Run(
		wye.Merge[int](),
		countReads(wye.SourceSlice([]int{1}), &lReads),
		wye.SourceSlice([]int{2}),
		nil,
	)
	// No pull has been issued: the producers must not have been read.
	if n := lReads.Add(0); n != 0 {
		t.Fatalf("cold pipeline read %d values before demand", n)
	}
	got, cause := drain(out)
	if !isEnd(cause) {
		t.Fatalf("cause got %v, want End", cause)
	}
	if !sameMultiset(got, []int{1, 2}) {
		t.Fatalf("got %v, want multiset {1 2}", got)
	}
}

func TestRunSourceChan(t *testing.T) {
	skipRace(t)
	ch := make(chan int, 4)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)
	out := wye.Run(
		wye.Merge[int](),
		wye.SourceChan(ch),
		wye.SourceSlice([]int{10}),
		nil,
	)
	got, cause := drain(out)
	if !isEnd(cause) {
		t.Fatalf("chan merge cause got %v, want End", cause)
	}
	if !sameMultiset(got, []int{1, 2, 3, 10}) {
		t.Fatalf("chan merge got %v, want multiset {1 2 3 10}", got)
	}
}

func TestRunSourceChanCancel(t *testing.T) {
	skipRace(t)
	// The channel never produces; Close must still complete because the
	// pending receive is cancellable.
	ch := make(chan int)
	out := wye.Run(
		wye.Merge[int](),
		wye.SourceChan(ch),
		wye.SourceRepeat(2),
		nil,
	)
	batch, cause := out.Get()
	if cause != nil {
		t.Fatalf("first pull got cause %v", cause)
	}
	if len(batch) == 0 {
		t.Fatal("first pull got empty batch")
	}
	out.Close()
	if _, c := out.Get(); !isEnd(c) {
		t.Fatalf("post-close pull got %v, want End", c)
	}
}

func TestRunSerialIsMonotonic(t *testing.T) {
	skipRace(t)
	a := wye.Run(wye.Merge[int](), wye.SourceSlice([]int{1}), wye.SourceSlice([]int{2}), nil)
	b := wye.Run(wye.Merge[int](), wye.SourceSlice([]int{1}), wye.SourceSlice([]int{2}), nil)
	if b.Serial() <= a.Serial() {
		t.Fatalf("later pipeline serial %d not above earlier %d", b.Serial(), a.Serial())
	}
	drain(a)
	drain(b)
}

func TestRunAgainstReference(t *testing.T) {
	skipRace(t)
	// The concurrent driver must agree with the pure interpreter for
	// some interleaving; for a deterministic one-sided program it must
	// agree exactly.
	ls := []int{1, 2, 3, 4, 5}
	rs := []int{10, 20, 30, 40}
	ref, refCause := wye.Interpret(wye.YipWith(func(a, b int) int { return a * b }), ls, rs, nil)

	out := wye.Run(
		wye.YipWith(func(a, b int) int { return a * b }),
		wye.SourceSlice(ls),
		wye.SourceSlice(rs),
		nil,
	)
	got, cause := drain(out)
	if !equalSlices(got, ref) {
		t.Fatalf("driver got %v, reference got %v", got, ref)
	}
	if cause != refCause {
		t.Fatalf("driver cause %v, reference cause %v", cause, refCause)
	}
}
