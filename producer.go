// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/lfq"
)

// Executor runs submitted tasks. It must be stack-safe: submitting
// from inside a task must not grow the native stack.
type Executor func(task func())

// DefaultExecutor runs each task on its own goroutine.
var DefaultExecutor Executor = func(task func()) { go task() }

// Read is the completed result of one producer read: a batch together
// with the resumption for the following read, or a terminal cause.
type Read[A any] struct {
	Batch []A
	Next  Resume[A]
	Cause Cause // non-nil: the producer terminated
}

// CancelFunc forces early completion of an in-flight read. The read
// must still complete, eventually, with an early cause, releasing the
// producer's resources.
type CancelFunc func(EarlyCause)

// Resume launches one read of a cold producer on the executor. The
// deliver callback is invoked exactly once, from an executor task. The
// driver invokes the returned cancel at most once.
type Resume[A any] func(exec Executor, deliver func(Read[A])) CancelFunc

// SourceBatches is a producer delivering the given batches one read at
// a time, then End.
func SourceBatches[A any](batches [][]A) Resume[A] {
	return SourceBatchesThen(batches, End{})
}

// SourceBatchesThen is a producer delivering the given batches one
// read at a time, then the given terminal cause.
func SourceBatchesThen[A any](batches [][]A, terminal Cause) Resume[A] {
	var at func(i int) Resume[A]
	at = func(i int) Resume[A] {
		return func(exec Executor, deliver func(Read[A])) CancelFunc {
			cancelQ := newCancelGate()
			exec(func() {
				if c, ok := cancelQ.taken(); ok {
					deliver(Read[A]{Cause: c})
					return
				}
				if i >= len(batches) {
					deliver(Read[A]{Cause: terminal})
					return
				}
				deliver(Read[A]{Batch: batches[i], Next: at(i + 1)})
			})
			return cancelQ.cancel
		}
	}
	return at(0)
}

// SourceSlice is a producer delivering one value per read, then End.
func SourceSlice[A any](values []A) Resume[A] {
	return SourceSliceThen(values, End{})
}

// SourceSliceThen is a producer delivering one value per read, then
// the given terminal cause.
func SourceSliceThen[A any](values []A, terminal Cause) Resume[A] {
	batches := make([][]A, len(values))
	for i, v := range values {
		batches[i] = []A{v}
	}
	return SourceBatchesThen(batches, terminal)
}

// SourceRepeat is an infinite producer delivering v on every read.
func SourceRepeat[A any](v A) Resume[A] {
	var self Resume[A]
	self = func(exec Executor, deliver func(Read[A])) CancelFunc {
		cancelQ := newCancelGate()
		exec(func() {
			if c, ok := cancelQ.taken(); ok {
				deliver(Read[A]{Cause: c})
				return
			}
			deliver(Read[A]{Batch: []A{v}, Next: self})
		})
		return cancelQ.cancel
	}
	return self
}

// SourceChan is a producer backed by a Go channel: each read delivers
// one received value, and a closed channel terminates with End. A
// cancelled read completes early with the cancelling cause even while
// the channel stays silent.
func SourceChan[A any](ch <-chan A) Resume[A] {
	var self Resume[A]
	self = func(exec Executor, deliver func(Read[A])) CancelFunc {
		g := newChanGate()
		exec(func() {
			select {
			case v, ok := <-ch:
				if !ok {
					deliver(Read[A]{Cause: End{}})
					return
				}
				deliver(Read[A]{Batch: []A{v}, Next: self})
			case <-g.done:
				deliver(Read[A]{Cause: g.early})
			}
		})
		return g.cancel
	}
	return self
}

// SourceHalt is a producer that terminates immediately with cause.
func SourceHalt[A any](cause Cause) Resume[A] {
	return func(exec Executor, deliver func(Read[A])) CancelFunc {
		exec(func() {
			deliver(Read[A]{Cause: cause})
		})
		return func(EarlyCause) {}
	}
}

// chanGate makes a cancel selectable alongside a channel receive.
// The cause is stored before done closes, so the read task observes it
// after <-done.
type chanGate struct {
	done  chan struct{}
	once  atomix.Uint32
	early EarlyCause
}

func newChanGate() *chanGate {
	return &chanGate{done: make(chan struct{})}
}

func (g *chanGate) cancel(e EarlyCause) {
	if g.once.Add(1) != 1 {
		return
	}
	g.early = e
	close(g.done)
}

// cancelGate carries an early cause from a canceller into a pending
// read task. The slot is a one-shot SPSC handoff.
type cancelGate struct {
	q    lfq.SPSC[EarlyCause]
	once atomix.Uint32
}

func newCancelGate() *cancelGate {
	g := &cancelGate{}
	g.q.Init(mailboxCapacity)
	return g
}

func (g *cancelGate) cancel(e EarlyCause) {
	if g.once.Add(1) != 1 {
		return
	}
	g.q.Enqueue(&e)
}

func (g *cancelGate) taken() (EarlyCause, bool) {
	c, err := g.q.Dequeue()
	if err != nil {
		return nil, false
	}
	return c, true
}
