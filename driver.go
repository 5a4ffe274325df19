// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wye

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// Serial identifies one running pipeline. Serials increase in Run
// order and never repeat within a process, so a consumer holding
// several streams can tell their drivers apart.
type Serial = uint32

// serials hands out pipeline identifiers across all drivers.
var serials atomix.Uint32

// mailboxCapacity is the bounded capacity for driver mailbox rings.
// Each ring has at most two messages outstanding; 4 keeps the ring
// buffer within a single cache line, as in the session transport.
const mailboxCapacity = 4

type downKind uint8

const (
	downGet downKind = iota
	downClose
)

// downMsg is a downstream request: a pull for the next batch, or the
// unsubscription notice.
type downMsg struct {
	kind downKind
}

// reply is the driver's answer to a downstream request: a batch, or a
// terminal cause (which also acknowledges Close).
type reply[O any] struct {
	batch []O
	cause Cause
}

type sideTag uint8

const (
	sideIdle sideTag = iota
	sideReading
	sideDone
)

// side is the state of one producer. At most one read is in flight per
// side; Done is terminal.
type side[A any] struct {
	tag    sideTag
	next   Resume[A]  // Idle: the resumption for the next read
	cancel CancelFunc // Reading: forces early completion, invoked at most once
	cause  Cause      // Done: why the producer terminated
}

// driver interprets a merge program against two asynchronous
// producers. It is a serialized actor: all state below is owned by the
// single loop goroutine; producers and the downstream talk to it only
// through the SPSC mailbox rings.
type driver[L, R, O any] struct {
	exec      Executor
	y         Program[L, R, O]
	left      side[L]
	right     side[R]
	out       bool // a downstream pull is pending
	closing   bool // downstream unsubscribed; only the final ack is owed
	leftBias  bool
	completed bool // terminal cause delivered downstream

	leftQ  lfq.SPSC[Read[L]]
	rightQ lfq.SPSC[Read[R]]
	downQ  lfq.SPSC[downMsg]
	replyQ lfq.SPSC[reply[O]]
	serial Serial
}

// Stream is the downstream view of a running pipeline: a lazy sequence
// of batches terminated by a cause.
//
// Get and Close must be issued from one consumer at a time. A consumer
// that stops pulling before the terminal cause must Close, or the
// driver stays parked waiting to deliver it.
type Stream[O any] struct {
	downQ    *lfq.SPSC[downMsg]
	replyQ   *lfq.SPSC[reply[O]]
	terminal Cause
	serial   Serial
}

// Run starts the driver for program y over the two producers and
// returns the downstream stream. A nil exec uses [DefaultExecutor].
//
// The program is cold: no producer is read until the first Get demands
// output.
func Run[L, R, O any](y Program[L, R, O], left Resume[L], right Resume[R], exec Executor) *Stream[O] {
	if exec == nil {
		exec = DefaultExecutor
	}
	d := &driver[L, R, O]{exec: exec, y: y, serial: serials.Add(1)}
	d.left = side[L]{tag: sideIdle, next: left}
	d.right = side[R]{tag: sideIdle, next: right}
	d.leftQ.Init(mailboxCapacity)
	d.rightQ.Init(mailboxCapacity)
	d.downQ.Init(mailboxCapacity)
	d.replyQ.Init(mailboxCapacity)
	s := &Stream[O]{downQ: &d.downQ, replyQ: &d.replyQ, serial: d.serial}
	exec(d.loop)
	return s
}

// Serial returns the serial number assigned to this pipeline.
func (s *Stream[O]) Serial() Serial {
	return s.serial
}

// Get pulls the next batch. A nil cause means the batch is valid; a
// non-nil cause is terminal and is returned again on every further
// call. End is normal completion; see [AsError] for the failure view.
func (s *Stream[O]) Get() ([]O, Cause) {
	if s.terminal != nil {
		return nil, s.terminal
	}
	post(s.downQ, downMsg{kind: downGet})
	r := awaitReply(s.replyQ)
	if r.cause != nil {
		s.terminal = r.cause
		return nil, r.cause
	}
	return r.batch, nil
}

// Close unsubscribes from the pipeline: both producers are cancelled
// and their finalizers run. Close returns once cleanup has completed.
// It is a no-op after the terminal cause has been observed.
func (s *Stream[O]) Close() {
	if s.terminal != nil {
		return
	}
	post(s.downQ, downMsg{kind: downClose})
	r := awaitReply(s.replyQ)
	s.terminal = r.cause
	if s.terminal == nil {
		s.terminal = End{}
	}
}

// post enqueues onto a mailbox ring, waiting past ErrWouldBlock with
// adaptive backoff.
func post[T any](q *lfq.SPSC[T], v T) {
	var bo iox.Backoff
	for {
		if err := q.Enqueue(&v); err == nil {
			return
		}
		bo.Wait()
	}
}

// awaitReply dequeues the single-slot downstream reply, waiting past
// ErrWouldBlock with adaptive backoff.
func awaitReply[O any](q *lfq.SPSC[reply[O]]) reply[O] {
	var bo iox.Backoff
	for {
		r, err := q.Dequeue()
		if err == nil {
			return r
		}
		bo.Wait()
	}
}

// loop is the serialized actor: it drains the three mailbox rings,
// re-steps the program after every message, and parks with adaptive
// backoff when no ring makes progress.
func (d *driver[L, R, O]) loop() {
	var bo iox.Backoff
	for {
		progress := false
		if r, err := d.leftQ.Dequeue(); err == nil {
			d.readyL(r)
			progress = true
		}
		if r, err := d.rightQ.Dequeue(); err == nil {
			d.readyR(r)
			progress = true
		}
		if m, err := d.downQ.Dequeue(); err == nil {
			d.down(m)
			progress = true
		}
		if progress {
			d.runY()
			bo.Reset()
			continue
		}
		if d.completed {
			return
		}
		bo.Wait()
	}
}

// readyL applies a completed left read: values are fed, a terminal
// cause halts the left side of the program.
func (d *driver[L, R, O]) readyL(r Read[L]) {
	if r.Cause != nil {
		d.left = side[L]{tag: sideDone, cause: r.Cause}
		d.y = HaltL(r.Cause, d.y)
		return
	}
	d.left = side[L]{tag: sideIdle, next: r.Next}
	d.y = FeedL(r.Batch, d.y)
}

// readyR applies a completed right read.
func (d *driver[L, R, O]) readyR(r Read[R]) {
	if r.Cause != nil {
		d.right = side[R]{tag: sideDone, cause: r.Cause}
		d.y = HaltR(r.Cause, d.y)
		return
	}
	d.right = side[R]{tag: sideIdle, next: r.Next}
	d.y = FeedR(r.Batch, d.y)
}

// down applies a downstream request. Unsubscription disconnects both
// sides with Kill and lets the program run its finalizers; the ack is
// delivered once cleanup reaches Halt and both sides are Done.
func (d *driver[L, R, O]) down(m downMsg) {
	switch m.kind {
	case downGet:
		if d.out {
			panic("wye: concurrent Get on one stream")
		}
		d.out = true
	case downClose:
		if d.out {
			panic("wye: Close during pending Get")
		}
		d.closing = true
		d.out = true
		if s := stepY(d.y); !s.halted() {
			d.y = causedBy(DisconnectL(Kill{}, DisconnectR(Kill{}, d.y)), Kill{})
		}
	}
}

// runY is the step loop: it advances the program until it needs input
// that is not available, output that is not demanded, or halts.
func (d *driver[L, R, O]) runY() {
	for {
		s := stepY(d.y)
		if s.halted() {
			d.y = Halt[L, R, O](s.cause)
			d.killL()
			d.killR()
			if d.left.tag == sideDone && d.right.tag == sideDone && d.out {
				d.reply(nil, SwallowKill(s.cause))
			}
			return
		}
		switch n := s.head.(type) {
		case emitNode[L, R, O]:
			if len(n.values) == 0 || d.closing {
				d.y = runCont(s.tail, End{})
				continue
			}
			if d.out {
				batch := n.values
				d.y = runCont(s.tail, End{})
				d.reply(batch, nil)
				continue
			}
			d.y = s.resume()
			return
		case awaitLNode[L, R, O]:
			if d.left.tag == sideDone {
				d.y = HaltL(d.left.cause, s.resume())
				continue
			}
			d.y = s.resume()
			d.startL()
			d.leftBias = false
			return
		case awaitRNode[L, R, O]:
			if d.right.tag == sideDone {
				d.y = HaltR(d.right.cause, s.resume())
				continue
			}
			d.y = s.resume()
			d.startR()
			d.leftBias = true
			return
		case awaitBothNode[L, R, O]:
			if d.left.tag == sideDone {
				d.y = HaltL(d.left.cause, s.resume())
				continue
			}
			if d.right.tag == sideDone {
				d.y = HaltR(d.right.cause, s.resume())
				continue
			}
			d.y = s.resume()
			if d.leftBias {
				d.startL()
				d.startR()
			} else {
				d.startR()
				d.startL()
			}
			d.leftBias = !d.leftBias
			return
		}
	}
}

// startL launches a left read if the left side is idle.
func (d *driver[L, R, O]) startL() {
	if d.left.tag != sideIdle {
		return
	}
	next := d.left.next
	d.left = side[L]{tag: sideReading}
	d.left.cancel = next(d.exec, func(r Read[L]) { post(&d.leftQ, r) })
}

// startR launches a right read if the right side is idle.
func (d *driver[L, R, O]) startR() {
	if d.right.tag != sideIdle {
		return
	}
	next := d.right.next
	d.right = side[R]{tag: sideReading}
	d.right.cancel = next(d.exec, func(r Read[R]) { post(&d.rightQ, r) })
}

// killL forces the left side towards Done: an in-flight read is
// cancelled exactly once, an idle side is resumed and immediately
// cancelled so its finalizers run. Done is a no-op.
func (d *driver[L, R, O]) killL() {
	switch d.left.tag {
	case sideReading:
		cancel := d.left.cancel
		d.left.cancel = nil
		if cancel != nil {
			cancel(Kill{})
		}
	case sideIdle:
		next := d.left.next
		d.left = side[L]{tag: sideReading}
		cancel := next(d.exec, func(r Read[L]) { post(&d.leftQ, r) })
		cancel(Kill{})
	}
}

// killR forces the right side towards Done. Symmetric to killL.
func (d *driver[L, R, O]) killR() {
	switch d.right.tag {
	case sideReading:
		cancel := d.right.cancel
		d.right.cancel = nil
		if cancel != nil {
			cancel(Kill{})
		}
	case sideIdle:
		next := d.right.next
		d.right = side[R]{tag: sideReading}
		cancel := next(d.exec, func(r Read[R]) { post(&d.rightQ, r) })
		cancel(Kill{})
	}
}

// reply completes the pending downstream request.
func (d *driver[L, R, O]) reply(batch []O, cause Cause) {
	d.out = false
	if cause != nil {
		d.completed = true
	}
	post(&d.replyQ, reply[O]{batch: batch, cause: cause})
}
