// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wye provides a two-input nondeterministic stream combinator:
// a pure, reified merge program executed against two asynchronous
// producers by a serialized driver.
//
// A merge program ([Program]) describes what the engine should do next
// — demand the left side, the right side, race both, emit a batch
// downstream, or halt — and may change shape as inputs arrive.
//
// # Architecture
//
//   - Algebra: [Emit], [AwaitL], [AwaitR], [AwaitBoth], [Halt] build
//     coinductive programs; receive functions are total over
//     [kont.Either] deliveries ([code.hybscloud.com/kont]).
//   - Combinators: [Merge], [Either], [Interrupt], [BoundedQueue],
//     [YipWith], [EchoLeft], [TimedQueue], [Dynamic] and friends.
//   - Transformers: [FeedL]/[FeedR] drive a program synchronously;
//     [DisconnectL]/[DisconnectR] and [HaltL]/[HaltR] rewrite it as if
//     one side were gone; [Flip] swaps sides; [AttachL]/[AttachR]
//     compose a single-input [Trans] in front of one side.
//   - Runtime: [Run] spawns a serialized driver whose mailbox is a set
//     of bounded lock-free SPSC rings ([code.hybscloud.com/lfq]),
//     parked with adaptive backoff ([code.hybscloud.com/iox]) when no
//     ring makes progress.
//   - Termination: [Cause] values (End, Kill, Error) travel as data;
//     Kill is suppressed at the downstream boundary.
//
// # Execution model
//
// The driver owns the current program, one state per producer side,
// and the single-slot downstream request. All mutation happens on the
// driver goroutine; producers and the consumer communicate with it
// only through the mailbox rings. Stepping is iterative, so deeply
// nested transformers cannot grow the native stack. For a race
// ([AwaitBoth]) the winner determines which delivery is fed; the
// left/right bias only decides the read start order and flips after
// every race.
//
// # Example
//
//	out := wye.Run(
//		wye.Merge[int](),
//		wye.SourceSlice([]int{1, 2, 3}),
//		wye.SourceSlice([]int{10, 20}),
//		nil,
//	)
//	for {
//		batch, cause := out.Get()
//		if cause != nil {
//			break // wye.AsError(cause) reports failures
//		}
//		consume(batch)
//	}
package wye
