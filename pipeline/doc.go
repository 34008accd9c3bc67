// Package pipeline provides lazy, pull-based stream operators.
//
// No work happens until values are pulled via Collect or Drain. Each stage
// pulls from the previous one on demand, one value at a time, so a slow
// consumer throttles the source without buffering and values keep their
// production order.
//
// Iterator is structurally compatible with provider.Iterator[T], so provider
// streams plug directly into From.
//
// # Operators
//
//   - Tap: side-effect without altering the value (logging, metrics, progress)
//   - Scan: running accumulation, yielding the accumulator after each value
//
// # Usage
//
//	src := pipeline.From(chunks)
//	totals := pipeline.Scan(src, Totals{}, Totals.Add)
//	err := pipeline.Drain(pipeline.Tap(totals, report), record).Run(ctx)
package pipeline
