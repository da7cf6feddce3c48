// Package pipeline provides lazy, pull-based stages around the partition
// engine.
//
// No work happens until values are pulled via Collect, Drain or ForEach. Each
// stage pulls from the previous one on demand.
//
// # Sources
//
//   - From: an existing Iterator (partition.Merger is one)
//   - FromSlice, FromSeq, FromChannel, FromFunc
//
// # Operators
//
//   - Map, Filter, Tap, Reduce: single-goroutine stages
//   - PartitionMap: transform concurrently on a partition pipeline, keeping
//     per-partition order
//   - Successes, Failures: split the outcomes of PartitionMap
//
// # Usage
//
//	policy, _ := partition.NewStringKeyed(8, func(e Event) string { return e.AccountID })
//	outcomes := pipeline.PartitionMap(pipeline.FromChannel(events),
//		partition.Config{Partitions: 8, Capacity: 64}, policy, enrich)
//	err := pipeline.ForEach(ctx, pipeline.Successes(outcomes), store)
package pipeline
