// Package partition fans one ordered stream of elements out into a fixed
// number of partitions, transforms every element concurrently with one
// worker per partition and fans the outcomes back into a single stream.
//
// Order is preserved within a partition, from dispatch to the merged output.
// Interleaving across partitions depends on worker speed and is unspecified.
//
// # Building a pipeline
//
//	policy, _ := partition.NewStringKeyed(4, func(o Order) string { return o.CustomerID })
//	p, err := partition.New(ctx, partition.Config{Partitions: 4, Capacity: 16}, policy,
//		func(ctx context.Context, o Order) (Receipt, error) { return charge(ctx, o) },
//		partition.WithLogger(logger.Get("orders")),
//	)
//	go p.FeedSeq(ctx, slices.Values(orders))
//	for o := range p.Output().All(ctx) {
//		if !o.IsSuccess() {
//			log.Printf("order %v failed: %v", o.Element(), o.Err())
//		}
//	}
//	err = p.Wait()
//
// # Producers
//
// Dispatch keeps per-partition order for a single producer issuing calls
// sequentially. Several producers calling Send concurrently on one pipeline
// get no per-key ordering guarantee; serialize them per key if it matters.
//
// # Closing
//
// The merged output only ends after every partition is closed and drained.
// Feed and FeedSeq close the partitions when their source ends; callers that
// use Send or Offer directly must call Close (or CloseWithCause) themselves.
// Closing the Output cancels the workers and closes every partition.
package partition
