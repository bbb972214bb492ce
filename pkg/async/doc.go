// Package async provides a generic future type for coordinating
// asynchronous work.
//
// A Future[T] is created together with its resolver; whoever holds the
// resolver settles the future exactly once, and any number of waiters
// observe the outcome:
//
//	future, resolve := async.New[string]()
//	go func() { resolve(compute()) }()
//	value, err := future.Await()
//
// Go wraps the common spawn-and-resolve pattern, AwaitContext and
// AwaitWithTimeout bound the wait, and WaitAll/WaitAny coordinate over
// several futures. All operations are safe for concurrent use; sync.Once
// guards settlement.
package async
