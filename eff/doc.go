// Package eff provides a small effect runtime: values of type Effect
// describe computations without running them, combinators compose
// descriptions sequentially or in parallel, and Run interprets a
// description to completion.
//
// # Descriptions, not actions
//
// Constructing an Effect never performs work. Pure, Fail, Delay and Func
// wrap a result or an operation; FlatMap, Zip, ParZip, Race and friends
// build bigger descriptions out of smaller ones. Only Run (or a
// surrounding combinator being run) executes anything, and re-running a
// description re-executes it from scratch; there is no memoization.
//
// # Sequential vs parallel, by name
//
// Rather than one combinator whose semantics depend on the wrapped type,
// the package exposes two explicitly named families. Zip, Map2, Sequence
// and Traverse complete their first argument's side effects strictly
// before starting the second's. ParZip, ParMap2, ParSequence, ParTraverse
// and Race start their branches on separate fibers (goroutines under a
// cancellable child context), so independent work genuinely overlaps.
//
// # Coordination
//
// Branches share state only through the cell and permits packages, whose
// operations are lifted into Effects by CellGet, CellUpdate, AcquireN and
// ReleaseN. Handles are passed into the branches that use them; mutating
// a captured variable from two parallel branches is outside the contract
// and will lose updates.
//
// # Failure and cancellation
//
// Failures short-circuit FlatMap and Zip and dominate parallel
// combinators: ParZip and ParSequence report the first failure they
// observe, wrapped in a BranchError naming the branch, and cancel the
// still-running siblings. Cancellation itself is not a failure: a branch
// torn down by Race or by a sibling's failure never has its
// context.Canceled reported as the outcome. A cancellation-class error a
// branch produces on its own, while the surrounding context is still
// live, is a real failure and is reported like any other.
package eff
