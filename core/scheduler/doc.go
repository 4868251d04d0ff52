// Package scheduler implements the allocation policies that fill a single day
// from the pending task queue. Two strategies are provided:
//
//   - compact: packs as many hours of the earliest-due task as the day allows
//     before moving on to the next one.
//   - dynamic: spreads each task evenly over the days left until its due date.
//
// Both share the same contract so the planner can swap them through the
// registry in registry.go. Work due on the day being filled is always forced
// in, even past the day's budget.
package scheduler
