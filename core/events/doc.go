// Package events defines the planner events emitted on the event bus.
//
// Available event types:
//   - TaskEvent: a task was added, edited, removed or archived
//   - BuildEvent: a schedule rebuild finished
package events
