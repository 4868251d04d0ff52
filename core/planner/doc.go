// Package planner builds day-by-day schedules out of a backlog of due-dated
// tasks.
//
// A Manager owns the task set and the latest schedule. BuildSchedule resets
// every task, archives work whose due date has passed, then opens days from
// today onwards and hands each one to the configured scheduling strategy
// until the backlog is empty or the horizon is reached. Failed allocations
// are counted, never returned as errors.
package planner
