// Package infra contains technical adapters for the planner such as the
// MQTT publisher, the metrics exporters and the task file reader. These
// packages depend only on the interfaces defined in the core packages.
package infra
