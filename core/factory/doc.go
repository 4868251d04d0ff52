// Package factory provides a generic registry used to select pluggable
// modules by name, such as scheduling strategies and metrics sinks.
package factory
