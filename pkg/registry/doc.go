// Package registry provides a generic, type-safe registry that keeps
// registration order. Rule sets and the check catalogue are built on it.
package registry
