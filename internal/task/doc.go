// Package task owns task identity and lifecycle for video generation. The
// Executor accepts submissions, starts the polling loop immediately in a
// per-task goroutine, and exposes progress to callers through a lazy,
// channel-backed event stream. Task records live in an in-memory store for
// the process lifetime only.
package task
