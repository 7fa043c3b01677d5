// Package api contains the HTTP handlers for the video generation task
// service: task submission with progress streaming, task snapshots, and the
// error mapping between internal sentinel errors and client-safe responses.
package api
