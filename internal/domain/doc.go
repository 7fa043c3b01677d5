// Package domain contains the core business entities for video generation
// tasks: the task itself with its lifecycle state, the backend operation
// handle that is polled until done, the progress events delivered to callers,
// and the artifact reference describing a finalized result. These types have
// no dependencies on transport, storage, or the generation backend.
package domain
