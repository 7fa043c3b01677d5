// Package events defines the wire-level envelope for progress events as they
// are delivered to callers, decoupling the domain event model from transport
// encoding. Handlers convert domain events into StreamEvent values and write
// them to the response; test harnesses and CLI consumers decode the same
// shape.
package events
