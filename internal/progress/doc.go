// Package progress fans enrichment progress events out to websocket watchers.
//
// Publishers never block: events are queued in an unbounded ring buffer and a
// single goroutine delivers them. A watcher whose send buffer is full is
// disconnected rather than slowing the pipeline down.
package progress
