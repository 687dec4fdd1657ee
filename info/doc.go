// Package info exposes build metadata, health probes, and an HTML status
// page rendered through the view package.
//
// See ExampleInfoHandler_full for a runnable wiring of the handler and probes.
package info
