// Package probe converts database pings, HTTP checks, view lookups, and
// custom ping functions into readiness/liveness helpers. See
// ExampleNewPingProbe, ExampleNewHTTPProbe, and
// ExampleNewHTTPProbe_withOptions for quick-start patterns.
package probe
