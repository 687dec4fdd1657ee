// Package appweave bundles the small support utilities that every Go web
// application ends up writing around its router: content-type normalization,
// entity-tag generation, query-string parsing, proxy-trust evaluation, and
// template-view resolution. The module stays intentionally small and
// encourages teams to pull in only the packages they need, keeping binaries
// lean and dependencies predictable.
//
// Routing, connection handling, and the template engines themselves are out
// of scope; every package here sits beside whatever mux and engine the
// application already uses.
//
// # Packages
//
//   - mediatype: media-type normalization and the accept-parameter tokenizer,
//     plus charset injection for Content-Type headers.
//   - etag: strong and weak entity tags for bodies and files, If-None-Match
//     comparison, and a compiler that turns an application setting into a
//     generator function.
//   - queryparse: flat and bracket-nested query-string parsing behind the
//     same kind of setting compiler.
//   - proxytrust: trust predicates for reverse-proxy chains and the
//     X-Forwarded-For walk that resolves the real client address.
//   - view: logical view names resolved to template files across root
//     directories, with per-extension engine binding and an asynchronous
//     render whose callback is guaranteed not to run on the caller's
//     goroutine.
//   - settings: application-level settings loaded from the environment or
//     JSONC/YAML files and compiled into the functions above.
//   - responder: consistent JSON success/error envelopes, structured logging
//     hooks, and conditional-request handling wired to the etag package.
//   - probe: adapters that turn database pings, HTTP checks, or view lookups
//     into readiness checks.
//   - jsonutil: tiny helpers around sonic for performance-sensitive encoding
//     tasks.
//
// # Quick Start
//
//	trust, _ := proxytrust.Compile("loopback, 10.0.0.0/8")
//	gen, _ := etag.Compile("weak")
//
//	resp := responder.NewResponder(
//	    responder.WithLogger(logger),
//	    responder.WithETagGenerator(gen),
//	)
//
//	v, _ := view.New("users/profile",
//	    view.WithRoots("templates"),
//	    view.WithDefaultExtension(".html"),
//	)
//
// Sharing the responder keeps JSON payloads, error envelopes, and trace IDs
// consistent, while the compiled setting functions plug straight into request
// handling: trust decides which X-Forwarded-For hops to believe, and the
// generator produces the ETag written on cacheable responses.
package appweave
