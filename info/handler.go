package info

import (
	"net/http"
	"time"

	"github.com/jkeller-io/appweave/probe"
	"github.com/jkeller-io/appweave/responder"
	"github.com/jkeller-io/appweave/view"
)

// InfoProvider returns the payload that will be exposed by the version endpoint.
// The provider allows callers to inject their own source for build metadata or
// runtime diagnostics.
type InfoProvider func() any

// StatusDataProvider allows callers to customise the data payload passed to
// the status view at render time.
type StatusDataProvider func(r *http.Request, baseURL string) any

// InfoOption follows the functional options pattern used by NewInfoHandler to
// configure optional collaborators such as the responder, base URL, and
// information providers.
type InfoOption func(*InfoHandler)

const defaultProbeTimeout = 2 * time.Second

// ProbeFunc is executed to determine the outcome of liveness or readiness
// probes. Returning a non-nil error marks the probe as failed.
type ProbeFunc = probe.Func

// InfoHandler exposes build information, liveness and readiness endpoints,
// and an optional HTML status page rendered through the view package.
type InfoHandler struct {
	*responder.Responder
	baseURL         string
	infoProvider    InfoProvider
	statusView      *view.View
	dataProvider    StatusDataProvider
	probeTimeout    time.Duration
	livenessChecks  []ProbeFunc
	readinessChecks []ProbeFunc
}

// NewInfoHandler constructs an InfoHandler with sensible defaults. Callers can
// supply InfoOption values to plug in domain specific providers or override the
// base responder implementation.
func NewInfoHandler(opts ...InfoOption) *InfoHandler {
	ih := &InfoHandler{
		Responder: responder.NewResponder(),
		infoProvider: func() any {
			return map[string]string{}
		},
		dataProvider: defaultStatusDataProvider,
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ih)
		}
	}
	return ih
}

// WithInfoResponder replaces the responder used to craft JSON responses and
// handle error reporting.
func WithInfoResponder(responder *responder.Responder) InfoOption {
	return func(ih *InfoHandler) {
		if responder != nil {
			ih.Responder = responder
		}
	}
}

// WithBaseURL sets the URL prefix that will be injected into the rendered
// status page.
func WithBaseURL(baseURL string) InfoOption {
	return func(ih *InfoHandler) {
		ih.baseURL = baseURL
	}
}

// WithInfoProvider swaps the default metadata provider with a user supplied
// implementation.
func WithInfoProvider(provider InfoProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.infoProvider = provider
		}
	}
}

// WithStatusView injects the view rendered by the HTML status endpoint.
func WithStatusView(v *view.View) InfoOption {
	return func(ih *InfoHandler) {
		ih.statusView = v
	}
}

// WithStatusViewData overrides the data provider that runs for each request
// to the HTML endpoint.
func WithStatusViewData(provider StatusDataProvider) InfoOption {
	return func(ih *InfoHandler) {
		if provider != nil {
			ih.dataProvider = provider
		}
	}
}

// WithProbeTimeout adjusts the maximum duration allowed for probe checks.
func WithProbeTimeout(timeout time.Duration) InfoOption {
	return func(ih *InfoHandler) {
		if timeout > 0 {
			ih.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks replaces the default liveness checks with the supplied
// functions.
func WithLivenessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.livenessChecks = filterProbes(checks)
	}
}

// WithReadinessChecks replaces the default readiness checks with the supplied
// functions.
func WithReadinessChecks(checks ...ProbeFunc) InfoOption {
	return func(ih *InfoHandler) {
		ih.readinessChecks = filterProbes(checks)
	}
}

func defaultStatusDataProvider(_ *http.Request, baseURL string) any {
	return map[string]any{
		"BaseURL": baseURL,
	}
}
