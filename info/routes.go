package info

import (
	"errors"
	"net/http"
)

// GetStatus returns a simple health payload that can be used for lightweight diagnostics.
func (ih *InfoHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ih.respondProbe(w, r, http.StatusOK, "HEALTHY")
}

// GetHealthz implements the liveness probe recommended for Kubernetes.
func (ih *InfoHandler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.livenessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "liveness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ok")
}

// GetReadyz implements the readiness probe recommended for Kubernetes.
func (ih *InfoHandler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	if err := ih.runChecks(r.Context(), ih.readinessChecks); err != nil {
		ih.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "readiness probe failed")
		return
	}
	ih.respondProbe(w, r, http.StatusOK, "ready")
}

// GetVersion returns the structure provided by the configured InfoProvider.
func (ih *InfoHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	payload := ih.infoProvider()
	if payload == nil {
		payload = map[string]string{}
	}
	ih.RespondWithJSON(w, r, http.StatusOK, payload)
}

// GetStatusHTML renders the configured status view as an HTML page. The view
// receives the payload built by the status data provider.
func (ih *InfoHandler) GetStatusHTML(w http.ResponseWriter, r *http.Request) {
	if ih.statusView == nil {
		err := errors.New("status view not configured")
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render status page")
		return
	}

	var data any
	if ih.dataProvider != nil {
		data = ih.dataProvider(r, ih.baseURL)
	}
	if data == nil {
		data = defaultStatusDataProvider(r, ih.baseURL)
	}

	w.Header().Set("Content-Type", "text/html")
	if err := ih.statusView.Render(r.Context(), w, data); err != nil {
		ih.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render status page")
		return
	}
}
