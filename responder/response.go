package responder

import (
	"net/http"

	"github.com/jkeller-io/appweave/etag"
	"github.com/jkeller-io/appweave/jsonutil"
	"github.com/jkeller-io/appweave/mediatype"
)

// HandleAPIError renders a structured JSON response for the supplied HTTP
// status and logs the payload using the configured logger.
func (r *Responder) HandleAPIError(w http.ResponseWriter, req *http.Request, status int, err error, logMsg ...string) {
	if err == nil {
		return
	}

	meta := r.statusMetaFor(status)
	problem := r.buildProblemDetails(req, status, err, meta)
	r.logProblem(req, meta, err, problem.TraceID, status, logMsg)

	body, marshalErr := r.marshalPayload(problem)
	if marshalErr != nil {
		r.logger().Error("failed to encode problem response", "error", marshalErr)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	r.writeResponse(w, status, r.contentType(problemContentType), body)
}

// HandleInternalServerError is a shortcut that reports a 500 status code.
func (r *Responder) HandleInternalServerError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusInternalServerError, err, logMsg...)
}

// HandleBadRequestError reports client validation errors using HTTP 400.
func (r *Responder) HandleBadRequestError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusBadRequest, err, logMsg...)
}

// HandleUnauthorizedError reports authentication failures using HTTP 401.
func (r *Responder) HandleUnauthorizedError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusUnauthorized, err, logMsg...)
}

// HandleErrors inspects the supplied error using the configured classifier and
// emits an appropriate JSON response.
func (r *Responder) HandleErrors(w http.ResponseWriter, req *http.Request, err error, msgs ...string) {
	if err == nil {
		return
	}

	if status, handled := r.classifyError(err); handled {
		r.HandleAPIError(w, req, status, err, msgs...)
		return
	}

	r.HandleInternalServerError(w, req, err, msgs...)
}

// RespondWithJSON serialises the provided value and writes it to the response
// using the supplied status code, with conditional-request handling when an
// entity-tag generator is configured.
func (r *Responder) RespondWithJSON(w http.ResponseWriter, req *http.Request, status int, v any) {
	if w == nil {
		return
	}

	body, err := r.marshalPayload(v)
	if err != nil {
		r.logger().Error("failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	r.Respond(w, req, status, jsonContentType, body)
}

// Respond writes body with the given status and content type. The configured
// charset is injected into the content type, and on cacheable responses the
// entity tag is emitted; a matching If-None-Match request header short-circuits
// to 304 Not Modified with no body.
func (r *Responder) Respond(w http.ResponseWriter, req *http.Request, status int, contentType string, body []byte) {
	if w == nil {
		return
	}

	if tag := r.entityTag(req, status, body); tag != "" {
		w.Header().Set("ETag", tag)
		if etag.Match(requestHeader(req, "If-None-Match"), tag) {
			w.WriteHeader(http.StatusNotModified)
			return
		}
	}

	r.writeResponse(w, status, r.contentType(contentType), body)
}

// entityTag returns the tag to emit for the response, or the empty string
// when the response is not cacheable under tags: generation disabled, non-2xx
// status, or a method other than GET or HEAD.
func (r *Responder) entityTag(req *http.Request, status int, body []byte) string {
	if r.etagGenerator == nil || req == nil {
		return ""
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return ""
	}
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return ""
	}
	return r.etagGenerator(body)
}

func (r *Responder) contentType(base string) string {
	return mediatype.SetCharset(base, r.charset)
}

func (r *Responder) marshalPayload(payload any) ([]byte, error) {
	data, err := jsonutil.Marshal(payload)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}

func (r *Responder) writeResponse(w http.ResponseWriter, status int, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.logger().Error("failed to write response", "error", err)
	}
}

func requestHeader(req *http.Request, name string) string {
	if req == nil {
		return ""
	}
	return req.Header.Get(name)
}
