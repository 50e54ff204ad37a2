// Package api provides HTTP API endpoints for the gramq server.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/gramq/server/gqs"
	"github.com/dekarrin/gramq/server/result"
	"github.com/dekarrin/gramq/server/serr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// requireIDParam returns the {id} URL param as a UUID. Routes only match IDs
// in UUID form, so a missing or bad param is a routing bug and panics.
func requireIDParam(r *http.Request) uuid.UUID {
	id, err := urlParam(r, "id", uuid.Parse)
	if err != nil {
		panic(fmt.Sprintf("id param: %v", err))
	}
	return id
}

func urlParam[E any](r *http.Request, key string, parse func(string) (E, error)) (E, error) {
	var zero E

	raw := chi.URLParam(r, key)
	if raw == "" {
		return zero, fmt.Errorf("%s: not in route", key)
	}

	val, err := parse(raw)
	if err != nil {
		return zero, serr.New(key, err, serr.ErrBadArgument)
	}
	return val, nil
}

// API turns HTTP requests into calls on a gqs.Service. Each HTTP* method gives
// the handler for one route; mount them on a router to serve them.
//
// Go code that wants the backend directly should use [gqs.Service] instead.
type API struct {
	// Backend does the work behind every endpoint.
	Backend gqs.Service

	// UnauthDelay is how long an HTTP-500 response is held before it is
	// sent, which slows clients that hammer a failing endpoint.
	UnauthDelay time.Duration
}

// parseJSON decodes the request body into v, which must be a pointer. The body
// is left readable again afterwards. Errors from bad JSON match
// serr.ErrBodyUnmarshal.
func parseJSON(req *http.Request, v interface{}) error {
	mediaType := strings.SplitN(req.Header.Get("Content-Type"), ";", 2)[0]
	if !strings.EqualFold(strings.TrimSpace(mediaType), "application/json") {
		return fmt.Errorf("request content-type is not application/json")
	}

	body, err := io.ReadAll(req.Body)
	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}

// EndpointFunc is the signature of every endpoint implementation. It is turned
// into an http.HandlerFunc with httpEndpoint.
type EndpointFunc func(req *http.Request) result.Result

// httpEndpoint wraps ep so that its Result is logged and written, and so that a
// panic in ep becomes an HTTP-500.
func httpEndpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		if r.Status == 0 {
			logHttpResponse("ERROR", req, http.StatusInternalServerError, "endpoint gave an empty result")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// marshal now; WriteResponse panics on failure
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.InternalServerError("could not marshal JSON response: %s", err.Error())
		}

		LogResponse(req, r)
		if r.Status == http.StatusInternalServerError {
			time.Sleep(unauthDelay)
		}
		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicRecovered bool) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		logHttpResponse("ERROR", req, r.Status, r.InternalMsg)
		r.WriteResponse(w)
		return true
	}
	return false
}

// LogResponse logs the outcome of a request that was handled outside of an
// endpoint, such as by a router or middleware.
func LogResponse(req *http.Request, r result.Result) {
	level := "INFO"
	if r.IsErr {
		level = "ERROR"
	}
	logHttpResponse(level, req, r.Status, r.InternalMsg)
}

func logHttpResponse(level string, req *http.Request, respStatus int, msg string) {
	if len(level) > 5 {
		level = level[:5]
	}

	// client port is dropped
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]

	log.Printf("%-5s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, respStatus, msg)
}
