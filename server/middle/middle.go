// Package middle contains middleware for use with the gramq server.
package middle

import (
	"net/http"

	"github.com/dekarrin/gramq/server/result"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// BodyLimitHandler is middleware that refuses requests whose declared body is
// larger than a set number of bytes, and caps how much of the body of any
// other request can be read.
//
// A request that declares a Content-Length over the limit gets an HTTP-413
// without being passed to the next handler. A request that does not declare
// its length but sends too much anyway will see an error from reads of its
// body once the limit is passed.
type BodyLimitHandler struct {
	maxBytes int64
	onReject func(req *http.Request, r result.Result)
	next     http.Handler
}

func (bl *BodyLimitHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.ContentLength > bl.maxBytes {
		r := result.Err(
			http.StatusRequestEntityTooLarge,
			"Request body is too large",
			"content length %d is over limit of %d", req.ContentLength, bl.maxBytes,
		)
		if bl.onReject != nil {
			bl.onReject(req, r)
		}
		r.WriteResponse(w)
		return
	}

	req.Body = http.MaxBytesReader(w, req.Body, bl.maxBytes)
	bl.next.ServeHTTP(w, req)
}

// LimitBody returns Middleware that limits request bodies to maxBytes. If
// onReject is not nil it is called with every rejection before it is written.
// A maxBytes below 1 gives Middleware that passes every request through
// unchanged.
func LimitBody(maxBytes int64, onReject func(req *http.Request, r result.Result)) Middleware {
	return func(next http.Handler) http.Handler {
		if maxBytes < 1 {
			return next
		}
		return &BodyLimitHandler{
			maxBytes: maxBytes,
			onReject: onReject,
			next:     next,
		}
	}
}
