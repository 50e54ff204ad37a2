// Package result holds the outcome of a gramq API endpoint until it is written
// to the client.
//
// Every Result has two messages. The response body is what the client sees.
// InternalMsg is only for the server log, and the constructors that take a
// trailing internalMsg treat its first element as a format string and the
// rest as its arguments.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body of every JSON error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// OK gives an HTTP-200 with respObj as the body.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	f, args := logMsg("OK", internalMsg)
	return Response(http.StatusOK, respObj, f, args...)
}

// Created gives an HTTP-201 with the new entity respObj as the body.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	f, args := logMsg("created", internalMsg)
	return Response(http.StatusCreated, respObj, f, args...)
}

// NoContent gives an HTTP-204 with no body, as after a delete.
func NoContent(internalMsg ...interface{}) Result {
	f, args := logMsg("no content", internalMsg)
	return Response(http.StatusNoContent, nil, f, args...)
}

// BadRequest gives an HTTP-400 telling the client userMsg.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	f, args := logMsg("bad request", internalMsg)
	return Err(http.StatusBadRequest, userMsg, f, args...)
}

// NotFound gives an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	f, args := logMsg("not found", internalMsg)
	return Err(http.StatusNotFound, "The requested resource was not found", f, args...)
}

// MethodNotAllowed gives an HTTP-405 naming the method and path of req.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	f, args := logMsg("method not allowed", internalMsg)
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, f, args...)
}

// Conflict gives an HTTP-409 telling the client userMsg, as when a grammar
// name is already taken.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	f, args := logMsg("conflict", internalMsg)
	return Err(http.StatusConflict, userMsg, f, args...)
}

// InternalServerError gives an HTTP-500. The client only ever sees a generic
// message; the details go in the log.
func InternalServerError(internalMsg ...interface{}) Result {
	f, args := logMsg("internal server error", internalMsg)
	return Err(http.StatusInternalServerError, "An internal server error occurred", f, args...)
}

func logMsg(def string, internalMsg []interface{}) (string, []interface{}) {
	if len(internalMsg) < 1 {
		return def, nil
	}
	return internalMsg[0].(string), internalMsg[1:]
}

// Response gives a successful JSON Result. respObj is ignored for
// http.StatusNoContent and must be non-nil otherwise.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{
		Status:      status,
		IsJSON:      true,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

// Err gives a JSON error Result whose body is an ErrorResponse.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		IsJSON:      true,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// TextErr gives an error Result written as plain text. It is used where JSON
// encoding itself may be what failed.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		Status:      status,
		IsErr:       true,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        userMsg,
	}
}

// Redirection gives an HTTP-308 to uri.
func Redirection(uri string) Result {
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: "redirect -> " + uri,
		redir:       uri,
	}
}

// Result is the outcome of an endpoint. The zero value has a Status of 0 and
// must not be written.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp  interface{}
	redir string
	hdrs  [][2]string

	// cached by PrepareMarshaledResponse
	body []byte
}

// WithHeader returns a copy of r that also sets the given header when written.
func (r Result) WithHeader(name, val string) Result {
	cp := r
	cp.hdrs = append(append([][2]string{}, r.hdrs...), [2]string{name, val})
	return cp
}

// PrepareMarshaledResponse encodes the JSON body of r ahead of time, so that a
// failure can be handled before anything is written. Results with no JSON
// body return nil. Calling it again after it succeeds does nothing.
func (r *Result) PrepareMarshaledResponse() error {
	if r.body != nil || !r.IsJSON || r.Status == http.StatusNoContent || r.redir != "" {
		return nil
	}

	var err error
	r.body, err = json.Marshal(r.resp)
	return err
}

// WriteResponse writes r to w. It panics if r was never populated or cannot be
// marshaled; call PrepareMarshaledResponse first to check for the latter.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if err := r.PrepareMarshaledResponse(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	hdr := w.Header()
	if r.IsJSON {
		hdr.Set("Content-Type", "application/json")
	} else {
		hdr.Set("Content-Type", "text/plain; charset=utf-8")
	}
	hdr.Set("X-Content-Type-Options", "nosniff")
	if r.redir != "" {
		hdr.Set("Location", r.redir)
	}
	for _, h := range r.hdrs {
		hdr.Set(h[0], h[1])
	}

	w.WriteHeader(r.Status)

	if r.Status == http.StatusNoContent || r.redir != "" {
		return
	}
	if r.IsJSON {
		w.Write(r.body)
	} else {
		fmt.Fprintf(w, "%v", r.resp)
	}
}
