package api

import (
	"net/http"

	"github.com/dekarrin/gramq/internal/version"
	"github.com/dekarrin/gramq/server/result"
	"github.com/dekarrin/gramq/split"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.GramQ = version.Current
	resp.Splitters = split.Names()

	return result.OK(resp, "got API info")
}
