package server

import (
	"net/http"
	"strings"

	"github.com/dekarrin/gramq/server/api"
	"github.com/dekarrin/gramq/server/middle"
	"github.com/dekarrin/gramq/server/result"
	"github.com/go-chi/chi/v5"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API, maxBodyBytes int64) chi.Router {
	r := chi.NewRouter()

	r.Use(middle.LimitBody(maxBodyBytes, api.LogResponse))
	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	grammars := newGrammarsRouter(a)
	info := newInfoRouter(a)

	r.Mount("/grammars", grammars)
	r.Mount("/info", info)
	r.HandleFunc("/info/", RedirectNoTrailingSlash)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		res := result.NotFound()
		api.LogResponse(req, res)
		res.WriteResponse(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		res := result.MethodNotAllowed(req)
		api.LogResponse(req, res)
		res.WriteResponse(w)
	})

	return r
}

func newGrammarsRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.HTTPGetAllGrammars())
	r.Post("/", a.HTTPCreateGrammar())

	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Get("/", a.HTTPGetGrammar())
		r.Delete("/", a.HTTPDeleteGrammar())
		r.Post("/recognitions", a.HTTPCreateRecognition())
	})
	r.HandleFunc("/"+p("id:uuid")+"/", RedirectNoTrailingSlash)

	return r
}

func newInfoRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.HTTPGetInfo())

	return r
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL as the
// request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	redirPath := strings.TrimRight(req.URL.Path, "/")
	res := result.Redirection(redirPath)
	api.LogResponse(req, res)
	res.WriteResponse(w)
}
