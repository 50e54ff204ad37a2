package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/gramq/grammar"
	"github.com/dekarrin/gramq/server/result"
	"github.com/dekarrin/gramq/server/serr"
)

// HTTPGetAllGrammars returns a HandlerFunc that retrieves all stored grammars.
// Listed grammars do not include their normalized rules.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllGrammars)
}

// GET /grammars: get all grammars.
func (api API) epGetAllGrammars(req *http.Request) result.Result {
	all, err := api.Backend.GetAllGrammars(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]GrammarModel, len(all))
	for i, g := range all {
		resp[i] = summaryModel(g.ID.String(), g.Name, g.Start, g.Splitter, g.Rules, g.Created, g.Modified)
	}

	return result.OK(resp, "got all grammars")
}

// HTTPCreateGrammar returns a HandlerFunc that stores a new grammar and
// responds with it normalized.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

// POST /grammars: create a new grammar.
func (api API) epCreateGrammar(req *http.Request) result.Result {
	var create GrammarModel
	err := parseJSON(req, &create)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if create.Name == "" {
		return result.BadRequest("name: property is empty or missing from request", "empty name")
	}
	if create.Start == "" {
		return result.BadRequest("start: property is empty or missing from request", "empty start")
	}
	if len(create.Rules) == 0 {
		return result.BadRequest("rules: property is empty or missing from request", "empty rules")
	}

	rules := make([]grammar.Rule, len(create.Rules))
	for i := range create.Rules {
		rules[i] = create.Rules[i].toRule()
	}

	n, err := api.Backend.CreateGrammar(req.Context(), create.Name, create.Start, create.Splitter, rules)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("Grammar with that name already exists", "grammar '%s' already exists", create.Name)
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := normalizedModel(n)
	return result.Created(resp, "grammar '%s' (%s) created with %d dropped rule(s)", resp.Name, resp.ID, len(resp.Diagnostics)).
		WithHeader("Location", resp.URI)
}

// HTTPGetGrammar returns a HandlerFunc that gets one grammar along with its
// normalized rules.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammar)
}

// GET /grammars/{id}: get a grammar.
func (api API) epGetGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)

	n, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get grammar: " + err.Error())
	}

	return result.OK(normalizedModel(n), "got grammar '%s'", n.Grammar.Name)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes a grammar.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteGrammar)
}

// DELETE /grammars/{id}: delete a grammar.
func (api API) epDeleteGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)

	deleted, err := api.Backend.DeleteGrammar(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete grammar: " + err.Error())
	}

	return result.NoContent("deleted grammar '%s' (%s)", deleted.Name, deleted.ID)
}

// HTTPCreateRecognition returns a HandlerFunc that checks an input against a
// stored grammar.
func (api API) HTTPCreateRecognition() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateRecognition)
}

// POST /grammars/{id}/recognitions: check an input.
func (api API) epCreateRecognition(req *http.Request) result.Result {
	id := requireIDParam(req)

	var recReq RecognitionRequest
	err := parseJSON(req, &recReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	g, res, err := api.Backend.Recognize(req.Context(), id.String(), recReq.Input, recReq.Tokens)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not recognize: " + err.Error())
	}

	return result.OK(recognitionModel(g.Name, res), "grammar '%s' recognized=%t for %d token(s)", g.Name, res.Recognized, len(res.Tokens))
}
