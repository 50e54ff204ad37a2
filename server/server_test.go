package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dekarrin/gramq/server/api"
	"github.com/stretchr/testify/assert"
)

const abGrammarJSON = `{
	"name": "ab",
	"start": "S",
	"splitter": "fields",
	"rules": [
		{"source": "S", "target": "A B"},
		{"source": "A", "target": "a"},
		{"source": "B", "target": "b"},
		{"source": "S", "target": "A B A"}
	]
}`

func newTestServer(t *testing.T) *Server {
	gs, err := New(Config{UnauthDelayMillis: -1, Workers: 2, MaxInputTokens: 8})
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	t.Cleanup(func() { gs.Close() })
	return gs
}

func do(gs *Server, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	gs.ServeHTTP(w, req)
	return w
}

func createAB(t *testing.T, gs *Server) api.GrammarModel {
	w := do(gs, http.MethodPost, "/api/v1/grammars", abGrammarJSON)
	if !assert.Equal(t, http.StatusCreated, w.Code, w.Body.String()) {
		t.FailNow()
	}

	var created api.GrammarModel
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return created
}

func Test_Server_CreateAndGetGrammar(t *testing.T) {
	assert := assert.New(t)
	gs := newTestServer(t)

	created := createAB(t, gs)
	assert.Equal("ab", created.Name)
	assert.Equal("/api/v1/grammars/"+created.ID, created.URI)
	assert.Len(created.Rules, 4)
	assert.Len(created.Normalized, 3)
	if assert.Len(created.Diagnostics, 1) {
		assert.Equal(3, created.Diagnostics[0].Index)
		assert.Equal([]string{"A", "B", "A"}, created.Diagnostics[0].Split)
	}

	w := do(gs, http.MethodGet, created.URI, "")
	assert.Equal(http.StatusOK, w.Code)
	var got api.GrammarModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(created.Normalized, got.Normalized)

	w = do(gs, http.MethodGet, "/api/v1/grammars", "")
	assert.Equal(http.StatusOK, w.Code)
	var all []api.GrammarModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &all))
	if assert.Len(all, 1) {
		assert.Equal(created.ID, all[0].ID)
		assert.Empty(all[0].Normalized)
	}

	w = do(gs, http.MethodPost, "/api/v1/grammars", abGrammarJSON)
	assert.Equal(http.StatusConflict, w.Code)
}

func Test_Server_CreateGrammar_BadRequests(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"name": `},
		{name: "no name", body: `{"start": "S", "rules": [{"source": "S", "target": "a"}]}`},
		{name: "no start", body: `{"name": "x", "rules": [{"source": "S", "target": "a"}]}`},
		{name: "no rules", body: `{"name": "x", "start": "S"}`},
		{name: "unknown splitter", body: `{"name": "x", "start": "S", "splitter": "regex", "rules": [{"source": "S", "target": "a"}]}`},
		{name: "blank rule source", body: `{"name": "x", "start": "S", "rules": [{"source": " ", "target": "a"}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gs := newTestServer(t)
			w := do(gs, http.MethodPost, "/api/v1/grammars", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func Test_Server_Recognitions(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		expectStatus int
		expectRecog  bool
		expectTokens []string
	}{
		{
			name:         "input accepted",
			body:         `{"input": "a b"}`,
			expectStatus: http.StatusOK,
			expectRecog:  true,
			expectTokens: []string{"a", "b"},
		},
		{
			name:         "input rejected",
			body:         `{"input": "b a"}`,
			expectStatus: http.StatusOK,
			expectRecog:  false,
			expectTokens: []string{"b", "a"},
		},
		{
			name:         "tokens given",
			body:         `{"tokens": ["a", "b"]}`,
			expectStatus: http.StatusOK,
			expectRecog:  true,
			expectTokens: []string{"a", "b"},
		},
		{
			name:         "too many tokens",
			body:         `{"input": "a a a a a a a a a"}`,
			expectStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			gs := newTestServer(t)
			created := createAB(t, gs)

			w := do(gs, http.MethodPost, created.URI+"/recognitions", tc.body)
			if !assert.Equal(tc.expectStatus, w.Code, w.Body.String()) || tc.expectStatus != http.StatusOK {
				return
			}

			var rec api.RecognitionModel
			if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &rec)) {
				return
			}
			assert.Equal("ab", rec.Grammar)
			assert.Equal("S", rec.Start)
			assert.Equal(tc.expectRecog, rec.Recognized)
			assert.Equal(tc.expectTokens, rec.Tokens)
			assert.NotEmpty(rec.Derivations)
		})
	}
}

func Test_Server_Recognition_Derivations(t *testing.T) {
	assert := assert.New(t)
	gs := newTestServer(t)
	created := createAB(t, gs)

	w := do(gs, http.MethodPost, created.URI+"/recognitions", `{"input": "a b"}`)
	assert.Equal(http.StatusOK, w.Code)

	var rec api.RecognitionModel
	if !assert.NoError(json.Unmarshal(w.Body.Bytes(), &rec)) {
		return
	}

	expect := []api.DerivationModel{
		{Length: 1, Start: 0, Symbols: []string{"A"}},
		{Length: 1, Start: 1, Symbols: []string{"B"}},
		{Length: 2, Start: 0, Symbols: []string{"S"}},
	}
	assert.Equal(expect, rec.Derivations)
}

func Test_Server_DeleteGrammar(t *testing.T) {
	assert := assert.New(t)
	gs := newTestServer(t)
	created := createAB(t, gs)

	w := do(gs, http.MethodDelete, created.URI, "")
	assert.Equal(http.StatusNoContent, w.Code)

	w = do(gs, http.MethodGet, created.URI, "")
	assert.Equal(http.StatusNotFound, w.Code)

	w = do(gs, http.MethodDelete, created.URI, "")
	assert.Equal(http.StatusNotFound, w.Code)
}

func Test_Server_Routing(t *testing.T) {
	testCases := []struct {
		name         string
		method       string
		path         string
		expectStatus int
	}{
		{name: "info", method: http.MethodGet, path: "/api/v1/info", expectStatus: http.StatusOK},
		{name: "unknown path", method: http.MethodGet, path: "/api/v1/parsers", expectStatus: http.StatusNotFound},
		{name: "non-uuid id", method: http.MethodGet, path: "/api/v1/grammars/12", expectStatus: http.StatusNotFound},
		{name: "missing grammar", method: http.MethodGet, path: "/api/v1/grammars/00000000-0000-0000-0000-000000000000", expectStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodPut, path: "/api/v1/info", expectStatus: http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gs := newTestServer(t)
			w := do(gs, tc.method, tc.path, "")
			assert.Equal(t, tc.expectStatus, w.Code)
		})
	}
}

func Test_Server_Info(t *testing.T) {
	assert := assert.New(t)
	gs := newTestServer(t)

	w := do(gs, http.MethodGet, "/api/v1/info", "")
	assert.Equal(http.StatusOK, w.Code)

	var info api.InfoModel
	assert.NoError(json.Unmarshal(w.Body.Bytes(), &info))
	assert.NotEmpty(info.Version.Server)
	assert.Equal([]string{"chars", "fields", "molecule"}, info.Splitters)
}

func Test_Server_BodyTooLarge(t *testing.T) {
	gs, err := New(Config{UnauthDelayMillis: -1, MaxBodyBytes: 16})
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	defer gs.Close()

	w := do(gs, http.MethodPost, "/api/v1/grammars", abGrammarJSON)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
