package http

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"ensnorm/internal/core/ensip"
	phttp "ensnorm/internal/platform/net/http"
	namesrepo "ensnorm/internal/services/api/names/repo"
	namessvc "ensnorm/internal/services/api/names/service"

	"github.com/go-chi/chi/v5"
)

func newRouter(t *testing.T) phttp.Router {
	t.Helper()
	eng, err := ensip.New()
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	svc := namessvc.New(eng, namesrepo.New(nil, nil), nil)
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, svc)
	return r
}

func post(t *testing.T, r phttp.Router, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req)

	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("bad body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, envelope
}

func TestNormalizeEndpoint(t *testing.T) {
	r := newRouter(t)

	code, env := post(t, r, "/normalize", `{"name":"Nick.ETH"}`)
	if code != 200 {
		t.Fatalf("status = %d, body %v", code, env)
	}
	data := env["data"].(map[string]any)
	if data["output"] != "nick.eth" {
		t.Fatalf("data = %v", data)
	}
}

func TestNormalizeEndpointDiagnosticInBody(t *testing.T) {
	r := newRouter(t)

	code, env := post(t, r, "/normalize", `{"name":"a_b.eth"}`)
	if code != 200 {
		t.Fatalf("diagnostics ride in the report, not the status: %d %v", code, env)
	}
	data := env["data"].(map[string]any)
	diag := data["error"].(map[string]any)
	if diag["code"] != "UNDERSCORE" || diag["curable"] != true {
		t.Fatalf("diagnostic = %v", diag)
	}
	if diag["index"].(float64) != 1 {
		t.Fatalf("index = %v", diag["index"])
	}
}

func TestNormalizeEndpointRejectsBadJSON(t *testing.T) {
	r := newRouter(t)

	code, env := post(t, r, "/normalize", `{"name":`)
	if code != 400 {
		t.Fatalf("status = %d, body %v", code, env)
	}
}

func TestNormalizeEndpointRejectsLongName(t *testing.T) {
	r := newRouter(t)

	long := strings.Repeat("a", 600)
	code, _ := post(t, r, "/normalize", `{"name":"`+long+`"}`)
	if code != 400 {
		t.Fatalf("status = %d for oversized name", code)
	}
}

func TestProcessEndpoint(t *testing.T) {
	r := newRouter(t)

	code, env := post(t, r, "/process", `{"name":"Nick.ETH","normalize":true,"beautify":true}`)
	if code != 200 {
		t.Fatalf("status = %d, body %v", code, env)
	}
	data := env["data"].(map[string]any)
	if data["normalized"] != "nick.eth" || data["beautified"] != "nick.eth" {
		t.Fatalf("data = %v", data)
	}
	if _, ok := data["tokens"]; ok {
		t.Fatalf("tokens not requested, data = %v", data)
	}
}

func TestTokenizeEndpointIsTotal(t *testing.T) {
	r := newRouter(t)

	code, env := post(t, r, "/tokenize", `{"name":"a?b"}`)
	if code != 200 {
		t.Fatalf("status = %d, body %v", code, env)
	}
	data := env["data"].(map[string]any)
	tokens := data["tokens"].([]any)
	if len(tokens) != 3 {
		t.Fatalf("tokens = %v", tokens)
	}
	mid := tokens[1].(map[string]any)
	if mid["type"] != "disallowed" {
		t.Fatalf("middle token = %v", mid)
	}
}

func TestRecentEndpointValidatesLimit(t *testing.T) {
	r := newRouter(t)

	req := httptest.NewRequest("GET", "/recent?limit=9999", nil)
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, req)
	if rec.Code != 422 {
		t.Fatalf("status = %d", rec.Code)
	}
}
