package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
	logpkg "github.com/imwes/linkfinder/internal/logger"
)

func TestSearchFlags_Selection(t *testing.T) {
	f := &searchFlags{
		months: []string{"Январь", "Февраль"},
		tags:   []string{"Тема=Безопасность", "Регион=Ближний Восток=Юг"},
	}

	sel, err := f.selection()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sel.Has(domain.MonthCategory, "Февраль") || !sel.Has("Тема", "Безопасность") {
		t.Errorf("unexpected selection: %v", sel.Snapshot())
	}
	if !sel.Has("Регион", "Ближний Восток=Юг") {
		t.Error("only the first '=' separates category from label")
	}
}

func TestSearchFlags_Invalid(t *testing.T) {
	for _, tag := range []string{"Тема", "=x", "month=Январь"} {
		f := &searchFlags{tags: []string{tag}}
		if _, err := f.selection(); err == nil {
			t.Errorf("expected error for --tag %q", tag)
		}
	}
}

func TestPrintReferences(t *testing.T) {
	refs := []reference.Reference{{Title: "Доклад", URL: "https://d/1"}, {Title: "Обзор"}}

	var buf bytes.Buffer
	if err := printReferences(&buf, refs, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Найдено статей: 2\n[Доклад](https://d/1)\nОбзор\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	if err := printReferences(&buf, nil, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty JSON result = %q", buf.String())
	}
}

func TestVersionCmd(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "linkfinder ") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/months", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil || body["code"] != "internal_error" {
		t.Errorf("unexpected body %v (%v)", body, err)
	}
}

func TestWideEventMiddleware_PropagatesRequestID(t *testing.T) {
	var sawLogger bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = logpkg.FromContext(r.Context()) != nil
		w.WriteHeader(http.StatusTeapot)
	})
	h := chiMiddleware.RequestID(wideEventMiddleware(zap.NewNop())(inner))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if rr.Code != http.StatusTeapot || !sawLogger {
		t.Errorf("status = %d, logger = %v", rr.Code, sawLogger)
	}
}
