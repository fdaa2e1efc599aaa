package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/imwes/linkfinder/internal/domain"
	"github.com/imwes/linkfinder/internal/domain/reference"
	"github.com/imwes/linkfinder/internal/domain/selection"
	"github.com/imwes/linkfinder/internal/repository/catalog"
	"github.com/imwes/linkfinder/internal/repository/rows"
	"github.com/imwes/linkfinder/internal/repository/schema"
	"github.com/imwes/linkfinder/internal/transport/yonote"
)

// fakeYonote serves two month databases; only db1 has tagged rows.
func fakeYonote(t *testing.T, rowRequests map[string]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)

		switch r.URL.Path {
		case "/collections.list":
			_, _ = w.Write([]byte(`{"data":[{"id":"c1","documents":[
				{"id":"root","title":"Мониторинг","children":[
					{"id":"db1","title":"Январь"},
					{"id":"db2","title":"Февраль"}
				]}]}]}`))
		case "/documents.info":
			_, _ = w.Write([]byte(`{"data":{"document":{"id":"x","properties":[
				{"id":"p1","title":"Тема","options":[{"id":"t1","label":"Безопасность"}]},
				{"id":"p2","title":"Ссылка на Яндекс диск"}
			]}}}`))
		case "/database.rows.list":
			id, _ := req["parentDocumentId"].(string)
			rowRequests[id]++
			if id != "db1" {
				_, _ = w.Write([]byte(`{"data":[{"title":"Чужой","properties":{"p1":["t1"]}}]}`))
				return
			}
			_, _ = w.Write([]byte(`{"data":[
				{"title":"Доклад","properties":{"p1":["t1"]}},
				{"title":"Без тегов","properties":{}}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestSearch_EndToEnd(t *testing.T) {
	rowRequests := map[string]int{}
	srv := fakeYonote(t, rowRequests)
	defer srv.Close()

	client := yonote.NewClient(&yonote.Config{BaseURL: srv.URL, Token: "t", Timeout: time.Second})
	svc := New(
		catalog.New(client, "Мониторинг"),
		schema.New(client),
		rows.New(client, 50, reference.DefaultFields()),
	)
	ctx := context.Background()

	cat, err := svc.Catalog(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat["Январь"] != "db1" || cat["Февраль"] != "db2" {
		t.Fatalf("unexpected catalog: %v", cat)
	}

	sel := selection.New()
	sel.Set(domain.MonthCategory, "Январь")
	sel.Set("Тема", "Безопасность")

	refs := svc.Search(ctx, cat, sel)
	if len(refs) != 1 || refs[0].String() != "Доклад" {
		t.Fatalf("expected exactly [Доклад], got %v", refs)
	}
	if rowRequests["db2"] != 0 {
		t.Error("db2 must never be queried for rows")
	}
}
