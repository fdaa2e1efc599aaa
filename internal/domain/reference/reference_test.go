package reference

import (
	"strings"
	"testing"

	"github.com/imwes/linkfinder/internal/domain"
)

var testProps = domain.PropertyMap{
	"Название":              "p-title",
	"Ссылка на Яндекс диск": "p-url",
}

func TestProject(t *testing.T) {
	tests := []struct {
		name   string
		row    domain.Row
		want   string
		wantOK bool
	}{
		{
			name:   "title and url",
			row:    domain.Row{Title: "Доклад", Properties: map[string]any{"p-url": "https://disk/x"}},
			want:   "[Доклад](https://disk/x)",
			wantOK: true,
		},
		{
			name:   "title only",
			row:    domain.Row{Title: "Доклад"},
			want:   "Доклад",
			wantOK: true,
		},
		{
			name:   "url only",
			row:    domain.Row{Properties: map[string]any{"p-url": "https://disk/x"}},
			want:   "https://disk/x",
			wantOK: true,
		},
		{
			name:   "url object",
			row:    domain.Row{Title: "A", Properties: map[string]any{"p-url": map[string]any{"url": "https://u"}}},
			want:   "[A](https://u)",
			wantOK: true,
		},
		{
			name:   "title from property",
			row:    domain.Row{Properties: map[string]any{"p-title": "Обзор"}},
			want:   "Обзор",
			wantOK: true,
		},
		{
			name:   "non-string title property ignored",
			row:    domain.Row{Properties: map[string]any{"p-title": []any{"x"}}},
			wantOK: false,
		},
		{
			name:   "empty",
			row:    domain.Row{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := Project(tt.row, testProps, DefaultFields())
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && ref.String() != tt.want {
				t.Errorf("String() = %q, want %q", ref.String(), tt.want)
			}
		})
	}
}

func TestProject_MissingPropertyMap(t *testing.T) {
	row := domain.Row{Properties: map[string]any{"p-url": "https://disk/x"}}
	if _, ok := Project(row, domain.PropertyMap{}, DefaultFields()); ok {
		t.Fatal("expected no reference without a property map")
	}
}

func TestEscape(t *testing.T) {
	got := Escape("Отчёт (2024-01), ч. 1")
	want := `Отчёт \(2024\-01\)\, ч\. 1`
	if got != want {
		t.Errorf("Escape = %q, want %q", got, want)
	}
}

func TestProject_EscapesTitleOnly(t *testing.T) {
	row := domain.Row{
		Title:      "a.b,c-(d)",
		Properties: map[string]any{"p-url": "https://disk.yandex.ru/d/a-b(c),d"},
	}
	ref, ok := Project(row, testProps, DefaultFields())
	if !ok {
		t.Fatal("expected reference")
	}
	if ref.Title != `a\.b\,c\-\(d\)` {
		t.Errorf("title = %q", ref.Title)
	}
	if ref.URL != "https://disk.yandex.ru/d/a-b(c),d" {
		t.Errorf("url must stay verbatim, got %q", ref.URL)
	}
	// every reserved char is escaped exactly once
	if strings.Contains(ref.Title, `\\`) {
		t.Errorf("double escape in %q", ref.Title)
	}
}
