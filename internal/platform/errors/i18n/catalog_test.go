package i18n

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/louisbranch/dicetray/internal/platform/errors"
)

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	for _, locale := range []string{"", "missing-locale", "fr-FR"} {
		if got := GetCatalog(locale); got != base {
			t.Fatalf("GetCatalog(%q) = %q, expected en-US catalog", locale, got.Locale())
		}
	}
}

func TestGetCatalogMatchesRegion(t *testing.T) {
	if got := GetCatalog("pt").Locale(); got != "pt-BR" {
		t.Fatalf("expected pt to resolve to pt-BR, got %q", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[apperrors.Code]string{
		"code": "hello {{.Name}}",
	})

	if got := cat.Format("unknown", nil); got != "unknown" {
		t.Fatalf("expected code fallback when template missing, got %q", got)
	}
	if got := cat.Format("code", nil); got != "hello " {
		t.Fatalf("expected missing metadata to render empty, got %q", got)
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[apperrors.Code]string{
		"code": "{{ if .Name }}",
	})
	if got := cat.Format("code", map[string]string{"Name": "X"}); got != "{{ if .Name }}" {
		t.Fatalf("expected template fallback on parse error, got %q", got)
	}
}

func TestFormatTemplateExecutionErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[apperrors.Code]string{
		"code": "{{ call .Name }}",
	})
	if got := cat.Format("code", map[string]string{"Name": "X"}); got != "{{ call .Name }}" {
		t.Fatalf("expected template fallback on execute error, got %q", got)
	}
}

func TestGetCatalogCachesByResolvedLocale(t *testing.T) {
	if GetCatalog("pt") != GetCatalog("pt-BR") {
		t.Fatal("expected pt and pt-BR to share one cached catalog")
	}
	if _, ok := lookupCatalog("pt-BR"); !ok {
		t.Fatal("expected pt-BR catalog to be cached")
	}
}

func TestBaseCatalogFormatsDiceErrors(t *testing.T) {
	cat := GetCatalog("en-US")

	got := cat.Format(apperrors.CodeDiceInvalidSides, map[string]string{"Sides": "1"})
	if got != "A die needs a finite number of at least 2 sides, got 1" {
		t.Fatalf("unexpected invalid sides message: %q", got)
	}
	got = cat.Format(apperrors.CodeDieIndexOutOfRange, map[string]string{"Position": "3"})
	if got != "There is no die at position 3" {
		t.Fatalf("unexpected index message: %q", got)
	}
}

func TestLocalizedCatalogFormatsDiceErrors(t *testing.T) {
	cat := GetCatalog("pt-BR")
	if cat.Locale() != "pt-BR" {
		t.Fatalf("expected pt-BR catalog, got %q", cat.Locale())
	}
	if got := cat.Format(apperrors.CodeEntropyUnavailable, nil); got != "A fonte aleatória segura está indisponível" {
		t.Fatalf("unexpected entropy message: %q", got)
	}
}

func TestMessage(t *testing.T) {
	cat := GetCatalog("en-US")
	wrapped := fmt.Errorf("add: %w", apperrors.WithMetadata(apperrors.CodeOptionUnknown, "unknown display option", map[string]string{
		"Option": "colour",
	}))

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain", err: errors.New("disk on fire"), want: "disk on fire"},
		{name: "wrapped domain", err: wrapped, want: "Unknown option colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cat.Message(tt.err); got != tt.want {
				t.Fatalf("Message = %q, want %q", got, tt.want)
			}
		})
	}
}
