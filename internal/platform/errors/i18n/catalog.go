// Package i18n renders domain errors as localized, user-facing messages.
package i18n

import (
	"bytes"
	"sync"
	"text/template"

	apperrors "github.com/louisbranch/dicetray/internal/platform/errors"
	i18ncatalog "github.com/louisbranch/dicetray/internal/platform/i18n/catalog"
)

const errorsNamespace = "errors"

// Catalog maps error codes to message templates for one locale.
type Catalog struct {
	locale    string
	raw       map[apperrors.Code]string
	templates map[apperrors.Code]*template.Template
}

var (
	catalogsMu sync.RWMutex
	// catalogs caches catalogs by resolved locale.
	catalogs = map[string]*Catalog{}
)

// GetCatalog returns the catalog for the supported locale closest to locale.
// Unknown locales get the base (en-US) catalog.
func GetCatalog(locale string) *Catalog {
	bundle := i18ncatalog.Default()
	resolved := bundle.Match(locale).String()
	if c, ok := lookupCatalog(resolved); ok {
		return c
	}

	messages := bundle.NamespaceMessages(resolved, errorsNamespace)
	if len(messages) == 0 {
		messages = bundle.NamespaceMessages(i18ncatalog.BaseLocale, errorsNamespace)
	}
	codes := make(map[apperrors.Code]string, len(enUSMessages))
	for code, text := range enUSMessages {
		codes[code] = text
	}
	for key, text := range messages {
		codes[apperrors.Code(key)] = text
	}
	return storeCatalogIfAbsent(resolved, NewCatalog(resolved, codes))
}

// NewCatalog builds a catalog. Templates are parsed up front; a template that
// does not parse is rendered verbatim.
func NewCatalog(locale string, messages map[apperrors.Code]string) *Catalog {
	c := &Catalog{
		locale:    locale,
		raw:       make(map[apperrors.Code]string, len(messages)),
		templates: make(map[apperrors.Code]*template.Template, len(messages)),
	}
	for code, text := range messages {
		c.raw[code] = text
		tmpl, err := template.New(string(code)).Option("missingkey=zero").Parse(text)
		if err != nil {
			continue
		}
		c.templates[code] = tmpl
	}
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the template for code with metadata. Unknown codes render as
// the code itself; templates that fail to execute render as their source.
// Missing metadata renders as empty text.
func (c *Catalog) Format(code apperrors.Code, metadata map[string]string) string {
	raw, ok := c.raw[code]
	if !ok {
		return string(code)
	}
	tmpl, ok := c.templates[code]
	if !ok {
		return raw
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, metadata); err != nil {
		return raw
	}
	return buf.String()
}

// Message renders err for users. Errors without a domain code fall back to
// their own text.
func (c *Catalog) Message(err error) string {
	if err == nil {
		return ""
	}
	domainErr, ok := apperrors.As(err)
	if !ok {
		return err.Error()
	}
	return c.Format(domainErr.Code, domainErr.Metadata)
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

func storeCatalogIfAbsent(locale string, candidate *Catalog) *Catalog {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[locale]; ok {
		return existing
	}
	catalogs[locale] = candidate
	return candidate
}
