// Package catalog loads the embedded locale message catalogs and serves them
// through golang.org/x/text/message printers.
//
// Catalogs live in locales/<locale>/<namespace>.yaml. Every locale must define
// every key of the base locale; keys prefixed with "core." belong to the core
// namespace.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	xcatalog "golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

const coreNamespace = "core"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

type localeCatalog struct {
	namespaces map[string]map[string]string
	messages   map[string]string
}

// Bundle holds every loaded locale and the x/text catalog built from them.
type Bundle struct {
	locales map[string]*localeCatalog
	builder *xcatalog.Builder
}

//go:embed locales/*/*.yaml
var embeddedCatalogFS embed.FS

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded catalog bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads catalog files embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads and validates catalog files from catalogFS.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, errors.New("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]*localeCatalog{}}
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		file, err := parseCatalogFile(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.add(p, file); err != nil {
			return nil, err
		}
	}

	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	for _, locale := range bundle.Locales() {
		if missing := bundle.Missing(locale); len(missing) > 0 {
			return nil, fmt.Errorf("locale %s is missing keys: %s", locale, strings.Join(missing, ", "))
		}
	}
	if err := bundle.build(); err != nil {
		return nil, err
	}
	return bundle, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	if dir := path.Base(path.Dir(p)); locale != dir {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, dir)
	}
	namespace := strings.TrimSpace(file.Namespace)
	if name := strings.TrimSuffix(path.Base(p), path.Ext(p)); namespace != name {
		return fmt.Errorf("catalog %s: namespace %q must match filename namespace %q", p, namespace, name)
	}

	lc, ok := b.locales[locale]
	if !ok {
		lc = &localeCatalog{
			namespaces: map[string]map[string]string{},
			messages:   map[string]string{},
		}
		b.locales[locale] = lc
	}

	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		switch {
		case key == "":
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		case strings.HasPrefix(key, coreNamespace+".") && namespace != coreNamespace:
			return fmt.Errorf("catalog %s: key %q must be defined in core namespace", p, key)
		}
		if _, exists := lc.messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", p, key, locale)
		}
		lc.messages[key] = value
		messages[key] = value
	}
	lc.namespaces[namespace] = messages
	return nil
}

// build registers every message with a private x/text catalog. Locales fall
// back to the base locale for any key they lack.
func (b *Bundle) build() error {
	b.builder = xcatalog.NewBuilder(xcatalog.Fallback(language.MustParse(BaseLocale)))
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, confidence := tag.Base(); confidence != language.No {
			if baseTag := language.Make(base.String()); baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		for key, value := range b.locales[locale].messages {
			for _, t := range tags {
				if err := b.builder.SetString(t, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether the locale exists in this bundle.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns all available locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Missing lists, sorted, the base-locale keys that locale does not define.
func (b *Bundle) Missing(locale string) []string {
	if b == nil {
		return nil
	}
	base, ok := b.locales[BaseLocale]
	if !ok {
		return nil
	}
	var have map[string]string
	if lc, ok := b.locales[strings.TrimSpace(locale)]; ok {
		have = lc.messages
	}
	var missing []string
	for key := range base.messages {
		if _, ok := have[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

// NamespaceMessages returns a copy of one namespace for a locale, or an empty
// map when either is unknown.
func (b *Bundle) NamespaceMessages(locale string, namespace string) map[string]string {
	out := map[string]string{}
	if b == nil {
		return out
	}
	lc, ok := b.locales[strings.TrimSpace(locale)]
	if !ok {
		return out
	}
	for key, value := range lc.namespaces[strings.TrimSpace(namespace)] {
		out[key] = value
	}
	return out
}

// Match resolves a requested locale to the closest locale in this bundle.
// Unknown or malformed locales resolve to the base locale.
func (b *Bundle) Match(locale string) language.Tag {
	tags := []language.Tag{language.MustParse(BaseLocale)}
	for _, available := range b.Locales() {
		if available == BaseLocale {
			continue
		}
		if tag, err := language.Parse(available); err == nil {
			tags = append(tags, tag)
		}
	}
	requested, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return tags[0]
	}
	_, index, confidence := language.NewMatcher(tags).Match(requested)
	if confidence == language.No {
		return tags[0]
	}
	return tags[index]
}

// Printer returns a message printer for the closest supported locale. Keys
// are used as format strings; unknown keys print as themselves.
func (b *Bundle) Printer(locale string) *message.Printer {
	return message.NewPrinter(b.Match(locale), message.Catalog(b.builder))
}

func mustLoadEmbedded() *Bundle {
	bundle, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return bundle
}

func parseCatalogFile(data []byte) (catalogFile, error) {
	var out catalogFile
	if err := yaml.Unmarshal(data, &out); err != nil {
		return catalogFile{}, fmt.Errorf("decode yaml: %w", err)
	}
	switch {
	case strings.TrimSpace(out.Locale) == "":
		return catalogFile{}, errors.New("missing locale")
	case strings.TrimSpace(out.Namespace) == "":
		return catalogFile{}, errors.New("missing namespace")
	case len(out.Messages) == 0:
		return catalogFile{}, errors.New("missing messages")
	}
	return out, nil
}
