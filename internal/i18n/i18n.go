// Package i18n provides message catalogs and locale aware formatting for the
// sharing and booking texts.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every lookup falls back to.
const BaseLocale = "en"

type catalogFile struct {
	Locale         string            `yaml:"locale"`
	DateLayout     string            `yaml:"date_layout"`
	CurrencyFormat string            `yaml:"currency_format"`
	Messages       map[string]string `yaml:"messages"`
}

//go:embed locales/*.yaml
var embeddedCatalogFS embed.FS

// Bundle holds the catalogs of all known locales.
type Bundle struct {
	catalogs map[string]*catalogFile
	tags     []language.Tag
	matcher  language.Matcher
}

// LoadEmbedded loads the catalogs shipped with this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedCatalogFS)
}

// LoadFromFS loads locales/*.yaml from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	sort.Strings(paths)

	b := &Bundle{catalogs: map[string]*catalogFile{}}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		locale := strings.TrimSpace(file.Locale)
		if locale == "" {
			return nil, fmt.Errorf("catalog %s: locale is required", path)
		}
		if _, exists := b.catalogs[locale]; exists {
			return nil, fmt.Errorf("catalog %s: locale %q already defined", path, locale)
		}
		if len(file.Messages) == 0 {
			return nil, fmt.Errorf("catalog %s: messages are required", path)
		}
		b.catalogs[locale] = &file
	}

	base, ok := b.catalogs[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// The base locale goes first so the matcher falls back to it.
	b.tags = []language.Tag{language.Make(base.Locale)}
	for _, locale := range b.Locales() {
		if locale != BaseLocale {
			b.tags = append(b.tags, language.Make(locale))
		}
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

// Locales returns the sorted locale identifiers of the bundle.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.catalogs))
	for locale := range b.catalogs {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translator returns a translator for the supported locale closest to the
// requested one, e.g. "de-AT" yields "de".
func (b *Bundle) Translator(locale string) *Translator {
	_, index, _ := b.matcher.Match(language.Make(locale))
	tag := b.tags[index]
	base, _ := tag.Base()

	catalog, ok := b.catalogs[base.String()]
	if !ok {
		catalog = b.catalogs[BaseLocale]
	}
	return &Translator{
		catalog: catalog,
		base:    b.catalogs[BaseLocale],
		printer: message.NewPrinter(tag),
	}
}

// Translator resolves message keys of one locale.
type Translator struct {
	catalog *catalogFile
	base    *catalogFile
	printer *message.Printer
}

// Locale returns the locale messages are resolved in.
func (t *Translator) Locale() string {
	return t.catalog.Locale
}

// Get returns the message for key with every {name} placeholder replaced by
// params[name]. Missing keys fall back to the base locale and then to the key
// itself.
func (t *Translator) Get(key string, params map[string]any) string {
	msg, ok := t.catalog.Messages[key]
	if !ok {
		msg, ok = t.base.Messages[key]
	}
	if !ok {
		slog.Warn("missing translation", "key", key, "locale", t.catalog.Locale)
		msg = key
	}
	for name, value := range params {
		msg = strings.ReplaceAll(msg, "{"+name+"}", fmt.Sprint(value))
	}
	return msg
}

// FormatPrice renders an amount with two decimals in the locale's currency
// format.
func (t *Translator) FormatPrice(value float64) string {
	amount := t.printer.Sprintf("%.2f", value)
	format := t.catalog.CurrencyFormat
	if format == "" {
		format = t.base.CurrencyFormat
	}
	return strings.ReplaceAll(format, "{amount}", amount)
}

// FormatDate renders a date in the locale's layout.
func (t *Translator) FormatDate(d time.Time) string {
	layout := t.catalog.DateLayout
	if layout == "" {
		layout = t.base.DateLayout
	}
	return d.Format(layout)
}
