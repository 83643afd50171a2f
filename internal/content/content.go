// Package content loads the locale- and page-scoped copy bundles the
// site is rendered from. Bundles are static JSON artifacts embedded
// into the binary; loading is cheap, so nothing is cached and two
// callers asking for the same pair simply read twice.
package content

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/lokaldigital/site-service/internal/i18n"
)

//go:embed bundles
var bundleFS embed.FS

// ErrNotFound reports that no bundle exists for a (locale, page) pair.
var ErrNotFound = errors.New("content bundle not found")

// Meta is the contract every bundle must satisfy. Missing or empty
// fields are a load error, not a silent nil downstream.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Bundle is one immutable, validated content document.
type Bundle struct {
	Locale i18n.Locale
	Page   string
	Meta   Meta

	raw      json.RawMessage
	sections map[string]json.RawMessage
}

// JSON returns the bundle document as served to clients.
func (b Bundle) JSON() json.RawMessage {
	return b.raw
}

// Section returns one top-level section of the document.
func (b Bundle) Section(name string) (json.RawMessage, bool) {
	raw, ok := b.sections[name]
	return raw, ok
}

// Load reads and validates the bundle for the given locale and page
// key. Per-service pages use keys like "services/website".
func Load(locale i18n.Locale, page string) (Bundle, error) {
	if !validPageKey(page) {
		return Bundle{}, fmt.Errorf("%w: %s/%s", ErrNotFound, locale, page)
	}

	raw, err := bundleFS.ReadFile(fmt.Sprintf("bundles/%s/%s.json", locale, page))
	if err != nil {
		return Bundle{}, fmt.Errorf("%w: %s/%s", ErrNotFound, locale, page)
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sections); err != nil {
		return Bundle{}, fmt.Errorf("parse bundle %s/%s: %w", locale, page, err)
	}

	metaRaw, ok := sections["meta"]
	if !ok {
		return Bundle{}, fmt.Errorf("bundle %s/%s: missing meta", locale, page)
	}
	var meta Meta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return Bundle{}, fmt.Errorf("bundle %s/%s: invalid meta: %w", locale, page, err)
	}
	if meta.Title == "" || meta.Description == "" {
		return Bundle{}, fmt.Errorf("bundle %s/%s: meta.title and meta.description are required", locale, page)
	}

	return Bundle{
		Locale:   locale,
		Page:     page,
		Meta:     meta,
		raw:      raw,
		sections: sections,
	}, nil
}

// Pages lists every page key available for a locale.
func Pages(locale i18n.Locale) ([]string, error) {
	root := "bundles/" + string(locale)
	var pages []string
	err := fs.WalkDir(bundleFS, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		page := strings.TrimSuffix(strings.TrimPrefix(path, root+"/"), ".json")
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list bundles for %s: %w", locale, err)
	}
	return pages, nil
}

// validPageKey rejects anything that could escape the bundle tree.
// Keys are lowercase slugs with at most one path separator.
func validPageKey(page string) bool {
	if page == "" || strings.Count(page, "/") > 1 {
		return false
	}
	for _, seg := range strings.Split(page, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
		for _, r := range seg {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
				return false
			}
		}
	}
	return true
}
