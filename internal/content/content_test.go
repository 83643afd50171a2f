package content

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lokaldigital/site-service/internal/i18n"
)

func TestLoad_KnownBundle(t *testing.T) {
	b, err := Load(i18n.DE, "home")
	require.NoError(t, err)
	require.Equal(t, i18n.DE, b.Locale)
	require.Equal(t, "home", b.Page)
	require.NotEmpty(t, b.Meta.Title)
	require.NotEmpty(t, b.Meta.Description)

	hero, ok := b.Section("hero")
	require.True(t, ok)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(hero, &fields))
	require.NotEmpty(t, fields["headline"])
}

func TestLoad_ServiceSlug(t *testing.T) {
	b, err := Load(i18n.EN, "services/website")
	require.NoError(t, err)
	require.Equal(t, "Website creation", b.Meta.Title)
}

func TestLoad_UnknownBundle(t *testing.T) {
	for _, page := range []string{"pricing", "services/crypto", "", "../schema", "services/a/b"} {
		_, err := Load(i18n.EN, page)
		require.ErrorIs(t, err, ErrNotFound, "page %q", page)
	}
}

// Both locales must ship the same page set, and every bundle must pass
// validation; a bad bundle should fail here, not in production.
func TestAllBundlesValidate(t *testing.T) {
	dePages, err := Pages(i18n.DE)
	require.NoError(t, err)
	enPages, err := Pages(i18n.EN)
	require.NoError(t, err)
	require.NotEmpty(t, dePages)
	require.ElementsMatch(t, dePages, enPages)

	for _, loc := range i18n.Locales {
		for _, page := range dePages {
			b, err := Load(loc, page)
			require.NoError(t, err, "%s/%s", loc, page)
			require.NotEmpty(t, b.JSON())
		}
	}
}
