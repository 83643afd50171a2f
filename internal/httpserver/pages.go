package httpserver

import (
	_ "embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lokaldigital/site-service/internal/content"
	"github.com/lokaldigital/site-service/internal/i18n"
)

//go:embed pages.tmpl
var pagesTmpl string

func pageTemplates() *template.Template {
	return template.Must(template.New("pages").Parse(pagesTmpl))
}

// pageData feeds the page template. Content carries the full bundle
// document for client-side blocks; bundles are embedded build
// artifacts, so inlining them unescaped is safe.
type pageData struct {
	Locale          string
	AlternateLocale string
	AlternatePath   string
	Page            string
	Meta            content.Meta
	Content         template.JS
}

// registerPageRoutes maps the locale-prefixed site paths onto page
// bundles. Routes are enumerated per locale; the legal pages have
// locale-specific slugs and are registered individually.
func (s *server) registerPageRoutes(r *gin.Engine) {
	r.GET("/", s.rootRedirect)

	for _, loc := range i18n.Locales {
		prefix := "/" + string(loc)
		r.GET(prefix, s.page(loc, "home"))
		r.GET(prefix+"/services", s.page(loc, "services"))
		r.GET(prefix+"/services/:serviceId", s.servicePage(loc))
		r.GET(prefix+"/work", s.page(loc, "work"))
		r.GET(prefix+"/about", s.page(loc, "about"))
		r.GET(prefix+"/contact", s.page(loc, "contact"))
	}

	r.GET("/de/impressum", s.page(i18n.DE, "impressum"))
	r.GET("/de/datenschutz", s.page(i18n.DE, "datenschutz"))
	r.GET("/en/imprint", s.page(i18n.EN, "impressum"))
	r.GET("/en/privacy", s.page(i18n.EN, "datenschutz"))

	r.NoRoute(s.notFound)
}

// rootRedirect resolves the visitor's locale (stored preference, then
// browser languages), persists it, and redirects to the locale home.
// 302 because the target depends on a mutable preference.
func (s *server) rootRedirect(c *gin.Context) {
	stored, _ := c.Cookie(i18n.CookieName)
	loc := i18n.Resolve(stored, c.GetHeader("Accept-Language"))
	c.SetCookie(i18n.CookieName, string(loc), 365*24*3600, "/", "", false, false)
	c.Redirect(http.StatusFound, "/"+string(loc))
}

func (s *server) page(loc i18n.Locale, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.renderPage(c, loc, key)
	}
}

func (s *server) servicePage(loc i18n.Locale) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.renderPage(c, loc, "services/"+c.Param("serviceId"))
	}
}

func (s *server) renderPage(c *gin.Context, loc i18n.Locale, key string) {
	b, err := content.Load(loc, key)
	if err != nil {
		// Unknown service slugs reach here via the :serviceId param.
		if errors.Is(err, content.ErrNotFound) {
			s.notFound(c)
			return
		}
		s.logger.Error("page render failed", "locale", loc, "page", key, "error", err)
		c.HTML(http.StatusInternalServerError, "pageerror", gin.H{"Locale": string(loc)})
		return
	}

	alt := i18n.EN
	if loc == i18n.EN {
		alt = i18n.DE
	}

	c.HTML(http.StatusOK, "page", pageData{
		Locale:          string(loc),
		AlternateLocale: string(alt),
		AlternatePath:   i18n.AlternateRoute(c.Request.URL.Path, alt),
		Page:            key,
		Meta:            b.Meta,
		Content:         template.JS(b.JSON()),
	})
}

func (s *server) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "notfound", gin.H{
		"Locale": string(i18n.FromPath(c.Request.URL.Path)),
	})
}
