package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hopefoundation/hopedash/internal/chart"
	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

type navItem struct {
	Slug   string
	Title  string
	Active bool
}

type sectionView struct {
	report.Section
	SVG template.HTML
}

type pageView struct {
	Title    string
	Nav      []navItem
	Page     *report.Page
	Sections []sectionView
}

type errorView struct {
	Title   string
	Nav     []navItem
	Message string
}

// DashboardHandler serves the report pages over one shared, read-only table.
type DashboardHandler struct {
	registry *report.Registry
	table    *model.Table
	env      report.Env
	now      func() time.Time
	log      zerolog.Logger

	pageTmpl  *template.Template
	errorTmpl *template.Template
}

// NewDashboardHandler parses the embedded templates. env.Now is replaced on
// every request; a zero env.RefYear means the year of the request.
func NewDashboardHandler(registry *report.Registry, table *model.Table, env report.Env, log zerolog.Logger) (*DashboardHandler, error) {
	pageTmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	errorTmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error template: %w", err)
	}
	return &DashboardHandler{
		registry:  registry,
		table:     table,
		env:       env,
		now:       time.Now,
		log:       log,
		pageTmpl:  pageTmpl,
		errorTmpl: errorTmpl,
	}, nil
}

// RegisterRoutes mounts the HTML pages, the health check and the JSON API on router.
func (h *DashboardHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Index)
	router.GET("/healthz", h.Health)
	router.GET("/pages/:slug", h.PageHTML)

	api := router.Group("/api")
	api.GET("/pages", h.ListPages)
	api.GET("/pages/:slug", h.PageJSON)
}

// Index redirects to the first registered page.
func (h *DashboardHandler) Index(c *gin.Context) {
	entries := h.registry.Entries()
	if len(entries) == 0 {
		c.String(http.StatusNotFound, "no pages registered")
		return
	}
	c.Redirect(http.StatusFound, "/pages/"+entries[0].Slug)
}

// Health reports liveness and the number of loaded rows.
func (h *DashboardHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "rows": h.table.Len()})
}

// ListPages returns the slug and title of every registered page.
func (h *DashboardHandler) ListPages(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, e := range h.registry.Entries() {
		out = append(out, gin.H{"slug": e.Slug, "title": e.Title})
	}
	c.JSON(http.StatusOK, out)
}

// PageJSON builds the page named by :slug and returns it as JSON.
// Query parameters select the window and filters.
func (h *DashboardHandler) PageJSON(c *gin.Context) {
	page, err := h.build(c)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

// PageHTML renders the page named by :slug with its charts inlined as SVG.
// Build errors render the error template with the matching status.
func (h *DashboardHandler) PageHTML(c *gin.Context) {
	slug := c.Param("slug")
	page, err := h.build(c)
	if err != nil {
		status := statusFor(err)
		h.render(c, h.errorTmpl, status, errorView{
			Title:   http.StatusText(status),
			Nav:     h.nav(slug),
			Message: err.Error(),
		})
		return
	}

	view := pageView{Title: page.Title, Nav: h.nav(slug), Page: page}
	for _, s := range page.Sections {
		sv := sectionView{Section: s}
		if s.Chart != nil {
			svg, err := chart.SVG(s.Chart)
			switch {
			case err == nil:
				// go-chart output is generated markup, not user input.
				sv.SVG = template.HTML(svg)
			case !errors.Is(err, chart.ErrNoData):
				h.log.Warn().Err(err).Str("page", slug).Str("chart", s.Chart.Title).Msg("chart render failed")
			}
		}
		view.Sections = append(view.Sections, sv)
	}
	h.render(c, h.pageTmpl, http.StatusOK, view)
}

func (h *DashboardHandler) build(c *gin.Context) (*report.Page, error) {
	now := h.now()
	env := h.env
	env.Now = now
	if env.RefYear == 0 {
		env.RefYear = now.Year()
	}
	return h.registry.Build(c.Param("slug"), h.table, env, report.Params(c.Request.URL.Query()))
}

func (h *DashboardHandler) nav(active string) []navItem {
	var out []navItem
	for _, e := range h.registry.Entries() {
		out = append(out, navItem{Slug: e.Slug, Title: e.Title, Active: e.Slug == active})
	}
	return out
}

func (h *DashboardHandler) render(c *gin.Context, tmpl *template.Template, status int, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := tmpl.ExecuteTemplate(c.Writer, "layout", data); err != nil {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("render template failed")
		if !c.Writer.Written() {
			c.String(http.StatusInternalServerError, "render failure")
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, report.ErrUnknownPage):
		return http.StatusNotFound
	case errors.Is(err, report.ErrInvalidParam):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
