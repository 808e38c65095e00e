package report

import (
	"fmt"

	"github.com/hopefoundation/hopedash/internal/model"
)

// Builder computes a page from the shared table. Builders are pure: the
// table is never modified and the same inputs give the same page.
type Builder func(t *model.Table, env Env, p Params) (*Page, error)

// Entry is one registered page.
type Entry struct {
	Slug  string
	Title string
	Build Builder
}

// Registry holds the report pages in navigation order.
type Registry struct {
	entries []Entry
	bySlug  map[string]int
}

// NewRegistry returns a registry with every built-in page.
func NewRegistry() *Registry {
	r := &Registry{bySlug: make(map[string]int)}
	r.Register(Entry{Slug: "ready-for-review", Title: "Ready for Review", Build: ReadyForReview})
	r.Register(Entry{Slug: "demographics", Title: "Support by Demographics", Build: Demographics})
	r.Register(Entry{Slug: "time-to-support", Title: "Time to Send Support", Build: TimeToSupport})
	r.Register(Entry{Slug: "unused-grants", Title: "Unused Grants & Averages", Build: UnusedGrants})
	r.Register(Entry{Slug: "impact-summary", Title: "Impact Summary", Build: ImpactSummary})
	return r
}

// Register adds or replaces a page.
func (r *Registry) Register(e Entry) {
	if i, ok := r.bySlug[e.Slug]; ok {
		r.entries[i] = e
		return
	}
	r.bySlug[e.Slug] = len(r.entries)
	r.entries = append(r.entries, e)
}

// Entries returns the pages in navigation order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lookup finds a page by slug.
func (r *Registry) Lookup(slug string) (Entry, bool) {
	i, ok := r.bySlug[slug]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Build computes the page named by slug.
func (r *Registry) Build(slug string, t *model.Table, env Env, p Params) (*Page, error) {
	e, ok := r.Lookup(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPage, slug)
	}
	page, err := e.Build(t, env, p)
	if err != nil {
		return nil, err
	}
	page.Slug = e.Slug
	return page, nil
}
