package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategoryNormalizer title-cases free text and collapses known variants onto
// canonical labels. It backs the gender, insurance and assistance columns.
type CategoryNormalizer struct {
	synonyms map[string]string
}

// NewCategoryNormalizer builds a normalizer from a raw-token → label table.
// Every canonical label is also registered as its own synonym so that
// normalizing an already-normalized value is a no-op.
func NewCategoryNormalizer(table map[string]string) *CategoryNormalizer {
	n := &CategoryNormalizer{synonyms: copyTable(table)}
	for _, label := range table {
		n.synonyms[strings.ToLower(label)] = label
		n.synonyms[strings.ToLower(TitleCase(label))] = label
	}
	return n
}

// Normalize maps raw onto a canonical label, a title-cased passthrough, or Unknown.
func (n *CategoryNormalizer) Normalize(raw string) string {
	if IsBlank(raw) {
		return Unknown
	}
	s := TitleCase(strings.TrimSpace(raw))
	if label, ok := n.synonyms[strings.ToLower(s)]; ok {
		return label
	}
	if s == "" {
		return Unknown
	}
	return s
}

// TitleCase upper-cases the first letter of each word and lower-cases the rest.
func TitleCase(s string) string {
	// cases.Caser is stateful; build one per call.
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

// Normalizers bundles every field normalizer built from one set of tables.
type Normalizers struct {
	State      *StateNormalizer
	Gender     *CategoryNormalizer
	Insurance  *CategoryNormalizer
	Assistance *CategoryNormalizer
}

// New builds all normalizers from l.
func New(l Lookups) *Normalizers {
	return &Normalizers{
		State:      NewStateNormalizer(l),
		Gender:     NewCategoryNormalizer(l.Gender),
		Insurance:  NewCategoryNormalizer(l.Insurance),
		Assistance: NewCategoryNormalizer(l.Assistance),
	}
}
