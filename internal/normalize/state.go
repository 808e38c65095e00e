package normalize

import "strings"

// Unknown is the sentinel bucket for blank or unrecognized categorical values.
const Unknown = "Unknown"

// StateNormalizer maps free-text state names onto two-letter codes.
type StateNormalizer struct {
	aliases map[string]string
	valid   map[string]bool
}

// NewStateNormalizer builds a normalizer from the state tables in l.
func NewStateNormalizer(l Lookups) *StateNormalizer {
	n := &StateNormalizer{
		aliases: copyTable(l.States),
		valid:   make(map[string]bool, len(l.ValidStates)),
	}
	for _, code := range l.ValidStates {
		n.valid[strings.ToUpper(strings.TrimSpace(code))] = true
	}
	return n
}

// Normalize returns a valid code or Unknown. The output is always in the
// valid-code set or equal to Unknown, and Normalize(Normalize(x)) == Normalize(x).
func (n *StateNormalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if code, ok := n.aliases[strings.ToLower(s)]; ok {
		s = code
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if n.valid[s] {
		return s
	}
	return Unknown
}

// Valid reports whether code is in the closed set.
func (n *StateNormalizer) Valid(code string) bool {
	return n.valid[code]
}
