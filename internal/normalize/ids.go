package normalize

import "strings"

// CanonicalID trims a patient identifier and drops the ".0" suffix that
// spreadsheet round-trips add to integer ids, so "1042" and "1042.0" match.
func CanonicalID(id string) string {
	id = strings.TrimSpace(id)
	if i := strings.IndexByte(id, '.'); i > 0 && strings.Trim(id[i+1:], "0") == "" {
		id = id[:i]
	}
	return strings.ToUpper(id)
}
