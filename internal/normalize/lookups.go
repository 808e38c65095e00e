package normalize

import "strings"

// LookupsVersion identifies the built-in synonym tables. Bump it whenever an
// entry is added or changed so exported snapshots can be traced to a table.
const LookupsVersion = "2025.1"

// Lookups holds the raw-token → canonical-label tables used by the field
// normalizers. Keys are matched case-insensitively after trimming.
type Lookups struct {
	Version     string            `yaml:"version"`
	States      map[string]string `yaml:"states"`
	ValidStates []string          `yaml:"valid_states"`
	Gender      map[string]string `yaml:"gender"`
	Insurance   map[string]string `yaml:"insurance"`
	Assistance  map[string]string `yaml:"assistance"`
}

// DefaultLookups returns a fresh copy of the built-in tables.
func DefaultLookups() Lookups {
	return Lookups{
		Version:     LookupsVersion,
		States:      copyTable(defaultStateAliases),
		ValidStates: append([]string(nil), defaultValidStates...),
		Gender:      copyTable(defaultGender),
		Insurance:   copyTable(defaultInsurance),
		Assistance:  map[string]string{},
	}
}

// Merge overlays o on top of l. Table entries in o win; a non-empty
// ValidStates list in o replaces l's list.
func (l Lookups) Merge(o Lookups) Lookups {
	out := Lookups{
		Version:     l.Version,
		States:      copyTable(l.States),
		ValidStates: append([]string(nil), l.ValidStates...),
		Gender:      copyTable(l.Gender),
		Insurance:   copyTable(l.Insurance),
		Assistance:  copyTable(l.Assistance),
	}
	if o.Version != "" {
		out.Version = o.Version
	}
	if len(o.ValidStates) > 0 {
		out.ValidStates = append([]string(nil), o.ValidStates...)
	}
	mergeInto(out.States, o.States)
	mergeInto(out.Gender, o.Gender)
	mergeInto(out.Insurance, o.Insurance)
	mergeInto(out.Assistance, o.Assistance)
	return out
}

func copyTable(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	mergeInto(out, m)
	return out
}

func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		dst[strings.ToLower(strings.TrimSpace(k))] = v
	}
}

var defaultValidStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "DC", "FL",
	"GA", "HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME",
	"MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH",
	"NJ", "NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI",
	"SC", "SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

var defaultStateAliases = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"district of columbia": "DC", "florida": "FL", "georgia": "GA", "hawaii": "HI",
	"idaho": "ID", "illinois": "IL", "indiana": "IN", "iowa": "IA",
	"kansas": "KS", "kentucky": "KY", "louisiana": "LA", "maine": "ME",
	"maryland": "MD", "massachusetts": "MA", "michigan": "MI", "minnesota": "MN",
	"mississippi": "MS", "missouri": "MO", "montana": "MT", "nebraska": "NE",
	"nevada": "NV", "new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM",
	"new york": "NY", "north carolina": "NC", "north dakota": "ND", "ohio": "OH",
	"oklahoma": "OK", "oregon": "OR", "pennsylvania": "PA", "rhode island": "RI",
	"south carolina": "SC", "south dakota": "SD", "tennessee": "TN", "texas": "TX",
	"utah": "UT", "vermont": "VT", "virginia": "VA", "washington": "WA",
	"west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
	"neb": "NE", "neb.": "NE", "nebr": "NE", "nebr.": "NE", "nebraksa": "NE",
	"ia.": "IA", "kan": "KS", "kan.": "KS", "mo.": "MO", "s. dakota": "SD",
	"s dakota": "SD", "colo": "CO", "colo.": "CO", "minn": "MN", "minn.": "MN",
}

var defaultGender = map[string]string{
	"m":           "Male",
	"man":         "Male",
	"f":           "Female",
	"woman":       "Female",
	"femal":       "Female",
	"non binary":  "Non-Binary",
	"nonbinary":   "Non-Binary",
	"non-binary":  "Non-Binary",
	"transgender": "Transgender",
}

var defaultInsurance = map[string]string{
	"unisured":              "Uninsured",
	"uninsurred":            "Uninsured",
	"uninsured.":            "Uninsured",
	"un-insured":            "Uninsured",
	"not insured":           "Uninsured",
	"no insurance":          "Uninsured",
	"none":                  "Uninsured",
	"medicare & medicaid":   "Medicare & Medicaid",
	"medicaid & medicare":   "Medicare & Medicaid",
	"medicare/medicaid":     "Medicare & Medicaid",
	"medicaid/medicare":     "Medicare & Medicaid",
	"medicare and medicaid": "Medicare & Medicaid",
	"medicaid and medicare": "Medicare & Medicaid",
	"medicaire":             "Medicare",
	"medicade":              "Medicaid",
	"medicaid.":             "Medicaid",
	"private insurance":     "Private",
	"commercial":            "Private",
	"employer":              "Private",
	"heathcare.gov":         "Healthcare.gov",
	"healthcare.gov":        "Healthcare.gov",
	"marketplace":           "Healthcare.gov",
	"aca marketplace":       "Healthcare.gov",
	"tricare":               "Military",
	"va":                    "Military",
	"military":              "Military",
}
