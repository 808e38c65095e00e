package normalize

import "testing"

func TestInsuranceNormalizer_Synonyms(t *testing.T) {
	l := DefaultLookups()
	n := NewCategoryNormalizer(l.Insurance)

	for raw, want := range l.Insurance {
		if got := n.Normalize(raw); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}

	cases := map[string]string{
		"  UNISURED ":         "Uninsured",
		"Uninsurred":          "Uninsured",
		"medicaid & medicare": "Medicare & Medicaid",
		"Medicare & Medicaid": "Medicare & Medicaid",
		"MEDICARE":            "Medicare",
		"blue cross":          "Blue Cross",
		"":                    Unknown,
		"nan":                 Unknown,
		"   ":                 Unknown,
		"private   insurance": "Private",
	}
	for in, want := range cases {
		if got := n.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCategoryNormalizer_Idempotent(t *testing.T) {
	l := DefaultLookups()
	for name, table := range map[string]map[string]string{
		"gender":    l.Gender,
		"insurance": l.Insurance,
	} {
		n := NewCategoryNormalizer(table)
		inputs := []string{"", "unknown", "Some Other Plan", "va", "F", "woman", "tricare"}
		for raw := range table {
			inputs = append(inputs, raw)
		}
		for _, in := range inputs {
			once := n.Normalize(in)
			if twice := n.Normalize(once); twice != once {
				t.Errorf("%s: Normalize(%q) = %q, then %q", name, in, once, twice)
			}
		}
	}
}

func TestGenderNormalizer(t *testing.T) {
	n := NewCategoryNormalizer(DefaultLookups().Gender)
	cases := map[string]string{
		"female": "Female",
		"F":      "Female",
		" MALE ": "Male",
		"m":      "Male",
		"":       Unknown,
	}
	for in, want := range cases {
		if got := n.Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLookupsMerge(t *testing.T) {
	base := DefaultLookups()
	merged := base.Merge(Lookups{
		Version:   "2025.2",
		Insurance: map[string]string{"  Medcaid ": "Medicaid"},
	})
	if merged.Version != "2025.2" {
		t.Errorf("version: got %q", merged.Version)
	}
	if merged.Insurance["medcaid"] != "Medicaid" {
		t.Errorf("override not keyed case-insensitively: %v", merged.Insurance["medcaid"])
	}
	if _, ok := base.Insurance["medcaid"]; ok {
		t.Error("Merge mutated the receiver's table")
	}
	if len(merged.ValidStates) != len(base.ValidStates) {
		t.Errorf("empty override should keep valid states, got %d", len(merged.ValidStates))
	}
}
