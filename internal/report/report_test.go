package report

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

func fixture() *model.Table {
	return model.NewTable(model.Columns(), []model.Record{
		{PatientID: "1", RequestStatus: "Pending", ApplicationSigned: "Yes", State: "NE", Gender: "female", DOB: "1990-05-01",
			HouseholdIncome: "2000", HouseholdSize: "2", InsuranceType: "medicare", GrantRequestDate: "2024-01-01",
			PaymentSubmitted: "2024-01-10", RemainingBalance: "50", AppYear: "2024", AssistanceType: "medical supplies", Amount: "100"},
		{PatientID: "2", RequestStatus: "pending", ApplicationSigned: "No", State: "Iowa", Gender: "m", DOB: "2010-01-01",
			HouseholdIncome: "900", HouseholdSize: "3", GrantRequestDate: "2024-03-01",
			PaymentSubmitted: "Yes", RemainingBalance: "0", AppYear: "2024", AssistanceType: "Gas", Amount: "200"},
		{PatientID: "3", RequestStatus: "Approved", ApplicationSigned: "Yes", State: "ne", Gender: "F",
			HouseholdSize: "0", InsuranceType: "none", GrantRequestDate: "2023-06-15",
			PaymentSubmitted: "2023-06-20", RemainingBalance: "25.5", AppYear: "2023", AssistanceType: "Medical Supplies", Amount: "abc"},
		{PatientID: "1.0", RequestStatus: "Pending", State: "XX", DOB: "1950-01-01",
			HouseholdIncome: "5000", HouseholdSize: "1", InsuranceType: "Medicaid", GrantRequestDate: "2024-02-01",
			PaymentSubmitted: "2024-01-15", AppYear: "2024", AssistanceType: "gas", Amount: "50"},
	})
}

func testEnv() Env {
	return Env{
		RefYear:      2024,
		Now:          time.Date(2024, 6, 30, 15, 0, 0, 0, time.UTC),
		Anchor:       time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC),
		IncomePolicy: derive.ExcludeInvalidHousehold,
		Normalizers:  normalize.New(normalize.DefaultLookups()),
	}
}

func metric(t *testing.T, p *Page, label string) string {
	t.Helper()
	for _, m := range p.Metrics {
		if m.Label == label {
			return m.Value
		}
	}
	t.Fatalf("metric %q not found in %+v", label, p.Metrics)
	return ""
}

func column(tbl *Table, idx int) []string {
	out := make([]string, len(tbl.Rows))
	for i, r := range tbl.Rows {
		out[i] = r[idx]
	}
	return out
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	var slugs []string
	for _, e := range r.Entries() {
		slugs = append(slugs, e.Slug)
	}
	want := []string{"ready-for-review", "demographics", "time-to-support", "unused-grants", "impact-summary"}
	if diff := cmp.Diff(want, slugs); diff != "" {
		t.Errorf("slugs (-want +got):\n%s", diff)
	}

	if _, err := r.Build("nope", fixture(), testEnv(), nil); !errors.Is(err, ErrUnknownPage) {
		t.Errorf("unknown slug: got %v", err)
	}

	tbl := fixture()
	before := tbl.Records()
	for _, e := range r.Entries() {
		p, err := r.Build(e.Slug, tbl, testEnv(), nil)
		if err != nil {
			t.Fatalf("%s: %v", e.Slug, err)
		}
		if p.Slug != e.Slug {
			t.Errorf("slug: got %q, want %q", p.Slug, e.Slug)
		}
	}
	if diff := cmp.Diff(before, tbl.Records()); diff != "" {
		t.Errorf("table mutated by page builders:\n%s", diff)
	}
}

func TestReadyForReview(t *testing.T) {
	p, err := ReadyForReview(fixture(), testEnv(), nil)
	if err != nil {
		t.Fatal(err)
	}
	list := p.Sections[0].Table
	if diff := cmp.Diff([]string{"1", "1.0", "2"}, column(list, 0)); diff != "" {
		t.Errorf("patients (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Yes", "Missing", "No"}, column(list, 5)); diff != "" {
		t.Errorf("signed (-want +got):\n%s", diff)
	}
	if got := list.Rows[1][2]; got != "Unknown" {
		t.Errorf("state of invalid code: got %q", got)
	}

	p, err = ReadyForReview(fixture(), testEnv(), Params{"signed": {"yes"}, "status": {"pending"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(p.Sections[0].Table.Rows); got != 1 {
		t.Errorf("signed=yes: got %d rows, want 1", got)
	}

	p, err = ReadyForReview(fixture(), testEnv(), Params{"status": {"Approved,Pending"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := metric(t, p, "Applications"); got != "4" {
		t.Errorf("all statuses: got %s", got)
	}

	if _, err := ReadyForReview(fixture(), testEnv(), Params{"signed": {"perhaps"}}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("bad signed value: got %v", err)
	}
}

func TestDemographicsState(t *testing.T) {
	p, err := Demographics(fixture(), testEnv(), Params{"category": {"state"}})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"IA", "$200.00", "1"},
		{"NE", "$100.00", "2"},
		{"Unknown", "$50.00", "1"},
	}
	if diff := cmp.Diff(want, p.Sections[0].Table.Rows); diff != "" {
		t.Errorf("rows (-want +got):\n%s", diff)
	}
	if got := len(p.Sections[0].Chart.Bars); got != 3 {
		t.Errorf("bars: got %d", got)
	}
}

func TestDemographicsBandOrder(t *testing.T) {
	p, err := Demographics(fixture(), testEnv(), Params{"category": {"age"}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"0–17", "18–34", "65+"}, column(p.Sections[0].Table, 0)); diff != "" {
		t.Errorf("age keys (-want +got):\n%s", diff)
	}

	p, err = Demographics(fixture(), testEnv(), Params{"category": {"income"}})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"<$500", "$1000–1499", "$3000+"}, column(p.Sections[0].Table, 0)); diff != "" {
		t.Errorf("income keys (-want +got):\n%s", diff)
	}

	env := testEnv()
	env.IncomePolicy = derive.BucketUnknown
	if _, err := Demographics(fixture(), env, Params{"category": {"income"}}); err != nil {
		t.Errorf("unknown policy: %v", err)
	}

	if _, err := Demographics(fixture(), testEnv(), Params{"category": {"zodiac"}}); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("bad category: got %v", err)
	}
}

func TestTimeToSupport(t *testing.T) {
	p, err := TimeToSupport(fixture(), testEnv(), nil)
	if err != nil {
		t.Fatal(err)
	}
	checks := map[string]string{
		"Sample size (excluding No & Yes)": "2",
		"Mean days":                        "7.0",
		"Median days":                      "7.0",
		"Fastest (days)":                   "5",
		"Slowest (days)":                   "9",
	}
	for label, want := range checks {
		if got := metric(t, p, label); got != want {
			t.Errorf("%s: got %s, want %s", label, got, want)
		}
	}
	if diff := cmp.Diff([]string{"1 week", "2 weeks"}, column(p.Sections[1].Table, 0)); diff != "" {
		t.Errorf("histogram (-want +got):\n%s", diff)
	}

	p, err = TimeToSupport(fixture(), testEnv(), Params{"assistance": {"gas"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := metric(t, p, "Sample size (excluding No & Yes)"); got != "0" {
		t.Errorf("gas samples: got %s", got)
	}
	if got := metric(t, p, "Mean days"); got != "0.0" {
		t.Errorf("gas mean: got %s", got)
	}
}

func TestWeekLabel(t *testing.T) {
	cases := map[int]string{1: "1 week", 7: "1 week", 8: "2 weeks", 56: "8 weeks", 57: "9+ weeks", 400: "9+ weeks"}
	for d, want := range cases {
		if got := weekLabel(d); got != want {
			t.Errorf("weekLabel(%d) = %q, want %q", d, got, want)
		}
	}
}

func TestUnusedGrants(t *testing.T) {
	p, err := UnusedGrants(fixture(), testEnv(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := metric(t, p, "Patients with unused balance"); got != "2" {
		t.Errorf("patients: got %s", got)
	}
	if got := metric(t, p, "Total unused"); got != "$75.50" {
		t.Errorf("total unused: got %s", got)
	}
	if diff := cmp.Diff([]string{"1", "3"}, column(p.Sections[1].Table, 0)); diff != "" {
		t.Errorf("patient list (-want +got):\n%s", diff)
	}
	// Counts are grant records; one patient may hold several.
	if diff := cmp.Diff([]string{"Assistance Type", "Unused Balance", "Records"}, p.Sections[0].Table.Columns); diff != "" {
		t.Errorf("unused by type columns (-want +got):\n%s", diff)
	}
	wantYears := [][]string{{"2023", "$25.50", "1"}, {"2024", "$25.00", "2"}}
	if diff := cmp.Diff(wantYears, p.Sections[3].Table.Rows); diff != "" {
		t.Errorf("balance by year (-want +got):\n%s", diff)
	}
}

func TestImpactSummary(t *testing.T) {
	tests := []struct {
		name     string
		params   Params
		records  string
		patients string
		total    string
		avg      string
	}{
		{"since anchor", nil, "4", "3", "$350.00", "$116.67"},
		{"calendar year", Params{"window": {"year"}, "year": {"2024"}}, "3", "2", "$350.00", "$175.00"},
		{"empty year", Params{"window": {"year"}, "year": {"2022"}}, "0", "0", "$0.00", "$0.00"},
		{"trailing 12", Params{"window": {"trailing-12"}}, "3", "2", "$350.00", "$175.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ImpactSummary(fixture(), testEnv(), tt.params)
			if err != nil {
				t.Fatal(err)
			}
			got := []string{
				metric(t, p, "Requests"),
				metric(t, p, "Patients helped"),
				metric(t, p, "Total support"),
				metric(t, p, "Average per patient"),
			}
			want := []string{tt.records, tt.patients, tt.total, tt.avg}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("metrics (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImpactSummaryInvalid(t *testing.T) {
	for _, p := range []Params{
		{"window": {"decade"}},
		{"window": {"year"}, "year": {"abc"}},
		{"window": {"year"}, "year": {"1200"}},
	} {
		if _, err := ImpactSummary(fixture(), testEnv(), p); !errors.Is(err, ErrInvalidParam) {
			t.Errorf("%v: got %v, want ErrInvalidParam", p, err)
		}
	}
}

func TestParams(t *testing.T) {
	p := Params{"status": {" pending ", "approved,denied", ""}}
	if got := p.Get("status"); got != "pending" {
		t.Errorf("Get: got %q", got)
	}
	if diff := cmp.Diff([]string{"pending", "approved", "denied"}, p.Values("status")); diff != "" {
		t.Errorf("Values (-want +got):\n%s", diff)
	}
}
