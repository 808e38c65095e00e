package model

// Record is one grant request row exactly as read from the source file.
// Every field is kept as raw text; cleaning produces derived values and
// never rewrites a Record in place.
type Record struct {
	PatientID         string `parquet:"patient_id"`
	RequestStatus     string `parquet:"request_status"`
	ApplicationSigned string `parquet:"application_signed"`
	State             string `parquet:"pt_state"`
	City              string `parquet:"pt_city"`
	Gender            string `parquet:"gender"`
	DOB               string `parquet:"dob"`
	HouseholdIncome   string `parquet:"total_household_gross_monthly_income"`
	HouseholdSize     string `parquet:"household_size"`
	InsuranceType     string `parquet:"insurance_type"`
	GrantRequestDate  string `parquet:"grant_req_date"`
	PaymentSubmitted  string `parquet:"payment_submitted"`
	RemainingBalance  string `parquet:"remaining_balance"`
	AppYear           string `parquet:"app_year"`
	AssistanceType    string `parquet:"type_of_assistance_class"`
	Amount            string `parquet:"amount"`
}

// Field identifies one Record attribute by its canonical cleaned column name.
type Field struct {
	Column  string   // cleaned header, e.g. "grant_req_date"
	Aliases []string // other cleaned headers accepted for the same attribute
	get     func(*Record) *string
}

// Ptr returns a pointer to the field's storage inside r.
func (f Field) Ptr(r *Record) *string {
	return f.get(r)
}

// Fields lists every Record attribute in canonical column order.
var Fields = []Field{
	{Column: "patient_id#", Aliases: []string{"patient_id", "pt_id"}, get: func(r *Record) *string { return &r.PatientID }},
	{Column: "request_status", Aliases: []string{"status"}, get: func(r *Record) *string { return &r.RequestStatus }},
	{Column: "application_signed?", Aliases: []string{"application_signed"}, get: func(r *Record) *string { return &r.ApplicationSigned }},
	{Column: "pt_state", Aliases: []string{"state"}, get: func(r *Record) *string { return &r.State }},
	{Column: "pt_city", Aliases: []string{"city"}, get: func(r *Record) *string { return &r.City }},
	{Column: "gender", get: func(r *Record) *string { return &r.Gender }},
	{Column: "dob", Aliases: []string{"date_of_birth"}, get: func(r *Record) *string { return &r.DOB }},
	{Column: "total_household_gross_monthly_income", Aliases: []string{"household_income", "monthly_household_income"}, get: func(r *Record) *string { return &r.HouseholdIncome }},
	{Column: "household_size", get: func(r *Record) *string { return &r.HouseholdSize }},
	{Column: "insurance_type", get: func(r *Record) *string { return &r.InsuranceType }},
	{Column: "grant_req_date", Aliases: []string{"grant_request_date"}, get: func(r *Record) *string { return &r.GrantRequestDate }},
	{Column: "payment_submitted?", Aliases: []string{"payment_submitted"}, get: func(r *Record) *string { return &r.PaymentSubmitted }},
	{Column: "remaining_balance", get: func(r *Record) *string { return &r.RemainingBalance }},
	{Column: "app_year", Aliases: []string{"application_year"}, get: func(r *Record) *string { return &r.AppYear }},
	{Column: "type_of_assistance_class", Aliases: []string{"assistance_type", "type_of_assistance"}, get: func(r *Record) *string { return &r.AssistanceType }},
	{Column: "amount", Aliases: []string{"support_amount"}, get: func(r *Record) *string { return &r.Amount }},
}

// FieldByColumn resolves a cleaned header (canonical or alias) to its Field.
func FieldByColumn(column string) (Field, bool) {
	for _, f := range Fields {
		if f.Column == column {
			return f, true
		}
		for _, a := range f.Aliases {
			if a == column {
				return f, true
			}
		}
	}
	return Field{}, false
}

// Columns returns the canonical column names for all fields.
func Columns() []string {
	cols := make([]string, len(Fields))
	for i, f := range Fields {
		cols[i] = f.Column
	}
	return cols
}

// Values returns the record's raw values in canonical column order.
func (r *Record) Values() []string {
	vals := make([]string, len(Fields))
	for i, f := range Fields {
		vals[i] = *f.Ptr(r)
	}
	return vals
}
