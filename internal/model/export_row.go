package model

import (
	"time"

	"github.com/google/uuid"
)

// ExportRow is the DB-ready form of one cleaned record: the cleaned text
// columns plus typed and derived values. Money is stored as int64 cents.
type ExportRow struct {
	BatchID         uuid.UUID
	SourceFileID    int64
	SourceRowNumber int64

	PatientID         *string
	RequestStatus     *string
	ApplicationSigned *string
	State             *string
	City              *string
	Gender            *string
	DOB               *string
	HouseholdIncome   *string
	HouseholdSize     *string
	InsuranceType     *string
	PaymentSubmitted  *string
	AssistanceType    *string

	GrantRequestDate      *time.Time
	PaymentDate           *time.Time
	AppYear               *int32
	AmountCents           *int64
	RemainingBalanceCents *int64
	StateCode             string
	GenderNorm            string
	InsuranceNorm         string
	AssistanceNorm        string
	AgeYears              *int32
	AgeGroup              string
	IncomeGroup           string
	DaysToPayment         *int32
}

// ExportColumns returns the ordered column names for COPY into grants.records.
func ExportColumns() []string {
	return []string{
		"batch_id",
		"source_file_id",
		"source_row_number",
		"patient_id",
		"request_status",
		"application_signed",
		"pt_state",
		"pt_city",
		"gender",
		"dob",
		"household_income",
		"household_size",
		"insurance_type",
		"payment_submitted",
		"assistance_type",
		"grant_req_date",
		"payment_date",
		"app_year",
		"amount_cents",
		"remaining_balance_cents",
		"state_code",
		"gender_norm",
		"insurance_norm",
		"assistance_norm",
		"age_years",
		"age_group",
		"income_group",
		"days_to_payment",
	}
}

// CopyValues returns the row's values in ExportColumns order.
func (r *ExportRow) CopyValues() []any {
	return []any{
		r.BatchID,
		r.SourceFileID,
		r.SourceRowNumber,
		r.PatientID,
		r.RequestStatus,
		r.ApplicationSigned,
		r.State,
		r.City,
		r.Gender,
		r.DOB,
		r.HouseholdIncome,
		r.HouseholdSize,
		r.InsuranceType,
		r.PaymentSubmitted,
		r.AssistanceType,
		r.GrantRequestDate,
		r.PaymentDate,
		r.AppYear,
		r.AmountCents,
		r.RemainingBalanceCents,
		r.StateCode,
		r.GenderNorm,
		r.InsuranceNorm,
		r.AssistanceNorm,
		r.AgeYears,
		r.AgeGroup,
		r.IncomeGroup,
		r.DaysToPayment,
	}
}
