package export

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
)

// Converter turns cleaned records into ExportRows.
type Converter struct {
	Normalizers *normalize.Normalizers
	RefYear     int
}

// ToExportRow builds the DB row for r. Blank text becomes NULL; unparseable
// dates and amounts become NULL in their typed columns while the raw text
// is kept alongside.
func (c Converter) ToExportRow(r *model.Record, batchID uuid.UUID, sourceFileID, rowNum int64) *model.ExportRow {
	row := &model.ExportRow{
		BatchID:         batchID,
		SourceFileID:    sourceFileID,
		SourceRowNumber: rowNum,

		PatientID:         textOrNil(r.PatientID),
		RequestStatus:     textOrNil(r.RequestStatus),
		ApplicationSigned: textOrNil(r.ApplicationSigned),
		State:             textOrNil(r.State),
		City:              textOrNil(r.City),
		Gender:            textOrNil(r.Gender),
		DOB:               textOrNil(r.DOB),
		HouseholdIncome:   textOrNil(r.HouseholdIncome),
		HouseholdSize:     textOrNil(r.HouseholdSize),
		InsuranceType:     textOrNil(r.InsuranceType),
		PaymentSubmitted:  textOrNil(r.PaymentSubmitted),
		AssistanceType:    textOrNil(r.AssistanceType),

		GrantRequestDate:      normalize.ParseDate(r.GrantRequestDate),
		AmountCents:           cents(normalize.ParseAmount(r.Amount)),
		RemainingBalanceCents: cents(normalize.ParseAmount(r.RemainingBalance)),
		StateCode:             c.Normalizers.State.Normalize(r.State),
		GenderNorm:            c.Normalizers.Gender.Normalize(r.Gender),
		InsuranceNorm:         c.Normalizers.Insurance.Normalize(r.InsuranceType),
		AssistanceNorm:        c.Normalizers.Assistance.Normalize(r.AssistanceType),
		IncomeGroup:           derive.IncomeGroup(derive.PerCapitaIncome(r.HouseholdIncome, r.HouseholdSize)),
	}

	if paid, ok := normalize.ExtractDate(r.PaymentSubmitted); ok {
		row.PaymentDate = &paid
	}
	if y, ok := normalize.ParseYear(r.AppYear); ok {
		row.AppYear = int32Ptr(y)
	}
	age, known := derive.Age(r.DOB, c.RefYear)
	if known {
		row.AgeYears = int32Ptr(age)
	}
	row.AgeGroup = derive.AgeGroup(age, known)
	if days, ok := derive.DaysToPayment(r.GrantRequestDate, r.PaymentSubmitted); ok {
		row.DaysToPayment = int32Ptr(days)
	}
	return row
}

func textOrNil(s string) *string {
	if normalize.IsBlank(s) {
		return nil
	}
	s = strings.TrimSpace(s)
	return &s
}

// cents converts a dollar amount to whole cents, rounding half away from zero.
func cents(d decimal.NullDecimal) *int64 {
	if !d.Valid {
		return nil
	}
	v := centsOf(d.Decimal)
	return &v
}

func centsOf(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func int32Ptr(v int) *int32 {
	p := int32(v)
	return &p
}
