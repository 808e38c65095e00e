// mkfixture writes a synthetic, deliberately messy grant request workbook for
// local runs of the cleaner and dashboard. Values mix the spellings, date
// layouts and yes/no variants seen in real exports, plus blank rows.
// Usage: go run ./cmd/mkfixture --out testdata/grants.xlsx --rows 500 --seed 7
package main

import (
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/xuri/excelize/v2"
)

var header = []string{
	"Patient ID#", "Request Status", "Application Signed?", "Pt State", "Pt City",
	"Gender", "DOB", "Total Household Gross Monthly Income", "Household Size",
	"Insurance Type", "Grant Req Date", "Payment Submitted?", "Remaining Balance",
	"App Year", "Type of Assistance (CLASS)", "Amount",
}

var (
	statuses   = []string{"Approved", "approved", "Pending", "Denied", "Approved "}
	signed     = []string{"Yes", "yes", "Y", "No", "n", "", "maybe", "N/A"}
	states     = []string{"NE", "Nebraska", "neb.", "IA", "Iowa", "ia.", "KS", "kan", "MO", "SD", "s. dakota", "CO", "Atlantis", ""}
	cities     = []string{"Omaha", "Lincoln", "Des Moines", "Sioux Falls", "Kansas City", ""}
	genders    = []string{"Female", "female", "F", "Male", "m", "Non Binary", "femal", "", "Other"}
	insurance  = []string{"Medicaid", "medicade", "Medicare", "Uninsured", "unisured", "none", "Private Insurance", "Medicare/Medicaid", "Tricare", ""}
	assistance = []string{"Medical Supplies/Prescription Co-Pay(s)", "Food/Groceries", "Gas", "Rent", "Utilities", "Phone/Internet", "Housing", "Car Payment"}
	dateLayout = []string{"2006-01-02", "1/2/2006", "01/02/06", "Jan 2, 2006", "2006-01-02 15:04:05"}
	dobLayout  = []string{"2006-01-02", "1/2/2006", "Jan 2, 2006"}
)

func main() {
	out := flag.String("out", "testdata/grants.xlsx", "output workbook")
	rows := flag.Int("rows", 300, "data rows to write (blank rows are extra)")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewPCG(*seed, *seed))
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	write := func(r int, vals []any) {
		for c, v := range vals {
			cell, err := excelize.CoordinatesToCellName(c+1, r)
			if err != nil {
				fmt.Fprintf(os.Stderr, "cell name: %v\n", err)
				os.Exit(1)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				fmt.Fprintf(os.Stderr, "set %s: %v\n", cell, err)
				os.Exit(1)
			}
		}
	}

	vals := make([]any, len(header))
	for i, h := range header {
		vals[i] = h
	}
	write(1, vals)

	base := time.Date(2018, time.June, 1, 0, 0, 0, 0, time.UTC)
	line := 2
	blanks := 0
	for i := 0; i < *rows; i++ {
		if rng.IntN(25) == 0 {
			line++ // leave an empty row behind
			blanks++
		}
		write(line, fixtureRow(rng, base))
		line++
	}

	if err := f.SaveAs(*out); err != nil {
		fmt.Fprintf(os.Stderr, "save: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d rows (%d blank) to %s\n", *rows, blanks, *out)
}

func pick(rng *rand.Rand, xs []string) string {
	return xs[rng.IntN(len(xs))]
}

func fixtureRow(rng *rand.Rand, base time.Time) []any {
	req := base.AddDate(0, 0, rng.IntN(6*365))
	dob := time.Date(1935+rng.IntN(85), time.Month(1+rng.IntN(12)), 1+rng.IntN(28), 0, 0, 0, 0, time.UTC)
	amount := float64(25+rng.IntN(60)*25) + []float64{0, 0.5, 0.99}[rng.IntN(3)]

	var paid string
	switch rng.IntN(5) {
	case 0:
		paid = "Yes"
	case 1:
		paid = "No"
	case 2:
		paid = ""
	default:
		paid = req.AddDate(0, 0, 1+rng.IntN(70)).Format("2006-01-02")
	}

	var dobCell any = dob.Format(pick(rng, dobLayout))
	if rng.IntN(3) == 0 {
		dobCell = dob
	}

	var reqCell any = req.Format(pick(rng, dateLayout))
	if rng.IntN(10) == 0 {
		reqCell = "unknown"
	}

	income := fmt.Sprintf("%d", 200+rng.IntN(50)*100)
	if rng.IntN(8) == 0 {
		income = "$" + income + ".00"
	}
	size := fmt.Sprintf("%d", 1+rng.IntN(6))
	if rng.IntN(12) == 0 {
		size = "0"
	}

	return []any{
		fmt.Sprintf("%d", 1000+rng.IntN(400)),
		pick(rng, statuses),
		pick(rng, signed),
		pick(rng, states),
		pick(rng, cities),
		pick(rng, genders),
		dobCell,
		income,
		size,
		pick(rng, insurance),
		reqCell,
		paid,
		fmt.Sprintf("%.2f", float64(rng.IntN(40))*12.5),
		req.Year(),
		pick(rng, assistance),
		amount,
	}
}
