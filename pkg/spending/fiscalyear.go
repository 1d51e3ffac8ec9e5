package spending

import (
	"strconv"

	"github.com/budgetflow/budgetflow/pkg/errors"
)

// MinFiscalYear is the earliest fiscal year the USAspending spending
// explorer has complete data for.
const MinFiscalYear = 2017

// FiscalYear formats a year number as the API's fiscal year string.
func FiscalYear(year int) string {
	return strconv.Itoa(year)
}

// ValidateFiscalYear checks that fy is a four-digit year within the range
// the API can serve.
func ValidateFiscalYear(fy string) error {
	year, err := strconv.Atoi(fy)
	if err != nil || len(fy) != 4 {
		return errors.New(errors.ErrCodeInvalidFiscalYear,
			"fiscal year %q must be a four-digit year", fy)
	}
	if year < MinFiscalYear {
		return errors.New(errors.ErrCodeInvalidFiscalYear,
			"fiscal year %d predates available data (earliest is %d)", year, MinFiscalYear)
	}
	return nil
}
