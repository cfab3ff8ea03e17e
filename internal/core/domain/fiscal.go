package domain

import (
	"fmt"
	"time"
)

// FiscalPeriod is the (financial year, period month) pair for a posting date.
// Financial years run April through March; PeriodMonth is 1 for April and 12
// for March.
type FiscalPeriod struct {
	FinancialYear string `json:"financialYear"` // "2025-26"
	PeriodMonth   int    `json:"periodMonth"`   // 1..12, April-start
}

// FiscalPeriodOf is the single source of fiscal-period arithmetic. Every
// component that needs a financial year or period month goes through here.
func FiscalPeriodOf(date time.Time) FiscalPeriod {
	year := date.Year()
	month := int(date.Month())
	startYear := year
	if month < 4 {
		startYear = year - 1
	}
	periodMonth := month - 3
	if periodMonth <= 0 {
		periodMonth += 12
	}
	return FiscalPeriod{
		FinancialYear: fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100),
		PeriodMonth:   periodMonth,
	}
}

// FinancialYearOf returns just the financial-year label for a date.
func FinancialYearOf(date time.Time) string {
	return FiscalPeriodOf(date).FinancialYear
}
