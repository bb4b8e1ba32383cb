// Package kpi derives financial indicators from the deduplicated fact
// tables. Every formula is declared in one table and reads named quantities
// resolved through a single address table, so adding an indicator means
// adding rows here rather than touching the calculator.
package kpi

import "github.com/gyeh/costbench/internal/model"

// Address locates one quantity on the rolled-up statement grid.
type Address struct {
	Statement  string
	LineCode   string
	ColumnCode string
}

// Quantity names resolved from the fact tables.
const (
	QtyCash                = "cash"
	QtyTempInvestments     = "temporary_investments"
	QtyAccountsReceivable  = "notes_accounts_receivable"
	QtyUncollectibleAllow  = "uncollectible_allowance"
	QtyTotalCurrentAssets  = "total_current_assets"
	QtyAccumDepreciation   = "accumulated_depreciation"
	QtyTotalAssets         = "total_assets"
	QtyTotalCurrentLiab    = "total_current_liabilities"
	QtyTotalFundBalances   = "total_fund_balances"
	QtyNetPatientRevenue   = "net_patient_revenue"
	QtyTotalOperatingExp   = "total_operating_expenses"
	QtyTotalOtherIncome    = "total_other_income"
	QtyDepreciationExpense = "depreciation_expense"
	QtyNetIncome           = "net_income"
)

// addresses maps quantity names to their statement grid cells. Balance-sheet
// quantities read the General Fund column; income-statement quantities read
// the Amount column.
var addresses = map[string]Address{
	QtyCash:                {Statement: "balance_sheet", LineCode: "00100", ColumnCode: "00100"},
	QtyTempInvestments:     {Statement: "balance_sheet", LineCode: "00200", ColumnCode: "00100"},
	QtyAccountsReceivable:  {Statement: "balance_sheet", LineCode: "00400", ColumnCode: "00100"},
	QtyUncollectibleAllow:  {Statement: "balance_sheet", LineCode: "00600", ColumnCode: "00100"},
	QtyTotalCurrentAssets:  {Statement: "balance_sheet", LineCode: "01100", ColumnCode: "00100"},
	QtyAccumDepreciation:   {Statement: "balance_sheet", LineCode: "02000", ColumnCode: "00100"},
	QtyTotalAssets:         {Statement: "balance_sheet", LineCode: "03600", ColumnCode: "00100"},
	QtyTotalCurrentLiab:    {Statement: "balance_sheet", LineCode: "04500", ColumnCode: "00100"},
	QtyTotalFundBalances:   {Statement: "balance_sheet", LineCode: "05900", ColumnCode: "00100"},
	QtyNetPatientRevenue:   {Statement: "revenue_expenses", LineCode: "00300", ColumnCode: "00100"},
	QtyTotalOperatingExp:   {Statement: "revenue_expenses", LineCode: "00400", ColumnCode: "00100"},
	QtyTotalOtherIncome:    {Statement: "revenue_expenses", LineCode: "02500", ColumnCode: "00100"},
	QtyDepreciationExpense: {Statement: "revenue_expenses", LineCode: "03000", ColumnCode: "00100"},
	QtyNetIncome:           {Statement: "revenue_expenses", LineCode: "03100", ColumnCode: "00100"},
}

// Quantities holds the resolved values for one provider-year. A missing cell
// stays absent rather than defaulting to zero: formulas must distinguish
// "reported zero" from "not reported".
type Quantities map[string]float64

// Get returns the named quantity if the provider reported the cell.
func (q Quantities) Get(name string) (float64, bool) {
	v, ok := q[name]
	return v, ok
}

// resolveKey matches a fact row against the address table, returning the
// quantity name it feeds, if any.
func resolveKey(statement string, row *model.FactRow) (string, bool) {
	for name, addr := range addresses {
		if addr.Statement == statement &&
			addr.LineCode == row.LineCode &&
			addr.ColumnCode == row.ColumnCode {
			return name, true
		}
	}
	return "", false
}
