package model

// Worksheet describes one financial statement extracted from the cost
// report: which HCRIS worksheet code it comes from and how its rows are
// treated through the pipeline. Behavior lives here as data so every
// worksheet's handling is a total mapping instead of scattered lookups.
type Worksheet struct {
	Code      string // HCRIS worksheet identifier, e.g. "G000000"
	Statement string // output table / directory name
	Title     string

	// RollUp collapses line/column codes to the nearest lower multiple of
	// 100 by summation before joining names.
	RollUp bool

	// KeepZeroValues disables the exactly-zero filter at fact-write time.
	// Zero usually means "not reported", but fund-balance changes carry
	// legitimate zero deltas, so G-1 keeps them.
	KeepZeroValues bool

	// DeriveAllocationTotals synthesizes Subtotal and Total columns after
	// roll-up (overhead allocation only).
	DeriveAllocationTotals bool

	// Dictionary is the embedded name-dictionary file for this worksheet.
	Dictionary string
}

// AllWorksheets lists the extracted statements in canonical order.
var AllWorksheets = []Worksheet{
	{Code: "G000000", Statement: "balance_sheet", Title: "Balance Sheet", Dictionary: "g_balance_sheet.csv"},
	{Code: "G100000", Statement: "fund_balance_changes", Title: "Statement of Changes in Fund Balances", KeepZeroValues: true, Dictionary: "g1_fund_balance.csv"},
	{Code: "G200000", Statement: "revenue", Title: "Statement of Patient Revenues", Dictionary: "g2_revenue.csv"},
	{Code: "G300000", Statement: "revenue_expenses", Title: "Statement of Revenues and Expenses", Dictionary: "g3_revenue_expenses.csv"},
	{Code: "A000000", Statement: "cost_centers", Title: "General Service Cost Centers", RollUp: true, Dictionary: "a_cost_centers.csv"},
	{Code: "B000001", Statement: "overhead_allocation", Title: "Cost Allocation - General Service Costs", RollUp: true, DeriveAllocationTotals: true, Dictionary: "b_overhead_allocation.csv"},
}

// WorksheetByCode returns the worksheet config for an HCRIS code, or ok=false.
func WorksheetByCode(code string) (Worksheet, bool) {
	for _, ws := range AllWorksheets {
		if ws.Code == code {
			return ws, true
		}
	}
	return Worksheet{}, false
}

// WorksheetByStatement returns the worksheet config for a statement name, or ok=false.
func WorksheetByStatement(name string) (Worksheet, bool) {
	for _, ws := range AllWorksheets {
		if ws.Statement == name {
			return ws, true
		}
	}
	return Worksheet{}, false
}

// StatementNames returns just the statement names in canonical order.
func StatementNames() []string {
	names := make([]string, len(AllWorksheets))
	for i, ws := range AllWorksheets {
		names[i] = ws.Statement
	}
	return names
}
