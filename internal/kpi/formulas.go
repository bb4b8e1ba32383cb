package kpi

// Formula defines one indicator. Eval returns nil when a guard fires: a
// missing input quantity, a zero denominator, or (for prior-year formulas)
// no prior fiscal year on file. prior is nil when the provider has no
// immediately preceding year.
type Formula struct {
	Name          string
	RequiresPrior bool
	Eval          func(cur, prior Quantities) *float64
}

// AllFormulas lists the computed indicators in output order.
var AllFormulas = []Formula{
	{
		Name: "Current_Ratio",
		Eval: func(cur, _ Quantities) *float64 {
			return ratio(cur, QtyTotalCurrentAssets, QtyTotalCurrentLiab)
		},
	},
	{
		Name: "Operating_Margin",
		Eval: func(cur, _ Quantities) *float64 {
			npr, ok1 := cur.Get(QtyNetPatientRevenue)
			opex, ok2 := cur.Get(QtyTotalOperatingExp)
			if !ok1 || !ok2 || npr == 0 {
				return nil
			}
			return ptr((npr - opex) / npr)
		},
	},
	{
		Name: "Total_Margin",
		Eval: func(cur, _ Quantities) *float64 {
			ni, ok1 := cur.Get(QtyNetIncome)
			npr, ok2 := cur.Get(QtyNetPatientRevenue)
			other, ok3 := cur.Get(QtyTotalOtherIncome)
			if !ok1 || !ok2 {
				return nil
			}
			if !ok3 {
				other = 0
			}
			total := npr + other
			if total == 0 {
				return nil
			}
			return ptr(ni / total)
		},
	},
	{
		Name: "Days_Cash_On_Hand",
		Eval: func(cur, _ Quantities) *float64 {
			cash, ok1 := cur.Get(QtyCash)
			inv, ok2 := cur.Get(QtyTempInvestments)
			opex, ok3 := cur.Get(QtyTotalOperatingExp)
			depr, ok4 := cur.Get(QtyDepreciationExpense)
			if !ok1 || !ok3 {
				return nil
			}
			if !ok2 {
				inv = 0
			}
			if !ok4 {
				depr = 0
			}
			daily := (opex - depr) / 365
			if daily == 0 {
				return nil
			}
			return ptr((cash + inv) / daily)
		},
	},
	{
		Name: "Days_In_Net_AR",
		Eval: func(cur, _ Quantities) *float64 {
			ar, ok1 := cur.Get(QtyAccountsReceivable)
			allow, ok2 := cur.Get(QtyUncollectibleAllow)
			npr, ok3 := cur.Get(QtyNetPatientRevenue)
			if !ok1 || !ok3 || npr == 0 {
				return nil
			}
			if !ok2 {
				allow = 0
			}
			return ptr((ar - allow) / (npr / 365))
		},
	},
	{
		Name: "Equity_Financing",
		Eval: func(cur, _ Quantities) *float64 {
			return ratio(cur, QtyTotalFundBalances, QtyTotalAssets)
		},
	},
	{
		Name: "Average_Age_Of_Plant",
		Eval: func(cur, _ Quantities) *float64 {
			return ratio(cur, QtyAccumDepreciation, QtyDepreciationExpense)
		},
	},
	{
		Name:          "Revenue_Growth",
		RequiresPrior: true,
		Eval: func(cur, prior Quantities) *float64 {
			if prior == nil {
				return nil
			}
			curNPR, ok1 := cur.Get(QtyNetPatientRevenue)
			priorNPR, ok2 := prior.Get(QtyNetPatientRevenue)
			if !ok1 || !ok2 || priorNPR == 0 {
				return nil
			}
			return ptr((curNPR - priorNPR) / priorNPR)
		},
	},
}

// ratio divides two named quantities with the standard guards.
func ratio(q Quantities, numName, denName string) *float64 {
	num, ok1 := q.Get(numName)
	den, ok2 := q.Get(denName)
	if !ok1 || !ok2 || den == 0 {
		return nil
	}
	return ptr(num / den)
}

func ptr(v float64) *float64 { return &v }
