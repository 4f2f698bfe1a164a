package summary

import (
	"sort"

	"ledgerboard/internal/core"
)

// DefaultCategoryColor backs categories with no configured display color.
const DefaultCategoryColor = "#94A3B8"

// OtherSubcategory is the bucket for revenue entries whose account has no
// subcategory label. They are grouped here, never dropped.
const OtherSubcategory = "Other"

// ExpenseByCategory groups cogs/opex/capex entries of the filtered set by
// category, summing the valued amount. Groups are ordered by the
// category's configured sort order, then name for determinism.
func ExpenseByCategory(rows []core.EntryRow, v Valuator) []core.CategoryAmount {
	type group struct {
		name      string
		color     string
		sortOrder int
		amount    core.Money
	}
	groups := make(map[int64]*group)
	var ids []int64
	for _, row := range rows {
		if !row.CategoryType.IsExpense() {
			continue
		}
		g, ok := groups[row.CategoryID]
		if !ok {
			color := row.CategoryColor
			if color == "" {
				color = DefaultCategoryColor
			}
			g = &group{name: row.CategoryName, color: color, sortOrder: row.SortOrder}
			groups[row.CategoryID] = g
			ids = append(ids, row.CategoryID)
		}
		g.amount = g.amount.Add(v.Value(row))
	}

	sort.Slice(ids, func(i, j int) bool {
		a, b := groups[ids[i]], groups[ids[j]]
		if a.sortOrder != b.sortOrder {
			return a.sortOrder < b.sortOrder
		}
		return a.name < b.name
	})

	out := make([]core.CategoryAmount, 0, len(ids))
	for _, id := range ids {
		g := groups[id]
		out = append(out, core.CategoryAmount{Name: g.name, Amount: g.amount, Color: g.color})
	}
	return out
}

// RevenueBySubcategory groups revenue entries of the filtered set by the
// owning account's subcategory label, summing the valued amount. Ordering
// is descending by amount with name as the tiebreak; largest contributor
// first is a display contract.
func RevenueBySubcategory(rows []core.EntryRow, v Valuator) []core.SubcategoryAmount {
	sums := make(map[string]core.Money)
	var names []string
	for _, row := range rows {
		if row.CategoryType != core.CategoryRevenue {
			continue
		}
		name := row.Subcategory
		if name == "" {
			name = OtherSubcategory
		}
		if _, ok := sums[name]; !ok {
			names = append(names, name)
		}
		sums[name] = sums[name].Add(v.Value(row))
	}

	sort.Slice(names, func(i, j int) bool {
		a, b := sums[names[i]], sums[names[j]]
		if c := a.Cmp(b); c != 0 {
			return c > 0
		}
		return names[i] < names[j]
	})

	out := make([]core.SubcategoryAmount, 0, len(names))
	for _, name := range names {
		out = append(out, core.SubcategoryAmount{Name: name, Amount: sums[name]})
	}
	return out
}
