package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"cardledger/internal/core"
	"cardledger/internal/subs"
)

// GroupSubscriptions filters rows down to detected subscriptions, applies
// the user's exclusions, and groups the survivors by pattern key. Member
// transactions keep their input order (callers pass date-descending rows);
// groups come back sorted by total, highest first.
func GroupSubscriptions(rows []core.Transaction, exclusions []core.SubscriptionExclusion) []core.SubscriptionGroup {
	matcher := subs.Matcher()

	descs := make([]string, 0, len(exclusions))
	for _, e := range exclusions {
		descs = append(descs, e.Description)
	}
	excluded := subs.BuildExclusionMatcher(descs)

	type acc struct {
		label string
		txns  []core.Transaction
		total decimal.Decimal
	}
	groups := map[string]*acc{}
	var order []string

	for _, tx := range rows {
		if tx.Type == core.TypeIncome {
			continue
		}
		if !matcher.MatchString(tx.Description) {
			continue
		}
		if excluded != nil && excluded.MatchString(tx.Description) {
			continue
		}
		key := subs.Classify(tx.Description)
		if key == "" {
			// Classify and the combined matcher derive from the same table,
			// so a matched row always classifies.
			continue
		}

		g, ok := groups[key]
		if !ok {
			g = &acc{label: subs.LabelFor(key), total: decimal.Zero}
			groups[key] = g
			order = append(order, key)
		}
		g.txns = append(g.txns, tx)
		g.total = g.total.Add(tx.Amount)
	}

	out := make([]core.SubscriptionGroup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		out = append(out, core.SubscriptionGroup{
			Key:          key,
			Label:        g.label,
			Transactions: g.txns,
			Total:        core.RoundCents(g.total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}
