package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardledger/internal/core"
)

func TestGroupSubscriptionsGroupsByPattern(t *testing.T) {
	rows := []core.Transaction{
		expense(3, "15.49", "NETFLIX.COM"),
		expense(2, "15.49", "NETFLIX.COM"),
		expense(1, "10.99", "SPOTIFY USA"),
		expense(1, "45.00", "GROCERY MART"), // not a subscription
		income(1, "500", "PAYCHECK"),
	}

	groups := GroupSubscriptions(rows, nil)
	require.Len(t, groups, 2)

	// Sorted by total descending: two Netflix charges beat one Spotify.
	assert.Equal(t, "netflix", groups[0].Key)
	assert.Equal(t, "Netflix", groups[0].Label)
	decEq(t, "30.98", groups[0].Total)
	require.Len(t, groups[0].Transactions, 2)
	// Member order preserves input order.
	assert.Equal(t, 3, int(groups[0].Transactions[0].Date.Month()))
	assert.Equal(t, 2, int(groups[0].Transactions[1].Date.Month()))

	assert.Equal(t, "spotify", groups[1].Key)
	decEq(t, "10.99", groups[1].Total)
}

func TestGroupSubscriptionsSkipsIncome(t *testing.T) {
	rows := []core.Transaction{
		income(1, "15.49", "NETFLIX.COM REFUND"),
	}
	assert.Empty(t, GroupSubscriptions(rows, nil))
}

func TestGroupSubscriptionsAppliesExclusions(t *testing.T) {
	rows := []core.Transaction{
		expense(1, "14.99", "AMAZON PRIME*Y10JS3503"),
		expense(1, "15.49", "NETFLIX.COM"),
	}
	exclusions := []core.SubscriptionExclusion{
		{ID: 1, Description: "AMAZON PRIME*Y10JS3503", PatternKey: "amazon-prime", Label: "Amazon Prime"},
	}

	groups := GroupSubscriptions(rows, exclusions)
	require.Len(t, groups, 1)
	assert.Equal(t, "netflix", groups[0].Key)

	// Deleting the exclusion re-includes the transaction on the next call.
	groups = GroupSubscriptions(rows, nil)
	require.Len(t, groups, 2)
	keys := []string{groups[0].Key, groups[1].Key}
	assert.Contains(t, keys, "amazon-prime")
	assert.Contains(t, keys, "netflix")
}

func TestGroupSubscriptionsExclusionIsSubstringMatch(t *testing.T) {
	rows := []core.Transaction{
		expense(1, "14.99", "AMAZON PRIME*Y10JS3503"),
		expense(2, "14.99", "amazon prime membership"),
	}
	exclusions := []core.SubscriptionExclusion{
		{ID: 1, Description: "AMAZON PRIME", PatternKey: "amazon-prime", Label: "Amazon Prime"},
	}

	// Both descriptions contain the excluded text, case-insensitively.
	assert.Empty(t, GroupSubscriptions(rows, exclusions))
}

func TestGroupSubscriptionsRoundsTotals(t *testing.T) {
	rows := []core.Transaction{
		expense(1, "5.005", "HULU *MONTHLY"),
		expense(2, "5.00", "HULU *MONTHLY"),
	}

	groups := GroupSubscriptions(rows, nil)
	require.Len(t, groups, 1)
	decEq(t, "10.01", groups[0].Total)
}

func TestGroupSubscriptionsEmptyInput(t *testing.T) {
	assert.Empty(t, GroupSubscriptions(nil, nil))
}
