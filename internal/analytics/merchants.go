package analytics

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	// Keys shorter than this are never fuzzily merged; "uber" and "uber eats"
	// style collisions are too likely on short names.
	minFuzzyKeyLength = 8
	maxFuzzyDistance  = 2
)

// merchantKey is the grouping key for a transaction: the normalised merchant
// name, falling back to the description.
func merchantKey(t TransactionRecord) string {
	name := t.Merchant
	if strings.TrimSpace(name) == "" {
		name = t.Description
	}
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// merchantDisplayName prefers the supplied merchant name over the raw description.
func merchantDisplayName(t TransactionRecord) string {
	if name := strings.TrimSpace(t.Merchant); name != "" {
		return name
	}
	return strings.TrimSpace(t.Description)
}

type merchantGroup struct {
	key          string
	name         string
	transactions []TransactionRecord
}

// groupDebitsByMerchant buckets debit transactions by merchant, folding
// near-identical keys ("netflix.com" / "netflix com") into one group. Groups
// come back sorted by key so every caller iterates in a stable order.
func groupDebitsByMerchant(txns []TransactionRecord) []*merchantGroup {
	byKey := make(map[string]*merchantGroup)
	for _, t := range txns {
		if !t.IsDebit() {
			continue
		}
		key := merchantKey(t)
		if key == "" {
			continue
		}
		g, ok := byKey[key]
		if !ok {
			g = &merchantGroup{key: key, name: merchantDisplayName(t)}
			byKey[key] = g
		}
		g.transactions = append(g.transactions, t)
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var groups []*merchantGroup
	for _, k := range keys {
		g := byKey[k]
		if target := findFuzzyMatch(groups, k); target != nil {
			target.transactions = append(target.transactions, g.transactions...)
			continue
		}
		groups = append(groups, g)
	}

	for _, g := range groups {
		sort.SliceStable(g.transactions, func(i, j int) bool {
			return g.transactions[i].Date.Before(g.transactions[j].Date)
		})
	}
	return groups
}

func findFuzzyMatch(groups []*merchantGroup, key string) *merchantGroup {
	if len(key) < minFuzzyKeyLength {
		return nil
	}
	for _, g := range groups {
		if len(g.key) < minFuzzyKeyLength {
			continue
		}
		if levenshtein.ComputeDistance(g.key, key) <= maxFuzzyDistance {
			return g
		}
	}
	return nil
}
