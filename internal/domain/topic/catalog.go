package topic

// The five sectors of the Financial Frontier map. The default order doubles
// as the fallback learning path when the ranking oracle is unavailable.
const (
	Budgeting = "budgeting"
	Saving    = "saving"
	Credit    = "credit"
	Debt      = "debt"
	Investing = "investing"
)

var defaultOrder = []string{Budgeting, Saving, Credit, Debt, Investing}

var titles = map[string]string{
	Budgeting: "Budgeting Bay",
	Saving:    "Saving Spire",
	Credit:    "Credit Canyon",
	Debt:      "Debt Deep",
	Investing: "Investment Island",
}

// DefaultOrder returns a fresh copy so callers can reorder freely.
func DefaultOrder() []string {
	out := make([]string, len(defaultOrder))
	copy(out, defaultOrder)
	return out
}

func IsValid(id string) bool {
	_, ok := titles[id]
	return ok
}

// Title resolves the display title for a topic id, falling back to the raw
// id when the catalog does not know it.
func Title(id string) string {
	if t, ok := titles[id]; ok {
		return t
	}
	return id
}

// SanitizeRanking normalizes an oracle-produced ranking into a full
// permutation of the catalog: unknown ids and duplicates are dropped, and any
// topics the oracle omitted are appended in default order. The result is
// never empty and always has exactly one entry per catalog topic.
func SanitizeRanking(ranked []string) []string {
	seen := make(map[string]bool, len(titles))
	out := make([]string, 0, len(titles))

	for _, id := range ranked {
		if !IsValid(id) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}

	for _, id := range defaultOrder {
		if !seen[id] {
			out = append(out, id)
		}
	}

	return out
}
