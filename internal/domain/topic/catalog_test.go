package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultOrder_ReturnsCopy(t *testing.T) {
	first := DefaultOrder()
	first[0] = "mutated"

	assert.Equal(t, []string{Budgeting, Saving, Credit, Debt, Investing}, DefaultOrder())
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Credit Canyon", Title(Credit))
	assert.Equal(t, "Investment Island", Title(Investing))

	// Tolerant lookup: unknown ids come back as-is.
	assert.Equal(t, "astrology", Title("astrology"))
}

func TestSanitizeRanking(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "full permutation passes through",
			input: []string{"credit", "debt", "investing", "budgeting", "saving"},
			want:  []string{"credit", "debt", "investing", "budgeting", "saving"},
		},
		{
			name:  "unknown tokens dropped, missing topics appended in default order",
			input: []string{"credit", "astrology", "debt"},
			want:  []string{"credit", "debt", "budgeting", "saving", "investing"},
		},
		{
			name:  "duplicates keep first occurrence",
			input: []string{"saving", "saving", "credit", "saving"},
			want:  []string{"saving", "credit", "budgeting", "debt", "investing"},
		},
		{
			name:  "empty input degrades to default order",
			input: nil,
			want:  []string{"budgeting", "saving", "credit", "debt", "investing"},
		},
		{
			name:  "all unknown degrades to default order",
			input: []string{"crypto", "forex"},
			want:  []string{"budgeting", "saving", "credit", "debt", "investing"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SanitizeRanking(tc.input)

			assert.Equal(t, tc.want, got)
			assert.Len(t, got, 5)
			for _, id := range got {
				assert.True(t, IsValid(id))
			}
		})
	}
}
