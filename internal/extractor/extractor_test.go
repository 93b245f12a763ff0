package extractor

import (
	"testing"

	"whatsapp-order-bot/internal/catalog"
	"whatsapp-order-bot/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var demoMenu = []model.MenuItem{
	{ID: 1, Name: "Parota", Price: 30},
	{ID: 2, Name: "Chicken Biryani", Price: 120},
	{ID: 3, Name: "Veg Fried Rice", Price: 90},
}

func TestExtract_Scenario(t *testing.T) {
	for _, mode := range []MatchMode{MatchToken, MatchSubstring} {
		t.Run(string(mode), func(t *testing.T) {
			lines := New(mode).Extract("2 parota and 1 chicken biryani", demoMenu[:2])

			require.Len(t, lines, 2)
			assert.Equal(t, model.OrderLine{ItemID: 1, Name: "Parota", Price: 30, Quantity: 2, Total: 60}, lines[0])
			assert.Equal(t, model.OrderLine{ItemID: 2, Name: "Chicken Biryani", Price: 120, Quantity: 1, Total: 120}, lines[1])
			assert.Equal(t, 180.0, model.SumLines(lines))
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected map[string]int
	}{
		{
			name:     "Case insensitive",
			text:     "3 PAROTA please",
			expected: map[string]int{"Parota": 3},
		},
		{
			name:     "No whitespace between quantity and name",
			text:     "2parota",
			expected: map[string]int{"Parota": 2},
		},
		{
			name:     "Multiple spaces and newline",
			text:     "1 \n  veg fried rice",
			expected: map[string]int{"Veg Fried Rice": 1},
		},
		{
			name:     "Plural name",
			text:     "2 Parotas",
			expected: map[string]int{"Parota": 2},
		},
		{
			name:     "Plural name next to a singular one",
			text:     "2 parotas and 1 chicken biryani",
			expected: map[string]int{"Parota": 2, "Chicken Biryani": 1},
		},
		{
			name:     "Plural at end of multi word name",
			text:     "1 chicken biryanis",
			expected: map[string]int{"Chicken Biryani": 1},
		},
		{
			name:     "Name followed by other letters",
			text:     "2 parotaxyz",
			expected: map[string]int{},
		},
		{
			name:     "Multi digit quantity",
			text:     "12 parota",
			expected: map[string]int{"Parota": 12},
		},
		{
			name:     "First occurrence wins",
			text:     "2 parota, actually 5 parota",
			expected: map[string]int{"Parota": 2},
		},
		{
			name:     "Zero quantity discarded",
			text:     "0 parota and 1 chicken biryani",
			expected: map[string]int{"Chicken Biryani": 1},
		},
		{
			name:     "Name without quantity",
			text:     "parota and chicken biryani",
			expected: map[string]int{},
		},
		{
			name:     "Greeting only",
			text:     "hello there",
			expected: map[string]int{},
		},
		{
			name:     "Empty text",
			text:     "",
			expected: map[string]int{},
		},
		{
			name:     "Quantity overflow discarded",
			text:     "99999999999999999999999 parota",
			expected: map[string]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := New(MatchToken).Extract(tt.text, demoMenu)

			require.NotNil(t, lines)
			got := make(map[string]int, len(lines))
			for _, line := range lines {
				assert.Greater(t, line.Quantity, 0)
				assert.Equal(t, line.Price*float64(line.Quantity), line.Total)
				got[line.Name] = line.Quantity
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtract_MenuOrderNotInputOrder(t *testing.T) {
	lines := New(MatchToken).Extract("1 veg fried rice, 2 chicken biryani, 3 parota", demoMenu)

	require.Len(t, lines, 3)
	assert.Equal(t, "Parota", lines[0].Name)
	assert.Equal(t, "Chicken Biryani", lines[1].Name)
	assert.Equal(t, "Veg Fried Rice", lines[2].Name)
}

func TestExtract_Idempotent(t *testing.T) {
	extractor := New(MatchToken)
	text := "2 parota and 1 chicken biryani and 4 veg fried rice"

	first := extractor.Extract(text, demoMenu)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, extractor.Extract(text, demoMenu))
	}
}

func TestExtract_OverlappingNames(t *testing.T) {
	menu := []model.MenuItem{
		{ID: 1, Name: "Chicken", Price: 100},
		{ID: 2, Name: "Chicken Biryani", Price: 120},
		{ID: 3, Name: "Rice", Price: 40},
		{ID: 4, Name: "Fried Rice", Price: 80},
	}

	t.Run("token mode lets the longer name claim its text", func(t *testing.T) {
		lines := New(MatchToken).Extract("2 chicken biryani", menu)

		require.Len(t, lines, 1)
		assert.Equal(t, "Chicken Biryani", lines[0].Name)
		assert.Equal(t, 2, lines[0].Quantity)
	})

	t.Run("token mode still finds the shorter name elsewhere", func(t *testing.T) {
		lines := New(MatchToken).Extract("2 chicken biryani and 1 chicken", menu)

		require.Len(t, lines, 2)
		assert.Equal(t, "Chicken", lines[0].Name)
		assert.Equal(t, 1, lines[0].Quantity)
		assert.Equal(t, "Chicken Biryani", lines[1].Name)
		assert.Equal(t, 2, lines[1].Quantity)
	})

	t.Run("token mode requires a boundary after the name", func(t *testing.T) {
		lines := New(MatchToken).Extract("3 ricebowl", menu)
		assert.Empty(t, lines)
	})

	t.Run("token mode accepts a plural before the boundary", func(t *testing.T) {
		lines := New(MatchToken).Extract("3 rices", menu)

		require.Len(t, lines, 1)
		assert.Equal(t, "Rice", lines[0].Name)
		assert.Equal(t, 3, lines[0].Quantity)
	})

	t.Run("substring mode matches inside longer names", func(t *testing.T) {
		lines := New(MatchSubstring).Extract("2 chicken biryani", menu)

		require.Len(t, lines, 2)
		assert.Equal(t, "Chicken", lines[0].Name)
		assert.Equal(t, "Chicken Biryani", lines[1].Name)
	})

	t.Run("name preceded by other words is not matched", func(t *testing.T) {
		lines := New(MatchToken).Extract("2 fried rice", menu)

		require.Len(t, lines, 1)
		assert.Equal(t, "Fried Rice", lines[0].Name)
	})
}

func TestExtract_DefaultMenuPlurals(t *testing.T) {
	menu := catalog.Default().Menu

	for _, mode := range []MatchMode{MatchToken, MatchSubstring} {
		t.Run(string(mode), func(t *testing.T) {
			lines := New(mode).Extract("2 parotas and 1 chicken biryani", menu)

			require.Len(t, lines, 2)
			assert.Equal(t, "Parota", lines[0].Name)
			assert.Equal(t, 2, lines[0].Quantity)
			assert.Equal(t, "Chicken Biryani", lines[1].Name)
			assert.Equal(t, 1, lines[1].Quantity)
		})
	}
}

func TestExtract_PatternsCompiledOnce(t *testing.T) {
	extractor := New(MatchToken)

	first := extractor.pattern("Parota")
	extractor.Extract("2 PAROTA", demoMenu)

	assert.Same(t, first, extractor.pattern("parota"))

	count := 0
	extractor.patterns.Range(func(_, _ any) bool {
		count++
		return true
	})
	assert.Equal(t, len(demoMenu), count)
}

func TestExtract_RegexMetacharactersInName(t *testing.T) {
	menu := []model.MenuItem{{ID: 1, Name: "Tea (Large)", Price: 25}}

	lines := New(MatchToken).Extract("2 tea (large)", menu)

	require.Len(t, lines, 1)
	assert.Equal(t, 50.0, lines[0].Total)
}

func TestParseMatchMode(t *testing.T) {
	mode, err := ParseMatchMode("substring")
	require.NoError(t, err)
	assert.Equal(t, MatchSubstring, mode)

	_, err = ParseMatchMode("fuzzy")
	assert.Error(t, err)

	assert.Equal(t, MatchToken, New("").Mode())
}
