package season

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInferStage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		top      string
		middle   string
		month    int
		stage    Stage
		category Category
	}{
		{"climbing rose in december is dormant", "Rose", "Climbing Rose", 12, StageDormant, CategoryRose},
		{"cherry tomato in august is fruiting", "Tomato", "Cherry Tomato", 8, StageFruiting, CategoryVegetable},
		{"rose in july is flowering", "Rose", "Hybrid Tea Rose", 7, StageFlowering, CategoryRose},
		{"rose in april falls back to active stage", "Rose", "Floribunda Rose", 4, StageMature, CategoryRose},
		{"vegetable in march is seedling", "Tomato", "Tomato", 3, StageSeedling, CategoryVegetable},
		{"bulb in summer is dormant", "Bulb", "Tulip", 8, StageDormant, CategoryBulb},
		{"rosemary is a herb", "Herb", "Rosemary", 7, StageFlowering, CategoryHerb},
		{"pear is a fruit", "Fruit Tree", "Pear", 8, StageFruiting, CategoryFruit},
		{"category name from top level", "Ornamental Grass", "", 8, StageFlowering, CategoryGrass},
		{"unknown plant defaults to perennial", "Fern", "Hart's Tongue Fern", 4, StageMature, CategoryPerennial},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := InferStage(tt.top, tt.middle, tt.month)
			assert.Equal(t, tt.stage, got.Stage)
			assert.Equal(t, tt.category, got.Category)
			assert.Equal(t, tt.month, got.Month)
		})
	}
}

func TestPattern_StageAtPriority(t *testing.T) {
	t.Parallel()

	p := Pattern{Dormant: Months(6), Flowering: Months(6), Fruiting: Months(6), Active: StageMature}
	assert.Equal(t, StageDormant, p.StageAt(6))

	p = Pattern{Fruiting: Months(6), Flowering: Months(6), Active: StageMature}
	assert.Equal(t, StageFruiting, p.StageAt(6))

	p = Pattern{Flowering: Months(6), Active: StageJuvenile}
	assert.Equal(t, StageFlowering, p.StageAt(6))
	assert.Equal(t, StageJuvenile, p.StageAt(7))
}

func TestInferer_DefaultsToClockMonth(t *testing.T) {
	t.Parallel()

	clock := func() time.Time { return time.Date(2024, time.December, 15, 9, 0, 0, 0, time.UTC) }
	inf := NewInferer(clock)

	for _, month := range []int{0, -1, 13} {
		got := inf.InferStage("Rose", "Climbing Rose", month)
		assert.Equal(t, 12, got.Month)
		assert.Equal(t, StageDormant, got.Stage)
	}
}

func TestInferStage_ExplanationNamesMonthAndPlant(t *testing.T) {
	t.Parallel()

	got := InferStage("Rose", "Climbing Rose", 12)
	assert.Contains(t, got.Explanation, "December")
	assert.Contains(t, got.Explanation, "Climbing Rose")
	assert.Equal(t, "Dormant", got.Label)

	got = InferStage("Rose", "", 12)
	assert.Contains(t, got.Explanation, "Rose")
}

func TestResolveCategory_OrderMatters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, CategoryVegetable, ResolveCategory("Tomato", "Cherry Tomato"))
	assert.Equal(t, CategoryFruit, ResolveCategory("Fruit", "Morello Cherry"))
	assert.Equal(t, CategoryAnnual, ResolveCategory("Climber", "Sweet Pea"))
	assert.Equal(t, CategoryVegetable, ResolveCategory("Vegetable", "Garden Pea"))
	assert.Equal(t, CategoryPerennial, ResolveCategory("Flower", "Primrose"))
	assert.Equal(t, CategoryFruit, ResolveCategory("Fruit", "Peach"))
	assert.Equal(t, CategoryFruit, ResolveCategory("Fruit", "Conference Pear"))
	assert.Equal(t, CategoryHerb, ResolveCategory("Herb", "Spearmint"))
	assert.Equal(t, CategoryHerb, ResolveCategory("Herb", "Peppermint"))
	assert.Equal(t, CategoryShrub, ResolveCategory("Shrub", "Plumbago"))
	assert.Equal(t, CategoryRose, ResolveCategory("ROSE", ""))
	assert.Equal(t, CategoryPerennial, ResolveCategory("", ""))
}

func TestMonthSet(t *testing.T) {
	t.Parallel()

	s := Months(12, 1, 2, 0, 13)
	assert.Equal(t, []int{1, 2, 12}, s.List())
	assert.True(t, s.Has(12))
	assert.False(t, s.Has(13))
	assert.False(t, s.Has(0))
}
