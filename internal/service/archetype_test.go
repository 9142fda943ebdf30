package service

import (
	"testing"

	"dopamind/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestResolveArchetypeBonus(t *testing.T) {
	tests := []struct {
		name            string
		archetypeID     model.ArchetypeID
		category        model.TaskCategory
		expectedXP      float64
		expectedCredits float64
	}{
		{
			name:        "warrior on body task",
			archetypeID: model.ArchetypeWarrior,
			category:    model.CategoryBody,
			expectedXP:  1.1, expectedCredits: 1.05,
		},
		{
			name:        "warrior off focus category",
			archetypeID: model.ArchetypeWarrior,
			category:    model.CategoryMind,
			expectedXP:  1, expectedCredits: 1,
		},
		{
			name:        "sage stacks mind perk with the all perk",
			archetypeID: model.ArchetypeSage,
			category:    model.CategoryMind,
			expectedXP:  1.1 * 1.05, expectedCredits: 1,
		},
		{
			name:        "sage off focus category still gets the all perk",
			archetypeID: model.ArchetypeSage,
			category:    model.CategoryBody,
			expectedXP:  1.05, expectedCredits: 1,
		},
		{
			name:        "bard on life task",
			archetypeID: model.ArchetypeBard,
			category:    model.CategoryLife,
			expectedXP:  1.1 * 1.05, expectedCredits: 1,
		},
		{
			name:        "monk credits perk",
			archetypeID: model.ArchetypeMonk,
			category:    model.CategorySpirit,
			expectedXP:  1.1, expectedCredits: 1.05,
		},
		{
			name:        "hybrid applies to every category",
			archetypeID: model.ArchetypeHybrid,
			category:    model.CategoryWork,
			expectedXP:  1.05, expectedCredits: 1,
		},
		{
			name:        "unknown id falls back to hybrid",
			archetypeID: model.ArchetypeID("necromancer"),
			category:    model.CategorySpirit,
			expectedXP:  1.05, expectedCredits: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bonus := ResolveArchetypeBonus(tt.archetypeID, tt.category)
			assert.InDelta(t, tt.expectedXP, bonus.XPMultiplier, 1e-9)
			assert.InDelta(t, tt.expectedCredits, bonus.CreditsMultiplier, 1e-9)
		})
	}
}

func TestArchetypeByID_Fallback(t *testing.T) {
	assert.Equal(t, model.ArchetypeHybrid, ArchetypeByID("").ID)
	assert.Equal(t, model.ArchetypeWarrior, ArchetypeByID(model.ArchetypeWarrior).ID)
}

func TestArchetypeCatalogFocusCategories(t *testing.T) {
	// Every archetype except hybrid carries at least one category-bound perk.
	for _, archetype := range Archetypes {
		if archetype.ID == model.ArchetypeHybrid {
			continue
		}
		bound := false
		for _, perk := range archetype.Perks {
			if perk.Effect.Category != nil {
				bound = true
			}
		}
		assert.True(t, bound, "archetype %s has no category-bound perk", archetype.ID)
	}
}
