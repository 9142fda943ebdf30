package service

import "dopamind/internal/model"

func categoryPtr(c model.TaskCategory) *model.TaskCategory {
	return &c
}

// Archetypes is the static catalog. The last entry (hybrid) doubles as the
// fallback for unknown or unset archetype ids.
var Archetypes = []model.Archetype{
	{
		ID:          model.ArchetypeWarrior,
		Name:        "Warrior",
		Description: "Physical discipline, raw power and bodily consistency.",
		Focus:       "Body",
		Perks: []model.ArchetypePerk{
			{
				ID:     "warrior-xp-body",
				Title:  "+10% XP (Body)",
				Effect: model.PerkEffect{XPMultiplier: 1.1, Category: categoryPtr(model.CategoryBody)},
			},
			{
				ID:     "warrior-credits-body",
				Title:  "+5% Credits (Body)",
				Effect: model.PerkEffect{CreditsMultiplier: 1.05, Category: categoryPtr(model.CategoryBody)},
			},
		},
	},
	{
		ID:          model.ArchetypeSage,
		Name:        "Sage",
		Description: "Sharp mind, deep study and constant learning.",
		Focus:       "Mind",
		Perks: []model.ArchetypePerk{
			{
				ID:     "sage-xp-mind",
				Title:  "+10% XP (Mind)",
				Effect: model.PerkEffect{XPMultiplier: 1.1, Category: categoryPtr(model.CategoryMind)},
			},
			{
				ID:     "sage-xp-all",
				Title:  "+5% XP (All)",
				Effect: model.PerkEffect{XPMultiplier: 1.05},
			},
		},
	},
	{
		ID:          model.ArchetypeMonk,
		Name:        "Monk",
		Description: "Inner balance and continuous spiritual growth.",
		Focus:       "Spirit",
		Perks: []model.ArchetypePerk{
			{
				ID:     "monk-xp-spirit",
				Title:  "+10% XP (Spirit)",
				Effect: model.PerkEffect{XPMultiplier: 1.1, Category: categoryPtr(model.CategorySpirit)},
			},
			{
				ID:     "monk-credits-spirit",
				Title:  "+5% Credits (Spirit)",
				Effect: model.PerkEffect{CreditsMultiplier: 1.05, Category: categoryPtr(model.CategorySpirit)},
			},
		},
	},
	{
		ID:          model.ArchetypeArchitect,
		Name:        "Architect",
		Description: "Daily building, deep focus and flawless execution.",
		Focus:       "Work",
		Perks: []model.ArchetypePerk{
			{
				ID:     "architect-xp-work",
				Title:  "+10% XP (Work)",
				Effect: model.PerkEffect{XPMultiplier: 1.1, Category: categoryPtr(model.CategoryWork)},
			},
			{
				ID:     "architect-credits-work",
				Title:  "+5% Credits (Work)",
				Effect: model.PerkEffect{CreditsMultiplier: 1.05, Category: categoryPtr(model.CategoryWork)},
			},
		},
	},
	{
		ID:          model.ArchetypeBard,
		Name:        "Bard",
		Description: "Connections, charisma and an elevated social life.",
		Focus:       "Life",
		Perks: []model.ArchetypePerk{
			{
				ID:     "bard-xp-life",
				Title:  "+10% XP (Life)",
				Effect: model.PerkEffect{XPMultiplier: 1.1, Category: categoryPtr(model.CategoryLife)},
			},
			{
				ID:     "bard-xp-all",
				Title:  "+5% XP (All)",
				Effect: model.PerkEffect{XPMultiplier: 1.05},
			},
		},
	},
	{
		ID:          model.ArchetypeHybrid,
		Name:        "Hybrid",
		Description: "Balance across every attribute.",
		Focus:       "Balanced",
		Perks: []model.ArchetypePerk{
			{
				ID:     "hybrid-xp-all",
				Title:  "+5% XP (All)",
				Effect: model.PerkEffect{XPMultiplier: 1.05},
			},
		},
	},
}

// ArchetypeByID returns the catalog entry for the id, falling back to hybrid
// for anything unknown.
func ArchetypeByID(id model.ArchetypeID) model.Archetype {
	for _, archetype := range Archetypes {
		if archetype.ID == id {
			return archetype
		}
	}
	return Archetypes[len(Archetypes)-1]
}

// ResolveArchetypeBonus composes every perk applicable to the category into
// one multiplier pair. Perks without a category always apply; applicable
// perks stack multiplicatively. Never fails: no matching perk means 1.0.
func ResolveArchetypeBonus(id model.ArchetypeID, category model.TaskCategory) model.ArchetypeBonus {
	archetype := ArchetypeByID(id)

	bonus := model.ArchetypeBonus{XPMultiplier: 1, CreditsMultiplier: 1}
	for _, perk := range archetype.Perks {
		if perk.Effect.Category != nil && *perk.Effect.Category != category {
			continue
		}
		if perk.Effect.XPMultiplier != 0 {
			bonus.XPMultiplier *= perk.Effect.XPMultiplier
		}
		if perk.Effect.CreditsMultiplier != 0 {
			bonus.CreditsMultiplier *= perk.Effect.CreditsMultiplier
		}
	}

	return bonus
}
