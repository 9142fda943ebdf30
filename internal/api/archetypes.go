package api

import (
	"net/http"

	"dopamind/internal/service"

	"github.com/gin-gonic/gin"
)

type PerkResponse struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category *string  `json:"category,omitempty"`
	XPMult   float64  `json:"xp_multiplier,omitempty"`
	CredMult float64  `json:"credits_multiplier,omitempty"`
}

type ArchetypeResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Focus       string         `json:"focus"`
	Perks       []PerkResponse `json:"perks"`
}

// NewArchetypeRoutes exposes the static catalog. No auth: the catalog is the
// same for everyone.
func NewArchetypeRoutes(handler *gin.RouterGroup) {
	handler.GET("/archetypes", func(c *gin.Context) {
		response := make([]ArchetypeResponse, len(service.Archetypes))
		for i, archetype := range service.Archetypes {
			perks := make([]PerkResponse, len(archetype.Perks))
			for j, perk := range archetype.Perks {
				perks[j] = PerkResponse{
					ID:       perk.ID,
					Title:    perk.Title,
					XPMult:   perk.Effect.XPMultiplier,
					CredMult: perk.Effect.CreditsMultiplier,
				}
				if perk.Effect.Category != nil {
					category := string(*perk.Effect.Category)
					perks[j].Category = &category
				}
			}
			response[i] = ArchetypeResponse{
				ID:          string(archetype.ID),
				Name:        archetype.Name,
				Description: archetype.Description,
				Focus:       archetype.Focus,
				Perks:       perks,
			}
		}
		c.JSON(http.StatusOK, response)
	})
}
