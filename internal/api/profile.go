package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"dopamind/internal/model"
	"dopamind/internal/service"
	"dopamind/pkg/auth"
	"dopamind/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type profileRoutes struct {
	ps *service.ProfileService
	a  *auth.JWTAuth
}

func NewProfileRoutes(handler *gin.RouterGroup, ps *service.ProfileService, a *auth.JWTAuth) {
	r := &profileRoutes{ps: ps, a: a}
	h := handler.Group("/profile")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.GetProfile)
		h.POST("", r.Register)
		h.POST("/archetype", r.SelectArchetype)
		h.POST("/streak", r.AdvanceStreak)
		h.GET("/history", r.GetHistory)
	}
}

type StatsResponse struct {
	Strength  int `json:"str"`
	Intellect int `json:"int"`
	Focus     int `json:"foc"`
	Spirit    int `json:"spi"`
	Charisma  int `json:"cha"`
}

type ProfileResponse struct {
	UserID          string        `json:"user_id"`
	Username        string        `json:"username"`
	TotalXP         int           `json:"total_xp"`
	AuraLevel       int           `json:"aura_level"`
	LevelXP         int           `json:"level_xp"`
	LevelXPNeeded   int           `json:"level_xp_needed"`
	Credits         int           `json:"credits"`
	Streak          int           `json:"streak"`
	RouletteTickets int           `json:"roulette_tickets"`
	ArchetypeID     string        `json:"archetype_id"`
	Stats           StatsResponse `json:"stats"`
}

func profileResponse(profile *model.Profile) ProfileResponse {
	levelXP, levelXPNeeded := model.LevelProgress(profile.TotalXP)
	return ProfileResponse{
		UserID:          profile.UserID,
		Username:        profile.Username,
		TotalXP:         profile.TotalXP,
		AuraLevel:       model.AuraLevel(profile.TotalXP),
		LevelXP:         levelXP,
		LevelXPNeeded:   levelXPNeeded,
		Credits:         profile.Credits,
		Streak:          profile.Streak,
		RouletteTickets: profile.RouletteTickets,
		ArchetypeID:     profile.ArchetypeID,
		Stats: StatsResponse{
			Strength:  profile.Stats.Strength,
			Intellect: profile.Stats.Intellect,
			Focus:     profile.Stats.Focus,
			Spirit:    profile.Stats.Spirit,
			Charisma:  profile.Stats.Charisma,
		},
	}
}

func (r *profileRoutes) GetProfile(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := r.ps.GetProfile(c.Request.Context(), userData.ID)
	if err != nil {
		log.Error("failed to get profile", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, profileResponse(profile))
}

func (r *profileRoutes) Register(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	profile, err := r.ps.RegisterProfile(c.Request.Context(), userData.ID, userData.Username)
	if err != nil {
		log.Error("failed to register profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register profile"})
		return
	}

	c.JSON(http.StatusCreated, profileResponse(profile))
}

type SelectArchetypeRequest struct {
	ArchetypeID string `json:"archetype_id" binding:"required"`
}

func (r *profileRoutes) SelectArchetype(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SelectArchetypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	err := r.ps.SelectArchetype(c.Request.Context(), userData.ID, model.ArchetypeID(req.ArchetypeID))
	if err != nil {
		log.Error("failed to select archetype", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to select archetype"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (r *profileRoutes) AdvanceStreak(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	streak, err := r.ps.AdvanceStreak(c.Request.Context(), userData.ID)
	if err != nil {
		log.Error("failed to advance streak", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to advance streak"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"streak": streak})
}

type LedgerEntryResponse struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Amount    int       `json:"amount"`
	Breakdown []string  `json:"breakdown"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *profileRoutes) GetHistory(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := r.ps.History(c.Request.Context(), userData.ID, limit)
	if err != nil {
		log.Error("failed to get reward history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get reward history"})
		return
	}

	response := make([]LedgerEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = LedgerEntryResponse{
			ID:        entry.ID.String(),
			Source:    entry.Source,
			Amount:    entry.Amount,
			Breakdown: entry.Breakdown,
			CreatedAt: entry.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}
