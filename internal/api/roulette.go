package api

import (
	"errors"
	"net/http"

	"dopamind/internal/model"
	"dopamind/internal/service"
	"dopamind/pkg/auth"
	"dopamind/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type rouletteRoutes struct {
	rs *service.RouletteService
	a  *auth.JWTAuth
}

func NewRouletteRoutes(handler *gin.RouterGroup, rs *service.RouletteService, a *auth.JWTAuth) {
	r := &rouletteRoutes{rs: rs, a: a}
	h := handler.Group("/roulette")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/rewards", r.ListRewards)
		h.POST("/spin", r.Spin)
	}
}

type RouletteRewardResponse struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	XP     int    `json:"xp"`
	Rarity string `json:"rarity"`
}

func (r *rouletteRoutes) ListRewards(c *gin.Context) {
	response := make([]RouletteRewardResponse, len(service.RouletteRewards))
	for i, reward := range service.RouletteRewards {
		response[i] = RouletteRewardResponse{
			ID:     reward.ID,
			Text:   reward.Text,
			XP:     reward.XP,
			Rarity: string(reward.Rarity),
		}
	}

	c.JSON(http.StatusOK, response)
}

type SpinResponse struct {
	Reward       RouletteRewardResponse `json:"reward"`
	BonusTickets int                    `json:"bonus_tickets"`
}

func (r *rouletteRoutes) Spin(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	outcome, err := r.rs.Spin(c.Request.Context(), userData.ID)
	if err != nil {
		if errors.Is(err, service.ErrInsufficientTickets) {
			c.JSON(http.StatusForbidden, gin.H{"error": "no roulette tickets available"})
			return
		}
		log.Error("failed to spin roulette", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to spin"})
		return
	}

	c.JSON(http.StatusOK, SpinResponse{
		Reward: RouletteRewardResponse{
			ID:     outcome.Reward.ID,
			Text:   outcome.Reward.Text,
			XP:     outcome.Reward.XP,
			Rarity: string(outcome.Reward.Rarity),
		},
		BonusTickets: outcome.BonusTickets,
	})
}

type ActivateItemRequest struct {
	ItemName      string  `json:"item_name" binding:"required"`
	Price         int     `json:"price" binding:"required,gt=0"`
	Kind          string  `json:"kind" binding:"required"`
	Multiplier    float64 `json:"multiplier"`
	DurationHours int     `json:"duration_hours" binding:"required,gt=0"`
}

type shopRoutes struct {
	ps *service.ProfileService
	es *service.EffectService
	a  *auth.JWTAuth
}

func NewShopRoutes(handler *gin.RouterGroup, ps *service.ProfileService, es *service.EffectService, a *auth.JWTAuth) {
	r := &shopRoutes{ps: ps, es: es, a: a}
	h := handler.Group("/shop")
	h.Use(a.AuthMiddleware())
	{
		h.POST("/activate", r.ActivateItem)
		h.GET("/effects", r.ListEffects)
	}
}

func (r *shopRoutes) ActivateItem(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ActivateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	effect, err := r.ps.PurchaseBoost(c.Request.Context(), userData.ID, req.ItemName,
		req.Price, model.EffectKind(req.Kind), req.Multiplier, req.DurationHours)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientCredits):
			c.JSON(http.StatusForbidden, gin.H{"error": "not enough credits"})
		case errors.Is(err, service.ErrDuplicateEffect):
			c.JSON(http.StatusConflict, gin.H{"error": "an effect of this kind is already active"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			log.Error("failed to activate item", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to activate item"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         effect.ID.String(),
		"kind":       string(effect.Kind),
		"multiplier": effect.Multiplier,
		"expires_at": effect.ExpiresAt,
	})
}

func (r *shopRoutes) ListEffects(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	effects, err := r.es.GetActive(c.Request.Context(), userData.ID)
	if err != nil {
		log.Error("failed to list active effects", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list effects"})
		return
	}

	type effectResponse struct {
		ID         string  `json:"id"`
		Kind       string  `json:"kind"`
		ItemName   string  `json:"item_name"`
		Multiplier float64 `json:"multiplier"`
		ExpiresAt  string  `json:"expires_at"`
	}

	response := make([]effectResponse, len(effects))
	for i, effect := range effects {
		response[i] = effectResponse{
			ID:         effect.ID.String(),
			Kind:       string(effect.Kind),
			ItemName:   effect.ItemName,
			Multiplier: effect.Multiplier,
			ExpiresAt:  effect.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	c.JSON(http.StatusOK, response)
}
