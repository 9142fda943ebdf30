package api

import (
	"errors"
	"net/http"
	"time"

	"dopamind/internal/middleware"
	"dopamind/internal/model"
	"dopamind/internal/service"
	"dopamind/pkg/auth"
	"dopamind/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type bossRoutes struct {
	bs   *service.BossService
	a    *auth.JWTAuth
	feed *RaidFeed
}

func NewBossRoutes(handler *gin.RouterGroup, bs *service.BossService, a *auth.JWTAuth, adminGuard *middleware.Authorization, feed *RaidFeed) {
	r := &bossRoutes{bs: bs, a: a, feed: feed}
	h := handler.Group("/boss")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.GetActiveRaid)
		h.GET("/:raid_id/contribution", r.GetContribution)
		h.GET("/:raid_id/top", r.GetTopContributors)
		h.POST("/:raid_id/claim", r.ClaimReward)
	}

	// The live HP feed carries no per-user data, so it skips auth the way
	// a spectator view would.
	handler.GET("/boss/ws", func(c *gin.Context) {
		r.feed.Handle(c.Writer, c.Request)
	})

	admin := handler.Group("/admin/boss")
	admin.Use(a.AuthMiddleware(), adminGuard.AdminOnly())
	admin.POST("", r.CreateRaid)
}

type BossRaidResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	TotalHP       int       `json:"total_hp"`
	CurrentHP     int       `json:"current_hp"`
	Status        string    `json:"status"`
	WeekStart     time.Time `json:"week_start"`
	WeekEnd       time.Time `json:"week_end"`
	RewardXP      int       `json:"reward_xp"`
	RewardCredits int       `json:"reward_credits"`
	RewardTickets int       `json:"reward_tickets"`
	Participants  int       `json:"participants"`
}

func bossRaidResponse(raid *model.BossRaid) BossRaidResponse {
	return BossRaidResponse{
		ID:            raid.ID.String(),
		Name:          raid.Name,
		Description:   raid.Description,
		TotalHP:       raid.TotalHP,
		CurrentHP:     raid.CurrentHP,
		Status:        string(raid.Status),
		WeekStart:     raid.WeekStart,
		WeekEnd:       raid.WeekEnd,
		RewardXP:      raid.RewardXP,
		RewardCredits: raid.RewardCredits,
		RewardTickets: raid.RewardTickets,
		Participants:  raid.Participants,
	}
}

func (r *bossRoutes) GetActiveRaid(c *gin.Context) {
	log := logger.Logger()

	raid, err := r.bs.ActiveRaid(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrRaidNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active boss raid"})
			return
		}
		log.Error("failed to get active raid", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get active raid"})
		return
	}

	c.JSON(http.StatusOK, bossRaidResponse(raid))
}

type ContributionResponse struct {
	UserID         string    `json:"user_id"`
	DamageDealt    int       `json:"damage_dealt"`
	TasksCompleted int       `json:"tasks_completed"`
	FocusMinutes   int       `json:"focus_minutes"`
	LastAt         time.Time `json:"last_contribution_at"`
}

func (r *bossRoutes) GetContribution(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	raidID, err := uuid.Parse(c.Param("raid_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raid_id"})
		return
	}

	contribution, err := r.bs.Contribution(c.Request.Context(), raidID, userData.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoContribution) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no contribution"})
			return
		}
		log.Error("failed to get contribution", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get contribution"})
		return
	}

	c.JSON(http.StatusOK, ContributionResponse{
		UserID:         contribution.UserID,
		DamageDealt:    contribution.DamageDealt,
		TasksCompleted: contribution.TasksCompleted,
		FocusMinutes:   contribution.FocusMinutes,
		LastAt:         contribution.LastContributionAt,
	})
}

func (r *bossRoutes) GetTopContributors(c *gin.Context) {
	log := logger.Logger()

	raidID, err := uuid.Parse(c.Param("raid_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raid_id"})
		return
	}

	contributions, err := r.bs.TopContributors(c.Request.Context(), raidID, 10)
	if err != nil {
		log.Error("failed to get top contributors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get top contributors"})
		return
	}

	response := make([]ContributionResponse, len(contributions))
	for i, contribution := range contributions {
		response[i] = ContributionResponse{
			UserID:         contribution.UserID,
			DamageDealt:    contribution.DamageDealt,
			TasksCompleted: contribution.TasksCompleted,
			FocusMinutes:   contribution.FocusMinutes,
			LastAt:         contribution.LastContributionAt,
		}
	}

	c.JSON(http.StatusOK, response)
}

type RaidRewardResponse struct {
	XP         int     `json:"xp"`
	Credits    int     `json:"credits"`
	Tickets    int     `json:"tickets"`
	Multiplier float64 `json:"multiplier"`
	SharePct   float64 `json:"share_pct"`
}

func (r *bossRoutes) ClaimReward(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	raidID, err := uuid.Parse(c.Param("raid_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid raid_id"})
		return
	}

	reward, err := r.bs.ClaimReward(c.Request.Context(), raidID, userData.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRaidNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "raid not found"})
		case errors.Is(err, service.ErrRaidNotDefeated):
			c.JSON(http.StatusConflict, gin.H{"error": "raid is not defeated"})
		case errors.Is(err, service.ErrNoContribution):
			c.JSON(http.StatusForbidden, gin.H{"error": "no contribution to this raid"})
		case errors.Is(err, service.ErrRewardAlreadyClaimed):
			c.JSON(http.StatusConflict, gin.H{"error": "reward already claimed"})
		default:
			log.Error("failed to claim raid reward", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim reward"})
		}
		return
	}

	c.JSON(http.StatusOK, RaidRewardResponse{
		XP:         reward.XP,
		Credits:    reward.Credits,
		Tickets:    reward.Tickets,
		Multiplier: reward.Multiplier,
		SharePct:   reward.SharePct,
	})
}

type CreateRaidRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	TotalHP       int    `json:"total_hp" binding:"required,gt=0"`
	RewardXP      int    `json:"reward_xp" binding:"required,gt=0"`
	RewardCredits int    `json:"reward_credits"`
	RewardTickets int    `json:"reward_tickets"`
}

func (r *bossRoutes) CreateRaid(c *gin.Context) {
	log := logger.Logger()

	var req CreateRaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	raid, err := r.bs.RotateWeekly(c.Request.Context(), req.Name, req.Description,
		req.TotalHP, req.RewardXP, req.RewardCredits, req.RewardTickets)
	if err != nil {
		log.Error("failed to create raid", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create raid"})
		return
	}

	c.JSON(http.StatusCreated, bossRaidResponse(raid))
}
