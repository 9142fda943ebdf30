package api

import (
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

type leagueRoutes struct {
	ls *service.LeagueService
	a  *auth.JWTAuth
}

func NewLeagueRoutes(handler *gin.RouterGroup, ls *service.LeagueService, a *auth.JWTAuth) {
	r := &leagueRoutes{ls: ls, a: a}
	h := handler.Group("/league")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.GetWeeklyStatus)
		h.GET("/leaderboard", r.GetLeaderboard)
	}
}

type TierResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	MinXP int    `json:"min_xp"`
	MaxXP *int   `json:"max_xp,omitempty"`
}

func tierResponse(tier model.LeagueTier) TierResponse {
	return TierResponse{
		ID:    tier.ID,
		Name:  tier.Name,
		MinXP: tier.MinXP,
		MaxXP: tier.MaxXP,
	}
}

type WeeklyStatusResponse struct {
	Tier           TierResponse  `json:"tier"`
	WeeklyXP       int           `json:"weekly_xp"`
	WeekStart      time.Time     `json:"week_start"`
	WeekEnd        time.Time     `json:"week_end"`
	ProgressToNext int           `json:"progress_to_next"`
	NextTier       *TierResponse `json:"next_tier,omitempty"`
}

func (r *leagueRoutes) GetWeeklyStatus(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	status, err := r.ls.WeeklyStatus(c.Request.Context(), userData.ID)
	if err != nil {
		log.Error("failed to get weekly league status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get league status"})
		return
	}

	response := WeeklyStatusResponse{
		Tier:           tierResponse(status.Tier),
		WeeklyXP:       status.WeeklyXP,
		WeekStart:      status.WeekStart,
		WeekEnd:        status.WeekEnd,
		ProgressToNext: status.ProgressToNext,
	}
	if status.NextTier != nil {
		next := tierResponse(*status.NextTier)
		response.NextTier = &next
	}

	c.JSON(http.StatusOK, response)
}

type LeaderboardEntryResponse struct {
	UserID   string `json:"user_id"`
	WeeklyXP int    `json:"weekly_xp"`
	Rank     int    `json:"rank"`
}

func (r *leagueRoutes) GetLeaderboard(c *gin.Context) {
	log := logger.Logger()

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 100
	}

	entries, err := r.ls.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		log.Error("failed to get leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	response := make([]LeaderboardEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = LeaderboardEntryResponse{
			UserID:   entry.UserID,
			WeeklyXP: entry.WeeklyXP,
			Rank:     entry.Rank,
		}
	}

	c.JSON(http.StatusOK, response)
}
