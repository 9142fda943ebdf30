package api

import (
	"net/http"

	"dopamind/internal/service"
	"dopamind/pkg/auth"
	"dopamind/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type goalRoutes struct {
	gs *service.GoalService
	a  *auth.JWTAuth
}

func NewGoalRoutes(handler *gin.RouterGroup, gs *service.GoalService, a *auth.JWTAuth) {
	r := &goalRoutes{gs: gs, a: a}
	h := handler.Group("/goals")
	h.Use(a.AuthMiddleware())
	h.GET("", r.ListGoals)
}

func (r *goalRoutes) ListGoals(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	goals, err := r.gs.LoadActive(c.Request.Context(), userData.ID)
	if err != nil {
		log.Error("failed to load goals", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load goals"})
		return
	}

	c.JSON(http.StatusOK, goalResponses(goals))
}
