package api

import (
	"errors"
	"net/http"
	"time"

	"dopamind/internal/model"
	"dopamind/internal/service"
	"dopamind/pkg/auth"
	"dopamind/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type taskRoutes struct {
	ps   *service.ProfileService
	a    *auth.JWTAuth
	feed *RaidFeed
}

func NewTaskRoutes(handler *gin.RouterGroup, ps *service.ProfileService, a *auth.JWTAuth, feed *RaidFeed) {
	r := &taskRoutes{ps: ps, a: a, feed: feed}
	h := handler.Group("/tasks")
	h.Use(a.AuthMiddleware())
	{
		h.GET("", r.ListTasks)
		h.POST("", r.CreateTask)
		h.POST("/:task_id/complete", r.CompleteTask)
	}

	f := handler.Group("/focus")
	f.Use(a.AuthMiddleware())
	f.POST("", r.SettleFocus)
}

type TaskResponse struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Category         string     `json:"category"`
	XP               int        `json:"xp"`
	IsCompleted      bool       `json:"is_completed"`
	RequiresEvidence bool       `json:"requires_evidence"`
	GrantsTicket     bool       `json:"grants_ticket"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

func taskResponse(task *model.Task) TaskResponse {
	return TaskResponse{
		ID:               task.ID.String(),
		Title:            task.Title,
		Category:         string(task.Category),
		XP:               task.XP,
		IsCompleted:      task.IsCompleted,
		RequiresEvidence: task.RequiresEvidence,
		GrantsTicket:     task.GrantsTicket,
		CompletedAt:      task.CompletedAt,
	}
}

func (r *taskRoutes) ListTasks(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	tasks, err := r.ps.TasksForToday(c.Request.Context(), userData.ID)
	if err != nil {
		log.Error("failed to list tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tasks"})
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = taskResponse(task)
	}

	c.JSON(http.StatusOK, response)
}

type CreateTaskRequest struct {
	Title            string `json:"title" binding:"required"`
	Category         string `json:"category" binding:"required"`
	XP               int    `json:"xp" binding:"required,gt=0"`
	RequiresEvidence bool   `json:"requires_evidence"`
	GrantsTicket     bool   `json:"grants_ticket"`
}

func (r *taskRoutes) CreateTask(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := r.ps.CreateTask(c.Request.Context(), userData.ID, req.Title,
		model.TaskCategory(req.Category), req.XP, req.RequiresEvidence, req.GrantsTicket)
	if err != nil {
		log.Error("failed to create task", zap.Error(err))
		if errors.Is(err, service.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	c.JSON(http.StatusCreated, taskResponse(task))
}

type GoalResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Period      string    `json:"period"`
	Progress    int       `json:"progress"`
	Target      int       `json:"target"`
	Completed   bool      `json:"completed"`
	RewardXP    int       `json:"reward_xp"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func goalResponses(goals []*model.Goal) []GoalResponse {
	response := make([]GoalResponse, len(goals))
	for i, goal := range goals {
		response[i] = GoalResponse{
			ID:          goal.ID,
			Title:       goal.Title,
			Description: goal.Description,
			Period:      string(goal.Period),
			Progress:    goal.Progress,
			Target:      goal.Requirement.Target,
			Completed:   goal.Completed,
			RewardXP:    goal.Reward.XP,
			ExpiresAt:   goal.ExpiresAt,
		}
	}
	return response
}

type CompletionResponse struct {
	Task           TaskResponse   `json:"task,omitempty"`
	XP             int            `json:"xp"`
	Credits        int            `json:"credits"`
	Breakdown      []string       `json:"breakdown"`
	PerfectDay     bool           `json:"perfect_day"`
	CompletedGoals []GoalResponse `json:"completed_goals"`
	BossNewHP      *int           `json:"boss_new_hp,omitempty"`
	BossDefeated   bool           `json:"boss_defeated,omitempty"`
}

func completionResponse(result *service.CompletionResult) CompletionResponse {
	response := CompletionResponse{
		XP:             result.Reward.XP,
		Credits:        result.Reward.Credits,
		Breakdown:      result.Reward.Breakdown,
		PerfectDay:     result.PerfectDay,
		CompletedGoals: goalResponses(result.CompletedGoals),
	}
	if result.Task != nil {
		response.Task = taskResponse(result.Task)
	}
	if result.BossDamage != nil {
		response.BossNewHP = &result.BossDamage.NewHP
		response.BossDefeated = result.BossDamage.Defeated
	}
	return response
}

func (r *taskRoutes) CompleteTask(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task_id"})
		return
	}

	result, err := r.ps.CompleteTask(c.Request.Context(), userData.ID, taskID)
	if err != nil {
		log.Error("failed to complete task", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, service.ErrTaskAlreadyCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "task already completed"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete task"})
		}
		return
	}

	r.feed.BroadcastDamage(userData.ID, result.BossDamage)

	c.JSON(http.StatusOK, completionResponse(result))
}

type SettleFocusRequest struct {
	Minutes   int       `json:"minutes" binding:"required,gt=0"`
	StartedAt time.Time `json:"started_at" binding:"required"`
}

func (r *taskRoutes) SettleFocus(c *gin.Context) {
	log := logger.Logger()

	userData, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SettleFocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := r.ps.SettleFocusSession(c.Request.Context(), userData.ID, req.Minutes, req.StartedAt)
	if err != nil {
		log.Error("failed to settle focus session", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to settle focus session"})
		return
	}

	r.feed.BroadcastDamage(userData.ID, result.BossDamage)

	c.JSON(http.StatusOK, completionResponse(result))
}
