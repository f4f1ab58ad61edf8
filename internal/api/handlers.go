package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cadence/internal/milestone"
	"cadence/internal/schedule"
	"cadence/internal/store"
	"cadence/internal/timeline"
)

type checkRequest struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	ExcludeID string    `json:"exclude_id"`
}

type scheduleRequest struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type goalRequest struct {
	Title      string `json:"title"`
	StartDate  string `json:"start_date" binding:"required"`
	TargetDate string `json:"target_date" binding:"required"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"status":  "ok",
		"policy":  s.svc.Policy(),
	})
}

// Calendar views

func (s *Server) handleEvents(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		badRequest(c, fmt.Errorf("start must be RFC3339: %w", err))
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		badRequest(c, fmt.Errorf("end must be RFC3339: %w", err))
		return
	}
	if end.Before(start) {
		badRequest(c, schedule.ErrInvalidInterval)
		return
	}

	events, err := s.svc.Events(c.Request.Context(), userID(c), timeline.Range{Start: start, End: end})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"events":  events,
		"count":   len(events),
	})
}

func (s *Server) handleDay(c *gin.Context) {
	date, ok := s.queryDate(c)
	if !ok {
		return
	}
	view, err := s.svc.Day(c.Request.Context(), userID(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
}

func (s *Server) handleWeek(c *gin.Context) {
	date, ok := s.queryDate(c)
	if !ok {
		return
	}
	view, err := s.svc.Week(c.Request.Context(), userID(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
}

func (s *Server) handleMonth(c *gin.Context) {
	date, ok := s.queryDate(c)
	if !ok {
		return
	}
	view, err := s.svc.Month(c.Request.Context(), userID(c), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": view})
}

// Conflicts and writes

func (s *Server) handleCheck(c *gin.Context) {
	var req checkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Start.IsZero() || req.End.IsZero() {
		badRequest(c, fmt.Errorf("start and end are required: %w", schedule.ErrInvalidInterval))
		return
	}
	conflicts, err := s.svc.Check(c.Request.Context(), userID(c), req.Start, req.End, req.ExcludeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"has_conflicts": len(conflicts) > 0,
		"has_protected": conflicts.HasProtected(),
		"conflicts":     conflicts,
	})
}

func (s *Server) handleCreateTimeBlock(c *gin.Context) {
	var req schedule.BlockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	block, conflicts, err := s.svc.CreateTimeBlock(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"data":      block,
		"conflicts": conflicts,
	})
}

func (s *Server) handleMoveTimeBlock(c *gin.Context) {
	var req schedule.BlockInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	block, conflicts, err := s.svc.MoveTimeBlock(c.Request.Context(), userID(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      block,
		"conflicts": conflicts,
	})
}

func (s *Server) handleDeleteTimeBlock(c *gin.Context) {
	if err := s.svc.DeleteTimeBlock(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Time block deleted",
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req schedule.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, conflicts, err := s.svc.CreateTask(c.Request.Context(), userID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"data":      task,
		"conflicts": conflicts,
	})
}

func (s *Server) handleScheduleTask(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	task, conflicts, err := s.svc.ScheduleTask(c.Request.Context(), userID(c), c.Param("id"), req.Start, req.End)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"data":      task,
		"conflicts": conflicts,
	})
}

// Goals

func (s *Server) handleCreateGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	start, target, err := s.goalDates(req)
	if err != nil {
		badRequest(c, err)
		return
	}
	plan, err := s.svc.CreateGoal(c.Request.Context(), userID(c), schedule.GoalInput{
		Title:      req.Title,
		StartDate:  start,
		TargetDate: target,
	})
	if err != nil {
		respondPlanError(c, plan, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": plan})
}

func (s *Server) handleSetGoalDates(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	start, target, err := s.goalDates(req)
	if err != nil {
		badRequest(c, err)
		return
	}
	plan, err := s.svc.SetGoalDates(c.Request.Context(), userID(c), c.Param("id"), start, target)
	if err != nil {
		respondPlanError(c, plan, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": plan})
}

func (s *Server) handleMilestones(c *gin.Context) {
	plan, err := s.svc.Milestones(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": plan})
}

func (s *Server) handleTier(c *gin.Context) {
	tier, active, err := s.svc.Tier(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"tier":       tier,
		"milestones": active,
	})
}

func (s *Server) handleDeleteGoal(c *gin.Context) {
	if err := s.svc.DeleteGoal(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Goal deleted",
	})
}

// Helpers

func (s *Server) queryDate(c *gin.Context) (time.Time, bool) {
	value := c.Query("date")
	if value == "" {
		return time.Now().In(s.svc.Location()), true
	}
	date, err := timeline.ParseDate(value, s.svc.Location())
	if err != nil {
		badRequest(c, fmt.Errorf("date must be YYYY-MM-DD: %w", err))
		return time.Time{}, false
	}
	return date, true
}

func (s *Server) goalDates(req goalRequest) (time.Time, time.Time, error) {
	start, err := timeline.ParseDate(req.StartDate, s.svc.Location())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date must be YYYY-MM-DD: %w", err)
	}
	target, err := timeline.ParseDate(req.TargetDate, s.svc.Location())
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("target_date must be YYYY-MM-DD: %w", err)
	}
	return start, target, nil
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// respondPlanError reports a failed goal write. A coach failure happens
// after the goal and milestones are committed, so the plan is returned with
// the error and the client keeps the goal id.
func respondPlanError(c *gin.Context, plan *schedule.GoalPlan, err error) {
	var coachErr *schedule.CoachError
	if plan != nil && errors.As(err, &coachErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   err.Error(),
			"data":    plan,
		})
		return
	}
	respondError(c, err)
}

// respondError maps service errors onto status codes.
func respondError(c *gin.Context, err error) {
	var conflictErr *schedule.ConflictError
	var coachErr *schedule.CoachError
	switch {
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"success":   false,
			"error":     err.Error(),
			"policy":    conflictErr.Policy,
			"conflicts": conflictErr.Conflicts,
		})
	case errors.As(err, &coachErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   err.Error(),
		})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
	case errors.Is(err, schedule.ErrInvalidInterval),
		errors.Is(err, schedule.ErrInvalidInput),
		errors.Is(err, milestone.ErrTargetBeforeStart):
		badRequest(c, err)
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
	}
}
