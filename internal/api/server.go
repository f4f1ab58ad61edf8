package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cadence/internal/schedule"
)

// UserHeader carries the caller's user id on every /api request.
const UserHeader = "X-User-ID"

const userKey = "cadence.user"

// Server is the cadence HTTP API
type Server struct {
	svc    *schedule.Service
	router *gin.Engine
}

// NewServer creates a new API server
func NewServer(svc *schedule.Service) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		svc:    svc,
		router: router,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api", requireUser)
	{
		api.GET("/calendar/events", s.handleEvents)
		api.GET("/calendar/day", s.handleDay)
		api.GET("/calendar/week", s.handleWeek)
		api.GET("/calendar/month", s.handleMonth)

		api.POST("/conflicts/check", s.handleCheck)

		api.POST("/time-blocks", s.handleCreateTimeBlock)
		api.PUT("/time-blocks/:id", s.handleMoveTimeBlock)
		api.DELETE("/time-blocks/:id", s.handleDeleteTimeBlock)

		api.POST("/tasks", s.handleCreateTask)
		api.PUT("/tasks/:id/schedule", s.handleScheduleTask)

		api.POST("/goals", s.handleCreateGoal)
		api.PUT("/goals/:id/dates", s.handleSetGoalDates)
		api.GET("/goals/:id/milestones", s.handleMilestones)
		api.GET("/goals/:id/tier", s.handleTier)
		api.DELETE("/goals/:id", s.handleDeleteGoal)
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requireUser(c *gin.Context) {
	userID := c.GetHeader(UserHeader)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   UserHeader + " header required",
		})
		return
	}
	c.Set(userKey, userID)
	c.Next()
}

func userID(c *gin.Context) string {
	return c.GetString(userKey)
}
