package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/in-nis/planner/docs"
	"github.com/in-nis/planner/internal/metrics"
)

// @title           Curriculum Planner API
// @version         1.0
// @description     Lecturer scheduling, conflict detection, timelines, calendars and reports.
// @host            localhost:8000
// @BasePath        /api/v1

// SetupRouter registers every route. prom is optional; without it no request
// metrics are collected and /metrics is not served.
func SetupRouter(s *Server, prom *metrics.Prom) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if prom != nil {
		r.Use(prom.Middleware())
		r.GET("/metrics", prom.Handler())
	}

	// Public routes
	r.GET("/health", func(c *gin.Context) {
		if err := s.store.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "db_ping_error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/lecturers", s.ListLecturers)
		v1.POST("/lecturers", s.CreateLecturer)
		v1.GET("/lecturers/colors", s.LecturerColors)
		v1.DELETE("/lecturers/:id", s.DeleteLecturer)

		v1.GET("/availabilities", s.ListAvailabilities)
		v1.POST("/availabilities", s.AddAvailability)
		v1.DELETE("/availabilities/:id", s.DeleteAvailability)

		v1.GET("/courses", s.ListCourses)
		v1.GET("/courses/:id", s.GetCourse)
		v1.PUT("/courses/:id", s.UpdateCourse)
		v1.DELETE("/courses/:id", s.DeleteCourse)

		v1.GET("/curricula", s.ListCurricula)
		v1.POST("/curricula", s.CreateCurriculum)
		v1.GET("/curricula/template", s.CurriculumTemplate)
		v1.POST("/curricula/upload", s.UploadCurriculum)
		v1.POST("/curricula/:id/duplicate", s.DuplicateCurriculum)
		v1.PATCH("/curricula/:id/active", s.ToggleCurriculum)
		v1.PUT("/curricula/:id/name", s.RenameCurriculum)
		v1.POST("/curricula/:id/courses", s.AddCourse)

		v1.POST("/assignments", s.Assign)
		v1.GET("/conflicts", s.Conflicts)
		v1.POST("/audit", s.RunAudit)

		v1.GET("/timeline", s.Timeline)
		v1.GET("/reports", s.Report)
		v1.GET("/statistics", s.Statistics)

		v1.GET("/calendar/events", s.CalendarFeed)
		v1.GET("/calendar/ical", s.CalendarICal)
		v1.GET("/calendar/events/:kind/:id/ical", s.EventICal)

		v1.GET("/settings", s.GetSettings)
		v1.PUT("/settings", s.SaveSettings)
	}

	return r
}
