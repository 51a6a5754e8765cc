package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/planner/internal/calendar"
	"github.com/in-nis/planner/internal/config"
	"github.com/in-nis/planner/internal/conflict"
	"github.com/in-nis/planner/internal/cron"
	"github.com/in-nis/planner/internal/curriculum"
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/excel"
	"github.com/in-nis/planner/internal/logger"
	"github.com/in-nis/planner/internal/metrics"
	"github.com/in-nis/planner/internal/models"
	"github.com/in-nis/planner/internal/planner"
	"github.com/in-nis/planner/internal/render"
	"github.com/in-nis/planner/internal/report"
	"github.com/in-nis/planner/internal/timeline"
)

// Server holds the services behind the HTTP handlers.
type Server struct {
	store     *db.Store
	planner   *planner.Service
	curricula *curriculum.Service
	parser    *excel.Parser
	timeline  *timeline.Engine
	renderer  *render.Service
	calendar  *calendar.Exporter
	auditor   *cron.Auditor
	rec       metrics.Recorder
	log       logger.Logger
	clock     dates.Clock
}

// NewServer wires the services for cfg. rec may be nil.
func NewServer(cfg *config.Config, store *db.Store, log logger.Logger, rec metrics.Recorder) (*Server, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	clock := dates.SystemClock
	html, err := render.NewHTMLRenderer(clock)
	if err != nil {
		return nil, err
	}
	return &Server{
		store:     store,
		planner:   planner.NewService(store, log, rec),
		curricula: curriculum.NewService(store, log),
		parser:    excel.NewParser(log),
		timeline:  timeline.NewEngine(clock),
		renderer:  render.NewService(html, render.NewPDFRenderer(cfg.Report.PDFEnabled), log),
		calendar:  calendar.NewExporter(cfg.Calendar),
		auditor:   cron.NewAuditor(store, log, rec),
		rec:       rec,
		log:       log,
		clock:     clock,
	}, nil
}

// Auditor is shared with the scheduled audit job.
func (s *Server) Auditor() *cron.Auditor { return s.auditor }

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges a write.
type MessageResponse struct {
	Message string `json:"message"`
}

// fail maps an error to a status code. Input and conflict errors carry their
// message; store errors are logged and answered generically.
func (s *Server) fail(c *gin.Context, err error) {
	var ve *planner.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, curriculum.ErrInvalidInput),
		errors.Is(err, timeline.ErrInvalidFilter),
		errors.Is(err, report.ErrUnknownType),
		errors.Is(err, calendar.ErrUnknownKind),
		errors.Is(err, excel.ErrMissingColumns),
		errors.Is(err, excel.ErrNoCourses):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, report.ErrNothingToReport):
		c.JSON(http.StatusNotFound, gin.H{"error": "No courses match the selection"})
	case errors.Is(err, conflict.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// pathID reads a positive numeric path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryBool reads a boolean query value, using fallback when absent.
func queryBool(c *gin.Context, name string, fallback bool) (bool, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		badRequest(c, "Invalid "+name)
		return false, false
	}
	return v, true
}

// parseDay reads a yyyy-mm-dd request value.
func parseDay(field, raw string) (time.Time, error) {
	t, err := dates.ParseDay(raw)
	if err != nil {
		return time.Time{}, &planner.ValidationError{Msg: field + ": " + err.Error()}
	}
	return t, nil
}

// filterFromQuery reads lecturer_id, curriculum_id, start_date and end_date.
func filterFromQuery(c *gin.Context) (timeline.Filter, error) {
	return timeline.ParseFilter(c.Query("lecturer_id"), c.Query("curriculum_id"), c.Query("start_date"), c.Query("end_date"))
}

// courses loads the courses matching f. Active-only curriculum lookups are
// served from the curriculum cache.
func (s *Server) courses(c *gin.Context, f timeline.Filter, activeOnly bool) ([]models.Course, error) {
	ctx := c.Request.Context()
	if activeOnly && f.CurriculumID != nil && f.LecturerID == nil && f.DateRange == nil {
		return s.store.CurriculumCourses(ctx, *f.CurriculumID)
	}
	q := db.CourseFilter{LecturerID: f.LecturerID, CurriculumID: f.CurriculumID}
	if activeOnly {
		active := true
		q.Active = &active
	}
	if r := f.DateRange; r != nil {
		q.From, q.To = &r.Start, &r.End
	}
	return s.store.ListCourses(ctx, q)
}
