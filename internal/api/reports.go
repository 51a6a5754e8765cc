package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/excel"
	"github.com/in-nis/planner/internal/planner"
	"github.com/in-nis/planner/internal/render"
	"github.com/in-nis/planner/internal/report"
	"github.com/in-nis/planner/internal/timeline"
)

const (
	formatJSON = "json"
	formatXLSX = "xlsx"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var reportTitles = map[report.Type]string{
	report.Standard:     "Curriculum Report",
	report.ByLecturer:   "Lecturer Report",
	report.ByCurriculum: "Curriculum Overview",
}

// Timeline godoc
// @Summary      Timeline model
// @Description  Lays out the active courses as one row per curriculum batch, with month, weekend and availability bands
// @Tags         timeline
// @Produce      json
// @Param        lecturer_id    query     int     false  "Lecturer ID"
// @Param        curriculum_id  query     string  false  "Curriculum ID"
// @Param        start_date     query     string  false  "Range start (YYYY-MM-DD)"
// @Param        end_date       query     string  false  "Range end (YYYY-MM-DD)"
// @Success      200            {object}  timeline.Model
// @Failure      400            {object}  ErrorResponse
// @Failure      500            {object}  ErrorResponse
// @Router       /timeline [get]
func (s *Server) Timeline(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	m, err := s.buildTimeline(c, f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) buildTimeline(c *gin.Context, f timeline.Filter) (timeline.Model, error) {
	ctx := c.Request.Context()
	active := true
	courses, err := s.store.ListCourses(ctx, db.CourseFilter{Active: &active})
	if err != nil {
		return timeline.Model{}, err
	}
	windows, err := s.store.ListAvailabilities(ctx, db.AvailabilityFilter{})
	if err != nil {
		return timeline.Model{}, err
	}
	return s.timeline.Build(courses, windows, f), nil
}

// Report godoc
// @Summary      Export a report
// @Description  Builds a report over the active courses matching the filters. PDF falls back to HTML when unavailable; the X-Report-Fallback header is then set.
// @Tags         reports
// @Produce      json,html,application/pdf
// @Param        format                   query     string  false  "json, html, pdf or xlsx"  default(html)
// @Param        type                     query     string  false  "standard, lecturer or curriculum"
// @Param        include_statistics       query     bool    false  "Include statistics"  default(true)
// @Param        include_availabilities   query     bool    false  "Include availabilities"  default(true)
// @Param        lecturer_id              query     int     false  "Lecturer ID"
// @Param        curriculum_id            query     string  false  "Curriculum ID"
// @Param        start_date               query     string  false  "Range start (YYYY-MM-DD)"
// @Param        end_date                 query     string  false  "Range end (YYYY-MM-DD)"
// @Success      200                      {object}  report.Model
// @Failure      400                      {object}  ErrorResponse
// @Failure      404                      {object}  ErrorResponse
// @Failure      500                      {object}  ErrorResponse
// @Router       /reports [get]
func (s *Server) Report(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	typ, err := report.ParseType(strings.ToLower(strings.TrimSpace(c.Query("type"))))
	if err != nil {
		s.fail(c, err)
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", string(render.HTML))))
	switch format {
	case formatJSON, formatXLSX, string(render.HTML), string(render.PDF):
	default:
		s.fail(c, &planner.ValidationError{Msg: "format must be json, html, pdf or xlsx"})
		return
	}
	stats, ok := queryBool(c, "include_statistics", true)
	if !ok {
		return
	}
	windows, ok := queryBool(c, "include_availabilities", true)
	if !ok {
		return
	}

	courses, err := s.courses(c, f, true)
	if err != nil {
		s.fail(c, err)
		return
	}
	now := s.clock()
	m, err := report.Aggregate(c.Request.Context(), courses, report.Options{
		Type:                  typ,
		IncludeStatistics:     stats,
		IncludeAvailabilities: windows,
	}, s.store, now)
	if err != nil {
		s.fail(c, err)
		return
	}

	prefix := "report_" + string(typ)
	switch format {
	case formatJSON:
		s.rec.RecordExport("report", formatJSON)
		c.JSON(http.StatusOK, m)
		return
	case formatXLSX:
		var buf bytes.Buffer
		if err := excel.WriteReport(&buf, m); err != nil {
			s.fail(c, err)
			return
		}
		s.rec.RecordExport("report", formatXLSX)
		c.Header("Content-Disposition", `attachment; filename="`+prefix+"_"+now.Format("20060102_150405")+`.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
		return
	}

	tl, err := s.buildTimeline(c, f)
	if err != nil {
		s.fail(c, err)
		return
	}
	out, err := s.renderer.Render(render.Document{Title: reportTitles[typ], Report: m, Timeline: tl}, render.Format(format))
	if err != nil {
		s.fail(c, err)
		return
	}
	if out.FellBack {
		c.Header("X-Report-Fallback", string(out.Format))
	}
	s.rec.RecordExport("report", string(out.Format))
	disposition := "inline"
	if out.Format == render.PDF {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", disposition+`; filename="`+out.Filename(prefix, now)+`"`)
	c.Data(http.StatusOK, out.Format.ContentType(), out.Body)
}

// Statistics godoc
// @Summary      Statistics dashboard
// @Tags         reports
// @Produce      json
// @Success      200  {object}  report.Dashboard
// @Failure      500  {object}  ErrorResponse
// @Router       /statistics [get]
func (s *Server) Statistics(c *gin.Context) {
	ctx := c.Request.Context()
	courses, err := s.store.ListCourses(ctx, db.CourseFilter{})
	if err != nil {
		s.fail(c, err)
		return
	}
	lecturers, err := s.store.ListLecturers(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	n, err := s.store.CountCurricula(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report.BuildDashboard(report.DashboardInput{
		Courses:         courses,
		Lecturers:       lecturers,
		CurriculumCount: n,
	}, s.clock()))
}

// GetSettings godoc
// @Summary      Settings
// @Description  Returns every setting, defaults included
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  ErrorResponse
// @Router       /settings [get]
func (s *Server) GetSettings(c *gin.Context) {
	settings, err := s.planner.Settings(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SaveSettings godoc
// @Summary      Save settings
// @Description  Stores the given settings; keys not sent keep their value
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "Settings"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /settings [put]
func (s *Server) SaveSettings(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	settings, err := s.planner.SaveSettings(c.Request.Context(), body)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
