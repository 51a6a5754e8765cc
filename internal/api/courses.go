package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/planner/internal/conflict"
	"github.com/in-nis/planner/internal/curriculum"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/models"
	"github.com/in-nis/planner/internal/planner"
)

const maxUploadBytes = 10 << 20

// ListCourses godoc
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Param        lecturer_id    query     int     false  "Lecturer ID"
// @Param        curriculum_id  query     string  false  "Curriculum ID"
// @Param        start_date     query     string  false  "Range start (YYYY-MM-DD)"
// @Param        end_date       query     string  false  "Range end (YYYY-MM-DD)"
// @Param        active         query     bool    false  "Only courses shown on the timeline"
// @Success      200            {array}   models.Course
// @Failure      400            {object}  ErrorResponse
// @Failure      500            {object}  ErrorResponse
// @Router       /courses [get]
func (s *Server) ListCourses(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	activeOnly, ok := queryBool(c, "active", false)
	if !ok {
		return
	}
	courses, err := s.courses(c, f, activeOnly)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        id   path      int  true  "Course ID"
// @Success      200  {object}  models.Course
// @Failure      404  {object}  ErrorResponse
// @Router       /courses/{id} [get]
func (s *Server) GetCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	course, err := s.store.GetCourse(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// CourseBody carries the editable fields of a course.
type CourseBody struct {
	Topic     string `json:"topic"`
	StartDate string `json:"start_date" example:"2024-01-08"`
	EndDate   string `json:"end_date" example:"2024-01-12"`
}

func (b CourseBody) dates() (start, end time.Time, err error) {
	if start, err = parseDay("start_date", b.StartDate); err != nil {
		return
	}
	end, err = parseDay("end_date", b.EndDate)
	return
}

// UpdateCourse godoc
// @Summary      Update a course
// @Description  Changes topic and dates. An assigned lecturer must stay free of overlaps.
// @Tags         courses
// @Accept       json
// @Produce      json
// @Param        id    path      int         true  "Course ID"
// @Param        body  body      CourseBody  true  "Course"
// @Success      200   {object}  models.Course
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /courses/{id} [put]
func (s *Server) UpdateCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body CourseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	start, end, err := body.dates()
	if err != nil {
		s.fail(c, err)
		return
	}
	course, err := s.planner.UpdateCourse(c.Request.Context(), id, planner.CourseUpdate{Topic: body.Topic, StartDate: start, EndDate: end})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Param        id   path      int  true  "Course ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /courses/{id} [delete]
func (s *Server) DeleteCourse(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.planner.DeleteCourse(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}

// ListCurricula godoc
// @Summary      List curricula
// @Description  Returns every curriculum with its span, course count and display name
// @Tags         curricula
// @Produce      json
// @Param        active  query     bool  false  "Only curricula with courses on the timeline"
// @Success      200     {array}   models.CurriculumSummary
// @Failure      500     {object}  ErrorResponse
// @Router       /curricula [get]
func (s *Server) ListCurricula(c *gin.Context) {
	activeOnly, ok := queryBool(c, "active", false)
	if !ok {
		return
	}
	sums, err := s.store.CurriculumSummaries(c.Request.Context(), activeOnly)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sums)
}

// CurriculumTemplate godoc
// @Summary      Download the CSV template
// @Tags         curricula
// @Produce      text/csv
// @Success      200  {string}  string
// @Router       /curricula/template [get]
func (s *Server) CurriculumTemplate(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="`+curriculum.TemplateFilename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(curriculum.Template))
}

// UploadCurriculum godoc
// @Summary      Upload a curriculum
// @Description  Imports a CSV or XLSX file with the columns Thema, Startdatum, Enddatum. The curriculum is shifted to start_date; duplicates adds back-to-back copies.
// @Tags         curricula
// @Accept       multipart/form-data
// @Produce      json
// @Param        file        formData  file    true   "CSV or XLSX file"
// @Param        start_date  formData  string  true   "New start date (YYYY-MM-DD)"
// @Param        duplicates  formData  int     false  "Number of copies"
// @Param        active      formData  bool    false  "Show on the timeline (default true)"
// @Param        name        formData  string  false  "Display name"
// @Success      201         {object}  curriculum.ImportResult
// @Failure      400         {object}  ErrorResponse
// @Failure      500         {object}  ErrorResponse
// @Router       /curricula/upload [post]
func (s *Server) UploadCurriculum(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "No file uploaded")
		return
	}
	if fh.Size > maxUploadBytes {
		badRequest(c, "File too large")
		return
	}
	start, err := parseDay("start_date", c.PostForm("start_date"))
	if err != nil {
		s.fail(c, err)
		return
	}
	duplicates := 0
	if raw := strings.TrimSpace(c.PostForm("duplicates")); raw != "" {
		if duplicates, err = strconv.Atoi(raw); err != nil {
			badRequest(c, "Invalid duplicates")
			return
		}
	}
	active := true
	if raw := strings.TrimSpace(c.PostForm("active")); raw != "" {
		if active, err = strconv.ParseBool(raw); err != nil {
			badRequest(c, "Invalid active")
			return
		}
	}

	f, err := fh.Open()
	if err != nil {
		s.fail(c, err)
		return
	}
	defer f.Close()

	drafts, err := s.readDrafts(fh.Filename, f)
	if err != nil {
		s.fail(c, err)
		return
	}
	res, err := s.curricula.Import(c.Request.Context(), curriculum.ImportRequest{
		Drafts:     drafts,
		Start:      start,
		Duplicates: duplicates,
		Active:     active,
		Name:       c.PostForm("name"),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) readDrafts(filename string, r io.Reader) ([]models.CourseDraft, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return curriculum.ParseCSV(r)
	case ".xlsx":
		return s.parser.Parse(r)
	default:
		return nil, fmt.Errorf("%w: only .csv and .xlsx files are accepted", curriculum.ErrInvalidInput)
	}
}

// CreateCurriculumBody is a manually assembled curriculum.
type CreateCurriculumBody struct {
	Name    string       `json:"name"`
	Active  bool         `json:"active"`
	Courses []CourseBody `json:"courses"`
}

// CreateCurriculum godoc
// @Summary      Create a curriculum
// @Tags         curricula
// @Accept       json
// @Produce      json
// @Param        body  body      CreateCurriculumBody  true  "Curriculum"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /curricula [post]
func (s *Server) CreateCurriculum(c *gin.Context) {
	var body CreateCurriculumBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	req := curriculum.CreateRequest{Name: body.Name, Active: body.Active}
	for i, cb := range body.Courses {
		start, end, err := cb.dates()
		if err != nil {
			badRequest(c, fmt.Sprintf("course %d: %v", i+1, err))
			return
		}
		req.Courses = append(req.Courses, curriculum.CourseInput{Topic: cb.Topic, StartDate: start, EndDate: end})
	}
	id, err := s.curricula.Create(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"curriculum_id": id})
}

// DuplicateBody selects the start date of a copy.
type DuplicateBody struct {
	StartDate string `json:"start_date" example:"2025-01-06"`
}

// DuplicateCurriculum godoc
// @Summary      Duplicate a curriculum
// @Description  Copies all courses to a new curriculum starting on start_date. Lecturers who are busy on the new dates are dropped from the copy.
// @Tags         curricula
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Curriculum ID"
// @Param        body  body      DuplicateBody  true  "Start date"
// @Success      201   {object}  curriculum.DuplicateResult
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /curricula/{id}/duplicate [post]
func (s *Server) DuplicateCurriculum(c *gin.Context) {
	var body DuplicateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	start, err := parseDay("start_date", body.StartDate)
	if err != nil {
		s.fail(c, err)
		return
	}
	res, err := s.curricula.Duplicate(c.Request.Context(), c.Param("id"), start)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ToggleBody switches timeline visibility.
type ToggleBody struct {
	Active *bool `json:"active"`
}

// ToggleCurriculum godoc
// @Summary      Show or hide a curriculum on the timeline
// @Tags         curricula
// @Accept       json
// @Produce      json
// @Param        id    path      string      true  "Curriculum ID"
// @Param        body  body      ToggleBody  true  "Visibility"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /curricula/{id}/active [patch]
func (s *Server) ToggleCurriculum(c *gin.Context) {
	var body ToggleBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Active == nil {
		badRequest(c, "Invalid request")
		return
	}
	n, err := s.curricula.SetActive(c.Request.Context(), c.Param("id"), *body.Active)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n, "active": *body.Active})
}

// RenameBody sets the display name of a curriculum.
type RenameBody struct {
	Name string `json:"name"`
}

// RenameCurriculum godoc
// @Summary      Rename a curriculum
// @Tags         curricula
// @Accept       json
// @Produce      json
// @Param        id    path      string      true  "Curriculum ID"
// @Param        body  body      RenameBody  true  "Name"
// @Success      200   {object}  MessageResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /curricula/{id}/name [put]
func (s *Server) RenameCurriculum(c *gin.Context) {
	var body RenameBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	if err := s.curricula.Rename(c.Request.Context(), c.Param("id"), body.Name); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Curriculum renamed"})
}

// AddCourseBody is a course added to an existing curriculum.
type AddCourseBody struct {
	CourseBody
	LecturerID *uint `json:"lecturer_id"`
	Active     bool  `json:"active"`
}

// AddCourse godoc
// @Summary      Add a course to a curriculum
// @Tags         curricula
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Curriculum ID"
// @Param        body  body      AddCourseBody  true  "Course"
// @Success      201   {object}  models.Course
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /curricula/{id}/courses [post]
func (s *Server) AddCourse(c *gin.Context) {
	var body AddCourseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	start, end, err := body.dates()
	if err != nil {
		s.fail(c, err)
		return
	}
	course, err := s.curricula.AddCourse(c.Request.Context(), curriculum.AddCourseRequest{
		CurriculumID: c.Param("id"),
		Topic:        body.Topic,
		StartDate:    start,
		EndDate:      end,
		LecturerID:   body.LecturerID,
		Active:       body.Active,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// AssignBody lists "course_id:lecturer_id" pairs; lecturer 0 unassigns.
type AssignBody struct {
	Assignments []string `json:"assignments" example:"12:3"`
	// CheckConflicts defaults to true.
	CheckConflicts *bool `json:"check_conflicts"`
}

// Assign godoc
// @Summary      Assign lecturers to courses
// @Description  Applies the pairs in order in one transaction. With check_conflicts, overlapping assignments are skipped and reported.
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        body  body      AssignBody  true  "Assignments"
// @Success      200   {object}  planner.AssignResult
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /assignments [post]
func (s *Server) Assign(c *gin.Context) {
	var body AssignBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	items, err := planner.ParseAssignments(body.Assignments)
	if err != nil {
		s.fail(c, err)
		return
	}
	check := true
	if body.CheckConflicts != nil {
		check = *body.CheckConflicts
	}
	res, err := s.planner.Assign(c.Request.Context(), items, check)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ConflictEntry is an assigned course and the courses of the same lecturer
// overlapping it.
type ConflictEntry struct {
	Course        models.Course   `json:"course"`
	ConflictsWith []models.Course `json:"conflicts_with"`
}

// Conflicts godoc
// @Summary      Current conflicts
// @Description  Lists every assigned course that overlaps another course of its lecturer
// @Tags         assignments
// @Produce      json
// @Success      200  {array}   ConflictEntry
// @Failure      500  {object}  ErrorResponse
// @Router       /conflicts [get]
func (s *Server) Conflicts(c *gin.Context) {
	courses, err := s.store.ListCourses(c.Request.Context(), db.CourseFilter{})
	if err != nil {
		s.fail(c, err)
		return
	}
	clashes := conflict.Map(courses)
	out := make([]ConflictEntry, 0, len(clashes))
	for _, course := range courses {
		if others, ok := clashes[course.ID]; ok {
			out = append(out, ConflictEntry{Course: course, ConflictsWith: others})
		}
	}
	c.JSON(http.StatusOK, out)
}

// RunAudit godoc
// @Summary      Run the conflict audit now
// @Tags         assignments
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  ErrorResponse
// @Router       /audit [post]
func (s *Server) RunAudit(c *gin.Context) {
	res, err := s.auditor.Run(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ran_at": res.RanAt, "courses": res.Courses, "conflicting": len(res.Clashes)})
}
