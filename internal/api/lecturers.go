package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/models"
	"github.com/in-nis/planner/internal/planner"
)

// ListLecturers godoc
// @Summary      List lecturers
// @Description  Returns all lecturers ordered by name, with their availability windows
// @Tags         lecturers
// @Produce      json
// @Success      200  {array}   models.Lecturer
// @Failure      500  {object}  ErrorResponse
// @Router       /lecturers [get]
func (s *Server) ListLecturers(c *gin.Context) {
	lecturers, err := s.store.ListLecturers(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lecturers)
}

// CreateLecturer godoc
// @Summary      Create a lecturer
// @Description  Adds a lecturer with a #RRGGBB color no other lecturer uses
// @Tags         lecturers
// @Accept       json
// @Produce      json
// @Param        body  body      planner.LecturerRequest  true  "Lecturer"
// @Success      201   {object}  models.Lecturer
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /lecturers [post]
func (s *Server) CreateLecturer(c *gin.Context) {
	var req planner.LecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	l, err := s.planner.CreateLecturer(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, l)
}

// ColorsResponse lists the palette and the colors still free.
type ColorsResponse struct {
	Palette   []models.PaletteColor `json:"palette"`
	Available []models.PaletteColor `json:"available"`
}

// LecturerColors godoc
// @Summary      Lecturer colors
// @Tags         lecturers
// @Produce      json
// @Success      200  {object}  ColorsResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /lecturers/colors [get]
func (s *Server) LecturerColors(c *gin.Context) {
	available, err := s.planner.AvailableColors(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ColorsResponse{Palette: models.Palette, Available: available})
}

// DeleteLecturer godoc
// @Summary      Delete a lecturer
// @Description  Removes the lecturer, unassigns its courses and deletes its availabilities
// @Tags         lecturers
// @Produce      json
// @Param        id   path      int  true  "Lecturer ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /lecturers/{id} [delete]
func (s *Server) DeleteLecturer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	l, err := s.planner.DeleteLecturer(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lecturer " + l.Name + " deleted"})
}

// ListAvailabilities godoc
// @Summary      List availability windows
// @Tags         availabilities
// @Produce      json
// @Param        lecturer_id  query     int  false  "Lecturer ID"
// @Success      200          {array}   models.Availability
// @Failure      400          {object}  ErrorResponse
// @Failure      500          {object}  ErrorResponse
// @Router       /availabilities [get]
func (s *Server) ListAvailabilities(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	q := db.AvailabilityFilter{}
	if f.LecturerID != nil {
		q.LecturerIDs = []uint{*f.LecturerID}
	}
	if r := f.DateRange; r != nil {
		q.From, q.To = &r.Start, &r.End
	}
	windows, err := s.store.ListAvailabilities(c.Request.Context(), q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, windows)
}

// AvailabilityBody is the request body for a new availability window.
type AvailabilityBody struct {
	LecturerID uint   `json:"lecturer_id"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date" example:"2024-07-01"`
	EndDate    string `json:"end_date" example:"2024-07-14"`
	Note       string `json:"note"`
	// CheckConflicts defaults to true.
	CheckConflicts *bool `json:"check_conflicts"`
}

// AddAvailability godoc
// @Summary      Add an availability window
// @Description  Stores a vacation or unavailable window. Clashes with assigned courses are returned as a warning.
// @Tags         availabilities
// @Accept       json
// @Produce      json
// @Param        body  body      AvailabilityBody  true  "Availability"
// @Success      201   {object}  planner.AvailabilityResult
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /availabilities [post]
func (s *Server) AddAvailability(c *gin.Context) {
	var body AvailabilityBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	start, err := parseDay("start_date", body.StartDate)
	if err != nil {
		s.fail(c, err)
		return
	}
	end, err := parseDay("end_date", body.EndDate)
	if err != nil {
		s.fail(c, err)
		return
	}
	check := true
	if body.CheckConflicts != nil {
		check = *body.CheckConflicts
	}
	res, err := s.planner.AddAvailability(c.Request.Context(), planner.AvailabilityRequest{
		LecturerID:     body.LecturerID,
		Type:           models.AvailabilityType(strings.ToLower(strings.TrimSpace(body.Type))),
		StartDate:      start,
		EndDate:        end,
		Note:           body.Note,
		CheckConflicts: check,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// DeleteAvailability godoc
// @Summary      Delete an availability window
// @Tags         availabilities
// @Produce      json
// @Param        id   path      int  true  "Availability ID"
// @Success      200  {object}  MessageResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /availabilities/{id} [delete]
func (s *Server) DeleteAvailability(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.planner.DeleteAvailability(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability deleted"})
}
