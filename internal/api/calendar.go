package api

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/in-nis/planner/internal/calendar"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/timeline"
)

const icsContentType = "text/calendar; charset=utf-8"

// calendarQuery reads the filters plus an optional event_type.
func calendarQuery(c *gin.Context) (calendar.Query, error) {
	f, err := filterFromQuery(c)
	if err != nil {
		return calendar.Query{}, err
	}
	q := calendar.Query{Filter: f}
	if raw := strings.ToLower(strings.TrimSpace(c.Query("event_type"))); raw != "" {
		k, err := calendar.ParseKind(raw)
		if err != nil {
			return calendar.Query{}, err
		}
		q.Kind = &k
	}
	return q, nil
}

// events loads the active courses and the availability windows matching q.
func (s *Server) events(c *gin.Context, q calendar.Query) ([]calendar.Event, error) {
	ctx := c.Request.Context()
	var events []calendar.Event
	if q.Includes(calendar.KindCourse) {
		courses, err := s.courses(c, q.Filter, true)
		if err != nil {
			return nil, err
		}
		for _, course := range courses {
			events = append(events, s.calendar.CourseEvent(course))
		}
	}
	if q.Includes(calendar.KindAvailability) {
		windows, err := s.store.ListAvailabilities(ctx, availabilityFilter(q.Filter))
		if err != nil {
			return nil, err
		}
		for _, a := range windows {
			events = append(events, s.calendar.AvailabilityEvent(a))
		}
	}
	return events, nil
}

func availabilityFilter(f timeline.Filter) db.AvailabilityFilter {
	var q db.AvailabilityFilter
	if f.LecturerID != nil {
		q.LecturerIDs = []uint{*f.LecturerID}
	}
	if r := f.DateRange; r != nil {
		q.From, q.To = &r.Start, &r.End
	}
	return q
}

// CalendarFeed godoc
// @Summary      Calendar feed
// @Description  Courses and availability windows as FullCalendar events. End dates are exclusive.
// @Tags         calendar
// @Produce      json
// @Param        event_type     query     string  false  "course or availability"
// @Param        lecturer_id    query     int     false  "Lecturer ID"
// @Param        curriculum_id  query     string  false  "Curriculum ID"
// @Param        start_date     query     string  false  "Range start (YYYY-MM-DD)"
// @Param        end_date       query     string  false  "Range end (YYYY-MM-DD)"
// @Success      200            {array}   calendar.FeedItem
// @Failure      400            {object}  ErrorResponse
// @Failure      500            {object}  ErrorResponse
// @Router       /calendar/events [get]
func (s *Server) CalendarFeed(c *gin.Context) {
	q, err := calendarQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	events, err := s.events(c, q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, calendar.Feed(events))
}

// CalendarICal godoc
// @Summary      iCalendar export
// @Tags         calendar
// @Produce      text/calendar
// @Param        event_type     query     string  false  "course or availability"
// @Param        lecturer_id    query     int     false  "Lecturer ID"
// @Param        curriculum_id  query     string  false  "Curriculum ID"
// @Param        start_date     query     string  false  "Range start (YYYY-MM-DD)"
// @Param        end_date       query     string  false  "Range end (YYYY-MM-DD)"
// @Success      200            {string}  string
// @Failure      400            {object}  ErrorResponse
// @Failure      404            {object}  ErrorResponse
// @Router       /calendar/ical [get]
func (s *Server) CalendarICal(c *gin.Context) {
	q, err := calendarQuery(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	var lecturerName string
	if q.LecturerID != nil {
		l, err := s.store.GetLecturer(c.Request.Context(), *q.LecturerID)
		if err != nil {
			s.fail(c, err)
			return
		}
		lecturerName = l.Name
	}
	events, err := s.events(c, q)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.writeICS(c, calendar.Filename(q, lecturerName), events)
}

// EventICal godoc
// @Summary      Export one event
// @Tags         calendar
// @Produce      text/calendar
// @Param        kind  path      string  true  "course or availability"
// @Param        id    path      int     true  "Record ID"
// @Success      200   {string}  string
// @Failure      400   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /calendar/events/{kind}/{id}/ical [get]
func (s *Server) EventICal(c *gin.Context) {
	kind, err := calendar.ParseKind(c.Param("kind"))
	if err != nil {
		s.fail(c, err)
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var e calendar.Event
	if kind == calendar.KindCourse {
		course, err := s.store.GetCourse(ctx, id)
		if err != nil {
			s.fail(c, err)
			return
		}
		e = s.calendar.CourseEvent(*course)
	} else {
		a, err := s.store.GetAvailability(ctx, id)
		if err != nil {
			s.fail(c, err)
			return
		}
		e = s.calendar.AvailabilityEvent(*a)
	}
	s.writeICS(c, calendar.EventFilename(e), []calendar.Event{e})
}

func (s *Server) writeICS(c *gin.Context, filename string, events []calendar.Event) {
	var buf bytes.Buffer
	if err := s.calendar.Encode(&buf, events); err != nil {
		s.fail(c, err)
		return
	}
	s.rec.RecordExport("calendar", "ics")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, icsContentType, buf.Bytes())
}
