package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/in-nis/planner/internal/config"
	"github.com/in-nis/planner/internal/curriculum"
	"github.com/in-nis/planner/internal/db/dbtest"
	"github.com/in-nis/planner/internal/metrics"
	"github.com/in-nis/planner/internal/models"
	"github.com/in-nis/planner/internal/planner"
)

func newTestRouter(t *testing.T, prom *metrics.Prom) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Calendar: config.CalendarConfig{UIDDomain: "planner.test", Name: "Test calendar", Timezone: "Europe/Berlin"},
		Report:   config.ReportConfig{PDFEnabled: false},
	}
	var rec metrics.Recorder
	if prom != nil {
		rec = prom
	}
	s, err := NewServer(cfg, dbtest.New(t), nil, rec)
	require.NoError(t, err)
	return SetupRouter(s, prom)
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func upload(t *testing.T, r http.Handler, filename, content string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/curricula/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createLecturer(t *testing.T, r http.Handler, name, color string) models.Lecturer {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/lecturers", planner.LecturerRequest{Name: name, Color: color})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Lecturer](t, w)
}

// importTemplate uploads the CSV template starting on start and returns the
// new curriculum's courses in date order.
func importTemplate(t *testing.T, r http.Handler, start string) (string, []models.Course) {
	t.Helper()
	w := upload(t, r, "plan.csv", curriculum.Template, map[string]string{"start_date": start})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[curriculum.ImportResult](t, w)
	require.Len(t, res.CurriculumIDs, 1)

	w = do(t, r, http.MethodGet, "/api/v1/courses?curriculum_id="+res.CurriculumIDs[0], nil)
	require.Equal(t, http.StatusOK, w.Code)
	return res.CurriculumIDs[0], decode[[]models.Course](t, w)
}

func assign(t *testing.T, r http.Handler, check *bool, pairs ...string) planner.AssignResult {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/assignments", AssignBody{Assignments: pairs, CheckConflicts: check})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[planner.AssignResult](t, w)
}

func pair(courseID, lecturerID uint) string {
	return strconv.FormatUint(uint64(courseID), 10) + ":" + strconv.FormatUint(uint64(lecturerID), 10)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestLecturers(t *testing.T) {
	r := newTestRouter(t, nil)
	ada := createLecturer(t, r, "Ada", "#ff0000")
	require.NotNil(t, ada.Color)
	assert.Equal(t, "#FF0000", *ada.Color)

	w := do(t, r, http.MethodPost, "/api/v1/lecturers", planner.LecturerRequest{Name: "Bob", Color: "#FF0000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/lecturers", planner.LecturerRequest{Name: "", Color: "#00FF00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "name")

	w = do(t, r, http.MethodGet, "/api/v1/lecturers/colors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	colors := decode[ColorsResponse](t, w)
	assert.Len(t, colors.Palette, len(models.Palette))
	assert.Len(t, colors.Available, len(models.Palette)-1)

	w = do(t, r, http.MethodDelete, "/api/v1/lecturers/"+strconv.Itoa(int(ada.ID)), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodDelete, "/api/v1/lecturers/"+strconv.Itoa(int(ada.ID)), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodDelete, "/api/v1/lecturers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadCurriculum(t *testing.T) {
	r := newTestRouter(t, nil)

	w := upload(t, r, "plan.csv", curriculum.Template, map[string]string{
		"start_date": "2024-03-04",
		"duplicates": "1",
		"name":       "Backend",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[curriculum.ImportResult](t, w)
	assert.Len(t, res.CurriculumIDs, 2)
	assert.Equal(t, 6, res.Courses)

	w = do(t, r, http.MethodGet, "/api/v1/curricula", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sums := decode[[]models.CurriculumSummary](t, w)
	require.Len(t, sums, 2)
	assert.Equal(t, "Backend", sums[0].Name)
	assert.Equal(t, "Backend (2)", sums[1].Name)
	assert.Equal(t, "2024-03-04", sums[0].StartDate.Format("2006-01-02"))
	assert.Equal(t, "2024-03-23", sums[1].StartDate.Format("2006-01-02"))

	w = upload(t, r, "plan.txt", curriculum.Template, map[string]string{"start_date": "2024-03-04"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload(t, r, "plan.csv", "Thema,Start\nGo,01.01.2024\n", map[string]string{"start_date": "2024-03-04"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = upload(t, r, "plan.csv", curriculum.Template, map[string]string{"start_date": "04.03.2024"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCurriculumTemplate(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(t, r, http.MethodGet, "/api/v1/curricula/template", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), curriculum.TemplateFilename)
	assert.Contains(t, w.Body.String(), "Thema,Startdatum,Enddatum")
}

func TestAssignments(t *testing.T) {
	r := newTestRouter(t, nil)
	ada := createLecturer(t, r, "Ada", "#FF0000")
	_, first := importTemplate(t, r, "2024-03-04")
	_, second := importTemplate(t, r, "2024-03-04")

	res := assign(t, r, nil, pair(first[0].ID, ada.ID))
	assert.Equal(t, 1, res.Assigned)

	res = assign(t, r, nil, pair(second[0].ID, ada.ID), pair(999, ada.ID))
	assert.Equal(t, 0, res.Assigned)
	assert.Equal(t, 2, res.Skipped)
	assert.Contains(t, res.Items[0].Message, "Conflict")
	assert.Equal(t, []uint{first[0].ID}, res.Items[0].ConflictsWith)

	w := do(t, r, http.MethodGet, "/api/v1/conflicts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]ConflictEntry](t, w))

	off := false
	res = assign(t, r, &off, pair(second[0].ID, ada.ID))
	assert.Equal(t, 1, res.Assigned)
	assert.Equal(t, "forced", res.Items[0].Outcome)

	w = do(t, r, http.MethodGet, "/api/v1/conflicts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]ConflictEntry](t, w), 2)

	w = do(t, r, http.MethodPost, "/api/v1/audit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode[map[string]any](t, w)["conflicting"])

	res = assign(t, r, nil, pair(second[0].ID, 0))
	assert.Equal(t, 1, res.Cleared)

	w = do(t, r, http.MethodPost, "/api/v1/assignments", AssignBody{Assignments: []string{"x"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCourse(t *testing.T) {
	r := newTestRouter(t, nil)
	ada := createLecturer(t, r, "Ada", "#FF0000")
	_, courses := importTemplate(t, r, "2024-03-04")
	assign(t, r, nil, pair(courses[0].ID, ada.ID), pair(courses[1].ID, ada.ID))

	path := "/api/v1/courses/" + strconv.Itoa(int(courses[0].ID))
	w := do(t, r, http.MethodPut, path, CourseBody{Topic: "Go basics", StartDate: "2024-03-04", EndDate: "2024-03-12"})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())

	w = do(t, r, http.MethodPut, path, CourseBody{Topic: "Go basics", StartDate: "2024-03-04", EndDate: "2024-03-07"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Go basics", decode[models.Course](t, w).Topic)

	w = do(t, r, http.MethodPut, path, CourseBody{Topic: "Go", StartDate: "2024-03-08", EndDate: "2024-03-04"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCurriculumActions(t *testing.T) {
	r := newTestRouter(t, nil)
	id, _ := importTemplate(t, r, "2024-03-04")

	w := do(t, r, http.MethodPatch, "/api/v1/curricula/"+id+"/active", map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/timeline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[map[string]any](t, w)["rows"])

	w = do(t, r, http.MethodPatch, "/api/v1/curricula/unknown/active", map[string]bool{"active": true})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodPut, "/api/v1/curricula/"+id+"/name", RenameBody{Name: "Frontend"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodPost, "/api/v1/curricula/"+id+"/duplicate", DuplicateBody{StartDate: "2024-06-03"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	dup := decode[curriculum.DuplicateResult](t, w)
	assert.Equal(t, 3, dup.Courses)
	assert.NotEqual(t, id, dup.CurriculumID)

	w = do(t, r, http.MethodPost, "/api/v1/curricula/"+id+"/courses", AddCourseBody{
		CourseBody: CourseBody{Topic: "Docker", StartDate: "2024-03-25", EndDate: "2024-03-27"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodPost, "/api/v1/curricula", CreateCurriculumBody{
		Name:    "Manual",
		Active:  true,
		Courses: []CourseBody{{Topic: "Go", StartDate: "2024-09-02", EndDate: "2024-09-06"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, decode[map[string]string](t, w)["curriculum_id"])
}

func TestTimeline(t *testing.T) {
	r := newTestRouter(t, nil)
	importTemplate(t, r, "2024-03-04")
	importTemplate(t, r, "2024-04-01")

	w := do(t, r, http.MethodGet, "/api/v1/timeline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	m := decode[map[string]any](t, w)
	assert.Len(t, m["rows"], 2)

	w = do(t, r, http.MethodGet, "/api/v1/timeline?lecturer_id=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/timeline?start_date=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAvailabilities(t *testing.T) {
	r := newTestRouter(t, nil)
	ada := createLecturer(t, r, "Ada", "#FF0000")
	_, courses := importTemplate(t, r, "2024-03-04")
	assign(t, r, nil, pair(courses[0].ID, ada.ID))

	w := do(t, r, http.MethodPost, "/api/v1/availabilities", AvailabilityBody{
		LecturerID: ada.ID, Type: "Vacation", StartDate: "2024-03-06", EndDate: "2024-03-10",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[planner.AvailabilityResult](t, w)
	assert.Len(t, res.Conflicts, 1)
	assert.Contains(t, res.Warning, "04.03.2024")

	w = do(t, r, http.MethodPost, "/api/v1/availabilities", AvailabilityBody{
		LecturerID: ada.ID, Type: "holiday", StartDate: "2024-03-06", EndDate: "2024-03-10",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/availabilities?lecturer_id="+strconv.Itoa(int(ada.ID)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	windows := decode[[]models.Availability](t, w)
	require.Len(t, windows, 1)

	w = do(t, r, http.MethodDelete, "/api/v1/availabilities/"+strconv.Itoa(int(windows[0].ID)), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReports(t *testing.T) {
	r := newTestRouter(t, nil)
	importTemplate(t, r, "2024-03-04")

	w := do(t, r, http.MethodGet, "/api/v1/reports?format=json&type=lecturer", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	m := decode[map[string]any](t, w)
	assert.Equal(t, "lecturer", m["type"])
	assert.NotNil(t, m["statistics"])

	w = do(t, r, http.MethodGet, "/api/v1/reports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Curriculum Report")

	w = do(t, r, http.MethodGet, "/api/v1/reports?format=pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "html", w.Header().Get("X-Report-Fallback"))

	w = do(t, r, http.MethodGet, "/api/v1/reports?format=xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = do(t, r, http.MethodGet, "/api/v1/reports?format=doc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/reports?type=weekly", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/reports?start_date=2025-01-01&end_date=2025-01-31", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, r, http.MethodGet, "/api/v1/statistics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 3, decode[map[string]any](t, w)["course_count"])
}

func TestCalendar(t *testing.T) {
	r := newTestRouter(t, nil)
	ada := createLecturer(t, r, "Ada Lovelace", "#FF0000")
	id, courses := importTemplate(t, r, "2024-03-04")
	assign(t, r, nil, pair(courses[0].ID, ada.ID))

	w := do(t, r, http.MethodGet, "/api/v1/calendar/events?event_type=course", nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[[]map[string]any](t, w)
	require.Len(t, feed, 3)
	assert.Equal(t, "2024-03-09", feed[0]["end"])

	w = do(t, r, http.MethodGet, "/api/v1/calendar/ical?lecturer_id="+strconv.Itoa(int(ada.ID)), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "lecturer_Ada_Lovelace")
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "BEGIN:VCALENDAR"))
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))

	w = do(t, r, http.MethodGet, "/api/v1/calendar/events/course/"+strconv.Itoa(int(courses[1].ID))+"/ical", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "BEGIN:VEVENT")

	w = do(t, r, http.MethodGet, "/api/v1/calendar/events/meeting/1/ical", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/calendar/ical?event_type=meeting", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/calendar/events/availability/99/ical", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = do(t, r, http.MethodGet, "/api/v1/calendar/ical?lecturer_id=999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Hidden curricula drop out of the feed and the export.
	w = do(t, r, http.MethodPatch, "/api/v1/curricula/"+id+"/active", map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = do(t, r, http.MethodGet, "/api/v1/calendar/events?event_type=course", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]map[string]any](t, w))
	w = do(t, r, http.MethodGet, "/api/v1/calendar/ical?event_type=course", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, strings.Count(w.Body.String(), "BEGIN:VEVENT"))
}

func TestSettings(t *testing.T) {
	r := newTestRouter(t, nil)
	w := do(t, r, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "09:00", decode[map[string]string](t, w)[models.SettingWorkingHoursStart])

	w = do(t, r, http.MethodPut, "/api/v1/settings", map[string]string{models.SettingWorkingDays: "5,1,3,3"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1,3,5", decode[map[string]string](t, w)[models.SettingWorkingDays])

	w = do(t, r, http.MethodPut, "/api/v1/settings", map[string]string{"theme": "dark"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = do(t, r, http.MethodPut, "/api/v1/settings", map[string]string{models.SettingWorkingHoursStart: "9am"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	prom, err := metrics.NewProm(prometheus.NewRegistry())
	require.NoError(t, err)
	r := newTestRouter(t, prom)
	importTemplate(t, r, "2024-03-04")
	do(t, r, http.MethodGet, "/api/v1/reports?format=json", nil)

	w := do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `planner_exports_total{format="json",kind="report"} 1`)
	assert.Contains(t, body, "planner_http_request_duration_seconds")
}
