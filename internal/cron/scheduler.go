package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/in-nis/planner/internal/conflict"
	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/logger"
	"github.com/in-nis/planner/internal/metrics"
	"github.com/in-nis/planner/internal/models"
)

// AuditResult is the outcome of one conflict audit.
type AuditResult struct {
	RanAt   time.Time                `json:"ran_at"`
	Courses int                      `json:"courses"`
	Clashes map[uint][]models.Course `json:"clashes"`
}

// Auditor scans all assignments for overlapping courses. Conflicts can only
// appear when an assignment was forced, so the audit reports instead of
// repairing.
type Auditor struct {
	store *db.Store
	log   logger.Logger
	rec   metrics.Recorder
	now   func() time.Time
}

func NewAuditor(store *db.Store, log logger.Logger, rec metrics.Recorder) *Auditor {
	if log == nil {
		log = logger.NopLogger{}
	}
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Auditor{store: store, log: log, rec: rec, now: time.Now}
}

// Run lists the conflicting courses and purges the curriculum cache so the
// next reads start from the database.
func (a *Auditor) Run(ctx context.Context) (*AuditResult, error) {
	courses, err := a.store.ListCourses(ctx, db.CourseFilter{})
	if err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	clashes := conflict.Map(courses)
	byID := make(map[uint]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	for id, others := range clashes {
		c := byID[id]
		a.log.Warnf("conflict: %s (%s) overlaps %d other course(s) of %s", c.Topic, c.StartDate.Format("02.01.2006"), len(others), c.LecturerName())
	}
	a.store.Cache().Purge()
	a.rec.RecordAudit(len(clashes))
	a.log.Infof("audit finished: %d courses, %d conflicting", len(courses), len(clashes))
	return &AuditResult{RanAt: a.now().UTC(), Courses: len(courses), Clashes: clashes}, nil
}

// StartJobs schedules the audit on spec and starts the cron runner. Stop the
// returned runner on shutdown.
func StartJobs(spec string, a *Auditor, log logger.Logger) (*cron.Cron, error) {
	if log == nil {
		log = logger.NopLogger{}
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(spec, func() {
		log.Infof("running conflict audit job")
		if _, err := a.Run(context.Background()); err != nil {
			log.Errorf("conflict audit failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule audit %q: %w", spec, err)
	}

	c.Start()
	return c, nil
}
