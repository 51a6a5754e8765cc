// Package planner implements the user actions that change lecturer
// commitments: assignments, availabilities, lecturers, course edits and
// settings. Every action runs in one transaction.
package planner

import (
	"errors"
	"fmt"

	"github.com/in-nis/planner/internal/db"
	"github.com/in-nis/planner/internal/logger"
	"github.com/in-nis/planner/internal/metrics"
	"github.com/in-nis/planner/internal/validation"
)

// ValidationError reports rejected input. Nothing was written.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// validate runs the struct tags and converts failures to a ValidationError.
func validate(req any) error {
	err := validation.Struct(req)
	var ve *validation.Error
	if errors.As(err, &ve) {
		return &ValidationError{Msg: ve.Error()}
	}
	return err
}

type Service struct {
	store *db.Store
	log   logger.Logger
	rec   metrics.Recorder
}

func NewService(store *db.Store, log logger.Logger, rec metrics.Recorder) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return &Service{store: store, log: log, rec: rec}
}
