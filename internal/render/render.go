// Package render turns report models into HTML and PDF documents.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/in-nis/planner/internal/logger"
	"github.com/in-nis/planner/internal/report"
	"github.com/in-nis/planner/internal/timeline"
)

// ErrRendererUnavailable is returned when a renderer cannot run at all, as
// opposed to failing on a particular document.
var ErrRendererUnavailable = errors.New("renderer unavailable")

// Format is an output format of a rendered report.
type Format string

const (
	HTML Format = "html"
	PDF  Format = "pdf"
)

// ContentType is the MIME type of f.
func (f Format) ContentType() string {
	if f == PDF {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

// Document is what a renderer draws: a report and the timeline of the same
// courses.
type Document struct {
	Title    string
	Report   *report.Model
	Timeline timeline.Model
}

// Renderer draws a document in one format.
type Renderer interface {
	Format() Format
	Render(doc Document) ([]byte, error)
}

// Output is a rendered document.
type Output struct {
	Body   []byte
	Format Format
	// FellBack is set when the requested format could not be produced.
	FellBack bool
}

// Filename builds "<prefix>_<yyyymmdd_hhmmss>.<ext>".
func (o Output) Filename(prefix string, at time.Time) string {
	return fmt.Sprintf("%s_%s.%s", prefix, at.Format("20060102_150405"), o.Format)
}

// Service renders reports and falls back to HTML when PDF output is not
// available.
type Service struct {
	html Renderer
	pdf  Renderer
	log  logger.Logger
}

func NewService(html, pdf Renderer, log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{html: html, pdf: pdf, log: log}
}

// Render draws doc in the requested format. A PDF request whose renderer is
// unavailable is answered with HTML.
func (s *Service) Render(doc Document, want Format) (Output, error) {
	if want == PDF {
		body, err := s.renderPDF(doc)
		if err == nil {
			return Output{Body: body, Format: PDF}, nil
		}
		if !errors.Is(err, ErrRendererUnavailable) {
			return Output{}, err
		}
		s.log.Warnf("pdf export unavailable, falling back to html: %v", err)
		body, err = s.html.Render(doc)
		if err != nil {
			return Output{}, err
		}
		return Output{Body: body, Format: HTML, FellBack: true}, nil
	}
	body, err := s.html.Render(doc)
	if err != nil {
		return Output{}, err
	}
	return Output{Body: body, Format: HTML}, nil
}

func (s *Service) renderPDF(doc Document) ([]byte, error) {
	if s.pdf == nil {
		return nil, ErrRendererUnavailable
	}
	return s.pdf.Render(doc)
}

func render(fn func(*bytes.Buffer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
