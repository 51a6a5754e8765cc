package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/in-nis/planner/internal/cron"
	"github.com/in-nis/planner/internal/curriculum"
	"github.com/in-nis/planner/internal/dates"
	"github.com/in-nis/planner/internal/excel"
	"github.com/in-nis/planner/internal/models"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Drop and recreate every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, log, err := open("init-db")
		if err != nil {
			return err
		}
		defer closeStore(store, log)
		if err := store.Reset(); err != nil {
			return fmt.Errorf("reset database: %w", err)
		}
		log.Infof("database initialized")
		return nil
	},
}

var importOpts struct {
	url        string
	start      string
	duplicates int
	name       string
	active     bool
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a curriculum from a CSV or XLSX file, or an XLSX download",
	Args:  cobra.MaximumNArgs(1),
	RunE:  importCurriculum,
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List lecturers with overlapping courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext()
		defer stop()
		_, store, log, err := open("audit")
		if err != nil {
			return err
		}
		defer closeStore(store, log)
		res, err := cron.NewAuditor(store, log, nil).Run(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d courses checked, %d conflicting\n", res.Courses, len(res.Clashes))
		return nil
	},
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importOpts.url, "url", "", "download the workbook from this URL")
	f.StringVar(&importOpts.start, "start", "", "start date of the first copy (YYYY-MM-DD)")
	f.IntVar(&importOpts.duplicates, "duplicates", 0, "number of additional back-to-back copies")
	f.StringVar(&importOpts.name, "name", "", "display name")
	f.BoolVar(&importOpts.active, "active", true, "show on the timeline")
	_ = importCmd.MarkFlagRequired("start")

	rootCmd.AddCommand(initDBCmd, importCmd, auditCmd)
}

func importCurriculum(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	if (len(args) == 0) == (importOpts.url == "") {
		return errors.New("give either a file or --url")
	}
	start, err := dates.ParseDay(importOpts.start)
	if err != nil {
		return fmt.Errorf("--start: %w", err)
	}

	_, store, log, err := open("import")
	if err != nil {
		return err
	}
	defer closeStore(store, log)

	parser := excel.NewParser(log)
	var drafts []models.CourseDraft
	if importOpts.url != "" {
		body, err := parser.Fetch(ctx, importOpts.url)
		if err != nil {
			return err
		}
		drafts, err = parser.Parse(bytes.NewReader(body))
		if err != nil {
			return err
		}
	} else {
		drafts, err = readFile(parser, args[0])
		if err != nil {
			return err
		}
	}

	res, err := curriculum.NewService(store, log).Import(ctx, curriculum.ImportRequest{
		Drafts:     drafts,
		Start:      start,
		Duplicates: importOpts.duplicates,
		Active:     importOpts.active,
		Name:       importOpts.name,
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "imported %d courses\n", res.Courses)
	for _, id := range res.CurriculumIDs {
		fmt.Fprintln(out, id)
	}
	return nil
}

func readFile(parser *excel.Parser, path string) ([]models.CourseDraft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parse(parser, path, f)
}

func parse(parser *excel.Parser, path string, r io.Reader) ([]models.CourseDraft, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return curriculum.ParseCSV(r)
	case ".xlsx":
		return parser.Parse(r)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(path))
	}
}
