package export

import (
	"io"
	"os"
	"strings"
	"time"

	"cursos-madrid/internal/domain"
)

// Column order of the exported artifact. Keep EXACT: downstream consumers
// and re-ingestion both rely on it.
var courseHeader = []string{
	"code",
	"specialtyCode",
	"level",
	"detailUrl",
	"title",
	"startDate",
	"endDate",
	"modality",
	"center",
	"municipality",
}

// WriteCoursesCSV writes the visible course set as delimited text. Every
// field is quoted, with embedded quotes doubled, so titles with commas or
// line breaks survive any consumer; encoding/csv quotes only when forced,
// which is why the quoting is done by hand here. Dates render as calendar
// dates only.
func WriteCoursesCSV(w io.Writer, courses []domain.Course) error {
	if err := writeRow(w, courseHeader); err != nil {
		return err
	}
	for i := range courses {
		if err := writeRow(w, courseRow(&courses[i])); err != nil {
			return err
		}
	}
	return nil
}

// WriteCoursesCSVFile is the file-path convenience used by the CLIs.
func WriteCoursesCSVFile(path string, courses []domain.Course) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCoursesCSV(f, courses); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func courseRow(c *domain.Course) []string {
	return []string{
		c.Code,
		c.SpecialtyCode,
		c.Level,
		c.DetailURL,
		c.Title,
		formatDate(c.StartDate),
		formatDate(c.EndDate),
		c.Modality,
		c.Center,
		c.Municipality,
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func writeRow(w io.Writer, fields []string) error {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteString("\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}
