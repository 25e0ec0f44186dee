package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"vertex/internal/domain/model"
)

// PreviewSize is how many mapped rows an import shows before it is confirmed.
const PreviewSize = 5

// Result is a parsed and mapped file, ready to become a sheet.
type Result struct {
	Title     string
	Format    Format
	Questions []model.Question
}

// Preview returns at most PreviewSize mapped questions.
func (r Result) Preview() []model.Question {
	if len(r.Questions) <= PreviewSize {
		return r.Questions
	}
	return r.Questions[:PreviewSize]
}

// Import parses a file and maps its rows, naming the result after the file.
func Import(r io.Reader, filename string) (Result, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return Result{}, err
	}
	rows, err := Parse(r, filename)
	if err != nil {
		return Result{}, fmt.Errorf("import %s: %w", filepath.Base(filename), err)
	}
	return Result{
		Title:     TitleFromFilename(filename),
		Format:    format,
		Questions: MapRows(rows),
	}, nil
}

// TitleFromFilename strips the directory and the last extension.
func TitleFromFilename(filename string) string {
	base := filepath.Base(filename)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
