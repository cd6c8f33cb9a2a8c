// Package export renders the downloadable report projection to files.
package export

import (
	"errors"
	"fmt"
	"strings"

	"workforce/internal/domain/reports"
)

type Format string

const (
	FormatPDF      Format = "pdf"
	FormatXLSX     Format = "xlsx"
	FormatMarkdown Format = "md"
	FormatJSON     Format = "json"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

var contentTypes = map[Format]string{
	FormatPDF:      "application/pdf",
	FormatXLSX:     "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatMarkdown: "text/markdown; charset=utf-8",
	FormatJSON:     "application/json",
}

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatJSON, nil
	case "markdown":
		return FormatMarkdown, nil
	case FormatPDF, FormatXLSX, FormatMarkdown, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

func (f Format) ContentType() string {
	return contentTypes[f]
}

// Render dispatches to the renderer for f.
func Render(f Format, d reports.Downloadable) ([]byte, error) {
	switch f {
	case FormatPDF:
		return PDF(d)
	case FormatXLSX:
		return XLSX(d)
	case FormatMarkdown:
		return []byte(Markdown(d)), nil
	case FormatJSON:
		return JSON(d)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}
}

// Filename builds a download name from the report title.
func Filename(d reports.Downloadable, f Format) string {
	var b strings.Builder
	for _, r := range strings.ToLower(d.Title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "report"
	}
	return name + "." + string(f)
}
