package render

import (
	"fmt"

	"gdprlens-backend/models"
)

// Format identifies a report output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

// ParseFormat maps a user-supplied format string to a Format. "markdown"
// and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json":
		return FormatJSON, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q: supported formats are json, md, txt", s)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// ContentType returns the HTTP content type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Renderer formats a RiskAssessment into report bytes.
type Renderer interface {
	Render(assessment *models.RiskAssessment) ([]byte, error)
}

// For returns the Renderer for the given format.
func For(format Format) (Renderer, error) {
	switch format {
	case FormatJSON:
		return &jsonRenderer{}, nil
	case FormatMarkdown:
		return &markdownRenderer{}, nil
	case FormatText:
		return &textRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown format %q: supported formats are json, md, txt", format)
	}
}
