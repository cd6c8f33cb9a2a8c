package export

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"workforce/internal/domain/reports"
)

// Diff returns a unified diff of the Markdown renderings of two reports. An
// empty string means the renderings are identical.
func Diff(a, b reports.Downloadable, nameA, nameB string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(Markdown(a)),
		B:        difflib.SplitLines(Markdown(b)),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff reports: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	return text, nil
}
