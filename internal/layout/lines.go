// Package layout rebuilds visual text lines from positioned fragments.
package layout

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/insightdelivered/statement-ledger/internal/models"
)

// DefaultTolerance is the vertical bucket size, in page units, within which
// fragments are treated as sitting on the same baseline.
const DefaultTolerance = 2.0

var multiSpace = regexp.MustCompile(`\s{2,}`)

// CollapseWhitespace replaces every run of two or more whitespace characters
// with a single space and trims the result. Applying it twice is a no-op.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// ReconstructLines groups one page's fragments into lines.
//
// Fragments are bucketed by round(y / tolerance). Buckets are emitted top of
// page first (PDF y grows upward), and fragments inside a bucket are ordered
// left to right; fragments sharing an x keep their extraction order.
// Lines whose text is empty after collapsing are dropped.
func ReconstructLines(fragments []models.TextFragment, tolerance float64) []models.Line {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	rowMap := make(map[int][]models.TextFragment)
	for _, f := range fragments {
		key := int(math.Round(f.Y / tolerance))
		rowMap[key] = append(rowMap[key], f)
	}

	keys := make([]int, 0, len(rowMap))
	for k := range rowMap {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	lines := make([]models.Line, 0, len(keys))
	for _, k := range keys {
		row := rowMap[k]
		sort.SliceStable(row, func(a, b int) bool {
			return row[a].X < row[b].X
		})

		parts := make([]string, len(row))
		for i, f := range row {
			parts[i] = f.Text
		}
		text := CollapseWhitespace(strings.Join(parts, " "))
		if text == "" {
			continue
		}
		lines = append(lines, models.Line{Text: text, Fragments: row})
	}
	return lines
}
