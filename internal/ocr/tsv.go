package ocr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/overlaykit/text-overlay-mcp/internal/geometry"
)

// tsvKey identifies the line a word row belongs to within the page
// hierarchy.
type tsvKey struct {
	page, block, par, line int
}

// ParseTSVLines extracts candidate lines from Tesseract's TSV output.
//
// Word rows (level 5) are grouped by their (page, block, paragraph, line)
// key, sorted left to right, split into visual segments and assembled by
// buildLine, the same path hOCR words take. Structural rows (levels 1-4)
// and words with negative confidence are skipped. A missing header is a
// malformed-output error; a header with no word rows is an empty result.
func ParseTSVLines(data string) ([]Line, error) {
	rows := strings.Split(data, "\n")
	if len(rows) == 0 || !strings.HasPrefix(strings.TrimSpace(rows[0]), "level") {
		if strings.TrimSpace(data) == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: TSV output missing header row", ErrMalformedOutput)
	}

	wordMap := make(map[tsvKey][]wordToken)
	for _, row := range rows[1:] {
		cols := strings.Split(row, "\t")
		if len(cols) < 12 {
			continue
		}
		level, _ := strconv.Atoi(cols[0])
		if level != 5 {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" {
			continue
		}

		left, _ := strconv.Atoi(cols[6])
		top, _ := strconv.Atoi(cols[7])
		width, _ := strconv.Atoi(cols[8])
		height, _ := strconv.Atoi(cols[9])

		key := tsvKey{}
		key.page, _ = strconv.Atoi(cols[1])
		key.block, _ = strconv.Atoi(cols[2])
		key.par, _ = strconv.Atoi(cols[3])
		key.line, _ = strconv.Atoi(cols[4])

		length := len([]rune(text))
		if length < 1 {
			length = 1
		}
		wordMap[key] = append(wordMap[key], wordToken{
			text:   text,
			box:    geometry.Box{X: left, Y: top, W: width, H: height},
			conf:   conf,
			length: length,
		})
	}

	// Deterministic output order regardless of map iteration.
	keys := make([]tsvKey, 0, len(wordMap))
	for key := range wordMap {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.page != b.page {
			return a.page < b.page
		}
		if a.block != b.block {
			return a.block < b.block
		}
		if a.par != b.par {
			return a.par < b.par
		}
		return a.line < b.line
	})

	var lines []Line
	for _, key := range keys {
		words := wordMap[key]
		sortWordsByX(words)
		for _, segment := range splitWordSegments(words) {
			if line, ok := buildLine(segment); ok {
				lines = append(lines, line)
			}
		}
	}
	return lines, nil
}
