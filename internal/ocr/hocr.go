package ocr

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"github.com/overlaykit/text-overlay-mcp/internal/geometry"
)

// ParseHOCRLines extracts candidate lines from hOCR markup.
//
// Each ocr_line span becomes zero or more Lines: its ocrx_word children are
// filtered (shouldKeepWord), sorted left to right, split into visual segments
// and assembled by buildLine. Well-formed markup containing no lines yields
// an empty slice and no error; structurally broken input yields an error
// wrapping ErrMalformedOutput.
func ParseHOCRLines(data []byte) ([]Line, error) {
	if len(data) > 0 && !strings.Contains(string(data), "<") {
		return nil, fmt.Errorf("%w: hOCR output contains no markup", ErrMalformedOutput)
	}

	decoded, err := decodeCharset(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	doc, err := html.Parse(strings.NewReader(string(decoded)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	var lines []Line
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_line") {
			words := collectWords(n)
			sortWordsByX(words)
			for _, segment := range splitWordSegments(words) {
				if line, ok := buildLine(segment); ok {
					lines = append(lines, line)
				}
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return lines, nil
}

// decodeCharset converts legacy-encoded hOCR to UTF-8. Tesseract emits UTF-8
// but hOCR from other producers may declare a legacy charset in a meta tag.
func decodeCharset(data []byte) ([]byte, error) {
	content := string(data)
	idx := strings.Index(content, "charset=")
	if idx < 0 {
		return data, nil
	}
	rest := content[idx+len("charset="):]
	fields := strings.FieldsFunc(rest, func(r rune) bool {
		return r == '"' || r == '\'' || r == ';' || r == '>' || r == ' '
	})
	if len(fields) == 0 {
		// Truncated output: charset= with nothing after it declares no
		// encoding.
		return data, nil
	}
	enc := strings.ToLower(fields[0])
	if enc == "" || enc == "utf-8" {
		return data, nil
	}
	decoded, err := legacyCharmap(enc).NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %v", enc, err)
	}
	return decoded, nil
}

// legacyCharmap maps a declared charset name to its decoding table.
// Unrecognized names fall back to Latin-1, which maps every byte and so
// never fails outright.
func legacyCharmap(name string) *charmap.Charmap {
	switch name {
	case "iso-8859-2", "latin2":
		return charmap.ISO8859_2
	case "iso-8859-15", "latin9":
		return charmap.ISO8859_15
	case "windows-1250", "cp1250":
		return charmap.Windows1250
	case "windows-1251", "cp1251":
		return charmap.Windows1251
	case "windows-1252", "cp1252":
		return charmap.Windows1252
	default:
		return charmap.ISO8859_1
	}
}

// collectWords gathers the filtered ocrx_word tokens under a line node.
func collectWords(lineNode *html.Node) []wordToken {
	var words []wordToken
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			text := strings.TrimSpace(strings.ReplaceAll(nodeText(n), " ", " "))
			box, boxOK := parseTitleBox(attrValue(n, "title"))
			conf, confOK := parseTitleConf(attrValue(n, "title"))
			if boxOK && confOK && shouldKeepWord(text, conf, box) {
				length := len([]rune(text))
				if length < 1 {
					length = 1
				}
				words = append(words, wordToken{text: text, box: box, conf: conf, length: length})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(lineNode)
	return words
}

// parseTitleBox reads "bbox x1 y1 x2 y2" from an hOCR title attribute.
// Degenerate boxes (x2 <= x1 or y2 <= y1) are rejected.
func parseTitleBox(title string) (geometry.Box, bool) {
	idx := strings.Index(title, "bbox")
	if idx < 0 {
		return geometry.Box{}, false
	}
	fields := strings.FieldsFunc(title[idx+4:], func(r rune) bool {
		return r == ' ' || r == ';'
	})
	if len(fields) < 4 {
		return geometry.Box{}, false
	}
	nums := make([]int, 0, 4)
	for _, f := range fields[:4] {
		v, err := strconv.Atoi(f)
		if err != nil {
			return geometry.Box{}, false
		}
		nums = append(nums, v)
	}
	x1, y1, x2, y2 := nums[0], nums[1], nums[2], nums[3]
	if x2 <= x1 || y2 <= y1 {
		return geometry.Box{}, false
	}
	return geometry.Box{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}, true
}

// parseTitleConf reads the "x_wconf" word confidence from a title attribute.
func parseTitleConf(title string) (float64, bool) {
	idx := strings.Index(title, "x_wconf")
	if idx < 0 {
		return 0, false
	}
	fields := strings.FieldsFunc(title[idx+len("x_wconf"):], func(r rune) bool {
		return r == ' ' || r == ';'
	})
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(a.Val, class) {
			return true
		}
	}
	return false
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates all text nodes beneath n.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func sortWordsByX(words []wordToken) {
	sort.SliceStable(words, func(i, j int) bool { return words[i].box.X < words[j].box.X })
}
