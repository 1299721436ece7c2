package command

import (
	"math"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/piexl/CAD-MCP/internal/drawing"
)

// TokenSet is everything recognized in one command.
// Numbers keep their left-to-right order; it is the only link between a number and its meaning.
type TokenSet struct {
	Raw       string
	Numbers   []float64
	Actions   []string
	Shapes    []drawing.Shape
	Colors    []string
	Modifiers []string
	// Quoted holds quoted literals not claimed as a layer name or filename.
	Quoted     []string
	Layer      string
	Filename   string
	Pattern    string
	Lineweight *int
}

// HasAction reports whether the canonical verb was matched.
func (t TokenSet) HasAction(verb string) bool {
	return slices.Contains(t.Actions, verb)
}

// HasModifier reports whether the canonical modifier was matched.
func (t TokenSet) HasModifier(mod string) bool {
	return slices.Contains(t.Modifiers, mod)
}

// quoteMark is written at the first byte of a blanked quoted span.
const quoteMark = '\x01'

var (
	// A minus directly after a digit is a range separator, not a sign.
	numberRe = regexp.MustCompile(`(?:^|[^\d.])(-?(?:\d+(?:\.\d+)?|\.\d+)(?:[eE][-+]?\d+)?)`)

	layerWordRe = regexp.MustCompile(`(?i)\blayer\b\s*(?:(?:named|called)\s+)?(\x01|[\p{L}\p{N}_][\p{L}\p{N}_\-.]*)?`)
	layerCJKRe  = regexp.MustCompile(`图层\s*(?:[:：]|名为|叫)?\s*(\x01|[\p{L}\p{N}_\-.]+)?`)

	filenameRe = regexp.MustCompile(`(?i)[\p{L}\p{N}_\-./\\:~]*[\p{L}\p{N}_\-]\.(?:dxf|dwg|ya?ml)\b`)

	patternRe = regexp.MustCompile(`(?i)(?:\bpattern\s+(?:named\s+)?|图案\s*[:：]?\s*)([A-Za-z][A-Za-z0-9_\-]*)`)

	lineweightRe = regexp.MustCompile(`(?i)(?:\b(?:lineweight|line\s+weight|lw)\b|线宽)\s*[:：=]?\s*(\d+(?:\.\d+)?)`)
)

var quotePairs = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'“':  '”',
	'‘':  '’',
	'「':  '」',
	'『':  '』',
}

// Words that can follow "layer" without being its name.
var layerStopwords = map[string]bool{
	"a": true, "an": true, "the": true, "with": true, "and": true, "from": true,
	"at": true, "to": true, "in": true, "on": true, "of": true, "for": true,
	"color": true, "colour": true,
}

// CJK particles that end a bare layer name ("图层墙体上" is the layer 墙体).
const cjkNameStops = "上中里的，。、；,;"

type quoteSpan struct {
	start, end int
	text       string
	used       bool
}

// Extract scans raw for quoted literals, layer and filename clauses, vocabulary and numbers.
// It is a pure function of the text.
func (i *Interpreter) Extract(raw string) TokenSet {
	ts := TokenSet{Raw: raw}
	masked := []byte(raw)

	quotes := scanQuotes(raw)
	for _, q := range quotes {
		blank(masked, q.start, q.end)
		masked[q.start] = quoteMark
	}
	quoteAt := func(pos int) *quoteSpan {
		for k := range quotes {
			if quotes[k].start == pos {
				return &quotes[k]
			}
		}
		return nil
	}

	i.extractLayer(&ts, masked, quoteAt)

	// Filenames: a quoted literal with a drawing extension, else a bare path.
	for k := range quotes {
		if !quotes[k].used && hasDrawingExt(quotes[k].text) {
			ts.Filename = strings.TrimSpace(quotes[k].text)
			quotes[k].used = true
			break
		}
	}
	if loc := filenameRe.FindIndex(masked); loc != nil {
		if ts.Filename == "" {
			ts.Filename = raw[loc[0]:loc[1]]
		}
		blank(masked, loc[0], loc[1])
	}

	if m := patternRe.FindSubmatchIndex(masked); m != nil && !layerStopwords[strings.ToLower(raw[m[2]:m[3]])] {
		ts.Pattern = raw[m[2]:m[3]]
		blank(masked, m[2], m[3])
	}

	if m := lineweightRe.FindSubmatchIndex(masked); m != nil {
		if lw, ok := parseLineweight(raw[m[2]:m[3]]); ok {
			ts.Lineweight = &lw
		}
		blank(masked, m[0], m[1])
		ts.Modifiers = appendUnique(ts.Modifiers, ModLineweight)
	}

	text := string(masked)
	for _, m := range i.lexicon.Match(text) {
		switch m.Kind {
		case KindAction:
			ts.Actions = appendUnique(ts.Actions, m.Canonical)
		case KindShape:
			if !slices.Contains(ts.Shapes, drawing.Shape(m.Canonical)) {
				ts.Shapes = append(ts.Shapes, drawing.Shape(m.Canonical))
			}
			if impliesClosed[m.Keyword] {
				ts.Modifiers = appendUnique(ts.Modifiers, ModClosed)
			}
		case KindColor:
			ts.Colors = appendUnique(ts.Colors, m.Canonical)
		case KindModifier:
			ts.Modifiers = appendUnique(ts.Modifiers, m.Canonical)
		}
	}

	for _, m := range numberRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		ts.Numbers = append(ts.Numbers, n)
	}

	for _, q := range quotes {
		if !q.used {
			ts.Quoted = append(ts.Quoted, q.text)
		}
	}
	return ts
}

// extractLayer claims the first layer clause, records its name and blanks the clause.
func (i *Interpreter) extractLayer(ts *TokenSet, masked []byte, quoteAt func(int) *quoteSpan) {
	for _, re := range []*regexp.Regexp{layerWordRe, layerCJKRe} {
		for _, m := range re.FindAllSubmatchIndex(masked, -1) {
			start, end := m[0], m[1]
			name := ""
			if m[2] >= 0 {
				if masked[m[2]] == quoteMark {
					if q := quoteAt(m[2]); q != nil {
						name = strings.TrimSpace(q.text)
						q.used = true
					}
				} else {
					name = string(masked[m[2]:m[3]])
					if re == layerCJKRe {
						name = i.trimCJKName(name)
						end = m[2] + len(name)
					}
					if layerStopwords[strings.ToLower(name)] || name == "" {
						name = ""
						end = m[2]
					}
				}
			}
			if ts.Layer == "" {
				ts.Layer = name
			}
			ts.Modifiers = appendUnique(ts.Modifiers, ModLayer)
			blank(masked, start, end)
		}
	}
}

// trimCJKName cuts a bare CJK layer name at the first particle or vocabulary keyword.
func (i *Interpreter) trimCJKName(name string) string {
	cut := len(name)
	if idx := strings.IndexAny(name, cjkNameStops); idx >= 0 {
		cut = idx
	}
	if ms := i.lexicon.Match(name); len(ms) > 0 && ms[0].Start > 0 && ms[0].Start < cut {
		cut = ms[0].Start
	}
	return name[:cut]
}

// scanQuotes finds balanced quoted literals. An ASCII apostrophe only opens a quote
// when it does not follow a latin letter or digit ("don't" is not a quote).
func scanQuotes(raw string) []quoteSpan {
	var spans []quoteSpan
	prev := rune(0)
	for pos := 0; pos < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[pos:])
		closer, ok := quotePairs[r]
		if ok && r == '\'' && prev <= unicode.MaxASCII && (unicode.IsLetter(prev) || unicode.IsDigit(prev)) {
			ok = false
		}
		if ok {
			inner := pos + size
			if idx := strings.IndexRune(raw[inner:], closer); idx >= 0 {
				end := inner + idx + utf8.RuneLen(closer)
				spans = append(spans, quoteSpan{start: pos, end: end, text: raw[inner : inner+idx]})
				prev = closer
				pos = end
				continue
			}
		}
		prev = r
		pos += size
	}
	return spans
}

// parseLineweight reads hundredths of a millimetre; a decimal value is taken as millimetres.
func parseLineweight(s string) (int, bool) {
	if !strings.Contains(s, ".") {
		lw, err := strconv.Atoi(s)
		return lw, err == nil
	}
	mm, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(math.Round(mm * 100)), true
}

func hasDrawingExt(name string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(name))) {
	case ".dxf", ".dwg", ".yaml", ".yml":
		return true
	}
	return false
}

func blank(b []byte, start, end int) {
	for k := start; k < end && k < len(b); k++ {
		b[k] = ' '
	}
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
