package command

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/piexl/CAD-MCP/internal/drawing"
)

// TokenKind classifies a vocabulary keyword.
type TokenKind int

const (
	KindAction TokenKind = iota
	KindShape
	KindColor
	KindModifier
)

func (k TokenKind) String() string {
	switch k {
	case KindAction:
		return "action"
	case KindShape:
		return "shape"
	case KindColor:
		return "color"
	case KindModifier:
		return "modifier"
	default:
		return "unknown"
	}
}

// Canonical action verbs.
const (
	VerbDraw   = "draw"
	VerbCreate = "create"
	VerbAdd    = "add"
	VerbSave   = "save"
)

// Canonical modifiers.
const (
	ModLayer      = "layer"
	ModClosed     = "closed"
	ModPattern    = "pattern"
	ModCenter     = "center"
	ModRadius     = "radius"
	ModLineweight = "lineweight"
)

// Token is the canonical meaning of a keyword.
type Token struct {
	Kind      TokenKind
	Canonical string
}

// Match is one keyword occurrence in a command, as byte offsets.
type Match struct {
	Token
	Keyword    string
	Start, End int
}

type entry struct {
	keyword string
	token   Token
	re      *regexp.Regexp
}

// Lexicon is one merged keyword table covering every supported language.
type Lexicon struct {
	entries []entry
}

var englishWords = map[string]Token{
	"draw":   {KindAction, VerbDraw},
	"sketch": {KindAction, VerbDraw},
	"plot":   {KindAction, VerbDraw},
	"create": {KindAction, VerbCreate},
	"make":   {KindAction, VerbCreate},
	"new":    {KindAction, VerbCreate},
	"add":    {KindAction, VerbAdd},
	"insert": {KindAction, VerbAdd},
	"place":  {KindAction, VerbAdd},
	"put":    {KindAction, VerbAdd},
	"write":  {KindAction, VerbAdd},
	"save":   {KindAction, VerbSave},
	"export": {KindAction, VerbSave},

	"line":       {KindShape, string(drawing.ShapeLine)},
	"lines":      {KindShape, string(drawing.ShapeLine)},
	"segment":    {KindShape, string(drawing.ShapeLine)},
	"circle":     {KindShape, string(drawing.ShapeCircle)},
	"circles":    {KindShape, string(drawing.ShapeCircle)},
	"arc":        {KindShape, string(drawing.ShapeArc)},
	"arcs":       {KindShape, string(drawing.ShapeArc)},
	"rectangle":  {KindShape, string(drawing.ShapeRectangle)},
	"rectangles": {KindShape, string(drawing.ShapeRectangle)},
	"rect":       {KindShape, string(drawing.ShapeRectangle)},
	"square":     {KindShape, string(drawing.ShapeRectangle)},
	"polyline":   {KindShape, string(drawing.ShapePolyline)},
	"polylines":  {KindShape, string(drawing.ShapePolyline)},
	"polygon":    {KindShape, string(drawing.ShapePolyline)},
	"text":       {KindShape, string(drawing.ShapeText)},
	"label":      {KindShape, string(drawing.ShapeText)},
	"hatch":      {KindShape, string(drawing.ShapeHatch)},
	"hatching":   {KindShape, string(drawing.ShapeHatch)},
	"dimension":  {KindShape, string(drawing.ShapeDimension)},
	"dimensions": {KindShape, string(drawing.ShapeDimension)},
	"dim":        {KindShape, string(drawing.ShapeDimension)},

	"black":   {KindColor, "black"},
	"red":     {KindColor, "red"},
	"yellow":  {KindColor, "yellow"},
	"green":   {KindColor, "green"},
	"cyan":    {KindColor, "cyan"},
	"blue":    {KindColor, "blue"},
	"magenta": {KindColor, "magenta"},
	"white":   {KindColor, "white"},
	"gray":    {KindColor, "gray"},
	"grey":    {KindColor, "grey"},

	"layer":   {KindModifier, ModLayer},
	"closed":  {KindModifier, ModClosed},
	"close":   {KindModifier, ModClosed},
	"pattern": {KindModifier, ModPattern},
	"center":  {KindModifier, ModCenter},
	"centre":  {KindModifier, ModCenter},
	"radius":  {KindModifier, ModRadius},
}

var chineseWords = map[string]Token{
	"画":  {KindAction, VerbDraw},
	"绘制": {KindAction, VerbDraw},
	"绘":  {KindAction, VerbDraw},
	"创建": {KindAction, VerbCreate},
	"新建": {KindAction, VerbCreate},
	"添加": {KindAction, VerbAdd},
	"插入": {KindAction, VerbAdd},
	"写":  {KindAction, VerbAdd},
	"保存": {KindAction, VerbSave},
	"另存": {KindAction, VerbSave},
	"导出": {KindAction, VerbSave},

	"直线":   {KindShape, string(drawing.ShapeLine)},
	"线段":   {KindShape, string(drawing.ShapeLine)},
	"线":    {KindShape, string(drawing.ShapeLine)},
	"圆形":   {KindShape, string(drawing.ShapeCircle)},
	"圆":    {KindShape, string(drawing.ShapeCircle)},
	"圆弧":   {KindShape, string(drawing.ShapeArc)},
	"弧线":   {KindShape, string(drawing.ShapeArc)},
	"弧":    {KindShape, string(drawing.ShapeArc)},
	"矩形":   {KindShape, string(drawing.ShapeRectangle)},
	"长方形":  {KindShape, string(drawing.ShapeRectangle)},
	"正方形":  {KindShape, string(drawing.ShapeRectangle)},
	"多段线":  {KindShape, string(drawing.ShapePolyline)},
	"折线":   {KindShape, string(drawing.ShapePolyline)},
	"多边形":  {KindShape, string(drawing.ShapePolyline)},
	"文字":   {KindShape, string(drawing.ShapeText)},
	"文本":   {KindShape, string(drawing.ShapeText)},
	"填充":   {KindShape, string(drawing.ShapeHatch)},
	"图案填充": {KindShape, string(drawing.ShapeHatch)},
	"标注":   {KindShape, string(drawing.ShapeDimension)},
	"尺寸标注": {KindShape, string(drawing.ShapeDimension)},

	"黑色":  {KindColor, "black"},
	"红色":  {KindColor, "red"},
	"红":   {KindColor, "red"},
	"黄色":  {KindColor, "yellow"},
	"黄":   {KindColor, "yellow"},
	"绿色":  {KindColor, "green"},
	"绿":   {KindColor, "green"},
	"青色":  {KindColor, "cyan"},
	"蓝色":  {KindColor, "blue"},
	"蓝":   {KindColor, "blue"},
	"洋红":  {KindColor, "magenta"},
	"洋红色": {KindColor, "magenta"},
	"品红":  {KindColor, "magenta"},
	"白色":  {KindColor, "white"},
	"灰色":  {KindColor, "gray"},

	"图层": {KindModifier, ModLayer},
	"闭合": {KindModifier, ModClosed},
	"封闭": {KindModifier, ModClosed},
	"图案": {KindModifier, ModPattern},
	// Claimed so the single-character shape keywords inside them do not match.
	"圆心": {KindModifier, ModCenter},
	"半径": {KindModifier, ModRadius},
	"线宽": {KindModifier, ModLineweight},
}

// Keywords that name a closed outline.
var impliesClosed = map[string]bool{
	"polygon": true,
	"多边形":    true,
}

// DefaultLexicon returns the merged English and Chinese vocabulary.
func DefaultLexicon() *Lexicon {
	l := &Lexicon{}
	for kw, tok := range englishWords {
		l.add(kw, tok)
	}
	for kw, tok := range chineseWords {
		l.add(kw, tok)
	}
	l.sort()
	return l
}

// AddColor registers an extra color name, e.g. one from a configured color table.
func (l *Lexicon) AddColor(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	for _, e := range l.entries {
		if e.keyword == name {
			return
		}
	}
	l.add(name, Token{Kind: KindColor, Canonical: name})
	l.sort()
}

func (l *Lexicon) add(keyword string, tok Token) {
	pattern := "(?i)" + regexp.QuoteMeta(keyword)
	if isWordKeyword(keyword) {
		pattern = `(?i)\b` + regexp.QuoteMeta(keyword) + `\b`
	}
	l.entries = append(l.entries, entry{keyword: keyword, token: tok, re: regexp.MustCompile(pattern)})
}

// sort orders entries longest first so overlapping keywords resolve to the longest match.
func (l *Lexicon) sort() {
	sort.SliceStable(l.entries, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(l.entries[i].keyword), utf8.RuneCountInString(l.entries[j].keyword)
		if li != lj {
			return li > lj
		}
		return l.entries[i].keyword < l.entries[j].keyword
	})
}

// Match finds every non-overlapping keyword occurrence in text, ordered by position.
func (l *Lexicon) Match(text string) []Match {
	var claimed [][2]int
	overlaps := func(start, end int) bool {
		for _, c := range claimed {
			if start < c[1] && c[0] < end {
				return true
			}
		}
		return false
	}

	var out []Match
	for _, e := range l.entries {
		for _, loc := range e.re.FindAllStringIndex(text, -1) {
			if overlaps(loc[0], loc[1]) {
				continue
			}
			claimed = append(claimed, [2]int{loc[0], loc[1]})
			out = append(out, Match{Token: e.token, Keyword: e.keyword, Start: loc[0], End: loc[1]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// isWordKeyword reports whether keyword should match on word boundaries (latin script).
func isWordKeyword(keyword string) bool {
	for _, r := range keyword {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}
