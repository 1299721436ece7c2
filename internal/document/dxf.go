package document

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// dxfWriter emits group code / value pairs.
type dxfWriter struct {
	w   *bufio.Writer
	err error
}

// lineBreaks would split a value across group lines, so they are flattened to spaces.
var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func (d *dxfWriter) pair(code int, value string) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%3d\n%s\n", code, lineBreaks.Replace(value))
}

func (d *dxfWriter) num(code int, v float64) {
	d.pair(code, strconv.FormatFloat(v, 'f', -1, 64))
}

func (d *dxfWriter) integer(code int, v int) {
	d.pair(code, strconv.Itoa(v))
}

func (d *dxfWriter) point(base int, x, y float64) {
	d.num(base, x)
	d.num(base+10, y)
	d.num(base+20, 0)
}

func (d *dxfWriter) common(kind string, e Entity) {
	d.pair(0, kind)
	d.pair(8, e.Layer)
	d.integer(62, e.Color)
}

// EncodeDXF writes s as an ASCII DXF (AutoCAD R12 group codes).
// R12 has no HATCH or associative DIMENSION entities: a hatch is written as a comment
// next to its boundary polyline, and a dimension is written exploded as a line plus its
// measurement text.
func EncodeDXF(w io.Writer, s Snapshot) error {
	d := &dxfWriter{w: bufio.NewWriter(w)}

	d.pair(0, "SECTION")
	d.pair(2, "HEADER")
	d.pair(9, "$ACADVER")
	d.pair(1, "AC1009")
	d.pair(9, "$CLAYER")
	d.pair(8, s.ActiveLayer)
	d.pair(0, "ENDSEC")

	d.pair(0, "SECTION")
	d.pair(2, "TABLES")
	d.pair(0, "TABLE")
	d.pair(2, "LAYER")
	d.integer(70, len(s.Layers))
	for _, l := range s.Layers {
		d.pair(0, "LAYER")
		d.pair(2, l.Name)
		d.integer(70, 0)
		d.integer(62, l.Color)
		d.pair(6, "CONTINUOUS")
	}
	d.pair(0, "ENDTAB")
	d.pair(0, "ENDSEC")

	d.pair(0, "SECTION")
	d.pair(2, "ENTITIES")
	for _, e := range s.Entities {
		writeEntity(d, e)
	}
	d.pair(0, "ENDSEC")
	d.pair(0, "EOF")

	if d.err != nil {
		return d.err
	}
	return d.w.Flush()
}

func writeEntity(d *dxfWriter, e Entity) {
	switch e.Kind {
	case KindLine:
		if len(e.Points) < 2 {
			return
		}
		d.common("LINE", e)
		d.point(10, e.Points[0].X, e.Points[0].Y)
		d.point(11, e.Points[1].X, e.Points[1].Y)

	case KindCircle:
		if len(e.Points) < 1 {
			return
		}
		d.common("CIRCLE", e)
		d.point(10, e.Points[0].X, e.Points[0].Y)
		d.num(40, e.Radius)

	case KindArc:
		if len(e.Points) < 1 {
			return
		}
		d.common("ARC", e)
		d.point(10, e.Points[0].X, e.Points[0].Y)
		d.num(40, e.Radius)
		d.num(50, e.StartAngle)
		d.num(51, e.EndAngle)

	case KindPolyline:
		d.common("POLYLINE", e)
		d.integer(66, 1)
		d.point(10, 0, 0)
		flags := 0
		if e.Closed {
			flags = 1
		}
		d.integer(70, flags)
		for _, p := range e.Points {
			d.pair(0, "VERTEX")
			d.pair(8, e.Layer)
			d.point(10, p.X, p.Y)
		}
		d.pair(0, "SEQEND")
		d.pair(8, e.Layer)

	case KindText:
		if len(e.Points) < 1 {
			return
		}
		d.common("TEXT", e)
		d.point(10, e.Points[0].X, e.Points[0].Y)
		d.num(40, e.Height)
		d.pair(1, e.Text)
		if e.Rotation != 0 {
			d.num(50, e.Rotation)
		}

	case KindHatch:
		d.pair(999, fmt.Sprintf("HATCH %s scale %g boundary %s", e.Pattern, e.Scale, e.BoundaryID))

	case KindDimension:
		if len(e.Points) < 3 {
			return
		}
		p1, p2, tp := e.Points[0], e.Points[1], e.Points[2]
		d.common("LINE", e)
		d.point(10, p1.X, p1.Y)
		d.point(11, p2.X, p2.Y)
		d.common("TEXT", e)
		d.point(10, tp.X, tp.Y)
		d.num(40, e.Height)
		d.pair(1, FormatMeasurement(math.Hypot(p2.X-p1.X, p2.Y-p1.Y)))
	}
}

// FormatMeasurement renders a dimension value with at most two decimals.
func FormatMeasurement(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
