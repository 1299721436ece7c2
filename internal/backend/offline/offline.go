package offline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/piexl/CAD-MCP/internal/backend"
	"github.com/piexl/CAD-MCP/internal/document"
	"github.com/piexl/CAD-MCP/internal/drawing"
)

// Name identifies this backend variant.
const Name = "offline"

var errNoDocument = errors.New("no document is open")

// fileSystem defines the filesystem operations needed to save drawings.
type fileSystem interface {
	EnsureDirs(path string) error
	WriteFileAtomic(path string, content []byte, perm os.FileMode) error
}

// Backend draws into an in-memory document and saves it to a file on demand.
type Backend struct {
	mu     sync.Mutex
	doc    *document.Document
	fs     fileSystem
	logger *slog.Logger
}

// New creates an offline backend writing through fs.
func New(fs fileSystem, logger *slog.Logger) *Backend {
	if fs == nil {
		panic("fs is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{fs: fs, logger: logger.With("component", "offline")}
}

func (b *Backend) Name() string { return Name }

// CommandDelay is zero: in-memory mutations need no pacing.
func (b *Backend) CommandDelay() time.Duration { return 0 }

// Connect creates the in-memory document if absent. It is cheap and idempotent.
func (b *Backend) Connect(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.doc != nil {
		return "Offline drawing document already open", nil
	}
	b.doc = document.New()
	b.logger.Debug("document created")
	return "Offline drawing document created", nil
}

// Document returns the open document, or nil when closed.
func (b *Backend) Document() *document.Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.doc
}

func (b *Backend) document(op string) (*document.Document, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.doc == nil {
		return nil, backend.NewError(op, errNoDocument)
	}
	return b.doc, nil
}

func (b *Backend) add(op string, e document.Entity, s backend.Style) (string, error) {
	doc, err := b.document(op)
	if err != nil {
		return "", err
	}
	e.Layer = s.Layer
	e.Color = s.Color
	e.Lineweight = s.Lineweight
	return doc.Add(e), nil
}

func (b *Backend) DrawLine(ctx context.Context, p backend.LineParams) (string, error) {
	if _, err := b.add("draw_line", document.Entity{
		Kind:   document.KindLine,
		Points: []drawing.Point{p.Start, p.End},
	}, p.Style); err != nil {
		return "", err
	}
	return fmt.Sprintf("Line drawn from %s to %s%s", p.Start, p.End, styleSuffix(p.Style)), nil
}

func (b *Backend) DrawCircle(ctx context.Context, p backend.CircleParams) (string, error) {
	if _, err := b.add("draw_circle", document.Entity{
		Kind:   document.KindCircle,
		Points: []drawing.Point{p.Center},
		Radius: p.Radius,
	}, p.Style); err != nil {
		return "", err
	}
	return fmt.Sprintf("Circle drawn at %s with radius %g%s", p.Center, p.Radius, styleSuffix(p.Style)), nil
}

func (b *Backend) DrawArc(ctx context.Context, p backend.ArcParams) (string, error) {
	if _, err := b.add("draw_arc", document.Entity{
		Kind:       document.KindArc,
		Points:     []drawing.Point{p.Center},
		Radius:     p.Radius,
		StartAngle: p.StartAngle,
		EndAngle:   p.EndAngle,
	}, p.Style); err != nil {
		return "", err
	}
	return fmt.Sprintf("Arc drawn at %s with radius %g from %g° to %g°%s",
		p.Center, p.Radius, p.StartAngle, p.EndAngle, styleSuffix(p.Style)), nil
}

func (b *Backend) DrawRectangle(ctx context.Context, p backend.RectangleParams) (string, error) {
	if _, err := b.add("draw_rectangle", document.Entity{
		Kind:   document.KindPolyline,
		Points: drawing.RectangleVertices(p.Corner1, p.Corner2),
		Closed: true,
	}, p.Style); err != nil {
		return "", err
	}
	return fmt.Sprintf("Rectangle drawn from %s to %s%s", p.Corner1, p.Corner2, styleSuffix(p.Style)), nil
}

func (b *Backend) DrawPolyline(ctx context.Context, p backend.PolylineParams) (string, error) {
	if _, err := b.add("draw_polyline", document.Entity{
		Kind:   document.KindPolyline,
		Points: p.Points,
		Closed: p.Closed,
	}, p.Style); err != nil {
		return "", err
	}
	shape := "Open"
	if p.Closed {
		shape = "Closed"
	}
	return fmt.Sprintf("%s polyline drawn with %d vertices%s", shape, len(p.Points), styleSuffix(p.Style)), nil
}

func (b *Backend) DrawText(ctx context.Context, p backend.TextParams) (string, error) {
	if _, err := b.add("draw_text", document.Entity{
		Kind:     document.KindText,
		Points:   []drawing.Point{p.Position},
		Text:     p.Text,
		Height:   p.Height,
		Rotation: p.Rotation,
	}, p.Style); err != nil {
		return "", err
	}
	return fmt.Sprintf("Text %q added at %s with height %g%s", p.Text, p.Position, p.Height, styleSuffix(p.Style)), nil
}

// DrawHatch stores the closed boundary polyline and the hatch that fills it.
func (b *Backend) DrawHatch(ctx context.Context, p backend.HatchParams) (string, error) {
	boundaryID, err := b.add("draw_hatch", document.Entity{
		Kind:   document.KindPolyline,
		Points: p.Boundary,
		Closed: true,
	}, p.Style)
	if err != nil {
		return "", err
	}
	if _, err := b.add("draw_hatch", document.Entity{
		Kind:       document.KindHatch,
		Points:     p.Boundary,
		Pattern:    p.Pattern,
		Scale:      p.Scale,
		BoundaryID: boundaryID,
	}, p.Style); err != nil {
		return "", err
	}
	return fmt.Sprintf("Hatch %s drawn inside %d-vertex boundary%s", p.Pattern, len(p.Boundary), styleSuffix(p.Style)), nil
}

func (b *Backend) AddDimension(ctx context.Context, p backend.DimensionParams) (string, error) {
	if _, err := b.add("add_dimension", document.Entity{
		Kind:   document.KindDimension,
		Points: []drawing.Point{p.Point1, p.Point2, p.TextPosition},
		Height: p.TextHeight,
	}, p.Style); err != nil {
		return "", err
	}
	length := math.Hypot(p.Point2.X-p.Point1.X, p.Point2.Y-p.Point1.Y)
	return fmt.Sprintf("Dimension %s added between %s and %s%s",
		document.FormatMeasurement(length), p.Point1, p.Point2, styleSuffix(p.Style)), nil
}

// CreateLayer adds the layer if needed and makes it active.
func (b *Backend) CreateLayer(ctx context.Context, p backend.LayerParams) (string, error) {
	doc, err := b.document("create_layer")
	if err != nil {
		return "", err
	}
	created := doc.EnsureLayer(document.Layer{Name: p.Name, Color: p.Color, Lineweight: p.Lineweight})
	doc.SetActiveLayer(p.Name)
	if created {
		return fmt.Sprintf("Layer %q created and set active (color %d)", p.Name, p.Color), nil
	}
	return fmt.Sprintf("Layer %q already exists, set active", p.Name), nil
}

// Save encodes the document by file extension and writes it atomically,
// creating parent directories. A .dwg request is written as DXF next to it.
func (b *Backend) Save(ctx context.Context, p backend.SaveParams) (string, error) {
	doc, err := b.document("save")
	if err != nil {
		return "", err
	}

	path := p.Path
	var encode func(io.Writer, document.Snapshot) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".dxf":
		encode = document.EncodeDXF
	case ".dwg":
		path = strings.TrimSuffix(path, filepath.Ext(path)) + ".dxf"
		encode = document.EncodeDXF
	case "":
		path += ".dxf"
		encode = document.EncodeDXF
	case ".yaml", ".yml":
		encode = document.EncodeYAML
	default:
		return "", backend.NewError("save", fmt.Errorf("%w: %q", backend.ErrUnsupportedFormat, ext))
	}

	snap := doc.Snapshot()
	var buf bytes.Buffer
	if err := encode(&buf, snap); err != nil {
		return "", backend.NewError("save", err)
	}
	if err := b.fs.EnsureDirs(filepath.Dir(path)); err != nil {
		return "", backend.NewError("save", err)
	}
	if err := b.fs.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return "", backend.NewError("save", err)
	}

	b.logger.Info("drawing saved", "path", path, "entities", len(snap.Entities))
	return fmt.Sprintf("Drawing saved to %s (%d entities)", path, len(snap.Entities)), nil
}

// Close discards the in-memory document.
func (b *Backend) Close(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.doc = nil
	return "Offline drawing document closed", nil
}

func styleSuffix(s backend.Style) string {
	return fmt.Sprintf(" on layer %s (color %d)", s.Layer, s.Color)
}
