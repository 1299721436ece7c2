package document

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/piexl/CAD-MCP/internal/drawing"
)

// EntityKind is the stored form of an entity.
type EntityKind string

const (
	KindLine      EntityKind = "LINE"
	KindCircle    EntityKind = "CIRCLE"
	KindArc       EntityKind = "ARC"
	KindPolyline  EntityKind = "POLYLINE"
	KindText      EntityKind = "TEXT"
	KindHatch     EntityKind = "HATCH"
	KindDimension EntityKind = "DIMENSION"
)

// DefaultLayer always exists in a new document.
const DefaultLayer = "0"

// DefaultLayerColor is the color assigned to layers created implicitly.
const DefaultLayerColor = 7

type Layer struct {
	Name       string `yaml:"name"`
	Color      int    `yaml:"color"`
	Lineweight int    `yaml:"lineweight,omitempty"`
}

// Entity is one drawn object. Points holds the defining vertices:
// LINE start/end, CIRCLE and ARC center, POLYLINE and HATCH vertices,
// TEXT insertion point, DIMENSION first point, second point, text point.
type Entity struct {
	ID         string          `yaml:"id"`
	Kind       EntityKind      `yaml:"kind"`
	Layer      string          `yaml:"layer"`
	Color      int             `yaml:"color"`
	Lineweight int             `yaml:"lineweight,omitempty"`
	Points     []drawing.Point `yaml:"points,omitempty"`
	Radius     float64         `yaml:"radius,omitempty"`
	StartAngle float64         `yaml:"start_angle,omitempty"`
	EndAngle   float64         `yaml:"end_angle,omitempty"`
	Closed     bool            `yaml:"closed,omitempty"`
	Text       string          `yaml:"text,omitempty"`
	Height     float64         `yaml:"height,omitempty"`
	Rotation   float64         `yaml:"rotation,omitempty"`
	Pattern    string          `yaml:"pattern,omitempty"`
	Scale      float64         `yaml:"scale,omitempty"`
	// BoundaryID links a HATCH to the closed polyline outlining it.
	BoundaryID string `yaml:"boundary_id,omitempty"`
}

// Snapshot is an immutable copy of a document's contents.
type Snapshot struct {
	ActiveLayer string   `yaml:"active_layer"`
	Layers      []Layer  `yaml:"layers"`
	Entities    []Entity `yaml:"entities"`
}

// Document is an in-memory drawing. It is safe for concurrent use.
type Document struct {
	mu       sync.RWMutex
	layers   []Layer
	active   string
	entities []Entity
	newID    func() string
}

// New creates a document holding only the default layer.
func New() *Document {
	return &Document{
		layers: []Layer{{Name: DefaultLayer, Color: DefaultLayerColor}},
		active: DefaultLayer,
		newID:  uuid.NewString,
	}
}

// EnsureLayer adds the layer if it does not exist. Reports whether it was created.
func (d *Document) EnsureLayer(l Layer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ensureLayerLocked(l)
}

func (d *Document) ensureLayerLocked(l Layer) bool {
	if l.Name == "" {
		return false
	}
	if slices.ContainsFunc(d.layers, func(x Layer) bool { return x.Name == l.Name }) {
		return false
	}
	d.layers = append(d.layers, l)
	return true
}

// SetActiveLayer makes name the active layer, creating it if needed.
func (d *Document) SetActiveLayer(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLayerLocked(Layer{Name: name, Color: DefaultLayerColor})
	d.active = name
}

// ActiveLayer returns the active layer name.
func (d *Document) ActiveLayer() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// Add stores e, creating its layer if needed, and returns the assigned ID.
func (d *Document) Add(e Entity) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e.Layer == "" {
		e.Layer = d.active
	}
	d.ensureLayerLocked(Layer{Name: e.Layer, Color: DefaultLayerColor})
	e.ID = d.newID()
	e.Points = slices.Clone(e.Points)
	d.entities = append(d.entities, e)
	return e.ID
}

// Len returns the number of entities.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entities)
}

// Entities returns a copy of all entities in insertion order.
func (d *Document) Entities() []Entity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Entity, len(d.entities))
	for i, e := range d.entities {
		e.Points = slices.Clone(e.Points)
		out[i] = e
	}
	return out
}

// Layers returns a copy of all layers in creation order.
func (d *Document) Layers() []Layer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.layers)
}

// Snapshot copies the document for encoding.
func (d *Document) Snapshot() Snapshot {
	return Snapshot{
		ActiveLayer: d.ActiveLayer(),
		Layers:      d.Layers(),
		Entities:    d.Entities(),
	}
}
