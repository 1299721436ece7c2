package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/piexl/CAD-MCP/internal/automation"
	"github.com/piexl/CAD-MCP/internal/backend"
	"github.com/piexl/CAD-MCP/internal/drawing"
)

// Name identifies this backend variant.
const Name = "live"

const (
	defaultStartupWait  = 20 * time.Second
	defaultPollInterval = time.Second
)

var errNoDocument = errors.New("application reported no active document")

// bridge is the request/response channel to the drafting application.
type bridge interface {
	Dial(ctx context.Context) error
	Connected() bool
	Call(ctx context.Context, method string, params any, result any) error
	Close() error
}

// launcher starts the drafting application.
type launcher interface {
	Enabled() bool
	Launch(ctx context.Context) error
}

// Options tunes connection and pacing behavior.
type Options struct {
	// CADType selects the application: AutoCAD, GstarCAD, GCAD or ZWCAD.
	CADType      string
	StartupWait  time.Duration
	PollInterval time.Duration
	CommandDelay time.Duration
}

// Backend drives a running drafting application through its automation bridge.
type Backend struct {
	client   bridge
	launcher launcher
	opts     Options
	logger   *slog.Logger

	mu       sync.Mutex
	version  string
	document string
}

// New creates a live backend. launcher may be nil, in which case Connect only attaches.
func New(client bridge, launcher launcher, opts Options, logger *slog.Logger) *Backend {
	if client == nil {
		panic("client is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.CADType == "" {
		opts.CADType = "AutoCAD"
	}
	if opts.StartupWait <= 0 {
		opts.StartupWait = defaultStartupWait
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	return &Backend{
		client:   client,
		launcher: launcher,
		opts:     opts,
		logger:   logger.With("component", "live", "cad_type", opts.CADType),
	}
}

func (b *Backend) Name() string { return Name }

func (b *Backend) CommandDelay() time.Duration { return b.opts.CommandDelay }

var applicationIDs = map[string]string{
	"autocad":  "AutoCAD.Application",
	"gstarcad": "GCAD.Application",
	"gcad":     "GCAD.Application",
	"zwcad":    "ZWCAD.Application",
}

// ApplicationID maps a CAD type name to the automation ID the bridge attaches to.
// Unknown types fall back to AutoCAD.
func ApplicationID(cadType string) string {
	if id, ok := applicationIDs[strings.ToLower(strings.TrimSpace(cadType))]; ok {
		return id
	}
	return applicationIDs["autocad"]
}

// Connect attaches to a running instance, launching one if none answers,
// and makes sure a document is open.
func (b *Backend) Connect(ctx context.Context) (string, error) {
	appID := ApplicationID(b.opts.CADType)

	if err := b.attach(ctx, appID); err != nil {
		if b.launcher == nil || !b.launcher.Enabled() {
			return "", backend.NewFatalError("connect", err)
		}
		b.logger.Info("no running instance answered, launching", "application", appID, "error", err)
		if err := b.launcher.Launch(ctx); err != nil {
			return "", backend.NewFatalError("launch", err)
		}
		if err := b.waitForAttach(ctx, appID); err != nil {
			return "", backend.NewFatalError("connect", err)
		}
	}

	if err := b.call(ctx, "connect", automation.MethodOpenDocument, nil, nil); err != nil {
		return "", asFatal(err)
	}
	var doc documentResult
	if err := b.call(ctx, "connect", automation.MethodDocumentName, nil, &doc); err != nil {
		return "", asFatal(err)
	}
	if doc.Name == "" {
		return "", backend.NewFatalError("connect", errNoDocument)
	}

	b.mu.Lock()
	b.document = doc.Name
	version := b.version
	b.mu.Unlock()

	b.logger.Info("connected", "application", appID, "document", doc.Name)
	if version != "" {
		return fmt.Sprintf("Connected to %s %s, active document %s", b.opts.CADType, version, doc.Name), nil
	}
	return fmt.Sprintf("Connected to %s, active document %s", b.opts.CADType, doc.Name), nil
}

func (b *Backend) attach(ctx context.Context, appID string) error {
	if err := b.client.Dial(ctx); err != nil {
		return err
	}
	var res attachResult
	if err := b.client.Call(ctx, automation.MethodAttach, attachRequest{Application: appID}, &res); err != nil {
		return err
	}
	b.mu.Lock()
	b.version = res.Version
	b.mu.Unlock()
	return nil
}

// waitForAttach polls until the launched application accepts an attach or StartupWait elapses.
func (b *Backend) waitForAttach(ctx context.Context, appID string) error {
	waitCtx, cancel := context.WithTimeout(ctx, b.opts.StartupWait)
	defer cancel()

	ticker := time.NewTicker(b.opts.PollInterval)
	defer ticker.Stop()

	var lastErr error
	for {
		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return err
			}
			if lastErr == nil {
				return fmt.Errorf("%s did not become ready within %s", b.opts.CADType, b.opts.StartupWait)
			}
			return fmt.Errorf("%s did not become ready within %s: %w", b.opts.CADType, b.opts.StartupWait, lastErr)
		case <-ticker.C:
			err := b.attach(waitCtx, appID)
			if err == nil {
				return nil
			}
			lastErr = err
			b.logger.Debug("application not ready yet", "error", err)
		}
	}
}

func (b *Backend) DrawLine(ctx context.Context, p backend.LineParams) (string, error) {
	req := lineRequest{Start: p.Start, End: p.End, style: toStyle(p.Style)}
	h, err := b.draw(ctx, "draw line", automation.MethodAddLine, req, p.Style)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Line drawn from %s to %s%s", p.Start, p.End, suffix(p.Style, h)), nil
}

func (b *Backend) DrawCircle(ctx context.Context, p backend.CircleParams) (string, error) {
	req := circleRequest{Center: p.Center, Radius: p.Radius, style: toStyle(p.Style)}
	h, err := b.draw(ctx, "draw circle", automation.MethodAddCircle, req, p.Style)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Circle drawn at %s with radius %g%s", p.Center, p.Radius, suffix(p.Style, h)), nil
}

func (b *Backend) DrawArc(ctx context.Context, p backend.ArcParams) (string, error) {
	req := arcRequest{
		Center:     p.Center,
		Radius:     p.Radius,
		StartAngle: p.StartAngle,
		EndAngle:   p.EndAngle,
		style:      toStyle(p.Style),
	}
	h, err := b.draw(ctx, "draw arc", automation.MethodAddArc, req, p.Style)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Arc drawn at %s with radius %g from %g° to %g°%s",
		p.Center, p.Radius, p.StartAngle, p.EndAngle, suffix(p.Style, h)), nil
}

// DrawRectangle draws a closed four-vertex polyline.
func (b *Backend) DrawRectangle(ctx context.Context, p backend.RectangleParams) (string, error) {
	req := polylineRequest{
		Points: drawing.RectangleVertices(p.Corner1, p.Corner2),
		Closed: true,
		style:  toStyle(p.Style),
	}
	h, err := b.draw(ctx, "draw rectangle", automation.MethodAddPolyline, req, p.Style)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Rectangle drawn from %s to %s%s", p.Corner1, p.Corner2, suffix(p.Style, h)), nil
}

func (b *Backend) DrawPolyline(ctx context.Context, p backend.PolylineParams) (string, error) {
	req := polylineRequest{Points: p.Points, Closed: p.Closed, style: toStyle(p.Style)}
	h, err := b.draw(ctx, "draw polyline", automation.MethodAddPolyline, req, p.Style)
	if err != nil {
		return "", err
	}
	kind := "Open"
	if p.Closed {
		kind = "Closed"
	}
	return fmt.Sprintf("%s polyline drawn with %d vertices%s", kind, len(p.Points), suffix(p.Style, h)), nil
}

func (b *Backend) DrawText(ctx context.Context, p backend.TextParams) (string, error) {
	req := textRequest{
		Position: p.Position,
		Text:     p.Text,
		Height:   p.Height,
		Rotation: p.Rotation,
		style:    toStyle(p.Style),
	}
	h, err := b.draw(ctx, "draw text", automation.MethodAddText, req, p.Style)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Text %q placed at %s with height %g%s", p.Text, p.Position, p.Height, suffix(p.Style, h)), nil
}

// DrawHatch draws the closed boundary polyline first and fills it by handle.
func (b *Backend) DrawHatch(ctx context.Context, p backend.HatchParams) (string, error) {
	const op = "draw hatch"
	h, err := b.drawWith(ctx, op, p.Style, func() (string, error) {
		boundary := polylineRequest{Points: p.Boundary, Closed: true, style: toStyle(p.Style)}
		bh, err := b.add(ctx, op, automation.MethodAddPolyline, boundary)
		if err != nil {
			return "", err
		}
		return b.add(ctx, op, automation.MethodAddHatch, hatchRequest{
			BoundaryHandle: bh,
			Boundary:       p.Boundary,
			Pattern:        p.Pattern,
			Scale:          p.Scale,
			style:          toStyle(p.Style),
		})
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Hatch %s (scale %g) filled over %d boundary vertices%s",
		p.Pattern, p.Scale, len(p.Boundary), suffix(p.Style, h)), nil
}

func (b *Backend) AddDimension(ctx context.Context, p backend.DimensionParams) (string, error) {
	req := dimensionRequest{
		Point1:       p.Point1,
		Point2:       p.Point2,
		TextPosition: p.TextPosition,
		TextHeight:   p.TextHeight,
		style:        toStyle(p.Style),
	}
	h, err := b.draw(ctx, "add dimension", automation.MethodAddDimension, req, p.Style)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Dimension added from %s to %s%s", p.Point1, p.Point2, suffix(p.Style, h)), nil
}

// CreateLayer creates the layer if needed and makes it current.
func (b *Backend) CreateLayer(ctx context.Context, p backend.LayerParams) (string, error) {
	if !b.client.Connected() {
		return "", backend.NewFatalError("create layer", automation.ErrNotDialed)
	}
	var res layerResult
	req := layerRequest{Name: p.Name, Color: p.Color, Lineweight: p.Lineweight}
	if err := b.call(ctx, "create layer", automation.MethodEnsureLayer, req, &res); err != nil {
		return "", err
	}
	if err := b.call(ctx, "create layer", automation.MethodSetActiveLayer, layerRequest{Name: p.Name}, nil); err != nil {
		return "", err
	}
	if res.Created {
		return fmt.Sprintf("Layer %s created and set active (color %d)", p.Name, p.Color), nil
	}
	return fmt.Sprintf("Layer %s already exists, set active", p.Name), nil
}

// Save asks the application to write the active document to p.Path.
func (b *Backend) Save(ctx context.Context, p backend.SaveParams) (string, error) {
	if !b.client.Connected() {
		return "", backend.NewFatalError("save", automation.ErrNotDialed)
	}
	if err := b.call(ctx, "save", automation.MethodSaveAs, saveRequest{Path: p.Path}, nil); err != nil {
		return "", err
	}
	b.logger.Info("drawing saved", "path", p.Path)
	return fmt.Sprintf("Drawing saved to %s", p.Path), nil
}

// Close detaches from the application. The application itself keeps running.
func (b *Backend) Close(ctx context.Context) (string, error) {
	if b.client.Connected() {
		if err := b.client.Call(ctx, automation.MethodDetach, nil, nil); err != nil {
			b.logger.Warn("detach failed", "error", err)
		}
	}
	if err := b.client.Close(); err != nil {
		b.logger.Warn("closing bridge connection failed", "error", err)
	}
	b.mu.Lock()
	b.document = ""
	b.mu.Unlock()
	return fmt.Sprintf("Disconnected from %s", b.opts.CADType), nil
}

// draw ensures the target layer exists, issues the entity call and regenerates the view.
func (b *Backend) draw(ctx context.Context, op, method string, req any, s backend.Style) (string, error) {
	return b.drawWith(ctx, op, s, func() (string, error) {
		return b.add(ctx, op, method, req)
	})
}

// drawWith runs add between the layer check and the regen. add returns the handle reported
// to the caller.
func (b *Backend) drawWith(ctx context.Context, op string, s backend.Style, add func() (string, error)) (string, error) {
	if !b.client.Connected() {
		return "", backend.NewFatalError(op, automation.ErrNotDialed)
	}
	if s.Layer != "" {
		if err := b.call(ctx, op, automation.MethodEnsureLayer, layerRequest{Name: s.Layer}, nil); err != nil {
			return "", err
		}
	}
	handle, err := add()
	if err != nil {
		return "", err
	}
	if err := b.call(ctx, op, automation.MethodRegen, nil, nil); err != nil {
		return "", err
	}
	return handle, nil
}

func (b *Backend) add(ctx context.Context, op, method string, req any) (string, error) {
	var res entityResult
	if err := b.call(ctx, op, method, req, &res); err != nil {
		return "", err
	}
	return res.Handle, nil
}

// call maps bridge failures onto the backend error taxonomy.
func (b *Backend) call(ctx context.Context, op, method string, params, result any) error {
	err := b.client.Call(ctx, method, params, result)
	if err == nil {
		return nil
	}
	if automation.IsTransport(err) {
		b.logger.Error("bridge connection lost", "op", op, "method", method, "error", err)
		return backend.NewFatalError(op, err)
	}
	return backend.NewError(op, err)
}

func asFatal(err error) error {
	var be *backend.Error
	if errors.As(err, &be) {
		be.Fatal = true
		return be
	}
	return backend.NewFatalError("connect", err)
}

func suffix(s backend.Style, handle string) string {
	out := fmt.Sprintf(" on layer %s (color %d)", s.Layer, s.Color)
	if handle != "" {
		out += ", handle " + handle
	}
	return out
}
