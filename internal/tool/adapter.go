package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
	"github.com/piexl/CAD-MCP/internal/drawing"
)

// Tool is a named operation callable with loosely typed arguments.
type Tool interface {
	Name() string
	Description() string
	// Schema is the JSON Schema of the tool's arguments object.
	Schema() json.RawMessage
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// Executor runs a tool with decoded, typed input.
type Executor[In any] func(ctx context.Context, in In) (string, error)

// Adapter implements Tool for one typed input by decoding argument maps with mapstructure.
type Adapter[In any] struct {
	name        string
	description string
	schema      json.RawMessage
	exec        Executor[In]
}

// NewAdapter creates an Adapter. The argument schema is reflected from In.
func NewAdapter[In any](name, description string, exec Executor[In]) *Adapter[In] {
	if exec == nil {
		panic("exec is required")
	}
	return &Adapter[In]{
		name:        name,
		description: description,
		schema:      GenerateSchema[In](),
		exec:        exec,
	}
}

func (a *Adapter[In]) Name() string            { return a.name }
func (a *Adapter[In]) Description() string     { return a.description }
func (a *Adapter[In]) Schema() json.RawMessage { return a.schema }

// Execute decodes args into In and runs the tool. Unknown argument names are rejected.
func (a *Adapter[In]) Execute(ctx context.Context, args map[string]any) (string, error) {
	var in In
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &in,
		ErrorUnused: true,
		DecodeHook:  pointPairHook,
	})
	if err != nil {
		return "", fmt.Errorf("build decoder: %w", err)
	}
	if err := dec.Decode(args); err != nil {
		return "", &ArgumentError{Tool: a.name, Cause: err}
	}
	return a.exec(ctx, in)
}

// GenerateSchema reflects T into an inline JSON Schema that rejects unknown properties.
func GenerateSchema[T any]() json.RawMessage {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""
	schema.ID = ""

	b, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("marshal schema for %T: %v", v, err))
	}
	return b
}

var pointType = reflect.TypeOf(drawing.Point{})

// pointPairHook also accepts a point written as an [x, y] pair.
func pointPairHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != pointType || from.Kind() != reflect.Slice {
		return data, nil
	}
	pair, ok := data.([]any)
	if !ok || len(pair) != 2 {
		return data, nil
	}
	return map[string]any{"x": pair[0], "y": pair[1]}, nil
}
