// Package codec converts current orgmodel trees to and from their JSON wire
// shape:
//
//	{"dataType":"org-document","properties":{...},"contents":[...]}
//	{"dataType":"org-node","type":"clock","ref":"n3","properties":{...},"contents":[],"timestamp":{...}}
//
// Single-node slots (clock.timestamp, planning.deadline, ...) are top-level
// keys of their node. Decoding always re-assembles through orgmodel's
// construction API, so a decoded tree is validated and keeps its refs.
package codec

import (
	"context"

	orgmodel "github.com/reoring/orgmodel"
)

// Codec converts between the wire representation A and the domain value B.
type Codec[A, B any] interface {
	Decode(ctx context.Context, a A) (B, error)
	Encode(ctx context.Context, b B) (A, error)
}

// DecodeOption configures decoding.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	builder *orgmodel.Builder
}

// WithBuilder assembles decoded nodes through b (default: a fresh Builder per
// call).
func WithBuilder(b *orgmodel.Builder) DecodeOption {
	return func(c *decodeConfig) { c.builder = b }
}

func newDecodeConfig(opts []DecodeOption) decodeConfig {
	var c decodeConfig
	for _, o := range opts {
		o(&c)
	}
	if c.builder == nil {
		c.builder = orgmodel.NewBuilder()
	}
	return c
}

// JSON returns a Codec between JSON bytes and documents.
func JSON(opts ...DecodeOption) Codec[[]byte, *orgmodel.Document] {
	return &documentJSON{opts: opts}
}

type documentJSON struct {
	opts []DecodeOption
}

func (c *documentJSON) Decode(ctx context.Context, data []byte) (*orgmodel.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodeJSON(data, c.opts...)
}

func (c *documentJSON) Encode(ctx context.Context, doc *orgmodel.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return EncodeJSON(doc)
}

// NodeJSON returns a Codec between JSON bytes and single nodes.
func NodeJSON(opts ...DecodeOption) Codec[[]byte, *orgmodel.Node] {
	return &nodeJSON{opts: opts}
}

type nodeJSON struct {
	opts []DecodeOption
}

func (c *nodeJSON) Decode(ctx context.Context, data []byte) (*orgmodel.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return DecodeNodeJSON(data, c.opts...)
}

func (c *nodeJSON) Encode(ctx context.Context, n *orgmodel.Node) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return EncodeNodeJSON(n)
}
