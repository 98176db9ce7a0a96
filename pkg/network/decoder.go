package network

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Decoder turns a response body into a caller-owned value.
type Decoder interface {
	Decode(data []byte, v any) error
}

// DecoderFunc adapts a plain unmarshal function to Decoder.
type DecoderFunc func(data []byte, v any) error

func (f DecoderFunc) Decode(data []byte, v any) error { return f(data, v) }

// JSONDecoder maps JSON objects onto struct fields by name or json tag.
type JSONDecoder struct{}

func (JSONDecoder) Decode(data []byte, v any) error { return json.Unmarshal(data, v) }

// YAMLDecoder decodes YAML (and therefore JSON) bodies.
type YAMLDecoder struct{}

func (YAMLDecoder) Decode(data []byte, v any) error { return yaml.Unmarshal(data, v) }
