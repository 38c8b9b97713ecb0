package kvstore

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Codec serializes documents
type Codec interface {
	Name() string
	Ext() string
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

// CodecFor returns the codec registered for format
func CodecFor(format string) (Codec, error) {
	switch format {
	case "", "json":
		return jsonCodec{}, nil
	case "toml":
		return tomlCodec{}, nil
	case "yaml", "yml":
		return yamlCodec{}, nil
	}
	return nil, fmt.Errorf("unsupported store format %q", format)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Ext() string  { return ".json" }

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(v, "", "  ")
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return sonic.ConfigStd.Unmarshal(data, v)
}

type tomlCodec struct{}

func (tomlCodec) Name() string { return "toml" }
func (tomlCodec) Ext() string  { return ".toml" }

// TOML documents must be tables, so callers store structs, never bare slices
func (tomlCodec) Marshal(v interface{}) ([]byte, error) {
	return toml.Marshal(v)
}

func (tomlCodec) Unmarshal(data []byte, v interface{}) error {
	return toml.Unmarshal(data, v)
}

type yamlCodec struct{}

func (yamlCodec) Name() string { return "yaml" }
func (yamlCodec) Ext() string  { return ".yaml" }

func (yamlCodec) Marshal(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlCodec) Unmarshal(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}
