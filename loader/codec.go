package loader

import (
	"encoding/json"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Codec decodes raw file content into a generic map.
type Codec interface {
	Decode(data []byte) (map[string]any, error)
}

// CodecFunc adapts a function to Codec.
type CodecFunc func(data []byte) (map[string]any, error)

// Decode implements Codec.
func (fn CodecFunc) Decode(data []byte) (map[string]any, error) {
	return fn(data)
}

// YAMLCodec decodes YAML documents.
var YAMLCodec = CodecFunc(func(data []byte) (map[string]any, error) {
	out := map[string]any{}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
})

// TOMLCodec decodes TOML documents.
var TOMLCodec = CodecFunc(func(data []byte) (map[string]any, error) {
	out := map[string]any{}
	if err := toml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
})

// JSONCodec decodes JSON, tolerating comments and trailing commas.
var JSONCodec = CodecFunc(func(data []byte) (map[string]any, error) {
	out := map[string]any{}
	if err := json.Unmarshal(jsonc.ToJSON(data), &out); err != nil {
		return nil, err
	}
	return out, nil
})

// Registry maps file extensions to codecs, probed in registration order.
type Registry struct {
	order  []string
	codecs map[string]Codec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: map[string]Codec{}}
}

// DefaultRegistry registers yaml, yml, toml and json in that order.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(".yaml", YAMLCodec)
	r.Register(".yml", YAMLCodec)
	r.Register(".toml", TOMLCodec)
	r.Register(".json", JSONCodec)
	r.Register(".jsonc", JSONCodec)
	return r
}

// Register adds or replaces the codec for ext.
func (r *Registry) Register(ext string, codec Codec) {
	if r == nil || codec == nil {
		return
	}
	ext = normalizeExt(ext)
	if ext == "" {
		return
	}
	if _, ok := r.codecs[ext]; !ok {
		r.order = append(r.order, ext)
	}
	r.codecs[ext] = codec
}

// Extensions returns the registered extensions in probe order.
func (r *Registry) Extensions() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Lookup returns the codec for ext.
func (r *Registry) Lookup(ext string) (Codec, bool) {
	if r == nil {
		return nil, false
	}
	codec, ok := r.codecs[normalizeExt(ext)]
	return codec, ok
}

// Restrict returns a registry limited to the given extensions, in that order.
func (r *Registry) Restrict(exts []string) *Registry {
	out := NewRegistry()
	for _, ext := range exts {
		if codec, ok := r.Lookup(ext); ok {
			out.Register(ext, codec)
		}
	}
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
