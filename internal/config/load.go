package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/robopost/internal/post"
)

//go:embed schema.cue
var schemaSource string

// Load reads the config file at path and merges it over base. The format
// is picked from the extension: .cue, .yaml, .yml or .json.
func Load(path string, base map[string]any) (post.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return post.Config{}, &LoadError{Code: ErrCodeRead, Path: path, Err: err}
	}
	return Parse(path, data, base)
}

// Parse decodes data as the format named by filename's extension, merges
// it over base, and validates the result against #Config.
func Parse(filename string, data []byte, base map[string]any) (post.Config, error) {
	var file map[string]any
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".cue":
		file, err = decodeCUE(filename, data)
	case ".yaml", ".yml", ".json":
		err = yaml.Unmarshal(data, &file)
	default:
		return post.Config{}, &LoadError{Code: ErrCodeFormat, Path: filename,
			Err: fmt.Errorf("unsupported config format %q (want .cue, .yaml or .json)", filepath.Ext(filename))}
	}
	if err != nil {
		return post.Config{}, &LoadError{Code: ErrCodeParse, Path: filename, Err: err}
	}

	merged := Merge(base, file)
	return Validate(filename, merged)
}

// Merge returns a new mapping with later layers overriding earlier ones.
// Nil values in a later layer do not clear earlier ones.
func Merge(layers ...map[string]any) map[string]any {
	out := map[string]any{}
	for _, layer := range layers {
		for k, v := range layer {
			if v == nil {
				continue
			}
			out[k] = v
		}
	}
	return out
}

// Validate checks m against #Config, fills schema defaults, and converts
// it to a post.Config. name labels errors.
func Validate(name string, m map[string]any) (post.Config, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return post.Config{}, fmt.Errorf("config schema: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(m))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return post.Config{}, &LoadError{Code: ErrCodeInvalid, Path: name, Err: err}
	}

	flat, err := toMap(v)
	if err != nil {
		return post.Config{}, &LoadError{Code: ErrCodeInvalid, Path: name, Err: err}
	}
	cfg, err := post.ConfigFromMap(flat)
	if err != nil {
		return post.Config{}, &LoadError{Code: ErrCodeInvalid, Path: name, Err: err}
	}
	return cfg, nil
}

// decodeCUE evaluates a CUE document into a plain mapping.
func decodeCUE(filename string, data []byte) (map[string]any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, err
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, err
	}
	return toMap(v)
}

// toMap exports a concrete CUE struct. Numbers come back as int64 when
// integral in the source and float64 otherwise.
func toMap(v cue.Value) (map[string]any, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	out, _ := normalize(m).(map[string]any)
	return out, nil
}

func normalize(v any) any {
	switch val := v.(type) {
	case json.Number:
		if n, err := val.Int64(); err == nil {
			return n
		}
		f, _ := val.Float64()
		return f
	case []any:
		for i := range val {
			val[i] = normalize(val[i])
		}
		return val
	case map[string]any:
		out := maps.Clone(val)
		for k, elem := range out {
			out[k] = normalize(elem)
		}
		return out
	default:
		return v
	}
}
