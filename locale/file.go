package locale

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tescord/tescord/errors"
)

// FileConfig configures a locale file load.
type FileConfig struct {
	// Path to a .json, .yaml or .yml file.
	Path string
	// Language tag of the fragment. Defaults to the file name stem
	// ("locales/en.yaml" -> "en").
	Language string
	// Extract is a $-rooted dotted path selecting the subtree to register
	// ("$.bot.messages"). Defaults to "$", the whole document.
	Extract string
}

// LoadFile reads a structured file, extracts the configured subtree and
// registers it as a content fragment. Unsupported formats and missing
// extraction paths are registration errors.
func (s *Store) LoadFile(cfg FileConfig) (Disposer, error) {
	raw, err := os.ReadFile(cfg.Path)
	if err != nil {
		return nil, errors.WrapRegistration(err, "LocaleStore", "LoadFile", "read "+cfg.Path)
	}

	doc, err := toJSON(cfg.Path, raw)
	if err != nil {
		return nil, err
	}

	data, err := extract(doc, cfg.Extract)
	if err != nil {
		return nil, errors.WrapRegistration(err, "LocaleStore", "LoadFile", "extract from "+cfg.Path)
	}

	language := cfg.Language
	if language == "" {
		base := filepath.Base(cfg.Path)
		language = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return s.Load(Fragment{ID: cfg.Path, Language: language, Data: data})
}

// toJSON normalizes a locale file to JSON bytes for path extraction.
func toJSON(path string, raw []byte) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return raw, nil
	case ".yaml", ".yml":
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, errors.WrapRegistration(err, "LocaleStore", "LoadFile", "parse "+path)
		}
		out, err := json.Marshal(doc)
		if err != nil {
			return nil, errors.WrapRegistration(err, "LocaleStore", "LoadFile", "normalize "+path)
		}
		return out, nil
	default:
		return nil, errors.WrapRegistration(errors.ErrUnsupportedFile, "LocaleStore", "LoadFile", path)
	}
}

// extract selects the subtree at a $-rooted dotted path.
func extract(doc []byte, path string) (map[string]any, error) {
	var result gjson.Result
	switch {
	case path == "" || path == "$":
		result = gjson.ParseBytes(doc)
	case strings.HasPrefix(path, "$."):
		result = gjson.GetBytes(doc, strings.TrimPrefix(path, "$."))
		if !result.Exists() {
			return nil, fmt.Errorf("%w: %s", errors.ErrMissingPath, path)
		}
	default:
		return nil, fmt.Errorf("%w: path %q must be $-rooted", errors.ErrMissingPath, path)
	}

	data, ok := result.Value().(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not an object", errors.ErrMissingPath, path)
	}
	return data, nil
}
