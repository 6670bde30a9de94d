package alias

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

type tsconfigFile struct {
	CompilerOptions struct {
		BaseURL string              `json:"baseUrl"`
		Paths   map[string][]string `json:"paths"`
	} `json:"compilerOptions"`
}

// LoadTSConfig reads a tsconfig.json and builds an Alias from its
// compilerOptions.baseUrl/paths. Go's encoding/json does not preserve
// object key order when decoding into a map, but the resolver must try
// alias patterns "in declaration order" (spec §4.C step 2), so the
// ordered key list is recovered separately via token streaming over just
// the compilerOptions.paths object.
func LoadTSConfig(path string) (*Alias, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg tsconfigFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	keys, err := pathsObjectKeys(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	baseURL := cfg.CompilerOptions.BaseURL
	if baseURL == "" {
		baseURL = "."
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(path), baseURL))

	paths := cfg.CompilerOptions.Paths
	if paths == nil {
		paths = make(map[string][]string)
	}

	// Guard against a paths map whose keys the token scan somehow missed:
	// fall back to map iteration order rather than silently dropping them.
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	for k := range paths {
		if !seen[k] {
			keys = append(keys, k)
		}
	}

	return &Alias{Root: root, Keys: keys, Paths: paths}, nil
}

// pathsObjectKeys decodes just enough of the document to read
// compilerOptions.paths as an ordered object, returning its keys in
// declaration order.
func pathsObjectKeys(data []byte) ([]string, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	co, ok := root["compilerOptions"]
	if !ok {
		return nil, nil
	}

	var coFields map[string]json.RawMessage
	if err := json.Unmarshal(co, &coFields); err != nil {
		return nil, err
	}
	pathsRaw, ok := coFields["paths"]
	if !ok {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(pathsRaw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("paths is not an object")
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected paths key token %v", keyTok)
		}
		keys = append(keys, key)

		var discard json.RawMessage
		if err := dec.Decode(&discard); err != nil {
			return nil, err
		}
	}

	return keys, nil
}
