// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fragments

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Load operations reported by LoadError.
const (
	OpRead  = "read"
	OpParse = "parse"
)

// LoadError reports a data source that could not be read or parsed.
type LoadError struct {
	Op   string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s data source %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a LoadError for a missing file.
func IsNotFound(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Op == OpRead && errors.Is(le.Err, fs.ErrNotExist)
}

// IsMalformed reports whether err is a LoadError for unparseable content.
func IsMalformed(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Op == OpParse
}

// LoadFile reads a data source file and builds a Store. Files ending in
// .yaml or .yml are decoded as YAML; anything else as JSON.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Op: OpRead, Path: path, Err: err}
	}

	var m map[string][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, &LoadError{Op: OpParse, Path: path, Err: err}
	}
	if m == nil {
		return nil, &LoadError{Op: OpParse, Path: path, Err: errors.New("no categories")}
	}
	return New(m), nil
}
