// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Defaults carried over from the original generator.
const (
	DefaultTheme      = "年轻人买房"
	DefaultLength     = 500
	DefaultDataSource = "data.json"
	DefaultArchiveDir = "archive"
)

// GeneratorConfig holds settings for essay generation.
type GeneratorConfig struct {
	// DataSource is the path to the fragment file (JSON, or YAML by extension).
	DataSource string `json:"data_source" yaml:"data_source"`

	// Theme is the topic substituted for xx tokens.
	Theme string `json:"theme" yaml:"theme"`

	// Length is the requested total essay length in characters (default 500).
	Length int `json:"length" yaml:"length"`

	// Seed fixes the random source when non-zero. Zero seeds from the clock.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`

	// Count is the number of essays to generate in one run (default 1).
	Count int `json:"count" yaml:"count"`
}

// ArchiveConfig holds settings for the essay archive.
type ArchiveConfig struct {
	// Dir is the directory containing the archive database (default "archive").
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default number of essays returned by list queries (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
