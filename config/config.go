// Package config loads the hybrid retrieval core's tunables from a YAML
// file into a typed Config struct tree. Every tunable in the engine's
// configuration surface has a field here.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/agrama-dev/hybridcore/internal/lexical"
	"github.com/agrama-dev/hybridcore/internal/vector"
	"github.com/agrama-dev/hybridcore/search"
)

// Config is the complete set of tunables the engine accepts.
type Config struct {
	// EmbeddingDim is the fixed dimensionality enforced by the ANN index.
	EmbeddingDim int `yaml:"embedding_dim"`

	ANN    ANNConfig    `yaml:"ann"`
	BM25   BM25Config   `yaml:"bm25"`
	Cache  CacheConfig  `yaml:"cache"`
	Fusion FusionConfig `yaml:"fusion"`

	// KindWeights is the per-content-kind BM25 multiplier table, keyed by
	// the kind names in internal/token.Kind.String().
	KindWeights map[string]float64 `yaml:"kind_weights"`
}

// ANNConfig holds the vector index's build/search parameters.
type ANNConfig struct {
	M              int `yaml:"ann_m"`
	EfConstruction int `yaml:"ann_ef_construction"`
	EfSearch       int `yaml:"ann_ef_search"`
}

// BM25Config holds the lexical index's scoring parameters.
type BM25Config struct {
	K1 float64 `yaml:"bm25_k1"`
	B  float64 `yaml:"bm25_b"`
}

// CacheConfig holds the result cache's capacity and expiry.
type CacheConfig struct {
	Capacity int           `yaml:"cache_capacity"`
	TTL      time.Duration `yaml:"cache_ttl"`
}

// FusionConfig holds the hybrid planner's default fusion weights, used
// when a caller's HybridQuery omits them.
type FusionConfig struct {
	Alpha float64 `yaml:"default_alpha"`
	Beta  float64 `yaml:"default_beta"`
	Gamma float64 `yaml:"default_gamma"`
}

// DefaultConfig returns the documented defaults: bm25_k1=1.2, bm25_b=0.75,
// cache_ttl=300s, cache_capacity=100, ann_M=16/ef_construction=200/
// ef_search=50, and a 0.4/0.4/0.2 fusion split.
func DefaultConfig(embeddingDim int) Config {
	return Config{
		EmbeddingDim: embeddingDim,
		ANN:          ANNConfig{M: 16, EfConstruction: 200, EfSearch: 50},
		BM25:         BM25Config{K1: 1.2, B: 0.75},
		Cache:        CacheConfig{Capacity: 100, TTL: 300 * time.Second},
		Fusion:       FusionConfig{Alpha: 0.4, Beta: 0.4, Gamma: 0.2},
		KindWeights: map[string]float64{
			"function": 3.0,
			"type":     2.5,
			"variable": 2.0,
			"comment":  1.0,
			"mixed":    1.0,
		},
	}
}

// Load reads a YAML config file at path and merges it over DefaultConfig.
// A missing file is not an error: DefaultConfig(embeddingDim) is returned
// unchanged, since the config file itself is optional.
func Load(path string, embeddingDim int) (Config, error) {
	cfg := DefaultConfig(embeddingDim)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LexicalConfig translates this Config's BM25 fields and kind weights into
// an internal/lexical.Config.
func (c Config) LexicalConfig() lexical.Config {
	kw := make(map[lexical.ContentKind]float64, len(c.KindWeights))
	for name, w := range c.KindWeights {
		if kind, ok := kindByName[name]; ok {
			kw[kind] = w
		}
	}
	if len(kw) == 0 {
		kw = lexical.DefaultKindWeights()
	}
	return lexical.Config{K1: c.BM25.K1, B: c.BM25.B, KindWeights: kw}
}

var kindByName = map[string]lexical.ContentKind{
	"function": lexical.KindFunction,
	"type":     lexical.KindType,
	"variable": lexical.KindVariable,
	"comment":  lexical.KindComment,
	"mixed":    lexical.KindMixed,
}

// VectorConfig translates this Config's ANN fields into an
// internal/vector.Config.
func (c Config) VectorConfig() vector.Config {
	return vector.Config{
		Dim:            c.EmbeddingDim,
		M:              c.ANN.M,
		EfConstruction: c.ANN.EfConstruction,
		EfSearch:       c.ANN.EfSearch,
	}
}

// CacheOptions returns the capacity and TTL the result cache should be
// constructed with.
func (c Config) CacheOptions() (capacity int, ttl time.Duration) {
	return c.Cache.Capacity, c.Cache.TTL
}

// DefaultWeights returns this Config's default fusion weights as
// search.Weights, used when a caller's HybridQuery carries the zero value.
func (c Config) DefaultWeights() search.Weights {
	return search.Weights{Alpha: c.Fusion.Alpha, Beta: c.Fusion.Beta, Gamma: c.Fusion.Gamma}
}
