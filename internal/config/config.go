// Package config resolves codelens's environment-variable configuration
// contract (spec section 6: External Interfaces).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EmbeddingsBackend selects which embedder codelens constructs.
type EmbeddingsBackend string

const (
	BackendNeural EmbeddingsBackend = "neural"
	BackendHash   EmbeddingsBackend = "hash"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	BaseDir   string
	RepoRoots []string

	EmbeddingsBackend   EmbeddingsBackend
	EmbeddingsModelRepo string
	EmbeddingsDevice    string
	EmbeddingBatchSize  int
	EmbeddingDimension  int

	DBPath           string
	VectorDBPath     string
	FullTextIndexDir string

	WatchMode       bool
	WatchDebounceMS int

	MaxContextBytes  int
	MaxContextTokens int
	TokenEncoding    string

	ParallelWorkers int

	PagerankDamping    float64
	PagerankIterations int

	RRFEnabled      bool
	RRFK            int
	RRFKeywordWeight float64
	RRFVectorWeight  float64
	RRFGraphWeight   float64

	RankKeywordWeight float64
	RankVectorWeight  float64

	ExportedBoost    float64
	PopularityWeight float64

	RerankEnabled bool
	HydeEnabled   bool

	LearningEnabled bool

	InferenceConcurrency int

	SynonymsEnabled bool
	AcronymsEnabled bool
	StemmingEnabled bool
	StemMinLength   int
	FuzzyEnabled    bool
	FuzzyThreshold  float64
}

// FromEnv builds a Config from process environment variables, applying the
// defaults documented in spec.md section 6.
func FromEnv() (*Config, error) {
	base := os.Getenv("BASE_DIR")
	if base == "" {
		return nil, fmt.Errorf("config: BASE_DIR is required")
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("config: resolve BASE_DIR: %w", err)
	}
	info, err := os.Stat(base)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("config: BASE_DIR %q is not a directory", base)
	}

	c := &Config{
		BaseDir:              base,
		EmbeddingsBackend:    EmbeddingsBackend(getString("EMBEDDINGS_BACKEND", string(BackendNeural))),
		EmbeddingsModelRepo:  getString("EMBEDDINGS_MODEL_REPO", ""),
		EmbeddingsDevice:     getString("EMBEDDINGS_DEVICE", "cpu"),
		EmbeddingBatchSize:   getInt("EMBEDDING_BATCH_SIZE", 32),
		EmbeddingDimension:   getInt("EMBEDDING_DIMENSION", 256),
		WatchMode:            getBool("WATCH_MODE", false),
		WatchDebounceMS:      getInt("WATCH_DEBOUNCE_MS", 300),
		MaxContextBytes:      getInt("MAX_CONTEXT_BYTES", 1<<20),
		MaxContextTokens:     getInt("MAX_CONTEXT_TOKENS", 8192),
		TokenEncoding:        getString("TOKEN_ENCODING", "o200k_base"),
		ParallelWorkers:      getInt("PARALLEL_WORKERS", 8),
		PagerankDamping:      getFloat("PAGERANK_DAMPING", 0.85),
		PagerankIterations:   getInt("PAGERANK_ITERATIONS", 20),
		RRFEnabled:           getBool("RRF_ENABLED", true),
		RRFK:                 getInt("RRF_K", 60),
		RRFKeywordWeight:     getFloat("RRF_KEYWORD_WEIGHT", 1.0),
		RRFVectorWeight:      getFloat("RRF_VECTOR_WEIGHT", 1.0),
		RRFGraphWeight:       getFloat("RRF_GRAPH_WEIGHT", 0.5),
		RankKeywordWeight:    getFloat("RANK_KEYWORD_WEIGHT", 1.0),
		RankVectorWeight:     getFloat("RANK_VECTOR_WEIGHT", 1.0),
		ExportedBoost:        getFloat("RANK_EXPORTED_BOOST", 3.0),
		PopularityWeight:     getFloat("RANK_POPULARITY_WEIGHT", 2.0),
		RerankEnabled:        getBool("RERANK_ENABLED", false),
		HydeEnabled:          getBool("HYDE_ENABLED", false),
		LearningEnabled:      getBool("LEARNING_ENABLED", true),
		InferenceConcurrency: getInt("INFERENCE_CONCURRENCY", 4),
		SynonymsEnabled:      getBool("REWRITE_SYNONYMS_ENABLED", true),
		AcronymsEnabled:      getBool("REWRITE_ACRONYMS_ENABLED", true),
		StemmingEnabled:      getBool("REWRITE_STEMMING_ENABLED", true),
		StemMinLength:        getInt("REWRITE_STEM_MIN_LENGTH", 3),
		FuzzyEnabled:         getBool("REWRITE_FUZZY_ENABLED", true),
		FuzzyThreshold:       getFloat("REWRITE_FUZZY_THRESHOLD", 0.82),
	}

	if roots := os.Getenv("REPO_ROOTS"); roots != "" {
		for _, r := range strings.Split(roots, ",") {
			r = strings.TrimSpace(r)
			if r == "" {
				continue
			}
			if !filepath.IsAbs(r) {
				r = filepath.Join(base, r)
			}
			c.RepoRoots = append(c.RepoRoots, r)
		}
	}
	if len(c.RepoRoots) == 0 {
		c.RepoRoots = []string{base}
	}

	c.DBPath = resolvePath(base, getString("DB_PATH", filepath.Join(".codelens", "index.db")))
	c.VectorDBPath = resolvePath(base, getString("VECTOR_DB_PATH", filepath.Join(".codelens", "vectors.db")))
	c.FullTextIndexDir = resolvePath(base, getString("TANTIVY_INDEX_PATH", filepath.Join(".codelens", "fulltext.db")))

	return c, nil
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
