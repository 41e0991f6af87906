// Package local provides a deterministic embedding service with no
// external dependencies. Tokens are feature-hashed into a fixed-size
// vector, so the same text always embeds identically and no model
// server is required. Quality is well below a learned model; it exists
// for offline operation and tests.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/esilv-labs/askcampus/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the fixed size of the hashed vector space.
const DefaultDimensions = 512

// tokenPattern matches words including apostrophe contractions, so
// French input tokenizes sensibly.
var tokenPattern = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)

// Config holds configuration for the local embedding service.
type Config struct {
	// Dimensions is the embedding vector size (default: 512).
	Dimensions int
}

// EmbeddingService produces hashed bag-of-tokens embeddings. It is
// stateless and safe for concurrent use.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a new local embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: cfg.Dimensions}
}

// Embed generates a vector embedding for the given text. Unigrams and
// adjacent bigrams are hashed into the vector, which is then L2
// normalised so cosine similarity reduces to a dot product.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimensions)

	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	for i, tok := range tokens {
		vec[s.slot(tok)]++
		if i+1 < len(tokens) {
			vec[s.slot(tok+" "+tokens[i+1])]++
		}
	}

	normalize(vec)
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (s *EmbeddingService) slot(feature string) int {
	h := fnv.New32a()
	h.Write([]byte(feature))
	return int(h.Sum32() % uint32(s.dimensions))
}

func normalize(vec []float32) {
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return "local-hash"
}

// Ping always succeeds; there is no remote service to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
