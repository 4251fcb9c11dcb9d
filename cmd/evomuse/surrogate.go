package main

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/evomuse/evomuse/pkg/core"
)

// surrogateEmbeddingSize is the per-position embedding width of the
// surrogate backend.
const surrogateEmbeddingSize = 8

// musicVocabulary rewards prompts that actually describe music. Scoring
// against it is crude but deterministic, which is all a dry run needs.
var musicVocabulary = []string{
	"ambient", "ballad", "bass", "beat", "blues", "cello", "chill",
	"choir", "classical", "drums", "electronic", "energetic", "funk",
	"guitar", "jazz", "lofi", "melancholic", "melodic", "orchestral",
	"piano", "pop", "rhythm", "rock", "slow", "soul", "strings",
	"synth", "tempo", "upbeat", "violin", "vocal",
}

// surrogateGenerator stands in for a music model: it renders the solution
// to a small text artifact instead of audio.
type surrogateGenerator struct{}

func (g *surrogateGenerator) EmbeddingSize() int { return surrogateEmbeddingSize }

func (g *surrogateGenerator) Generate(_ context.Context, solution core.Solution, name string) (string, error) {
	f, err := os.CreateTemp("", filepath.Base(name)+"_*.txt")
	if err != nil {
		return "", err
	}
	defer f.Close()

	var content string
	if solution.Representation() == core.RepresentationVector {
		parts := make([]string, solution.Len())
		for i, v := range solution.Vector() {
			parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		content = "vec " + strings.Join(parts, " ")
	} else {
		content = solution.Text()
	}
	if _, err := f.WriteString(content); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

// EmbedText produces deterministic pseudo-embeddings: each position is
// seeded from the hash of the prompt and the position index.
func (g *surrogateGenerator) EmbedText(_ context.Context, prompts []string, maxSeqLen int) ([][]float64, error) {
	out := make([][]float64, len(prompts))
	for i, prompt := range prompts {
		h := fnv.New64a()
		fmt.Fprint(h, prompt)
		seed := h.Sum64()

		vec := make([]float64, maxSeqLen*surrogateEmbeddingSize)
		for j := range vec {
			// xorshift over the seed keeps the values reproducible.
			seed ^= seed << 13
			seed ^= seed >> 7
			seed ^= seed << 17
			vec[j] = float64(int64(seed%2000)-1000) / 1000
		}
		out[i] = vec
	}
	return out, nil
}

// surrogateScorer scores artifacts in [-1, 1]. Text artifacts are scored
// by musical vocabulary coverage and word variety; vector artifacts by
// closeness to a smooth sine target, which gives the continuous GA a
// gradient to climb.
type surrogateScorer struct{}

func (s *surrogateScorer) Score(_ context.Context, artifactPath string) (float64, error) {
	data, err := os.ReadFile(artifactPath)
	if err != nil {
		return 0, err
	}
	content := string(data)

	if rest, ok := strings.CutPrefix(content, "vec "); ok {
		return scoreVector(strings.Fields(rest))
	}
	return scoreText(content), nil
}

func scoreText(prompt string) float64 {
	words := strings.Fields(strings.ToLower(prompt))
	if len(words) == 0 {
		return -1
	}

	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[strings.Trim(w, ".,;:!?")] = struct{}{}
	}

	hits := 0
	for _, term := range musicVocabulary {
		if _, ok := distinct[term]; ok {
			hits++
		}
	}

	vocabulary := math.Min(float64(hits)/5, 1)
	variety := float64(len(distinct)) / float64(len(words))
	lengthFit := 1 - math.Abs(float64(len(words))-12)/24
	if lengthFit < 0 {
		lengthFit = 0
	}

	return 0.6*vocabulary + 0.25*variety + 0.15*lengthFit - 0.5
}

func scoreVector(fields []string) (float64, error) {
	if len(fields) == 0 {
		return -1, nil
	}
	var sqErr float64
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return 0, err
		}
		target := math.Sin(float64(i) / 4)
		sqErr += (v - target) * (v - target)
	}
	return 1 - 2*math.Min(sqErr/float64(len(fields)), 1), nil
}
