// Package retrieval ranks stored text against a free-text query using a
// TF-IDF vector space and cosine similarity.
package retrieval

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// DefaultThreshold is the minimum score a candidate needs to be returned.
const DefaultThreshold = 0.1

// tokenPattern matches runs of two or more letters, digits or underscores.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Document is a rankable piece of text.
type Document struct {
	ID   int64
	Text string
}

// Scored pairs a document with its similarity to the query.
type Scored struct {
	Document
	Score float64
}

// Options configures a Ranker.
type Options struct {
	// Threshold drops candidates scoring at or below it. Zero means
	// DefaultThreshold.
	Threshold float64 `yaml:"threshold"`

	// StopWords are added to the built-in English stop list.
	StopWords []string `yaml:"stop_words"`
}

// Ranker scores candidates against a query. It is stateless between
// calls and safe for concurrent use.
type Ranker struct {
	threshold float64
	stopWords map[string]struct{}
	log       *zap.Logger
}

// New creates a Ranker. A nil logger disables logging.
func New(opts Options, log *zap.Logger) *Ranker {
	if log == nil {
		log = zap.NewNop()
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	stop := englishStopWords
	if len(opts.StopWords) > 0 {
		stop = make(map[string]struct{}, len(englishStopWords)+len(opts.StopWords))
		for w := range englishStopWords {
			stop[w] = struct{}{}
		}
		for _, w := range opts.StopWords {
			stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
		}
	}

	return &Ranker{threshold: threshold, stopWords: stop, log: log}
}

// Rank returns the candidates most similar to query, best first. Scores
// tie in input order. topK <= 0 returns every candidate above the
// threshold. Ranking never fails: an empty candidate set or a vocabulary
// with no usable terms yields an empty result.
func (r *Ranker) Rank(query string, candidates []Document, topK int) []Scored {
	if len(candidates) == 0 {
		return nil
	}

	// The query is vectorized together with the candidates.
	termLists := make([][]string, 0, len(candidates)+1)
	for _, c := range candidates {
		termLists = append(termLists, r.terms(c.Text))
	}
	termLists = append(termLists, r.terms(query))

	vectors, ok := vectorize(termLists)
	if !ok {
		r.log.Warn("relevance search skipped: empty vocabulary",
			zap.Int("candidates", len(candidates)))
		return nil
	}

	q := vectors[len(vectors)-1]
	scored := make([]Scored, 0, len(candidates))
	for i, c := range candidates {
		score := dot(q, vectors[i])
		if score > r.threshold {
			scored = append(scored, Scored{Document: c, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}

// terms returns the unigrams and bigrams of text. Stop words are removed
// before bigrams are formed.
func (r *Ranker) terms(text string) []string {
	var tokens []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := r.stopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}

	out := make([]string, 0, 2*len(tokens))
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// sparse maps a vocabulary index to a weight.
type sparse map[int]float64

// vectorize builds L2-normalized TF-IDF rows with smoothed idf
// ln((1+n)/(1+df)) + 1. It reports false when no document has any term.
func vectorize(docs [][]string) ([]sparse, bool) {
	vocab := make(map[string]int)
	counts := make([]map[int]int, len(docs))
	df := make(map[int]int)

	for i, terms := range docs {
		counts[i] = make(map[int]int)
		for _, t := range terms {
			idx, ok := vocab[t]
			if !ok {
				idx = len(vocab)
				vocab[t] = idx
			}
			if counts[i][idx] == 0 {
				df[idx]++
			}
			counts[i][idx]++
		}
	}
	if len(vocab) == 0 {
		return nil, false
	}

	n := float64(len(docs))
	idf := make(map[int]float64, len(df))
	for idx, d := range df {
		idf[idx] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([]sparse, len(docs))
	for i, c := range counts {
		v := make(sparse, len(c))
		var norm float64
		for idx, tf := range c {
			w := float64(tf) * idf[idx]
			v[idx] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx := range v {
				v[idx] /= norm
			}
		}
		vectors[i] = v
	}
	return vectors, true
}

// dot is the cosine similarity of two normalized rows.
func dot(a, b sparse) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var sum float64
	for idx, w := range a {
		sum += w * b[idx]
	}
	return sum
}
