package ranking

import (
	"math"
	"sort"

	"github.com/jonathan/resume-ranker/internal/parsing"
)

// DefaultMaxFeatures caps the vocabulary size of one corpus.
const DefaultMaxFeatures = 1000

// Vector is a dense TF-IDF weight vector indexed by vocabulary position.
type Vector []float64

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	sum := 0.0
	for _, w := range v {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// IsZero reports whether every component of v is zero.
func (v Vector) IsZero() bool {
	for _, w := range v {
		if w != 0 {
			return false
		}
	}
	return true
}

// VectorSpace holds the shared vocabulary of one corpus and the L2-normalized
// TF-IDF vectors of the query and every candidate.
type VectorSpace struct {
	// Vocabulary is sorted lexicographically; position i is dimension i.
	Vocabulary []string
	// IDF holds the smoothed inverse document frequency per dimension.
	IDF        []float64
	Query      Vector
	Candidates []Vector
}

// Dimension returns the vocabulary size.
func (vs *VectorSpace) Dimension() int {
	return len(vs.Vocabulary)
}

// BuildVectors builds a vector space with the default feature cap.
func BuildVectors(query string, candidates []string) (*VectorSpace, error) {
	return BuildVectorsWithLimit(query, candidates, DefaultMaxFeatures)
}

// BuildVectorsWithLimit vectorizes the query and candidates over one shared
// vocabulary. Terms are unigrams and bigrams of the normalized, stop-word
// filtered text. When more than maxFeatures distinct terms exist, the terms
// with the highest corpus-wide frequency are kept (ties go to the
// lexicographically smaller term). A maxFeatures <= 0 disables the cap.
//
// Weights are raw term count times idf(t) = ln((1+N)/(1+df(t))) + 1 where N
// counts the query plus every candidate. Each vector is then L2-normalized; a
// document without vocabulary terms keeps a zero vector.
//
// It returns an *InvalidInputError wrapping ErrEmptyVocabulary when the whole
// corpus produces no terms.
func BuildVectorsWithLimit(query string, candidates []string, maxFeatures int) (*VectorSpace, error) {
	texts := make([]string, 0, len(candidates)+1)
	texts = append(texts, query)
	texts = append(texts, candidates...)

	counts := make([]map[string]int, len(texts))
	corpusTF := make(map[string]int)
	for i, text := range texts {
		termCounts := make(map[string]int)
		for _, term := range parsing.Tokenize(text) {
			termCounts[term]++
			corpusTF[term]++
		}
		counts[i] = termCounts
	}

	if len(corpusTF) == 0 {
		return nil, &InvalidInputError{
			Field:   "corpus",
			Message: ErrEmptyVocabulary.Error(),
			Cause:   ErrEmptyVocabulary,
		}
	}

	vocabulary := selectVocabulary(corpusTF, maxFeatures)
	index := make(map[string]int, len(vocabulary))
	for i, term := range vocabulary {
		index[term] = i
	}

	df := make([]int, len(vocabulary))
	for _, termCounts := range counts {
		for term := range termCounts {
			if dim, ok := index[term]; ok {
				df[dim]++
			}
		}
	}

	n := float64(len(texts))
	idf := make([]float64, len(vocabulary))
	for dim, d := range df {
		idf[dim] = math.Log((1+n)/(1+float64(d))) + 1
	}

	vectors := make([]Vector, len(texts))
	for i, termCounts := range counts {
		vec := make(Vector, len(vocabulary))
		for term, c := range termCounts {
			if dim, ok := index[term]; ok {
				vec[dim] = float64(c) * idf[dim]
			}
		}
		normalize(vec)
		vectors[i] = vec
	}

	return &VectorSpace{
		Vocabulary: vocabulary,
		IDF:        idf,
		Query:      vectors[0],
		Candidates: vectors[1:],
	}, nil
}

// selectVocabulary returns the retained terms in lexicographic order.
func selectVocabulary(corpusTF map[string]int, maxFeatures int) []string {
	terms := make([]string, 0, len(corpusTF))
	for term := range corpusTF {
		terms = append(terms, term)
	}

	if maxFeatures > 0 && len(terms) > maxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			ti, tj := corpusTF[terms[i]], corpusTF[terms[j]]
			if ti != tj {
				return ti > tj
			}
			return terms[i] < terms[j]
		})
		terms = terms[:maxFeatures]
	}

	sort.Strings(terms)
	return terms
}

// normalize scales v to unit length in place. Zero vectors are left as is.
func normalize(v Vector) {
	norm := v.Norm()
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] /= norm
	}
}
