package extractor

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ridoystarlord/sprocmap/schema"
)

// CombinedFeature is the text a row is clustered on.
func CombinedFeature(row schema.TableOperationRow) string {
	return row.TableName + " " + row.ProcedureName + " " + string(row.OperationType)
}

// Tokenize splits text into lower-cased runs of letters, digits and underscores.
// Runs shorter than two characters are dropped.
func Tokenize(text string) []string {
	isWord := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
	}
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool { return !isWord(r) })

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Vectorizer weights terms by TF-IDF over the corpus it was fitted on.
type Vectorizer struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
}

// FitTransform learns the vocabulary and IDF weights of docs and returns
// one L2-normalized vector per document.
func (v *Vectorizer) FitTransform(docs []string) [][]float64 {
	tokenized := make([][]string, len(docs))
	df := map[string]int{}
	for i, doc := range docs {
		tokenized[i] = Tokenize(doc)
		seen := map[string]bool{}
		for _, t := range tokenized[i] {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	v.terms = make([]string, 0, len(df))
	for t := range df {
		v.terms = append(v.terms, t)
	}
	sort.Strings(v.terms)

	n := float64(len(docs))
	v.vocabulary = make(map[string]int, len(v.terms))
	v.idf = make([]float64, len(v.terms))
	for i, t := range v.terms {
		v.vocabulary[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	vectors := make([][]float64, len(docs))
	for i, tokens := range tokenized {
		vectors[i] = v.vector(tokens)
	}
	return vectors
}

// Terms returns the fitted vocabulary in column order.
func (v *Vectorizer) Terms() []string {
	return v.terms
}

func (v *Vectorizer) vector(tokens []string) []float64 {
	vec := make([]float64, len(v.terms))
	for _, t := range tokens {
		if idx, ok := v.vocabulary[t]; ok {
			vec[idx]++
		}
	}
	var norm float64
	for i := range vec {
		vec[i] *= v.idf[i]
		norm += vec[i] * vec[i]
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}
