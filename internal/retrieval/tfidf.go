package retrieval

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// tokenize lower-cases text and returns every run of at least two word
// characters (letters, numbers, underscore).
func tokenize(text string) []string {
	var (
		out []string
		b   strings.Builder
		n   int
	)
	flush := func() {
		if n >= 2 {
			out = append(out, b.String())
		}
		b.Reset()
		n = 0
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			b.WriteRune(r)
			n++
			continue
		}
		flush()
	}
	flush()
	return out
}

// fitTransform builds a TF-IDF matrix over docs: raw counts, smoothed idf
// ln((1+n)/(1+df))+1 and L2-normalised rows. Columns follow the sorted
// vocabulary so the result is identical for identical input.
func fitTransform(docs []string) [][]float64 {
	tokens := make([][]string, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		tokens[i] = tokenize(d)
		seen := make(map[string]struct{}, len(tokens[i]))
		for _, t := range tokens[i] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	vocab := make([]string, 0, len(df))
	for t := range df {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)
	col := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	n := float64(len(docs))
	for j, t := range vocab {
		col[t] = j
		idf[j] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i, ts := range tokens {
		row := make([]float64, len(vocab))
		for _, t := range ts {
			row[col[t]]++
		}
		var norm float64
		for j := range row {
			row[j] *= idf[j]
			norm += row[j] * row[j]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range row {
				row[j] /= norm
			}
		}
		rows[i] = row
	}
	return rows
}

// cosine returns the cosine similarity of a and b; zero vectors yield 0.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
