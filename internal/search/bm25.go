// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0
//
// Adapted from bureau lib/bm25: weighted fields and ranking that keeps
// zero-score documents.

// Package search ranks stored documents against free-text queries with
// Okapi BM25. It stands in for embedding similarity in stores that have
// no native ranking.
package search

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	paramK1      = 1.2
	paramB       = 0.75
	paramEpsilon = 0.25
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Field is a weighted piece of document text. Weight repeats the field's
// tokens in the composite document; weights <= 0 skip the field.
type Field struct {
	Text   string
	Weight int
}

// Document is an indexable unit identified by ID.
type Document struct {
	ID     string
	Fields []Field
}

// Hit is a ranked document. Position is the document's index in the
// slice given to New.
type Hit struct {
	ID       string
	Position int
	Score    float64
}

// Index is an immutable BM25 index, safe for concurrent reads.
type Index struct {
	ids         []string
	termFreqs   []map[string]int
	lengths     []int
	avgLength   float64
	inverseFreq map[string]float64
}

// New builds an index over documents.
func New(documents []Document) *Index {
	idx := &Index{
		ids:         make([]string, len(documents)),
		termFreqs:   make([]map[string]int, len(documents)),
		lengths:     make([]int, len(documents)),
		inverseFreq: make(map[string]float64),
	}

	docFreq := make(map[string]int)
	total := 0
	for i, doc := range documents {
		idx.ids[i] = doc.ID
		tokens := compositeTokens(doc)
		idx.lengths[i] = len(tokens)
		total += len(tokens)

		tf := make(map[string]int, len(tokens))
		for _, tok := range tokens {
			if tf[tok] == 0 {
				docFreq[tok]++
			}
			tf[tok]++
		}
		idx.termFreqs[i] = tf
	}

	if len(documents) > 0 {
		idx.avgLength = float64(total) / float64(len(documents))
	}

	n := float64(len(documents))
	for term, freq := range docFreq {
		idf := math.Log(1 + (n-float64(freq)+0.5)/(float64(freq)+0.5))
		if idf < 0 {
			idf = paramEpsilon
		}
		idx.inverseFreq[term] = idf
	}
	return idx
}

// Rank scores every document against query and returns the best limit
// of them, highest score first. Documents sharing no terms with the query
// still rank (score 0) so a non-empty index always answers. Equal scores
// keep index order. limit <= 0 returns everything.
func (idx *Index) Rank(query string, limit int) []Hit {
	queryTokens := Tokenize(query)

	hits := make([]Hit, len(idx.ids))
	for i, id := range idx.ids {
		hits[i] = Hit{ID: id, Position: i, Score: idx.score(i, queryTokens)}
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Score > hits[b].Score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func (idx *Index) score(i int, queryTokens []string) float64 {
	if idx.avgLength == 0 {
		return 0
	}
	tf := idx.termFreqs[i]
	length := float64(idx.lengths[i])

	var score float64
	for _, tok := range queryTokens {
		idf, ok := idx.inverseFreq[tok]
		if !ok {
			continue
		}
		freq := float64(tf[tok])
		if freq == 0 {
			continue
		}
		num := freq * (paramK1 + 1)
		den := freq + paramK1*(1-paramB+paramB*length/idx.avgLength)
		score += idf * num / den
	}
	return score
}

func compositeTokens(doc Document) []string {
	var tokens []string
	for _, field := range doc.Fields {
		if field.Weight <= 0 {
			continue
		}
		fieldTokens := Tokenize(field.Text)
		for i := 0; i < field.Weight; i++ {
			tokens = append(tokens, fieldTokens...)
		}
	}
	return tokens
}

// Tokenize lowercases text and splits it into alphanumeric tokens of at
// least two characters.
func Tokenize(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := matches[:0]
	for _, m := range matches {
		if len(m) >= 2 {
			tokens = append(tokens, m)
		}
	}
	return tokens
}
