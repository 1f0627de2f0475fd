// Package lexicon provides the category lexicon: a fixed mapping from
// medical category names to known terms, loaded once at startup and never
// mutated. It is used at index time to tag category membership and at query
// time to resolve category filters and multi-word query terms.
//
// Matching uses an Aho-Corasick multi-pattern prefilter over the lowercased
// text followed by whole-word verification, so the lexicon can grow to
// hundreds of terms without per-term scans.
package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"
	"gopkg.in/yaml.v3"

	"github.com/clinsearch/clinsearch/internal/tokenizer"
)

// Lexicon is an immutable category-to-terms mapping with fast multi-term
// matching. Construct with New, Default, or LoadFile; safe for concurrent
// use afterwards.
type Lexicon struct {
	categories map[string][]string // category -> sorted distinct terms
	terms      []string            // all distinct terms, lowercased
	termCats   map[string][]string // term -> categories containing it
	matcher    *ahocorasick.Matcher
}

// New builds a Lexicon from a category-to-terms mapping. Terms are
// lowercased, trimmed, and de-duplicated; empty terms and categories are
// dropped.
func New(categories map[string][]string) *Lexicon {
	lex := &Lexicon{
		categories: make(map[string][]string, len(categories)),
		termCats:   make(map[string][]string),
	}

	for category, terms := range categories {
		category = strings.TrimSpace(category)
		if category == "" {
			continue
		}
		seen := make(map[string]struct{}, len(terms))
		cleaned := make([]string, 0, len(terms))
		for _, term := range terms {
			term = strings.ToLower(strings.TrimSpace(term))
			if term == "" {
				continue
			}
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			cleaned = append(cleaned, term)
			lex.termCats[term] = append(lex.termCats[term], category)
		}
		if len(cleaned) == 0 {
			continue
		}
		sort.Strings(cleaned)
		lex.categories[category] = cleaned
	}

	lex.terms = make([]string, 0, len(lex.termCats))
	for term := range lex.termCats {
		lex.terms = append(lex.terms, term)
	}
	sort.Strings(lex.terms)

	if len(lex.terms) > 0 {
		lex.matcher = ahocorasick.NewStringMatcher(lex.terms)
	}
	return lex
}

// LoadFile reads a category-to-terms mapping from a YAML file and builds a
// Lexicon from it.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	var categories map[string][]string
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file %s: %w", path, err)
	}
	return New(categories), nil
}

// Categories returns the known category names in sorted order.
func (l *Lexicon) Categories() []string {
	names := make([]string, 0, len(l.categories))
	for name := range l.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TermsOf returns the terms of a category in sorted order. An unknown
// category yields nil, never an error; callers filtering on a category the
// lexicon does not know simply get an empty result set.
func (l *Lexicon) TermsOf(category string) []string {
	terms, ok := l.categories[category]
	if !ok {
		return nil
	}
	out := make([]string, len(terms))
	copy(out, terms)
	return out
}

// HasCategory reports whether the category name is known.
func (l *Lexicon) HasCategory(category string) bool {
	_, ok := l.categories[category]
	return ok
}

// TermCount returns the total number of distinct terms across all
// categories.
func (l *Lexicon) TermCount() int {
	return len(l.terms)
}

// MatchTerms returns every lexicon term that occurs (case-insensitively,
// whole-word or phrase) in the text, with its non-overlapping occurrence
// count.
func (l *Lexicon) MatchTerms(text string) map[string]int {
	counts := make(map[string]int)
	for _, term := range l.candidateTerms(text) {
		if n := tokenizer.CountOccurrences(text, term); n > 0 {
			counts[term] = n
		}
	}
	return counts
}

// CategoriesMatching returns the sorted names of every category with at
// least one term occurring in the text.
func (l *Lexicon) CategoriesMatching(text string) []string {
	matched := make(map[string]struct{})
	for _, term := range l.candidateTerms(text) {
		if tokenizer.CountOccurrences(text, term) > 0 {
			for _, cat := range l.termCats[term] {
				matched[cat] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(matched))
	for name := range matched {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoriesOf returns the categories containing the given term, or nil
// when the term is not in the lexicon.
func (l *Lexicon) CategoriesOf(term string) []string {
	return l.termCats[strings.ToLower(strings.TrimSpace(term))]
}

// candidateTerms runs the Aho-Corasick prefilter and returns the terms that
// occur as substrings of the lowercased text. Whole-word verification is
// the caller's job.
func (l *Lexicon) candidateTerms(text string) []string {
	if l.matcher == nil || text == "" {
		return nil
	}
	hits := l.matcher.MatchThreadSafe([]byte(strings.ToLower(text)))
	terms := make([]string, 0, len(hits))
	for _, idx := range hits {
		terms = append(terms, l.terms[idx])
	}
	sort.Strings(terms)
	return terms
}
