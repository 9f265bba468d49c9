// Package normalize prepares user supplied search text before it reaches the
// full-text query builder
// Pipeline order
// 1 UTF-8 repair and control character removal
// 2 Unicode NFKC normalization
// 3 Case folding
// 4 Remove format characters (zero-widths, BOM)
// 5 Width fold fullwidth to ASCII
// 6 Replace tsquery operator characters with spaces
// 7 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// MaxTerms bounds the number of distinct terms Terms returns
const MaxTerms = 16

// Normalizer is concurrency safe when used with the pool below
type Normalizer struct{}

// pool of fresh transformer chains
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF etc
			width.Fold,
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the normalized form of s following the pipeline described above
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToValidUTF8(s, "")
	s = strings.Map(dropControl, s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, _ := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)

	ns = strings.Map(neutralizeOperators, ns)
	return collapseSpaces(ns)
}

// Terms returns the distinct whitespace separated terms of the normalized
// query in first-seen order, capped at MaxTerms
func (n *Normalizer) Terms(s string) []string {
	norm := n.Normalize(s)
	if norm == "" {
		return nil
	}
	seen := make(map[string]struct{})
	out := make([]string, 0, 4)
	for _, f := range strings.Fields(norm) {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
		if len(out) == MaxTerms {
			break
		}
	}
	return out
}

// dropControl removes C0/C1 controls but keeps whitespace controls, which
// collapseSpaces folds later
func dropControl(r rune) rune {
	switch r {
	case '\n', '\r', '\t':
		return r
	}
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

// neutralizeOperators maps characters with meaning inside to_tsquery to spaces
func neutralizeOperators(r rune) rune {
	switch r {
	case '&', '|', '!', '(', ')', ':', '*', '<', '>', '\'', '"', '\\':
		return ' '
	}
	return r
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims the edges
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
