// Package chart describes line charts over dated values and renders them.
package chart

import (
	"strings"
	"time"
	"unicode"
)

// Point is one dated value. A NaN value is an undefined point; renderers
// break the line there.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is one labelled line.
type Series struct {
	Label  string
	Points []Point
}

// Chart is a set of line series sharing a time axis.
type Chart struct {
	// Name is used to derive the output file name.
	Name   string
	Title  string
	XLabel string
	YLabel string
	Series []Series
}

// Slug turns s into a lowercase, dash separated file name fragment.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
