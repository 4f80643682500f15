// Copyright (c) 2026 Primaria CMS. All rights reserved.
// Author: dan.munteanu.dev@gmail.com

// Package slug derives ASCII URL slugs from content titles.
//
// Titles here are Romanian, full of ș/ț/ă/â/î, so the pipeline leans on
// Unicode decomposition rather than a lookup table: "Hotărâre privind
// bugetul" becomes "hotarare-privind-bugetul".
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops the combining marks, turning
// accented letters into their base form (ș → s).
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

// From converts a title into a lowercase hyphen-separated slug. Runs of
// non-alphanumeric characters collapse to a single hyphen; leading and
// trailing hyphens are trimmed. An all-symbol input yields "".
func From(title string) string {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		folded = title
	}
	folded = strings.ToLower(folded)

	var builder strings.Builder
	builder.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && builder.Len() > 0 {
				builder.WriteByte('-')
			}
			builder.WriteRune(r)
			pendingHyphen = false
			continue
		}
		pendingHyphen = true
	}
	return builder.String()
}
