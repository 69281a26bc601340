// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package catalog

import (
	"strings"
	"unicode"

	"github.com/ManuGH/vodplay/internal/domain/playback"
	"golang.org/x/text/unicode/norm"
)

// Search returns videos whose title or description contains query, ignoring
// case and accents. An empty query matches everything.
func (c *Catalog) Search(query string) []playback.Video {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}
	out := make([]playback.Video, 0)
	for i, text := range c.index {
		if strings.Contains(text, q) {
			out = append(out, c.videos[i])
		}
	}
	return out
}

// fold decomposes s (NFKD), drops combining marks and lower-cases it.
func fold(s string) string {
	decomposed := norm.NFKD.String(s)
	return strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return unicode.ToLower(r)
	}, decomposed)
}
