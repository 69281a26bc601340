// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package catalog

import (
	"io"

	"github.com/ManuGH/vodplay/internal/playlist"
)

const m3uGroup = "VOD"

func (c *Catalog) playlistItems() []playlist.Item {
	items := make([]playlist.Item, 0, len(c.videos))
	for _, v := range c.videos {
		items = append(items, playlist.Item{
			ID:       v.ID,
			Title:    v.Title,
			Duration: v.DurationSeconds(),
			Logo:     v.Thumbnail,
			Group:    m3uGroup,
			URL:      v.URL,
		})
	}
	return items
}

// WriteM3U renders the catalog as an extended M3U playlist.
func (c *Catalog) WriteM3U(w io.Writer) error {
	return playlist.WriteM3U(w, c.playlistItems())
}

// ExportM3U atomically writes the playlist to path.
func (c *Catalog) ExportM3U(path string) error {
	return playlist.WriteFile(path, c.playlistItems())
}
