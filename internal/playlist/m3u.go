// SPDX-License-Identifier: MIT

// Package playlist renders extended M3U playlists of catalog videos.
package playlist

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/google/renameio/v2"
)

type Item struct {
	ID    string
	Title string
	// Duration in seconds; 0 or less renders as -1 (unknown).
	Duration int
	Logo     string
	Group    string
	URL      string
}

var attrEscaper = strings.NewReplacer(`"`, "'", "\r", " ", "\n", " ")
var lineEscaper = strings.NewReplacer("\r", " ", "\n", " ")

func WriteM3U(w io.Writer, items []Item) error {
	buf := &bytes.Buffer{}
	buf.WriteString("#EXTM3U\n")
	for _, it := range items {
		dur := it.Duration
		if dur <= 0 {
			dur = -1
		}
		buf.WriteString(fmt.Sprintf(
			`#EXTINF:%d tvg-id="%s" tvg-logo="%s" group-title="%s",%s`+"\n",
			dur, attrEscaper.Replace(it.ID), attrEscaper.Replace(it.Logo), attrEscaper.Replace(it.Group), lineEscaper.Replace(it.Title),
		))
		buf.WriteString(lineEscaper.Replace(it.URL) + "\n")
	}
	_, err := io.Copy(w, buf)
	return err
}

// WriteFile writes the playlist to path atomically: readers see either the
// old or the new file, never a partial one.
func WriteFile(path string, items []Item) error {
	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending M3U file: %w", err)
	}
	// No-op once committed.
	defer func() { _ = pendingFile.Cleanup() }()

	if err := WriteM3U(pendingFile, items); err != nil {
		return fmt.Errorf("write M3U data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace M3U file: %w", err)
	}
	return nil
}
