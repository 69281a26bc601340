// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package catalog

import "github.com/ManuGH/vodplay/internal/domain/playback"

const thumbBase = "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/images/"

// Builtin returns the demo catalog served when no catalog file is configured.
func Builtin() []playback.Video {
	return []playback.Video{
		{
			ID:          "1",
			Title:       "Big Buck Bunny",
			Description: "Comedy about a giant rabbit with a heart bigger than himself, and three rodents who awaken his wrath.",
			Thumbnail:   thumbBase + "BigBuckBunny.jpg",
			URL:         "https://test-streams.mux.dev/x36xhzz/x36xhzz.m3u8",
			Duration:    "9:56",
		},
		{
			ID:          "2",
			Title:       "Tears of Steel",
			Description: "Sci-fi short film set in a post-apocalyptic world with stunning visual effects.",
			Thumbnail:   thumbBase + "TearsOfSteel.jpg",
			URL:         "https://demo.unified-streaming.com/k8s/features/stable/video/tears-of-steel/tears-of-steel.ism/.m3u8",
			Duration:    "12:14",
		},
		{
			ID:          "3",
			Title:       "Sintel Trailer",
			Description: "A fantasy short film about a girl named Sintel who is searching for her baby dragon.",
			Thumbnail:   thumbBase + "Sintel.jpg",
			URL:         "https://bitdash-a.akamaihd.net/content/sintel/hls/playlist.m3u8",
			Duration:    "14:48",
		},
		{
			ID:          "4",
			Title:       "Angel One",
			Description: "Demo stream with multiple quality levels for adaptive bitrate testing.",
			Thumbnail:   thumbBase + "ForBiggerBlazes.jpg",
			URL:         "https://demo.unified-streaming.com/k8s/features/stable/video/tears-of-steel/tears-of-steel.ism/.m3u8",
			Duration:    "8:30",
		},
	}
}
