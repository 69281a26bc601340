// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package catalog holds the static list of playable videos.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/ManuGH/vodplay/internal/domain/playback"
	"golang.org/x/net/idna"
	"gopkg.in/yaml.v3"
)

var ErrEmpty = errors.New("catalog is empty")

// Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	videos []playback.Video
	byID   map[string]int
	index  []string // folded title + description, parallel to videos
}

// New validates videos and builds a catalog, keeping their order.
func New(videos []playback.Video) (*Catalog, error) {
	if len(videos) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		videos: make([]playback.Video, 0, len(videos)),
		byID:   make(map[string]int, len(videos)),
		index:  make([]string, 0, len(videos)),
	}
	for i, v := range videos {
		v.ID = strings.TrimSpace(v.ID)
		if v.ID == "" {
			return nil, fmt.Errorf("video #%d: id is required", i+1)
		}
		if _, dup := c.byID[v.ID]; dup {
			return nil, fmt.Errorf("video %q: duplicate id", v.ID)
		}
		if strings.TrimSpace(v.Title) == "" {
			return nil, fmt.Errorf("video %q: title is required", v.ID)
		}
		normalized, err := normalizeStreamURL(v.URL)
		if err != nil {
			return nil, fmt.Errorf("video %q: %w", v.ID, err)
		}
		v.URL = normalized
		c.byID[v.ID] = len(c.videos)
		c.videos = append(c.videos, v)
		c.index = append(c.index, fold(v.Title+"\n"+v.Description))
	}
	return c, nil
}

// Load reads a YAML catalog file. Unknown fields are rejected.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var doc struct {
		Videos []playback.Video `yaml:"videos"`
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return New(doc.Videos)
}

// Open loads path, or the built-in catalog when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return New(Builtin())
	}
	return Load(path)
}

// normalizeStreamURL accepts absolute http(s) URLs and rewrites the host to
// its lower-case ASCII form.
func normalizeStreamURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid stream url: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("stream url must be http(s): %q", raw)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("stream url has no host: %q", raw)
	}
	if net.ParseIP(host) == nil {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return "", fmt.Errorf("invalid host %q: %w", host, err)
		}
		host = strings.ToLower(ascii)
		if port := u.Port(); port != "" {
			u.Host = net.JoinHostPort(host, port)
		} else {
			u.Host = host
		}
	}
	u.Scheme = scheme
	return u.String(), nil
}

func (c *Catalog) Len() int { return len(c.videos) }

// All returns the videos in catalog order.
func (c *Catalog) All() []playback.Video {
	return append([]playback.Video(nil), c.videos...)
}

func (c *Catalog) Get(id string) (playback.Video, bool) {
	i, ok := c.byID[id]
	if !ok {
		return playback.Video{}, false
	}
	return c.videos[i], true
}

func (c *Catalog) First() (playback.Video, bool) {
	if len(c.videos) == 0 {
		return playback.Video{}, false
	}
	return c.videos[0], true
}
