// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"math"
	"testing"
	"time"

	"github.com/ManuGH/vodplay/internal/domain/playback"
	"github.com/ManuGH/vodplay/internal/metrics"
	"github.com/ManuGH/vodplay/internal/persistence/kv"
	"github.com/google/go-cmp/cmp"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func video(id string) playback.Video {
	return playback.Video{
		ID:    id,
		Title: "Video " + id,
		URL:   "https://example.com/" + id + "/index.m3u8",
	}
}

func historyIDs(st playback.State) []string {
	ids := make([]string, 0, len(st.History))
	for _, v := range st.History {
		ids = append(ids, v.ID)
	}
	return ids
}

func TestNew_Defaults(t *testing.T) {
	s := New(nil)
	st := s.Snapshot()

	assert.Nil(t, st.CurrentVideo)
	assert.Equal(t, playback.DefaultVolume, st.Volume)
	assert.Equal(t, playback.AutoQuality, st.CurrentQuality)
	assert.Empty(t, st.History)
	assert.False(t, st.HasError())
}

func TestSelectVideo_ReselectMovesToFront(t *testing.T) {
	s := New(kv.NewMemoryStore())
	s.SelectVideo(video("1"))
	s.SelectVideo(video("2"))
	s.SelectVideo(video("1"))

	assert.Equal(t, []string{"1", "2"}, historyIDs(s.Snapshot()))
}

func TestSelectVideo_DropsOldest(t *testing.T) {
	s := New(kv.NewMemoryStore())
	for _, id := range []string{"1", "2", "3", "4"} {
		s.SelectVideo(video(id))
	}

	assert.Equal(t, []string{"4", "3", "2"}, historyIDs(s.Snapshot()))
}

func TestSelectVideo_HistoryInvariantsHoldForRandomSequences(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := New(nil)
	for i := 0; i < 500; i++ {
		id := fmt.Sprintf("%d", rng.Intn(6))
		s.SelectVideo(video(id))

		ids := historyIDs(s.Snapshot())
		require.LessOrEqual(t, len(ids), playback.MaxHistory)
		require.Equal(t, id, ids[0])
		seen := map[string]bool{}
		for _, h := range ids {
			require.False(t, seen[h], "duplicate %s in %v", h, ids)
			seen[h] = true
		}
	}
}

func TestSelectVideo_ResetsTransportState(t *testing.T) {
	s := New(nil)
	s.SelectVideo(video("1"))
	s.SetPlaying(true)
	s.Seek(42)
	s.UpdateDuration(100)
	s.UpdateError("boom")
	s.UpdateQualities([]playback.Quality{{Height: 720, Bitrate: 1, Level: 0}})
	s.SetQuality(0)

	s.SelectVideo(video("2"))
	st := s.Snapshot()

	assert.Equal(t, "2", st.CurrentVideo.ID)
	assert.False(t, st.IsPlaying)
	assert.Zero(t, st.CurrentTime)
	assert.Zero(t, st.Duration)
	assert.Empty(t, st.Error)
	assert.Empty(t, st.Qualities)
	assert.Equal(t, playback.AutoQuality, st.CurrentQuality)
}

func TestSetVolume_ClearsMute(t *testing.T) {
	s := New(nil)
	s.ToggleMute()
	require.True(t, s.Snapshot().IsMuted)

	s.SetVolume(0.5)
	st := s.Snapshot()
	assert.False(t, st.IsMuted)
	assert.Equal(t, 0.5, st.Volume)
}

func TestSetVolume_ZeroDoesNotForceMute(t *testing.T) {
	s := New(nil)
	s.SetVolume(0)
	assert.False(t, s.Snapshot().IsMuted)

	s.SetMuted(true)
	s.SetVolume(0)
	assert.True(t, s.Snapshot().IsMuted)
}

func TestToggleAndSetFlags(t *testing.T) {
	s := New(nil)

	s.TogglePlay()
	assert.True(t, s.Snapshot().IsPlaying)
	s.SetPlaying(true)
	assert.True(t, s.Snapshot().IsPlaying)

	s.TogglePiP()
	assert.True(t, s.Snapshot().IsPiPActive)
	s.SetPiPActive(true)
	assert.True(t, s.Snapshot().IsPiPActive)
	s.SetPiPActive(false)
	assert.False(t, s.Snapshot().IsPiPActive)

	s.ToggleFullscreen()
	assert.True(t, s.Snapshot().IsFullscreen)
	s.SetFullscreen(false)
	assert.False(t, s.Snapshot().IsFullscreen)
}

func TestSeek_ClampsNegative(t *testing.T) {
	s := New(nil)
	s.Seek(-3)
	assert.Zero(t, s.Snapshot().CurrentTime)
}

func TestSeek_ClampsNonFinite(t *testing.T) {
	s := New(nil)
	s.Seek(5)
	s.Seek(math.Inf(1))
	assert.Zero(t, s.Snapshot().CurrentTime)
	s.Seek(math.Inf(-1))
	assert.Zero(t, s.Snapshot().CurrentTime)
}

func TestUpdateDuration_ClampsNonFinite(t *testing.T) {
	s := New(nil)
	s.UpdateDuration(math.Inf(1))
	assert.Zero(t, s.Snapshot().Duration)
	s.UpdateDuration(math.NaN())
	assert.Zero(t, s.Snapshot().Duration)
	s.UpdateDuration(42)
	assert.Equal(t, 42.0, s.Snapshot().Duration)
}

func TestRevisionIncrementsPerMutation(t *testing.T) {
	s := New(nil)
	r0 := s.Snapshot().Revision
	s.Seek(1)
	s.Seek(2)
	assert.Equal(t, r0+2, s.Snapshot().Revision)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := New(nil)
	s.SelectVideo(video("1"))
	snap := s.Snapshot()
	snap.History[0].Title = "mutated"
	snap.CurrentVideo.Title = "mutated"

	assert.Equal(t, "Video 1", s.Snapshot().History[0].Title)
	assert.Equal(t, "Video 1", s.Snapshot().CurrentVideo.Title)
}

func TestPersistence_RoundTrip(t *testing.T) {
	backend, err := kv.NewSqliteStore(filepath.Join(t.TempDir(), "kv.sqlite"))
	require.NoError(t, err)
	defer func() { _ = backend.Close() }()

	s := New(backend)
	s.SelectVideo(video("1"))
	s.SelectVideo(video("2"))
	s.SetVolume(0.35)
	before := s.Snapshot()

	restored := New(backend)
	after := restored.Snapshot()

	assert.Equal(t, 0.35, after.Volume)
	if diff := cmp.Diff(before.History, after.History); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
	last, ok := restored.LastVideo()
	require.True(t, ok)
	assert.Equal(t, video("2"), last)
	assert.Nil(t, after.CurrentVideo, "restoring does not select")
}

func TestRestore_IgnoresInvalidValues(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()
	require.NoError(t, backend.Put(ctx, KeyVolume, []byte(`7`)))
	require.NoError(t, backend.Put(ctx, KeyHistory, []byte(`[{"id":"a"},{"id":"a"},{"id":""},{"id":"b"},{"id":"c"},{"id":"d"}]`)))
	require.NoError(t, backend.Put(ctx, KeyLastVideo, []byte(`not json`)))

	s := New(backend)
	st := s.Snapshot()

	assert.Equal(t, playback.DefaultVolume, st.Volume)
	assert.Equal(t, []string{"a", "b", "c"}, historyIDs(st))
	_, ok := s.LastVideo()
	assert.False(t, ok)
}

type failingKV struct{ kv.Store }

func (failingKV) Put(context.Context, string, []byte) error { return errors.New("quota exceeded") }

func TestPersistFailure_KeepsInMemoryValue(t *testing.T) {
	counter := metrics.StorePersistFailures.WithLabelValues(KeyVolume)
	m := &dto.Metric{}
	require.NoError(t, counter.Write(m))
	before := m.GetCounter().GetValue()

	s := New(failingKV{kv.NewMemoryStore()})
	s.SetVolume(0.2)

	assert.Equal(t, 0.2, s.Snapshot().Volume)
	require.NoError(t, counter.Write(m))
	assert.Equal(t, before+1, m.GetCounter().GetValue())
}

type blockingKV struct {
	kv.Store
	entered chan struct{}
	release chan struct{}
}

func (b blockingKV) Put(ctx context.Context, key string, raw []byte) error {
	b.entered <- struct{}{}
	<-b.release
	return b.Store.Put(ctx, key, raw)
}

func TestSlowBackend_DoesNotBlockReads(t *testing.T) {
	backend := blockingKV{Store: kv.NewMemoryStore(), entered: make(chan struct{}, 1), release: make(chan struct{})}
	s := New(backend, WithPersistTimeout(time.Minute))

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.SetVolume(0.3)
	}()
	<-backend.entered

	read := make(chan playback.State, 1)
	go func() { read <- s.Snapshot() }()
	select {
	case st := <-read:
		assert.Equal(t, 0.3, st.Volume)
	case <-time.After(2 * time.Second):
		t.Fatal("snapshot blocked behind a pending write")
	}

	close(backend.release)
	<-done
	raw, found, err := backend.Store.Get(context.Background(), KeyVolume)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "0.3", string(raw))
}

func TestSubscribe_ReceivesNewestSnapshot(t *testing.T) {
	s := New(nil)
	ch, cancel := s.Subscribe(1)
	defer cancel()

	s.Seek(1)
	s.Seek(2)
	s.Seek(3)

	st := <-ch
	assert.Equal(t, 3.0, st.CurrentTime)
}

func TestSubscribe_CancelClosesChannel(t *testing.T) {
	s := New(nil)
	ch, cancel := s.Subscribe(4)
	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	s.Seek(1) // no panic on a cancelled subscriber
}

func TestClose_ClosesSubscribers(t *testing.T) {
	s := New(nil)
	ch, _ := s.Subscribe(1)
	s.Close()
	_, ok := <-ch
	assert.False(t, ok)

	late, _ := s.Subscribe(1)
	_, ok = <-late
	assert.False(t, ok)
}
