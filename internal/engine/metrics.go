package engine

import "sync/atomic"

// Metrics tracks operational counters across the engine.
var metrics struct {
	PlaylistFetches     atomic.Int64
	ContinuationFetches atomic.Int64
	VideoFetches        atomic.Int64
	DecodeWarnings      atomic.Int64
	CacheHits           atomic.Int64
	CacheMisses         atomic.Int64
}

func IncrPlaylistFetch()     { metrics.PlaylistFetches.Add(1) }
func IncrContinuationFetch() { metrics.ContinuationFetches.Add(1) }
func IncrVideoFetch()        { metrics.VideoFetches.Add(1) }
func IncrCacheHit()          { metrics.CacheHits.Add(1) }
func IncrCacheMiss()         { metrics.CacheMisses.Add(1) }

// AddDecodeWarnings records n swallowed per-item decode failures.
func AddDecodeWarnings(n int) { metrics.DecodeWarnings.Add(int64(n)) }

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"playlist_fetches":     metrics.PlaylistFetches.Load(),
		"continuation_fetches": metrics.ContinuationFetches.Load(),
		"video_fetches":        metrics.VideoFetches.Load(),
		"decode_warnings":      metrics.DecodeWarnings.Load(),
		"cache_hits":           metrics.CacheHits.Load(),
		"cache_misses":         metrics.CacheMisses.Load(),
	}
}
