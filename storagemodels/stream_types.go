/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"
)

// StreamResult represents a single entry in a stream with metadata
type StreamResult struct {
	Entry Entry      // The raw stored entry
	Error error      // Stream-level error; the stream ends after one is sent
	Meta  StreamMeta // Metadata about this entry
}

// StreamMeta contains metadata about a streamed entry
type StreamMeta struct {
	Index      int64     // Entry index in stream (0-based)
	PageNumber int       // Backend page number (1-based)
	Timestamp  time.Time // When the entry was retrieved
}

// StreamOptions configures streaming behavior
type StreamOptions struct {
	BufferSize      int                  // Channel buffer size (default: 100)
	MaxRetries      int                  // Retry attempts for transient page errors (default: 3)
	RetryBackoff    time.Duration        // Backoff between retries (default: 1s)
	PageSize        int32                // Entries per backend page (default: 100)
	ProgressHandler func(StreamProgress) // Optional progress callback
}

// StreamProgress tracks streaming progress
type StreamProgress struct {
	ItemsProcessed int64     // Total entries processed
	PagesProcessed int       // Total pages processed
	LastKey        []byte    // Last key delivered
	StartTime      time.Time // When streaming started
	CurrentRate    float64   // Entries per second
}

// StreamOption is a functional option for configuring streaming
type StreamOption func(*StreamOptions)

// DefaultStreamOptions returns default streaming options
func DefaultStreamOptions() StreamOptions {
	return StreamOptions{
		BufferSize:   100,
		MaxRetries:   3,
		RetryBackoff: time.Second,
		PageSize:     100,
	}
}

// ApplyStreamOptions returns the defaults overridden by opts.
func ApplyStreamOptions(opts ...StreamOption) StreamOptions {
	options := DefaultStreamOptions()
	for _, opt := range opts {
		opt(&options)
	}
	if options.PageSize <= 0 {
		options.PageSize = 100
	}
	if options.BufferSize < 0 {
		options.BufferSize = 0
	}
	return options
}

// NewProgress builds a progress snapshot with the rate filled in.
func NewProgress(items int64, pages int, lastKey []byte, start time.Time) StreamProgress {
	p := StreamProgress{
		ItemsProcessed: items,
		PagesProcessed: pages,
		LastKey:        lastKey,
		StartTime:      start,
	}
	if elapsed := time.Since(start).Seconds(); elapsed > 0 {
		p.CurrentRate = float64(items) / elapsed
	}
	return p
}

// WithBufferSize sets the channel buffer size
func WithBufferSize(size int) StreamOption {
	return func(opts *StreamOptions) {
		opts.BufferSize = size
	}
}

// WithMaxRetries sets the maximum retry attempts
func WithMaxRetries(retries int) StreamOption {
	return func(opts *StreamOptions) {
		opts.MaxRetries = retries
	}
}

// WithRetryBackoff sets the retry backoff duration
func WithRetryBackoff(backoff time.Duration) StreamOption {
	return func(opts *StreamOptions) {
		opts.RetryBackoff = backoff
	}
}

// WithPageSize sets the backend page size
func WithPageSize(size int32) StreamOption {
	return func(opts *StreamOptions) {
		opts.PageSize = size
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(StreamProgress)) StreamOption {
	return func(opts *StreamOptions) {
		opts.ProgressHandler = handler
	}
}
