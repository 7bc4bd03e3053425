/*
 * Copyright (c) 2018 XLAB d.o.o
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mife

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Observer is notified by an Encryptor after every encoded matrix
// entry. done counts the entries encoded so far by the current call out
// of total, and elapsed is the time the last encoding took.
type Observer interface {
	EncodingDone(input, done, total int, elapsed time.Duration)
}

// ProgressCounter is an Observer that counts encodings and records
// their durations. It is safe for concurrent use, so several
// Encryptors may share one.
type ProgressCounter struct {
	count     atomic.Int64
	mu        sync.Mutex
	durations []float64
}

// Summary describes the durations recorded by a ProgressCounter.
type Summary struct {
	Count  int
	Mean   time.Duration
	Median time.Duration
	StdDev time.Duration
}

// EncodingDone records one encoding.
func (c *ProgressCounter) EncodingDone(input, done, total int, elapsed time.Duration) {
	c.count.Add(1)
	c.mu.Lock()
	c.durations = append(c.durations, float64(elapsed))
	c.mu.Unlock()
}

// Count returns the number of encodings recorded so far.
func (c *ProgressCounter) Count() int {
	return int(c.count.Load())
}

// Summary returns the mean, median and standard deviation of the
// recorded durations. It fails when nothing was recorded.
func (c *ProgressCounter) Summary() (Summary, error) {
	c.mu.Lock()
	values := make([]float64, len(c.durations))
	copy(values, c.durations)
	c.mu.Unlock()

	mean, err := stats.Mean(values)
	if err != nil {
		return Summary{}, errors.Wrap(err, "no encodings recorded")
	}
	median, err := stats.Median(values)
	if err != nil {
		return Summary{}, err
	}
	stddev, err := stats.StandardDeviation(values)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Count:  len(values),
		Mean:   time.Duration(mean),
		Median: time.Duration(median),
		StdDev: time.Duration(stddev),
	}, nil
}

// LogObserver is an Observer that reports progress to a structured
// logger at debug level, once every Every encodings and when an
// encryption completes.
type LogObserver struct {
	Logger *slog.Logger
	Every  int
}

// EncodingDone logs the progress of an encryption.
func (o *LogObserver) EncodingDone(input, done, total int, elapsed time.Duration) {
	every := o.Every
	if every < 1 {
		every = 1
	}
	if done%every != 0 && done != total {
		return
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.LogAttrs(context.Background(), slog.LevelDebug, "encoding progress",
		slog.Int("input", input),
		slog.Int("done", done),
		slog.Int("total", total),
		slog.Duration("elapsed", elapsed),
	)
}
