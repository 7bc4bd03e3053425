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

package mife_test

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fentec-project/mife/mife"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressCounter_Concurrent(t *testing.T) {
	counter := &mife.ProgressCounter{}
	wg := &sync.WaitGroup{}
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; i <= 25; i++ {
				counter.EncodingDone(0, i, 25, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, counter.Count())
	summary, err := counter.Summary()
	require.NoError(t, err)
	assert.Equal(t, time.Millisecond, summary.Mean)
	assert.Equal(t, time.Millisecond, summary.Median)
	assert.Equal(t, time.Duration(0), summary.StdDev)
}

func TestLogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := &mife.LogObserver{Logger: logger, Every: 10}

	for i := 1; i <= 25; i++ {
		obs.EncodingDone(1, i, 25, time.Microsecond)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3, "progress at 10, 20 and completion")
	assert.Contains(t, lines[0], "done=10")
	assert.Contains(t, lines[2], "done=25")
	assert.Contains(t, lines[2], "input=1")
}
