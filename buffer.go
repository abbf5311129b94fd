// Copyright 2025 EasyAgent
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package streamxml

import (
	"strings"

	"go.uber.org/zap"
)

// compactionThreshold is the policy (not correctness) knob of spec.md
// §4.2 / §9: once startIndex crosses this many consumed fragments, the
// physically-consumed prefix of frags is dropped.
const compactionThreshold = 50

// tokenBuffer is C2: an ordered sequence of non-empty text fragments
// that preserves the original chunk boundaries of whatever was pushed
// into it, while supporting O(1) amortised front-truncation and
// mid-fragment splitting. Owned by exactly one streamMatcher/Adapter;
// never safe for concurrent use (spec.md §5).
type tokenBuffer struct {
	frags       []string
	startIndex  int
	splitOffset int
	totalLength int

	logger      *zap.Logger
	warnedEmpty bool
}

func newTokenBuffer(logger *zap.Logger) *tokenBuffer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tokenBuffer{logger: logger}
}

// push appends text to the buffer. Empty input is silently skipped,
// logged once per buffer instance, per spec.md §4.2 / §9 (some upstream
// producers emit spurious empty deltas; this is expected, not an error).
func (b *tokenBuffer) push(text string) {
	if text == "" {
		if !b.warnedEmpty {
			b.warnedEmpty = true
			b.logger.Debug("tokenBuffer.push received an empty fragment; ignoring")
		}
		return
	}
	b.frags = append(b.frags, text)
	b.totalLength += len(text)
}

func (b *tokenBuffer) totalLen() int {
	return b.totalLength
}

func (b *tokenBuffer) isEmpty() bool {
	return b.totalLength == 0
}

func (b *tokenBuffer) tokenCount() int {
	return len(b.frags) - b.startIndex
}

// contentAsString returns a view of the buffer's current contents
// concatenated into a single string, without mutating the buffer.
func (b *tokenBuffer) contentAsString() string {
	if b.isEmpty() {
		return ""
	}
	var sb strings.Builder
	sb.Grow(b.totalLength)
	for i := b.startIndex; i < len(b.frags); i++ {
		frag := b.frags[i]
		if i == b.startIndex {
			frag = frag[b.splitOffset:]
		}
		sb.WriteString(frag)
	}
	return sb.String()
}

// extractUpTo consumes and returns the earliest n characters from the
// buffer as an ordered list of strings, preserving fragment boundaries:
// a fully-consumed fragment is returned whole, the fragment straddling n
// is split without mutating the stored fragment array. n=0 returns nil;
// n greater than the current length is clamped to the current length.
// Negative n is a caller error (ErrNegativeLength).
func (b *tokenBuffer) extractUpTo(n int) ([]string, error) {
	if n < 0 {
		return nil, ErrNegativeLength
	}
	if n > b.totalLength {
		n = b.totalLength
	}
	if n == 0 {
		return nil, nil
	}

	var out []string
	remaining := n

	for remaining > 0 {
		frag := b.frags[b.startIndex]
		available := frag[b.splitOffset:]

		if remaining >= len(available) {
			out = append(out, available)
			remaining -= len(available)
			b.startIndex++
			b.splitOffset = 0
		} else {
			out = append(out, available[:remaining])
			b.splitOffset += remaining
			remaining = 0
		}
	}

	b.totalLength -= n
	b.maybeCompact()
	return out, nil
}

// extractAsString is extractUpTo with boundaries discarded, used for
// pattern payloads that don't need to preserve chunk boundaries.
func (b *tokenBuffer) extractAsString(n int) (string, error) {
	parts, err := b.extractUpTo(n)
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return "", nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p)
	}
	return sb.String(), nil
}

// flushAll returns every remaining fragment (the first one sliced by
// splitOffset) and clears the buffer.
func (b *tokenBuffer) flushAll() []string {
	return mustExtract(b, b.totalLength)
}

func mustExtract(b *tokenBuffer, n int) []string {
	out, _ := b.extractUpTo(n) // n is always totalLength here: never negative, never errors.
	return out
}

// maybeCompact physically removes the consumed prefix of frags once
// startIndex crosses compactionThreshold, an amortised-O(1) policy, not
// a correctness requirement.
func (b *tokenBuffer) maybeCompact() {
	if b.startIndex < compactionThreshold {
		return
	}
	b.frags = append([]string(nil), b.frags[b.startIndex:]...)
	b.startIndex = 0
}
