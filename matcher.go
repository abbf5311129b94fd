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

import "go.uber.org/zap"

// matchResultKind discriminates the MatchResult shapes of C3. There is no
// NoMatch kind: processBuffer reports "no match" through its ok bool
// return instead of a value.
type matchResultKind int

const (
	matchTextRun matchResultKind = iota
	matchPatternHit
)

// matchResult is C3's MatchResult: either a TextRun of boundary-preserving
// fragments safely outside the active prefix window, or a PatternHit
// carrying the text preceding the match plus the matched literal.
type matchResult struct {
	kind    matchResultKind
	prefix  []string // TextRun fragments, or PatternHit's text_before
	pattern string   // set only when kind == matchPatternHit
}

// pendingGreedyMatch is the greedy candidate of spec.md §4.3: a shorter
// pattern already matched but withheld because a longer pattern may
// still be reachable.
type pendingGreedyMatch struct {
	pattern string
	start   int
}

// streamMatcher is C3: drives the pattern trie over the token buffer,
// emitting TextRun/PatternHit results with greedy-longest disambiguation
// across chunk boundaries. Owned by one Adapter; not reentrant.
type streamMatcher struct {
	trie      *patternTrie
	buf       *tokenBuffer
	pending   *pendingGreedyMatch
	bufferCap int
	logger    *zap.Logger
}

func newStreamMatcher(trie *patternTrie, bufferCap int, logger *zap.Logger) *streamMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bufferCap <= 0 {
		bufferCap = 2 * trie.MaxPatternLength()
	}
	return &streamMatcher{
		trie:      trie,
		buf:       newTokenBuffer(logger),
		bufferCap: bufferCap,
		logger:    logger,
	}
}

// feed appends chunk and drains processBuffer until it reports NoMatch.
func (m *streamMatcher) feed(chunk string) []matchResult {
	m.buf.push(chunk)

	var results []matchResult
	for {
		res, ok := m.processBuffer()
		if !ok {
			break
		}
		results = append(results, res)
	}
	return results
}

// processBuffer implements spec.md §4.3's process_buffer algorithm.
func (m *streamMatcher) processBuffer() (matchResult, bool) {
	if m.buf.isEmpty() {
		return matchResult{}, false
	}

	text := m.buf.contentAsString()
	state := trieRoot
	longestLivePrefixDepth := 0

	for i := 0; i < len(text); i++ {
		c := text[i]

		// Step 1: back off through failure links while there's no
		// direct transition on c.
		for state != trieRoot {
			if _, ok := m.trie.child(state, c); ok {
				break
			}
			state = m.trie.failOf(state)
		}

		// Step 2.
		if next, ok := m.trie.child(state, c); ok {
			state = next
		} else if m.pending != nil {
			return m.commitPending(), true
		} else {
			state = trieRoot
		}

		// Step 3.
		if outs := m.trie.outputs(state); len(outs) > 0 {
			p := longestOutput(outs)
			start := i - len(p) + 1
			if m.trie.hasChildren(state) {
				m.pending = &pendingGreedyMatch{pattern: p, start: start}
			} else {
				m.pending = nil
				return m.emitPatternHit(p, start), true
			}
		}

		// Step 4: track the longest live prefix, needed for safe-flush.
		if i == len(text)-1 {
			longestLivePrefixDepth = m.trie.livePrefixDepth(state)
		}
	}

	return m.commitDecision(longestLivePrefixDepth)
}

// commitDecision implements the three post-walk commit decisions of
// spec.md §4.3: forced commit on overflow, safe-flush window, or
// NoMatch (more input needed).
func (m *streamMatcher) commitDecision(longestLivePrefixDepth int) (matchResult, bool) {
	if m.pending != nil && m.buf.totalLen() > m.bufferCap {
		return m.commitPending(), true
	}

	safe := m.buf.totalLen() - longestLivePrefixDepth
	if m.pending != nil && m.pending.start < safe {
		safe = m.pending.start
	}

	if m.buf.totalLen() > m.bufferCap {
		floor := m.buf.totalLen() - m.trie.MaxPatternLength()
		if floor > safe {
			safe = floor
		}
	}

	if safe > 0 {
		frags, _ := m.buf.extractUpTo(safe)
		if m.pending != nil {
			m.pending.start -= safe
		}
		return matchResult{kind: matchTextRun, prefix: frags}, true
	}

	return matchResult{}, false
}

func (m *streamMatcher) emitPatternHit(pattern string, start int) matchResult {
	before, _ := m.buf.extractUpTo(start)
	literal, _ := m.buf.extractAsString(len(pattern))
	return matchResult{kind: matchPatternHit, prefix: before, pattern: literal}
}

func (m *streamMatcher) commitPending() matchResult {
	p := m.pending
	m.pending = nil
	before, _ := m.buf.extractUpTo(p.start)
	literal, _ := m.buf.extractAsString(len(p.pattern))
	return matchResult{kind: matchPatternHit, prefix: before, pattern: literal}
}

// flushRemaining discards any live greedy pending and returns whatever
// is left of the buffer, for the adapter to emit as plain text at EOF.
func (m *streamMatcher) flushRemaining() []string {
	m.pending = nil
	return m.buf.flushAll()
}

func (m *streamMatcher) totalBuffered() int {
	return m.buf.totalLen()
}
