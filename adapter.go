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

// Adapter is C6: the orchestrator that owns the stream matcher, the
// transition table, the open-tag parser of the tag being parsed (a fresh
// one per tag, nil otherwise), and the current path
// through the schema. It is a mutable cursor and is not reentrant —
// exactly one goroutine may call Feed/Flush/Reset on a given instance at
// a time (spec.md §5).
type Adapter struct {
	table     *transitionTable
	matcher   *streamMatcher
	tagParser *openTagParser
	current   int
	raw       strings.Builder
	logger    *zap.Logger
}

// NewAdapter builds an Adapter from schema using the default
// configuration.
func NewAdapter(schema *Schema) (*Adapter, error) {
	return NewAdapterWithConfig(schema, DefaultAdapterConfig())
}

// NewAdapterWithConfig builds an Adapter from schema with explicit
// configuration. Configuration errors (a nil schema, invalid config, a
// malformed schema) are returned immediately — fail-fast, never a
// silent fallback to defaults (spec.md §7).
func NewAdapterWithConfig(schema *Schema, cfg AdapterConfig) (*Adapter, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table, patterns, err := compileSchema(schema, cfg.MaxSchemaDepth)
	if err != nil {
		return nil, err
	}

	trie, err := buildPatternTrie(patterns)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger()
	return &Adapter{
		table:   table,
		matcher: newStreamMatcher(trie, cfg.BufferCap, logger),
		current: rootStateIndex,
		logger:  logger,
	}, nil
}

// Feed processes chunk and returns the events it produced. A nil or
// empty chunk returns an empty list and never errors on content, per
// spec.md §6/§7.
func (a *Adapter) Feed(chunk string) []TaggedEvent {
	if chunk == "" {
		a.matcher.buf.push(chunk) // skipped by the buffer, which logs the first one
		return []TaggedEvent{}
	}
	a.raw.WriteString(chunk)

	events := make([]TaggedEvent, 0, 4)
	a.processChunk(chunk, &events)

	a.logger.Debug("adapter.Feed processed chunk",
		zap.Int("chunk_len", len(chunk)),
		zap.Int("events", len(events)),
		zap.String("current_path", a.CurrentPath()),
	)
	return events
}

// processChunk is the heart of §4.6's orchestration: if the open-tag
// parser is active, route chunk through it first; otherwise drain the
// stream matcher over chunk and dispatch each result.
func (a *Adapter) processChunk(chunk string, events *[]TaggedEvent) {
	if chunk == "" {
		return
	}

	if a.tagParser != nil {
		parsed, completed := a.tagParser.feed(chunk)
		if !completed {
			return
		}
		remaining := a.tagParser.remainingAfterComplete()
		a.tagParser = nil
		a.emitOpenTag(parsed, events)
		a.processChunk(remaining, events)
		return
	}

	for _, res := range a.matcher.feed(chunk) {
		switch res.kind {
		case matchTextRun:
			a.routeOrEmitText(res.prefix, events)
		case matchPatternHit:
			a.routeOrEmitText(res.prefix, events)
			if isCloseLiteral(res.pattern) {
				a.emitCloseTag(closeTagName(res.pattern), events)
			} else {
				a.tagParser = newOpenTagParser(res.pattern)
			}
		}
	}
}

// routeOrEmitText either routes frags through the active open-tag
// parser (concatenated, per spec.md §4.6 step 3) or emits each
// non-empty fragment as a boundary-preserving Text event.
func (a *Adapter) routeOrEmitText(frags []string, events *[]TaggedEvent) {
	if a.tagParser != nil {
		joined := strings.Join(frags, "")
		a.processChunk(joined, events)
		return
	}
	path := a.CurrentPath()
	for _, f := range frags {
		if f != "" {
			*events = append(*events, newTextEvent(path, f))
		}
	}
}

// emitOpenTag converts a completed ParsedTag into an Open event, or —
// if the schema forbids the transition — a verbatim Text event carrying
// the original tag literal, with no path change (spec.md §4.6).
func (a *Adapter) emitOpenTag(parsed *ParsedTag, events *[]TaggedEvent) {
	pathBefore := a.CurrentPath()
	next, ok := a.table.tryOpen(a.current, parsed.TagName)
	if !ok {
		*events = append(*events, newTextEvent(pathBefore, parsed.RawTag))
		return
	}
	a.current = next
	filtered := filterAttributes(parsed.Attributes, a.table.allowedAttributes(a.table.pathOf(next)))
	*events = append(*events, newOpenEvent(a.table.pathOf(next), filtered))
}

// emitCloseTag converts a recognized "</name>" literal into a Close
// event for the node being exited, or a verbatim Text event if name
// does not match the currently open node (spec.md §4.6).
func (a *Adapter) emitCloseTag(name string, events *[]TaggedEvent) {
	pathBefore := a.CurrentPath()
	prev, ok := a.table.tryClose(a.current, name)
	if !ok {
		*events = append(*events, newTextEvent(pathBefore, "</"+name+">"))
		return
	}
	a.current = prev
	*events = append(*events, newCloseEvent(pathBefore))
}

func filterAttributes(attrs map[string]string, allowed map[string]struct{}) map[string]string {
	out := map[string]string{}
	for k, v := range attrs {
		if _, ok := allowed[k]; ok {
			out[k] = v
		}
	}
	return out
}

func isCloseLiteral(pattern string) bool {
	return strings.HasPrefix(pattern, "</") && strings.HasSuffix(pattern, ">")
}

func closeTagName(pattern string) string {
	return pattern[2 : len(pattern)-1]
}

// Flush finalizes the stream: an in-progress open tag is force-completed
// with whatever attributes it gathered, and any buffered matcher state
// is surfaced as plain text at the current path. Calling Flush again
// before any further Feed returns an empty list (spec.md §8 property 6).
func (a *Adapter) Flush() []TaggedEvent {
	events := make([]TaggedEvent, 0, 2)

	if a.tagParser != nil {
		parsed := a.tagParser.forceComplete()
		a.tagParser = nil
		a.emitOpenTag(parsed, &events)
	}

	path := a.CurrentPath()
	for _, frag := range a.matcher.flushRemaining() {
		if frag != "" {
			events = append(events, newTextEvent(path, frag))
		}
	}

	a.logger.Debug("adapter.Flush completed", zap.Int("events", len(events)))
	return events
}

// CurrentPath returns the "/"-rooted path of the node the adapter is
// currently positioned at.
func (a *Adapter) CurrentPath() string {
	return a.table.pathOf(a.current)
}

// CurrentDepth returns the nesting depth of the current path (root is 0).
func (a *Adapter) CurrentDepth() int {
	return a.table.depthOf(a.current)
}

// Raw returns every character ever fed to the adapter, verbatim, for
// debug/replay use (spec.md §4.6).
func (a *Adapter) Raw() string {
	return a.raw.String()
}

// Reset clears all per-stream state (buffer, pending match, open-tag
// parser, current path, raw accumulator) so the Adapter can be reused
// for a new stream without reconstructing the immutable trie/transition
// table (SPEC_FULL.md §3).
func (a *Adapter) Reset() {
	a.matcher = newStreamMatcher(a.matcher.trie, a.matcher.bufferCap, a.logger)
	a.tagParser = nil
	a.current = rootStateIndex
	a.raw.Reset()
}
