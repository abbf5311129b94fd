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
	"unicode"
)

// tagParserState is the 6-state attribute machine of spec.md §4.4.
type tagParserState int

const (
	stateAfterTagName tagParserState = iota
	stateAttrName
	stateAfterAttrName
	stateBeforeAttrValue
	stateAttrValueQuoted
	stateAttrValueUnquoted
)

// ParsedTag is the result of a completed open-tag parse: the tag name,
// its attributes (last-write-wins on duplicates, per SPEC_FULL.md §3),
// and the raw characters consumed including the original "<tagname"
// prefix.
type ParsedTag struct {
	TagName    string
	Attributes map[string]string
	RawTag     string
}

// openTagParser is C4: consumes a buffered tail starting at "<tagname"
// and advances the attribute state machine until '>', across any number
// of feed calls.
type openTagParser struct {
	tagName         string
	attrs           map[string]string
	raw             strings.Builder
	currentTok      strings.Builder
	state           tagParserState
	currentAttrName string
	quoteChar       byte
	remaining       string
}

// newOpenTagParser seeds the parser with the matched "<tagname" prefix
// absorbed into raw and state AfterTagName, per spec.md §4.4.
func newOpenTagParser(prefixLiteral string) *openTagParser {
	p := &openTagParser{
		attrs: make(map[string]string),
		state: stateAfterTagName,
	}
	p.raw.WriteString(prefixLiteral)
	p.tagName = strings.TrimPrefix(prefixLiteral, "<")
	return p
}

func isAttrQuote(c byte) bool {
	return c == '"' || c == '\''
}

func isAttrSpace(c byte) bool {
	return unicode.IsSpace(rune(c))
}

// feed advances the state machine over chunk. If '>' is reached outside
// a quoted value, it returns the completed ParsedTag and any trailing
// characters of chunk are recorded in remaining(). Otherwise it consumes
// the whole chunk and returns (nil, false); the caller feeds the next
// chunk to continue.
func (p *openTagParser) feed(chunk string) (*ParsedTag, bool) {
	for i := 0; i < len(chunk); i++ {
		c := chunk[i]

		if p.step(c) {
			p.raw.WriteByte(c)
			p.remaining = chunk[i+1:]
			return p.complete(), true
		}
		p.raw.WriteByte(c)
	}
	return nil, false
}

// step consumes one character and returns true if that character
// completed the tag (a non-quoted '>').
func (p *openTagParser) step(c byte) bool {
	switch p.state {
	case stateAfterTagName:
		switch {
		case c == '>':
			return true
		case isAttrSpace(c):
			// stay
		default:
			p.currentTok.Reset()
			p.currentTok.WriteByte(c)
			p.state = stateAttrName
		}

	case stateAttrName:
		switch {
		case c == '>':
			p.flushBareAttr()
			return true
		case isAttrSpace(c):
			p.finalizeAttrName()
			p.state = stateAfterAttrName
		case c == '=':
			p.finalizeAttrName()
			p.state = stateBeforeAttrValue
		default:
			p.currentTok.WriteByte(c)
		}

	case stateAfterAttrName:
		switch {
		case c == '>':
			p.flushBareAttr()
			return true
		case isAttrSpace(c):
			// stay
		case c == '=':
			p.state = stateBeforeAttrValue
		default:
			p.flushBareAttr()
			p.currentTok.Reset()
			p.currentTok.WriteByte(c)
			p.state = stateAttrName
		}

	case stateBeforeAttrValue:
		switch {
		case c == '>':
			p.flushAttr("")
			return true
		case isAttrSpace(c):
			// stay
		case isAttrQuote(c):
			p.quoteChar = c
			p.currentTok.Reset()
			p.state = stateAttrValueQuoted
		default:
			p.currentTok.Reset()
			p.currentTok.WriteByte(c)
			p.state = stateAttrValueUnquoted
		}

	case stateAttrValueQuoted:
		if c == p.quoteChar {
			p.flushAttr(p.currentTok.String())
			p.currentTok.Reset()
			p.state = stateAfterTagName
		} else {
			p.currentTok.WriteByte(c)
		}

	case stateAttrValueUnquoted:
		switch {
		case c == '>':
			p.flushAttr(p.currentTok.String())
			return true
		case isAttrSpace(c):
			p.flushAttr(p.currentTok.String())
			p.state = stateAfterTagName
		default:
			p.currentTok.WriteByte(c)
		}
	}
	return false
}

func (p *openTagParser) finalizeAttrName() {
	p.currentAttrName = p.currentTok.String()
	p.currentTok.Reset()
}

// flushBareAttr records the current token (or currentAttrName, if
// already finalized) as an attribute with an empty value.
func (p *openTagParser) flushBareAttr() {
	name := p.currentAttrName
	if p.currentTok.Len() > 0 {
		name = p.currentTok.String()
	}
	if name == "" {
		return
	}
	p.attrs[name] = ""
	p.currentAttrName = ""
	p.currentTok.Reset()
}

func (p *openTagParser) flushAttr(value string) {
	if p.currentAttrName == "" {
		return
	}
	p.attrs[p.currentAttrName] = value
	p.currentAttrName = ""
}

func (p *openTagParser) complete() *ParsedTag {
	return &ParsedTag{
		TagName:    p.tagName,
		Attributes: p.attrs,
		RawTag:     p.raw.String(),
	}
}

// forceComplete closes parsing with whatever attributes were gathered
// so far and discards any half-parsed attribute (an unclosed quote, or
// a bare name with '=' pending), per spec.md §4.4/§7.
func (p *openTagParser) forceComplete() *ParsedTag {
	return p.complete()
}

// remainingAfterComplete returns any characters of the chunk that
// completed this tag which came after the closing '>'.
func (p *openTagParser) remainingAfterComplete() string {
	r := p.remaining
	p.remaining = ""
	return r
}
