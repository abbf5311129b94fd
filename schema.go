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

// TagBuilder populates a nested Schema with the children permitted
// directly under the tag it was passed to.
type TagBuilder func(*Schema)

// schemaTagDef is one declared tag: its canonical name, any aliases, its
// attribute whitelist, and (for nested tags) its children.
type schemaTagDef struct {
	name     string
	aliases  []string
	attrs    []string
	children []*schemaTagDef
}

// Schema is C7's fluent builder façade: it populates a path -> [tag
// names] tree and a path -> attribute-whitelist map, nothing more. The
// builder records the first error encountered and every subsequent call
// becomes a no-op, so a call chain can be written without checking an
// error after each link.
type Schema struct {
	tags    []*schemaTagDef
	lastTag *schemaTagDef
	err     error
}

// RootSchema starts a new, empty schema.
func RootSchema() *Schema {
	return &Schema{}
}

// Tag declares a leaf tag (one that permits no nested schema tags) under
// the current builder level.
func (s *Schema) Tag(name string) *Schema {
	return s.tagWithBuilder(name, nil)
}

// NestedTag declares a tag and immediately builds its permitted children
// via builder, which must not be nil.
func (s *Schema) NestedTag(name string, builder TagBuilder) *Schema {
	if s.err != nil {
		return s
	}
	if builder == nil {
		return s.fail(ErrNilBuilder)
	}
	return s.tagWithBuilder(name, builder)
}

func (s *Schema) tagWithBuilder(name string, builder TagBuilder) *Schema {
	if s.err != nil {
		return s
	}
	if name == "" {
		return s.fail(ErrEmptyTagName)
	}

	def := &schemaTagDef{name: name}
	s.tags = append(s.tags, def)
	s.lastTag = def

	if builder != nil {
		child := RootSchema()
		builder(child)
		if child.err != nil {
			return s.fail(child.err)
		}
		def.children = child.tags
	}
	return s
}

// Alias adds one or more alternate names to the most recently declared
// tag; opening or closing by any alias is equivalent to using the
// canonical name (spec.md §3/§4.5). Calling Alias before any tag has
// been declared is a configuration error.
func (s *Schema) Alias(names ...string) *Schema {
	if s.err != nil {
		return s
	}
	if s.lastTag == nil {
		return s.fail(ErrAliasWithoutTag)
	}
	for _, n := range names {
		if n == "" {
			return s.fail(ErrEmptyTagName)
		}
	}
	s.lastTag.aliases = append(s.lastTag.aliases, names...)
	return s
}

// Attr adds one or more attribute names to the whitelist of the most
// recently declared tag. Calling Attr before any tag has been declared
// is a configuration error (ErrAliasWithoutTag — the same "modifies the
// last tag, but there is no last tag" shape as Alias).
func (s *Schema) Attr(names ...string) *Schema {
	if s.err != nil {
		return s
	}
	if s.lastTag == nil {
		return s.fail(ErrAliasWithoutTag)
	}
	for _, n := range names {
		if n == "" {
			return s.fail(ErrEmptyTagName)
		}
	}
	s.lastTag.attrs = append(s.lastTag.attrs, names...)
	return s
}

func (s *Schema) fail(err error) *Schema {
	s.err = err
	return s
}

// compileSchema walks the declared tag tree into a transitionTable plus the
// derived pattern set of spec.md §3 ("<"+t and "</"+t+">" for every name
// in the tag universe, aliases included).
func compileSchema(s *Schema, maxDepth int) (*transitionTable, []string, error) {
	if s == nil {
		return nil, nil, ErrNilSchema
	}
	if s.err != nil {
		return nil, nil, s.err
	}

	table := newTransitionTable()
	var patterns []string

	var walk func(parentIdx int, defs []*schemaTagDef) error
	walk = func(parentIdx int, defs []*schemaTagDef) error {
		for _, d := range defs {
			idx, err := table.addChild(parentIdx, d.name, d.aliases, d.attrs, maxDepth)
			if err != nil {
				return err
			}

			patterns = append(patterns, "<"+d.name, "</"+d.name+">")
			for _, a := range d.aliases {
				patterns = append(patterns, "<"+a, "</"+a+">")
			}

			if len(d.children) > 0 {
				if err := walk(idx, d.children); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := walk(rootStateIndex, s.tags); err != nil {
		return nil, nil, err
	}
	if len(patterns) == 0 {
		return nil, nil, ErrEmptyPattern
	}
	return table, patterns, nil
}
