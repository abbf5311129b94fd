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

// rootStateIndex is the transitionTable arena index of the schema root,
// whose path is always "/".
const rootStateIndex = 0

// stateNode is one node of C5's schema tree. parent and children are
// arena indices rather than pointers, per spec.md §9's "cyclic parent
// pointers" note, so the tree never holds a Go reference cycle.
type stateNode struct {
	path     string
	tagName  string
	parent   int // rootStateIndex's own parent is itself; only the root has no real parent.
	depth    int
	children map[string]int
}

// transitionTable is C5: an immutable (after construction) tree built
// from a schema's path set, with O(1) child lookup by tag name and
// alias-aware close. Safe for concurrent use by many adapters.
type transitionTable struct {
	nodes []stateNode
	attrs map[string]map[string]struct{}
}

func newTransitionTable() *transitionTable {
	return &transitionTable{
		nodes: []stateNode{{path: "/", parent: rootStateIndex, children: map[string]int{}}},
		attrs: map[string]map[string]struct{}{},
	}
}

// addChild inserts a new canonical node under parentIdx, registering it
// under canonicalName and every alias as a key in the parent's children
// map — all resolving to the same node, per spec.md §3/§9.
func (t *transitionTable) addChild(parentIdx int, canonicalName string, aliases []string, attrNames []string, maxDepth int) (int, error) {
	if canonicalName == "" {
		return 0, ErrEmptyTagName
	}
	for _, a := range aliases {
		if a == "" {
			return 0, ErrEmptyTagName
		}
	}

	depth := t.nodes[parentIdx].depth + 1
	if depth > maxDepth {
		return 0, ErrMaxDepthExceeded
	}

	childPath := joinPath(t.nodes[parentIdx].path, canonicalName)
	t.nodes = append(t.nodes, stateNode{
		path:     childPath,
		tagName:  canonicalName,
		parent:   parentIdx,
		depth:    depth,
		children: map[string]int{},
	})
	idx := len(t.nodes) - 1

	t.nodes[parentIdx].children[canonicalName] = idx
	for _, a := range aliases {
		t.nodes[parentIdx].children[a] = idx
	}

	if len(attrNames) > 0 {
		set := make(map[string]struct{}, len(attrNames))
		for _, a := range attrNames {
			set[a] = struct{}{}
		}
		t.attrs[childPath] = set
	}

	return idx, nil
}

func joinPath(parentPath, name string) string {
	if parentPath == "/" {
		return "/" + name
	}
	return parentPath + "/" + name
}

// tryOpen returns current's child named name, if the schema permits
// that transition.
func (t *transitionTable) tryOpen(current int, name string) (int, bool) {
	next, ok := t.nodes[current].children[name]
	return next, ok
}

// tryClose returns current's parent if name is a key in the parent's
// children map resolving to current — true whether name is the
// canonical tag name or any of its aliases, per spec.md §4.5.
func (t *transitionTable) tryClose(current int, name string) (int, bool) {
	if current == rootStateIndex {
		return 0, false
	}
	parent := t.nodes[current].parent
	if child, ok := t.nodes[parent].children[name]; ok && child == current {
		return parent, true
	}
	return 0, false
}

// allowedAttributes returns the attribute whitelist for path, or nil if
// none was declared (an empty set, per spec.md §4.5).
func (t *transitionTable) allowedAttributes(path string) map[string]struct{} {
	return t.attrs[path]
}

func (t *transitionTable) pathOf(idx int) string {
	return t.nodes[idx].path
}

func (t *transitionTable) depthOf(idx int) int {
	return t.nodes[idx].depth
}
