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

// EventType discriminates the three TaggedEvent shapes.
type EventType int

const (
	// EventText carries plain content at the current path.
	EventText EventType = iota
	// EventOpen marks entry into a schema-defined tag.
	EventOpen
	// EventClose marks exit from a schema-defined tag.
	EventClose
)

func (k EventType) String() string {
	switch k {
	case EventText:
		return "Text"
	case EventOpen:
		return "Open"
	case EventClose:
		return "Close"
	default:
		return "Unknown"
	}
}

// TaggedEvent is one of Text{path, content}, Open{path, attributes}, or
// Close{path}, per spec.md §3. Attributes is always an empty, non-nil
// map unless Type is EventOpen.
type TaggedEvent struct {
	Type       EventType
	Path       string
	Content    string
	Attributes map[string]string
}

// newTextEvent builds a Text event. Callers never construct one with
// empty content; spec.md requires content to be non-empty.
func newTextEvent(path, content string) TaggedEvent {
	return TaggedEvent{Type: EventText, Path: path, Content: content, Attributes: map[string]string{}}
}

func newOpenEvent(path string, attrs map[string]string) TaggedEvent {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return TaggedEvent{Type: EventOpen, Path: path, Attributes: attrs}
}

func newCloseEvent(path string) TaggedEvent {
	return TaggedEvent{Type: EventClose, Path: path, Attributes: map[string]string{}}
}
