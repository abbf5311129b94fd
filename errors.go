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

import "errors"

// Configuration errors, returned fail-fast at construction time.
var (
	// ErrMaxDepthExceeded is returned when a schema tree exceeds the configured maximum depth.
	ErrMaxDepthExceeded = errors.New("maximum schema nesting depth exceeded")

	// ErrMaxBufferSizeExceeded is not returned by this package: when the token buffer exceeds
	// its cap, the stream matcher force-commits its pending match instead of failing.
	ErrMaxBufferSizeExceeded = errors.New("maximum buffer size exceeded")

	// ErrInvalidConfiguration is returned when adapter configuration is invalid.
	ErrInvalidConfiguration = errors.New("invalid adapter configuration")

	// ErrNilSchema is returned when Adapter construction is given a nil schema.
	ErrNilSchema = errors.New("schema must not be nil")

	// ErrEmptyTagName is returned when a schema tag, alias, or attribute name is empty.
	ErrEmptyTagName = errors.New("tag name must not be empty")

	// ErrNilBuilder is returned when Schema.NestedTag is given a nil nested builder.
	ErrNilBuilder = errors.New("nested tag builder must not be nil")

	// ErrAliasWithoutTag is returned when Schema.Alias is called before any tag has been declared.
	ErrAliasWithoutTag = errors.New("alias declared before any tag")

	// ErrEmptyPattern is returned when the derived pattern set is empty or contains an empty string.
	ErrEmptyPattern = errors.New("pattern set must not be empty or contain empty patterns")

	// ErrNegativeLength is returned when a buffer or matcher extraction is asked for a negative length.
	ErrNegativeLength = errors.New("extraction length must not be negative")
)
