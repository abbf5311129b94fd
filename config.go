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

// AdapterConfig holds configuration options for an Adapter.
type AdapterConfig struct {
	// BufferCap bounds how much of the token buffer the matcher will hold
	// before force-committing a pending greedy match. Zero means
	// "2 * longest pattern length", computed once the schema is known.
	BufferCap int

	// MaxSchemaDepth limits how deep a schema's path tree may nest
	// (default 64). This guards against a pathological schema, not
	// runtime XML nesting, which the schema tree itself bounds.
	MaxSchemaDepth int

	// Logger receives debug-level tracing for chunk processing and the
	// one-time empty-chunk warning. A nil Logger is replaced by
	// zap.NewNop().
	Logger *zap.Logger
}

// DefaultAdapterConfig returns the default adapter configuration.
func DefaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		BufferCap:      0,
		MaxSchemaDepth: 64,
		Logger:         nil,
	}
}

// Validate checks whether the configuration is usable. Unlike the
// teacher's silent-fallback behaviour, invalid configuration is a
// fail-fast construction error (ErrInvalidConfiguration, spec.md §7).
func (c AdapterConfig) Validate() error {
	if c.BufferCap < 0 {
		return ErrInvalidConfiguration
	}
	if c.MaxSchemaDepth < 1 {
		return ErrInvalidConfiguration
	}
	return nil
}

func (c AdapterConfig) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
