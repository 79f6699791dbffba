// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package format

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/AleutianAI/relations/services/relations"
)

// ErrFormatNotSupported is returned when a format type is not supported.
var ErrFormatNotSupported = errors.New("format not supported")

// ErrUnsupportedResult is returned when a formatter is given a value it
// cannot render.
var ErrUnsupportedResult = errors.New("unsupported result type")

// FormatRegistry maps format types to formatters.
type FormatRegistry struct {
	formatters map[FormatType]Formatter
}

// NewFormatRegistry creates a new format registry with default formatters.
func NewFormatRegistry() *FormatRegistry {
	r := &FormatRegistry{formatters: make(map[FormatType]Formatter)}
	r.Register(FormatText, NewTextFormatter())
	r.Register(FormatJSON, NewJSONFormatter())
	r.Register(FormatMarkdown, NewMarkdownFormatter())
	return r
}

// Register registers a formatter for a format type.
func (r *FormatRegistry) Register(formatType FormatType, formatter Formatter) {
	r.formatters[formatType] = formatter
}

// GetFormatter returns the formatter for the given type.
func (r *FormatRegistry) GetFormatter(formatType FormatType) (Formatter, error) {
	f, ok := r.formatters[formatType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormatNotSupported, formatType)
	}
	return f, nil
}

// Format formats a result with the specified format type.
func (r *FormatRegistry) Format(result any, formatType FormatType) (string, error) {
	f, err := r.GetFormatter(formatType)
	if err != nil {
		return "", err
	}
	return f.Format(result)
}

// ListFormats returns all supported format types, sorted.
func (r *FormatRegistry) ListFormats() []FormatType {
	out := make([]FormatType, 0, len(r.formatters))
	for ft := range r.formatters {
		out = append(out, ft)
	}
	slices.Sort(out)
	return out
}

// ParseFormatType normalizes a user-supplied format name. "md" is accepted
// for markdown and the empty string selects FormatText.
func ParseFormatType(s string) (FormatType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrFormatNotSupported, s)
	}
}

// normalize turns pointer/value variants into one canonical type so each
// formatter switches over a fixed set.
func normalize(result any) (any, error) {
	switch r := result.(type) {
	case []relations.RelationSpec:
		return r, nil
	case relations.RelationSpec:
		return Detail{Spec: r}, nil
	case *relations.RelationSpec:
		if r == nil {
			break
		}
		return Detail{Spec: *r}, nil
	case Detail:
		return r, nil
	case *Detail:
		if r == nil {
			break
		}
		return *r, nil
	case relations.EvaluationResult:
		return r, nil
	case *relations.EvaluationResult:
		if r == nil {
			break
		}
		return *r, nil
	case *relations.Report:
		if r == nil {
			break
		}
		return r, nil
	case relations.Report:
		return &r, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedResult, result)
}
