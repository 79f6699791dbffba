// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package relations

import "errors"

var (
	// ErrNotFound is returned by catalog lookups for an unknown relation id.
	ErrNotFound = errors.New("relation not found")

	// ErrInvalidArgument is returned by evaluation when the relation id is
	// unknown or the term count lies outside the relation's declared range.
	//
	// An unknown id surfaces as both ErrInvalidArgument and ErrNotFound.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateID is returned by NewCatalog when two specs share an id.
	ErrDuplicateID = errors.New("duplicate relation id")
)
