// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import "errors"

var (
	// ErrInvalidGeometry indicates a non-finite (NaN or Inf) nodal coordinate
	ErrInvalidGeometry = errors.New("model: invalid geometry")

	// ErrUnknownNode indicates a node id that does not exist in the structure
	ErrUnknownNode = errors.New("model: unknown node")

	// ErrDuplicateSpring indicates a second spring over the same unordered node pair
	ErrDuplicateSpring = errors.New("model: duplicate spring")

	// ErrInvalidParameter indicates an out-of-range input such as a non-positive stiffness
	ErrInvalidParameter = errors.New("model: invalid parameter")
)
