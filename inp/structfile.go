// Copyright 2026 The Feder Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inp reads and writes spring structures as JSON files holding the
// plain record form of the model package
package inp

import (
	"encoding/json"
	"os"

	"github.com/cpmech/gosl/chk"

	"github.com/ArturMCI/feder/model"
)

// Read loads a structure from a JSON file. The record is revalidated through
// the model construction contract, so a malformed file surfaces the same
// errors as building the structure by hand.
func Read(filename string) (*model.Structure, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, chk.Err("cannot read structure file %q:\n%v", filename, err)
	}
	var raw model.RawStructure
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, chk.Err("cannot parse structure file %q:\n%v", filename, err)
	}
	s, err := model.FromRaw(&raw)
	if err != nil {
		return nil, chk.Err("invalid structure in %q:\n%v", filename, err)
	}
	return s, nil
}

// Save writes the structure to a JSON file in record form
func Save(filename string, s *model.Structure) error {
	b, err := json.MarshalIndent(s.Raw(), "", "  ")
	if err != nil {
		return chk.Err("cannot encode structure:\n%v", err)
	}
	b = append(b, '\n')
	if err := os.WriteFile(filename, b, 0644); err != nil {
		return chk.Err("cannot write structure file %q:\n%v", filename, err)
	}
	return nil
}
