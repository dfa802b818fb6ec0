// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Instance document and the ordered asset set it owns.

package model

import (
	"bytes"
	"encoding/json"
)

// Instance is the per-instance metadata document.
type Instance struct {
	// Name is the instance key used for directory and object names.
	Name string `json:"-"`

	Metadata  any       `json:"metadata"`
	Version   any       `json:"version"`
	Timestamp any       `json:"timestamp"`
	Assets    *AssetSet `json:"assets"`
}

// NewInstance returns an instance document with an empty asset set.
func NewInstance(name string, metadata, version, timestamp any) *Instance {
	return &Instance{
		Name:      name,
		Metadata:  metadata,
		Version:   version,
		Timestamp: timestamp,
		Assets:    NewAssetSet(),
	}
}

// AssetSet maps asset names to documents while remembering insertion order.
// It encodes as a JSON object whose keys appear in that order.
type AssetSet struct {
	keys   []string
	assets map[string]*Asset
}

// NewAssetSet creates an empty set.
func NewAssetSet() *AssetSet {
	return &AssetSet{assets: make(map[string]*Asset)}
}

// Put inserts or replaces the asset stored under name. A replaced asset keeps
// its original position.
func (s *AssetSet) Put(name string, a *Asset) {
	if _, ok := s.assets[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.assets[name] = a
}

// Get returns the asset stored under name.
func (s *AssetSet) Get(name string) (*Asset, bool) {
	a, ok := s.assets[name]
	return a, ok
}

// Names returns asset names in insertion order.
func (s *AssetSet) Names() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of assets.
func (s *AssetSet) Len() int {
	return len(s.keys)
}

// MarshalJSON implements json.Marshaler.
func (s *AssetSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(s.assets[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode renders the document as indented JSON.
func (i *Instance) Encode(indent int) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", string(bytes.Repeat([]byte(" "), indent)))
	}
	if err := enc.Encode(i); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
