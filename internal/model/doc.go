// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model defines the documents sitemeta emits: one Instance per
// top-level instance name, holding the Asset records that instance owns or
// references.
//
// # Core Concepts
//
//   - Asset: a single physical or logical item, built from one table row.
//     Its Relationships describe location, association, containment and the
//     assets that feed it.
//
//   - Instance: the grouping key of the source table. Each instance becomes one
//     metadata.json file. Its Assets are kept in insertion order so the output
//     reads in the same order as the source rows.
//
//   - Normalize: maps a raw cell value to something encoding/json can write
//     without loss or error (integers widened, missing values to null).
//
// The package is deliberately free of any knowledge about tables or files;
// the generator package builds these documents and the sink package writes
// them.
package model
