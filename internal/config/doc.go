// Package config defines the format-agnostic job configuration for a metadata
// run: which table columns hold which asset fields, where documents are
// written, an optional row filter and the publishers that receive each
// document.
//
// The `config.Model` is the single source of truth for the generator and sink
// packages. Concrete loaders, such as the HCL one, live in separate packages
// and translate their own file format into this model.
package config
