// Package hcl provides the HCL implementation of the config.Loader interface
// and evaluates the job file's row filter expression. It is responsible for
// parsing job files, translating them into the format-agnostic config.Model,
// and converting table cells into cty values for expression evaluation.
package hcl
