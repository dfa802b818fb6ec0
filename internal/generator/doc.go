// Package generator turns a source table into instance metadata documents.
//
// Rows are grouped by instance name. Each row contributes its primary asset
// and, for every name in its feed-source list and its association target, a
// dependent asset copied from the first row carrying that name. Names with no
// matching row are skipped without error.
package generator
