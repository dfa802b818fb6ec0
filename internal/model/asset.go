// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Asset document. Field order in the structs is the
// field order of the emitted JSON.

package model

// Asset is the metadata document for a single asset.
type Asset struct {
	InstName        any           `json:"instname"`
	VendorName      any           `json:"vendorname"`
	ModelName       any           `json:"modelname"`
	Firmware        any           `json:"firmware"`
	SoftwareVersion any           `json:"software_version"`
	SerialNumber    any           `json:"serial_number"`
	EngUnitType     any           `json:"eng_unit_type"`
	EngAssetTag     any           `json:"eng_asset_tag"`
	Location        Location      `json:"location"`
	Relationships   Relationships `json:"relationships"`
}

// Location is the x/y placement of an asset on the site model.
type Location struct {
	XCoord any `json:"x_coord"`
	YCoord any `json:"y_coord"`
}

// Relationships links an asset to other assets by name.
//
// IsFedBy is nil for dependent assets and non-nil (possibly empty) for the
// primary asset of an instance, so the two encode as null and [] respectively.
type Relationships struct {
	HasLocation      any      `json:"hasLocation"`
	IsAssociatedWith any      `json:"isAssociatedWith"`
	IsPartOf         any      `json:"isPartOf"`
	IsFedBy          []string `json:"isFedBy"`
}

// IsPrimary reports whether the asset carries its own feed-source list.
func (a *Asset) IsPrimary() bool {
	return a.Relationships.IsFedBy != nil
}
