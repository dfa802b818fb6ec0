package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// ErrInvalid is returned (wrapped) for any configuration that fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Logical asset fields. Each maps to one column header of the source table.
const (
	FieldInstanceName     = "instance_name"
	FieldVersion          = "version"
	FieldTimestamp        = "timestamp"
	FieldVendor           = "vendor"
	FieldModel            = "model"
	FieldFirmware         = "firmware"
	FieldSoftwareVersion  = "software_version"
	FieldSerialNumber     = "serial_number"
	FieldEngUnitType      = "eng_unit_type"
	FieldEngAssetTag      = "eng_asset_tag"
	FieldXCoord           = "x_coord"
	FieldYCoord           = "y_coord"
	FieldHasLocation      = "has_location"
	FieldIsAssociatedWith = "is_associated_with"
	FieldIsPartOf         = "is_part_of"
	FieldIsFedBy          = "is_fed_by"
)

// Fields lists every logical field in document order.
var Fields = []string{
	FieldInstanceName,
	FieldVersion,
	FieldTimestamp,
	FieldVendor,
	FieldModel,
	FieldFirmware,
	FieldSoftwareVersion,
	FieldSerialNumber,
	FieldEngUnitType,
	FieldEngAssetTag,
	FieldXCoord,
	FieldYCoord,
	FieldHasLocation,
	FieldIsAssociatedWith,
	FieldIsPartOf,
	FieldIsFedBy,
}

const assetPrefix = "mqtt.physical_tag.asset."

// DefaultColumns returns the column headers used by the site model workbook.
func DefaultColumns() Columns {
	return Columns{
		FieldInstanceName:     assetPrefix + "instance_name",
		FieldVersion:          "mqtt.version",
		FieldTimestamp:        "mqtt.timestamp",
		FieldVendor:           assetPrefix + "manufacturer",
		FieldModel:            assetPrefix + "model",
		FieldFirmware:         assetPrefix + "firmware_version",
		FieldSoftwareVersion:  assetPrefix + "software_version",
		FieldSerialNumber:     assetPrefix + "serial_number",
		FieldEngUnitType:      assetPrefix + "eng_unit_type",
		FieldEngAssetTag:      assetPrefix + "eng_asset_tag",
		FieldXCoord:           assetPrefix + "location.x_coord",
		FieldYCoord:           assetPrefix + "location.y_coord",
		FieldHasLocation:      assetPrefix + "relationships.hasLocation",
		FieldIsAssociatedWith: assetPrefix + "relationships.isAssociatedWith",
		FieldIsPartOf:         assetPrefix + "relationships.isPartOf",
		FieldIsFedBy:          assetPrefix + "relationships.isFedBy",
	}
}

// Columns maps logical field names to table headers.
type Columns map[string]string

// Header returns the table header configured for field.
func (c Columns) Header(field string) string {
	return c[field]
}

// Model is the unified, format-agnostic representation of a job.
type Model struct {
	Source     Source
	Columns    Columns
	Output     Output
	Filter     hcl.Expression // nil when every row is included
	Publishers []*Publisher
}

// Source controls how the table is read.
type Source struct {
	// Sheet selects the workbook sheet. Empty means the first sheet.
	Sheet string
}

// Output controls where and how documents are written.
type Output struct {
	// Directory is the root for instance directories. Empty means the
	// directory containing the source file.
	Directory string
	FileName  string
	Indent    int
}

// Publisher kinds.
const (
	PublisherS3       = "s3"
	PublisherSocketIO = "socketio"
)

// Publisher is one extra destination for every generated document.
type Publisher struct {
	Kind     string
	S3       *S3Publisher
	SocketIO *SocketIOPublisher
}

// S3Publisher uploads documents to an S3-compatible bucket. Credentials are
// read from the environment, never from the job file.
type S3Publisher struct {
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string
	UseSSL    bool
	AccessKey string
	SecretKey string
}

// SocketIOPublisher emits each document as one socket.io event.
type SocketIOPublisher struct {
	URL                string
	Namespace          string
	Event              string
	Timeout            string
	InsecureSkipVerify bool
}

// Default returns the configuration used when no job file is given.
func Default() *Model {
	return &Model{
		Columns: DefaultColumns(),
		Output: Output{
			FileName: "metadata.json",
			Indent:   2,
		},
	}
}

// Validate checks the model for structural errors.
func (m *Model) Validate() error {
	for _, f := range Fields {
		if strings.TrimSpace(m.Columns.Header(f)) == "" {
			return fmt.Errorf("%w: column for field %q is empty", ErrInvalid, f)
		}
	}
	for f := range m.Columns {
		if !isField(f) {
			return fmt.Errorf("%w: unknown column field %q", ErrInvalid, f)
		}
	}
	if strings.TrimSpace(m.Output.FileName) == "" {
		return fmt.Errorf("%w: output file_name is empty", ErrInvalid)
	}
	if strings.ContainsAny(m.Output.FileName, `/\`) {
		return fmt.Errorf("%w: output file_name %q must not contain a path separator", ErrInvalid, m.Output.FileName)
	}
	if m.Output.Indent < 0 {
		return fmt.Errorf("%w: output indent must not be negative", ErrInvalid)
	}
	for i, p := range m.Publishers {
		if err := p.validate(); err != nil {
			return fmt.Errorf("%w: publisher #%d: %v", ErrInvalid, i+1, err)
		}
	}
	return nil
}

func (p *Publisher) validate() error {
	switch p.Kind {
	case PublisherS3:
		if p.S3 == nil {
			return errors.New("s3 settings missing")
		}
		if p.S3.Endpoint == "" || p.S3.Bucket == "" {
			return errors.New("s3 endpoint and bucket are required")
		}
	case PublisherSocketIO:
		if p.SocketIO == nil {
			return errors.New("socketio settings missing")
		}
		if p.SocketIO.URL == "" {
			return errors.New("socketio url is required")
		}
	default:
		return fmt.Errorf("unknown publisher kind %q", p.Kind)
	}
	return nil
}

func isField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}
