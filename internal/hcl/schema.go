package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level structure of a job file.
type fileRoot struct {
	Source  *sourceBlock    `hcl:"source,block"`
	Columns *columnsBlock   `hcl:"columns,block"`
	Output  *outputBlock    `hcl:"output,block"`
	Filter  *hcl.Attribute  `hcl:"filter,optional"`
	Publish []*publishBlock `hcl:"publish,block"`
}

type sourceBlock struct {
	Sheet *string `hcl:"sheet,optional"`
}

// columnsBlock holds free-form `field = "Header"` attributes.
type columnsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type outputBlock struct {
	Directory *string `hcl:"directory,optional"`
	FileName  *string `hcl:"file_name,optional"`
	Indent    *int    `hcl:"indent,optional"`
}

// publishBlock is decoded in two passes: the label selects which of the
// typed bodies below the remaining body is decoded into.
type publishBlock struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

type s3Body struct {
	Endpoint string `hcl:"endpoint"`
	Bucket   string `hcl:"bucket"`
	Region   string `hcl:"region,optional"`
	Prefix   string `hcl:"prefix,optional"`
	UseSSL   bool   `hcl:"use_ssl,optional"`
}

type socketIOBody struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	Event              string `hcl:"event,optional"`
	Timeout            string `hcl:"timeout,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}
