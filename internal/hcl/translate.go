package hcl

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/sitemeta/internal/config"
	"github.com/vk/sitemeta/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translate merges the decoded job file into model, which already holds the
// defaults.
func (l *Loader) translate(ctx context.Context, root *fileRoot, baseDir string, model *config.Model) error {
	logger := ctxlog.FromContext(ctx)

	if root.Source != nil && root.Source.Sheet != nil {
		model.Source.Sheet = *root.Source.Sheet
	}

	if root.Columns != nil {
		overrides, err := l.translateColumns(root.Columns)
		if err != nil {
			return err
		}
		for field, header := range overrides {
			logger.Debug("Column override.", "field", field, "header", header)
			model.Columns[field] = header
		}
	}

	if o := root.Output; o != nil {
		if o.Directory != nil {
			dir := *o.Directory
			if dir != "" && !filepath.IsAbs(dir) {
				dir = filepath.Join(baseDir, dir)
			}
			model.Output.Directory = dir
		}
		if o.FileName != nil {
			model.Output.FileName = *o.FileName
		}
		if o.Indent != nil {
			model.Output.Indent = *o.Indent
		}
	}

	if root.Filter != nil {
		model.Filter = root.Filter.Expr
	}

	for _, pb := range root.Publish {
		p, err := l.translatePublisher(pb)
		if err != nil {
			return err
		}
		model.Publishers = append(model.Publishers, p)
	}
	return nil
}

// translateColumns evaluates every attribute of the columns block as a string.
func (l *Loader) translateColumns(block *columnsBlock) (map[string]string, error) {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid columns block: %w", diags)
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]string, len(attrs))
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("column %q: %w", name, diags)
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		if str.IsNull() || !str.IsKnown() {
			return nil, fmt.Errorf("column %q must be a string", name)
		}
		out[name] = str.AsString()
	}
	return out, nil
}

func (l *Loader) translatePublisher(pb *publishBlock) (*config.Publisher, error) {
	switch pb.Kind {
	case config.PublisherS3:
		var b s3Body
		if diags := gohcl.DecodeBody(pb.Body, nil, &b); diags.HasErrors() {
			return nil, fmt.Errorf("publish %q: %w", pb.Kind, diags)
		}
		region := b.Region
		if region == "" {
			region = "us-east-1"
		}
		return &config.Publisher{Kind: pb.Kind, S3: &config.S3Publisher{
			Endpoint: b.Endpoint,
			Region:   region,
			Bucket:   b.Bucket,
			Prefix:   b.Prefix,
			UseSSL:   b.UseSSL,
		}}, nil

	case config.PublisherSocketIO:
		var b socketIOBody
		if diags := gohcl.DecodeBody(pb.Body, nil, &b); diags.HasErrors() {
			return nil, fmt.Errorf("publish %q: %w", pb.Kind, diags)
		}
		if b.Event == "" {
			b.Event = "metadata"
		}
		if b.Timeout == "" {
			b.Timeout = "10s"
		}
		return &config.Publisher{Kind: pb.Kind, SocketIO: &config.SocketIOPublisher{
			URL:                b.URL,
			Namespace:          b.Namespace,
			Event:              b.Event,
			Timeout:            b.Timeout,
			InsecureSkipVerify: b.InsecureSkipVerify,
		}}, nil

	default:
		return nil, fmt.Errorf("%w: unknown publisher kind %q", config.ErrInvalid, pb.Kind)
	}
}
