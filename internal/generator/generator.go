package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/sitemeta/internal/config"
	"github.com/vk/sitemeta/internal/ctxlog"
	"github.com/vk/sitemeta/internal/model"
	"github.com/vk/sitemeta/internal/table"
)

// RowFilter decides whether a row contributes its own instance document.
// Excluded rows remain visible to relationship lookups.
type RowFilter interface {
	Include(ctx context.Context, row table.Row) (bool, error)
}

// Generator builds instance documents from a table.
type Generator struct {
	columns   config.Columns
	filter    RowFilter
	cacheSize int
}

// Option configures a Generator.
type Option func(*Generator)

// WithFilter installs a row filter.
func WithFilter(f RowFilter) Option {
	return func(g *Generator) { g.filter = f }
}

// WithCacheSize bounds the number of memoized name lookups.
func WithCacheSize(n int) Option {
	return func(g *Generator) { g.cacheSize = n }
}

// New creates a generator reading the given columns.
func New(columns config.Columns, opts ...Option) *Generator {
	g := &Generator{columns: columns}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate groups the table's rows by instance name and resolves every row's
// relationships. Instances are returned in the order their name first
// appears. Any error aborts the whole table.
func (g *Generator) Generate(ctx context.Context, t *table.Table) ([]*model.Instance, error) {
	logger := ctxlog.FromContext(ctx)

	headers := make([]string, 0, len(config.Fields))
	for _, f := range config.Fields {
		headers = append(headers, g.columns.Header(f))
	}
	if err := t.Require(headers...); err != nil {
		return nil, err
	}

	nameHeader := g.columns.Header(config.FieldInstanceName)
	find, err := newLookup(t, nameHeader, g.cacheSize)
	if err != nil {
		return nil, err
	}

	var order []*model.Instance
	byName := make(map[string]*model.Instance)

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		rawName := row.Get(nameHeader)
		name, ok := nameOf(rawName)
		if !ok {
			logger.Warn("Skipping row without instance name.", "row", i+2)
			continue
		}

		if g.filter != nil {
			include, err := g.filter.Include(ctx, row)
			if err != nil {
				return nil, fmt.Errorf("row %d (%s): %w", i+2, name, err)
			}
			if !include {
				logger.Debug("Row excluded by filter.", "row", i+2, "instance", name)
				continue
			}
		}

		fedBy := splitNames(row.Get(g.columns.Header(config.FieldIsFedBy)))
		partOf, hasPartOf := trimmedName(row.Get(g.columns.Header(config.FieldIsPartOf)))

		inst, seen := byName[name]
		if !seen {
			inst = model.NewInstance(name,
				model.Normalize(rawName),
				model.Normalize(row.Get(g.columns.Header(config.FieldVersion))),
				model.Normalize(row.Get(g.columns.Header(config.FieldTimestamp))),
			)
			byName[name] = inst
			order = append(order, inst)
		}

		inst.Assets.Put(name, g.asset(row, fedBy))

		for _, dep := range fedBy {
			g.addDependent(ctx, inst, find, dep, "isFedBy")
		}
		if hasPartOf {
			g.addDependent(ctx, inst, find, partOf, "isPartOf")
		}
	}

	logger.Info("Metadata generated.", "rows", t.Len(), "instances", len(order))
	return order, nil
}

// addDependent copies the first row named depName into inst. The instance's
// own primary asset is never replaced by a dependent copy.
func (g *Generator) addDependent(ctx context.Context, inst *model.Instance, find *lookup, depName, via string) {
	logger := ctxlog.FromContext(ctx)

	depRow, ok := find.find(depName)
	if !ok {
		logger.Debug("Related asset not found, skipping.", "instance", inst.Name, "name", depName, "via", via)
		return
	}
	key, _ := nameOf(depRow.Get(g.columns.Header(config.FieldInstanceName)))
	if key == inst.Name {
		return
	}
	inst.Assets.Put(key, g.asset(depRow, nil))
}

// asset builds the document for row. fedBy is nil for dependent assets.
func (g *Generator) asset(row table.Row, fedBy []string) *model.Asset {
	get := func(field string) any {
		return model.Normalize(row.Get(g.columns.Header(field)))
	}
	return &model.Asset{
		InstName:        get(config.FieldInstanceName),
		VendorName:      get(config.FieldVendor),
		ModelName:       get(config.FieldModel),
		Firmware:        get(config.FieldFirmware),
		SoftwareVersion: get(config.FieldSoftwareVersion),
		SerialNumber:    get(config.FieldSerialNumber),
		EngUnitType:     get(config.FieldEngUnitType),
		EngAssetTag:     get(config.FieldEngAssetTag),
		Location: model.Location{
			XCoord: get(config.FieldXCoord),
			YCoord: get(config.FieldYCoord),
		},
		Relationships: model.Relationships{
			HasLocation:      get(config.FieldHasLocation),
			IsAssociatedWith: get(config.FieldIsAssociatedWith),
			IsPartOf:         get(config.FieldIsPartOf),
			IsFedBy:          fedBy,
		},
	}
}

// splitNames splits a feed-source cell on commas and trims each name. A
// missing or blank cell yields an empty, non-nil list; the missing marker is
// never stringified into a name, so a blank cell does not become ["nan"].
func splitNames(v any) []string {
	s, ok := trimmedName(v)
	if !ok {
		return []string{}
	}
	parts := strings.Split(s, ",")
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = strings.TrimSpace(p)
	}
	return names
}

func trimmedName(v any) (string, bool) {
	if model.IsMissing(v) {
		return "", false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	return s, s != ""
}
