package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/sitemeta/internal/config"
	"github.com/vk/sitemeta/internal/ctxlog"
	"github.com/vk/sitemeta/internal/model"
	"github.com/vk/sitemeta/internal/table"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Filter evaluates a job file's filter expression against table rows. It
// implements generator.RowFilter.
//
// The expression sees two objects: `asset`, keyed by logical field name, and
// `row`, keyed by raw column header (use index syntax for headers containing
// dots, e.g. row["mqtt.version"]).
type Filter struct {
	expr    hcl.Expression
	columns config.Columns
	funcs   map[string]function.Function
}

// NewFilter binds expr to the given column mapping.
func NewFilter(expr hcl.Expression, columns config.Columns) *Filter {
	return &Filter{
		expr:    expr,
		columns: columns,
		funcs: map[string]function.Function{
			"lower":     stdlib.LowerFunc,
			"upper":     stdlib.UpperFunc,
			"trimspace": stdlib.TrimSpaceFunc,
			"strlen":    stdlib.StrlenFunc,
			"coalesce":  stdlib.CoalesceFunc,
		},
	}
}

// Include reports whether row passes the filter.
func (f *Filter) Include(ctx context.Context, row table.Row) (bool, error) {
	logger := ctxlog.FromContext(ctx)

	assetVals := make(map[string]cty.Value, len(config.Fields))
	for _, field := range config.Fields {
		v, err := toCtyValue(row.Get(f.columns.Header(field)))
		if err != nil {
			return false, fmt.Errorf("field %q: %w", field, err)
		}
		assetVals[field] = v
	}

	rowVals := make(map[string]cty.Value)
	for header, raw := range row.Values() {
		v, err := toCtyValue(raw)
		if err != nil {
			return false, fmt.Errorf("column %q: %w", header, err)
		}
		rowVals[header] = v
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"asset": cty.ObjectVal(assetVals),
			"row":   cty.ObjectVal(rowVals),
		},
		Functions: f.funcs,
	}

	val, diags := f.expr.Value(evalCtx)
	if diags.HasErrors() {
		return false, fmt.Errorf("filter evaluation failed: %w", diags)
	}
	result, err := convert.Convert(val, cty.Bool)
	if err != nil {
		return false, fmt.Errorf("filter must produce a bool, got %s: %w", val.Type().FriendlyName(), err)
	}
	if result.IsNull() || !result.IsKnown() {
		return false, fmt.Errorf("filter produced no value")
	}

	logger.Debug("Filter evaluated.", "row", row.Index(), "include", result.True())
	return result.True(), nil
}

// toCtyValue converts a normalized table cell into its cty equivalent.
// Missing cells become a null string so comparisons against literals and
// null both work.
func toCtyValue(v any) (cty.Value, error) {
	switch x := model.Normalize(v).(type) {
	case nil:
		return cty.NullVal(cty.String), nil
	case string:
		return cty.StringVal(x), nil
	case bool:
		return cty.BoolVal(x), nil
	case int64:
		return cty.NumberIntVal(x), nil
	case uint64:
		return cty.NumberUIntVal(x), nil
	case float64:
		return cty.NumberFloatVal(x), nil
	case float32:
		return cty.NumberFloatVal(float64(x)), nil
	default:
		ty, err := gocty.ImpliedType(x)
		if err != nil {
			return cty.StringVal(fmt.Sprint(x)), nil
		}
		return gocty.ToCtyValue(x, ty)
	}
}
