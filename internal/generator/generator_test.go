package generator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/sitemeta/internal/config"
	"github.com/vk/sitemeta/internal/model"
	"github.com/vk/sitemeta/internal/table"
)

// rowSpec sets logical fields; unset fields are missing cells.
type rowSpec map[string]any

func buildTable(t *testing.T, specs ...rowSpec) *table.Table {
	t.Helper()
	cols := config.DefaultColumns()
	headers := make([]string, len(config.Fields))
	for i, f := range config.Fields {
		headers[i] = cols.Header(f)
	}
	rows := make([][]any, len(specs))
	for r, spec := range specs {
		cells := make([]any, len(config.Fields))
		for i, f := range config.Fields {
			cells[i] = spec[f]
		}
		rows[r] = cells
	}
	return table.New("site.csv", headers, rows)
}

func generate(t *testing.T, tbl *table.Table, opts ...Option) []*model.Instance {
	t.Helper()
	out, err := New(config.DefaultColumns(), opts...).Generate(context.Background(), tbl)
	require.NoError(t, err)
	return out
}

func instanceByName(t *testing.T, insts []*model.Instance, name string) *model.Instance {
	t.Helper()
	for _, i := range insts {
		if i.Name == name {
			return i
		}
	}
	t.Fatalf("instance %q not generated", name)
	return nil
}

func TestGenerate_TwoRowScenario(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		rowSpec{config.FieldInstanceName: "A", config.FieldIsFedBy: "B", config.FieldIsPartOf: ""},
		rowSpec{config.FieldInstanceName: "B", config.FieldIsFedBy: "", config.FieldIsPartOf: ""},
	)

	insts := generate(t, tbl)
	require.Len(t, insts, 2)

	a := instanceByName(t, insts, "A")
	require.Equal(t, []string{"A", "B"}, a.Assets.Names())
	primary, _ := a.Assets.Get("A")
	require.Equal(t, []string{"B"}, primary.Relationships.IsFedBy)
	dep, _ := a.Assets.Get("B")
	require.Nil(t, dep.Relationships.IsFedBy)

	b := instanceByName(t, insts, "B")
	require.Equal(t, []string{"B"}, b.Assets.Names())
}

func TestGenerate_SingleRowRoundTrip(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t, rowSpec{
		config.FieldInstanceName:     "PUMP-1",
		config.FieldVersion:          int64(3),
		config.FieldTimestamp:        "2024-05-01T10:00:00Z",
		config.FieldVendor:           "Acme",
		config.FieldModel:            "P100",
		config.FieldFirmware:         "1.2.3",
		config.FieldSoftwareVersion:  "4.5",
		config.FieldSerialNumber:     int64(12345),
		config.FieldEngUnitType:      "pump",
		config.FieldEngAssetTag:      "TAG-9",
		config.FieldXCoord:           10.5,
		config.FieldYCoord:           math.NaN(),
		config.FieldHasLocation:      "HALL-1",
		config.FieldIsAssociatedWith: "LINE-2",
		config.FieldIsPartOf:         "SKID-7",
		config.FieldIsFedBy:          "PUMP-1",
	})

	insts := generate(t, tbl)
	require.Len(t, insts, 1)
	inst := insts[0]
	assert.Equal(t, "PUMP-1", inst.Metadata)
	assert.Equal(t, int64(3), inst.Version)
	assert.Equal(t, "2024-05-01T10:00:00Z", inst.Timestamp)
	require.Equal(t, 1, inst.Assets.Len())

	got, _ := inst.Assets.Get("PUMP-1")
	want := &model.Asset{
		InstName:        "PUMP-1",
		VendorName:      "Acme",
		ModelName:       "P100",
		Firmware:        "1.2.3",
		SoftwareVersion: "4.5",
		SerialNumber:    int64(12345),
		EngUnitType:     "pump",
		EngAssetTag:     "TAG-9",
		Location:        model.Location{XCoord: 10.5, YCoord: nil},
		Relationships: model.Relationships{
			HasLocation:      "HALL-1",
			IsAssociatedWith: "LINE-2",
			IsPartOf:         "SKID-7",
			IsFedBy:          []string{"PUMP-1"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("asset mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_FedByLengthMatchesField(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		rowSpec{config.FieldInstanceName: "M", config.FieldIsFedBy: " X , Y,Z ,, "},
		rowSpec{config.FieldInstanceName: "X"},
		rowSpec{config.FieldInstanceName: "Z"},
		rowSpec{config.FieldInstanceName: "N"},
	)

	insts := generate(t, tbl)
	m := instanceByName(t, insts, "M")
	primary, _ := m.Assets.Get("M")
	assert.Equal(t, []string{"X", "Y", "Z", "", ""}, primary.Relationships.IsFedBy)
	assert.Equal(t, []string{"M", "X", "Z"}, m.Assets.Names(), "unmatched names are omitted")

	n := instanceByName(t, insts, "N")
	nPrimary, _ := n.Assets.Get("N")
	assert.NotNil(t, nPrimary.Relationships.IsFedBy)
	assert.Empty(t, nPrimary.Relationships.IsFedBy)
}

func TestGenerate_DependentsNeverCarryFedBy(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		rowSpec{config.FieldInstanceName: "A", config.FieldIsFedBy: "B,C", config.FieldIsPartOf: "D"},
		rowSpec{config.FieldInstanceName: "B", config.FieldIsFedBy: "C"},
		rowSpec{config.FieldInstanceName: "C", config.FieldIsFedBy: "A"},
		rowSpec{config.FieldInstanceName: "D", config.FieldIsFedBy: "B"},
	)

	for _, inst := range generate(t, tbl) {
		for _, name := range inst.Assets.Names() {
			a, _ := inst.Assets.Get(name)
			if name == inst.Name {
				assert.NotNil(t, a.Relationships.IsFedBy, "primary %s/%s", inst.Name, name)
			} else {
				assert.Nil(t, a.Relationships.IsFedBy, "dependent %s/%s", inst.Name, name)
			}
		}
	}
}

func TestGenerate_PartOfLookup(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		rowSpec{config.FieldInstanceName: "VALVE", config.FieldIsPartOf: " SKID ", config.FieldVendor: "Acme"},
		rowSpec{config.FieldInstanceName: "SKID", config.FieldVendor: "Builder"},
		rowSpec{config.FieldInstanceName: "ORPHAN", config.FieldIsPartOf: "NOWHERE"},
	)

	insts := generate(t, tbl)
	valve := instanceByName(t, insts, "VALVE")
	require.Equal(t, []string{"VALVE", "SKID"}, valve.Assets.Names())
	skid, _ := valve.Assets.Get("SKID")
	assert.Equal(t, "Builder", skid.VendorName)

	orphan := instanceByName(t, insts, "ORPHAN")
	assert.Equal(t, []string{"ORPHAN"}, orphan.Assets.Names())
}

func TestGenerate_GroupsByInstanceFirstSeenWins(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		rowSpec{config.FieldInstanceName: "A", config.FieldVersion: int64(1), config.FieldTimestamp: "t1", config.FieldIsFedBy: "B"},
		rowSpec{config.FieldInstanceName: "B", config.FieldVersion: int64(9)},
		rowSpec{config.FieldInstanceName: "A", config.FieldVersion: int64(2), config.FieldTimestamp: "t2", config.FieldIsFedBy: "C", config.FieldVendor: "later"},
		rowSpec{config.FieldInstanceName: "C"},
	)

	insts := generate(t, tbl)
	require.Len(t, insts, 3)
	require.Equal(t, "A", insts[0].Name)
	require.Equal(t, "B", insts[1].Name)
	require.Equal(t, "C", insts[2].Name)

	a := insts[0]
	assert.Equal(t, int64(1), a.Version)
	assert.Equal(t, "t1", a.Timestamp)
	assert.Equal(t, []string{"A", "B", "C"}, a.Assets.Names())
	primary, _ := a.Assets.Get("A")
	assert.Equal(t, "later", primary.VendorName, "later rows of the same instance replace the primary asset")
	assert.Equal(t, []string{"C"}, primary.Relationships.IsFedBy)
}

func TestGenerate_SelfReferenceKeepsPrimary(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t, rowSpec{config.FieldInstanceName: "LOOP", config.FieldIsFedBy: "LOOP", config.FieldIsPartOf: "LOOP"})

	insts := generate(t, tbl)
	a, _ := insts[0].Assets.Get("LOOP")
	require.Equal(t, []string{"LOOP"}, a.Relationships.IsFedBy)
	require.Equal(t, 1, insts[0].Assets.Len())
}

func TestGenerate_SkipsBlankInstanceNames(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		rowSpec{config.FieldInstanceName: nil},
		rowSpec{config.FieldInstanceName: "  "},
		rowSpec{config.FieldInstanceName: "A"},
	)
	insts := generate(t, tbl)
	require.Len(t, insts, 1)
	require.Equal(t, "A", insts[0].Name)
}

func TestGenerate_NumericInstanceNames(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		rowSpec{config.FieldInstanceName: int64(100), config.FieldIsFedBy: int64(200)},
		rowSpec{config.FieldInstanceName: int64(200)},
	)
	insts := generate(t, tbl)
	first := instanceByName(t, insts, "100")
	assert.Equal(t, int64(100), first.Metadata)
	assert.Equal(t, []string{"100", "200"}, first.Assets.Names())
}

func TestGenerate_MissingColumn(t *testing.T) {
	t.Parallel()
	tbl := table.New("site.csv", []string{"mqtt.physical_tag.asset.instance_name"}, [][]any{{"A"}})
	_, err := New(config.DefaultColumns()).Generate(context.Background(), tbl)
	require.ErrorIs(t, err, table.ErrMissingColumn)
}

type vendorFilter struct {
	vendor string
	err    error
}

func (f vendorFilter) Include(_ context.Context, row table.Row) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return row.Get(config.DefaultColumns().Header(config.FieldVendor)) == f.vendor, nil
}

func TestGenerate_FilterKeepsExcludedRowsAsLookupTargets(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t,
		rowSpec{config.FieldInstanceName: "A", config.FieldVendor: "Acme", config.FieldIsFedBy: "B"},
		rowSpec{config.FieldInstanceName: "B", config.FieldVendor: "Other"},
	)

	insts := generate(t, tbl, WithFilter(vendorFilter{vendor: "Acme"}), WithCacheSize(1))
	require.Len(t, insts, 1)
	assert.Equal(t, []string{"A", "B"}, insts[0].Assets.Names())
}

func TestGenerate_FilterErrorAborts(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	tbl := buildTable(t, rowSpec{config.FieldInstanceName: "A"})
	_, err := New(config.DefaultColumns(), WithFilter(vendorFilter{err: boom})).Generate(context.Background(), tbl)
	require.ErrorIs(t, err, boom)
}

func TestGenerate_CustomColumns(t *testing.T) {
	t.Parallel()
	cols := config.DefaultColumns()
	cols[config.FieldInstanceName] = "Asset"
	headers := make([]string, len(config.Fields))
	for i, f := range config.Fields {
		headers[i] = cols.Header(f)
	}
	cells := make([]any, len(headers))
	cells[0] = "A"
	tbl := table.New("site.csv", headers, [][]any{cells})

	insts, err := New(cols).Generate(context.Background(), tbl)
	require.NoError(t, err)
	require.Len(t, insts, 1)
	assert.Equal(t, "A", insts[0].Name)
}

func TestLookup_MemoizesMisses(t *testing.T) {
	t.Parallel()
	tbl := buildTable(t, rowSpec{config.FieldInstanceName: "A"})
	l, err := newLookup(tbl, config.DefaultColumns().Header(config.FieldInstanceName), 0)
	require.NoError(t, err)

	_, ok := l.find("missing")
	require.False(t, ok)
	idx, cached := l.cache.Get("missing")
	require.True(t, cached)
	require.Equal(t, -1, idx)

	row, ok := l.find("A")
	require.True(t, ok)
	require.Equal(t, 0, row.Index())
}

func TestSplitNames(t *testing.T) {
	t.Parallel()
	for _, missing := range []any{nil, math.NaN(), "", "   "} {
		got := splitNames(missing)
		assert.NotNil(t, got, "%v", missing)
		assert.Empty(t, got, "missing cells yield no names rather than %q", fmt.Sprint(missing))
	}
	assert.Equal(t, []string{"A", "B"}, splitNames(" A , B "))
	assert.Equal(t, []string{"101"}, splitNames(int64(101)))
}
