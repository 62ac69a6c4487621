package datapages

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-caseform/pkg/datasource"
	"github.com/goliatone/go-caseform/pkg/format"
)

// ErrPageNotFound is returned for unknown page ids.
var ErrPageNotFound = errors.New("datapages: page not found")

// StaticPages holds data pages in memory, keyed by page id.
type StaticPages map[string][]datasource.Record

var _ datasource.Source = StaticPages{}

// Fetch returns the records of pageID. A parameter naming a property the
// record carries must match it, ignoring case; other parameters are ignored.
func (p StaticPages) Fetch(ctx context.Context, pageID string, params map[string]string) ([]datasource.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, ok := p[pageID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPageNotFound, pageID)
	}
	return lo.Filter(records, func(r datasource.Record, _ int) bool {
		return matchParams(r, params)
	}), nil
}

// Clone copies the page index. Records are shared.
func (p StaticPages) Clone() StaticPages {
	out := make(StaticPages, len(p))
	for id, records := range p {
		out[id] = append([]datasource.Record(nil), records...)
	}
	return out
}

// IDs lists the page ids in sorted order.
func (p StaticPages) IDs() []string {
	ids := lo.Keys(map[string][]datasource.Record(p))
	slices.Sort(ids)
	return ids
}

func matchParams(record datasource.Record, params map[string]string) bool {
	for key, want := range params {
		got, ok := record[strings.TrimPrefix(key, ".")]
		if !ok {
			continue
		}
		if !strings.EqualFold(format.Stringify(got), want) {
			return false
		}
	}
	return true
}

// LoadPages decodes a page index from YAML or JSON:
//
//	D_Colors:
//	  - {id: r, name: Red}
//	  - {id: g, name: Green}
func LoadPages(data []byte) (StaticPages, error) {
	raw := map[string][]map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("datapages: decode pages: %w", err)
	}
	pages := make(StaticPages, len(raw))
	for id, rows := range raw {
		pages[id] = lo.Map(rows, func(row map[string]any, _ int) datasource.Record {
			return datasource.Record(row)
		})
	}
	return pages, nil
}

// LoadPagesFile reads LoadPages input from path.
func LoadPagesFile(path string) (StaticPages, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("datapages: read %s: %w", path, err)
	}
	return LoadPages(data)
}
