// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tables turns pre-delimited tabular regions into structured rows.
// The layout collaborator upstream supplies the cell grid; this parser
// normalizes headers and zips rows into header→cell records without
// interpreting them. Downstream consumers read row content by header name.
package tables

import (
	"fmt"
	"strings"

	"github.com/stavtech/marker-engine/pkg/types"
)

// Parse converts raw table regions into Tables. A region with no header
// row or no data rows yields no table; a ragged row is clipped to the
// header width, and missing trailing cells stay empty.
func Parse(regions []types.TableRegion) []types.Table {
	var out []types.Table
	for _, region := range regions {
		if t, ok := parseRegion(region); ok {
			out = append(out, t)
		}
	}
	return out
}

func parseRegion(region types.TableRegion) (types.Table, bool) {
	if len(region.Cells) < 2 {
		return types.Table{}, false
	}

	headers := normalizeHeaders(region.Cells[0])
	if len(headers) == 0 {
		return types.Table{}, false
	}

	table := types.Table{Title: strings.TrimSpace(region.Title)}
	for _, cells := range region.Cells[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cells) {
				row[h] = strings.TrimSpace(cells[i])
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return types.Table{}, false
	}
	return table, true
}

// normalizeHeaders lowercases and collapses whitespace. Headers are
// normalized for stable keying, never interpreted semantically. An empty
// header cell gets a positional name so its column is not lost.
func normalizeHeaders(cells []string) []string {
	headers := make([]string, 0, len(cells))
	for i, c := range cells {
		h := strings.Join(strings.Fields(strings.ToLower(c)), " ")
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers = append(headers, h)
	}
	return headers
}
