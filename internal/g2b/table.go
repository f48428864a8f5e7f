package g2b

import (
	"encoding/json"

	"github.com/spf13/cast"
)

// Source field names the pipeline acts on.
const (
	FieldPrice    = "presmptPrce"
	FieldContract = "cntrctCnclsMthdNm"
)

// NegotiatedMarker identifies a negotiated (수의) contract in the
// contract-method text.
const NegotiatedMarker = "수의"

// Column maps a source field to its display label.
type Column struct {
	Field string
	Label string
}

// DisplayColumns is the fixed projection, in display order.
var DisplayColumns = []Column{
	{"bidNtceNo", "공고번호"},
	{"bidNtceOrd", "공고차수"},
	{"bidNtceNm", "공고명"},
	{"ntceInsttNm", "공고기관"},
	{"pblancDate", "공고게시일시"},
	{"opengDt", "개찰일시"},
	{"indstrytyNm", "업종명"},
	{FieldPrice, "기초금액"},
	{"prtcptLmtRgnCd", "참가제한지역코드"},
	{"prtcptLmtRgnNm", "참가제한지역명"},
	{FieldContract, "계약방법"},
}

// Table is the displayable result: ordered labels and one row of cells per
// announcement, aligned with Columns.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Len is the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Records returns each row as a label to value map.
func (t Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := make(map[string]string, len(t.Columns))
		for i, col := range t.Columns {
			if i < len(row) {
				m[col] = row[i]
			}
		}
		out = append(out, m)
	}
	return out
}

// record is one flattened announcement with its parsed base price kept
// alongside. The price never reaches the display directly.
type record struct {
	fields map[string]any
	price  int64
}

func (r record) has(field string) bool {
	_, ok := r.fields[field]
	return ok
}

// text renders a field for display or substring tests. Missing and null
// fields are empty.
func (r record) text(field string) string {
	return cellText(r.fields[field])
}

// flatten turns nested objects into dotted keys, the way a JSON normalizer
// would, so every record is a single level map of scalars.
func flatten(item map[string]any) map[string]any {
	out := make(map[string]any, len(item))
	flattenInto(out, "", item)
	return out
}

func flattenInto(dst map[string]any, prefix string, src map[string]any) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok && len(nested) > 0 {
			flattenInto(dst, key, nested)
			continue
		}
		dst[key] = v
	}
}

func cellText(v any) string {
	if v == nil {
		return ""
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// project builds the display table. Columns are kept when at least one
// record carries the field; the price column is re-rendered from the parsed
// value.
func project(records []record) Table {
	var cols []Column
	for _, c := range DisplayColumns {
		for _, r := range records {
			if r.has(c.Field) {
				cols = append(cols, c)
				break
			}
		}
	}

	t := Table{
		Columns: make([]string, 0, len(cols)),
		Rows:    make([][]string, 0, len(records)),
	}
	for _, c := range cols {
		t.Columns = append(t.Columns, c.Label)
	}
	for _, r := range records {
		row := make([]string, len(cols))
		for i, c := range cols {
			if c.Field == FieldPrice {
				row[i] = FormatWon(r.price)
				continue
			}
			row[i] = r.text(c.Field)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
