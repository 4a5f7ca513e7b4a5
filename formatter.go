package domgrab

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// FormatOutput renders out as text. An empty format falls back to
// out.Format, then to JSON. rs supplies column order for tabular formats
// and may be nil, in which case keys are sorted.
//
// Tabular formats (json-array, csv, markdown, raw) render the first array
// rule's rows when any array results exist, otherwise the single results as
// one row.
func FormatOutput(out *Output, format Format, rs *RuleSet) (string, error) {
	if out == nil {
		return "", Errorf(EINVALID, "output required")
	}
	if format == "" {
		format = out.Format
	}
	if format == "" {
		format = FormatJSON
	}

	rows, headers, fromArray := tabularRows(out, rs)

	switch format {
	case FormatJSON:
		return marshalIndent(struct {
			URL       string              `json:"url"`
			Timestamp string              `json:"timestamp"`
			Single    Record              `json:"single"`
			Object    map[string]Record   `json:"object"`
			Array     map[string][]Record `json:"array"`
		}{
			URL:       out.SourceURL,
			Timestamp: out.Timestamp.UTC().Format(time.RFC3339Nano),
			Single:    nonNilRecord(out.SingleResults),
			Object:    nonNilObjects(out.ObjectResults),
			Array:     nonNilArrays(out.ArrayResults),
		})
	case FormatJSONArray:
		if rows == nil {
			rows = []Record{}
		}
		return marshalIndent(rows)
	case FormatCSV:
		return toCSV(rows, headers)
	case FormatMarkdown:
		return toMarkdown(rows, headers), nil
	case FormatRaw:
		if !fromArray {
			return toRaw(out.SingleResults, headers), nil
		}
		parts := make([]string, 0, len(rows))
		for i, row := range rows {
			parts = append(parts, "--- ["+strconv.Itoa(i+1)+"] ---\n"+toRaw(row, headers))
		}
		return strings.Join(parts, "\n\n"), nil
	case FormatXML:
		return "", Errorf(EINVALID, "xml output requires the etree formatter")
	}
	return "", Errorf(EINVALID, "unsupported format %q", format)
}

// FileExtension returns the file extension for a format.
func FileExtension(format Format) string {
	switch format {
	case FormatJSON, FormatJSONArray:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatMarkdown:
		return "md"
	case FormatXML:
		return "xml"
	}
	return "txt"
}

// Filename builds a download name: domgrab-<host>-<YYYYMMDD-HHMMSS>.<ext>.
// Dots in the host become dashes. Unparseable URLs fall back to
// domgrab-export.<ext>.
func Filename(rawURL string, format Format, t time.Time) string {
	ext := FileExtension(format)
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "domgrab-export." + ext
	}
	host := strings.ReplaceAll(u.Hostname(), ".", "-")
	return "domgrab-" + host + "-" + t.UTC().Format("20060102-150405") + "." + ext
}

// tabularRows picks the rows and column order used by tabular formats.
func tabularRows(out *Output, rs *RuleSet) (rows []Record, headers []string, fromArray bool) {
	if len(out.ArrayResults) > 0 {
		name := firstArrayName(out, rs)
		rows = out.ArrayResults[name]
		if rs != nil {
			for _, a := range rs.Arrays {
				if a.Name == name {
					headers = childNames(a.Children)
					break
				}
			}
		}
		if headers == nil {
			headers = unionKeys(rows)
		}
		return rows, headers, true
	}

	if rs != nil && len(rs.Fields) > 0 {
		headers = childNames(rs.Fields)
	} else {
		headers = unionKeys([]Record{out.SingleResults})
	}
	if len(out.SingleResults) == 0 && len(headers) == 0 {
		return nil, headers, false
	}
	return []Record{out.SingleResults}, headers, false
}

func firstArrayName(out *Output, rs *RuleSet) string {
	if rs != nil {
		for _, a := range rs.Arrays {
			if _, ok := out.ArrayResults[a.Name]; ok {
				return a.Name
			}
		}
	}
	names := make([]string, 0, len(out.ArrayResults))
	for name := range out.ArrayResults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}

// childNames returns rule names in rule order, keeping the last position of
// a repeated name so columns match last-write-wins values.
func childNames(rules []FieldRule) []string {
	seen := make(map[string]bool, len(rules))
	names := make([]string, 0, len(rules))
	for i := len(rules) - 1; i >= 0; i-- {
		if seen[rules[i].Name] {
			continue
		}
		seen[rules[i].Name] = true
		names = append(names, rules[i].Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return names
}

func unionKeys(rows []Record) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func toCSV(rows []Record, headers []string) (string, error) {
	if len(rows) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return "", err
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, h := range headers {
			record[i] = deref(row[h])
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func toMarkdown(rows []Record, headers []string) string {
	if len(rows) == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+2)
	cells := make([]string, len(headers))
	for i, h := range headers {
		cells[i] = escapeMarkdownCell(h)
	}
	lines = append(lines, "| "+strings.Join(cells, " | ")+" |")

	for i := range cells {
		cells[i] = "---"
	}
	lines = append(lines, "| "+strings.Join(cells, " | ")+" |")

	for _, row := range rows {
		for i, h := range headers {
			cells[i] = escapeMarkdownCell(deref(row[h]))
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
	}
	return strings.Join(lines, "\n")
}

func toRaw(row Record, headers []string) string {
	lines := make([]string, 0, len(headers))
	for _, h := range headers {
		v, ok := row[h]
		if !ok {
			continue
		}
		if v == nil {
			lines = append(lines, h+": (null)")
			continue
		}
		lines = append(lines, h+": "+*v)
	}
	return strings.Join(lines, "\n")
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func marshalIndent(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nonNilRecord(r Record) Record {
	if r == nil {
		return Record{}
	}
	return r
}

func nonNilObjects(m map[string]Record) map[string]Record {
	if m == nil {
		return map[string]Record{}
	}
	return m
}

func nonNilArrays(m map[string][]Record) map[string][]Record {
	if m == nil {
		return map[string][]Record{}
	}
	return m
}
