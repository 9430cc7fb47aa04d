package persist

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// WriteSheet writes v as a spreadsheet.
//
// v is encoded to JSON first: a list of objects becomes one row per object, a
// single object becomes a single row. The header row lists every key in the
// order it first appears. Nested values are written as compact JSON.
func (s *Store) WriteSheet(name string, v any) (string, error) {
	file := s.path(name, ".xlsx")
	header, rows, err := records(v)
	if err != nil {
		return "", fmt.Errorf("cannot tabulate %q: %w", file, err)
	}
	content, err := xlsx(header, rows)
	if err != nil {
		return "", fmt.Errorf("cannot write %q: %w", file, err)
	}
	if err := writeFile(file, content); err != nil {
		return "", err
	}
	return file, nil
}

// records flattens the JSON form of v into a header and rows of cells.
func records(v any) (header []string, rows [][]any, err error) {
	content, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	content = bytes.TrimSpace(content)

	var objects []json.RawMessage
	switch {
	case bytes.HasPrefix(content, []byte("[")):
		if err := json.Unmarshal(content, &objects); err != nil {
			return nil, nil, err
		}
	case bytes.HasPrefix(content, []byte("{")):
		objects = []json.RawMessage{content}
	case bytes.Equal(content, []byte("null")):
		return nil, nil, nil
	default:
		return nil, nil, fmt.Errorf("cannot tabulate %s, want a list of objects", content)
	}

	columns := make(map[string]int)
	var fields []map[string]any
	for _, obj := range objects {
		keys, values, err := decodeObject(obj)
		if err != nil {
			return nil, nil, err
		}
		row := make(map[string]any, len(keys))
		for i, k := range keys {
			if _, ok := columns[k]; !ok {
				columns[k] = len(header)
				header = append(header, k)
			}
			row[k] = values[i]
		}
		fields = append(fields, row)
	}

	for _, f := range fields {
		row := make([]any, len(header))
		for k, v := range f {
			row[columns[k]] = v
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// decodeObject returns the keys of a JSON object in document order, and their cell values.
func decodeObject(obj json.RawMessage) (keys []string, values []any, err error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	dec.UseNumber()
	if t, err := dec.Token(); err != nil || t != json.Delim('{') {
		return nil, nil, fmt.Errorf("not an object: %s", obj)
	}
	for dec.More() {
		t, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := t.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v in %s", t, obj)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, cell(raw))
	}
	return keys, values, nil
}

// cell converts a JSON value into a spreadsheet cell value.
func cell(raw json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool:
		return x
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	default:
		var b bytes.Buffer
		if err := json.Compact(&b, raw); err != nil {
			return string(raw)
		}
		return b.String()
	}
}

// xlsx renders a header and rows into a single sheet workbook.
func xlsx(header []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if len(header) > 0 {
		h := make([]any, len(header))
		for i, c := range header {
			h[i] = c
		}
		if err := f.SetSheetRow(sheet, "A1", &h); err != nil {
			return nil, err
		}
	}
	for i, row := range rows {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, addr, &row); err != nil {
			return nil, err
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertCSV converts a CSV file into a spreadsheet. The first line is kept as the header.
func ConvertCSV(csvPath, xlsxPath string) error {
	in, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer in.Close()
	return convertCSV(in, xlsxPath)
}

func convertCSV(r io.Reader, xlsxPath string) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	lines, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("cannot read csv: %w", err)
	}
	if len(lines) == 0 {
		return fmt.Errorf("cannot convert an empty csv")
	}
	header, lines := lines[0], lines[1:]
	rows := make([][]any, 0, len(lines))
	for _, line := range lines {
		row := make([]any, len(line))
		for i, v := range line {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				row[i] = f
			} else {
				row[i] = v
			}
		}
		rows = append(rows, row)
	}
	content, err := xlsx(header, rows)
	if err != nil {
		return err
	}
	return writeFile(xlsxPath, content)
}
