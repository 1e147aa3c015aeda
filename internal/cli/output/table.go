package output

import (
	"encoding"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
	"time"
)

// maxInlineItems is the longest slice rendered inline in a table cell.
const maxInlineItems = 4

// Tabler is implemented by values with their own table layout.
type Tabler interface {
	Table() *Table
}

// TableFormatter formats data as an aligned table.
//
// Structs become FIELD/VALUE rows, nested structs are flattened into dotted
// field names. Maps become sorted KEY/VALUE rows, slices one VALUE row per
// element.
type TableFormatter struct {
	NoHeaders bool
}

// Format formats data as a table.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	switch t := data.(type) {
	case *Table:
		return t.RenderWithOptions(w, f.NoHeaders)
	case Tabler:
		return t.Table().RenderWithOptions(w, f.NoHeaders)
	}

	return toTable(reflect.ValueOf(data)).RenderWithOptions(w, f.NoHeaders)
}

func toTable(v reflect.Value) *Table {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return &Table{}
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		if _, ok := textMarshaler(v); !ok {
			t := &Table{Headers: []string{"FIELD", "VALUE"}}
			flattenStruct(t, "", v)
			return t
		}
	case reflect.Map:
		t := &Table{Headers: []string{"KEY", "VALUE"}}
		for _, k := range sortedKeys(v) {
			t.AddRow(formatValue(k), formatValue(v.MapIndex(k)))
		}
		return t
	case reflect.Slice, reflect.Array:
		if _, ok := textMarshaler(v); !ok {
			t := &Table{Headers: []string{"VALUE"}}
			for i := 0; i < v.Len(); i++ {
				t.AddRow(formatValue(v.Index(i)))
			}
			return t
		}
	}
	return &Table{Headers: []string{"VALUE"}, Rows: [][]string{{formatValue(v)}}}
}

func flattenStruct(t *Table, prefix string, v reflect.Value) {
	typ := v.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		if name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Struct && fv.Type() != reflect.TypeOf(time.Time{}) {
			if _, ok := textMarshaler(fv); !ok {
				flattenStruct(t, name, fv)
				continue
			}
		}
		t.AddRow(name, formatValue(fv))
	}
}

// fieldName prefers the yaml tag, then the json tag, then snake_case.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"yaml", "json"} {
		if tag := f.Tag.Get(key); tag != "" {
			name := strings.Split(tag, ",")[0]
			if name != "" {
				return name
			}
		}
	}
	return toSnakeCase(f.Name)
}

func sortedKeys(v reflect.Value) []reflect.Value {
	keys := v.MapKeys()
	sort.Slice(keys, func(i, j int) bool {
		return formatValue(keys[i]) < formatValue(keys[j])
	})
	return keys
}

func textMarshaler(v reflect.Value) (encoding.TextMarshaler, bool) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, false
	}
	tm, ok := v.Interface().(encoding.TextMarshaler)
	return tm, ok
}

// formatValue formats a reflect.Value for a table cell.
func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}

	if tm, ok := textMarshaler(v); ok {
		b, err := tm.MarshalText()
		if err != nil {
			return fmt.Sprintf("<%v>", err)
		}
		return string(b)
	}

	switch x := v.Interface().(type) {
	case time.Time:
		if x.IsZero() {
			return "-"
		}
		return x.Format(time.RFC3339)
	case time.Duration:
		return x.String()
	}

	switch v.Kind() {
	case reflect.String:
		if v.Len() == 0 {
			return "-"
		}
		return v.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", v.Uint())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%g", v.Float())
	case reflect.Bool:
		return fmt.Sprintf("%t", v.Bool())
	case reflect.Slice, reflect.Array:
		n := v.Len()
		if n == 0 {
			return "-"
		}
		if n > maxInlineItems {
			return fmt.Sprintf("[%d items]", n)
		}
		items := make([]string, n)
		for i := range items {
			items[i] = formatValue(v.Index(i))
		}
		return strings.Join(items, ", ")
	case reflect.Map:
		if v.Len() == 0 {
			return "-"
		}
		return fmt.Sprintf("{%d keys}", v.Len())
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}

// toSnakeCase converts CamelCase to snake_case.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table, optionally without its header row.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}
