package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestTableFormatter_Table(t *testing.T) {
	table := &Table{Headers: []string{"SHARD", "ROOT"}}
	table.AddRow("0", "aa")
	table.AddRow("1", "bb")

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, table); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	got := lines(buf.String())
	want := []string{"SHARD  ROOT", "0      aa", "1      bb"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Format() = %q, want %q", got, want)
	}

	buf.Reset()
	if err := (&TableFormatter{NoHeaders: true}).Format(&buf, table); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "SHARD") {
		t.Error("NoHeaders should drop the header row")
	}
}

type tabled struct{}

func (tabled) Table() *Table {
	return &Table{Headers: []string{"CUSTOM"}, Rows: [][]string{{"row"}}}
}

func TestTableFormatter_Tabler(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, tabled{}); err != nil {
		t.Fatal(err)
	}
	if got := lines(buf.String()); !reflect.DeepEqual(got, []string{"CUSTOM", "row"}) {
		t.Errorf("Format() = %q", got)
	}
}

func TestTableFormatter_NestedStruct(t *testing.T) {
	type badger struct {
		GCInterval string `yaml:"gc_interval"`
	}
	type store struct {
		Home   string `yaml:"home"`
		Badger badger `yaml:"badger"`
	}
	type cfg struct {
		Store   store `yaml:"store"`
		Verbose bool
		hidden  string
		Skipped string `yaml:"-"`
	}

	var buf bytes.Buffer
	err := (&TableFormatter{}).Format(&buf, &cfg{Store: store{Home: "/data", Badger: badger{GCInterval: "10m"}}, hidden: "x"})
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	got := lines(buf.String())
	want := []string{
		"FIELD                     VALUE",
		"store.home                /data",
		"store.badger.gc_interval  10m",
		"verbose                   false",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Format() =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestTableFormatter_MapSorted(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, map[string]int{"b": 2, "a": 1, "c": 3}); err != nil {
		t.Fatal(err)
	}
	got := lines(buf.String())
	want := []string{"KEY  VALUE", "a    1", "b    2", "c    3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestTableFormatter_Slice(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, []hexID{{0x01, 0x02}, {0xff, 0x00}}); err != nil {
		t.Fatal(err)
	}
	got := lines(buf.String())
	want := []string{"VALUE", "0102", "ff00"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestTableFormatter_Nil(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("Format(nil) wrote %q", buf.String())
	}
}

func TestFormatValue(t *testing.T) {
	var nilPtr *int
	n := 7
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "abc", "abc"},
		{"empty string", "", "-"},
		{"int", 42, "42"},
		{"uint", uint32(9), "9"},
		{"float", 0.5, "0.5"},
		{"bool", true, "true"},
		{"duration", 90 * time.Second, "1m30s"},
		{"zero time", time.Time{}, "-"},
		{"nil pointer", nilPtr, "-"},
		{"pointer", &n, "7"},
		{"text marshaler", hexID{0xca, 0xfe}, "cafe"},
		{"short slice", []int{1, 2}, "1, 2"},
		{"long slice", []int{1, 2, 3, 4, 5}, "[5 items]"},
		{"empty slice", []string{}, "-"},
		{"map", map[string]int{"a": 1}, "{1 keys}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(reflect.ValueOf(tt.in)); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if got := formatValue(reflect.Value{}); got != "" {
		t.Errorf("formatValue(invalid) = %q, want empty", got)
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"Name":           "name",
		"RateLimitBytes": "rate_limit_bytes",
		"already":        "already",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
