package pipeline

import (
	"reflect"
	"strings"
	"testing"
)

func TestDeduplicate(t *testing.T) {
	tests := []struct {
		name string
		in   []Block
		want []Block
	}{
		{
			name: "empty",
			in:   nil,
			want: []Block{},
		},
		{
			name: "singleton",
			in:   []Block{{"00:00", "hello"}},
			want: []Block{{"00:00", "hello"}},
		},
		{
			name: "rolling prefix",
			in: []Block{
				{"00:00", "hello world"},
				{"00:02", "hello world there"},
				{"00:04", "there you are"},
			},
			want: []Block{
				{"00:00", "hello world"},
				{"00:02", "there"},
				{"00:04", "you are"},
			},
		},
		{
			name: "shorter text after longer is kept",
			in: []Block{
				{"00:00", "hello world"},
				{"00:02", "hello"},
			},
			want: []Block{
				{"00:00", "hello world"},
				{"00:02", "hello"},
			},
		},
		{
			name: "exact repeat dropped",
			in: []Block{
				{"00:00", "same"},
				{"00:01", "same"},
				{"00:02", "next"},
			},
			want: []Block{
				{"00:00", "same"},
				{"00:02", "next"},
			},
		},
		{
			name: "no overlap kept",
			in: []Block{
				{"00:00", "one"},
				{"00:01", "two"},
			},
			want: []Block{
				{"00:00", "one"},
				{"00:01", "two"},
			},
		},
		{
			name: "blank blocks dropped",
			in: []Block{
				{"00:00", "  "},
				{"00:01", "a"},
				{"00:02", ""},
				{"00:03", "b"},
			},
			want: []Block{
				{"00:01", "a"},
				{"00:03", "b"},
			},
		},
		{
			name: "repeated prefix stripped fully",
			in: []Block{
				{"00:00", "go"},
				{"00:01", "go go go now"},
			},
			want: []Block{
				{"00:00", "go"},
				{"00:01", "now"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deduplicate(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Deduplicate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeduplicate_DoesNotMutateInput(t *testing.T) {
	in := []Block{{"00:00", "a"}, {"00:01", "a b"}}
	Deduplicate(in)
	if in[1].Text != "a b" {
		t.Errorf("input mutated: %v", in)
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	in := []Block{
		{"00:00", "we are"},
		{"00:01", "we are going"},
		{"00:02", "going going home"},
		{"00:03", "home"},
		{"00:04", "home sweet home"},
	}

	once := Deduplicate(in)
	twice := Deduplicate(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("second pass changed output: %v -> %v", once, twice)
	}

	for i := 1; i < len(once); i++ {
		if strings.HasPrefix(once[i].Text, once[i-1].Text) {
			t.Errorf("block %d %q starts with predecessor %q", i, once[i].Text, once[i-1].Text)
		}
	}
}
