package ussd

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"1", []string{"1"}},
		{"1*0", []string{}},
		{"1*2*0", []string{"1"}},
		{"1*0*2", []string{"2"}},
		{"0*0*0", []string{}},
		{"1*0*0*0*3", []string{"3"}},
		{"1**2", []string{"1", "2"}},
		{"*1*", []string{"1"}},
		{"1*2*abc", []string{"1", "2", "abc"}},
		{" 1 * 2 ", []string{" 1 ", " 2 "}},
		{"1*0 ", []string{"1", "0 "}},
		{"1* *2", []string{"1", " ", "2"}},
		{"1*2*1*3*0*4", []string{"1", "2", "1", "4"}},
	}
	for _, tt := range tests {
		got := Normalize(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeNeverExceedsPushes(t *testing.T) {
	// every path of up to 8 tokens drawn from {"0","1"}
	for mask := 0; mask < 1<<8; mask++ {
		for n := 0; n <= 8; n++ {
			tokens := make([]string, n)
			pushes := 0
			for i := 0; i < n; i++ {
				if mask&(1<<i) != 0 {
					tokens[i] = "1"
					pushes++
				} else {
					tokens[i] = "0"
				}
			}
			got := Normalize(strings.Join(tokens, "*"))
			if len(got) > pushes {
				t.Fatalf("Normalize(%q) has %d entries for %d pushes", strings.Join(tokens, "*"), len(got), pushes)
			}
		}
	}
}

func TestSelectIndex(t *testing.T) {
	tests := []struct {
		token  string
		n      int
		want   int
		wantOK bool
	}{
		{"1", 3, 0, true},
		{"3", 3, 2, true},
		{"4", 3, 0, false},
		{"0", 3, 0, false},
		{"-1", 3, 0, false},
		{"x", 3, 0, false},
		{"1", 0, 0, false},
		{" 2 ", 3, 1, true},
		{" ", 3, 0, false},
	}
	for _, tt := range tests {
		got, ok := SelectIndex(tt.token, tt.n)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("SelectIndex(%q, %d) = %d, %v; want %d, %v", tt.token, tt.n, got, ok, tt.want, tt.wantOK)
		}
	}
}
