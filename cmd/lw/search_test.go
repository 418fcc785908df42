package main

import "testing"

func TestParseYearRange(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantFrom int
		wantTo   int
		wantErr  bool
	}{
		{"single year", "2015", 2015, 2015, false},
		{"range", "2010-2020", 2010, 2020, false},
		{"range with spaces", "2010 - 2020", 2010, 2020, false},
		{"not a number", "abc", 0, 0, true},
		{"half range", "2010-", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := parseYearRange(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseYearRange(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if from != tt.wantFrom || to != tt.wantTo {
				t.Errorf("parseYearRange(%q) = %d-%d, want %d-%d", tt.input, from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}
