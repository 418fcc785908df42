package main

import "testing"

func TestRecognized(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"data", true},
		{"index.html", true},
		{"index.html.gz", true},
		{"styles.css.gz", true},
		{"search.db", true},
		{".nojekyll", true},
		{"deployment-info.json", true},
		{"notes.txt", false},
		{"src", false},
		{"random.gz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recognized(tt.name); got != tt.want {
				t.Errorf("recognized(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
