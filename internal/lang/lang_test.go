package lang

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"fre", "fra"},
		{"ger", "deu"},
		{"chi", "zho"},
		{"FRE", "fra"},
		{" dut ", "nld"},
		{"eng", "eng"},
		{"jpn", "jpn"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.code); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"eng", "English"},
		{"jpn", "Japanese"},
		{"fre", "French"},
		{"ger", "German"},
		{"spa", "Spanish"},
		{"und", "Undetermined"},
		{"", "Undetermined"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := DisplayName(tt.code); got != tt.want {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

func TestDisplayNameUnparseable(t *testing.T) {
	if got := DisplayName("not-a-code!"); got != "not-a-code!" {
		t.Errorf("DisplayName = %q, want the input back", got)
	}
}
