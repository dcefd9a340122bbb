package cli

import (
	"path/filepath"
	"testing"
)

func TestParseTrackFilter(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		want    []uint64
		wantNil bool
		wantErr bool
	}{
		{"empty means all", "", nil, true, false},
		{"whitespace only", "  ", nil, true, false},
		{"single", "2", []uint64{2}, false, false},
		{"multiple", "2,3,17", []uint64{2, 3, 17}, false, false},
		{"spaces around numbers", " 2 , 3 ", []uint64{2, 3}, false, false},
		{"empty segments skipped", "2,,3,", []uint64{2, 3}, false, false},
		{"not a number", "2,x", nil, false, true},
		{"negative", "-1", nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := parseTrackFilter(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTrackFilter(%q): %v", tt.spec, err)
			}
			if tt.wantNil {
				if filter != nil {
					t.Errorf("expected nil filter, got %v", filter)
				}
				return
			}
			if len(filter) != len(tt.want) {
				t.Fatalf("filter has %d entries, want %d", len(filter), len(tt.want))
			}
			for _, n := range tt.want {
				if !filter[n] {
					t.Errorf("filter missing track %d", n)
				}
			}
		})
	}
}

func TestSubtitleOutputPath(t *testing.T) {
	tests := []struct {
		name      string
		mkvPath   string
		outputDir string
		number    uint64
		lang      string
		ext       string
		want      string
	}{
		{
			"next to source",
			filepath.Join("videos", "movie.mkv"), "",
			2, "eng", ".srt",
			filepath.Join("videos", "movie.2.eng.srt"),
		},
		{
			"explicit output dir",
			filepath.Join("videos", "movie.mkv"), "subs",
			3, "jpn", ".ass",
			filepath.Join("subs", "movie.3.jpn.ass"),
		},
		{
			"missing language",
			"movie.mkv", "",
			1, "", ".vtt",
			"movie.1.und.vtt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := subtitleOutputPath(tt.mkvPath, tt.outputDir, tt.number, tt.lang, tt.ext)
			if got != tt.want {
				t.Errorf("subtitleOutputPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtensionForCodec(t *testing.T) {
	tests := []struct {
		codec string
		want  string
	}{
		{"subrip", ".srt"},
		{"srt", ".srt"},
		{"ass", ".ass"},
		{"ASS", ".ass"},
		{"ssa", ".ssa"},
		{"webvtt", ".vtt"},
		{"mov_text", ".srt"},
		{"", ".srt"},
	}

	for _, tt := range tests {
		if got := extensionForCodec(tt.codec); got != tt.want {
			t.Errorf("extensionForCodec(%q) = %q, want %q", tt.codec, got, tt.want)
		}
	}
}
