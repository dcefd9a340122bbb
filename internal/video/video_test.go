package video

import "testing"

func TestCodecForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".srt", "srt"},
		{".SRT", "srt"},
		{".vtt", "webvtt"},
		{".ass", "ass"},
		{".ssa", "ass"},
		{".txt", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CodecForExtension(tt.ext); got != tt.want {
			t.Errorf("CodecForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
