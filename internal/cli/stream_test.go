package cli

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/mgpai22/mkvsub/internal/matroska"
)

func TestNewCueEventOmitsMissingDuration(t *testing.T) {
	cue := matroska.Cue{
		Time:     107250,
		Duration: math.NaN(),
		Text:     "hello",
		Content:  "hello block",
	}

	event := newCueEvent(cue, 2)
	if event.DurationMs != nil {
		t.Errorf("expected nil duration, got %v", *event.DurationMs)
	}

	out, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "duration_ms") {
		t.Errorf("duration_ms should be absent: %s", out)
	}
	if !strings.Contains(string(out), `"time_ms":107250`) {
		t.Errorf("unexpected JSON: %s", out)
	}
	if !strings.Contains(string(out), `"track":2`) {
		t.Errorf("unexpected JSON: %s", out)
	}
}

func TestNewCueEventCarriesDuration(t *testing.T) {
	cue := matroska.Cue{
		Time:     1000,
		Duration: 1500,
		Text:     "styled",
		Content:  "Dialogue: ...",
		Style:    "Default",
		Layer:    "1",
	}

	event := newCueEvent(cue, 1)
	if event.DurationMs == nil || *event.DurationMs != 1500 {
		t.Fatalf("expected duration 1500, got %v", event.DurationMs)
	}

	out, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(out), `"duration_ms":1500`) {
		t.Errorf("unexpected JSON: %s", out)
	}
	if !strings.Contains(string(out), `"style":"Default"`) {
		t.Errorf("unexpected JSON: %s", out)
	}
}

func TestDescribeTracksNormalizesLanguage(t *testing.T) {
	tracks := []matroska.Track{
		{Number: 1, Type: "ass", Language: "fre", Name: "Signs"},
		{Number: 2, Type: "utf8", Language: ""},
	}

	infos := describeTracks(tracks)
	if len(infos) != 2 {
		t.Fatalf("got %d infos", len(infos))
	}
	if infos[0].Language != "fra" {
		t.Errorf("bibliographic code should normalize, got %q", infos[0].Language)
	}
	if infos[0].LanguageName != "French" {
		t.Errorf("LanguageName = %q, want French", infos[0].LanguageName)
	}
	if infos[1].LanguageName != "Undetermined" {
		t.Errorf("empty language should render Undetermined, got %q", infos[1].LanguageName)
	}
}
