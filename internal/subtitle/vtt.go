package subtitle

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
)

type VTTFile struct {
	entries []Entry
}

var (
	vttTimestampRegex = regexp.MustCompile(
		`(\d{2}):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})\.(\d{3})`,
	)
	// mm:ss.mmm cues without an hour component
	vttShortTimestampRegex = regexp.MustCompile(
		`(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2})\.(\d{3})`,
	)
)

func parseVTTFile(path string) (*VTTFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open VTT file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	var entries []Entry
	scanner := bufio.NewScanner(file)

	var currentEntry *Entry
	var textLines []string
	lineNum := 0
	headerParsed := false
	entryIndex := 0

	flush := func() {
		if currentEntry != nil && len(textLines) > 0 {
			currentEntry.Text = strings.Join(textLines, "\n")
			entries = append(entries, *currentEntry)
		}
		currentEntry = nil
		textLines = nil
	}

	// NOTE and STYLE blocks run until a blank line
	skipBlock := func() {
		for scanner.Scan() {
			lineNum++
			if strings.TrimSpace(scanner.Text()) == "" {
				break
			}
		}
	}

	startEntry := func(start, end [4]string, lineNum int) error {
		if currentEntry != nil && len(textLines) > 0 {
			currentEntry.Text = strings.Join(textLines, "\n")
			entries = append(entries, *currentEntry)
			textLines = nil
		}

		startTime, err := clockDuration(start[0], start[1], start[2], start[3])
		if err != nil {
			return fmt.Errorf(
				"invalid start timestamp at line %d: %w",
				lineNum,
				err,
			)
		}
		endTime, err := clockDuration(end[0], end[1], end[2], end[3])
		if err != nil {
			return fmt.Errorf(
				"invalid end timestamp at line %d: %w",
				lineNum,
				err,
			)
		}

		entryIndex++
		currentEntry = &Entry{
			Index:     entryIndex,
			StartTime: startTime,
			EndTime:   endTime,
		}
		return nil
	}

	for scanner.Scan() {
		lineNum++
		line := stripBOM(scanner.Text(), lineNum)
		trimmed := strings.TrimSpace(line)

		if !headerParsed && strings.HasPrefix(trimmed, "WEBVTT") {
			headerParsed = true
			continue
		}

		if strings.HasPrefix(trimmed, "NOTE") ||
			strings.HasPrefix(trimmed, "STYLE") {
			skipBlock()
			continue
		}

		if trimmed == "" {
			flush()
			continue
		}

		if matches := vttTimestampRegex.FindStringSubmatch(line); len(matches) == 9 {
			err := startEntry(
				[4]string{matches[1], matches[2], matches[3], matches[4]},
				[4]string{matches[5], matches[6], matches[7], matches[8]},
				lineNum,
			)
			if err != nil {
				return nil, err
			}
			continue
		}

		if matches := vttShortTimestampRegex.FindStringSubmatch(line); len(matches) == 7 {
			err := startEntry(
				[4]string{"00", matches[1], matches[2], matches[3]},
				[4]string{"00", matches[4], matches[5], matches[6]},
				lineNum,
			)
			if err != nil {
				return nil, err
			}
			continue
		}

		if currentEntry != nil {
			textLines = append(textLines, line)
		}
	}

	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT file: %w", err)
	}

	return &VTTFile{entries: entries}, nil
}

func (f *VTTFile) Format() Format {
	return FormatVTT
}

func (f *VTTFile) Subtitle() *Subtitle {
	return &Subtitle{
		Entries: f.entries,
		Format:  string(FormatVTT),
	}
}

func (f *VTTFile) SetText(index int, text string) error {
	if index < 0 || index >= len(f.entries) {
		return fmt.Errorf(
			"index %d out of range (0-%d)",
			index,
			len(f.entries)-1,
		)
	}
	f.entries[index].Text = text
	return nil
}

func (f *VTTFile) Write(path string) error {
	writer, err := NewWriter(FormatVTT)
	if err != nil {
		return err
	}
	return writer.Write(f.Subtitle(), path)
}
