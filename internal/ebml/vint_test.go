package ebml

import "testing"

func TestReadID(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		id    ID
		n     int
	}{
		{"one byte", []byte{0xE7}, IDTimecode, 1},
		{"two bytes", []byte{0x46, 0x6E}, IDFileName, 2},
		{"three bytes", []byte{0x2A, 0xD7, 0xB1}, IDTimecodeScale, 3},
		{"four bytes", []byte{0x1F, 0x43, 0xB6, 0x75}, IDCluster, 4},
		{"trailing data ignored", []byte{0xA1, 0xFF, 0xFF}, IDBlock, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, n, err := readID(tt.input)
			if err != nil {
				t.Fatalf("readID returned error: %v", err)
			}
			if id != tt.id || n != tt.n {
				t.Fatalf("readID = (%v, %d), want (%v, %d)", id, n, tt.id, tt.n)
			}
		})
	}
}

func TestReadIDIncomplete(t *testing.T) {
	for _, input := range [][]byte{nil, {0x1F}, {0x1F, 0x43, 0xB6}} {
		id, n, err := readID(input)
		if err != nil {
			t.Fatalf("readID(% x) returned error: %v", input, err)
		}
		if n != 0 || id != 0 {
			t.Fatalf("readID(% x) = (%v, %d), want incomplete", input, id, n)
		}
	}
}

func TestReadIDInvalid(t *testing.T) {
	if _, _, err := readID([]byte{0x00, 0x01}); err == nil {
		t.Fatal("expected error for a zero lead byte")
	}
	if _, _, err := readID([]byte{0x08, 0x01, 0x02, 0x03, 0x04}); err == nil {
		t.Fatal("expected error for a five byte id width")
	}
}

func TestReadSize(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		size    uint64
		n       int
		unknown bool
	}{
		{"one byte", []byte{0x81}, 1, 1, false},
		{"one byte max known", []byte{0xFE}, 126, 1, false},
		{"one byte unknown", []byte{0xFF}, 127, 1, true},
		{"two bytes", []byte{0x40, 0x01}, 1, 2, false},
		{"two bytes large", []byte{0x5F, 0xFF}, 0x1FFF, 2, false},
		{"eight bytes", []byte{0x01, 0, 0, 0, 0, 0, 0x10, 0x00}, 0x1000, 8, false},
		{"eight bytes unknown", []byte{0x01, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, 1<<56 - 1, 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size, n, unknown, err := readSize(tt.input)
			if err != nil {
				t.Fatalf("readSize returned error: %v", err)
			}
			if size != tt.size || n != tt.n || unknown != tt.unknown {
				t.Fatalf("readSize = (%d, %d, %v), want (%d, %d, %v)",
					size, n, unknown, tt.size, tt.n, tt.unknown)
			}
		})
	}
}

func TestReadSizeIncomplete(t *testing.T) {
	size, n, _, err := readSize([]byte{0x40})
	if err != nil {
		t.Fatalf("readSize returned error: %v", err)
	}
	if n != 0 || size != 0 {
		t.Fatalf("readSize = (%d, %d), want incomplete", size, n)
	}
}

func TestReadSizeInvalid(t *testing.T) {
	if _, _, _, err := readSize([]byte{0x00, 0x01}); err == nil {
		t.Fatal("expected error for a zero lead byte")
	}
}

func TestElementHelpers(t *testing.T) {
	parent := Element{
		ID: IDTrackEntry,
		Children: []Element{
			{ID: IDTrackNumber, Data: []byte{0x02}},
			{ID: IDLanguage, Data: []byte("fre\x00")},
			{ID: IDLanguage, Data: []byte("ger")},
		},
	}

	num, ok := parent.Find(IDTrackNumber)
	if !ok || num.Uint() != 2 {
		t.Fatalf("Find(TrackNumber) = (%v, %v), want value 2", num, ok)
	}
	if _, ok := parent.Find(IDCodecID); ok {
		t.Fatal("Find(CodecID) found a child that does not exist")
	}
	langs := parent.FindAll(IDLanguage)
	if len(langs) != 2 {
		t.Fatalf("FindAll(Language) returned %d children, want 2", len(langs))
	}
	if got := langs[0].Text(); got != "fre" {
		t.Fatalf("Text() = %q, want %q (NUL padding stripped)", got, "fre")
	}

	big := Element{Data: []byte{0x01, 0x00, 0x00}}
	if got := big.Uint(); got != 0x10000 {
		t.Fatalf("Uint() = %d, want %d", got, 0x10000)
	}
	empty := Element{}
	if got := empty.Uint(); got != 0 {
		t.Fatalf("Uint() on empty payload = %d, want 0", got)
	}
}

func TestIDString(t *testing.T) {
	if got := IDCluster.String(); got != "Cluster" {
		t.Fatalf("IDCluster.String() = %q", got)
	}
	if got := ID(0xDEAD).String(); got != "0xDEAD" {
		t.Fatalf("unknown id String() = %q", got)
	}
}
