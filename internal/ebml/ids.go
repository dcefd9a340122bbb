package ebml

import "fmt"

// ID identifies a Matroska/WebM element. Values are the raw identifiers as
// they appear on the wire, marker bits included.
type ID uint32

const (
	IDEBML    ID = 0x1A45DFA3
	IDSegment ID = 0x18538067

	IDSeekHead ID = 0x114D9B74
	IDCues     ID = 0x1C53BB6B
	IDChapters ID = 0x1043A770
	IDTags     ID = 0x1254C367
	IDVoid     ID = 0xEC
	IDCRC32    ID = 0xBF

	IDInfo          ID = 0x1549A966
	IDTimecodeScale ID = 0x2AD7B1

	IDCluster       ID = 0x1F43B675
	IDTimecode      ID = 0xE7
	IDSimpleBlock   ID = 0xA3
	IDBlockGroup    ID = 0xA0
	IDBlock         ID = 0xA1
	IDBlockDuration ID = 0x9B

	IDTracks             ID = 0x1654AE6B
	IDTrackEntry         ID = 0xAE
	IDTrackNumber        ID = 0xD7
	IDTrackUID           ID = 0x73C5
	IDTrackType          ID = 0x83
	IDName               ID = 0x536E
	IDLanguage           ID = 0x22B59C
	IDCodecID            ID = 0x86
	IDCodecPrivate       ID = 0x63A2
	IDContentEncodings   ID = 0x6D80
	IDContentEncoding    ID = 0x6240
	IDContentCompression ID = 0x5034

	IDAttachments  ID = 0x1941A469
	IDAttachedFile ID = 0x61A7
	IDFileName     ID = 0x466E
	IDFileMimeType ID = 0x4660
	IDFileData     ID = 0x465C
	IDFileUID      ID = 0x46AE
)

var elementNames = map[ID]string{
	IDEBML:               "EBML",
	IDSegment:            "Segment",
	IDSeekHead:           "SeekHead",
	IDCues:               "Cues",
	IDChapters:           "Chapters",
	IDTags:               "Tags",
	IDVoid:               "Void",
	IDCRC32:              "CRC-32",
	IDInfo:               "Info",
	IDTimecodeScale:      "TimecodeScale",
	IDCluster:            "Cluster",
	IDTimecode:           "Timecode",
	IDSimpleBlock:        "SimpleBlock",
	IDBlockGroup:         "BlockGroup",
	IDBlock:              "Block",
	IDBlockDuration:      "BlockDuration",
	IDTracks:             "Tracks",
	IDTrackEntry:         "TrackEntry",
	IDTrackNumber:        "TrackNumber",
	IDTrackUID:           "TrackUID",
	IDTrackType:          "TrackType",
	IDName:               "Name",
	IDLanguage:           "Language",
	IDCodecID:            "CodecID",
	IDCodecPrivate:       "CodecPrivate",
	IDContentEncodings:   "ContentEncodings",
	IDContentEncoding:    "ContentEncoding",
	IDContentCompression: "ContentCompression",
	IDAttachments:        "Attachments",
	IDAttachedFile:       "AttachedFile",
	IDFileName:           "FileName",
	IDFileMimeType:       "FileMimeType",
	IDFileData:           "FileData",
	IDFileUID:            "FileUID",
}

// masterIDs marks elements whose payload is a sequence of child elements.
// Unknown ids encountered inside a buffered subtree are treated as leaves.
var masterIDs = map[ID]bool{
	IDEBML:               true,
	IDSegment:            true,
	IDSeekHead:           true,
	IDCues:               true,
	IDChapters:           true,
	IDTags:               true,
	IDInfo:               true,
	IDCluster:            true,
	IDBlockGroup:         true,
	IDTracks:             true,
	IDTrackEntry:         true,
	IDContentEncodings:   true,
	IDContentEncoding:    true,
	IDContentCompression: true,
	IDAttachments:        true,
	IDAttachedFile:       true,
}

func (id ID) String() string {
	if name, ok := elementNames[id]; ok {
		return name
	}
	return fmt.Sprintf("0x%X", uint32(id))
}
