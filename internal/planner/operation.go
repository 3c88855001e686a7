package planner

import (
	"path/filepath"
	"strings"
)

// Kind names a requested transformation. The kind doubles as the output type
// tag the planner resolves: requesting KindAudio means "produce the Audio
// output type". The set is open; plugins may introduce further tags.
type Kind string

const (
	// KindDataSource probes and anchors the raw input file.
	KindDataSource Kind = "DataSource"
	// KindAudio extracts an audio track.
	KindAudio Kind = "Audio"
	// KindTranscription produces a speech transcript.
	KindTranscription Kind = "Transcription"
	// KindDiarization attributes speech spans to speakers.
	KindDiarization Kind = "Diarization"
	// KindOCR recognizes text in video frames or images.
	KindOCR Kind = "OCR"
	// KindDetection counts detections of configured labels.
	KindDetection Kind = "Detection"
	// KindEmbedding produces content embeddings.
	KindEmbedding Kind = "Embedding"
)

// Operation is a requested transformation plus its parameters. It carries no
// execution state.
type Operation struct {
	Kind   Kind
	Params map[string]any
}

// OutputTag derives the desired output type tag from the operation's kind.
func (o Operation) OutputTag() string {
	return string(o.Kind)
}

// OutputSpec is a requested Operation together with the upstream OutputSpecs
// that must be produced first and fed in as input. It forms a tree the
// planner walks depth-first.
type OutputSpec struct {
	Operation Operation
	Sources   []OutputSpec
}

// RootInputTag derives the intrinsic input type tag of a raw file from its
// extension ("mp4", "wav", ...). Empty when the file has no extension.
func RootInputTag(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
