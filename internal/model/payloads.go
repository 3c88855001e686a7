package model

import (
	"time"
)

// ProbeInfo is produced by data-source plugins probing the raw input file.
type ProbeInfo struct {
	Path      string
	SizeBytes int64
	Container string
}

// AudioArtifact describes an extracted audio file on disk.
type AudioArtifact struct {
	Path         string
	SampleRateHz int
	Channels     int
}

// TranscriptSegment is one timed span of recognized speech.
type TranscriptSegment struct {
	Start   time.Duration
	End     time.Duration
	Speaker string
	Text    string
}

// Transcript is the result of a transcription stage.
type Transcript struct {
	Path     string
	Text     string
	Language string
	Segments []TranscriptSegment
}

// SpeakerTurn is one diarized span attributed to a speaker label.
type SpeakerTurn struct {
	Speaker string
	Start   time.Duration
	End     time.Duration
}

// Diarization is the result of a speaker-diarization stage.
type Diarization struct {
	Turns []SpeakerTurn
}

// DetectionCounts aggregates per-label hit counts from a detection stage.
type DetectionCounts struct {
	Counts map[string]int
}

// Embeddings holds fixed-dimension vectors produced by an embedding stage.
type Embeddings struct {
	Dim     int
	Vectors [][]float32
}

// TimelineEvent is one fused event on a job's media timeline.
type TimelineEvent struct {
	At     time.Duration
	Kind   string
	Detail string
}

// Timeline is a fused, time-ordered view over several stages' outputs.
type Timeline struct {
	Events []TimelineEvent
}

// StorageStats reports artifacts persisted by a storage stage.
type StorageStats struct {
	Objects      int
	BytesWritten int64
}
