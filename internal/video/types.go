package video

import (
	"context"
	"fmt"
)

// Segment is one timestamped unit of speech-to-text output. Start and
// End are seconds relative to the audio file the segment came from, not
// to the whole recording.
type Segment struct {
	Text  string
	Start float64
	End   float64
}

// TranscriptEntry is a globally time-ordered transcript line, with
// clock-formatted absolute timestamps.
type TranscriptEntry struct {
	Text  string
	Start string
	End   string
}

// Section is one summarized span of the recording.
type Section struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Summary   string `json:"summary"`
}

// Summary is the structured result of the multimodal summarization
// call: an overall summary plus an ordered list of sections.
type Summary struct {
	Summary  string    `json:"summary"`
	Sections []Section `json:"sections"`
}

// SectionDoc is one emitted chunk candidate: the section summary as
// text, with the correlated transcript excerpt in its metadata.
type SectionDoc struct {
	Text     string
	Metadata map[string]any
}

// Transcriber converts one audio segment into timestamped text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]Segment, error)
}

// Summarizer produces a structured summary for a full audio track.
type Summarizer interface {
	Summarize(ctx context.Context, audioPath string) (*Summary, error)
}

// AudioTool demuxes and segments audio tracks.
type AudioTool interface {
	ExtractAudio(ctx context.Context, videoPath, outPath string) error
	SplitAudio(ctx context.Context, audioPath, outDir string, segmentSeconds int) ([]string, error)
}

// TranscriptionError reports a failed speech-to-text call; it aborts
// the whole pipeline run.
type TranscriptionError struct {
	Segment int
	Err     error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("transcription failed (segment %d): %v", e.Segment, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// SummarizationError reports a failed or timed-out summarization call.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization failed: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }
