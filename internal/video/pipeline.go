package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// Pipeline stages, in order. FAILED is reachable from any of them.
const (
	stageExtractingAudio = "extracting_audio"
	stageSplitting       = "splitting"
	stageTranscribing    = "transcribing"
	stageSummarizing     = "summarizing"
	stageCorrelating     = "correlating"
	stageDone            = "done"
)

// Pipeline turns a video file into section-level chunk candidates:
// demux audio, split into fixed-duration segments, transcribe the
// segments concurrently, summarize the full track, then correlate
// transcript entries into the summarized sections.
type Pipeline struct {
	audio          AudioTool
	transcriber    Transcriber
	summarizer     Summarizer
	segmentSeconds int
	concurrency    int
	summaryTimeout time.Duration
}

func NewPipeline(audio AudioTool, transcriber Transcriber, summarizer Summarizer, segmentSeconds, concurrency int, summaryTimeout time.Duration) *Pipeline {
	if segmentSeconds <= 0 {
		segmentSeconds = 100
	}
	if concurrency <= 0 {
		concurrency = 5
	}
	if summaryTimeout <= 0 {
		summaryTimeout = 5 * time.Minute
	}
	return &Pipeline{
		audio:          audio,
		transcriber:    transcriber,
		summarizer:     summarizer,
		segmentSeconds: segmentSeconds,
		concurrency:    concurrency,
		summaryTimeout: summaryTimeout,
	}
}

// Process runs the full pipeline for one video. All temporary audio
// artifacts live in a per-run directory that is removed on every path,
// success or failure.
func (p *Pipeline) Process(ctx context.Context, videoPath string) ([]SectionDoc, error) {
	workDir, err := os.MkdirTemp("", "video-ingest-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			slog.WarnContext(ctx, "failed to remove video work dir", "dir", workDir, "error", err)
		}
	}()

	slog.InfoContext(ctx, "video pipeline started", "video", videoPath, "stage", stageExtractingAudio)
	audioPath := filepath.Join(workDir, "audio.wav")
	if err := p.audio.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return nil, fmt.Errorf("extract audio: %w", err)
	}

	slog.InfoContext(ctx, "audio extracted", "stage", stageSplitting)
	segments, err := p.audio.SplitAudio(ctx, audioPath, workDir, p.segmentSeconds)
	if err != nil {
		return nil, fmt.Errorf("split audio: %w", err)
	}

	slog.InfoContext(ctx, "audio split", "segments", len(segments), "stage", stageTranscribing)
	transcript, err := p.transcribeAll(ctx, segments)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "transcription complete", "entries", len(transcript), "stage", stageSummarizing)
	sumCtx, cancel := context.WithTimeout(ctx, p.summaryTimeout)
	defer cancel()
	summary, err := p.summarizer.Summarize(sumCtx, audioPath)
	if err != nil {
		return nil, &SummarizationError{Err: err}
	}

	slog.InfoContext(ctx, "summary generated", "sections", len(summary.Sections), "stage", stageCorrelating)
	docs, err := correlateSections(videoPath, summary, transcript)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "video pipeline finished", "chunks", len(docs), "stage", stageDone)
	return docs, nil
}

// transcribeAll fans segment transcriptions out over a bounded worker
// pool and recombines them in segment order, shifting each segment's
// local timestamps by a running offset so the combined transcript is
// globally time-ordered.
func (p *Pipeline) transcribeAll(ctx context.Context, segmentPaths []string) ([]TranscriptEntry, error) {
	pool, err := ants.NewPool(p.concurrency)
	if err != nil {
		return nil, fmt.Errorf("create transcription pool: %w", err)
	}
	defer pool.Release()

	results := make([][]Segment, len(segmentPaths))
	errs := make([]error, len(segmentPaths))

	var wg sync.WaitGroup
	for i, path := range segmentPaths {
		i, path := i, path
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = p.transcriber.Transcribe(ctx, path)
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, &TranscriptionError{Segment: i, Err: err}
		}
	}

	// Ordering is restored here by segment position, not by completion
	// order of the concurrent calls.
	var combined []TranscriptEntry
	offset := 0.0
	for _, segs := range results {
		for _, s := range segs {
			combined = append(combined, TranscriptEntry{
				Text:  s.Text,
				Start: SecondsToClock(int(s.Start + offset)),
				End:   SecondsToClock(int(s.End + offset)),
			})
		}
		if len(combined) > 0 {
			end, err := ClockToSeconds(combined[len(combined)-1].End)
			if err != nil {
				return nil, &TranscriptionError{Err: err}
			}
			offset = float64(end)
		}
	}
	return combined, nil
}

// correlateSections selects, for each summarized section, the transcript
// entries whose start time falls in [start, end) and joins their text
// into the section's excerpt.
func correlateSections(videoPath string, summary *Summary, transcript []TranscriptEntry) ([]SectionDoc, error) {
	docs := make([]SectionDoc, 0, len(summary.Sections))
	for _, section := range summary.Sections {
		start, err := ClockToSeconds(section.StartTime)
		if err != nil {
			return nil, &SummarizationError{Err: fmt.Errorf("bad section start: %w", err)}
		}
		end, err := ClockToSeconds(section.EndTime)
		if err != nil {
			return nil, &SummarizationError{Err: fmt.Errorf("bad section end: %w", err)}
		}

		var excerpt []string
		for _, entry := range transcript {
			entryStart, err := ClockToSeconds(entry.Start)
			if err != nil {
				continue
			}
			if start <= entryStart && entryStart < end {
				excerpt = append(excerpt, entry.Text)
			}
		}

		docs = append(docs, SectionDoc{
			Text: section.Summary,
			Metadata: map[string]any{
				"video_summary": summary.Summary,
				"start_time":    section.StartTime,
				"end_time":      section.EndTime,
				"transcript":    strings.Join(excerpt, " "),
				"video_path":    videoPath,
			},
		})
	}
	return docs, nil
}
