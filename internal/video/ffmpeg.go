package video

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
)

// FFmpeg shells out to the ffmpeg binary for audio demuxing and
// segmentation. Both operations are CPU/IO-bound; callers run them off
// the orchestrating goroutine.
type FFmpeg struct {
	binary string
}

func NewFFmpeg(binary string) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary}
}

// ExtractAudio demuxes the audio track of videoPath into a mono 16kHz
// WAV at outPath.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, outPath string) error {
	args := []string{
		"-y", "-i", videoPath,
		"-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1",
		outPath,
	}
	return f.run(ctx, args)
}

// SplitAudio cuts audioPath into fixed-duration non-overlapping WAV
// segments under outDir, returning segment paths in time order.
func (f *FFmpeg) SplitAudio(ctx context.Context, audioPath, outDir string, segmentSeconds int) ([]string, error) {
	pattern := filepath.Join(outDir, "segment_%05d.wav")
	args := []string{
		"-y", "-i", audioPath,
		"-f", "segment", "-segment_time", strconv.Itoa(segmentSeconds),
		"-c", "copy",
		pattern,
	}
	if err := f.run(ctx, args); err != nil {
		return nil, err
	}

	// Glob results are lexically sorted; the zero-padded index keeps
	// lexical order equal to time order.
	segments, err := filepath.Glob(filepath.Join(outDir, "segment_*.wav"))
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no segments for %s", audioPath)
	}
	return segments, nil
}

func (f *FFmpeg) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, f.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, truncate(stderr.String(), 512))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
