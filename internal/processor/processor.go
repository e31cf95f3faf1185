// Package processor turns an uploaded file into an ordered sequence of
// chunk candidates, picking the right reader or pipeline per file type.
package processor

import (
	"context"
	"path/filepath"

	"tomekeeper/backend/internal/extract"
	"tomekeeper/backend/internal/text"
	"tomekeeper/backend/internal/video"
)

// Chunk is one candidate unit of retrievable text. Index reflects
// emission order and is zero based.
type Chunk struct {
	Index    int
	Content  string
	Metadata map[string]interface{}
}

// Processor produces chunk candidates from a stored file.
type Processor interface {
	Process(ctx context.Context, path string) ([]Chunk, error)
}

// TextProcessor reads the whole file with a family reader and splits it
// into bounded chunks. A reader failure aborts the file, no partial
// chunks are emitted.
type TextProcessor struct {
	family   extract.Family
	maxChars int
}

func NewTextProcessor(family extract.Family, maxChars int) *TextProcessor {
	if maxChars <= 0 {
		maxChars = text.DefaultMaxChars
	}
	return &TextProcessor{family: family, maxChars: maxChars}
}

func (p *TextProcessor) Process(_ context.Context, path string) ([]Chunk, error) {
	content, err := extract.Read(p.family, path)
	if err != nil {
		return nil, err
	}

	spans := text.Split(content, p.maxChars)
	chunks := make([]Chunk, 0, len(spans))
	for i, span := range spans {
		chunks = append(chunks, Chunk{
			Index:   i,
			Content: span,
			Metadata: map[string]interface{}{
				"file_name": filepath.Base(path),
				"file_path": path,
			},
		})
	}
	return chunks, nil
}

// VideoProcessor runs the video ingestion pipeline and emits one chunk
// per summarized section.
type VideoProcessor struct {
	pipeline *video.Pipeline
}

func NewVideoProcessor(pipeline *video.Pipeline) *VideoProcessor {
	return &VideoProcessor{pipeline: pipeline}
}

func (p *VideoProcessor) Process(ctx context.Context, path string) ([]Chunk, error) {
	docs, err := p.pipeline.Process(ctx, path)
	if err != nil {
		return nil, err
	}

	chunks := make([]Chunk, 0, len(docs))
	for i, doc := range docs {
		metadata := make(map[string]interface{}, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		metadata["file_name"] = filepath.Base(path)
		chunks = append(chunks, Chunk{
			Index:    i,
			Content:  doc.Text,
			Metadata: metadata,
		})
	}
	return chunks, nil
}
