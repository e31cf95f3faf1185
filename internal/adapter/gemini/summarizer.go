package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"tomekeeper/backend/internal/video"
)

const summaryPrompt = `You are an AI designed to analyze and summarize recorded content. Your tasks:

1. Generate a brief overall summary of the recording (5-10 sentences).
2. Identify key sections, create timestamps, and provide detailed summaries.

## Output Format:
The output must be JSON:

{
    "summary": "summary of the recording in 5-10 sentences",
    "sections": [
        {
            "start_time": "timestamp in HH:MM:SS format",
            "end_time": "timestamp in HH:MM:SS format",
            "summary": "detailed summary of the section"
        }
    ]
}

## Guidelines:

- Be objective and clear.
- Explain technical terms if necessary.
- Sections must be ordered and non-overlapping.`

// jsonFence extracts a fenced json block from the model response.
var jsonFence = regexp.MustCompile("(?s)```json\\s*\n(.*?)```")

// Summarizer sends a full audio track to a Gemini multimodal model and
// parses the structured summary out of its response.
type Summarizer struct {
	client *genai.Client
	model  string
}

func NewSummarizer(ctx context.Context, apiKey string) (*Summarizer, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Summarizer{client: client, model: "gemini-1.5-flash"}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, audioPath string) (*video.Summary, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	uploaded, err := s.client.UploadFile(ctx, "", f, &genai.UploadFileOptions{MIMEType: "audio/wav"})
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}
	slog.InfoContext(ctx, "audio uploaded for summarization", "uri", uploaded.URI)

	// Wait for the file API to finish ingesting the upload.
	for uploaded.State == genai.FileStateProcessing {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(2 * time.Second):
		}
		uploaded, err = s.client.GetFile(ctx, uploaded.Name)
		if err != nil {
			return nil, fmt.Errorf("poll uploaded audio: %w", err)
		}
	}
	if uploaded.State != genai.FileStateActive {
		return nil, fmt.Errorf("uploaded audio in state %v", uploaded.State)
	}

	model := s.client.GenerativeModel(s.model)
	resp, err := model.GenerateContent(ctx,
		genai.Text(summaryPrompt),
		genai.FileData{URI: uploaded.URI, MIMEType: uploaded.MIMEType},
	)
	if err != nil {
		return nil, fmt.Errorf("generate summary: %w", err)
	}

	return ParseSummaryResponse(collectText(resp))
}

// ParseSummaryResponse pulls the fenced JSON payload out of the model
// text and decodes it. The model is instructed to fence its output;
// bare JSON is accepted as a fallback.
func ParseSummaryResponse(text string) (*video.Summary, error) {
	payload := text
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		payload = m[1]
	}

	var summary video.Summary
	if err := json.Unmarshal([]byte(payload), &summary); err != nil {
		return nil, fmt.Errorf("decode summary response: %w", err)
	}
	if len(summary.Sections) == 0 {
		return nil, fmt.Errorf("summary response has no sections")
	}
	return &summary, nil
}

func collectText(resp *genai.GenerateContentResponse) string {
	var out string
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				out += string(t)
			}
		}
	}
	return out
}
