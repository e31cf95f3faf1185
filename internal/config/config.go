package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	DBHost string `envconfig:"DB_HOST" default:"postgres"`
	DBPort int    `envconfig:"DB_PORT" default:"5432"`
	DBUser string `envconfig:"DB_USER" default:"tomekeeper"`
	DBPass string `envconfig:"DB_PASS" default:"password"`
	DBName string `envconfig:"DB_NAME" default:"tomekeeper"`

	WeaviateHost   string `envconfig:"WEAVIATE_HOST" default:"localhost:8080"`
	WeaviateScheme string `envconfig:"WEAVIATE_SCHEME" default:"http"`

	NSQLookupd string `envconfig:"NSQ_LOOKUPD" default:"nsqlookupd:4161"`
	NSQDHost   string `envconfig:"NSQD_HOST" default:"nsqd:4150"`
	NSQDHTTP   string `envconfig:"NSQD_HTTP" default:"nsqd:4151"`
	// Document runs are long; give nsqd a generous window before it
	// considers a message lost. The runner also touches in-flight
	// messages, so this only bounds a crashed consumer.
	NSQMsgTimeoutSeconds int `envconfig:"NSQ_MSG_TIMEOUT_SECONDS" default:"300"`

	EnableAPI    bool `envconfig:"ENABLE_API" default:"true"`
	EnableRunner bool `envconfig:"ENABLE_RUNNER" default:"true"`

	MigrationPath   string `envconfig:"MIGRATION_PATH" default:"file://migrations"`
	UploadDir       string `envconfig:"UPLOAD_DIR" default:"./uploads"`
	MaxUploadSizeMB int64  `envconfig:"MAX_UPLOAD_SIZE_MB" default:"200"`

	// Embedding
	EmbeddingProvider string `envconfig:"EMBEDDING_PROVIDER" default:"gemini"`
	EmbeddingModel    string `envconfig:"EMBEDDING_MODEL" default:"gemini-embedding-001"`
	GeminiAPIKey      string `envconfig:"GEMINI_API_KEY"`
	OpenAIAPIKey      string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL     string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`

	// Video pipeline
	FFmpegPath            string `envconfig:"FFMPEG_PATH" default:"ffmpeg"`
	AudioSegmentSeconds   int    `envconfig:"AUDIO_SEGMENT_SECONDS" default:"100"`
	TranscribeConcurrency int    `envconfig:"TRANSCRIBE_CONCURRENCY" default:"5"`
	SummaryTimeoutSeconds int    `envconfig:"SUMMARY_TIMEOUT_SECONDS" default:"300"`
	TranscriptionURL      string `envconfig:"TRANSCRIPTION_URL" default:"https://api.openai.com/v1/audio/transcriptions"`

	// Chunking
	ChunkMaxChars int `envconfig:"CHUNK_MAX_CHARS" default:"2048"`

	// Vector store
	VectorDistance string `envconfig:"VECTOR_DISTANCE" default:"cosine"`

	// Server
	ServerPort int `envconfig:"SERVER_PORT" default:"8081"`

	// Resilience
	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Try loading .env from current dir and repo root
	// Ignore errors, as env vars might be set in the shell
	_ = godotenv.Load(".env")

	cwd, _ := os.Getwd()
	rootEnv := filepath.Join(cwd, "../.env")
	_ = godotenv.Load(rootEnv)

	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBHost == "" {
		return fmt.Errorf("%w: DB_HOST", ErrMissingRequired)
	}
	if c.DBUser == "" {
		return fmt.Errorf("%w: DB_USER", ErrMissingRequired)
	}
	if c.DBName == "" {
		return fmt.Errorf("%w: DB_NAME", ErrMissingRequired)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("%w: UPLOAD_DIR", ErrMissingRequired)
	}
	if c.AudioSegmentSeconds <= 0 {
		return fmt.Errorf("%w: AUDIO_SEGMENT_SECONDS must be positive", ErrMissingRequired)
	}
	if c.TranscribeConcurrency <= 0 {
		return fmt.Errorf("%w: TRANSCRIBE_CONCURRENCY must be positive", ErrMissingRequired)
	}
	return nil
}
