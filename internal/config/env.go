package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Supported QA providers.
const (
	ProviderHuggingFace = "huggingface"
	ProviderGemini      = "gemini"
)

type Config struct {
	Port               string
	UploadFolder       string
	MaxUploadMB        int
	RequestTimeoutSecs int
	CORSOrigins        []string

	QAProvider    string
	QAModel       string
	HFAPIURL      string
	HFAPIToken    string
	AIAPIKey      string
	GenModel      string
	QATimeoutSecs int
	QAConcurrency int

	MinSentenceLen      int
	MaxSentences        int
	ConfidenceThreshold float64
	TopN                int

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	LogLevel  string
	LogFormat string
}

// LoadConfig loads the environment variables and returns the config.
func LoadConfig() (*Config, error) {

	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		UploadFolder:       getEnv("UPLOAD_FOLDER", "uploads"),
		MaxUploadMB:        getEnvInt("MAX_UPLOAD_MB", 32),
		RequestTimeoutSecs: getEnvInt("REQUEST_TIMEOUT_SECONDS", 120),
		CORSOrigins:        splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),

		QAProvider:    strings.ToLower(getEnv("QA_PROVIDER", ProviderHuggingFace)),
		QAModel:       getEnv("QA_MODEL", "distilbert-base-cased-distilled-squad"),
		HFAPIURL:      getEnv("HF_API_URL", "https://api-inference.huggingface.co/models"),
		HFAPIToken:    getEnv("HF_API_TOKEN", ""),
		AIAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GenModel:      getEnv("GEN_MODEL", "gemini-1.5-flash"),
		QATimeoutSecs: getEnvInt("QA_TIMEOUT_SECONDS", 30),
		QAConcurrency: getEnvInt("QA_CONCURRENCY", 1),

		MinSentenceLen:      getEnvInt("MIN_SENTENCE_LEN", 30),
		MaxSentences:        getEnvInt("MAX_SENTENCES", 15),
		ConfidenceThreshold: getEnvFloat("CONFIDENCE_THRESHOLD", 0.2),
		TopN:                getEnvInt("TOP_N", 3),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks provider selection and the pipeline knobs.
func (c *Config) Validate() error {
	switch c.QAProvider {
	case ProviderHuggingFace:
		if c.HFAPIURL == "" {
			return eris.New("config: HF_API_URL is empty")
		}
	case ProviderGemini:
		if c.AIAPIKey == "" {
			return eris.New("config: GEMINI_API_KEY not set")
		}
	default:
		return eris.Errorf("config: unknown QA_PROVIDER %q", c.QAProvider)
	}
	if c.QAModel == "" {
		return eris.New("config: QA_MODEL is empty")
	}
	if c.UploadFolder == "" {
		return eris.New("config: UPLOAD_FOLDER is empty")
	}
	if c.MaxUploadMB < 1 {
		return eris.Errorf("config: MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.RequestTimeoutSecs < 1 {
		return eris.Errorf("config: REQUEST_TIMEOUT_SECONDS must be positive, got %d", c.RequestTimeoutSecs)
	}
	if c.QATimeoutSecs < 1 {
		return eris.Errorf("config: QA_TIMEOUT_SECONDS must be positive, got %d", c.QATimeoutSecs)
	}
	if c.TopN < 1 {
		return eris.Errorf("config: TOP_N must be positive, got %d", c.TopN)
	}
	if c.MaxSentences < 1 {
		return eris.Errorf("config: MAX_SENTENCES must be positive, got %d", c.MaxSentences)
	}
	if c.QAConcurrency < 1 {
		c.QAConcurrency = 1
	}
	if c.BucketName != "" && (c.AwsAccessKey == "" || c.AwsSecretKey == "") {
		return eris.New("config: BUCKET_NAME set but AWS credentials missing")
	}
	return nil
}

// MaxUploadBytes is the multipart body limit.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		zap.L().Warn("env value not an int, using default",
			zap.String("key", key), zap.String("value", v), zap.Int("default", def))
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		zap.L().Warn("env value not a float, using default",
			zap.String("key", key), zap.String("value", v), zap.Float64("default", def))
		return def
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
