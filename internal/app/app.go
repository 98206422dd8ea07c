package app

import (
	"context"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/markdave123-py/askdoc/internal/api/handlers"
	"github.com/markdave123-py/askdoc/internal/config"
	"github.com/markdave123-py/askdoc/internal/core"
	"github.com/markdave123-py/askdoc/internal/core/ingestion_engine"
	"github.com/markdave123-py/askdoc/internal/core/llm"
	objectclient "github.com/markdave123-py/askdoc/internal/core/object-client"
	"github.com/markdave123-py/askdoc/internal/core/qa_engine"
	"github.com/markdave123-py/askdoc/internal/services"
)

type App struct {
	Model   core.QAModel
	Service *services.AnswerService
	Server  *Server
	closers []io.Closer
}

// NewApp loads the QA model once and wires it into the request pipeline.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	a := &App{}

	model, err := a.newModel(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	a.Model = model
	zap.L().Info("QA model ready", zap.String("provider", cfg.QAProvider), zap.String("model", modelName(cfg)))

	store, err := newUploadStore(appCtx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	engine := qa_engine.NewEngine(model, qa_engine.EngineConfig{
		MinSentenceLen:      cfg.MinSentenceLen,
		MaxSentences:        cfg.MaxSentences,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		TopN:                cfg.TopN,
		Concurrency:         cfg.QAConcurrency,
	})

	a.Service = services.NewAnswerService(store, ingestion_engine.NewFileExtractor(), engine)
	a.Server = NewServer(cfg, handlers.NewAskHandler(a.Service, cfg.MaxUploadBytes()))
	return a, nil
}

func (a *App) newModel(ctx context.Context, cfg *config.Config) (core.QAModel, error) {
	switch cfg.QAProvider {
	case config.ProviderGemini:
		m, err := llm.NewGeminiQA(ctx, cfg.AIAPIKey, cfg.GenModel)
		if err != nil {
			return nil, eris.Wrap(err, "app: init gemini qa")
		}
		a.closers = append(a.closers, m)
		return m, nil
	case config.ProviderHuggingFace:
		return llm.NewHuggingFaceQA(cfg.HFAPIURL, cfg.QAModel, cfg.HFAPIToken,
			time.Duration(cfg.QATimeoutSecs)*time.Second), nil
	default:
		return nil, eris.Errorf("app: unknown QA provider %q", cfg.QAProvider)
	}
}

// newUploadStore returns the upload directory store, mirrored to S3 when a bucket is configured.
func newUploadStore(ctx context.Context, cfg *config.Config) (core.UploadStore, error) {
	local := objectclient.NewLocalStore(cfg.UploadFolder)
	if cfg.BucketName == "" {
		return local, nil
	}

	s3Client, err := objectclient.NewS3Client(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "app: init s3 archive")
	}
	return objectclient.NewArchivingStore(local, s3Client, s3Client.Bucket(), "uploads"), nil
}

func modelName(cfg *config.Config) string {
	if cfg.QAProvider == config.ProviderGemini {
		return cfg.GenModel
	}
	return cfg.QAModel
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			zap.L().Warn("close failed", zap.Error(err))
		}
	}
}
