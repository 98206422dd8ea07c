package qa_engine

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/askdoc/internal/core"
	"github.com/markdave123-py/askdoc/internal/models"
)

// Engine runs segmentation, per-sentence scoring and ranking over cleaned text.
// It holds the shared model handle and no per-request state.
type Engine struct {
	model core.QAModel
	cfg   EngineConfig
}

// NewEngine wires a QA model into the answering pipeline.
func NewEngine(model core.QAModel, cfg EngineConfig) *Engine {
	cfg.defaults()
	return &Engine{model: model, cfg: cfg}
}

// Config returns the effective pipeline settings.
func (e *Engine) Config() EngineConfig {
	return e.cfg
}

// Answer scores the leading candidate sentences of text against question and
// returns between 1 and TopN ranked candidates tagged with source.
func (e *Engine) Answer(ctx context.Context, question, text, source string) ([]models.AnswerCandidate, error) {
	sentences := SplitSentences(text, e.cfg.MinSentenceLen)
	if len(sentences) > e.cfg.MaxSentences {
		sentences = sentences[:e.cfg.MaxSentences]
	}

	results, err := e.score(ctx, question, sentences)
	if err != nil {
		return nil, err
	}

	var accepted []models.AnswerCandidate
	for i, res := range results {
		if res.Score <= e.cfg.ConfidenceThreshold {
			continue
		}
		accepted = append(accepted, models.AnswerCandidate{
			Text:       Highlight(sentences[i], res),
			Confidence: roundConfidence(res.Score),
			Source:     source,
		})
	}

	zap.L().Debug("qa scoring done",
		zap.Int("sentences", len(sentences)),
		zap.Int("accepted", len(accepted)))

	return Rank(accepted, e.cfg.TopN), nil
}

// score calls the model once per sentence. Results are stored by sentence
// index so ranking ties resolve in document order whatever the concurrency.
func (e *Engine) score(ctx context.Context, question string, sentences []string) ([]models.QAResult, error) {
	results := make([]models.QAResult, len(sentences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)

	for i, sent := range sentences {
		g.Go(func() error {
			res, err := e.model.Answer(gctx, question, sent)
			if err != nil {
				return eris.Wrapf(err, "qa: score sentence %d", i)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
