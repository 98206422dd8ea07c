package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/markdave123-py/askdoc/internal/core"
	ingest "github.com/markdave123-py/askdoc/internal/core/ingestion_engine"
	"github.com/markdave123-py/askdoc/internal/core/qa_engine"
	"github.com/markdave123-py/askdoc/internal/models"
)

// AnswerService turns one form submission into a ranked list of answers.
type AnswerService struct {
	store     core.UploadStore
	extractor core.DocumentExtractor
	engine    *qa_engine.Engine
}

func NewAnswerService(store core.UploadStore, extractor core.DocumentExtractor, engine *qa_engine.Engine) *AnswerService {
	return &AnswerService{store: store, extractor: extractor, engine: engine}
}

// Ask validates the submission, extracts and cleans every accepted input, and
// runs the QA pipeline. User-input problems come back as a single fallback
// answer; extraction and model failures are returned as errors.
func (s *AnswerService) Ask(ctx context.Context, sub models.Submission) ([]models.AnswerCandidate, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	log := zap.L().With(zap.String("submission_id", sub.ID))

	question := strings.TrimSpace(sub.Question)
	textInput := strings.TrimSpace(sub.TextInput)
	source := DetermineSource(sub)

	var parts []string
	for _, f := range sub.Files {
		text, ok, err := s.ingestFile(ctx, f)
		if err != nil {
			return nil, err
		}
		if ok && text != "" {
			parts = append(parts, text)
		}
	}
	if textInput != "" {
		parts = append(parts, ingest.CleanText(textInput))
	}
	combined := strings.Join(parts, " ")

	var answers []models.AnswerCandidate
	switch {
	case strings.TrimSpace(combined) == "":
		answers = models.Fallback(models.MsgNoInput)
	case question == "":
		answers = models.Fallback(models.MsgNoQuestion)
	default:
		var err error
		answers, err = s.engine.Answer(ctx, question, combined, source)
		if err != nil {
			return nil, eris.Wrap(err, "answer: run qa pipeline")
		}
	}

	log.Info("answers sent to ui",
		zap.String("source", source),
		zap.Int("files", len(sub.Files)),
		zap.Int("text_len", len(combined)),
		zap.Any("answers", answers))
	return answers, nil
}

// ingestFile saves, extracts and cleans one upload. ok is false when the file
// is skipped because of its name.
func (s *AnswerService) ingestFile(ctx context.Context, f models.UploadedFile) (string, bool, error) {
	if !AllowedFile(f.Filename) {
		return "", false, nil
	}
	name := SecureFilename(f.Filename)
	ext, hasExt := FileExt(name)
	if name == "" || !hasExt || !AllowedExtensions[ext] {
		zap.L().Debug("skipping upload with unusable name", zap.String("filename", f.Filename))
		return "", false, nil
	}

	path, err := s.store.Save(ctx, name, f.Data)
	if err != nil {
		return "", false, eris.Wrapf(err, "answer: store %s", name)
	}

	raw, err := s.extractor.ExtractText(ctx, path, ext)
	if err != nil {
		return "", false, eris.Wrapf(err, "answer: extract %s", name)
	}
	return ingest.CleanText(raw), true, nil
}

// DetermineSource labels where the answers came from. Uploads win over pasted text.
func DetermineSource(sub models.Submission) string {
	for _, f := range sub.Files {
		if f.Filename != "" {
			return models.SourceUploadedDocument
		}
	}
	if strings.TrimSpace(sub.TextInput) != "" {
		return models.SourceDirectText
	}
	return models.SourceUnknown
}
