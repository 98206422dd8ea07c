package core

import (
	"context"

	"github.com/markdave123-py/askdoc/internal/models"
)

// QAModel is a pretrained extractive question-answering model.
// Implementations are created once at startup and must be safe for concurrent use.
type QAModel interface {
	Answer(ctx context.Context, question, passage string) (models.QAResult, error)
}
