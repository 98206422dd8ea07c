package core

import (
	"context"
)

// DocumentExtractor turns a stored file into raw text.
type DocumentExtractor interface {
	// ExtractText reads the file at path and returns its text. ext is the declared
	// extension ("pdf", "docx", "txt") and decides which parser runs; the file
	// content is never sniffed.
	ExtractText(ctx context.Context, path, ext string) (string, error)
}
