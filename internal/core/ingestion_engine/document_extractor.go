package ingestion_engine

import (
	"context"
	"os"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/markdave123-py/askdoc/internal/core"
)

var _ core.DocumentExtractor = (*FileExtractor)(nil)

// ErrUnsupportedFormat is returned for extensions with no parser.
var ErrUnsupportedFormat = eris.New("extract: unsupported format")

// FileExtractor dispatches on the declared file extension.
type FileExtractor struct{}

func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// ExtractText implements core.DocumentExtractor.
func (e *FileExtractor) ExtractText(ctx context.Context, path, ext string) (string, error) {
	zap.L().Debug("extracting document", zap.String("path", path), zap.String("ext", ext))

	switch strings.ToLower(ext) {
	case "pdf":
		return extractPDF(ctx, path)
	case "docx":
		return extractDocx(path)
	case "txt":
		return extractTxt(path)
	default:
		return "", eris.Wrapf(ErrUnsupportedFormat, "extension %q", ext)
	}
}

// extractPDF concatenates the plain text of every page. A page that cannot be
// decoded contributes nothing.
func extractPDF(ctx context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "extract: open pdf %s", path)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "extract: pdf cancelled")
		}

		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			zap.L().Debug("pdf page unreadable", zap.String("path", path), zap.Int("page", i), zap.Error(err))
			continue
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// extractDocx returns the document paragraphs joined by newlines.
func extractDocx(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "extract: open docx %s", path)
	}
	defer f.Close()

	body, _, err := docconv.ConvertDocx(f)
	if err != nil {
		return "", eris.Wrapf(err, "extract: convert docx %s", path)
	}

	var paras []string
	for _, line := range strings.Split(body, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paras = append(paras, line)
		}
	}
	return strings.Join(paras, "\n"), nil
}

func extractTxt(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "extract: read txt %s", path)
	}
	if !utf8.Valid(data) {
		return "", eris.Errorf("extract: %s is not valid UTF-8", path)
	}
	return string(data), nil
}
