package ingestion_engine

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>The Eiffel Tower was completed in 1889 for the World Fair.</w:t></w:r></w:p>
<w:p><w:r><w:t>It is located on the Champ de Mars in Paris.</w:t></w:r></w:p>
</w:body>
</w:document>`

// writeDocx builds a minimal Word document that docconv can read.
func writeDocx(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"word/document.xml":   documentXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestExtractText_Txt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("line one\nline   two\n"), 0o644))

	text, err := NewFileExtractor().ExtractText(context.Background(), path, "TXT")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline   two\n", text)
}

func TestExtractText_TxtInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte{0xff, 0xfe, 0x41}, 0o644))

	_, err := NewFileExtractor().ExtractText(context.Background(), path, "txt")
	assert.Error(t, err)
}

func TestExtractText_Docx(t *testing.T) {
	path := writeDocx(t, t.TempDir(), "tower.docx")

	text, err := NewFileExtractor().ExtractText(context.Background(), path, "docx")
	require.NoError(t, err)
	assert.Contains(t, text, "The Eiffel Tower was completed in 1889 for the World Fair.")
	assert.Contains(t, text, "It is located on the Champ de Mars in Paris.")
	assert.Equal(t,
		"The Eiffel Tower was completed in 1889 for the World Fair. It is located on the Champ de Mars in Paris.",
		CleanText(text))
}

// writePDF builds an uncompressed PDF with one page per entry in pages. An
// empty entry becomes a page without a content stream. declared is written as
// the page tree /Count, so a value above len(pages) leaves trailing page
// numbers that resolve to nothing.
func writePDF(t *testing.T, dir, name string, pages []string, declared int) string {
	t.Helper()

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	var kids []string
	for _, text := range pages {
		page := "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >>"
		if text != "" {
			content := fmt.Sprintf("BT /F1 12 Tf (%s) Tj ET", text)
			objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
			page += fmt.Sprintf(" /Contents %d 0 R", len(objs))
		}
		objs = append(objs, page+" >>")
		kids = append(kids, fmt.Sprintf("%d 0 R", len(objs)))
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), declared)

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objs)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtractText_PDFPagesInOrder(t *testing.T) {
	path := writePDF(t, t.TempDir(), "two.pdf", []string{"Alpha page one.", "Beta page two."}, 2)

	text, err := NewFileExtractor().ExtractText(context.Background(), path, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "Alpha page one.Beta page two.", text)
}

func TestExtractText_PDFSkipsEmptyAndMissingPages(t *testing.T) {
	// page 2 has no content stream, page 4 is declared but absent from the tree
	path := writePDF(t, t.TempDir(), "gaps.pdf", []string{"Alpha page one.", "", "Gamma page three."}, 4)

	text, err := NewFileExtractor().ExtractText(context.Background(), path, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "Alpha page one.Gamma page three.", text)
}

func TestExtractText_PDFCancelled(t *testing.T) {
	path := writePDF(t, t.TempDir(), "one.pdf", []string{"Alpha page one."}, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFileExtractor().ExtractText(ctx, path, "pdf")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractText_DocxIncludesTableCells(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.docx")
	f, err := os.Create(path)
	require.NoError(t, err)

	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"[Content_Types].xml": contentTypesXML,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Body paragraph text</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>TableCell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
</w:body>
</w:document>`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	text, err := NewFileExtractor().ExtractText(context.Background(), path, "docx")
	require.NoError(t, err)
	assert.Contains(t, text, "Body paragraph text")
	assert.Contains(t, text, "TableCell")
}

func TestExtractText_CorruptPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o644))

	_, err := NewFileExtractor().ExtractText(context.Background(), path, "pdf")
	assert.Error(t, err)
}

func TestExtractText_MissingFile(t *testing.T) {
	_, err := NewFileExtractor().ExtractText(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), "txt")
	assert.Error(t, err)
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	_, err := NewFileExtractor().ExtractText(context.Background(), "whatever.odt", "odt")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnsupportedFormat))
}
