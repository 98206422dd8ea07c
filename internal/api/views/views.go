// Package views renders the single-page question form and its answers.
package views

import (
	"embed"
	"html/template"
	"io"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rotisserie/eris"

	"github.com/markdave123-py/askdoc/internal/models"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// answerPolicy strips everything from answer HTML except the highlight marker.
var answerPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("mark")
	return p
}()

// Answer is one rendered answer row.
type Answer struct {
	Text       template.HTML
	Confidence float64
	Source     string
}

// Page is the data behind the index template.
type Page struct {
	Question  string
	TextInput string
	Answers   []Answer
}

// SanitizeAnswerHTML keeps only <mark> elements from answer text.
func SanitizeAnswerHTML(s string) string {
	return answerPolicy.Sanitize(s)
}

// NewPage converts answer candidates into template rows.
func NewPage(question, textInput string, answers []models.AnswerCandidate) Page {
	page := Page{Question: question, TextInput: textInput}
	for _, a := range answers {
		page.Answers = append(page.Answers, Answer{
			Text:       template.HTML(SanitizeAnswerHTML(a.Text)),
			Confidence: a.Confidence,
			Source:     a.Source,
		})
	}
	return page
}

// RenderIndex writes the full page.
func RenderIndex(w io.Writer, page Page) error {
	if err := indexTmpl.Execute(w, page); err != nil {
		return eris.Wrap(err, "views: render index")
	}
	return nil
}
