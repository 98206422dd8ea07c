package models

// Source labels attached to answer candidates.
const (
	SourceUploadedDocument = "Uploaded Document"
	SourceDirectText       = "Direct Text Input"
	SourceUnknown          = "Unknown Source"
	SourceNone             = "-"
)

// Fallback messages shown when no real answer can be produced.
const (
	MsgNoInput    = "No document or text input provided."
	MsgNoQuestion = "Please enter a question."
	MsgNoAnswer   = "No relevant answer found."
)

// UploadedFile is one file part of a form submission.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// Submission is a single question request. It lives only for the request.
type Submission struct {
	ID        string
	Question  string
	TextInput string
	Files     []UploadedFile
}

// AnswerCandidate is one ranked answer shown to the user.
type AnswerCandidate struct {
	Text       string  `json:"text"`       // HTML, answer span wrapped in <mark>
	Confidence float64 `json:"confidence"` // rounded to 2 decimals
	Source     string  `json:"source"`
}

// QAResult is what an extractive QA model returns for one context.
//
// Start and End are byte offsets of Answer inside the context, or -1 when the
// model did not report a usable location.
type QAResult struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// Fallback builds the single placeholder candidate used when nothing was answered.
func Fallback(msg string) []AnswerCandidate {
	return []AnswerCandidate{{Text: msg, Confidence: 0.0, Source: SourceNone}}
}
