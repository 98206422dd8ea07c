package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/markdave123-py/askdoc/internal/core"
	"github.com/markdave123-py/askdoc/internal/models"
)

// maxResponseBody caps how much of an inference response is read.
const maxResponseBody int64 = 1 << 20

// HuggingFaceQA calls a hosted question-answering pipeline
// (e.g. distilbert-base-cased-distilled-squad) over the Inference API.
type HuggingFaceQA struct {
	httpClient *http.Client
	baseURL    string
	modelName  string
	token      string
}

func NewHuggingFaceQA(baseURL, modelName, token string, timeout time.Duration) *HuggingFaceQA {
	if modelName == "" {
		modelName = "distilbert-base-cased-distilled-squad"
	}
	return &HuggingFaceQA{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		modelName:  modelName,
		token:      token,
	}
}

type hfRequest struct {
	Inputs  hfInputs  `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfAnswer struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

type hfError struct {
	Error string `json:"error"`
}

// Answer implements core.QAModel.
func (h *HuggingFaceQA) Answer(ctx context.Context, question, passage string) (models.QAResult, error) {
	payload, err := json.Marshal(hfRequest{
		Inputs:  hfInputs{Question: question, Context: passage},
		Options: hfOptions{WaitForModel: true},
	})
	if err != nil {
		return models.QAResult{}, eris.Wrap(err, "huggingface: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/"+h.modelName, bytes.NewReader(payload))
	if err != nil {
		return models.QAResult{}, eris.Wrap(err, "huggingface: build request")
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return models.QAResult{}, eris.Wrap(err, "huggingface: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return models.QAResult{}, eris.Wrap(err, "huggingface: read body")
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr hfError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return models.QAResult{}, eris.Errorf("huggingface: %s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return models.QAResult{}, eris.Errorf("huggingface: unexpected status %d", resp.StatusCode)
	}

	ans, err := decodeHFAnswer(body)
	if err != nil {
		return models.QAResult{}, err
	}

	return models.QAResult{
		Answer: ans.Answer,
		Score:  ans.Score,
		Start:  runeToByteOffset(passage, ans.Start),
		End:    runeToByteOffset(passage, ans.End),
	}, nil
}

// decodeHFAnswer accepts either a single answer object or a list of answers,
// in which case the first (best) one is used.
func decodeHFAnswer(body []byte) (hfAnswer, error) {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var list []hfAnswer
		if err := json.Unmarshal(body, &list); err != nil {
			return hfAnswer{}, eris.Wrap(err, "huggingface: decode answer list")
		}
		if len(list) == 0 {
			return hfAnswer{Start: -1, End: -1}, nil
		}
		return list[0], nil
	}

	var ans hfAnswer
	if err := json.Unmarshal(body, &ans); err != nil {
		return hfAnswer{}, eris.Wrap(err, "huggingface: decode answer")
	}
	return ans, nil
}

// runeToByteOffset converts a character offset reported by the model into a
// byte offset into s, or -1 when it is out of range.
func runeToByteOffset(s string, n int) int {
	if n < 0 || n > utf8.RuneCountInString(s) {
		return -1
	}
	i := 0
	for pos := range s {
		if i == n {
			return pos
		}
		i++
	}
	return len(s)
}

var _ core.QAModel = (*HuggingFaceQA)(nil)
