package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/markdave123-py/askdoc/internal/api/views"
	"github.com/markdave123-py/askdoc/internal/models"
)

// Asker answers one submission. services.AnswerService implements it.
type Asker interface {
	Ask(ctx context.Context, sub models.Submission) ([]models.AnswerCandidate, error)
}

type AskHandler struct {
	asker     Asker
	maxUpload int64
}

func NewAskHandler(asker Asker, maxUpload int64) *AskHandler {
	return &AskHandler{asker: asker, maxUpload: maxUpload}
}

// Index renders the empty form.
func (h *AskHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, views.NewPage("", "", nil))
}

// Ask handles the form post and renders the answers on the same page.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	sub, err := h.parseSubmission(w, r)
	if err != nil {
		zap.L().Warn("invalid form submission", zap.Error(err))
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	answers, err := h.asker.Ask(r.Context(), sub)
	if err != nil {
		zap.L().Error("answering failed", zap.String("submission_id", sub.ID), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.render(w, views.NewPage(sub.Question, sub.TextInput, answers))
}

type askResponse struct {
	Answers []models.AnswerCandidate `json:"answers"`
}

// AskJSON accepts the same multipart form and replies with JSON.
func (h *AskHandler) AskJSON(w http.ResponseWriter, r *http.Request) {
	sub, err := h.parseSubmission(w, r)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid form submission")
		return
	}

	answers, err := h.asker.Ask(r.Context(), sub)
	if err != nil {
		zap.L().Error("answering failed", zap.String("submission_id", sub.ID), zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	for i := range answers {
		answers[i].Text = views.SanitizeAnswerHTML(answers[i].Text)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(askResponse{Answers: answers})
}

// Health reports liveness.
func (h *AskHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *AskHandler) render(w http.ResponseWriter, page views.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.RenderIndex(w, page); err != nil {
		zap.L().Error("render failed", zap.Error(err))
	}
}

// parseSubmission reads question, text_input and every "files" part.
// Plain url-encoded posts are accepted too and simply carry no files.
func (h *AskHandler) parseSubmission(w http.ResponseWriter, r *http.Request) (models.Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return models.Submission{}, eris.Wrap(err, "handlers: parse multipart form")
		}
		if err := r.ParseForm(); err != nil {
			return models.Submission{}, eris.Wrap(err, "handlers: parse form")
		}
	}

	sub := models.Submission{
		ID:        middleware.GetReqID(r.Context()),
		Question:  r.FormValue("question"),
		TextInput: r.FormValue("text_input"),
	}

	if r.MultipartForm == nil {
		return sub, nil
	}
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return models.Submission{}, eris.Wrapf(err, "handlers: open upload %s", fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return models.Submission{}, eris.Wrapf(err, "handlers: read upload %s", fh.Filename)
		}
		sub.Files = append(sub.Files, models.UploadedFile{Filename: fh.Filename, Data: data})
	}
	return sub, nil
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
