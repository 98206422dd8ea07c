package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceQA_Answer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/distilbert-base-cased-distilled-squad", r.URL.Path)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))

		var req hfRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "What is the capital of France?", req.Inputs.Question)
		assert.Equal(t, "The capital of France is Paris", req.Inputs.Context)
		assert.True(t, req.Options.WaitForModel)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"score":0.9876,"start":25,"end":30,"answer":"Paris"}`))
	}))
	defer srv.Close()

	qa := NewHuggingFaceQA(srv.URL+"/", "", "hf_test", 5*time.Second)
	res, err := qa.Answer(context.Background(), "What is the capital of France?", "The capital of France is Paris")
	require.NoError(t, err)
	assert.Equal(t, "Paris", res.Answer)
	assert.InDelta(t, 0.9876, res.Score, 1e-9)
	assert.Equal(t, 25, res.Start)
	assert.Equal(t, 30, res.End)
}

func TestHuggingFaceQA_ListResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"score":0.5,"start":0,"end":4,"answer":"Café"},{"score":0.1,"start":5,"end":6,"answer":"x"}]`))
	}))
	defer srv.Close()

	qa := NewHuggingFaceQA(srv.URL, "some-model", "", time.Second)
	res, err := qa.Answer(context.Background(), "q?", "Café society thrived")
	require.NoError(t, err)
	assert.Equal(t, "Café", res.Answer)
	assert.Equal(t, 0, res.Start)
	// four characters, five bytes
	assert.Equal(t, 5, res.End)
}

func TestHuggingFaceQA_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"Model is currently loading","estimated_time":20}`))
	}))
	defer srv.Close()

	qa := NewHuggingFaceQA(srv.URL, "m", "", time.Second)
	_, err := qa.Answer(context.Background(), "q?", "ctx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Model is currently loading")
	assert.Contains(t, err.Error(), "503")
}

func TestHuggingFaceQA_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	qa := NewHuggingFaceQA(srv.URL, "m", "", time.Second)
	_, err := qa.Answer(context.Background(), "q?", "ctx")
	assert.Error(t, err)
}

func TestRuneToByteOffset(t *testing.T) {
	s := "naïve café"
	assert.Equal(t, 0, runeToByteOffset(s, 0))
	assert.Equal(t, 4, runeToByteOffset(s, 3))
	assert.Equal(t, len(s), runeToByteOffset(s, 10))
	assert.Equal(t, -1, runeToByteOffset(s, 11))
	assert.Equal(t, -1, runeToByteOffset(s, -1))
}
