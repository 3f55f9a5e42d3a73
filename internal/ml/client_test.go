package ml

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/newscheck/config"
)

func TestPredictSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Breaking: stocks rally on news", req.Text)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"prediction":      "real",
			"confidence":      0.82,
			"model_used":      "v1",
			"processing_time": 120,
		})
	}))
	defer srv.Close()

	c := NewClient(config.MLConfig{ServiceURL: srv.URL})
	p, err := c.Predict(context.Background(), "Breaking: stocks rally on news")
	require.NoError(t, err)
	assert.Equal(t, "real", p.Prediction)
	assert.Equal(t, 0.82, p.Confidence)
	assert.Equal(t, "v1", p.ModelUsed)
	assert.Equal(t, float64(120), p.ProcessingTime)
}

func TestPredictNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not loaded"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(config.MLConfig{ServiceURL: srv.URL})
	_, err := c.Predict(context.Background(), "some plausible article text")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPredictConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := NewClient(config.MLConfig{ServiceURL: srv.URL})
	_, err := c.Predict(context.Background(), "some plausible article text")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPredictTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer func() {
		close(block)
		srv.Close()
	}()

	c := NewClient(config.MLConfig{ServiceURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Predict(context.Background(), "some plausible article text")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestPredictMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(config.MLConfig{ServiceURL: srv.URL})
	_, err := c.Predict(context.Background(), "some plausible article text")
	assert.ErrorIs(t, err, ErrUnavailable)
}
