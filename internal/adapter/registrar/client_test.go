package registrar

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

func TestClient_SaveReportLink(t *testing.T) {
	var gotMethod, gotPath string
	var got linkBody
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/", time.Second, nil)
	require.NoError(t, c.SaveReportLink(context.Background(), "42", "https://drive.google.com/uc?id=f&export=download"))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/reports/42/link", gotPath)
	assert.Equal(t, "https://drive.google.com/uc?id=f&export=download", got.ReportLink)
}

func TestClient_SaveReportLink_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"student not found"}`))
	}))
	defer ts.Close()

	err := NewClient(ts.URL, time.Second, nil).SaveReportLink(context.Background(), "9", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "student not found")
}

func TestClient_SaveReportLink_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	err := NewClient(url, 500*time.Millisecond, nil).SaveReportLink(context.Background(), "9", "x")
	assert.Error(t, err)
}

func TestClient_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewClient("http://localhost:1", time.Second, nil).SaveReportLink(ctx, "9", "x")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_LinkURL(t *testing.T) {
	c := NewClient("http://backend:4000/", 0, nil)
	assert.Equal(t, "http://backend:4000/api/reports/a%2Fb/link", c.LinkURL("a/b"))
}
