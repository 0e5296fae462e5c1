package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeServer serves a single known experiment.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	notFound := func(w http.ResponseWriter) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error_code": "RESOURCE_DOES_NOT_EXIST",
			"message":    "Could not find experiment",
		})
	}
	experiment := map[string]any{"experiment": map[string]string{
		"experiment_id":   "123",
		"name":            "my-training-run",
		"lifecycle_stage": "active",
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/2.0/mlflow/experiments/get-by-name", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("experiment_name") != "my-training-run" {
			notFound(w)
			return
		}
		_ = json.NewEncoder(w).Encode(experiment)
	})
	mux.HandleFunc("/api/2.0/mlflow/experiments/get", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("experiment_id") {
		case "123":
			_ = json.NewEncoder(w).Encode(experiment)
		case "forbidden":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error_code":"PERMISSION_DENIED","message":"no access"}`))
		default:
			notFound(w)
		}
	})
	mux.HandleFunc("/api/2.0/mlflow/experiments/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("unauthorized"))
			return
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || r.Method != http.MethodPost {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, float64(1), body["max_results"])
		_, _ = w.Write([]byte(`{"experiments":[]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestNewClient(t *testing.T) {
	t.Run("explicit uri", func(t *testing.T) {
		clearEnv(t)
		client, err := NewClient("http://localhost:5000/")
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:5000", client.BaseURL())
	})

	t.Run("uri from environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvTrackingURI, "https://mlflow.example.com")
		client, err := NewClient("")
		require.NoError(t, err)
		assert.Equal(t, "https://mlflow.example.com", client.BaseURL())
	})

	t.Run("databricks", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvTrackingURI, "databricks")
		t.Setenv(EnvDatabricksHost, "myworkspace.azuredatabricks.net")
		client, err := NewClient("")
		require.NoError(t, err)
		assert.Equal(t, "https://myworkspace.azuredatabricks.net", client.BaseURL())
	})

	t.Run("databricks without host", func(t *testing.T) {
		clearEnv(t)
		_, err := NewClient("databricks")
		assert.ErrorIs(t, err, ErrNoTrackingURI)
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearEnv(t)
		_, err := NewClient("")
		assert.ErrorIs(t, err, ErrNoTrackingURI)
	})

	t.Run("file store", func(t *testing.T) {
		clearEnv(t)
		_, err := NewClient("file:///tmp/mlruns")
		assert.ErrorIs(t, err, ErrUnsupportedURI)
	})
}

func TestExperimentExists(t *testing.T) {
	clearEnv(t)
	server := fakeServer(t)
	client, err := NewClient(server.URL, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	ctx := context.Background()

	testCases := []struct {
		name     string
		lookup   Lookup
		expected bool
	}{
		{name: "existing name", lookup: Lookup{Name: "my-training-run"}, expected: true},
		{name: "missing name", lookup: Lookup{Name: "nope"}, expected: false},
		{name: "existing id", lookup: Lookup{ID: "123"}, expected: true},
		{name: "missing id", lookup: Lookup{ID: "999"}, expected: false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			exists, err := client.ExperimentExists(ctx, tc.lookup)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, exists)
		})
	}

	t.Run("other errors propagate", func(t *testing.T) {
		_, err := client.ExperimentExists(ctx, Lookup{ID: "forbidden"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		assert.Equal(t, "PERMISSION_DENIED", apiErr.ErrorCode)
	})

	t.Run("not a tracking server", func(t *testing.T) {
		other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error_code":"ENDPOINT_NOT_FOUND","message":"No API found"}`))
		}))
		defer other.Close()
		otherClient, err := NewClient(other.URL)
		require.NoError(t, err)

		for _, lookup := range []Lookup{{ID: "123"}, {Name: "my-training-run"}} {
			exists, err := otherClient.ExperimentExists(ctx, lookup)
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, "ENDPOINT_NOT_FOUND", apiErr.ErrorCode)
			assert.False(t, apiErr.NotFound())
			assert.False(t, exists)
		}

		plain := httptest.NewServer(http.NotFoundHandler())
		defer plain.Close()
		plainClient, err := NewClient(plain.URL)
		require.NoError(t, err)
		_, err = plainClient.ExperimentExists(ctx, Lookup{Name: "my-training-run"})
		assert.Error(t, err)
	})

	t.Run("needs exactly one of name or id", func(t *testing.T) {
		_, err := client.ExperimentExists(ctx, Lookup{})
		assert.ErrorIs(t, err, ErrBadLookup)
		_, err = client.ExperimentExists(ctx, Lookup{Name: "a", ID: "1"})
		assert.ErrorIs(t, err, ErrBadLookup)
	})
}

func TestGetExperiment(t *testing.T) {
	clearEnv(t)
	server := fakeServer(t)
	client, err := NewClient(server.URL, WithHTTPClient(server.Client()))
	require.NoError(t, err)

	experiment, err := client.GetExperiment(context.Background(), Lookup{Name: "my-training-run"})
	require.NoError(t, err)
	assert.Equal(t, "123", experiment.ID)
	assert.Equal(t, "active", experiment.LifecycleStage)
}

func TestPing(t *testing.T) {
	clearEnv(t)
	server := fakeServer(t)

	t.Run("success", func(t *testing.T) {
		client, err := NewClient(server.URL, WithToken("good-token"))
		require.NoError(t, err)
		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("token from environment", func(t *testing.T) {
		t.Setenv(EnvDatabricksToken, "good-token")
		client, err := NewClient(server.URL)
		require.NoError(t, err)
		assert.NoError(t, client.Ping(context.Background()))
	})

	t.Run("unauthorized", func(t *testing.T) {
		client, err := NewClient(server.URL, WithToken("bad-token"))
		require.NoError(t, err)
		err = client.Ping(context.Background())
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "unauthorized", apiErr.Message)
	})

	t.Run("unreachable", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		closed.Close()
		client, err := NewClient(closed.URL)
		require.NoError(t, err)
		assert.Error(t, client.Ping(context.Background()))
	})
}
