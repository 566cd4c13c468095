package judge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeclash/internal/app/judge"
	"codeclash/internal/common"
)

func TestExecuteSendsWireContract(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/submissions", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("base64_encoded"))
		assert.Equal(t, "true", r.URL.Query().Get("wait"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"stdout":"7\n","status":{"id":3,"description":"Accepted"},"time":"0.012","memory":3244}`))
	}))
	defer srv.Close()

	client := judge.NewClient(srv.URL, 5*time.Second)
	res, err := client.Execute(context.Background(), "print(7)", "python", "3 4")
	require.NoError(t, err)

	assert.Equal(t, "print(7)", got["source_code"])
	assert.Equal(t, float64(71), got["language_id"])
	assert.Equal(t, "3 4", got["stdin"])

	assert.Equal(t, "7\n", res.Stdout)
	assert.Equal(t, 3, res.Status.ID)
	assert.Equal(t, "Accepted", res.Status.Description)
	assert.Equal(t, "0.012", res.Time)
	assert.Equal(t, 3244, res.Memory)
}

func TestExecuteCompileOutputPassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stdout":null,"compile_output":"error: expected ';'","status":{"id":6,"description":"Compilation Error"}}`))
	}))
	defer srv.Close()

	client := judge.NewClient(srv.URL, 5*time.Second)
	res, err := client.Execute(context.Background(), "int main(", "cpp", "")
	require.NoError(t, err)
	assert.Empty(t, res.Stdout)
	assert.Equal(t, "error: expected ';'", res.CompileOutput)
	assert.Equal(t, 6, res.Status.ID)
}

func TestExecuteMalformedResponseStaysWellFormed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := judge.NewClient(srv.URL, 5*time.Second)
	res, err := client.Execute(context.Background(), "print(7)", "python", "")
	require.NoError(t, err, "a garbled body is a diagnostic, not a failure")
	assert.Equal(t, "invalid response from execution service", res.Message)
}

func TestExecuteRequestRejectionIsAttributed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"source_code can't be blank"}`))
	}))
	defer srv.Close()

	client := judge.NewClient(srv.URL, 5*time.Second)
	res, err := client.Execute(context.Background(), "print(7)", "python", "")
	require.NoError(t, err, "a refused request is a diagnostic, not an outage")
	assert.Contains(t, res.Message, "422")
	assert.Contains(t, res.Message, "source_code can't be blank")
}

func TestExecuteRejectionWithoutErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`not found`))
	}))
	defer srv.Close()

	client := judge.NewClient(srv.URL, 5*time.Second)
	res, err := client.Execute(context.Background(), "print(7)", "python", "")
	require.NoError(t, err)
	assert.Contains(t, res.Message, "404")
}

func TestExecuteServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := judge.NewClient(srv.URL, 5*time.Second)
	_, err := client.Execute(context.Background(), "print(7)", "python", "")
	assert.ErrorIs(t, err, common.ErrExecUnavailable)
}

func TestExecuteUnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := judge.NewClient(srv.URL, time.Second)
	_, err := client.Execute(context.Background(), "print(7)", "python", "")
	assert.ErrorIs(t, err, common.ErrExecUnavailable)
}

func TestExecuteUnsupportedLanguage(t *testing.T) {
	client := judge.NewClient("http://localhost:0", time.Second)
	_, err := client.Execute(context.Background(), "whatever", "brainfuck", "")
	assert.ErrorIs(t, err, common.ErrUnsupportedLanguage)
}

func TestLanguageIDs(t *testing.T) {
	for lang, want := range map[string]int{"python": 71, "cpp": 54, "c": 50, "java": 62} {
		id, err := judge.LanguageID(lang)
		require.NoError(t, err)
		assert.Equal(t, want, id)
		assert.True(t, judge.Supported(lang))
	}
	assert.False(t, judge.Supported("rust"))
}
