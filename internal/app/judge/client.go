// Package judge is the client for the external sandboxed execution service
// (Judge0 API). The sandbox is the only place untrusted code ever runs;
// this process never executes participant programs itself.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"codeclash/internal/common"
	"codeclash/internal/domain/model"
)

type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient builds a blocking execution client. The timeout must be
// strictly larger than the sandbox's own compile+run limit so that
// time-limit verdicts come from the sandbox, not from us.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Wire types follow the execution service's contract; field names are
// preserved as-is.
type submissionRequest struct {
	SourceCode string `json:"source_code"`
	LanguageID int    `json:"language_id"`
	Stdin      string `json:"stdin"`
}

type submissionResponse struct {
	Stdout        *string               `json:"stdout"`
	Stderr        *string               `json:"stderr"`
	CompileOutput *string               `json:"compile_output"`
	Message       *string               `json:"message"`
	Status        model.ExecutionStatus `json:"status"`
	Time          *string               `json:"time"`
	Memory        *int                  `json:"memory"`
}

// Execute submits one (program, stdin) pair and waits for the verdict. It
// returns an error only when the service itself is unreachable or the call
// exceeds its budget; everything that happened inside the sandbox, and even
// an unreadable response body, comes back as a well-formed ExecutionResult
// so the caller always has a diagnostic to show. No automatic retries: a
// contest is time-boxed, so a transient outage must surface immediately.
func (c *Client) Execute(ctx context.Context, source, language, stdin string) (model.ExecutionResult, error) {
	langID, err := LanguageID(language)
	if err != nil {
		return model.ExecutionResult{}, err
	}

	payload, err := json.Marshal(submissionRequest{SourceCode: source, LanguageID: langID, Stdin: stdin})
	if err != nil {
		return model.ExecutionResult{}, fmt.Errorf("marshal execution request: %w", err)
	}

	url := c.baseURL + "/submissions?base64_encoded=false&wait=true"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return model.ExecutionResult{}, fmt.Errorf("build execution request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return model.ExecutionResult{}, fmt.Errorf("execution service: %v: %w", err, common.ErrExecUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return model.ExecutionResult{}, fmt.Errorf("execution service returned %d: %w", resp.StatusCode, common.ErrExecUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.ExecutionResult{}, fmt.Errorf("execution service: read body: %v: %w", err, common.ErrExecUnavailable)
	}

	if resp.StatusCode >= 300 {
		// The service answered but refused the request (e.g. a 422 body of
		// {"error": ...}). Attribute the failure instead of letting an empty
		// result read as a wrong answer.
		msg := fmt.Sprintf("execution service rejected the request (status %d)", resp.StatusCode)
		var wireErr struct {
			Error any `json:"error"`
		}
		if json.Unmarshal(body, &wireErr) == nil && wireErr.Error != nil {
			msg = fmt.Sprintf("%s: %v", msg, wireErr.Error)
		}
		return model.ExecutionResult{Message: msg}, nil
	}

	var wire submissionResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		// Malformed or partial response: surface as a diagnostic on a
		// well-formed result instead of failing the whole submission.
		return model.ExecutionResult{
			Message: "invalid response from execution service",
		}, nil
	}

	res := model.ExecutionResult{Status: wire.Status}
	if wire.Stdout != nil {
		res.Stdout = *wire.Stdout
	}
	if wire.Stderr != nil {
		res.Stderr = *wire.Stderr
	}
	if wire.CompileOutput != nil {
		res.CompileOutput = *wire.CompileOutput
	}
	if wire.Message != nil {
		res.Message = *wire.Message
	}
	if wire.Time != nil {
		res.Time = *wire.Time
	}
	if wire.Memory != nil {
		res.Memory = *wire.Memory
	}
	return res, nil
}
