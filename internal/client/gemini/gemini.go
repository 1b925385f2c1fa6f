// Package gemini wraps the generative-language API used for code
// evaluation and test case generation. Both calls degrade to local
// fallbacks so an API outage never stalls a match.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// TestCase is one input/expected-output pair for an arena challenge.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	Description    string `json:"description"`
}

// TestResult is the evaluation outcome for one test case.
type TestResult struct {
	Passed   bool   `json:"passed"`
	Output   string `json:"output"`
	Expected string `json:"expected,omitempty"`
}

// Evaluation is the collaborator's verdict on a submission.
type Evaluation struct {
	Results []TestResult `json:"results"`
	Score   int          `json:"score"`
}

// AllPassed reports whether every result in the evaluation passed.
func (e Evaluation) AllPassed() bool {
	if len(e.Results) == 0 {
		return false
	}
	for _, r := range e.Results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// generateContent request/response shapes for the API.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// generate sends one prompt and returns the model's text reply.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generate API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate API returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("generate API returned no candidates")
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// EvaluateCode asks the model whether the submission completes the
// challenge. Without an API key every submission passes; any API failure
// produces a failing evaluation. Neither case returns an error.
func (c *Client) EvaluateCode(ctx context.Context, code string, testCases []TestCase, language, challenge string) Evaluation {
	if c.apiKey == "" {
		return Evaluation{
			Results: []TestResult{{Passed: true, Output: "No API key"}},
			Score:   1,
		}
	}

	prompt := fmt.Sprintf(`Check if this code does what the task asks:

Task: %s
Code: %s

Does the code complete the task correctly? Answer with JSON:
{"passed": true/false, "reason": "explanation"}`, challenge, code)

	reply, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Error("code evaluation failed", "error", err)
		return failedEvaluation()
	}

	match := jsonObjectPattern.FindString(reply)
	if match == "" {
		c.logger.Warn("no JSON object in evaluation reply")
		return failedEvaluation()
	}

	var verdict struct {
		Passed bool   `json:"passed"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(match), &verdict); err != nil {
		c.logger.Warn("failed to parse evaluation verdict", "error", err)
		return failedEvaluation()
	}

	score := 0
	if verdict.Passed {
		score = 1
	}

	return Evaluation{
		Results: []TestResult{{
			Passed:   verdict.Passed,
			Output:   verdict.Reason,
			Expected: "Task completed correctly",
		}},
		Score: score,
	}
}

func failedEvaluation() Evaluation {
	return Evaluation{
		Results: []TestResult{{Passed: false, Output: "Evaluation failed"}},
		Score:   0,
	}
}

// GenerateTestCases asks the model for test cases matching the challenge
// description, falling back to canned mock cases when the API is
// unavailable or replies with something unparseable.
func (c *Client) GenerateTestCases(ctx context.Context, description string) []TestCase {
	if c.apiKey == "" {
		c.logger.Info("Using mock test cases - no API key")
		return mockTestCases(description)
	}

	prompt := fmt.Sprintf(`Generate 3 test cases for: %s

Return only JSON format:
{
  "testCases": [
    {"input": "input_value", "expectedOutput": "expected_result", "description": "test description"}
  ]
}`, description)

	reply, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.Error("test case generation failed", "error", err)
		return mockTestCases(description)
	}

	match := jsonObjectPattern.FindString(reply)
	if match == "" {
		c.logger.Warn("no JSON object in test case reply")
		return mockTestCases(description)
	}

	var parsed struct {
		TestCases []TestCase `json:"testCases"`
	}
	if err := json.Unmarshal([]byte(match), &parsed); err != nil || len(parsed.TestCases) == 0 {
		c.logger.Warn("failed to parse generated test cases", "error", err)
		return mockTestCases(description)
	}

	return parsed.TestCases
}

// mockTestCases returns canned cases for a handful of well-known challenge
// descriptions, with a generic pair as the catch-all.
func mockTestCases(description string) []TestCase {
	desc := strings.ToLower(description)

	switch {
	case strings.Contains(desc, "adds two numbers"):
		return []TestCase{
			{Input: "2, 3", ExpectedOutput: "5", Description: "Basic addition"},
			{Input: "0, 0", ExpectedOutput: "0", Description: "Zero values"},
			{Input: "-1, 1", ExpectedOutput: "0", Description: "Negative and positive"},
		}
	case strings.Contains(desc, "length of a string"):
		return []TestCase{
			{Input: `"hello"`, ExpectedOutput: "5", Description: "Basic string"},
			{Input: `""`, ExpectedOutput: "0", Description: "Empty string"},
			{Input: `"a"`, ExpectedOutput: "1", Description: "Single character"},
		}
	case strings.Contains(desc, "number is even"):
		return []TestCase{
			{Input: "4", ExpectedOutput: "true", Description: "Even number"},
			{Input: "3", ExpectedOutput: "false", Description: "Odd number"},
			{Input: "0", ExpectedOutput: "true", Description: "Zero is even"},
		}
	case strings.Contains(desc, "larger of two numbers"):
		return []TestCase{
			{Input: "5, 3", ExpectedOutput: "5", Description: "First is larger"},
			{Input: "2, 8", ExpectedOutput: "8", Description: "Second is larger"},
			{Input: "4, 4", ExpectedOutput: "4", Description: "Equal numbers"},
		}
	case strings.Contains(desc, "multiplies a number by 2"):
		return []TestCase{
			{Input: "5", ExpectedOutput: "10", Description: "Positive number"},
			{Input: "0", ExpectedOutput: "0", Description: "Zero"},
			{Input: "-3", ExpectedOutput: "-6", Description: "Negative number"},
		}
	}

	return []TestCase{
		{Input: "1", ExpectedOutput: "1", Description: "Basic test"},
		{Input: "2", ExpectedOutput: "2", Description: "Another test"},
	}
}
