package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newAPIServer returns a fake generateContent endpoint whose single
// candidate replies with the given text.
func newAPIServer(t *testing.T, replyText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.Header.Get("X-goog-api-key"))

		escaped, err := json.Marshal(replyText)
		assert.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"text":%s}]}}]}`, escaped)
	}))
}

func TestEvaluateCode(t *testing.T) {
	ctx := context.Background()
	testCases := []TestCase{{Input: "2, 3", ExpectedOutput: "5"}}

	t.Run("passes everything without an API key", func(t *testing.T) {
		client := NewClient("", testLogger())

		eval := client.EvaluateCode(ctx, "return a + b", testCases, "javascript", "Add two numbers")

		assert.True(t, eval.AllPassed())
		assert.Equal(t, 1, eval.Score)
	})

	t.Run("parses a passing verdict", func(t *testing.T) {
		server := newAPIServer(t, "Here is my verdict:\n"+`{"passed": true, "reason": "Correct solution"}`)
		defer server.Close()

		client := NewClient("test-key", testLogger()).WithBaseURL(server.URL)
		eval := client.EvaluateCode(ctx, "return a + b", testCases, "javascript", "Add two numbers")

		assert.True(t, eval.AllPassed())
		assert.Equal(t, 1, eval.Score)
		assert.Equal(t, "Correct solution", eval.Results[0].Output)
	})

	t.Run("parses a failing verdict", func(t *testing.T) {
		server := newAPIServer(t, `{"passed": false, "reason": "Wrong answer"}`)
		defer server.Close()

		client := NewClient("test-key", testLogger()).WithBaseURL(server.URL)
		eval := client.EvaluateCode(ctx, "return a - b", testCases, "javascript", "Add two numbers")

		assert.False(t, eval.AllPassed())
		assert.Equal(t, 0, eval.Score)
	})

	t.Run("API failure yields a failing evaluation", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewClient("test-key", testLogger()).WithBaseURL(server.URL)
		eval := client.EvaluateCode(ctx, "return a + b", testCases, "javascript", "Add two numbers")

		assert.False(t, eval.AllPassed())
		assert.Equal(t, 0, eval.Score)
	})

	t.Run("unparseable reply yields a failing evaluation", func(t *testing.T) {
		server := newAPIServer(t, "I cannot answer that.")
		defer server.Close()

		client := NewClient("test-key", testLogger()).WithBaseURL(server.URL)
		eval := client.EvaluateCode(ctx, "return a + b", testCases, "javascript", "Add two numbers")

		assert.False(t, eval.AllPassed())
	})
}

func TestAllPassed(t *testing.T) {
	assert.False(t, Evaluation{}.AllPassed(), "empty evaluation never passes")
	assert.False(t, Evaluation{Results: []TestResult{{Passed: true}, {Passed: false}}}.AllPassed())
	assert.True(t, Evaluation{Results: []TestResult{{Passed: true}, {Passed: true}}}.AllPassed())
}

func TestGenerateTestCases(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back to mock cases without an API key", func(t *testing.T) {
		client := NewClient("", testLogger())

		cases := client.GenerateTestCases(ctx, "Write a function that adds two numbers")

		assert.Len(t, cases, 3)
		assert.Equal(t, "2, 3", cases[0].Input)
		assert.Equal(t, "5", cases[0].ExpectedOutput)
	})

	t.Run("parses generated cases", func(t *testing.T) {
		reply := fmt.Sprintf("```json\n%s\n```", `{
  "testCases": [
    {"input": "abc", "expectedOutput": "cba", "description": "Basic reversal"},
    {"input": "", "expectedOutput": "", "description": "Empty string"}
  ]
}`)
		server := newAPIServer(t, reply)
		defer server.Close()

		client := NewClient("test-key", testLogger()).WithBaseURL(server.URL)
		cases := client.GenerateTestCases(ctx, "Write a function that reverses a string")

		assert.Len(t, cases, 2)
		assert.Equal(t, "abc", cases[0].Input)
		assert.Equal(t, "cba", cases[0].ExpectedOutput)
	})

	t.Run("API failure falls back to mock cases", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewClient("test-key", testLogger()).WithBaseURL(server.URL)
		cases := client.GenerateTestCases(ctx, "Write a function that checks if a number is even")

		assert.Len(t, cases, 3)
		assert.Equal(t, "true", cases[0].ExpectedOutput)
	})

	t.Run("unknown description gets generic mock cases", func(t *testing.T) {
		client := NewClient("", testLogger())

		cases := client.GenerateTestCases(ctx, "Something completely different")

		assert.Len(t, cases, 2)
	})
}

func TestMockTestCases(t *testing.T) {
	known := []string{
		"adds two numbers",
		"length of a string",
		"number is even",
		"larger of two numbers",
		"multiplies a number by 2",
	}

	for _, desc := range known {
		cases := mockTestCases(desc)
		assert.Len(t, cases, 3, desc)
		for _, tc := range cases {
			assert.NotEmpty(t, tc.ExpectedOutput, desc)
			assert.NotEmpty(t, tc.Description, desc)
		}
	}
}
