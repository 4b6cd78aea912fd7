// Package langtool is an HTTP client for a LanguageTool server. It backs
// both grammar correction and spell checking in the generation pipeline.
package langtool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxCorrectionPasses bounds the apply-and-recheck loop in Correct.
const maxCorrectionPasses = 10

// Client talks to the LanguageTool /v2/check endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a LanguageTool client. baseURL is the server root, e.g.
// "http://localhost:5004".
func New(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With("component", "langtool"),
	}
}

type checkResponse struct {
	Matches []Match `json:"matches"`
}

// Match is one grammar or spelling finding.
type Match struct {
	Message      string        `json:"message"`
	ShortMessage string        `json:"shortMessage"`
	Offset       int           `json:"offset"`
	Length       int           `json:"length"`
	Replacements []Replacement `json:"replacements"`
	Rule         Rule          `json:"rule"`
}

type Replacement struct {
	Value string `json:"value"`
}

type Rule struct {
	ID        string   `json:"id"`
	IssueType string   `json:"issueType"`
	Category  Category `json:"category"`
}

type Category struct {
	ID string `json:"id"`
}

// Check runs the text through the server and filters findings by rule
// category. An empty categories slice keeps everything.
func (c *Client) Check(ctx context.Context, text string, categories []string) ([]Match, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", "en-US")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/check",
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling language tool: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("language tool returned status %d: %s", resp.StatusCode, string(body))
	}

	var decoded checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding language tool response: %w", err)
	}

	if len(categories) == 0 {
		return decoded.Matches, nil
	}
	wanted := make(map[string]bool, len(categories))
	for _, cat := range categories {
		wanted[cat] = true
	}
	var ret []Match
	for _, m := range decoded.Matches {
		if wanted[m.Rule.Category.ID] {
			ret = append(ret, m)
		}
	}
	return ret, nil
}

// Correct applies the first suggested replacement and rechecks until the
// text is clean, a finding has no suggestion, or the pass budget runs out.
// On transport errors the text is returned unchanged.
func (c *Client) Correct(text string, categories []string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for i := 0; i < maxCorrectionPasses; i++ {
		matches, err := c.Check(ctx, text, categories)
		if err != nil {
			c.logger.Warn("Grammar check failed, keeping text unchanged.", slog.Any("error", err))
			return text
		}
		if len(matches) == 0 || len(matches[0].Replacements) == 0 {
			return text
		}
		m := matches[0]
		if m.Offset < 0 || m.Offset+m.Length > len(text) {
			return text
		}
		text = text[:m.Offset] + m.Replacements[0].Value + text[m.Offset+m.Length:]
	}
	return text
}

// CorrectWord fixes a single, possibly underscore-joined, misspelled word.
func (c *Client) CorrectWord(word string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	matches, err := c.Check(ctx, strings.ReplaceAll(word, "_", " "), nil)
	if err != nil {
		c.logger.Warn("Word check failed, keeping word unchanged.", slog.Any("error", err))
		return word
	}
	for _, m := range matches {
		if m.Rule.IssueType != "misspelling" {
			continue
		}
		for _, r := range m.Replacements {
			if strings.Contains(r.Value, word) {
				return strings.ReplaceAll(r.Value, " ", "_")
			}
		}
		if len(m.Replacements) > 0 {
			return strings.ReplaceAll(m.Replacements[0].Value, " ", "_")
		}
	}
	return word
}

// Misspellings returns the misspelled substrings of the sentence.
func (c *Client) Misspellings(sentence string) []string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	matches, err := c.Check(ctx, sentence, []string{"TYPOS"})
	if err != nil {
		c.logger.Warn("Spell check failed.", slog.Any("error", err))
		return nil
	}
	seen := make(map[string]bool)
	var ret []string
	for _, m := range matches {
		if m.Offset < 0 || m.Offset+m.Length > len(sentence) {
			continue
		}
		word := sentence[m.Offset : m.Offset+m.Length]
		if !seen[word] {
			seen[word] = true
			ret = append(ret, word)
		}
	}
	return ret
}

// CorrectSpelling replaces every misspelled substring with its first
// suggestion.
func (c *Client) CorrectSpelling(sentence string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	matches, err := c.Check(ctx, sentence, []string{"TYPOS"})
	if err != nil {
		c.logger.Warn("Spell check failed, keeping text unchanged.", slog.Any("error", err))
		return sentence
	}
	for _, m := range matches {
		if m.Offset < 0 || m.Offset+m.Length > len(sentence) || len(m.Replacements) == 0 {
			continue
		}
		ms := sentence[m.Offset : m.Offset+m.Length]
		sentence = strings.ReplaceAll(sentence, ms, m.Replacements[0].Value)
	}
	return sentence
}
