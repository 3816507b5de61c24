package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	log "github.com/sirupsen/logrus"
)

// maxResponseSize limits the model response body
const maxResponseSize = 1 << 20

const instruction = `You are a personal assistant that suggests which tasks a user should prioritize.

Given the following list of tasks, provide a prioritized list of tasks with a reason for each prioritization.`

var promptTemplate = template.Must(template.New("prompt").Parse(`Tasks:
{{range .Tasks}}- Title: {{.Title}}, Due Date: {{.DueDate}}, Priority: {{.Priority}}, Category: {{.Category}}
{{end}}
The same tasks as JSON:
{{.JSON}}

Respond with only a JSON object of the form {"prioritizedTasks":[{"title":"...","reason":"..."}]}, most important task first.
`))

type LLMConfig struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	MaxTokens   int
	Temperature *float64
	// Timeout bounds one request; zero means no limit
	Timeout time.Duration
}

// LLM is a Backend that prompts a hosted chat model
type LLM struct {
	cfg        LLMConfig
	provider   Provider
	httpClient *http.Client
	logger     log.FieldLogger
}

var _ Backend = &LLM{}

type LLMOption func(*LLM)

func WithHTTPClient(c *http.Client) LLMOption {
	return func(l *LLM) {
		l.httpClient = c
	}
}

func WithLLMLogger(logger log.FieldLogger) LLMOption {
	return func(l *LLM) {
		l.logger = logger
	}
}

func NewLLM(cfg LLMConfig, opts ...LLMOption) (*LLM, error) {
	p := GetProvider(cfg.Provider)
	if p == nil {
		return nil, fmt.Errorf("unknown provider %q, have %v", cfg.Provider, ListProviders())
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("no model configured for provider %s", cfg.Provider)
	}
	l := &LLM{
		cfg:        cfg,
		provider:   p,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Messages builds the chat sent for req
func Messages(req Request) ([]Message, error) {
	bs, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var prompt strings.Builder
	err = promptTemplate.Execute(&prompt, struct {
		Request
		JSON string
	}{req, string(bs)})
	if err != nil {
		return nil, err
	}
	return []Message{
		{Role: "system", Content: instruction},
		{Role: "user", Content: prompt.String()},
	}, nil
}

func (l *LLM) Prioritize(ctx context.Context, req Request) (Response, error) {
	messages, err := Messages(req)
	if err != nil {
		return Response{}, NewFatalError(err)
	}
	body, err := l.provider.BuildRequestBody(l.cfg.Model, messages, l.cfg.Temperature, l.cfg.MaxTokens)
	if err != nil {
		return Response{}, NewFatalError(fmt.Errorf("build request body: %w", err))
	}

	url := l.provider.BuildURL(l.cfg.BaseURL)
	l.logger.WithFields(log.Fields{
		"provider": l.provider.Name(),
		"model":    l.cfg.Model,
		"url":      url,
		"tasks":    len(req.Tasks),
	}).Debug("sending suggestion request")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Response{}, NewFatalError(fmt.Errorf("create HTTP request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	l.provider.SetHeaders(httpReq, l.cfg.APIKey)

	httpResp, err := l.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, NewTransientError(fmt.Errorf("HTTP request failed: %w", err))
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return Response{}, NewTransientError(fmt.Errorf("read response body: %w", err))
	}
	if httpResp.StatusCode != http.StatusOK {
		return Response{}, classifyHTTPError(httpResp.StatusCode, respBody)
	}

	content, err := l.provider.ParseResponse(respBody)
	if err != nil {
		return Response{}, NewFatalError(err)
	}
	return DecodeResponse(content)
}

// wireResponse uses pointers so that missing fields can be told apart from empty ones
type wireResponse struct {
	PrioritizedTasks *[]struct {
		Title  *string `json:"title"`
		Reason *string `json:"reason"`
	} `json:"prioritizedTasks"`
}

// DecodeResponse strictly parses the JSON object found in model text
func DecodeResponse(content string) (Response, error) {
	raw := ExtractJSON(content)
	if raw == "" {
		return Response{}, fmt.Errorf("%w: no JSON object in model output", ErrInvalidResponse)
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var w wireResponse
	if err := dec.Decode(&w); err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if w.PrioritizedTasks == nil {
		return Response{}, fmt.Errorf("%w: prioritizedTasks missing", ErrInvalidResponse)
	}
	out := Response{PrioritizedTasks: make([]Suggestion, 0, len(*w.PrioritizedTasks))}
	for i, s := range *w.PrioritizedTasks {
		if s.Title == nil || s.Reason == nil {
			return Response{}, fmt.Errorf("%w: entry %d needs title and reason", ErrInvalidResponse, i)
		}
		out.PrioritizedTasks = append(out.PrioritizedTasks, Suggestion{Title: *s.Title, Reason: *s.Reason})
	}
	return out, nil
}
