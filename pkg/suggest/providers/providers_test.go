package providers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/td0m/chronoflow/pkg/suggest"
)

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name     string
		provider suggest.Provider
		baseURL  string
		want     string
	}{
		{"anthropic default", &AnthropicProvider{}, "", "https://api.anthropic.com/v1/messages"},
		{"anthropic trailing slash", &AnthropicProvider{}, "https://proxy.local/", "https://proxy.local/v1/messages"},
		{"openai default", &OpenAIProvider{}, "", "https://api.openai.com/v1/chat/completions"},
		{"openai full path", &OpenAIProvider{}, "http://localhost:11434/v1/chat/completions", "http://localhost:11434/v1/chat/completions"},
		{"openai base", &OpenAIProvider{}, "https://openrouter.ai/api/v1/", "https://openrouter.ai/api/v1/chat/completions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.provider.BuildURL(tt.baseURL))
		})
	}
}

func TestAnthropicProvider_BuildRequestBody(t *testing.T) {
	p := &AnthropicProvider{}
	messages := []suggest.Message{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "Tasks:"},
	}

	temp := 0.2
	body, err := p.BuildRequestBody("claude-test", messages, &temp, 0)
	require.NoError(t, err)

	assert.Contains(t, string(body), `"system":"You are helpful."`)
	assert.Contains(t, string(body), `"model":"claude-test"`)
	assert.Contains(t, string(body), `"max_tokens":4096`)
	assert.Contains(t, string(body), `"temperature":0.2`)
	assert.NotContains(t, string(body), `"role":"system"`)
}

func TestAnthropicProvider_Headers(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "http://example.com", nil)
	require.NoError(t, err)
	(&AnthropicProvider{}).SetHeaders(req, "key")
	assert.Equal(t, "key", req.Header.Get("x-api-key"))
	assert.Equal(t, anthropicVersion, req.Header.Get("anthropic-version"))
}

func TestAnthropicProvider_ParseResponse(t *testing.T) {
	p := &AnthropicProvider{}
	got, err := p.ParseResponse([]byte(`{"content":[{"type":"text","text":"{\"a\":"},{"type":"text","text":"1}"}]}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got)

	_, err = p.ParseResponse([]byte(`{"content":[]}`))
	assert.Error(t, err)
}

func TestOpenAIProvider(t *testing.T) {
	p := &OpenAIProvider{}
	body, err := p.BuildRequestBody("gpt-test", []suggest.Message{{Role: "user", Content: "hi"}}, nil, 100)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"response_format":{"type":"json_object"}`)
	assert.Contains(t, string(body), `"max_tokens":100`)
	assert.NotContains(t, string(body), `"temperature"`)

	req, err := http.NewRequest(http.MethodPost, "http://example.com", nil)
	require.NoError(t, err)
	p.SetHeaders(req, "sk")
	assert.Equal(t, "Bearer sk", req.Header.Get("Authorization"))

	got, err := p.ParseResponse([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
	require.NoError(t, err)
	assert.Equal(t, "{}", got)

	_, err = p.ParseResponse([]byte(`{"choices":[]}`))
	assert.Error(t, err)
}
