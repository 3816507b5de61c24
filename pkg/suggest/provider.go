package suggest

import (
	"net/http"
	"sort"
	"sync"
)

// Message is one chat message
type Message struct {
	Role    string `json:"role"` // "system" or "user"
	Content string `json:"content"`
}

// Provider adapts the chat request to a hosted model API
type Provider interface {
	// Name returns the provider identifier, e.g. "anthropic"
	Name() string

	// BuildURL constructs the full API endpoint URL.
	// An empty baseURL means the provider's public endpoint.
	BuildURL(baseURL string) string

	SetHeaders(req *http.Request, apiKey string)

	BuildRequestBody(model string, messages []Message, temperature *float64, maxTokens int) ([]byte, error)

	// ParseResponse extracts the generated text
	ParseResponse(body []byte) (string, error)
}

var (
	providerRegistry = make(map[string]Provider)
	providerMu       sync.RWMutex
)

func RegisterProvider(p Provider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	providerRegistry[p.Name()] = p
}

func GetProvider(name string) Provider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return providerRegistry[name]
}

// ListProviders returns the registered provider names, sorted
func ListProviders() []string {
	providerMu.RLock()
	defer providerMu.RUnlock()

	names := make([]string, 0, len(providerRegistry))
	for name := range providerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
