package narrative

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/NykoEugen/R-D-telegram-game/internal/constants"
	"github.com/NykoEugen/R-D-telegram-game/internal/dedupe"
	"github.com/NykoEugen/R-D-telegram-game/internal/keys"
	"github.com/NykoEugen/R-D-telegram-game/internal/logging"
)

// narrationPromptTemplate can be set at application startup to customize
// the prompt sent to OpenAI. Use the tokens "{{scene}}", "{{action}}" and
// "{{tags}}" where the request fields will be substituted.
var narrationPromptTemplate string

// SetNarrationPromptTemplate sets a custom prompt template. Call from main
// after loading configuration.
func SetNarrationPromptTemplate(t string) {
	narrationPromptTemplate = strings.TrimSpace(t)
}

// OpenAIProvider generates narration lines via the Chat Completions API.
// Identical requests share one in-flight call and a process-local cache;
// failures fall back to the template provider so the game never stalls on
// the narrator.
type OpenAIProvider struct {
	apiKey   string
	client   *http.Client
	fallback TemplateProvider

	mu    sync.RWMutex
	cache map[string]string
}

// NewOpenAIProvider builds a provider with the given API key.
func NewOpenAIProvider(apiKey string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  map[string]string{},
	}
}

// NewProvider picks the OpenAI narrator when an API key is configured and
// the deterministic templates otherwise.
func NewProvider(apiKey string) Provider {
	if apiKey == "" {
		return TemplateProvider{}
	}
	return NewOpenAIProvider(apiKey)
}

func (p *OpenAIProvider) Narrate(req Request) (string, error) {
	key := keys.NarrationKey(append([]string{req.SceneTitle, req.ActionID}, req.Tags...))

	p.mu.RLock()
	cached, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	ch := dedupe.NarrationGroup.DoChan(key, func() (interface{}, error) {
		p.mu.RLock()
		cached, ok := p.cache[key]
		p.mu.RUnlock()
		if ok {
			return cached, nil
		}
		line, err := p.callOpenAI(req)
		if err != nil {
			return "", err
		}
		p.mu.Lock()
		p.cache[key] = line
		p.mu.Unlock()
		return line, nil
	})

	r := <-ch
	if r.Err != nil {
		logging.Error("narration generation failed; using template", r.Err, logging.Fields{"key": key})
		return p.fallback.Narrate(req)
	}
	return r.Val.(string), nil
}

func (p *OpenAIProvider) callOpenAI(req Request) (string, error) {
	prompt := narrationPromptTemplate
	if prompt == "" {
		prompt = "Narrate in two short sentences of second-person fantasy prose: the hero is at \"{{scene}}\", attempted \"{{action}}\", outcome tags: {{tags}}. Return only the narration."
	}
	prompt = strings.ReplaceAll(prompt, "{{scene}}", req.SceneTitle)
	prompt = strings.ReplaceAll(prompt, "{{action}}", req.ActionID)
	prompt = strings.ReplaceAll(prompt, "{{tags}}", strings.Join(req.Tags, ", "))

	payload := map[string]interface{}{
		"model": constants.OpenAIChatModel,
		"messages": []map[string]string{
			{"role": "system", "content": "You are the narrator of a text adventure game."},
			{"role": "user", "content": prompt},
		},
		"max_completion_tokens": 3100,
		"service_tier":          "default",
	}

	b, _ := json.Marshal(payload)
	httpReq, err := http.NewRequest("POST", constants.OpenAIBaseURL+constants.OpenAIChatCompletionsPath, bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+p.apiKey)
	httpReq.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai error: %d %s", resp.StatusCode, string(body))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	line := strings.TrimSpace(out.Choices[0].Message.Content)
	line = strings.Trim(line, "\"' ")
	if line == "" {
		return "", fmt.Errorf("openai returned empty narration")
	}
	return line, nil
}
