package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/amonks/tasktrack/task"
)

// DefaultSuggestModel is used when no model is configured.
const DefaultSuggestModel = "llama3.2"

const suggestSystemPrompt = `You help one person decide what to work on next.
You receive their task list as JSON. Reply with a JSON object of the form
{"suggestions": ["..."]} holding at most five short, concrete suggestions.
Prefer overdue and critical work, and call out tasks that look stuck.`

// OllamaOptions configures an OllamaSuggester.
type OllamaOptions struct {
	// Host is the Ollama base URL. OLLAMA_HOST is used when empty.
	Host  string
	Model string
}

// OllamaSuggester produces suggestions with a local Ollama model.
type OllamaSuggester struct {
	client *api.Client
	model  string
}

// NewOllamaSuggester creates a suggester for the configured Ollama host.
func NewOllamaSuggester(opts OllamaOptions) (*OllamaSuggester, error) {
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultSuggestModel
	}

	var client *api.Client
	if host := strings.TrimSpace(opts.Host); host != "" {
		base, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("parse ollama host: %w", err)
		}
		client = api.NewClient(base, &http.Client{Timeout: 2 * time.Minute})
	} else {
		created, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client: %w", err)
		}
		client = created
	}
	return &OllamaSuggester{client: client, model: model}, nil
}

// promptTask is the subset of a task sent to the model.
type promptTask struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Focus       task.Focus  `json:"focus"`
	Status      task.Status `json:"status"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Suggest asks the model for suggestions about tasks.
func (o *OllamaSuggester) Suggest(ctx context.Context, tasks []task.Task) ([]string, error) {
	prompt, err := buildSuggestPrompt(tasks, time.Now())
	if err != nil {
		return nil, err
	}

	stream := false
	req := &api.GenerateRequest{
		Model:  o.model,
		System: suggestSystemPrompt,
		Prompt: prompt,
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
	}

	var response strings.Builder
	err = o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		response.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ollama generate: %w", err)
	}
	return parseSuggestions(response.String())
}

func buildSuggestPrompt(tasks []task.Task, now time.Time) (string, error) {
	items := make([]promptTask, 0, len(tasks))
	for _, item := range tasks {
		items = append(items, promptTask{
			Title:       item.Title,
			Description: item.Description,
			Focus:       item.Focus,
			Status:      item.Status,
			DueDate:     item.DueDate,
			UpdatedAt:   item.UpdatedAt,
		})
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return fmt.Sprintf("Current time: %s\nTasks:\n%s", now.UTC().Format(time.RFC3339), data), nil
}

var errEmptySuggestions = errors.New("model returned no suggestions")

// parseSuggestions accepts either {"suggestions": [...]} or a bare array.
func parseSuggestions(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errEmptySuggestions
	}

	var wrapped struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil && wrapped.Suggestions != nil {
		return wrapped.Suggestions, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
		return list, nil
	}
	return nil, fmt.Errorf("decode model response: %q", trimmed)
}
