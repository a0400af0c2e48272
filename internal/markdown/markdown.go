// Package markdown renders task descriptions for the terminal.
package markdown

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/muesli/reflow/indent"

	internalstrings "github.com/amonks/tasktrack/internal/strings"
)

type renderer interface {
	Render(string) (string, error)
}

var (
	rendererMu sync.Mutex
	renderers  = map[int]renderer{}
)

// Render formats markdown text for terminal output. It falls back to the
// input when rendering fails.
func Render(width, indentBy int, input string) string {
	value := internalstrings.TrimTrailingNewlines(internalstrings.NormalizeNewlines(input))
	if strings.TrimSpace(value) == "" {
		return ""
	}
	width = max(width, 1)
	indentBy = max(indentBy, 0)
	renderWidth := max(width-indentBy, 1)

	rendered, err := safeRender(markdownRenderer(renderWidth), value)
	if err != nil {
		rendered = value
	}
	rendered = internalstrings.TrimTrailingNewlines(rendered)
	if strings.TrimSpace(rendered) == "" {
		return ""
	}
	if indentBy == 0 {
		return rendered
	}
	return indent.String(rendered, uint(indentBy))
}

func safeRender(r renderer, value string) (out string, err error) {
	if r == nil {
		return "", fmt.Errorf("no markdown renderer")
	}
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("markdown renderer panic: %v", recovered)
		}
	}()
	return r.Render(value)
}

func markdownRenderer(width int) renderer {
	rendererMu.Lock()
	defer rendererMu.Unlock()
	if cached, ok := renderers[width]; ok {
		return cached
	}
	style := styles.ASCIIStyleConfig
	style.Item.BlockPrefix = "- "
	created, err := glamour.NewTermRenderer(
		glamour.WithStyles(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	renderers[width] = created
	return created
}
