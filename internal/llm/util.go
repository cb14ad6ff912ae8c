// Package llm - util.go provides shared utilities for completion post-processing.
package llm

import (
	"regexp"
	"strings"
)

// reasoningBlock matches the scratchpad some reasoning models emit before the answer.
var reasoningBlock = regexp.MustCompile(`(?is)(\[THINK\].*?\[/THINK\]|<think>.*?</think>)`)

// CleanCompletion removes reasoning scratchpads and markdown code fences from a completion.
// Models often wrap plain answers in ``` blocks even when instructed not to.
func CleanCompletion(text string) string {
	text = reasoningBlock.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	return text
}
