package oracle

import (
	"strings"
)

const (
	openTag  = "<prompt>"
	closeTag = "</prompt>"
)

// ParsePrompts extracts the tagged prompts from an oracle response. A
// response is accepted only if the open and close tag counts match;
// anything unbalanced yields an empty result so the caller re-queries.
func ParsePrompts(response string) []string {
	if strings.Count(response, openTag) != strings.Count(response, closeTag) {
		return nil
	}

	var prompts []string
	for _, chunk := range strings.Split(response, closeTag) {
		idx := strings.Index(chunk, openTag)
		if idx < 0 {
			continue
		}
		prompts = append(prompts, strings.TrimSpace(chunk[idx+len(openTag):]))
	}
	return prompts
}
