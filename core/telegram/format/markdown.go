// Package format escapes user-provided text for Telegram parse modes.
package format

import (
	"fmt"
	"strings"
)

const (
	// MarkdownV1 denotes Telegram legacy Markdown.
	MarkdownV1 = 1
	// MarkdownV2 denotes Telegram MarkdownV2.
	MarkdownV2 = 2
)

var (
	mdV1Escaper = escaper("_*`[")
	mdV2Escaper = escaper("\\_*[]()~`>#+-=|{}.!")
)

func escaper(specials string) *strings.Replacer {
	pairs := make([]string, 0, 2*len(specials))
	for _, r := range specials {
		pairs = append(pairs, string(r), `\`+string(r))
	}
	return strings.NewReplacer(pairs...)
}

// EscapeMarkdown escapes text so it renders literally in the given Markdown version.
func EscapeMarkdown(text string, version int) (string, error) {
	switch version {
	case MarkdownV1:
		return mdV1Escaper.Replace(text), nil
	case MarkdownV2:
		return mdV2Escaper.Replace(text), nil
	}
	return "", fmt.Errorf("unsupported markdown version: %d", version)
}

// MDV2 escapes text for MarkdownV2.
func MDV2(text string) string {
	return mdV2Escaper.Replace(text)
}

// MD escapes text for legacy Markdown.
func MD(text string) string {
	return mdV1Escaper.Replace(text)
}
