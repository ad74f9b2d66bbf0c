// Package normalize recovers a single JSON object from a model's
// free-text reply. The boundary search is a best-effort heuristic: it
// assumes at most one top-level object and that braces inside string
// values do not straddle the outermost pair in practice.
package normalize

import (
	"net/http"
	"regexp"
	"strings"

	"pantry-chef/internal/pkg/common"
)

var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractObject strips markdown noise from raw, locates the outermost
// JSON object, and parses it into a dynamic map. Numbers arrive as
// json.Number. Fails with FORMAT_ERROR when no object can be recovered.
func ExtractObject(raw string) (map[string]interface{}, error) {
	candidate, err := locate(raw)
	if err != nil {
		return nil, err
	}

	var obj map[string]interface{}
	if err := parse(candidate, &obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// ExtractInto behaves like ExtractObject but decodes into a typed
// destination.
func ExtractInto(raw string, v interface{}) error {
	candidate, err := locate(raw)
	if err != nil {
		return err
	}
	return parse(candidate, v)
}

func locate(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	// Strip fence markers wherever they appear; commentary after the
	// closing fence is handled by the brace search below.
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "json")
	text = strings.TrimSpace(text)

	if m := objectPattern.FindString(text); m != "" {
		return m, nil
	}

	// Regex found nothing; fall back to raw brace positions.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end != -1 && end > start {
		return text[start : end+1], nil
	}

	return "", common.NewError(common.ErrCodeFormatError,
		"no JSON object found in the model reply", http.StatusBadGateway, nil)
}

func parse(candidate string, v interface{}) error {
	if err := common.ParseJSON(candidate, v); err == nil {
		return nil
	}
	// Second chance: models occasionally emit bare object keys.
	if err := common.ParseJSON(common.QuoteJSONKeys(candidate), v); err != nil {
		return common.NewError(common.ErrCodeFormatError,
			"model reply is not valid JSON", http.StatusBadGateway, err)
	}
	return nil
}
