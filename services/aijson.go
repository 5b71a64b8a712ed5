package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

// stripCodeFences removes a surrounding ```json ... ``` block if the model added one
func stripCodeFences(response string) string {
	response = strings.TrimSpace(response)
	if !strings.Contains(response, "```") {
		return response
	}

	start := strings.Index(response, "```") + 3
	// Skip the info string (json, JSON, ...) up to the end of the fence line
	if nl := strings.IndexByte(response[start:], '\n'); nl >= 0 {
		info := strings.TrimSpace(response[start : start+nl])
		if !strings.ContainsAny(info, "{[") {
			start += nl + 1
		}
	}
	end := strings.LastIndex(response, "```")
	if end > start {
		return strings.TrimSpace(response[start:end])
	}
	return strings.TrimSpace(response[start:])
}

// ExtractJSON finds the JSON object or array in a model response. The whole
// response is used when it is valid JSON; otherwise the first balanced
// {...} or [...] span that parses wins.
func ExtractJSON(response string) (string, error) {
	cleaned := stripCodeFences(response)
	if isJSONContainer(cleaned) {
		return cleaned, nil
	}

	for i := 0; i < len(cleaned); i++ {
		if cleaned[i] != '{' && cleaned[i] != '[' {
			continue
		}
		end := matchingBracket(cleaned, i)
		if end < 0 {
			continue
		}
		if candidate := cleaned[i : end+1]; gjson.Valid(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no JSON found in response", ErrAIOutput)
}

func isJSONContainer(s string) bool {
	return s != "" && (s[0] == '{' || s[0] == '[') && gjson.Valid(s)
}

// matchingBracket returns the index closing the bracket opened at start, or -1.
// Brackets inside string literals are ignored.
func matchingBracket(s string, start int) int {
	var stack []byte
	inString, escaped := false, false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i
			}
		}
	}
	return -1
}

func mustSchema(schema string) *gojsonschema.Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid JSON schema: %v", err))
	}
	return compiled
}

// decodeValidated extracts JSON from a model response, validates it against
// schema and decodes it into dst
func decodeValidated(response string, schema *gojsonschema.Schema, dst interface{}) (string, error) {
	raw, err := ExtractJSON(response)
	if err != nil {
		return "", err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIOutput, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return "", fmt.Errorf("%w: schema validation failed: %s", ErrAIOutput, strings.Join(msgs, "; "))
	}

	if dst != nil {
		if err := json.Unmarshal([]byte(raw), dst); err != nil {
			return "", fmt.Errorf("%w: %v", ErrAIOutput, err)
		}
	}
	return raw, nil
}

// generateJSON runs the model and decodes its validated JSON answer into dst.
// It returns the raw JSON for callers that read extra fields with gjson.
func generateJSON(ctx context.Context, gen TextGenerator, systemPrompt, prompt string, schema *gojsonschema.Schema, dst interface{}) (string, error) {
	if gen == nil {
		return "", ErrAIUnavailable
	}

	response, err := gen.GenerateText(ctx, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAIRequest, err)
	}

	raw, err := decodeValidated(response, schema, dst)
	if err != nil {
		slog.Warn("Discarding model output", "error", err, "length", len(response))
		return "", err
	}
	return raw, nil
}
