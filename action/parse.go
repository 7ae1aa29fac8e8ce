package action

import (
	"encoding/json"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DefaultMessage substitutes for a missing or non-string message field.
const DefaultMessage = "Here are the proposed changes."

// fencedBlock finds a markdown code fence anywhere in the text.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)\n?```")

// Parse defensively converts raw model text into a Response. It never fails:
// when no JSON can be recovered, the raw text becomes the chat message and
// the action list is empty. Recognized-but-invalid actions are dropped
// individually with a logged diagnostic; the rest of the batch survives.
func Parse(raw string, logger *zap.Logger) *Response {
	if logger == nil {
		logger = zap.NewNop()
	}

	// A single outer fence is common despite the prompt guidelines.
	candidate := stripOuterFence(strings.TrimSpace(raw))

	if resp, ok := parseObject(candidate, logger); ok {
		return resp
	}

	// Look for an embedded fenced JSON block anywhere in the text.
	for _, match := range fencedBlock.FindAllStringSubmatch(raw, -1) {
		if resp, ok := parseObject(strings.TrimSpace(match[1]), logger); ok {
			return resp
		}
	}

	// Fall back to a plain chat message rather than a hard failure.
	return &Response{Actions: nil, Message: raw}
}

// stripOuterFence removes one leading/trailing code-fence pair if present.
func stripOuterFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}

	rest := strings.TrimPrefix(text, "```")
	rest = strings.TrimPrefix(rest, "json")
	rest = strings.TrimPrefix(rest, "\n")

	if idx := strings.LastIndex(rest, "```"); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}

// parseObject parses one candidate JSON object and normalizes it.
func parseObject(candidate string, logger *zap.Logger) (*Response, bool) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &m); err != nil {
		return nil, false
	}

	resp := &Response{Message: DefaultMessage}

	if msg, ok := m["message"].(string); ok {
		resp.Message = msg
	}

	rawActions, present := m["actions"]
	if !present {
		return resp, true
	}

	list, ok := rawActions.([]interface{})
	if !ok {
		logger.Warn("actions field is not an array, coercing to empty")
		return resp, true
	}

	for i, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			logger.Warn("dropping non-object action", zap.Int("index", i))
			continue
		}

		act, err := normalizeAction(obj)
		if err == nil {
			err = act.Validate()
		}
		if err != nil {
			logger.Warn("dropping invalid action", zap.Int("index", i), zap.Error(err))
			continue
		}

		resp.Actions = append(resp.Actions, *act)
	}

	return resp, true
}

// normalizeAction maps field-name synonyms onto the canonical Action shape
// so upstream producers can use either spelling.
func normalizeAction(obj map[string]interface{}) (*Action, error) {
	if _, ok := obj["type"]; !ok {
		if v, ok := obj["action"]; ok {
			obj["type"] = v
		}
	}
	if _, ok := obj["path"]; !ok {
		if v, ok := obj["filePath"]; ok {
			obj["path"] = v
		} else if v, ok := obj["folderPath"]; ok {
			obj["path"] = v
		}
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}

	var act Action
	if err := json.Unmarshal(data, &act); err != nil {
		return nil, err
	}
	return &act, nil
}
