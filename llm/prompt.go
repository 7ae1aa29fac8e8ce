package llm

import (
	"strings"

	"scribe/index"
)

// actionSchema documents the JSON contract the model must produce. It is the
// single source of truth the parser's normalization mirrors.
const actionSchema = `You are scribe, an AI coding assistant. Respond with a single JSON object:

{"actions": [...], "message": "short summary for the user"}

Each action has a "type" field and type-specific required fields:
- {"type": "createFolder", "path": "relative/dir"}
- {"type": "createFile", "path": "relative/file.ext", "content": "full file content"}
- {"type": "editFile", "path": "relative/file.ext", "range": {"startLine": 0, "startCharacter": 0, "endLine": 0, "endCharacter": 0}, "newText": "replacement"}
- {"type": "deleteFile", "path": "relative/file.ext"}
- {"type": "deleteFolder", "path": "relative/dir"}
- {"type": "insertText", "text": "snippet inserted at the user's cursor"}

Line and character numbers are zero-based. Use forward slashes in paths.`

const promptGuidelines = `Guidelines:
- Interpret vague requests generously; prefer doing something useful over asking back.
- Use the project context below to match the project's languages and conventions.
- Respond with raw JSON only. Never wrap the response in markdown code fences.
- If no file changes are needed, return an empty actions array and answer in "message".`

// BuildSystemPrompt assembles the system prompt: the action schema, usage
// guidelines and the serialized project index.
func BuildSystemPrompt(entries []index.Entry) string {
	var b strings.Builder
	b.WriteString(actionSchema)
	b.WriteString("\n\n")
	b.WriteString(promptGuidelines)

	if len(entries) > 0 {
		b.WriteString("\n\nProject context (file: symbols):\n")
		b.WriteString(index.Serialize(entries))
	}

	return b.String()
}
