package translation

import (
	"fmt"
	"strings"
)

// PromptBuilder constructs system and user prompts for comment translation.
type PromptBuilder struct{}

// NewPromptBuilder creates a new prompt builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

const systemPrompt = `You are a professional translator specializing in translating programming comments and documentation from Japanese to English.

Rules:
1. Maintain the technical meaning and nuance of the original comment.
2. Preserve ALL placeholders like {{var_1}}, {{var_2}}, etc. Copy them exactly as-is into your translation.
3. Preserve code identifiers, file names and symbols untouched.
4. Output ONLY the English translation, nothing else.
5. Do NOT add explanations, notes, or extra text.
6. Keep the register of a source-code comment: concise and factual.`

// GetSystemPrompt returns the system prompt for translation.
func (pb *PromptBuilder) GetSystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt constructs the user prompt. Context fields are embedded
// only when non-empty; reference holds optional retrieved material (similar
// past translations, glossary terms).
func (pb *PromptBuilder) BuildUserPrompt(text, contextBefore, contextAfter, reference string) string {
	var sb strings.Builder

	if reference != "" {
		sb.WriteString(reference)
		sb.WriteString("\n")
	}

	sb.WriteString("Translate the following Japanese text to English:\n\n")
	if contextBefore != "" {
		sb.WriteString(fmt.Sprintf("Context before: %s\n\n", contextBefore))
	}
	sb.WriteString(fmt.Sprintf("Text to translate: %s\n\n", text))
	if contextAfter != "" {
		sb.WriteString(fmt.Sprintf("Context after: %s\n\n", contextAfter))
	}
	sb.WriteString("Translation:")

	return sb.String()
}
