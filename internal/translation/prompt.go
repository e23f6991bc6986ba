package translation

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/interlinear/internal/language"
)

// Prompt is the instruction sent to the provider.
type Prompt struct {
	System string
	User   string
}

const systemPrompt = "You are a word-by-word translation engine for language learners. " +
	"You answer with exactly two lines and nothing else: no explanations, no code fences."

// BuildPrompt asks for sentence to be translated into target as two rows
// of bracketed tokens. A zero source lets the model detect the language.
func BuildPrompt(sentence string, target, source language.Language) Prompt {
	sourceFlag := "the flag emoji of the sentence's language"
	if source.Flag != "" {
		sourceFlag = source.Flag
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Translate the sentence below into %s (%s) word by word.\n", target.Name, target.Code)
	fmt.Fprintf(&b, "Line 1: %s, a space, then every word of the sentence in its own square brackets.\n", sourceFlag)
	fmt.Fprintf(&b, "Line 2: %s, a space, then the translation of each word of line 1 in its own square brackets, in the same order.\n", target.Flag)
	b.WriteString("Both lines must contain the same number of bracketed items. ")
	b.WriteString("When a word needs several words in translation, keep them inside one pair of brackets.\n\n")
	b.WriteString("Example:\n🇫🇷 [Je] [pense] [faire]\n🇬🇧 [I] [think] [to do]\n\n")
	fmt.Fprintf(&b, "Sentence: %s", strings.TrimSpace(sentence))

	return Prompt{System: systemPrompt, User: b.String()}
}
