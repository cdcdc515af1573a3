package conversation

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
)

//go:embed prompts/*.txt
var builtinPrompts embed.FS

const (
	PromptBaseChat = "prompts/basechat.txt"
	PromptTutor    = "prompts/tutor.txt"
	PromptExpander = "prompts/expander.txt"
)

// LoadPrompt resolves nameOrText to prompt text. A name of a builtin prompt or
// of a file on disk yields that file's content; anything else is used
// literally.
func LoadPrompt(nameOrText string) (string, error) {
	if fs.ValidPath(nameOrText) {
		if data, err := builtinPrompts.ReadFile(nameOrText); err == nil {
			return string(data), nil
		}
	}

	if info, err := os.Stat(nameOrText); err == nil && !info.IsDir() {
		data, err := os.ReadFile(nameOrText)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		return string(data), nil
	}

	return nameOrText, nil
}
