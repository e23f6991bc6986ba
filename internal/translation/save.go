package translation

import (
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/snonux/interlinear/internal"
)

// SaveTranslation saves the translation to <messageID>_<lang>.txt in dir
// and returns the file path.
func SaveTranslation(dir string, t *Translation) (string, error) {
	name := fmt.Sprintf("%s_%s.txt", internal.SanitizeFilename(t.MessageID), internal.SanitizeFilename(t.Language.Code))
	outputFile := filepath.Join(dir, name)
	content := fmt.Sprintf("%s\n\n%s\n", t.Sentence, t.Text)

	if err := os.WriteFile(outputFile, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write translation file: %w", err)
	}

	return outputFile, nil
}
