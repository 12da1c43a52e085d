package telegram

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tokenEnv = "TELEGRAM_BOT_TOKEN"

// ResolveToken returns the bot token from the TELEGRAM_BOT_TOKEN environment
// variable, falling back to a telegram.token file next to the config. The
// token never lives in the config file itself.
func ResolveToken(configDir string) (string, error) {
	if token := strings.TrimSpace(os.Getenv(tokenEnv)); token != "" {
		return token, nil
	}

	path := filepath.Join(configDir, "telegram.token")
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("no telegram token: set %s or create %s", tokenEnv, path)
	}

	token := strings.TrimSpace(string(content))
	if token == "" {
		return "", fmt.Errorf("telegram token file %s is empty", path)
	}
	return token, nil
}
