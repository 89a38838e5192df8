package monday

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// TokenEnvVar is the environment variable the token resolver checks first.
const TokenEnvVar = "MONDAY_API_TOKEN"

// ErrNoToken indicates no API token could be found anywhere.
var ErrNoToken = errors.New("no monday api token configured")

// ResolveToken finds the API token. Order: explicit value, process
// environment, a .env file in the working directory, then the configured
// token file. The first non-empty hit wins.
func ResolveToken(explicit, tokenFile string) (string, error) {
	if tok := strings.TrimSpace(explicit); tok != "" {
		return tok, nil
	}
	if tok := strings.TrimSpace(os.Getenv(TokenEnvVar)); tok != "" {
		return tok, nil
	}
	if env, err := godotenv.Read(); err == nil {
		if tok := strings.TrimSpace(env[TokenEnvVar]); tok != "" {
			return tok, nil
		}
	}
	if tokenFile != "" {
		raw, err := os.ReadFile(tokenFile)
		if err != nil {
			return "", fmt.Errorf("read token file %s: %w", tokenFile, err)
		}
		if tok := strings.TrimSpace(string(raw)); tok != "" {
			return tok, nil
		}
	}
	return "", ErrNoToken
}
