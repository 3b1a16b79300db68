package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables applied by LoadEnv.
const (
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvOpenAIOrgID     = "OPENAI_ORG_ID"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvWeaviateURL     = "WEAVIATE_URL"
	EnvWeaviateAPIKey  = "WEAVIATE_API_KEY"
)

// LoadEnv applies credentials from the given dotenv files and the process
// environment to c. The process environment wins over file values, matching
// godotenv.Load. Without files, a missing ./.env is not an error.
//
// This is the only place severn reads the environment.
func (c *Config) LoadEnv(files ...string) error {
	fileVars, err := readDotenv(files)
	if err != nil {
		return err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok && v != ""
	}

	c.applyEnv(lookup)

	return nil
}

func readDotenv(files []string) (map[string]string, error) {
	if len(files) == 0 {
		vars, err := godotenv.Read()
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read .env: %w", err)
		}
		return vars, nil
	}

	vars, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("read env files: %w", err)
	}
	return vars, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	set(&c.OpenAI.APIKey, EnvOpenAIAPIKey)
	set(&c.OpenAI.Organization, EnvOpenAIOrgID)
	set(&c.Anthropic.APIKey, EnvAnthropicAPIKey)
	set(&c.Weaviate.URL, EnvWeaviateURL)
	set(&c.Weaviate.APIKey, EnvWeaviateAPIKey)
}
