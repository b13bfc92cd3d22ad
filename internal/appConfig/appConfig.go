package appConfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"glarchive/internal/ext"
)

const DefaultConfigFileName = "archive.yaml"
const DefaultTokenEnvVar = "GITLAB_TOKEN"

// AppConfig is the optional YAML config file. Everything it carries can also
// be supplied as a command line flag; flags win.
type AppConfig struct {
	GitLabURL            string `yaml:"gitlabUrl"`      // Instance base URL, e.g. https://gitlab.example.edu
	EnvTokenVariableName string `yaml:"tokenEnvVar"`    // Environment variable holding the GitLab token
	GroupID              int    `yaml:"groupId"`        // Numeric group id to archive
	GroupPath            string `yaml:"groupPath"`      // Group path, looked up when no id is given
	OutDir               string `yaml:"outputDirectory"`
}

// RetrieveTokenFromEnv reads the token from the configured environment
// variable, defaulting to GITLAB_TOKEN.
func (config AppConfig) RetrieveTokenFromEnv() string {
	return os.Getenv(ext.DefaultValue(config.EnvTokenVariableName, DefaultTokenEnvVar))
}

// LoadConfig reads the config file from path, or from the current directory
// and then the home directory when path is empty. A missing default file is
// not an error: flags alone are a complete configuration.
func LoadConfig(path string) (*AppConfig, error) {
	if path == "" {
		path = DefaultConfigFileName
		if _, err := os.Stat(path); os.IsNotExist(err) {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return &AppConfig{}, nil
			}
			path = filepath.Join(homeDir, DefaultConfigFileName)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return &AppConfig{}, nil
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %v", err)
	}

	var config AppConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not unmarshal config file: %v", err)
	}
	return &config, nil
}
