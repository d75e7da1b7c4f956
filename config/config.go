package config

import (
	"os"
	"path"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"github.com/fpgatools/fasm2bit/log"
	"github.com/fpgatools/fasm2bit/util"
)

// Config holds defaults that would otherwise have to be repeated on every
// invocation. All fields are optional.
type Config struct {
	// Default location of the prjxray database root. Overridden by the
	// --prjxray_db_path flag and the PRJXRAY_DB_PATH environment variable.
	PrjxrayDBPath string `yaml:"prjxray_db_path"`
}

var config *Config

const configFileName = "config.yaml"

func configDir() (string, error) {
	if dir, ok := os.LookupEnv("FASM2BIT_CONFIG_DIR"); ok {
		return dir, nil
	}
	if xdgConfigHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		return path.Join(xdgConfigHome, "fasm2bit"), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return path.Join(home, ".config", "fasm2bit"), nil
}

func loadConfiguration() Config {
	var config Config

	dir, err := configDir()
	if err != nil {
		log.Debug("Unable to find the config directory. Using default configuration\n")
		return config
	}

	configFilePath := path.Join(dir, configFileName)
	if !util.FileExists(configFilePath) {
		return config
	}
	if err := yaml.Unmarshal(util.ReadFile(configFilePath), &config); err != nil {
		log.Debug("Error reading configuration file at `%s`: `%s`. Using default configuration\n", configFilePath, err)
		return config
	}

	log.Debug("Loaded configuration from `%s`\n", configFilePath)
	return config
}

// GetConfig returns the process-wide configuration, loading it on first use.
func GetConfig() Config {
	if config == nil {
		loadedConfig := loadConfiguration()
		config = &loadedConfig
	}
	return *config
}
