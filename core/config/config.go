package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"

	TokenizerFields = "fields"
	TokenizerShlex  = "shlex"

	ColorAlways = "always"
	ColorAuto   = "auto"
	ColorNever  = "never"
)

type Configuration struct {
	Prompt string `json:"prompt"`

	LineBufferSize int `json:"line_buffer_size" validate:"gte=1"`
	MaxLineSize    int `json:"max_line_size" validate:"gte=0"`

	TokenBufferSize int `json:"token_buffer_size" validate:"gte=1"`
	MaxTokens       int `json:"max_tokens" validate:"gte=0"`

	Tokenizer string `json:"tokenizer" validate:"oneof=fields shlex"`

	Readline    bool   `json:"readline"`
	HistoryFile string `json:"history_file"`

	Color string `json:"color" validate:"oneof=always auto never"`

	EventLog string `json:"event_log"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Default returns a copy of the built-in configuration.
func Default() *Configuration {
	return defaultConfig()
}

// DefaultData returns the raw built-in configuration file.
func DefaultData() []byte {
	return append([]byte(nil), defaultConfigData...)
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
