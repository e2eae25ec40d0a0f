// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"fmt"
	"io"

	"github.com/iwvelando/deal-forecast/internal/projection"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for deal-forecast.
type Configuration struct {
	Deals   []Deal        `yaml:"deals" mapstructure:"deals"`
	Logging LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output  OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level"`           // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format"`         // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format"` // pretty, csv, markdown
	Mode   string `yaml:"mode,omitempty" mapstructure:"mode"`     // cumulative, annual
}

// Deal is one named set of deal parameters to project.
type Deal struct {
	Name   string                `yaml:"name" mapstructure:"name"`
	Active bool                  `yaml:"active" mapstructure:"active"`
	Params projection.DealParams `yaml:"params" mapstructure:"params"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r,
// as used for uploads where no file path exists.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ActiveDeals returns the deals marked active, in configuration order.
func (conf *Configuration) ActiveDeals() []Deal {
	var active []Deal
	for _, deal := range conf.Deals {
		if deal.Active {
			active = append(active, deal)
		}
	}
	return active
}

// ValidateConfiguration returns human-readable warnings about suspicious
// inputs. Warnings never stop a projection.
func (conf *Configuration) ValidateConfiguration() []string {
	validator := conf.ToValidator()
	return validator.ValidateAll()
}
