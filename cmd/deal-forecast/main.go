package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/deal-forecast/internal/config"
	"github.com/iwvelando/deal-forecast/internal/forecast"
	"github.com/iwvelando/deal-forecast/internal/logging"
	"github.com/iwvelando/deal-forecast/internal/projection"
	"github.com/iwvelando/deal-forecast/pkg/constants"
	"github.com/iwvelando/deal-forecast/pkg/output"
	"github.com/iwvelando/deal-forecast/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, markdown")
	modeFlag := flag.String("mode", "", "display mode override: cumulative, annual")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	modeValue := conf.Output.Mode
	if *modeFlag != "" {
		modeValue = *modeFlag
	}
	mode, err := projection.ParseDisplayMode(modeValue)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	results := forecast.GetForecast(logger, *conf)

	switch outputFormat {
	case constants.OutputFormatPretty:
		output.PrettyFormat(os.Stdout, results, mode)
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, results, mode)
	case constants.OutputFormatMarkdown:
		output.MarkdownFormat(os.Stdout, results, mode)
	}
}
