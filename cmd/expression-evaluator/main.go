/*
Copyright © 2021, 2022 Red Hat, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Entry point to the expression evaluator.
//
// The evaluator reads arithmetic expressions written in infix notation, one
// expression per line, converts each of them into postfix notation and
// evaluates the postfix form. For every input line the postfix listing and
// the result are printed on standard output. Lines that can not be processed
// are reported as invalid expressions and the processing continues with the
// next line.
//
// Optionally all processed expressions are recorded in SQL database
// (SQLite, PostgreSQL or MySQL) and sent as JSON messages to the configured
// Kafka topic. Metrics about processed lines are pushed to Prometheus push
// gateway at the end of each run.
package main

// Generated documentation is available at:
// https://pkg.go.dev/github.com/RedHatInsights/expression-evaluator/cmd/expression-evaluator

import (
	"os"

	"github.com/RedHatInsights/insights-operator-utils/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/expression-evaluator/conf"
	"github.com/RedHatInsights/expression-evaluator/processor"
)

// Configuration-related constants
const (
	loadConfigurationMessage = "Load configuration"
)

func main() {
	cliFlags := setupCliFlags()
	checkArgs(&cliFlags)

	// config has exactly the same structure as *.toml file
	config, err := conf.LoadConfiguration(conf.ConfigFileEnvVariableName, conf.DefaultConfigFileName)
	if err != nil {
		log.Err(err).Msg(loadConfigurationMessage)
		os.Exit(processor.ExitStatusConfiguration)
	}

	err = logger.InitZerolog(
		conf.GetLoggingConfiguration(&config),
		conf.GetCloudWatchConfiguration(&config),
		conf.GetSentryLoggingConfiguration(&config),
		conf.GetKafkaZerologConfiguration(&config),
	)
	if err != nil {
		log.Err(err).Msg(loadConfigurationMessage)
		os.Exit(processor.ExitStatusConfiguration)
	}

	// configuration is loaded, so it would be possible to display it if
	// asked by user
	if cliFlags.ShowConfiguration {
		showConfiguration(&config)
		os.Exit(processor.ExitStatusOK)
	}

	loggingConfig := conf.GetLoggingConfiguration(&config)

	// report goes to stdout, logs need to stay on stderr
	if loggingConfig.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	logLevel := convertLogLevel(loggingConfig.LogLevel)
	zerolog.SetGlobalLevel(logLevel)
	log.Info().
		Str("configured", loggingConfig.LogLevel).
		Int("internal", int(logLevel)).
		Msg("Log level")

	if cliFlags.Verbose {
		showConfiguration(&config)
	}

	os.Exit(processor.Run(config, cliFlags))
}
