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

package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/expression-evaluator/conf"
	"github.com/RedHatInsights/expression-evaluator/processor"
	"github.com/RedHatInsights/expression-evaluator/types"
)

const (
	versionMessage = "Expression evaluator version 1.0"
	authorsMessage = "Expression evaluator developers, Red Hat Inc."
)

// showVersion function displays version information.
func showVersion() {
	fmt.Println(versionMessage)
}

// showAuthors function displays information about authors.
func showAuthors() {
	fmt.Println(authorsMessage)
}

// setupCliFlags defines and parses all command line options
func setupCliFlags() types.CliFlags {
	var cliFlags types.CliFlags
	flag.BoolVar(&cliFlags.ShowVersion, "show-version", false, "show version and exit")
	flag.BoolVar(&cliFlags.ShowAuthors, "show-authors", false, "show authors and exit")
	flag.BoolVar(&cliFlags.ShowConfiguration, "show-configuration", false, "show configuration and exit")
	flag.BoolVar(&cliFlags.Verbose, "verbose", false, "verbose logs")
	flag.StringVar(&cliFlags.InputFile, "input", "", "file with expressions, overrides input file from configuration")
	flag.BoolVar(&cliFlags.InitDatabase, "init-db", false, "create table for expression records and exit")
	flag.BoolVar(&cliFlags.PrintOldRecordsForCleanup, "print-old-records-for-cleanup", false, "print old records to be cleaned up")
	flag.BoolVar(&cliFlags.PerformOldRecordsCleanup, "old-records-cleanup", false, "perform old records clean up")
	flag.StringVar(&cliFlags.MaxAge, "max-age", "", "max age for displaying/cleaning old records, for example 720h")
	flag.Parse()
	return cliFlags
}

// showConfiguration function displays actual configuration.
func showConfiguration(config *conf.ConfigStruct) {
	inputConfig := conf.GetInputConfiguration(config)
	log.Info().
		Str("File name", inputConfig.FileName).
		Int("Max line length", inputConfig.MaxLineLength).
		Msg("Input configuration")

	evaluatorConfig := conf.GetEvaluatorConfiguration(config)
	log.Info().
		Int("Max tokens", evaluatorConfig.MaxTokens).
		Int("Max literal length", evaluatorConfig.MaxLiteralLength).
		Int("Precision", evaluatorConfig.Precision).
		Msg("Evaluator configuration")

	brokerConfig := conf.GetKafkaBrokerConfiguration(config)
	log.Info().
		Bool("Enabled", brokerConfig.Enabled).
		Str("Addresses", brokerConfig.Addresses).
		Str("SecurityProtocol", brokerConfig.SecurityProtocol).
		Str("SaslMechanism", brokerConfig.SaslMechanism).
		Str("Topic", brokerConfig.Topic).
		Str("Timeout", brokerConfig.Timeout.String()).
		Msg("Broker configuration")

	storageConfig := conf.GetStorageConfiguration(config)
	log.Info().
		Bool("Enabled", storageConfig.Enabled).
		Str("Driver", storageConfig.Driver).
		Str("SQLite data source", storageConfig.SQLiteDataSource).
		Str("DB Name", storageConfig.PGDBName).
		Str("Username", storageConfig.PGUsername). // password is omitted on purpose
		Str("Host", storageConfig.PGHost).
		Int("Port", storageConfig.PGPort).
		Bool("LogSQLQueries", storageConfig.LogSQLQueries).
		Str("Parameters", storageConfig.PGParams).
		Str("MySQL parameters", storageConfig.MySQLParams).
		Msg("Storage configuration")

	loggingConfig := conf.GetLoggingConfiguration(config)
	log.Info().
		Str("Level", loggingConfig.LogLevel).
		Bool("Pretty colored debug logging", loggingConfig.Debug).
		Msg("Logging configuration")

	metricsConfig := conf.GetMetricsConfiguration(config)

	// Authentication token is omitted on purpose
	log.Info().
		Str("Job", metricsConfig.Job).
		Str("Namespace", metricsConfig.Namespace).
		Str("Subsystem", metricsConfig.Subsystem).
		Str("Push Gateway", metricsConfig.GatewayURL).
		Int("Retries", metricsConfig.Retries).
		Str("Retry after", metricsConfig.RetryAfter.String()).
		Msg("Metrics configuration")

	cleanerConfig := conf.GetCleanerConfiguration(config)
	log.Info().
		Str("Max age", cleanerConfig.MaxAge).
		Msg("Cleaner configuration")
}

// checkArgs function handles command line options passed to the process
func checkArgs(args *types.CliFlags) {
	switch {
	case args.ShowVersion:
		showVersion()
		os.Exit(processor.ExitStatusOK)
	case args.ShowAuthors:
		showAuthors()
		os.Exit(processor.ExitStatusOK)
	case args.ShowConfiguration:
		// config not loaded yet, just skip the rest of function for
		// now
		return
	case args.PerformOldRecordsCleanup && args.PrintOldRecordsForCleanup:
		log.Error().Msg("Old records can be either printed or cleaned up, not both")
		os.Exit(processor.ExitStatusConfiguration)
	default:
	}
}

func convertLogLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	}

	return zerolog.DebugLevel
}
