/*
Copyright © 2021 Red Hat, Inc.

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

package conf

// This source file contains definition of data type named ConfigStruct that
// represents configuration of Expression evaluator. This source file also
// contains function named LoadConfiguration that can be used to load
// configuration from provided configuration file and/or from environment
// variables. Additionally several specific functions named
// GetInputConfiguration, GetEvaluatorConfiguration, GetStorageConfiguration,
// GetLoggingConfiguration, GetKafkaBrokerConfiguration and
// GetMetricsConfiguration are to be used to return specific configuration
// options.

// Generated documentation is available at:
// https://pkg.go.dev/github.com/RedHatInsights/expression-evaluator/conf

// Default name of configuration file is config.toml
// It can be changed via environment variable EXPRESSION_EVALUATOR_CONFIG_FILE

// An example of configuration file that can be used in devel environment:
//
// [input]
// file_name = "input.txt"
// max_line_length = 8192
//
// [evaluator]
// max_tokens = 1000
// max_literal_length = 63
// precision = 2
//
// [storage]
// enabled = true
// db_driver = "sqlite3"
// sqlite_datasource = "expressions.db"
//
// [logging]
// debug = true
// log_level = ""
//
// Environment variables that can be used to override configuration file
// settings are prefixed by EXPRESSION_EVALUATOR_, for example
// EXPRESSION_EVALUATOR_STORAGE__DB_DRIVER

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/RedHatInsights/insights-operator-utils/logger"
	clowder "github.com/redhatinsights/app-common-go/pkg/api/v1"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Common constants used by the configuration loader
const (
	// ConfigFileEnvVariableName is name of environment variable that
	// contains name of configuration file
	ConfigFileEnvVariableName = "EXPRESSION_EVALUATOR_CONFIG_FILE"

	// DefaultConfigFileName is default name of configuration file
	DefaultConfigFileName = "config"

	// DefaultInputFileName is used when no input file is configured
	DefaultInputFileName = "input.txt"

	// DefaultPrecision is number of decimal places of printed results
	DefaultPrecision = 2

	envPrefix = "EXPRESSION_EVALUATOR_"
)

// ConfigStruct is a structure holding the whole expression evaluator
// configuration
type ConfigStruct struct {
	Logging      logger.LoggingConfiguration       `mapstructure:"logging" toml:"logging"`
	CloudWatch   logger.CloudWatchConfiguration    `mapstructure:"cloudwatch" toml:"cloudwatch"`
	Sentry       logger.SentryLoggingConfiguration `mapstructure:"sentry" toml:"sentry"`
	KafkaZerolog logger.KafkaZerologConfiguration  `mapstructure:"kafka_zerolog" toml:"kafka_zerolog"`
	Input        InputConfiguration                `mapstructure:"input" toml:"input"`
	Evaluator    EvaluatorConfiguration            `mapstructure:"evaluator" toml:"evaluator"`
	Storage      StorageConfiguration              `mapstructure:"storage" toml:"storage"`
	Kafka        KafkaConfiguration                `mapstructure:"kafka_broker" toml:"kafka_broker"`
	Metrics      MetricsConfiguration              `mapstructure:"metrics" toml:"metrics"`
	Cleaner      CleanerConfiguration              `mapstructure:"cleaner" toml:"cleaner"`
}

// InputConfiguration represents configuration of line source
type InputConfiguration struct {
	// FileName is name of file with one expression per line
	FileName string `mapstructure:"file_name" toml:"file_name"`

	// MaxLineLength is the longest accepted input line in bytes, default
	// buffer size of bufio.Scanner is used when not set
	MaxLineLength int `mapstructure:"max_line_length" toml:"max_line_length"`
}

// EvaluatorConfiguration represents configuration of expression pipeline
type EvaluatorConfiguration struct {
	MaxTokens        int `mapstructure:"max_tokens"         toml:"max_tokens"`
	MaxLiteralLength int `mapstructure:"max_literal_length" toml:"max_literal_length"`
	Precision        int `mapstructure:"precision"          toml:"precision"`
}

// StorageConfiguration represents configuration of data storage where all
// processed expressions are recorded
type StorageConfiguration struct {
	Enabled          bool   `mapstructure:"enabled"           toml:"enabled"`
	Driver           string `mapstructure:"db_driver"         toml:"db_driver"`
	SQLiteDataSource string `mapstructure:"sqlite_datasource" toml:"sqlite_datasource"`
	PGUsername       string `mapstructure:"pg_username"       toml:"pg_username"`
	PGPassword       string `mapstructure:"pg_password"       toml:"pg_password"`
	PGHost           string `mapstructure:"pg_host"           toml:"pg_host"`
	PGPort           int    `mapstructure:"pg_port"           toml:"pg_port"`
	PGDBName         string `mapstructure:"pg_db_name"        toml:"pg_db_name"`
	PGParams         string `mapstructure:"pg_params"         toml:"pg_params"`
	MySQLParams      string `mapstructure:"mysql_params"      toml:"mysql_params"`
	LogSQLQueries    bool   `mapstructure:"log_sql_queries"   toml:"log_sql_queries"`
}

// KafkaConfiguration represents configuration of Kafka brokers and topics
type KafkaConfiguration struct {
	Enabled          bool          `mapstructure:"enabled"           toml:"enabled"`
	Addresses        string        `mapstructure:"addresses"         toml:"addresses"`
	SecurityProtocol string        `mapstructure:"security_protocol" toml:"security_protocol"`
	CertPath         string        `mapstructure:"cert_path"         toml:"cert_path"`
	SaslMechanism    string        `mapstructure:"sasl_mechanism"    toml:"sasl_mechanism"`
	SaslUsername     string        `mapstructure:"sasl_username"     toml:"sasl_username"`
	SaslPassword     string        `mapstructure:"sasl_password"     toml:"sasl_password"`
	Topic            string        `mapstructure:"topic"             toml:"topic"`
	Timeout          time.Duration `mapstructure:"timeout"           toml:"timeout"`
}

// MetricsConfiguration holds metrics related configuration
type MetricsConfiguration struct {
	Job              string        `mapstructure:"job_name"           toml:"job_name"`
	Namespace        string        `mapstructure:"namespace"          toml:"namespace"`
	Subsystem        string        `mapstructure:"subsystem"          toml:"subsystem"`
	GatewayURL       string        `mapstructure:"gateway_url"        toml:"gateway_url"`
	GatewayAuthToken string        `mapstructure:"gateway_auth_token" toml:"gateway_auth_token"`
	Retries          int           `mapstructure:"retries"            toml:"retries"`
	RetryAfter       time.Duration `mapstructure:"retry_after"        toml:"retry_after"`
}

// CleanerConfiguration represents configuration for the cleaner
type CleanerConfiguration struct {
	// MaxAge is max age of records to be cleaned, in
	// format accepted by time.ParseDuration
	MaxAge string `mapstructure:"max_age" toml:"max_age"`
}

// LoadConfiguration loads configuration from defaultConfigFile, file set in
// configFileEnvVariableName or from env
func LoadConfiguration(configFileEnvVariableName, defaultConfigFile string) (ConfigStruct, error) {
	// keys missing in configuration file keep these values
	config := ConfigStruct{
		Input: InputConfiguration{
			FileName: DefaultInputFileName,
		},
		Evaluator: EvaluatorConfiguration{
			Precision: DefaultPrecision,
		},
	}

	v := viper.New()

	// env. variable holding name of configuration file
	configFile, specified := os.LookupEnv(configFileEnvVariableName)
	if specified {
		// we need to separate the directory name and filename without
		// extension
		directory, basename := filepath.Split(configFile)
		file := strings.TrimSuffix(basename, filepath.Ext(basename))
		// parse the configuration
		v.SetConfigName(file)
		v.AddConfigPath(directory)
	} else {
		log.Info().Str("filename", defaultConfigFile).Msg("Parsing configuration file")
		// parse the configuration
		v.SetConfigName(defaultConfigFile)
		v.AddConfigPath(".")
	}

	// try to read the whole configuration
	err := v.ReadInConfig()
	if _, isNotFoundError := err.(viper.ConfigFileNotFoundError); !specified && isNotFoundError {
		// If config file is not present (which might be correct in
		// some environment) we need to read configuration from
		// environment variables The problem is that Viper is not smart
		// enough to understand the structure of config by itself, so
		// we need to read fake config file
		fakeTomlConfigWriter := new(bytes.Buffer)

		err := toml.NewEncoder(fakeTomlConfigWriter).Encode(config)
		if err != nil {
			return config, err
		}

		fakeTomlConfig := fakeTomlConfigWriter.String()

		v.SetConfigType("toml")

		err = v.ReadConfig(strings.NewReader(fakeTomlConfig))
		if err != nil {
			return config, err
		}
	} else if err != nil {
		// error is processed on caller side
		return config, fmt.Errorf("fatal error config file: %s", err)
	}

	// override config from env if there's variable in env
	v.AutomaticEnv()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "__"))

	err = v.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if clowder.IsClowderEnabled() {
		// can not use Zerolog at this moment!
		fmt.Println("Clowder is enabled")
		updateConfigFromClowder(&config)
	}

	setDefaults(&config)

	// everything's should be ok
	return config, nil
}

// setDefaults replaces values that can not be used. Zero precision is
// valid, results are printed as integers then.
func setDefaults(config *ConfigStruct) {
	if config.Input.FileName == "" {
		config.Input.FileName = DefaultInputFileName
	}
	if config.Evaluator.Precision < 0 {
		config.Evaluator.Precision = DefaultPrecision
	}
}

// updateConfigFromClowder function replaces Kafka broker and database
// coordinates by values provided by Clowder
func updateConfigFromClowder(config *ConfigStruct) {
	if clowder.LoadedConfig == nil {
		fmt.Println("Clowder configuration has not been loaded")
		return
	}

	if clowder.LoadedConfig.Kafka == nil || len(clowder.LoadedConfig.Kafka.Brokers) == 0 {
		fmt.Println("No Kafka brokers available from Clowder")
	} else {
		broker := clowder.LoadedConfig.Kafka.Brokers[0]
		config.Kafka.Addresses = broker.Hostname
		if broker.Port != nil {
			config.Kafka.Addresses = fmt.Sprintf("%s:%d", broker.Hostname, *broker.Port)
		}

		// topic name might be remapped by Clowder
		if topic, found := clowder.KafkaTopics[config.Kafka.Topic]; found {
			config.Kafka.Topic = topic.Name
		}
	}

	if clowder.LoadedConfig.Database == nil {
		fmt.Println("No database configuration available from Clowder")
		return
	}
	database := clowder.LoadedConfig.Database
	config.Storage.PGDBName = database.Name
	config.Storage.PGHost = database.Hostname
	config.Storage.PGPort = database.Port
	config.Storage.PGUsername = database.Username
	config.Storage.PGPassword = database.Password
}

// GetLoggingConfiguration returns logging configuration
func GetLoggingConfiguration(config *ConfigStruct) logger.LoggingConfiguration {
	return config.Logging
}

// GetCloudWatchConfiguration returns cloudwatch configuration
func GetCloudWatchConfiguration(config *ConfigStruct) logger.CloudWatchConfiguration {
	return config.CloudWatch
}

// GetSentryLoggingConfiguration returns the sentry log configuration
func GetSentryLoggingConfiguration(config *ConfigStruct) logger.SentryLoggingConfiguration {
	return config.Sentry
}

// GetKafkaZerologConfiguration returns the kafkazero log configuration
func GetKafkaZerologConfiguration(config *ConfigStruct) logger.KafkaZerologConfiguration {
	return config.KafkaZerolog
}

// GetInputConfiguration returns input configuration
func GetInputConfiguration(config *ConfigStruct) InputConfiguration {
	return config.Input
}

// GetEvaluatorConfiguration returns expression evaluator configuration
func GetEvaluatorConfiguration(config *ConfigStruct) EvaluatorConfiguration {
	return config.Evaluator
}

// GetStorageConfiguration returns storage configuration
func GetStorageConfiguration(config *ConfigStruct) StorageConfiguration {
	return config.Storage
}

// GetKafkaBrokerConfiguration returns kafka broker configuration
func GetKafkaBrokerConfiguration(config *ConfigStruct) KafkaConfiguration {
	return config.Kafka
}

// GetMetricsConfiguration returns metrics configuration
func GetMetricsConfiguration(config *ConfigStruct) MetricsConfiguration {
	return config.Metrics
}

// GetCleanerConfiguration returns cleaner configuration
func GetCleanerConfiguration(config *ConfigStruct) CleanerConfiguration {
	return config.Cleaner
}
