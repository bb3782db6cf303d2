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

// Package processor reads input lines, passes them through the expression
// pipeline and reports results to the standard output, to the storage and to
// Kafka topic. Metrics about processed lines are pushed to Prometheus push
// gateway at the end of the run.
package processor

// Generated documentation is available at:
// https://pkg.go.dev/github.com/RedHatInsights/expression-evaluator/processor

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/expression-evaluator/conf"
	"github.com/RedHatInsights/expression-evaluator/evaluator"
	"github.com/RedHatInsights/expression-evaluator/producer"
	"github.com/RedHatInsights/expression-evaluator/producer/disabled"
	"github.com/RedHatInsights/expression-evaluator/producer/kafka"
	"github.com/RedHatInsights/expression-evaluator/types"
)

// Exit codes
const (
	// ExitStatusOK means that the tool finished with success
	ExitStatusOK = iota
	// ExitStatusConfiguration is an error code related to program configuration
	ExitStatusConfiguration
	// ExitStatusInputError is returned when input can't be opened or read
	ExitStatusInputError
	// ExitStatusStorageError is returned in case of any storage-related error
	ExitStatusStorageError
	// ExitStatusKafkaBrokerError is for kafka broker connection establishment errors
	ExitStatusKafkaBrokerError
	// ExitStatusMetricsError is raised when prometheus metrics cannot be pushed
	ExitStatusMetricsError
	// ExitStatusCleanerError is raised when clean operation is not successful
	ExitStatusCleanerError
)

// Messages
const (
	separator                = "------------------------------------------------------------"
	operationFailedMessage   = "Operation failed"
	invalidJSONContent       = "The provided content cannot be encoded as JSON."
	metricsPushFailedMessage = "Couldn't push prometheus metrics"
	sinkFailedMessage        = "Unable to pass expression record"
)

// output is where the per-line report is written
var output io.Writer = os.Stdout

// Summary contains statistic about one run
type Summary struct {
	Lines            int
	Rejected         int
	TokenizeFailures int
	ConvertFailures  int
	EvaluateFailures int
	Evaluated        int
	SinkErrors       int
}

// LineProcessor passes lines one by one through the pipeline
type LineProcessor struct {
	Pipeline evaluator.Pipeline

	// Precision is number of decimal places of printed results
	Precision int

	// MaxLineLength is the longest accepted line in bytes without line
	// terminator, length is not checked when it is not set
	MaxLineLength int

	BatchID types.BatchID
	Sinks   []Sink
}

// ProcessLines reads all lines from reader and writes report about each of
// them into writer. Failure of one line never stops the processing, only
// I/O errors do. Line longer than MaxLineLength is skipped and reported as
// invalid expression.
func (p *LineProcessor) ProcessLines(reader io.Reader, writer io.Writer) (Summary, error) {
	var summary Summary

	input := bufio.NewReader(reader)

	for {
		line, tooLong, err := readLine(input, p.MaxLineLength)
		if err != nil && err != io.EOF {
			return summary, &InputError{Line: summary.Lines, Err: err}
		}
		if err == io.EOF && line == "" && !tooLong {
			return summary, nil
		}

		summary.Lines++
		LinesRead.Inc()

		var record types.ExpressionRecord
		if tooLong {
			record = p.rejectTooLongLine(types.LineNumber(summary.Lines))
		} else {
			record = p.Pipeline.Process(types.LineNumber(summary.Lines), line)
		}
		summary.update(&record)

		if err := WriteRecord(writer, &record, p.Precision); err != nil {
			return summary, err
		}

		summary.SinkErrors += p.forward(&record)

		if err == io.EOF {
			return summary, nil
		}
	}
}

// readLine reads one line without its terminator. When the line is longer
// than maxLength bytes (and maxLength is set) the rest of the line is
// discarded and tooLong is set.
func readLine(reader *bufio.Reader, maxLength int) (line string, tooLong bool, err error) {
	var buffer []byte

	for {
		chunk, err := reader.ReadSlice('\n')
		if !tooLong {
			buffer = append(buffer, chunk...)
			if maxLength > 0 && len(trimLineEnd(buffer)) > maxLength {
				tooLong = true
				buffer = nil
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return string(trimLineEnd(buffer)), tooLong, err
	}
}

// trimLineEnd strips trailing LF or CR LF
func trimLineEnd(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r"))
}

// rejectTooLongLine prepares record for line exceeding the length limit
func (p *LineProcessor) rejectTooLongLine(lineNumber types.LineNumber) types.ExpressionRecord {
	log.Debug().
		Int("line", int(lineNumber)).
		Int("max length", p.MaxLineLength).
		Msg("Line is too long")
	return types.ExpressionRecord{
		LineNumber: lineNumber,
		Stage:      types.StageRejected,
		Err: &evaluator.StructuralError{
			Reason: fmt.Sprintf("line longer than %d bytes", p.MaxLineLength),
		},
	}
}

// forward passes the record to all sinks and returns number of failures
func (p *LineProcessor) forward(record *types.ExpressionRecord) int {
	failures := 0
	processedAt := types.Timestamp(time.Now())

	for _, sink := range p.Sinks {
		err := sink.Consume(p.BatchID, record, processedAt)
		if err != nil {
			failures++
			log.Error().
				Err(err).
				Str("sink", sink.Name()).
				Int("line", int(record.LineNumber)).
				Msg(sinkFailedMessage)
		}
	}
	return failures
}

// update updates statistic and metrics by one processed record
func (s *Summary) update(record *types.ExpressionRecord) {
	if record.Valid() {
		s.Evaluated++
		ExpressionsEvaluated.Inc()
		return
	}

	switch record.Stage {
	case types.StageRejected:
		s.Rejected++
		LinesRejected.Inc()
	case types.StageTokenize:
		s.TokenizeFailures++
		TokenizationFailures.Inc()
	case types.StageConvert:
		s.ConvertFailures++
		ConversionFailures.Inc()
	case types.StageEvaluate:
		s.EvaluateFailures++
		EvaluationFailures.Inc()
	}
}

// logSummary logs statistic about the whole run
func logSummary(batchID types.BatchID, summary Summary) {
	log.Info().
		Str(BatchIDMessage, string(batchID)).
		Int("lines", summary.Lines).
		Int("evaluated", summary.Evaluated).
		Int("rejected", summary.Rejected).
		Int("tokenize failures", summary.TokenizeFailures).
		Int("convert failures", summary.ConvertFailures).
		Int("evaluate failures", summary.EvaluateFailures).
		Int("sink errors", summary.SinkErrors).
		Msg("Processing summary")
}

// registerMetrics registers metrics using the provided namespace, if any
func registerMetrics(metricsConfig conf.MetricsConfiguration) {
	if metricsConfig.Namespace != "" {
		log.Info().Str("namespace", metricsConfig.Namespace).Msg("Setting metrics namespace")
		AddMetricsWithNamespaceAndSubsystem(
			metricsConfig.Namespace,
			metricsConfig.Subsystem)
	}
}

func databaseOperationSpecified(cliFlags types.CliFlags) bool {
	return cliFlags.InitDatabase ||
		cliFlags.PrintOldRecordsForCleanup ||
		cliFlags.PerformOldRecordsCleanup
}

func deleteOperationSpecified(cliFlags types.CliFlags) bool {
	return cliFlags.PrintOldRecordsForCleanup ||
		cliFlags.PerformOldRecordsCleanup
}

func closeStorage(storage Storage) error {
	err := storage.Close()
	if err != nil {
		log.Err(err).Msg(operationFailedMessage)
		return err
	}
	return nil
}

func closeProducer(notifier producer.Producer) error {
	err := notifier.Close()
	if err != nil {
		log.Err(err).Msg(operationFailedMessage)
		return err
	}
	return nil
}

// performDatabaseOperation handles operations selected on command line that
// work with the database only
func performDatabaseOperation(config *conf.ConfigStruct, cliFlags types.CliFlags) int {
	storage, err := NewStorage(conf.GetStorageConfiguration(config))
	if err != nil {
		StorageSetupErrors.Inc()
		log.Err(err).Msg(operationFailedMessage)
		return ExitStatusStorageError
	}
	defer func() {
		_ = closeStorage(storage)
	}()

	if cliFlags.InitDatabase {
		err := storage.InitDatabase()
		if err != nil {
			return ExitStatusStorageError
		}
		log.Info().Msg("Database initialized")
	}

	if deleteOperationSpecified(cliFlags) {
		err := PerformCleanupOperation(storage, cliFlags)
		if err != nil {
			return ExitStatusCleanerError
		}
	}
	return ExitStatusOK
}

// setupStorageSink opens storage connection when storage is enabled
func setupStorageSink(config *conf.ConfigStruct) (Storage, error) {
	storageConfig := conf.GetStorageConfiguration(config)
	if !storageConfig.Enabled {
		log.Info().Msg("Storage is disabled")
		return nil, nil
	}

	storage, err := NewStorage(storageConfig)
	if err != nil {
		StorageSetupErrors.Inc()
		log.Err(err).Msg(operationFailedMessage)
		return nil, err
	}

	err = storage.InitDatabase()
	if err != nil {
		StorageSetupErrors.Inc()
		_ = closeStorage(storage)
		return nil, err
	}
	return storage, nil
}

// setupProducerSink connects to Kafka broker when producer is enabled,
// producer that drops all messages is returned otherwise
func setupProducerSink(config *conf.ConfigStruct) (producer.Producer, error) {
	if !conf.GetKafkaBrokerConfiguration(config).Enabled {
		log.Info().Msg("Kafka producer is disabled")
		return &disabled.Producer{}, nil
	}

	kafkaProducer, err := kafka.New(config)
	if err != nil {
		ProducerSetupErrors.Inc()
		log.Err(err).Msg(operationFailedMessage)
		return nil, &KafkaBrokerError{}
	}
	return kafkaProducer, nil
}

// Run function is entry point to the processor. It returns exit status of
// the whole run.
func Run(config conf.ConfigStruct, cliFlags types.CliFlags) (status int) {
	log.Info().Msg("Processor started")
	log.Info().Msg(separator)

	metricsConfig := conf.GetMetricsConfiguration(&config)
	registerMetrics(metricsConfig)

	if cliFlags.MaxAge == "" {
		cliFlags.MaxAge = conf.GetCleanerConfiguration(&config).MaxAge
	}

	if databaseOperationSpecified(cliFlags) {
		return performDatabaseOperation(&config, cliFlags)
	}

	inputConfig := conf.GetInputConfiguration(&config)
	inputFile := cliFlags.InputFile
	if inputFile == "" {
		inputFile = inputConfig.FileName
	}

	input, err := os.Open(inputFile) // #nosec G304
	if err != nil {
		log.Err(err).Str("file", inputFile).Msg("Unable to open input file")
		return ExitStatusInputError
	}
	defer func() {
		_ = input.Close()
	}()

	status = ExitStatusOK
	batchID := types.BatchID(uuid.New().String())
	evaluatorConfig := conf.GetEvaluatorConfiguration(&config)

	lineProcessor := LineProcessor{
		Pipeline: evaluator.NewPipeline(evaluator.Limits{
			MaxTokens:        evaluatorConfig.MaxTokens,
			MaxLiteralLength: evaluatorConfig.MaxLiteralLength,
		}),
		Precision:     evaluatorConfig.Precision,
		MaxLineLength: inputConfig.MaxLineLength,
		BatchID:       batchID,
	}

	log.Info().Msg("Preparing storage")
	storage, err := setupStorageSink(&config)
	if err != nil {
		return ExitStatusStorageError
	}
	if storage != nil {
		lineProcessor.Sinks = append(lineProcessor.Sinks, StorageSink{Storage: storage})
		defer func() {
			if closeStorage(storage) != nil {
				status = ExitStatusStorageError
			}
		}()
	}

	log.Info().Msg("Preparing Kafka producer")
	kafkaProducer, err := setupProducerSink(&config)
	if err != nil {
		return ExitStatusKafkaBrokerError
	}
	defer func() {
		if closeProducer(kafkaProducer) != nil {
			status = ExitStatusKafkaBrokerError
		}
	}()
	if _, dropsMessages := kafkaProducer.(*disabled.Producer); !dropsMessages {
		lineProcessor.Sinks = append(lineProcessor.Sinks, ProducerSink{
			Producer:  kafkaProducer,
			Precision: evaluatorConfig.Precision,
		})
	}

	log.Info().Msg(separator)
	log.Info().Str(BatchIDMessage, string(batchID)).Str("file", inputFile).Msg("Processing input")

	summary, err := lineProcessor.ProcessLines(input, output)
	logSummary(batchID, summary)
	if err != nil {
		log.Err(err).Msg(operationFailedMessage)
		status = ExitStatusInputError
	}

	log.Info().Msg(separator)
	log.Info().Msg("Processor finished. Pushing metrics to the configured prometheus gateway.")
	err = PushMetrics(metricsConfig)
	if err != nil && status == ExitStatusOK {
		status = ExitStatusMetricsError
	}

	return status
}
