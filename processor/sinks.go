/*
Copyright © 2022 Red Hat, Inc.

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

package processor

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/expression-evaluator/evaluator"
	"github.com/RedHatInsights/expression-evaluator/producer"
	"github.com/RedHatInsights/expression-evaluator/types"
)

// Sink receives every processed expression record. An error returned by
// a sink is counted but it does not stop processing.
type Sink interface {
	Name() string
	Consume(batchID types.BatchID, record *types.ExpressionRecord, processedAt types.Timestamp) error
}

// StorageSink writes expression records into storage
type StorageSink struct {
	Storage Storage
}

// Name returns sink name used in logs
func (sink StorageSink) Name() string {
	return "storage"
}

// Consume writes one record into storage
func (sink StorageSink) Consume(batchID types.BatchID, record *types.ExpressionRecord, processedAt types.Timestamp) error {
	err := sink.Storage.WriteExpressionRecord(batchID, record, processedAt)
	if err != nil {
		StorageWriteErrors.Inc()
		return err
	}
	return nil
}

// ProducerSink sends expression records as JSON messages to Kafka
type ProducerSink struct {
	Producer  producer.Producer
	Precision int
}

// Name returns sink name used in logs
func (sink ProducerSink) Name() string {
	return "producer"
}

// Consume produces one message for given record
func (sink ProducerSink) Consume(batchID types.BatchID, record *types.ExpressionRecord, processedAt types.Timestamp) error {
	msg := NewResultMessage(batchID, record, sink.Precision, processedAt)

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		ProducerErrors.Inc()
		log.Error().Err(err).Msg(invalidJSONContent)
		return err
	}

	_, _, err = sink.Producer.ProduceMessage(msgBytes)
	if err != nil {
		ProducerErrors.Inc()
		return err
	}

	MessagesProduced.Inc()
	return nil
}

// NewResultMessage prepares payload describing one processed expression
func NewResultMessage(batchID types.BatchID, record *types.ExpressionRecord, precision int, processedAt types.Timestamp) types.ResultMessage {
	msg := types.ResultMessage{
		BatchID:    batchID,
		LineNumber: record.LineNumber,
		Expression: record.Expression,
		Postfix:    evaluator.FormatPostfix(record.Postfix),
		Valid:      record.Valid(),
		Stage:      record.Stage.String(),
		Timestamp:  time.Time(processedAt).UTC().Format(time.RFC3339Nano),
	}

	if msg.Valid {
		msg.Result = evaluator.FormatResult(record.Result, precision)
	}
	if record.Err != nil {
		msg.Error = record.Err.Error()
	}
	return msg
}
