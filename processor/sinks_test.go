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

package processor_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/RedHatInsights/expression-evaluator/processor"
	"github.com/RedHatInsights/expression-evaluator/tests/mocks"
	"github.com/RedHatInsights/expression-evaluator/types"
)

var testTimestamp = types.Timestamp(time.Date(2022, time.March, 1, 12, 30, 0, 0, time.UTC))

// TestNewResultMessageValid checks payload for evaluated expression
func TestNewResultMessageValid(t *testing.T) {
	record := processExpression(4, "10 / 4")

	msg := processor.NewResultMessage(testBatchID, &record, 3, testTimestamp)

	assert.Equal(t, types.ResultMessage{
		BatchID:    testBatchID,
		LineNumber: 4,
		Expression: "10 / 4",
		Postfix:    "10 4 /",
		Result:     "2.500",
		Valid:      true,
		Stage:      "done",
		Timestamp:  "2022-03-01T12:30:00Z",
	}, msg)
}

// TestNewResultMessageInvalid checks payload for expression that was not
// converted to postfix notation
func TestNewResultMessageInvalid(t *testing.T) {
	record := processExpression(5, "(1 + 2")

	msg := processor.NewResultMessage(testBatchID, &record, 2, testTimestamp)

	assert.False(t, msg.Valid)
	assert.Empty(t, msg.Result)
	assert.Empty(t, msg.Postfix)
	assert.Equal(t, "convert", msg.Stage)
	assert.Equal(t, record.Err.Error(), msg.Error)
}

// TestStorageSinkConsume checks that record is written into storage
func TestStorageSinkConsume(t *testing.T) {
	record := processExpression(1, "1 + 1")

	storage := mocks.Storage{}
	storage.On("WriteExpressionRecord", testBatchID, &record, testTimestamp).Return(nil)

	sink := processor.StorageSink{Storage: &storage}
	assert.Equal(t, "storage", sink.Name())
	assert.NoError(t, sink.Consume(testBatchID, &record, testTimestamp))

	storage.AssertExpectations(t)
}

// TestStorageSinkConsumeOnError checks that storage error is returned
func TestStorageSinkConsumeOnError(t *testing.T) {
	record := processExpression(1, "1 + 1")

	storage := mocks.Storage{}
	storage.On("WriteExpressionRecord", testBatchID, &record, testTimestamp).Return(errors.New("write error"))

	sink := processor.StorageSink{Storage: &storage}
	assert.EqualError(t, sink.Consume(testBatchID, &record, testTimestamp), "write error")

	storage.AssertExpectations(t)
}

// TestProducerSinkConsume checks that JSON message is produced
func TestProducerSinkConsume(t *testing.T) {
	record := processExpression(2, "2 ** 10")

	var produced types.ResultMessage

	notifier := mocks.Producer{}
	notifier.On("ProduceMessage", mock.AnythingOfType("types.ProducerMessage")).
		Run(func(args mock.Arguments) {
			err := json.Unmarshal(args.Get(0).(types.ProducerMessage), &produced)
			assert.NoError(t, err)
		}).
		Return(int32(0), int64(1), nil)

	sink := processor.ProducerSink{Producer: &notifier, Precision: 0}
	assert.Equal(t, "producer", sink.Name())
	assert.NoError(t, sink.Consume(testBatchID, &record, testTimestamp))

	assert.Equal(t, testBatchID, produced.BatchID)
	assert.Equal(t, types.LineNumber(2), produced.LineNumber)
	assert.Equal(t, "2 10 ^", produced.Postfix)
	assert.Equal(t, "1024", produced.Result)
	assert.True(t, produced.Valid)

	notifier.AssertExpectations(t)
}

// TestProducerSinkConsumeOnError checks that producer error is returned
func TestProducerSinkConsumeOnError(t *testing.T) {
	record := processExpression(2, "1 / 0")

	notifier := mocks.Producer{}
	notifier.On("ProduceMessage", mock.Anything).
		Return(int32(-1), int64(-1), errors.New("producer error"))

	sink := processor.ProducerSink{Producer: &notifier, Precision: 2}
	assert.EqualError(t, sink.Consume(testBatchID, &record, testTimestamp), "producer error")

	notifier.AssertExpectations(t)
}
