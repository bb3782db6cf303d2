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

package processor

// File metrics contains all metrics that needs to be exposed to Prometheus and
// indirectly to Grafana.

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/expression-evaluator/conf"
	"github.com/RedHatInsights/expression-evaluator/utils"
)

// Metrics names
const (
	LinesReadName            = "lines_read"
	LinesRejectedName        = "lines_rejected"
	TokenizationFailuresName = "tokenization_failures"
	ConversionFailuresName   = "conversion_failures"
	EvaluationFailuresName   = "evaluation_failures"
	ExpressionsEvaluatedName = "expressions_evaluated"
	StorageSetupErrorsName   = "storage_setup_errors"
	ProducerSetupErrorsName  = "producer_setup_errors"
	StorageWriteErrorsName   = "storage_write_errors"
	ProducerErrorsName       = "producer_errors"
	MessagesProducedName     = "messages_produced"
)

// Metrics helps
const (
	LinesReadHelp            = "The total number of lines read from input"
	LinesRejectedHelp        = "The total number of lines rejected before tokenization"
	TokenizationFailuresHelp = "The total number of expressions that could not be tokenized"
	ConversionFailuresHelp   = "The total number of expressions that could not be converted to postfix notation"
	EvaluationFailuresHelp   = "The total number of postfix expressions that could not be evaluated"
	ExpressionsEvaluatedHelp = "The total number of successfully evaluated expressions"
	StorageSetupErrorsHelp   = "The total number of errors when setting up storage connection"
	ProducerSetupErrorsHelp  = "The total number of errors when setting up Kafka producer"
	StorageWriteErrorsHelp   = "The total number of errors when writing expression records into storage"
	ProducerErrorsHelp       = "The total number of results not sent because of a Kafka producer error"
	MessagesProducedHelp     = "The total number of results sent to the configured Kafka topic"
)

// PushGatewayClient is a simple wrapper over http.Client so that prometheus
// can do HTTP requests with the given authentication header
type PushGatewayClient struct {
	AuthToken string

	httpClient http.Client
}

// Do is a simple wrapper over http.Client.Do method that includes
// the authentication header configured in the PushGatewayClient instance
func (pgc *PushGatewayClient) Do(request *http.Request) (*http.Response, error) {
	if pgc.AuthToken != "" {
		log.Debug().Msg("Adding authorization header to HTTP request")
		request.Header.Set("Authorization", "Basic "+pgc.AuthToken)
	} else {
		log.Debug().Msg("No authorization token provided. Making HTTP request without credentials.")
	}
	log.Debug().Str("request", request.URL.String()).Str("method", request.Method).Msg("Pushing metrics to Prometheus push gateway")
	resp, err := pgc.httpClient.Do(request)
	if resp != nil {
		log.Debug().Int("code", resp.StatusCode).Msg("Returned status code")
	}
	return resp, err
}

// LinesRead shows number of lines read from input
var LinesRead = promauto.NewCounter(prometheus.CounterOpts{
	Name: LinesReadName,
	Help: LinesReadHelp,
})

// LinesRejected shows number of lines rejected by structural check
var LinesRejected = promauto.NewCounter(prometheus.CounterOpts{
	Name: LinesRejectedName,
	Help: LinesRejectedHelp,
})

// TokenizationFailures shows number of lines that failed in tokenizer
var TokenizationFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: TokenizationFailuresName,
	Help: TokenizationFailuresHelp,
})

// ConversionFailures shows number of lines that failed in converter
var ConversionFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: ConversionFailuresName,
	Help: ConversionFailuresHelp,
})

// EvaluationFailures shows number of lines that failed in postfix evaluator
var EvaluationFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: EvaluationFailuresName,
	Help: EvaluationFailuresHelp,
})

// ExpressionsEvaluated shows number of lines with computed result
var ExpressionsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
	Name: ExpressionsEvaluatedName,
	Help: ExpressionsEvaluatedHelp,
})

// StorageSetupErrors shows number of errors when setting up storage
var StorageSetupErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: StorageSetupErrorsName,
	Help: StorageSetupErrorsHelp,
})

// ProducerSetupErrors shows number of errors when setting up Kafka producer
var ProducerSetupErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: ProducerSetupErrorsName,
	Help: ProducerSetupErrorsHelp,
})

// StorageWriteErrors shows number of records that were not stored
var StorageWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: StorageWriteErrorsName,
	Help: StorageWriteErrorsHelp,
})

// ProducerErrors shows number of results not sent because of a Kafka producer error
var ProducerErrors = promauto.NewCounter(prometheus.CounterOpts{
	Name: ProducerErrorsName,
	Help: ProducerErrorsHelp,
})

// MessagesProduced shows number of results sent to the configured Kafka topic
var MessagesProduced = promauto.NewCounter(prometheus.CounterOpts{
	Name: MessagesProducedName,
	Help: MessagesProducedHelp,
})

// AddMetricsWithNamespaceAndSubsystem register the desired metrics using a
// given namespace and subsystem
func AddMetricsWithNamespaceAndSubsystem(namespace, subsystem string) {
	// Unregister all metrics and registrer them again
	prometheus.Unregister(LinesRead)
	prometheus.Unregister(LinesRejected)
	prometheus.Unregister(TokenizationFailures)
	prometheus.Unregister(ConversionFailures)
	prometheus.Unregister(EvaluationFailures)
	prometheus.Unregister(ExpressionsEvaluated)
	prometheus.Unregister(StorageSetupErrors)
	prometheus.Unregister(ProducerSetupErrors)
	prometheus.Unregister(StorageWriteErrors)
	prometheus.Unregister(ProducerErrors)
	prometheus.Unregister(MessagesProduced)

	LinesRead = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      LinesReadName,
		Help:      LinesReadHelp,
	})

	LinesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      LinesRejectedName,
		Help:      LinesRejectedHelp,
	})

	TokenizationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      TokenizationFailuresName,
		Help:      TokenizationFailuresHelp,
	})

	ConversionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      ConversionFailuresName,
		Help:      ConversionFailuresHelp,
	})

	EvaluationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      EvaluationFailuresName,
		Help:      EvaluationFailuresHelp,
	})

	ExpressionsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      ExpressionsEvaluatedName,
		Help:      ExpressionsEvaluatedHelp,
	})

	StorageSetupErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      StorageSetupErrorsName,
		Help:      StorageSetupErrorsHelp,
	})

	ProducerSetupErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      ProducerSetupErrorsName,
		Help:      ProducerSetupErrorsHelp,
	})

	StorageWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      StorageWriteErrorsName,
		Help:      StorageWriteErrorsHelp,
	})

	ProducerErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      ProducerErrorsName,
		Help:      ProducerErrorsHelp,
	})

	MessagesProduced = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      MessagesProducedName,
		Help:      MessagesProducedHelp,
	})
}

// PushCollectedMetrics function pushes the metrics to the configured
// prometheus push gateway
func PushCollectedMetrics(metricsConf conf.MetricsConfiguration) error {
	client := PushGatewayClient{metricsConf.GatewayAuthToken, http.Client{}}

	// Creates a pusher to the gateway "$PUSHGW_URL/metrics/job/$(job_name)
	return push.New(utils.SetHTTPPrefix(metricsConf.GatewayURL), metricsConf.Job).
		Collector(LinesRead).
		Collector(LinesRejected).
		Collector(TokenizationFailures).
		Collector(ConversionFailures).
		Collector(EvaluationFailures).
		Collector(ExpressionsEvaluated).
		Collector(StorageSetupErrors).
		Collector(ProducerSetupErrors).
		Collector(StorageWriteErrors).
		Collector(ProducerErrors).
		Collector(MessagesProduced).
		Client(&client).
		Push()
}

// PushMetrics pushes collected metrics and retries configured number of
// times when push gateway is not available
func PushMetrics(metricsConf conf.MetricsConfiguration) error {
	if metricsConf.GatewayURL == "" {
		log.Info().Msg("Push gateway is not configured, metrics won't be pushed")
		return nil
	}

	attempts := 1
	err := PushCollectedMetrics(metricsConf)
	if err == nil {
		log.Info().Msg("Metrics pushed successfully")
		return nil
	}
	log.Err(err).Msg(metricsPushFailedMessage)

	for i := metricsConf.Retries; i > 0 && metricsConf.RetryAfter > 0; i-- {
		time.Sleep(metricsConf.RetryAfter)
		log.Info().Msgf("Push metrics. Retrying (%d/%d attempts left)", i, metricsConf.Retries)
		attempts++
		err = PushCollectedMetrics(metricsConf)
		if err == nil {
			log.Info().Msg("Metrics pushed successfully")
			return nil
		}
		log.Err(err).Msg(metricsPushFailedMessage)
	}

	return &StatusMetricsError{Attempts: attempts}
}
