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

import "fmt"

// StatusStorageError is related to any storage error
type StatusStorageError struct {
	Msg string
}

func (e *StatusStorageError) Error() string {
	return "storage error: " + e.Msg
}

// KafkaBrokerError represent an error related to Kafka initialization
type KafkaBrokerError struct{}

func (e *KafkaBrokerError) Error() string {
	return "KafkaBrokerError"
}

// StatusMetricsError is returned when metrics can't be pushed to gateway
type StatusMetricsError struct {
	Attempts int
}

func (e *StatusMetricsError) Error() string {
	return fmt.Sprintf("metrics could not be pushed after %d attempt(s)", e.Attempts)
}

// InputError is returned when input lines can't be read
type InputError struct {
	Line int
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("unable to read input after line %d: %v", e.Line, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}
