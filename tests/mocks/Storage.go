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

package mocks

import (
	types "github.com/RedHatInsights/expression-evaluator/types"
	mock "github.com/stretchr/testify/mock"
)

// Storage is a mock type for the Storage type
type Storage struct {
	mock.Mock
}

// CleanupOldRecords provides a mock function with given fields: maxAge
func (_m *Storage) CleanupOldRecords(maxAge string) (int, error) {
	ret := _m.Called(maxAge)

	var r0 int
	if rf, ok := ret.Get(0).(func(string) int); ok {
		r0 = rf(maxAge)
	} else {
		r0 = ret.Get(0).(int)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(maxAge)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Close provides a mock function with given fields:
func (_m *Storage) Close() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// InitDatabase provides a mock function with given fields:
func (_m *Storage) InitDatabase() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// PrintOldRecordsForCleanup provides a mock function with given fields: maxAge
func (_m *Storage) PrintOldRecordsForCleanup(maxAge string) error {
	ret := _m.Called(maxAge)

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(maxAge)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// WriteExpressionRecord provides a mock function with given fields: batchID, record, processedAt
func (_m *Storage) WriteExpressionRecord(batchID types.BatchID, record *types.ExpressionRecord, processedAt types.Timestamp) error {
	ret := _m.Called(batchID, record, processedAt)

	var r0 error
	if rf, ok := ret.Get(0).(func(types.BatchID, *types.ExpressionRecord, types.Timestamp) error); ok {
		r0 = rf(batchID, record, processedAt)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}
