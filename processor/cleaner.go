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

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/expression-evaluator/types"
)

// Messages
const (
	databasePrintOldRecordsForCleanupOperationFailedMessage = "Print records from `expressions` table prepared for cleanup failed"
	databaseCleanupOldRecordsOperationFailedMessage         = "Cleanup records from `expressions` table failed"
	rowsDeletedMessage                                      = "Rows deleted"
)

// PerformCleanupOperation function performs selected cleanup operation
func PerformCleanupOperation(storage Storage, cliFlags types.CliFlags) error {
	switch {
	case cliFlags.PrintOldRecordsForCleanup:
		return printOldRecordsForCleanup(storage, cliFlags)
	case cliFlags.PerformOldRecordsCleanup:
		return performOldRecordsCleanup(storage, cliFlags)
	default:
		return errors.New("Unknown operation selected")
	}
}

// printOldRecordsForCleanup function print all records from `expressions`
// table that are older than specified max age.
func printOldRecordsForCleanup(storage Storage, cliFlags types.CliFlags) error {
	err := storage.PrintOldRecordsForCleanup(cliFlags.MaxAge)
	if err != nil {
		log.Error().Err(err).Msg(databasePrintOldRecordsForCleanupOperationFailedMessage)
		return err
	}

	return nil
}

// performOldRecordsCleanup function deletes all records from `expressions`
// table that are older than specified max age.
func performOldRecordsCleanup(storage Storage, cliFlags types.CliFlags) error {
	affected, err := storage.CleanupOldRecords(cliFlags.MaxAge)
	if err != nil {
		log.Error().Err(err).Msg(databaseCleanupOldRecordsOperationFailedMessage)
		return err
	}
	log.Info().Int(rowsDeletedMessage, affected).Msg("Cleanup `expressions` finished")

	return nil
}
