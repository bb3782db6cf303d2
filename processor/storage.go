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

// This source file contains an implementation of interface between Go code and
// (almost any) SQL database like PostgreSQL, SQLite, or MariaDB.
//
// It is possible to configure connection to selected database by using
// StorageConfiguration structure. The db_driver parameter selects one of
// "sqlite3", "postgres" or "mysql". SQLite uses sqlite_datasource, the other
// two drivers share pg_* connection parameters, MySQL additionally accepts
// mysql_params in URL query format.

import (
	"database/sql"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL and MariaDB database driver
	_ "github.com/lib/pq"            // PostgreSQL database driver
	_ "github.com/mattn/go-sqlite3"  // SQLite database driver

	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/expression-evaluator/conf"
	"github.com/RedHatInsights/expression-evaluator/evaluator"
	"github.com/RedHatInsights/expression-evaluator/types"
	"github.com/RedHatInsights/expression-evaluator/utils"
)

// Storage represents an interface to almost any database or storage system
type Storage interface {
	Close() error
	InitDatabase() error
	WriteExpressionRecord(
		batchID types.BatchID,
		record *types.ExpressionRecord,
		processedAt types.Timestamp) error
	PrintOldRecordsForCleanup(maxAge string) error
	CleanupOldRecords(maxAge string) (int, error)
}

// DBStorage is an implementation of Storage interface that use selected SQL like database
// like SQLite, PostgreSQL, MariaDB, RDS etc. That implementation is based on the standard
// sql package. It is possible to configure connection via Configuration structure.
type DBStorage struct {
	connection    *sql.DB
	dbDriverType  types.DBDriver
	logSQLQueries bool
}

// error messages
const (
	unableToCloseDBRowsHandle = "Unable to close DB rows handle"
)

// other messages
const (
	BatchIDMessage     = "Batch ID"
	LineNumberMessage  = "Line"
	ExpressionMessage  = "Expression"
	StageMessage       = "Stage"
	ProcessedAtMessage = "Processed at"
	AgeMessage         = "Age"
	MaxAgeAttribute    = "max age"
	DeleteStatement    = "delete statement"
)

// SQL statements
const (
	createExpressionsTable = `
		CREATE TABLE IF NOT EXISTS expressions (
		    batch_id     VARCHAR(36) NOT NULL,
		    line_number  INTEGER NOT NULL,
		    expression   TEXT NOT NULL,
		    postfix      TEXT NOT NULL,
		    result       VARCHAR(64),
		    stage        VARCHAR(16) NOT NULL,
		    error_text   TEXT,
		    processed_at TIMESTAMP NOT NULL,
		    PRIMARY KEY (batch_id, line_number)
		)
`

	insertExpressionRecord = `
		INSERT INTO expressions
		       (batch_id, line_number, expression, postfix, result, stage, error_text, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

	// Delete older records from expressions table
	deleteOldRecordsFromExpressionsTable = `
		DELETE
		  FROM expressions
		 WHERE processed_at < $1
`

	// Display older records from expressions table
	displayOldRecordsFromExpressionsTable = `
		SELECT batch_id, line_number, expression, stage, processed_at
		  FROM expressions
		 WHERE processed_at < $1
		 ORDER BY processed_at
`
)

// NewStorage function creates and initializes a new instance of Storage interface
func NewStorage(configuration conf.StorageConfiguration) (*DBStorage, error) {
	driverType, driverName, dataSource, err := initAndGetDriver(configuration)
	if err != nil {
		return nil, err
	}

	log.Info().Msgf(
		"Making connection to data storage, driver=%s",
		driverName,
	)

	connection, err := sql.Open(driverName, dataSource)
	if err != nil {
		log.Error().Err(err).Msg("Can not connect to data storage")
		return nil, err
	}

	if driverType == types.DBDriverSQLite3 {
		// in-memory database exists per connection only
		connection.SetMaxOpenConns(1)
	}

	storage := NewFromConnection(connection, driverType)
	storage.logSQLQueries = configuration.LogSQLQueries
	return storage, nil
}

// NewFromConnection function creates and initializes a new instance of Storage interface from prepared connection
func NewFromConnection(connection *sql.DB, dbDriverType types.DBDriver) *DBStorage {
	return &DBStorage{
		connection:   connection,
		dbDriverType: dbDriverType,
	}
}

// initAndGetDriver checks if the driver is supported and returns driver
// type, driver name, dataSource and error
func initAndGetDriver(configuration conf.StorageConfiguration) (driverType types.DBDriver, driverName, dataSource string, err error) {
	driverName = configuration.Driver

	switch driverName {
	case "sqlite3":
		driverType = types.DBDriverSQLite3
		dataSource = configuration.SQLiteDataSource
	case "postgres":
		driverType = types.DBDriverPostgres
		dataSource = fmt.Sprintf(
			"postgresql://%v:%v@%v:%v/%v?%v",
			configuration.PGUsername,
			configuration.PGPassword,
			configuration.PGHost,
			configuration.PGPort,
			configuration.PGDBName,
			configuration.PGParams,
		)
	case "mysql":
		driverType = types.DBDriverMySQL
		dataSource, err = mySQLDataSource(configuration)
	default:
		err = fmt.Errorf("driver %v is not supported", driverName)
	}

	return
}

// mySQLDataSource constructs DSN for MySQL driver
func mySQLDataSource(configuration conf.StorageConfiguration) (string, error) {
	params, err := url.ParseQuery(configuration.MySQLParams)
	if err != nil {
		return "", err
	}

	cfg := mysql.NewConfig()
	cfg.User = configuration.PGUsername
	cfg.Passwd = configuration.PGPassword
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%v:%v", configuration.PGHost, configuration.PGPort)
	cfg.DBName = configuration.PGDBName
	// timestamps are read back when old records are printed
	cfg.ParseTime = true

	if len(params) > 0 {
		cfg.Params = make(map[string]string, len(params))
		for key := range params {
			cfg.Params[key] = params.Get(key)
		}
	}

	return cfg.FormatDSN(), nil
}

// rebind converts $N placeholders into the form used by selected driver
func (storage DBStorage) rebind(statement string) string {
	if storage.dbDriverType != types.DBDriverMySQL {
		return statement
	}

	var builder strings.Builder
	for i := 0; i < len(statement); i++ {
		if statement[i] == '$' && i+1 < len(statement) && statement[i+1] >= '0' && statement[i+1] <= '9' {
			builder.WriteByte('?')
			for i+1 < len(statement) && statement[i+1] >= '0' && statement[i+1] <= '9' {
				i++
			}
			continue
		}
		builder.WriteByte(statement[i])
	}
	return builder.String()
}

// logStatement logs SQL statement when it is enabled in configuration
func (storage DBStorage) logStatement(statement string) {
	if storage.logSQLQueries {
		log.Debug().Str("statement", utils.GetPrintableStatement(statement)).Msg("SQL query")
	}
}

// Close method closes the connection to database. Needs to be called at the end of application lifecycle.
func (storage DBStorage) Close() error {
	log.Info().Msg("Closing connection to data storage")
	if storage.connection != nil {
		err := storage.connection.Close()
		if err != nil {
			log.Error().Err(err).Msg("Can not close connection to data storage")
			return err
		}
	}
	return nil
}

// InitDatabase method creates the table for expression records if it does
// not exist yet.
func (storage DBStorage) InitDatabase() error {
	statement := storage.rebind(createExpressionsTable)
	storage.logStatement(statement)

	_, err := storage.connection.Exec(statement)
	if err != nil {
		log.Error().Err(err).Msg("Unable to create table expressions")
		return &StatusStorageError{Msg: err.Error()}
	}
	return nil
}

// WriteExpressionRecord method writes one processed expression into the
// database. Result is stored in its shortest exact textual form, it is NULL
// for expressions that were not evaluated.
func (storage DBStorage) WriteExpressionRecord(
	batchID types.BatchID,
	record *types.ExpressionRecord,
	processedAt types.Timestamp) error {

	var result sql.NullString
	if record.Valid() {
		result = sql.NullString{
			String: strconv.FormatFloat(record.Result, 'g', -1, 64),
			Valid:  true,
		}
	}

	var errorText sql.NullString
	if record.Err != nil {
		errorText = sql.NullString{String: record.Err.Error(), Valid: true}
	}

	statement := storage.rebind(insertExpressionRecord)
	storage.logStatement(statement)

	_, err := storage.connection.Exec(statement,
		string(batchID),
		int(record.LineNumber),
		record.Expression,
		evaluator.FormatPostfix(record.Postfix),
		result,
		record.Stage.String(),
		errorText,
		time.Time(processedAt))
	if err != nil {
		log.Error().Err(err).
			Str(BatchIDMessage, string(batchID)).
			Int(LineNumberMessage, int(record.LineNumber)).
			Msg("Unable to write expression record")
		return err
	}
	return nil
}

// cutoffTime computes the oldest timestamp that is kept in the database
func cutoffTime(maxAge string) (time.Time, error) {
	age, err := time.ParseDuration(strings.TrimSpace(maxAge))
	if err != nil {
		return time.Time{}, err
	}
	if age < 0 {
		return time.Time{}, fmt.Errorf("max age %v is negative", maxAge)
	}
	return time.Now().Add(-age), nil
}

// PrintOldRecordsForCleanup method prints all records from `expressions`
// table older than specified relative time
func (storage DBStorage) PrintOldRecordsForCleanup(maxAge string) error {
	cutoff, err := cutoffTime(maxAge)
	if err != nil {
		return err
	}

	query := storage.rebind(displayOldRecordsFromExpressionsTable)
	log.Info().
		Str(MaxAgeAttribute, maxAge).
		Str("select statement", utils.GetPrintableStatement(query)).
		Msg("PrintOldRecordsForCleanup operation")

	rows, err := storage.connection.Query(query, cutoff)
	if err != nil {
		return err
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			log.Error().Err(err).Msg(unableToCloseDBRowsHandle)
		}
	}()

	// used to compute a real record age
	now := time.Now()

	// iterate over all old records
	for rows.Next() {
		var (
			batchID     string
			lineNumber  int
			expression  string
			stage       string
			processedAt time.Time
		)

		if err := rows.Scan(&batchID, &lineNumber, &expression, &stage, &processedAt); err != nil {
			return err
		}

		// compute the real record age
		age := int(math.Ceil(now.Sub(processedAt).Hours() / 24)) // in days

		log.Info().
			Str(BatchIDMessage, batchID).
			Int(LineNumberMessage, lineNumber).
			Str(ExpressionMessage, expression).
			Str(StageMessage, stage).
			Str(ProcessedAtMessage, processedAt.Format(time.RFC3339)).
			Int(AgeMessage, age).
			Msg("Old record from `expressions` table")
	}
	return rows.Err()
}

// CleanupOldRecords method deletes all records from `expressions` table
// older than specified relative time
func (storage DBStorage) CleanupOldRecords(maxAge string) (int, error) {
	cutoff, err := cutoffTime(maxAge)
	if err != nil {
		return 0, err
	}

	statement := storage.rebind(deleteOldRecordsFromExpressionsTable)
	log.Info().
		Str(MaxAgeAttribute, maxAge).
		Str(DeleteStatement, utils.GetPrintableStatement(statement)).
		Msg("Cleanup operation for all batches")

	// perform the SQL statement
	result, err := storage.connection.Exec(statement, cutoff)
	if err != nil {
		return 0, err
	}

	// read number of affected (deleted) rows
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
