/*
 * Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

import (
	"database/sql"
)

// TxInterface defines the interface for transaction operations.
type TxInterface interface {
	Exec(query DBQuery, args ...interface{}) (sql.Result, error)
	Commit() error
	Rollback() error
}

// TxBeginner opens transactions.
type TxBeginner interface {
	BeginTx() (TxInterface, error)
}

// Tx wraps sql.Tx to implement TxInterface.
type Tx struct {
	tx     *sql.Tx
	dbType string
}

// NewTx creates a new Tx instance bound to a database dialect.
func NewTx(tx *sql.Tx, dbType string) TxInterface {
	return &Tx{tx: tx, dbType: dbType}
}

// Exec runs the dialect-specific variant of query inside the transaction.
func (t *Tx) Exec(query DBQuery, args ...interface{}) (sql.Result, error) {
	return t.tx.Exec(query.GetQuery(t.dbType), args...)
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback rolls back the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}
