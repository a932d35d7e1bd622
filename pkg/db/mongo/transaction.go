// Package mongo runs multi-document work inside a MongoDB transaction.
// Transactions need a replica set or a sharded cluster.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client *mongo.Client
	txOpts *options.TransactionOptions
}

// NewTransactionManager runs transactions on the primary with snapshot reads
// and majority writes.
func NewTransactionManager(client *mongo.Client) TransactionManager {
	return &mongoTransactionManager{
		client: client,
		txOpts: options.Transaction().
			SetReadPreference(readpref.Primary()).
			SetReadConcern(readconcern.Snapshot()).
			SetWriteConcern(writeconcern.Majority()),
	}
}

// ExecuteTransaction returns the error of fn unchanged, so callers can match
// their own sentinels. Driver failures are wrapped.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	var fnErr error
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		fnErr = fn(sessCtx)
		return nil, fnErr
	}, m.txOpts)
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}

	return nil
}
