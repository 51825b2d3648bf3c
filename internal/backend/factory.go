package backend

import (
	"context"
	"errors"
	"fmt"

	"expenses/internal/amqp"
	"expenses/internal/ledger"
	applog "expenses/internal/log"
	"expenses/internal/services"
	"expenses/internal/storage/jsonfile"
	"expenses/internal/storage/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory. Each component it builds logs
// through logger under its own component name.
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Default(applog.ComponentBackend)
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	var (
		persister ledger.Persister
		closers   []func() error
	)

	switch config.Type {
	case JSONBackend:
		p := jsonfile.New(config.LedgerPath)
		persister = p
		f.logger.Info("Initialized JSON ledger",
			applog.FieldBackend, config.Type,
			applog.FieldPath, p.Path())
	case SQLiteBackend:
		p, err := sqlite.New(config.SQLiteDBPath, f.logger.WithComponent(applog.ComponentStorage))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite ledger: %w", err)
		}
		persister = p
		closers = append(closers, p.Close)
		f.logger.Info("Initialized SQLite ledger",
			applog.FieldBackend, config.Type,
			applog.FieldPath, config.SQLiteDBPath)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	cleanup := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c())
		}
		return errors.Join(errs...)
	}

	store, err := ledger.Open(ctx, persister, f.logger.WithComponent(applog.ComponentLedger))
	if err != nil {
		cleanup()
		return nil, err
	}

	// AMQP is optional; a broker that cannot be reached only disables events
	var publisher services.Publisher
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue,
			f.logger.WithComponent(applog.ComponentAMQP))
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", applog.FieldError, err)
		} else {
			publisher = client
			closers = append(closers, client.Close)
			f.logger.Info("Initialized AMQP client",
				applog.FieldExchange, config.AMQPExchange,
				applog.FieldQueue, config.AMQPQueue)
		}
	}

	return &BackendResult{
		Service: services.NewExpenseService(store, publisher, nil, f.logger.WithComponent(applog.ComponentService)),
		Cleanup: cleanup,
	}, nil
}
