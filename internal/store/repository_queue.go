package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/qazuor/markview-sync/internal/logger"
	"github.com/qazuor/markview-sync/models"
)

type queueRepository struct {
	*DB
	logger *logger.Logger
}

// NewQueueRepository returns the SQLite-backed implementation of
// QueueRepository over db.
func NewQueueRepository(db *DB, logger *logger.Logger) QueueRepository {
	return &queueRepository{
		DB:     db,
		logger: logger,
	}
}

func (q *queueRepository) Add(ctx context.Context, item models.QueueItem) error {
	log := logger.FromContext(ctx)

	_, err := q.DB.ExecContext(ctx, upsertQueueItem,
		item.ID,
		string(item.Type),
		string(item.Operation),
		string(item.Payload),
		item.EnqueuedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.Add").
			Str("id", item.ID).
			Msg("failed to upsert queue item")
		return fmt.Errorf("add queue item %s: %w: %w", item.ID, ErrStorageUnavailable, err)
	}

	return nil
}

func (q *queueRepository) Remove(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if _, err := q.DB.ExecContext(ctx, removeQueueItem, id); err != nil {
		log.Err(err).
			Str("func", "queueRepository.Remove").
			Str("id", id).
			Msg("failed to remove queue item")
		return fmt.Errorf("remove queue item %s: %w: %w", id, ErrStorageUnavailable, err)
	}

	return nil
}

func (q *queueRepository) Get(ctx context.Context, id string) (models.QueueItem, error) {
	query, args, err := buildSelectQueueItemQuery(id)
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("build queue item query: %w", err)
	}

	row := q.DB.QueryRowContext(ctx, query, args...)

	item, err := scanQueueItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.QueueItem{}, fmt.Errorf("queue item %s: %w", id, ErrQueueItemNotFound)
	}
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("get queue item %s: %w: %w", id, ErrStorageUnavailable, err)
	}

	return item, nil
}

func (q *queueRepository) GetAll(ctx context.Context) ([]models.QueueItem, error) {
	return q.list(ctx, nil)
}

func (q *queueRepository) GetByType(ctx context.Context, entityType models.EntityType) ([]models.QueueItem, error) {
	return q.list(ctx, &entityType)
}

func (q *queueRepository) list(ctx context.Context, entityType *models.EntityType) ([]models.QueueItem, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectQueueQuery(entityType)
	if err != nil {
		return nil, fmt.Errorf("build queue query: %w", err)
	}

	rows, err := q.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "queueRepository.list").
			Msg("failed to query queue items")
		return nil, fmt.Errorf("list queue items: %w: %w", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var items []models.QueueItem
	for rows.Next() {
		item, scanErr := scanQueueItem(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan queue item row: %w: %w", ErrStorageUnavailable, scanErr)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue items: %w: %w", ErrStorageUnavailable, err)
	}

	return items, nil
}

func (q *queueRepository) IncrementRetries(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)

	if _, err := q.DB.ExecContext(ctx, incrementQueueRetries, id); err != nil {
		log.Err(err).
			Str("func", "queueRepository.IncrementRetries").
			Str("id", id).
			Msg("failed to increment queue retries")
		return fmt.Errorf("increment retries for %s: %w: %w", id, ErrStorageUnavailable, err)
	}

	return nil
}

func (q *queueRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := q.DB.QueryRowContext(ctx, countQueueItems).Scan(&count); err != nil {
		return 0, fmt.Errorf("count queue items: %w: %w", ErrStorageUnavailable, err)
	}

	return count, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanQueueItem(row rowScanner) (models.QueueItem, error) {
	var (
		item      models.QueueItem
		entType   string
		operation string
		payload   string
	)

	err := row.Scan(
		&item.ID,
		&entType,
		&operation,
		&payload,
		&item.EnqueuedAt,
		&item.Retries,
	)
	if err != nil {
		return models.QueueItem{}, err
	}

	item.Type = models.EntityType(entType)
	item.Operation = models.Operation(operation)
	if payload != "" {
		item.Payload = []byte(payload)
	}

	return item, nil
}
