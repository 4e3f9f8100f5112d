package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/qazuor/markview-sync/internal/logger"
	"github.com/qazuor/markview-sync/models"
)

type mirrorRepository struct {
	*DB
	logger *logger.Logger
}

// NewMirrorRepository returns the SQLite-backed implementation of
// MirrorRepository over db.
func NewMirrorRepository(db *DB, logger *logger.Logger) MirrorRepository {
	return &mirrorRepository{
		DB:     db,
		logger: logger,
	}
}

func (m *mirrorRepository) SaveDocument(ctx context.Context, doc models.Document) error {
	log := logger.FromContext(ctx)

	_, err := m.DB.ExecContext(ctx, upsertDocument,
		doc.ID,
		doc.UserID,
		doc.Title,
		doc.Content,
		doc.FolderID,
		doc.SyncVersion,
		doc.UpdatedAt,
		doc.DeletedAt,
		doc.SyncedAt,
		doc.BaseHash,
	)
	if err != nil {
		log.Err(err).
			Str("func", "mirrorRepository.SaveDocument").
			Str("id", doc.ID).
			Msg("failed to upsert document")
		return fmt.Errorf("save document %s: %w: %w", doc.ID, ErrStorageUnavailable, err)
	}

	return nil
}

func (m *mirrorRepository) GetDocument(ctx context.Context, id string) (models.Document, error) {
	query, args, err := buildSelectDocumentQuery(id)
	if err != nil {
		return models.Document{}, fmt.Errorf("build document query: %w", err)
	}

	doc, err := scanDocument(m.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, fmt.Errorf("document %s: %w", id, ErrEntityNotFound)
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("get document %s: %w: %w", id, ErrStorageUnavailable, err)
	}

	return doc, nil
}

func (m *mirrorRepository) AllDocuments(ctx context.Context) ([]models.Document, error) {
	return m.listDocuments(ctx, nil)
}

func (m *mirrorRepository) DocumentsChangedSince(ctx context.Context, since time.Time) ([]models.Document, error) {
	return m.listDocuments(ctx, &since)
}

func (m *mirrorRepository) listDocuments(ctx context.Context, since *time.Time) ([]models.Document, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSelectDocumentsQuery(since)
	if err != nil {
		return nil, fmt.Errorf("build documents query: %w", err)
	}

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "mirrorRepository.listDocuments").
			Msg("failed to query documents")
		return nil, fmt.Errorf("list documents: %w: %w", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		doc, scanErr := scanDocument(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan document row: %w: %w", ErrStorageUnavailable, scanErr)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w: %w", ErrStorageUnavailable, err)
	}

	return docs, nil
}

func (m *mirrorRepository) SoftDeleteDocument(ctx context.Context, id string, at time.Time) error {
	if _, err := m.DB.ExecContext(ctx, softDeleteDocument, at, at, id); err != nil {
		return fmt.Errorf("soft delete document %s: %w: %w", id, ErrStorageUnavailable, err)
	}

	return nil
}

func (m *mirrorRepository) SaveFolder(ctx context.Context, f models.Folder) error {
	log := logger.FromContext(ctx)

	_, err := m.DB.ExecContext(ctx, upsertFolder,
		f.ID,
		f.UserID,
		f.Name,
		f.ParentID,
		f.SyncVersion,
		f.UpdatedAt,
		f.DeletedAt,
		f.SyncedAt,
		f.BaseHash,
	)
	if err != nil {
		log.Err(err).
			Str("func", "mirrorRepository.SaveFolder").
			Str("id", f.ID).
			Msg("failed to upsert folder")
		return fmt.Errorf("save folder %s: %w: %w", f.ID, ErrStorageUnavailable, err)
	}

	return nil
}

func (m *mirrorRepository) GetFolder(ctx context.Context, id string) (models.Folder, error) {
	query, args, err := buildSelectFolderQuery(id)
	if err != nil {
		return models.Folder{}, fmt.Errorf("build folder query: %w", err)
	}

	f, err := scanFolder(m.DB.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Folder{}, fmt.Errorf("folder %s: %w", id, ErrEntityNotFound)
	}
	if err != nil {
		return models.Folder{}, fmt.Errorf("get folder %s: %w: %w", id, ErrStorageUnavailable, err)
	}

	return f, nil
}

func (m *mirrorRepository) AllFolders(ctx context.Context) ([]models.Folder, error) {
	query, args, err := buildSelectFoldersQuery()
	if err != nil {
		return nil, fmt.Errorf("build folders query: %w", err)
	}

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w: %w", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		f, scanErr := scanFolder(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan folder row: %w: %w", ErrStorageUnavailable, scanErr)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w: %w", ErrStorageUnavailable, err)
	}

	return folders, nil
}

func (m *mirrorRepository) SoftDeleteFolder(ctx context.Context, id string, at time.Time) error {
	if _, err := m.DB.ExecContext(ctx, softDeleteFolder, at, at, id); err != nil {
		return fmt.Errorf("soft delete folder %s: %w: %w", id, ErrStorageUnavailable, err)
	}

	return nil
}

func (m *mirrorRepository) SetSynced(ctx context.Context, entityType models.EntityType, id string, version int64, baseHash string, at time.Time) error {
	query := setDocumentSynced
	if entityType == models.EntityFolder {
		query = setFolderSynced
	}

	if _, err := m.DB.ExecContext(ctx, query, version, baseHash, at, id); err != nil {
		return fmt.Errorf("set synced for %s %s: %w: %w", entityType, id, ErrStorageUnavailable, err)
	}

	return nil
}

func scanDocument(row rowScanner) (models.Document, error) {
	var (
		doc       models.Document
		folderID  sql.NullString
		deletedAt sql.NullTime
		syncedAt  sql.NullTime
	)

	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Title,
		&doc.Content,
		&folderID,
		&doc.SyncVersion,
		&doc.UpdatedAt,
		&deletedAt,
		&syncedAt,
		&doc.BaseHash,
	)
	if err != nil {
		return models.Document{}, err
	}

	if folderID.Valid {
		doc.FolderID = &folderID.String
	}
	if deletedAt.Valid {
		doc.DeletedAt = &deletedAt.Time
	}
	if syncedAt.Valid {
		doc.SyncedAt = &syncedAt.Time
	}

	return doc, nil
}

func scanFolder(row rowScanner) (models.Folder, error) {
	var (
		f         models.Folder
		parentID  sql.NullString
		deletedAt sql.NullTime
		syncedAt  sql.NullTime
	)

	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.Name,
		&parentID,
		&f.SyncVersion,
		&f.UpdatedAt,
		&deletedAt,
		&syncedAt,
		&f.BaseHash,
	)
	if err != nil {
		return models.Folder{}, err
	}

	if parentID.Valid {
		f.ParentID = &parentID.String
	}
	if deletedAt.Valid {
		f.DeletedAt = &deletedAt.Time
	}
	if syncedAt.Valid {
		f.SyncedAt = &syncedAt.Time
	}

	return f, nil
}
