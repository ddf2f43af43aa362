package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/dmitrijs2005/datingapp/internal/common"
	"github.com/dmitrijs2005/datingapp/internal/dbx"
	"github.com/dmitrijs2005/datingapp/internal/server/imagehost"
	"github.com/dmitrijs2005/datingapp/internal/server/models"
	"github.com/dmitrijs2005/datingapp/internal/server/repositories/repomanager"
)

// RemoteImageHost is the external host photos live on. Implemented by
// imagehost.S3Host; faked in tests.
type RemoteImageHost interface {
	Upload(ctx context.Context, file io.Reader, contentType string) (*imagehost.UploadResult, error)
	Delete(ctx context.Context, storageKey string) error
}

// PhotoService maintains one user's photo collection. Every mutation is a
// full load and rewrite of the collection inside a single transaction, so
// the one-main-photo invariant holds for any observer; concurrent edits to
// the same collection from two sessions are serialized by the database, not
// by this service.
type PhotoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	host        RemoteImageHost
}

func NewPhotoService(db *sql.DB, m repomanager.RepositoryManager, host RemoteImageHost) *PhotoService {
	return &PhotoService{db: db, repomanager: m, host: host}
}

// AddPhoto uploads the file to the remote host first and appends a Photo row
// only if the upload succeeded. The first photo of an empty collection
// becomes the main photo.
func (s *PhotoService) AddPhoto(ctx context.Context, userID string, file io.Reader, contentType string) (*models.Photo, error) {
	res, err := s.host.Upload(ctx, file, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
	}

	photo := &models.Photo{UserID: userID, URL: res.URL, StorageKey: res.StorageKey}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Photos(tx)

		collection, err := repo.Load(ctx, userID)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
		}

		collection.Add(photo)

		if err := repo.Replace(ctx, userID, collection); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return photo, nil
}

// SetMainPhoto promotes the given photo to main, demoting the current main
// in the same save, so no state with zero or two mains is ever flushed.
// Returns ErrPhotoNotFound or ErrAlreadyMain as appropriate.
func (s *PhotoService) SetMainPhoto(ctx context.Context, userID string, photoID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Photos(tx)

		collection, err := repo.Load(ctx, userID)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
		}

		if err := collection.Promote(photoID); err != nil {
			return err
		}

		if err := repo.Replace(ctx, userID, collection); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
		}
		return nil
	})
}

// DeletePhoto removes a non-main photo. When the photo has a storage key the
// remote copy is deleted first; if the remote host reports an error the
// local row stays untouched and the caller gets ErrRemoteDeletionFailed (no
// retry here, a manual re-attempt is required).
func (s *PhotoService) DeletePhoto(ctx context.Context, userID string, photoID int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Photos(tx)

		collection, err := repo.Load(ctx, userID)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
		}

		photo := collection.Find(photoID)
		if photo == nil {
			return common.ErrPhotoNotFound
		}
		if photo.IsMain {
			return common.ErrCannotDeleteMainPhoto
		}

		if photo.StorageKey != "" {
			if err := s.host.Delete(ctx, photo.StorageKey); err != nil {
				return fmt.Errorf("%w: %v", common.ErrRemoteDeletionFailed, err)
			}
		}

		if err := collection.Remove(photoID); err != nil {
			return err
		}

		if err := repo.Replace(ctx, userID, collection); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorUnavailable, err)
		}
		return nil
	})
}
