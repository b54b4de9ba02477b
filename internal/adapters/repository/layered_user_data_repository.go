package repository

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
)

var _ domain.UserDataRepository = (*LayeredUserDataRepository)(nil)

// LayeredUserDataRepository combines a local store with an optional remote one.
// Writes always land locally; remote failures are logged and never surface.
// Reads prefer the remote copy and refresh the local one with it.
type LayeredUserDataRepository struct {
	local  domain.UserDataRepository
	remote domain.UserDataRepository
}

func NewLayeredUserDataRepository(local, remote domain.UserDataRepository) *LayeredUserDataRepository {
	return &LayeredUserDataRepository{local: local, remote: remote}
}

func (r *LayeredUserDataRepository) Get(ctx context.Context, userID, key string) ([]byte, error) {
	if r.remote != nil {
		val, err := r.remote.Get(ctx, userID, key)
		switch {
		case err == nil:
			if setErr := r.local.Set(ctx, userID, key, val); setErr != nil {
				log.WithFields(log.Fields{"user_id": userID, "key": key}).
					Warnf("[STORE] local write-through failed: %v", setErr)
			}
			return val, nil
		case errors.Is(err, domain.ErrDataNotFound):
		default:
			log.WithFields(log.Fields{"user_id": userID, "key": key}).
				Warnf("[STORE] remote read failed, using local copy: %v", err)
		}
	}
	return r.local.Get(ctx, userID, key)
}

func (r *LayeredUserDataRepository) Set(ctx context.Context, userID, key string, value []byte) error {
	if err := r.local.Set(ctx, userID, key, value); err != nil {
		return err
	}
	if r.remote == nil {
		return nil
	}
	if err := r.remote.Set(ctx, userID, key, value); err != nil {
		log.WithFields(log.Fields{"user_id": userID, "key": key}).
			Warnf("[STORE] remote write failed, kept locally: %v", err)
	}
	return nil
}
