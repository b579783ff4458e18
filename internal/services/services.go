// Package services holds the business rules. Every compound mutation runs inside one
// repositories.Store transaction; cache invalidation and metrics happen after commit.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/pixora/backend/internal/cache"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/observability"
	"gorm.io/gorm"
)

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

// SystemClock is the production clock, always in UTC
func SystemClock() time.Time {
	return time.Now().UTC()
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// lookupErr turns a missing row into a NotFound error and passes anything else through
func lookupErr(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}

// sideEffects collects what must happen once a transaction has committed
type sideEffects struct {
	invalidate []uint
	created    []models.NotificationType
	retracted  int
}

func (fx *sideEffects) touch(userIDs ...uint) {
	fx.invalidate = append(fx.invalidate, userIDs...)
}

func (fx *sideEffects) flush(ctx context.Context, unread *cache.UnreadCounter) {
	for _, t := range fx.created {
		observability.NotificationsCreated.WithLabelValues(string(t)).Inc()
	}
	if fx.retracted > 0 {
		observability.NotificationsRetracted.Add(float64(fx.retracted))
	}
	unread.Invalidate(ctx, fx.invalidate...)
}
