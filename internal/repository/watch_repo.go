package repository

import (
	"context"
	"fmt"
	"time"

	"pricewatch/internal/model"

	"gorm.io/gorm"
)

type WatchRepository interface {
	Insert(ctx context.Context, class model.AssetClass, watch *model.Watch) error
	ActiveByClass(ctx context.Context, class model.AssetClass) ([]model.Watch, error)
	ActiveByRequester(ctx context.Context, class model.AssetClass, requesterID int64) ([]model.Watch, error)
	DecrementAndMaybeExpire(ctx context.Context, class model.AssetClass, id uint) error
	MarkTriggered(ctx context.Context, class model.AssetClass, id uint, snapshot []byte) error
	DeactivateAll(ctx context.Context, class model.AssetClass, requesterID int64) (int64, error)
	CountActive(ctx context.Context, class model.AssetClass) (int64, error)
	CountTriggeredSince(ctx context.Context, class model.AssetClass, since time.Time) (int64, error)
}

type watchRepository struct {
	db *gorm.DB
}

func NewWatchRepository(db *gorm.DB) WatchRepository {
	return &watchRepository{db: db}
}

// Insert persists a new watch after rejecting active duplicates of the same
// (requester, name, threshold) tuple. The check and the insert run in one
// transaction so concurrent registrations cannot race past each other.
func (r *watchRepository) Insert(ctx context.Context, class model.AssetClass, watch *model.Watch) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Table(class.Table()).
			Where("requester_id = ? AND LOWER(name) = LOWER(?) AND threshold_value = ? AND active", watch.RequesterID, watch.Name, watch.ThresholdValue).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("failed to check for duplicate watch: %w", err)
		}
		if count > 0 {
			return ErrDuplicateAlert
		}

		watch.Active = true
		watch.TriggeredCount = 0
		if err := tx.Table(class.Table()).Create(watch).Error; err != nil {
			return fmt.Errorf("failed to insert watch: %w", err)
		}
		return nil
	})
}

func (r *watchRepository) ActiveByClass(ctx context.Context, class model.AssetClass) ([]model.Watch, error) {
	var watches []model.Watch
	err := r.db.WithContext(ctx).Table(class.Table()).Where("active").Find(&watches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query active %s watches: %w", class, err)
	}
	return watches, nil
}

func (r *watchRepository) ActiveByRequester(ctx context.Context, class model.AssetClass, requesterID int64) ([]model.Watch, error) {
	var watches []model.Watch
	err := r.db.WithContext(ctx).Table(class.Table()).
		Where("active AND requester_id = ?", requesterID).
		Find(&watches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query watches for requester %d: %w", requesterID, err)
	}
	return watches, nil
}

// DecrementAndMaybeExpire consumes one evaluation cycle. Deactivation on
// countdown exhaustion happens in the same UPDATE, so the transition is
// atomic. Callers invoke this once per entry per applicable pass.
func (r *watchRepository) DecrementAndMaybeExpire(ctx context.Context, class model.AssetClass, id uint) error {
	err := r.db.WithContext(ctx).Table(class.Table()).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"remaining_cycles": gorm.Expr("remaining_cycles - 1"),
			"active":           gorm.Expr("active AND remaining_cycles - 1 > 0"),
			"updated_at":       time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to decrement watch %d: %w", id, err)
	}
	return nil
}

func (r *watchRepository) MarkTriggered(ctx context.Context, class model.AssetClass, id uint, snapshot []byte) error {
	updates := map[string]interface{}{
		"active":          false,
		"triggered_count": gorm.Expr("triggered_count + 1"),
		"updated_at":      time.Now(),
	}
	if len(snapshot) > 0 {
		updates["last_snapshot"] = snapshot
	}

	err := r.db.WithContext(ctx).Table(class.Table()).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("failed to mark watch %d triggered: %w", id, err)
	}
	return nil
}

func (r *watchRepository) DeactivateAll(ctx context.Context, class model.AssetClass, requesterID int64) (int64, error) {
	result := r.db.WithContext(ctx).Table(class.Table()).
		Where("active AND requester_id = ?", requesterID).
		Updates(map[string]interface{}{"active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate watches for requester %d: %w", requesterID, result.Error)
	}
	return result.RowsAffected, nil
}

func (r *watchRepository) CountActive(ctx context.Context, class model.AssetClass) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(class.Table()).Where("active").Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active %s watches: %w", class, err)
	}
	return count, nil
}

func (r *watchRepository) CountTriggeredSince(ctx context.Context, class model.AssetClass, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table(class.Table()).
		Where("triggered_count > 0 AND updated_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count triggered %s watches: %w", class, err)
	}
	return count, nil
}
