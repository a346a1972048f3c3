package repository

import (
	"context"
	"errors"

	"devhub/internal/cache"
	"devhub/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository defines persistence operations for profiles and their
// experience/education entries. All mutations are serialized per user by a
// row lock on the profile, so concurrent updates cannot interleave.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)
	List(ctx context.Context) ([]*models.Profile, error)
	Upsert(ctx context.Context, fresh *models.Profile) (*models.Profile, error)
	AddExperience(ctx context.Context, userID uint, entry *models.Experience) (*models.Profile, error)
	RemoveExperience(ctx context.Context, userID, entryID uint) (*models.Profile, error)
	AddEducation(ctx context.Context, userID uint, entry *models.Education) (*models.Profile, error)
	RemoveEducation(ctx context.Context, userID, entryID uint) (*models.Profile, error)
	DeleteWithUser(ctx context.Context, userID uint) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// lockForUpdate takes a FOR UPDATE row lock where the dialect supports it.
// SQLite (tests) serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// withEntries preloads experience and education newest-first.
func withEntries(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Experience", func(db *gorm.DB) *gorm.DB {
			return db.Order("experiences.id DESC")
		}).
		Preload("Education", func(db *gorm.DB) *gorm.DB {
			return db.Order("educations.id DESC")
		})
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	key := cache.ProfileKey(userID)

	err := cache.Aside(ctx, key, &profile, cache.ProfileTTL, func() error {
		if err := withEntries(r.db.WithContext(ctx)).
			Where("user_id = ?", userID).
			First(&profile).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Profile for user", userID)
			}
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile

	err := cache.Aside(ctx, cache.ProfilesListKey, &profiles, cache.ListTTL, func() error {
		if err := withEntries(r.db.WithContext(ctx)).
			Order("created_at DESC").
			Find(&profiles).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// Upsert creates the profile if the user has none, otherwise applies the
// non-zero fields of fresh to the existing record. The whole operation runs
// in one transaction holding the profile row lock.
func (r *profileRepository) Upsert(ctx context.Context, fresh *models.Profile) (*models.Profile, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Profile
		err := lockForUpdate(tx).Where("user_id = ?", fresh.UserID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if createErr := tx.Create(fresh).Error; createErr != nil {
				return models.NewInternalError(createErr)
			}
			return nil
		case err != nil:
			return models.NewInternalError(err)
		default:
			// Updates with a struct skips zero-valued fields: supplied fields
			// win, absent fields are left untouched.
			if updateErr := tx.Model(&existing).Updates(fresh).Error; updateErr != nil {
				return models.NewInternalError(updateErr)
			}
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateProfile(ctx, fresh.UserID)
	return r.GetByUserID(ctx, fresh.UserID)
}

func (r *profileRepository) AddExperience(ctx context.Context, userID uint, entry *models.Experience) (*models.Profile, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := r.lockProfile(tx, userID)
		if err != nil {
			return err
		}
		entry.ProfileID = profile.ID
		if err := tx.Create(entry).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateProfile(ctx, userID)
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepository) RemoveExperience(ctx context.Context, userID, entryID uint) (*models.Profile, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := r.lockProfile(tx, userID)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND profile_id = ?", entryID, profile.ID).
			Delete(&models.Experience{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Experience", entryID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateProfile(ctx, userID)
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepository) AddEducation(ctx context.Context, userID uint, entry *models.Education) (*models.Profile, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := r.lockProfile(tx, userID)
		if err != nil {
			return err
		}
		entry.ProfileID = profile.ID
		if err := tx.Create(entry).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateProfile(ctx, userID)
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepository) RemoveEducation(ctx context.Context, userID, entryID uint) (*models.Profile, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profile, err := r.lockProfile(tx, userID)
		if err != nil {
			return err
		}
		res := tx.Where("id = ? AND profile_id = ?", entryID, profile.ID).
			Delete(&models.Education{})
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Education", entryID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cache.InvalidateProfile(ctx, userID)
	return r.GetByUserID(ctx, userID)
}

// DeleteWithUser removes the profile (with its entries) and the user record in
// a single transaction. Missing profile with an existing user is treated as
// success; missing both is NotFound.
func (r *profileRepository) DeleteWithUser(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		profileFound := true
		if err := lockForUpdate(tx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewInternalError(err)
			}
			profileFound = false
		}

		if profileFound {
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Experience{}).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := tx.Where("profile_id = ?", profile.ID).Delete(&models.Education{}).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		// Posts authored by the user go too, with their engagement.
		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", userID).
			Pluck("id", &postIDs).Error; err != nil {
			return models.NewInternalError(err)
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Like{}).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return models.NewInternalError(err)
			}
			if err := tx.Where("user_id = ?", userID).Delete(&models.Post{}).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		// Likes and comments the user left on other posts.
		if err := tx.Where("user_id = ?", userID).Delete(&models.Like{}).Error; err != nil {
			return models.NewInternalError(err)
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return models.NewInternalError(err)
		}

		res := tx.Delete(&models.User{}, userID)
		if res.Error != nil {
			return models.NewInternalError(res.Error)
		}
		if res.RowsAffected == 0 && !profileFound {
			return models.NewNotFoundError("User", userID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	cache.InvalidateProfile(ctx, userID)
	cache.InvalidateUser(ctx, userID)
	cache.Invalidate(ctx, cache.PostsListKey)
	return nil
}

// lockProfile loads the profile row under a FOR UPDATE lock inside tx.
func (r *profileRepository) lockProfile(tx *gorm.DB, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := lockForUpdate(tx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile for user", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}
