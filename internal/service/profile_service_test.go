package service

import (
	"context"
	"testing"
	"time"

	"devhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByUserIDFn      func(context.Context, uint) (*models.Profile, error)
	listFn             func(context.Context) ([]*models.Profile, error)
	upsertFn           func(context.Context, *models.Profile) (*models.Profile, error)
	addExperienceFn    func(context.Context, uint, *models.Experience) (*models.Profile, error)
	removeExperienceFn func(context.Context, uint, uint) (*models.Profile, error)
	addEducationFn     func(context.Context, uint, *models.Education) (*models.Profile, error)
	removeEducationFn  func(context.Context, uint, uint) (*models.Profile, error)
	deleteWithUserFn   func(context.Context, uint) error
}

func (s *profileRepoStub) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.getByUserIDFn(ctx, userID)
}
func (s *profileRepoStub) List(ctx context.Context) ([]*models.Profile, error) {
	return s.listFn(ctx)
}
func (s *profileRepoStub) Upsert(ctx context.Context, fresh *models.Profile) (*models.Profile, error) {
	return s.upsertFn(ctx, fresh)
}
func (s *profileRepoStub) AddExperience(ctx context.Context, userID uint, entry *models.Experience) (*models.Profile, error) {
	return s.addExperienceFn(ctx, userID, entry)
}
func (s *profileRepoStub) RemoveExperience(ctx context.Context, userID, entryID uint) (*models.Profile, error) {
	return s.removeExperienceFn(ctx, userID, entryID)
}
func (s *profileRepoStub) AddEducation(ctx context.Context, userID uint, entry *models.Education) (*models.Profile, error) {
	return s.addEducationFn(ctx, userID, entry)
}
func (s *profileRepoStub) RemoveEducation(ctx context.Context, userID, entryID uint) (*models.Profile, error) {
	return s.removeEducationFn(ctx, userID, entryID)
}
func (s *profileRepoStub) DeleteWithUser(ctx context.Context, userID uint) error {
	return s.deleteWithUserFn(ctx, userID)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByUserIDFn: func(_ context.Context, userID uint) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
		listFn: func(_ context.Context) ([]*models.Profile, error) { return nil, nil },
		upsertFn: func(_ context.Context, p *models.Profile) (*models.Profile, error) {
			return p, nil
		},
		addExperienceFn: func(_ context.Context, userID uint, _ *models.Experience) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
		removeExperienceFn: func(_ context.Context, userID, _ uint) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
		addEducationFn: func(_ context.Context, userID uint, _ *models.Education) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
		removeEducationFn: func(_ context.Context, userID, _ uint) (*models.Profile, error) {
			return &models.Profile{UserID: userID}, nil
		},
		deleteWithUserFn: func(_ context.Context, _ uint) error { return nil },
	}
}

func TestUpsertProfileValidation(t *testing.T) {
	svc := NewProfileService(noopProfileRepo())

	_, err := svc.UpsertProfile(context.Background(), UpsertProfileInput{
		UserID: 1,
		Skills: "Go,SQL",
	})
	assertValidationError(t, err)

	_, err = svc.UpsertProfile(context.Background(), UpsertProfileInput{
		UserID: 1,
		Status: "Developer",
	})
	assertValidationError(t, err)

	// skills made only of separators and whitespace count as empty
	_, err = svc.UpsertProfile(context.Background(), UpsertProfileInput{
		UserID: 1,
		Status: "Developer",
		Skills: " , , ",
	})
	assertValidationError(t, err)
}

func TestUpsertProfileBuildsModel(t *testing.T) {
	var captured *models.Profile
	repo := noopProfileRepo()
	repo.upsertFn = func(_ context.Context, p *models.Profile) (*models.Profile, error) {
		captured = p
		return p, nil
	}

	svc := NewProfileService(repo)

	_, err := svc.UpsertProfile(context.Background(), UpsertProfileInput{
		UserID:   3,
		Status:   "Developer",
		Skills:   "Go, SQL , React",
		Company:  "Initech",
		Twitter:  "https://twitter.com/dev",
		Linkedin: "https://linkedin.com/in/dev",
	})
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, uint(3), captured.UserID)
	assert.Equal(t, []string{"Go", "SQL", "React"}, captured.Skills)
	assert.Equal(t, "https://twitter.com/dev", captured.Social.Twitter)
	assert.Empty(t, captured.Social.Youtube)
}

func TestAddExperienceValidation(t *testing.T) {
	svc := NewProfileService(noopProfileRepo())
	ctx := context.Background()

	_, err := svc.AddExperience(ctx, AddExperienceInput{UserID: 1, Company: "Acme", From: "2020-01-01"})
	assertValidationError(t, err)

	_, err = svc.AddExperience(ctx, AddExperienceInput{UserID: 1, Title: "Dev", From: "2020-01-01"})
	assertValidationError(t, err)

	_, err = svc.AddExperience(ctx, AddExperienceInput{UserID: 1, Title: "Dev", Company: "Acme"})
	assertValidationError(t, err)

	_, err = svc.AddExperience(ctx, AddExperienceInput{
		UserID: 1, Title: "Dev", Company: "Acme", From: "not-a-date",
	})
	assertValidationError(t, err)

	_, err = svc.AddExperience(ctx, AddExperienceInput{
		UserID: 1, Title: "Dev", Company: "Acme", From: "2020-01-01", To: "bogus",
	})
	assertValidationError(t, err)
}

func TestAddExperienceDateParsing(t *testing.T) {
	var captured *models.Experience
	repo := noopProfileRepo()
	repo.addExperienceFn = func(_ context.Context, userID uint, e *models.Experience) (*models.Profile, error) {
		captured = e
		return &models.Profile{UserID: userID}, nil
	}

	svc := NewProfileService(repo)

	_, err := svc.AddExperience(context.Background(), AddExperienceInput{
		UserID:  1,
		Title:   "Dev",
		Company: "Acme",
		From:    "2020-06-15",
		Current: true,
	})
	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC), captured.From)
	assert.Nil(t, captured.To)
	assert.True(t, captured.Current)

	// RFC 3339 timestamps are accepted too
	_, err = svc.AddExperience(context.Background(), AddExperienceInput{
		UserID:  1,
		Title:   "Dev",
		Company: "Acme",
		From:    "2019-01-02T15:04:05Z",
		To:      "2020-01-01",
	})
	require.NoError(t, err)
	require.NotNil(t, captured.To)
}

func TestAddEducationValidation(t *testing.T) {
	svc := NewProfileService(noopProfileRepo())
	ctx := context.Background()

	_, err := svc.AddEducation(ctx, AddEducationInput{UserID: 1, Degree: "BSc", From: "2015-09-01"})
	assertValidationError(t, err)

	_, err = svc.AddEducation(ctx, AddEducationInput{UserID: 1, School: "MIT", From: "2015-09-01"})
	assertValidationError(t, err)

	_, err = svc.AddEducation(ctx, AddEducationInput{UserID: 1, School: "MIT", Degree: "BSc"})
	assertValidationError(t, err)
}

func TestRemoveEntryPassthrough(t *testing.T) {
	repo := noopProfileRepo()
	repo.removeExperienceFn = func(_ context.Context, _, entryID uint) (*models.Profile, error) {
		return nil, models.NewNotFoundError("Experience", entryID)
	}

	svc := NewProfileService(repo)

	_, err := svc.RemoveExperience(context.Background(), 1, 99)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
