package service

import (
	"context"
	"time"

	"devhub/internal/models"
	"devhub/internal/repository"
	"devhub/internal/validation"
)

// ProfileService owns profile business rules: the locked upsert, entry
// prepend/remove and the transactional account delete.
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

type UpsertProfileInput struct {
	UserID         uint
	Company        string
	Website        string
	Location       string
	Status         string
	Skills         string
	Bio            string
	GithubUsername string
	Youtube        string
	Twitter        string
	Facebook       string
	Linkedin       string
	Instagram      string
}

type AddExperienceInput struct {
	UserID      uint
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
}

type AddEducationInput struct {
	UserID       uint
	School       string
	Degree       string
	FieldOfStudy string
	From         string
	To           string
	Current      bool
	Description  string
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) GetOwnProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) GetProfileByUser(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]*models.Profile, error) {
	return s.profileRepo.List(ctx)
}

func (s *ProfileService) UpsertProfile(ctx context.Context, in UpsertProfileInput) (*models.Profile, error) {
	if in.Status == "" {
		return nil, models.NewValidationError("Status is required")
	}
	skills := validation.SplitSkills(in.Skills)
	if len(skills) == 0 {
		return nil, models.NewValidationError("Skills is required")
	}

	profile := &models.Profile{
		UserID:         in.UserID,
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Status:         in.Status,
		Skills:         skills,
		Bio:            in.Bio,
		GithubUsername: in.GithubUsername,
		Social: models.SocialLinks{
			Youtube:   in.Youtube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			Linkedin:  in.Linkedin,
			Instagram: in.Instagram,
		},
	}

	return s.profileRepo.Upsert(ctx, profile)
}

func (s *ProfileService) AddExperience(ctx context.Context, in AddExperienceInput) (*models.Profile, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if in.Company == "" {
		return nil, models.NewValidationError("Company is required")
	}
	from, err := parseDate(in.From)
	if err != nil {
		return nil, models.NewValidationError("From date is required and must be a valid date")
	}
	to, err := parseOptionalDate(in.To)
	if err != nil {
		return nil, models.NewValidationError("To date must be a valid date")
	}

	entry := &models.Experience{
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}
	return s.profileRepo.AddExperience(ctx, in.UserID, entry)
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID, entryID uint) (*models.Profile, error) {
	return s.profileRepo.RemoveExperience(ctx, userID, entryID)
}

func (s *ProfileService) AddEducation(ctx context.Context, in AddEducationInput) (*models.Profile, error) {
	if in.School == "" {
		return nil, models.NewValidationError("School is required")
	}
	if in.Degree == "" {
		return nil, models.NewValidationError("Degree is required")
	}
	from, err := parseDate(in.From)
	if err != nil {
		return nil, models.NewValidationError("From date is required and must be a valid date")
	}
	to, err := parseOptionalDate(in.To)
	if err != nil {
		return nil, models.NewValidationError("To date must be a valid date")
	}

	entry := &models.Education{
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}
	return s.profileRepo.AddEducation(ctx, in.UserID, entry)
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, entryID uint) (*models.Profile, error) {
	return s.profileRepo.RemoveEducation(ctx, userID, entryID)
}

// DeleteAccount removes profile and user in a single transaction.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.profileRepo.DeleteWithUser(ctx, userID)
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}

func parseOptionalDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := parseDate(v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
