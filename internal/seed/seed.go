// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"devhub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

var statuses = []string{
	"Developer", "Senior Developer", "Junior Developer", "Student",
	"Instructor", "Manager", "Intern", "Freelancer",
}

var skillPool = []string{
	"Go", "JavaScript", "TypeScript", "Python", "Rust", "SQL", "HTML", "CSS",
	"React", "Vue", "Node.js", "Docker", "Kubernetes", "PostgreSQL", "Redis",
	"AWS", "GCP", "Terraform", "GraphQL", "gRPC",
}

// Seeder populates the database with realistic demo data.
type Seeder struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes seeded data. Deletion order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Cleaning database...")
	for _, model := range []any{
		&models.Comment{}, &models.Like{}, &models.Post{},
		&models.Experience{}, &models.Education{}, &models.Profile{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedUsers creates n users, each with a developer profile. All seeded users
// share the password "password123".
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		name := gofakeit.Name()
		email := strings.ToLower(fmt.Sprintf("%s%d@%s",
			gofakeit.Username(), gofakeit.Number(100, 999), gofakeit.DomainName()))
		sum := md5.Sum([]byte(email))

		user := &models.User{
			Name:     name,
			Email:    email,
			Password: string(hashed),
			Avatar: fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=200&r=pg&d=mm",
				hex.EncodeToString(sum[:])),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}

		if err := s.seedProfile(user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	log.Printf("Seeded %d users with profiles", len(users))
	return users, nil
}

func (s *Seeder) seedProfile(user *models.User) error {
	skills := make([]string, 0, 4)
	for _, idx := range s.rand.Perm(len(skillPool))[:3+s.rand.Intn(3)] {
		skills = append(skills, skillPool[idx])
	}

	profile := &models.Profile{
		UserID:         user.ID,
		Company:        gofakeit.Company(),
		Website:        gofakeit.URL(),
		Location:       fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		Status:         statuses[s.rand.Intn(len(statuses))],
		Skills:         skills,
		Bio:            gofakeit.Sentence(12),
		GithubUsername: gofakeit.Username(),
		Social: models.SocialLinks{
			Twitter:  "https://twitter.com/" + gofakeit.Username(),
			Linkedin: "https://linkedin.com/in/" + gofakeit.Username(),
		},
	}

	from := time.Now().AddDate(-1-s.rand.Intn(5), -s.rand.Intn(12), 0)
	profile.Experience = []models.Experience{{
		Title:       gofakeit.JobTitle(),
		Company:     gofakeit.Company(),
		Location:    gofakeit.City(),
		From:        from,
		Current:     true,
		Description: gofakeit.Sentence(10),
	}}
	gradYear := time.Date(time.Now().Year()-s.rand.Intn(10)-1, time.June, 1, 0, 0, 0, 0, time.UTC)
	profile.Education = []models.Education{{
		School:       fmt.Sprintf("%s University", gofakeit.LastName()),
		Degree:       "BSc",
		FieldOfStudy: "Computer Science",
		From:         gradYear.AddDate(-4, 0, 0),
		To:           &gradYear,
		Description:  gofakeit.Sentence(8),
	}}

	return s.db.Create(profile).Error
}

// SeedPosts creates n posts with a random spread of likes and comments.
func (s *Seeder) SeedPosts(users []*models.User, n int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to author posts")
	}

	for i := 0; i < n; i++ {
		author := users[s.rand.Intn(len(users))]
		post := &models.Post{
			UserID:       author.ID,
			Text:         gofakeit.Paragraph(1, 2, 8, " "),
			AuthorName:   author.Name,
			AuthorAvatar: author.Avatar,
			CreatedAt:    time.Now().Add(-time.Duration(s.rand.Intn(90*24)) * time.Hour),
		}
		if err := s.db.Create(post).Error; err != nil {
			return err
		}

		for _, idx := range s.rand.Perm(len(users))[:s.rand.Intn(len(users))] {
			like := models.Like{UserID: users[idx].ID, PostID: post.ID}
			if err := s.db.Create(&like).Error; err != nil {
				return err
			}
		}

		for j := 0; j < s.rand.Intn(4); j++ {
			commenter := users[s.rand.Intn(len(users))]
			comment := models.Comment{
				PostID:       post.ID,
				UserID:       commenter.ID,
				Text:         gofakeit.Sentence(10),
				AuthorName:   commenter.Name,
				AuthorAvatar: commenter.Avatar,
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return err
			}
		}
	}

	log.Printf("Seeded %d posts", n)
	return nil
}

// Run executes the full seed according to opts.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	users, err := s.SeedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	return s.SeedPosts(users, opts.NumPosts)
}
