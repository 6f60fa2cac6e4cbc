package seed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/pipeline"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/logger"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/usecase/auth"
)

// Fixtures - справочные данные для локальной разработки.
type Fixtures struct {
	Users       []UserFixture       `yaml:"users"`
	Jobs        []JobFixture        `yaml:"jobs"`
	Assessments []AssessmentFixture `yaml:"assessments"`
	Modules     []ModuleFixture     `yaml:"training_modules"`
}

type UserFixture struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
	Role     string `yaml:"role"`
}

type JobFixture struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Location    *string `yaml:"location,omitempty"`
}

type QuestionFixture struct {
	Text    string   `yaml:"text"`
	Options []string `yaml:"options"`
	Correct int      `yaml:"correct"`
}

type AssessmentFixture struct {
	Title            string            `yaml:"title"`
	Description      string            `yaml:"description"`
	TimeLimitMinutes int               `yaml:"time_limit_minutes"`
	Questions        []QuestionFixture `yaml:"questions"`
}

type VideoFixture struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

type ModuleFixture struct {
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Position    int               `yaml:"position"`
	NextStep    int               `yaml:"next_step"`
	Videos      []VideoFixture    `yaml:"videos"`
	Quiz        []QuestionFixture `yaml:"quiz"`
}

// Load читает фикстуры из YAML-файла.
func Load(path string) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse не допускает неизвестных полей: опечатка в фикстуре должна падать сразу.
func Parse(r io.Reader) (*Fixtures, error) {
	fixtures := &Fixtures{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(fixtures); err != nil && err != io.EOF {
		return nil, fmt.Errorf("seed: разбор фикстур: %w", err)
	}
	return fixtures, nil
}

func questions(in []QuestionFixture) []entity.Question {
	out := make([]entity.Question, len(in))
	for i, q := range in {
		out[i] = entity.Question{Text: q.Text, Options: q.Options, CorrectAnswerIndex: q.Correct}
	}
	return out
}

// Stats - сколько записей создано. Существующие записи пропускаются.
type Stats struct {
	Users       int
	Jobs        int
	Assessments int
	Modules     int
}

type Seeder struct {
	users       repository.UserRepository
	jobs        repository.JobRepository
	assessments repository.AssessmentRepository
	training    repository.TrainingRepository
}

func NewSeeder(users repository.UserRepository, jobs repository.JobRepository, assessments repository.AssessmentRepository, training repository.TrainingRepository) *Seeder {
	return &Seeder{users: users, jobs: jobs, assessments: assessments, training: training}
}

// Apply создаёт недостающие записи. Повторный запуск ничего не дублирует:
// пользователи сверяются по email, остальное по названию.
func (s *Seeder) Apply(ctx context.Context, f *Fixtures) (Stats, error) {
	var stats Stats

	for _, u := range f.Users {
		created, err := s.seedUser(ctx, u)
		if err != nil {
			return stats, fmt.Errorf("seed: пользователь %s: %w", u.Email, err)
		}
		if created {
			stats.Users++
		}
	}

	jobs, err := s.jobs.List(ctx, false)
	if err != nil {
		return stats, err
	}
	existingJobs := make(map[string]struct{}, len(jobs))
	for _, j := range jobs {
		existingJobs[strings.ToLower(j.Title)] = struct{}{}
	}
	for _, jf := range f.Jobs {
		if _, ok := existingJobs[strings.ToLower(strings.TrimSpace(jf.Title))]; ok {
			continue
		}
		job, err := entity.NewJob(jf.Title, jf.Description, jf.Location, nil)
		if err != nil {
			return stats, fmt.Errorf("seed: вакансия %q: %w", jf.Title, err)
		}
		if err := s.jobs.Create(ctx, job); err != nil {
			return stats, err
		}
		stats.Jobs++
	}

	assessments, err := s.assessments.List(ctx)
	if err != nil {
		return stats, err
	}
	existingAssessments := make(map[string]struct{}, len(assessments))
	for _, a := range assessments {
		existingAssessments[strings.ToLower(a.Title)] = struct{}{}
	}
	for _, af := range f.Assessments {
		if _, ok := existingAssessments[strings.ToLower(strings.TrimSpace(af.Title))]; ok {
			continue
		}
		a, err := entity.NewAssessment(af.Title, af.Description, af.TimeLimitMinutes, questions(af.Questions), nil)
		if err != nil {
			return stats, fmt.Errorf("seed: тест %q: %w", af.Title, err)
		}
		if err := s.assessments.Create(ctx, a); err != nil {
			return stats, err
		}
		stats.Assessments++
	}

	modules, err := s.training.ListModules(ctx)
	if err != nil {
		return stats, err
	}
	existingModules := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		existingModules[strings.ToLower(m.Title)] = struct{}{}
	}
	for _, mf := range f.Modules {
		if _, ok := existingModules[strings.ToLower(strings.TrimSpace(mf.Title))]; ok {
			continue
		}
		videos := make([]entity.TrainingVideo, len(mf.Videos))
		for i, v := range mf.Videos {
			videos[i] = entity.TrainingVideo{Title: v.Title, URL: v.URL}
		}
		var quiz []entity.Question
		if len(mf.Quiz) > 0 {
			quiz = questions(mf.Quiz)
		}
		m, err := entity.NewTrainingModule(mf.Title, mf.Description, mf.Position, videos, quiz, pipeline.Step(mf.NextStep))
		if err != nil {
			return stats, fmt.Errorf("seed: модуль %q: %w", mf.Title, err)
		}
		if err := s.training.CreateModule(ctx, m); err != nil {
			return stats, err
		}
		stats.Modules++
	}

	logger.Log.WithFields(logrus.Fields{
		"users":       stats.Users,
		"jobs":        stats.Jobs,
		"assessments": stats.Assessments,
		"modules":     stats.Modules,
	}).Info("seed: фикстуры применены")
	return stats, nil
}

func (s *Seeder) seedUser(ctx context.Context, u UserFixture) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !apperror.IsNotFound(err) {
		return false, err
	}

	role, err := entity.NewRole(u.Role)
	if err != nil {
		return false, err
	}
	// кандидаты без записи в воронке не имеют смысла
	if !role.IsStaff() {
		return false, apperror.Validation("через фикстуры заводятся только сотрудники")
	}

	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return false, err
	}
	user, err := entity.NewUser(email, hash, u.FullName, role)
	if err != nil {
		return false, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}
