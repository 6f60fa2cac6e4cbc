package assessment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/infrastructure/functions"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/validation"
)

const (
	defaultGeneratedCount = 5
	maxGeneratedCount     = 20
)

type CreateInput struct {
	Principal        entity.Principal
	Title            string
	Description      string
	TimeLimitMinutes int
	Questions        []entity.Question
}

type CreateAssessmentUseCase struct {
	assessments repository.AssessmentRepository
}

func NewCreateAssessmentUseCase(assessments repository.AssessmentRepository) *CreateAssessmentUseCase {
	return &CreateAssessmentUseCase{assessments: assessments}
}

func (uc *CreateAssessmentUseCase) Execute(ctx context.Context, input CreateInput) (*entity.Assessment, error) {
	if err := requireRole(input.Principal, authorRoles...); err != nil {
		return nil, err
	}
	if err := validation.ValidateLength("название теста", strings.TrimSpace(input.Title), 1, validation.MaxJobTitleLength); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	a, err := entity.NewAssessment(input.Title, input.Description, input.TimeLimitMinutes, input.Questions, &input.Principal.UserID)
	if err != nil {
		return nil, err
	}
	if err := uc.assessments.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

type GenerateInput struct {
	Principal entity.Principal
	Topic     string
	JobTitle  string
	Count     int
}

// GenerateQuestionsUseCase запрашивает вопросы у удалённой функции. Вопросы
// не сохраняются: HR правит их и создаёт тест обычным способом.
type GenerateQuestionsUseCase struct {
	generator QuestionGenerator
}

func NewGenerateQuestionsUseCase(generator QuestionGenerator) *GenerateQuestionsUseCase {
	return &GenerateQuestionsUseCase{generator: generator}
}

func (uc *GenerateQuestionsUseCase) Execute(ctx context.Context, input GenerateInput) ([]entity.Question, error) {
	if err := requireRole(input.Principal, authorRoles...); err != nil {
		return nil, err
	}
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return nil, apperror.Validation("тема обязательна")
	}
	count := input.Count
	if count <= 0 {
		count = defaultGeneratedCount
	}
	if count > maxGeneratedCount {
		return nil, apperror.Validation("слишком много вопросов за один запрос")
	}

	generated, err := uc.generator.GenerateQuestions(ctx, functions.GenerateQuestionsRequest{
		Topic:    topic,
		JobTitle: strings.TrimSpace(input.JobTitle),
		Count:    count,
	})
	if err != nil {
		return nil, err
	}

	questions := make([]entity.Question, len(generated))
	for i, g := range generated {
		questions[i] = entity.Question{Text: g.Text, Options: g.Options, CorrectAnswerIndex: g.CorrectAnswerIndex}
	}
	if err := entity.ValidateQuestions(questions); err != nil {
		// схема пропустила ответ, но вопросы непригодны
		return nil, apperror.Remote(err, "функция вернула некорректные вопросы")
	}
	return questions, nil
}

type ListAssessmentsUseCase struct {
	assessments repository.AssessmentRepository
}

func NewListAssessmentsUseCase(assessments repository.AssessmentRepository) *ListAssessmentsUseCase {
	return &ListAssessmentsUseCase{assessments: assessments}
}

func (uc *ListAssessmentsUseCase) Execute(ctx context.Context) ([]*entity.Assessment, error) {
	return uc.assessments.List(ctx)
}

type GetAssessmentUseCase struct {
	assessments repository.AssessmentRepository
}

func NewGetAssessmentUseCase(assessments repository.AssessmentRepository) *GetAssessmentUseCase {
	return &GetAssessmentUseCase{assessments: assessments}
}

func (uc *GetAssessmentUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Assessment, error) {
	return uc.assessments.FindByID(ctx, id)
}
