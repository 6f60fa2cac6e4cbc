package functions

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/qri-io/jsonschema"

	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

// GeneratedQuestion - вопрос, предложенный функцией генерации.
type GeneratedQuestion struct {
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer_index"`
}

type GenerateQuestionsRequest struct {
	Topic    string `json:"topic"`
	JobTitle string `json:"job_title,omitempty"`
	Count    int    `json:"count"`
}

const questionsSchema = `{
  "type": "object",
  "required": ["questions"],
  "properties": {
    "questions": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["text", "options", "correct_answer_index"],
        "properties": {
          "text": {"type": "string", "minLength": 1},
          "options": {"type": "array", "minItems": 2, "items": {"type": "string", "minLength": 1}},
          "correct_answer_index": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

var questionsValidator = mustSchema(questionsSchema)

func mustSchema(raw string) *jsonschema.Schema {
	rs := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(raw), rs); err != nil {
		panic(err)
	}
	return rs
}

// ValidateQuestionsPayload проверяет ответ генератора по JSON-схеме.
func ValidateQuestionsPayload(ctx context.Context, data []byte) error {
	verrs, err := questionsValidator.ValidateBytes(ctx, data)
	if err != nil {
		return apperror.Remote(err, "ответ генератора не является корректным JSON")
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for _, v := range verrs {
			sb.WriteString(v.PropertyPath)
			sb.WriteString(": ")
			sb.WriteString(v.Message)
			sb.WriteString("; ")
		}
		return apperror.Remote(nil, "ответ генератора не соответствует схеме: "+strings.TrimSuffix(sb.String(), "; "))
	}
	return nil
}

// GenerateQuestions вызывает generate-questions и проверяет ответ по схеме.
func (c *Client) GenerateQuestions(ctx context.Context, in GenerateQuestionsRequest) ([]GeneratedQuestion, error) {
	var data json.RawMessage
	if err := c.Call(ctx, FnGenerateQuestions, in, &data); err != nil {
		return nil, err
	}
	if err := ValidateQuestionsPayload(ctx, data); err != nil {
		return nil, err
	}

	var payload struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apperror.Remote(err, "не удалось разобрать вопросы")
	}
	return payload.Questions, nil
}

// UpdateUserEmail меняет email в учётной записи провайдера аутентификации.
func (c *Client) UpdateUserEmail(ctx context.Context, userID uuid.UUID, email string) error {
	return c.Call(ctx, FnUpdateUserEmail, map[string]string{
		"user_id": userID.String(),
		"email":   email,
	}, nil)
}

// Email - письмо кандидату.
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func (c *Client) SendEmail(ctx context.Context, email Email) error {
	return c.Call(ctx, FnSendEmail, email, nil)
}
