package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

// Имена удалённых функций.
const (
	FnGenerateQuestions = "generate-questions"
	FnUpdateUserEmail   = "update-user-email"
	FnSendEmail         = "send-email"
)

// maxResponseBytes ограничивает тело ответа функции.
const maxResponseBytes = 1 << 20

// Result - ответ удалённой функции.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Client вызывает удалённые функции по HTTP. Повторов нет: ошибка
// возвращается вызывающему как REMOTE_ERROR.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Invoke вызывает функцию name с JSON телом payload. Ошибка возвращается только
// при сбое транспорта или неразборчивом ответе; Success=false приходит в Result.
func (c *Client) Invoke(ctx context.Context, name string, payload any) (*Result, error) {
	if c.baseURL == "" {
		return nil, apperror.Remote(nil, "адрес удалённых функций не задан")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось сериализовать запрос")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+name, bytes.NewReader(body))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "не удалось создать запрос")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Remote(err, fmt.Sprintf("функция %s недоступна", name))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperror.Remote(err, fmt.Sprintf("функция %s: не удалось прочитать ответ", name))
	}

	var result Result
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, apperror.Remote(err, fmt.Sprintf("функция %s вернула некорректный ответ", name))
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Success = false
		if result.Error == "" {
			result.Error = fmt.Sprintf("статус %d", resp.StatusCode)
		}
	}
	return &result, nil
}

// Call вызывает функцию и раскладывает Data в out. Success=false превращается в REMOTE_ERROR.
func (c *Client) Call(ctx context.Context, name string, payload, out any) error {
	result, err := c.Invoke(ctx, name, payload)
	if err != nil {
		return err
	}
	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = "неизвестная ошибка"
		}
		return apperror.Remote(nil, fmt.Sprintf("функция %s: %s", name, msg))
	}
	if out == nil || len(result.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Data, out); err != nil {
		return apperror.Remote(err, fmt.Sprintf("функция %s вернула данные неожиданного формата", name))
	}
	return nil
}
