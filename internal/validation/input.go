package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinFullNameLength       = 2
	MaxFullNameLength       = 120
	MaxJobTitleLength       = 200
	MaxJobDescriptionLength = 5000
	MaxLocationLength       = 100
	MaxRegionLength         = 100
	MaxPhoneLength          = 32
	MaxSearchLength         = 100
	MaxReviewNotesLength    = 2000
	MaxExternalLinkLength   = 500
)

var (
	emailLocalRegex  = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	emailDomainRegex = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	phoneRegex       = regexp.MustCompile(`^\+?[0-9 ()-]{5,}$`)
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return fmt.Errorf("некорректный формат email")
	}
	if len(local) == 0 || len(local) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domain) == 0 || len(domain) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !emailLocalRegex.MatchString(local) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}
	if !emailDomainRegex.MatchString(domain) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

func ValidateFullName(name string) error {
	if err := ValidateNonEmpty("имя", name); err != nil {
		return err
	}
	return ValidateLength("имя", strings.TrimSpace(name), MinFullNameLength, MaxFullNameLength)
}

func ValidateJobTitle(title string) error {
	if err := ValidateNonEmpty("название вакансии", title); err != nil {
		return err
	}
	return ValidateLength("название вакансии", strings.TrimSpace(title), 0, MaxJobTitleLength)
}

func ValidateJobDescription(description string) error {
	return ValidateLength("описание вакансии", description, 0, MaxJobDescriptionLength)
}

// ValidateOptional проверяет длину необязательного поля.
func ValidateOptional(fieldName string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return ValidateLength(fieldName, strings.TrimSpace(*value), 0, max)
}

func ValidatePhone(phone *string) error {
	if phone == nil || strings.TrimSpace(*phone) == "" {
		return nil
	}
	p := strings.TrimSpace(*phone)
	if err := ValidateLength("телефон", p, 0, MaxPhoneLength); err != nil {
		return err
	}
	if !phoneRegex.MatchString(p) {
		return fmt.Errorf("некорректный формат телефона")
	}
	return nil
}

// ValidateExternalLink проверяет ссылку на видео модуля обучения.
func ValidateExternalLink(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return fmt.Errorf("ссылка обязательна")
	}
	if err := ValidateLength("ссылка", link, 0, MaxExternalLinkLength); err != nil {
		return err
	}
	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return fmt.Errorf("некорректный URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL должен начинаться с http:// или https://")
	}
	return nil
}
