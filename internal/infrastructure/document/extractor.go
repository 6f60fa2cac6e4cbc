package document

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
)

// MaxTextRunes - сколько текста резюме сохраняем для поиска.
const MaxTextRunes = 50000

var spaces = regexp.MustCompile(`\s+`)

var supported = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".rtf":  true,
	".odt":  true,
}

// Extractor достаёт текст из резюме для поиска по кандидатам.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supports сообщает, умеем ли мы разбирать файл с таким расширением.
func (e *Extractor) Supports(path string) bool {
	return supported[strings.ToLower(filepath.Ext(path))]
}

// ExtractText читает файл по пути и возвращает нормализованный текст.
func (e *Extractor) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !e.Supports(path) {
		return "", fmt.Errorf("document: неподдерживаемый формат %s", filepath.Ext(path))
	}

	res, err := docconv.ConvertPath(path)
	if err != nil {
		return "", fmt.Errorf("document: не удалось разобрать %s: %w", filepath.Base(path), err)
	}
	return Normalize(res.Body), nil
}

// Normalize схлопывает пробелы и обрезает текст до MaxTextRunes.
func Normalize(text string) string {
	text = strings.TrimSpace(spaces.ReplaceAllString(text, " "))
	if utf8.RuneCountInString(text) <= MaxTextRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:MaxTextRunes])
}
