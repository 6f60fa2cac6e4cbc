package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

// PublicPrefix - URL-префикс, под которым раздаются файлы.
const PublicPrefix = "/media"

// sniffBytes - сколько байт читаем для определения типа. docx распознаётся
// по содержимому zip, поэтому 512 байт мало.
const sniffBytes = 8192

var resumeMIME = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var videoMIME = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// StoredDocument описывает сохранённый файл.
type StoredDocument struct {
	URL      string
	Path     string
	MIME     string
	Size     int64
	Filename string
}

// DocumentStorage - файловое хранилище материалов заявки.
type DocumentStorage struct {
	rootPath       string
	publicBaseURL  string
	maxResumeBytes int64
	maxVideoBytes  int64
}

func NewDocumentStorage(rootPath, publicBaseURL string, maxResumeMB, maxVideoMB int64) (*DocumentStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &DocumentStorage{
		rootPath:       rootPath,
		publicBaseURL:  strings.TrimRight(publicBaseURL, "/"),
		maxResumeBytes: maxResumeMB * 1024 * 1024,
		maxVideoBytes:  maxVideoMB * 1024 * 1024,
	}, nil
}

// Root - каталог, который раздаётся по PublicPrefix.
func (s *DocumentStorage) Root() string {
	return s.rootPath
}

// DetectMIME определяет тип по сигнатуре и проверяет, что он подходит для kind.
func DetectMIME(kind entity.DocumentKind, head []byte) (string, string, error) {
	t, err := filetype.Match(head)
	if err != nil || t == filetype.Unknown {
		return "", "", apperror.Validation("не удалось определить тип файла")
	}

	allowed := resumeMIME
	hint := "PDF, DOC или DOCX"
	if kind.IsVideo() {
		allowed = videoMIME
		hint = "MP4, WebM или MOV"
	}
	if !allowed[t.MIME.Value] {
		return "", "", apperror.Validation(fmt.Sprintf("неподдерживаемый тип файла (%s), разрешены %s", t.MIME.Value, hint))
	}
	return t.MIME.Value, t.Extension, nil
}

func (s *DocumentStorage) limitFor(kind entity.DocumentKind) int64 {
	if kind.IsVideo() {
		return s.maxVideoBytes
	}
	return s.maxResumeBytes
}

// Upload проверяет тип файла по сигнатуре, сохраняет его и возвращает публичный URL.
// Расширение берётся из реального типа, а не из имени файла.
func (s *DocumentStorage) Upload(ctx context.Context, candidateID uuid.UUID, kind entity.DocumentKind, originalName string, r io.Reader) (*StoredDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	head := make([]byte, sniffBytes)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperror.Wrap(err, apperror.ErrCodeBadRequest, "не удалось прочитать файл")
	}
	head = head[:n]
	if n == 0 {
		return nil, apperror.Validation("файл не может быть пустым")
	}

	mime, ext, err := DetectMIME(kind, head)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.rootPath, candidateID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог кандидата: %w", err)
	}

	fileName := fmt.Sprintf("%s_%d.%s", kind, time.Now().UnixNano(), ext)
	targetPath := filepath.Join(dir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limit := s.limitFor(kind)
	limited := io.LimitedReader{R: io.MultiReader(bytes.NewReader(head), r), N: limit + 1}
	written, err := io.Copy(f, &limited)
	if err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}
	if written > limit {
		_ = os.Remove(tempPath)
		return nil, apperror.New(apperror.ErrCodeTooLarge, fmt.Sprintf("размер файла превышает лимит %d МБ", limit/1024/1024))
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return nil, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	rel := path.Join(candidateID.String(), fileName)
	return &StoredDocument{
		URL:      s.publicBaseURL + PublicPrefix + "/" + rel,
		Path:     targetPath,
		MIME:     mime,
		Size:     written,
		Filename: sanitizeFilename(originalName),
	}, nil
}

// DeleteCandidate удаляет все файлы кандидата.
func (s *DocumentStorage) DeleteCandidate(ctx context.Context, candidateID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.rootPath, candidateID.String())); err != nil {
		return fmt.Errorf("storage: не удалось удалить файлы кандидата: %w", err)
	}
	return nil
}

// sanitizeFilename удаляет потенциально опасные символы.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "")
	if name == "" || name == "." || name == "/" {
		name = "document"
	}
	return name
}
