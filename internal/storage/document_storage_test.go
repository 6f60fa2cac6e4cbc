package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
)

var (
	pdfBytes = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer\n%%EOF\n")
	mp4Bytes = append([]byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm', 0x00, 0x00, 0x02, 0x00, 'i', 's', 'o', 'm', 'i', 's', 'o', '2'}, make([]byte, 64)...)
	pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}
)

func newStorage(t *testing.T) *DocumentStorage {
	t.Helper()
	s, err := NewDocumentStorage(t.TempDir(), "https://cdn.example.com/", 1, 1)
	require.NoError(t, err)
	return s
}

func TestUpload_Resume(t *testing.T) {
	s := newStorage(t)
	candidateID := uuid.New()

	doc, err := s.Upload(context.Background(), candidateID, entity.DocumentResume, "../../cv.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", doc.MIME)
	assert.Equal(t, int64(len(pdfBytes)), doc.Size)
	assert.True(t, strings.HasPrefix(doc.URL, "https://cdn.example.com/media/"+candidateID.String()+"/resume_"))
	assert.True(t, strings.HasSuffix(doc.URL, ".pdf"))
	assert.Equal(t, "cv.pdf", doc.Filename)

	stored, err := os.ReadFile(doc.Path)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, stored)
}

func TestUpload_Video(t *testing.T) {
	s := newStorage(t)
	doc, err := s.Upload(context.Background(), uuid.New(), entity.DocumentSalesPitchVideo, "pitch.mp4", bytes.NewReader(mp4Bytes))
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", doc.MIME)
}

func TestUpload_WrongTypeForKind(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, uuid.New(), entity.DocumentAboutMeVideo, "cv.mp4", bytes.NewReader(pdfBytes))
	assert.True(t, apperror.IsValidation(err))

	_, err = s.Upload(ctx, uuid.New(), entity.DocumentResume, "cv.pdf", bytes.NewReader(pngBytes))
	assert.True(t, apperror.IsValidation(err))

	_, err = s.Upload(ctx, uuid.New(), entity.DocumentResume, "cv.pdf", bytes.NewReader(nil))
	assert.True(t, apperror.IsValidation(err))
}

func TestUpload_TooLarge(t *testing.T) {
	s := newStorage(t)
	candidateID := uuid.New()
	big := append(append([]byte{}, pdfBytes...), make([]byte, 1024*1024)...)

	_, err := s.Upload(context.Background(), candidateID, entity.DocumentResume, "cv.pdf", bytes.NewReader(big))
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.ErrCodeTooLarge, appErr.Code)

	entries, _ := os.ReadDir(filepath.Join(s.Root(), candidateID.String()))
	assert.Empty(t, entries)
}

func TestDeleteCandidate(t *testing.T) {
	s := newStorage(t)
	candidateID := uuid.New()
	_, err := s.Upload(context.Background(), candidateID, entity.DocumentResume, "cv.pdf", bytes.NewReader(pdfBytes))
	require.NoError(t, err)

	require.NoError(t, s.DeleteCandidate(context.Background(), candidateID))
	_, err = os.Stat(filepath.Join(s.Root(), candidateID.String()))
	assert.True(t, os.IsNotExist(err))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "cv.pdf", sanitizeFilename(`..\..\cv.pdf`))
	assert.Equal(t, "document", sanitizeFilename(""))
}
