package candidate

import (
	"context"
	"fmt"
	"io"

	"github.com/ignatzorin/hiring-backend/internal/domain/entity"
	"github.com/ignatzorin/hiring-backend/internal/domain/repository"
	"github.com/ignatzorin/hiring-backend/internal/logger"
	"github.com/ignatzorin/hiring-backend/internal/pkg/apperror"
	"github.com/ignatzorin/hiring-backend/internal/validation"
)

type UploadDocumentInput struct {
	Principal entity.Principal
	Kind      string
	Filename  string
	Content   io.Reader
}

// UploadDocumentUseCase сохраняет резюме или видео и обновляет ссылку в записи кандидата.
// Для резюме дополнительно извлекается текст для поиска.
type UploadDocumentUseCase struct {
	candidates repository.CandidateRepository
	activities repository.ActivityRepository
	store      DocumentStore
	extractor  TextExtractor
	notifier   ChangeNotifier
}

func NewUploadDocumentUseCase(
	candidates repository.CandidateRepository,
	activities repository.ActivityRepository,
	store DocumentStore,
	extractor TextExtractor,
	notifier ChangeNotifier,
) *UploadDocumentUseCase {
	return &UploadDocumentUseCase{
		candidates: candidates,
		activities: activities,
		store:      store,
		extractor:  extractor,
		notifier:   notifier,
	}
}

func (uc *UploadDocumentUseCase) Execute(ctx context.Context, input UploadDocumentInput) (*entity.Candidate, error) {
	kind, err := entity.ParseDocumentKind(input.Kind)
	if err != nil {
		return nil, err
	}

	c, err := ownCandidate(ctx, uc.candidates, input.Principal)
	if err != nil {
		return nil, err
	}

	submittedBefore := c.ApplicationSubmitted()

	doc, err := uc.store.Upload(ctx, c.ID, kind, input.Filename, input.Content)
	if err != nil {
		return nil, err
	}
	if err := c.AttachDocument(kind, doc.URL); err != nil {
		return nil, err
	}

	if kind == entity.DocumentResume {
		c.SetResumeText("")
		if uc.extractor != nil && uc.extractor.Supports(doc.Path) {
			text, err := uc.extractor.ExtractText(ctx, doc.Path)
			if err != nil {
				// без текста резюме просто не участвует в поиске
				logger.WithCandidate(c.ID).WithError(err).Warn("candidate: не удалось извлечь текст резюме")
			} else {
				c.SetResumeText(text)
			}
		}
	}

	if err := uc.candidates.Update(ctx, c); err != nil {
		return nil, err
	}

	recordActivity(ctx, uc.activities, uc.notifier, c.ID, &input.Principal.UserID, entity.ActivityDocumentUploaded,
		fmt.Sprintf("Uploaded %s", documentLabel(kind)))
	if !submittedBefore && c.ApplicationSubmitted() {
		logger.WithCandidate(c.ID).Info("candidate: все материалы заявки загружены")
	}
	uc.notifier.CandidateChanged(c, false)
	return c, nil
}

func documentLabel(kind entity.DocumentKind) string {
	switch kind {
	case entity.DocumentAboutMeVideo:
		return "about me video"
	case entity.DocumentSalesPitchVideo:
		return "sales pitch video"
	default:
		return "resume"
	}
}

type UpdateProfileInput struct {
	Principal entity.Principal
	Location  *string
	Phone     *string
	Region    *string
}

type UpdateProfileUseCase struct {
	candidates repository.CandidateRepository
	notifier   ChangeNotifier
}

func NewUpdateProfileUseCase(candidates repository.CandidateRepository, notifier ChangeNotifier) *UpdateProfileUseCase {
	return &UpdateProfileUseCase{candidates: candidates, notifier: notifier}
}

func (uc *UpdateProfileUseCase) Execute(ctx context.Context, input UpdateProfileInput) (*entity.Candidate, error) {
	c, err := ownCandidate(ctx, uc.candidates, input.Principal)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidatePhone(input.Phone); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidateOptional("город", input.Location, validation.MaxLocationLength); err != nil {
		return nil, apperror.Validation(err.Error())
	}
	if err := validation.ValidateOptional("регион", input.Region, validation.MaxRegionLength); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	c.UpdateContacts(input.Location, input.Phone, input.Region)
	if err := uc.candidates.Update(ctx, c); err != nil {
		return nil, err
	}
	uc.notifier.CandidateChanged(c, false)
	return c, nil
}
