package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/procert/registry-backend/internal/models"
	"github.com/procert/registry-backend/pkg/bcrypt"
	"github.com/procert/registry-backend/pkg/storage"
)

// MemberStore is the persistence surface for member records.
type MemberStore interface {
	Create(member *models.Member) error
	GetByID(id uint) (*models.Member, error)
	GetByCode(code string) (*models.Member, error)
	GetAll() ([]models.Member, error)
	GetActive() ([]models.Member, error)
	Update(member *models.Member) error
	Delete(id uint) error
	DeleteAll() (int64, error)
	CodeExists(code string) (bool, error)
	EmailExists(email string, excludeID uint) (bool, error)
}

// MemberLimiter gates new member creation.
type MemberLimiter interface {
	CanAddMember() *models.LimitCheck
}

// WelcomeMailer greets newly registered members.
type WelcomeMailer interface {
	SendWelcomeEmail(to, name, code string) error
}

// Upload carries one multipart file's bytes into the service layer.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type MemberService struct {
	members    MemberStore
	limiter    MemberLimiter
	store      storage.Storage
	mailer     WelcomeMailer
	backendURL string
	logger     *zap.SugaredLogger
}

func NewMemberService(members MemberStore, limiter MemberLimiter, store storage.Storage, mailer WelcomeMailer, backendURL string, logger *zap.SugaredLogger) *MemberService {
	return &MemberService{
		members:    members,
		limiter:    limiter,
		store:      store,
		mailer:     mailer,
		backendURL: backendURL,
		logger:     logger,
	}
}

func normalizeEmail(email string) *string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	return &email
}

// Create registers a member. The code is stored uppercased; the optional
// photo and signature pass through the storage backend and only their
// generated filenames land on the record.
func (s *MemberService) Create(ctx context.Context, req models.CreateMemberRequest, passport, signature *Upload) (*models.Member, error) {
	check := s.limiter.CanAddMember()
	if !check.Allowed {
		return nil, &LimitReachedError{Entity: "member", Check: check}
	}

	code := strings.ToUpper(strings.TrimSpace(req.Code))
	exists, err := s.members.CodeExists(code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateCode
	}

	email := normalizeEmail(req.Email)
	if email != nil {
		taken, err := s.members.EmailExists(*email, 0)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateEmail
		}
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	position := req.Position
	if position == "" {
		position = models.PositionMember
	}

	member := &models.Member{
		Name:     req.Name,
		Email:    email,
		Password: hashedPassword,
		Code:     code,
		Position: position,
		State:    req.State,
		Zone:     req.Zone,
		IsActive: true,
	}

	passportName, err := s.saveUpload(ctx, storage.FieldPassportPhoto, passport)
	if err != nil {
		return nil, err
	}
	signatureName, err := s.saveUpload(ctx, storage.FieldSignature, signature)
	if err != nil {
		// Keep the pair consistent: drop the passport we just stored.
		if passportName != "" {
			_, _ = s.store.Delete(ctx, storage.FieldPassportPhoto, passportName)
		}
		return nil, err
	}

	member.PassportPhoto = passportName
	member.Signature = signatureName
	member.CardGenerated = passportName != "" && signatureName != ""

	if err := s.members.Create(member); err != nil {
		if passportName != "" {
			_, _ = s.store.Delete(ctx, storage.FieldPassportPhoto, passportName)
		}
		if signatureName != "" {
			_, _ = s.store.Delete(ctx, storage.FieldSignature, signatureName)
		}
		return nil, err
	}

	if s.mailer != nil && member.Email != nil {
		if err := s.mailer.SendWelcomeEmail(*member.Email, member.Name, member.Code); err != nil {
			s.logger.Warnw("welcome email failed", "code", member.Code, "error", err)
		}
	}

	return member, nil
}

// Update applies field changes and replaces photos. New blobs are written
// before old ones are deleted; a failed delete orphans the old blob rather
// than risking the new one, and is only logged.
func (s *MemberService) Update(ctx context.Context, id uint, req models.UpdateMemberRequest, passport, signature *Upload) (*models.Member, error) {
	member, err := s.members.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		member.Name = req.Name
	}
	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if email != nil {
			taken, err := s.members.EmailExists(*email, member.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrDuplicateEmail
			}
		}
		member.Email = email
	}
	if req.Password != "" {
		hashed, err := bcrypt.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		member.Password = hashed
	}
	if req.Position != "" {
		member.Position = req.Position
	}
	if req.State != "" {
		member.State = req.State
	}
	if req.Zone != "" {
		member.Zone = req.Zone
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}

	if passport != nil {
		newName, err := s.saveUpload(ctx, storage.FieldPassportPhoto, passport)
		if err != nil {
			return nil, err
		}
		s.deleteBlob(ctx, storage.FieldPassportPhoto, member.PassportPhoto)
		member.PassportPhoto = newName
	}
	if signature != nil {
		newName, err := s.saveUpload(ctx, storage.FieldSignature, signature)
		if err != nil {
			return nil, err
		}
		s.deleteBlob(ctx, storage.FieldSignature, member.Signature)
		member.Signature = newName
	}

	member.CardGenerated = member.PassportPhoto != "" && member.Signature != ""

	if err := s.members.Update(member); err != nil {
		return nil, err
	}
	return member, nil
}

// Delete removes the member row after a best-effort blob cleanup; a blob
// that fails to delete is logged, never surfaced.
func (s *MemberService) Delete(ctx context.Context, id uint) error {
	member, err := s.members.GetByID(id)
	if err != nil {
		return err
	}

	s.deleteBlob(ctx, storage.FieldPassportPhoto, member.PassportPhoto)
	s.deleteBlob(ctx, storage.FieldSignature, member.Signature)

	return s.members.Delete(id)
}

func (s *MemberService) DeleteAll() (int64, error) {
	return s.members.DeleteAll()
}

func (s *MemberService) GetAll() ([]models.Member, error) {
	return s.members.GetAll()
}

func (s *MemberService) GetActive() ([]models.Member, error) {
	return s.members.GetActive()
}

func (s *MemberService) GetByID(id uint) (*models.Member, error) {
	return s.members.GetByID(id)
}

// VerifyByCode resolves a member card for the public verification
// endpoint, with photo fields expanded to absolute URLs.
func (s *MemberService) VerifyByCode(code string) (*models.MemberCard, error) {
	member, err := s.members.GetByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}

	card := &models.MemberCard{
		ID:            member.ID,
		Name:          member.Name,
		Code:          member.Code,
		Position:      member.Position,
		State:         member.State,
		Zone:          member.Zone,
		CardGenerated: member.CardGenerated,
		CreatedAt:     member.CreatedAt,
	}
	if member.PassportPhoto != "" {
		card.PassportPhotoURL = fmt.Sprintf("%s/api/uploads/passports/%s", s.backendURL, member.PassportPhoto)
	}
	if member.Signature != "" {
		card.SignatureURL = fmt.Sprintf("%s/api/uploads/signatures/%s", s.backendURL, member.Signature)
	}
	return card, nil
}

func (s *MemberService) saveUpload(ctx context.Context, field string, upload *Upload) (string, error) {
	if upload == nil {
		return "", nil
	}

	filename := storage.GenerateFilename(field, upload.Filename)
	if _, err := s.store.Save(ctx, field, filename, upload.Data); err != nil {
		return "", fmt.Errorf("failed to store %s: %w", field, err)
	}
	return filename, nil
}

func (s *MemberService) deleteBlob(ctx context.Context, field, filename string) {
	if filename == "" {
		return
	}
	if _, err := s.store.Delete(ctx, field, filename); err != nil {
		s.logger.Warnw("blob cleanup failed", "field", field, "filename", filename, "error", err)
	}
}
