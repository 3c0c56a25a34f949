package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"regexp"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/procert/registry-backend/internal/models"
	"github.com/procert/registry-backend/internal/service"
	"github.com/procert/registry-backend/pkg/storage"
	"github.com/procert/registry-backend/pkg/utils"
)

type memberStoreStub struct {
	nextID  uint
	members map[uint]*models.Member
}

func newMemberStoreStub() *memberStoreStub {
	return &memberStoreStub{nextID: 1, members: map[uint]*models.Member{}}
}

func (s *memberStoreStub) Create(member *models.Member) error {
	member.ID = s.nextID
	s.nextID++
	cp := *member
	s.members[member.ID] = &cp
	return nil
}

func (s *memberStoreStub) GetByID(id uint) (*models.Member, error) {
	member, ok := s.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *member
	return &cp, nil
}

func (s *memberStoreStub) GetByCode(code string) (*models.Member, error) {
	for _, member := range s.members {
		if member.Code == code {
			cp := *member
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memberStoreStub) GetAll() ([]models.Member, error) {
	out := make([]models.Member, 0, len(s.members))
	for _, member := range s.members {
		out = append(out, *member)
	}
	return out, nil
}

func (s *memberStoreStub) GetActive() ([]models.Member, error) { return s.GetAll() }

func (s *memberStoreStub) Update(member *models.Member) error {
	cp := *member
	s.members[member.ID] = &cp
	return nil
}

func (s *memberStoreStub) Delete(id uint) error {
	delete(s.members, id)
	return nil
}

func (s *memberStoreStub) DeleteAll() (int64, error) {
	deleted := int64(len(s.members))
	s.members = map[uint]*models.Member{}
	return deleted, nil
}

func (s *memberStoreStub) CodeExists(code string) (bool, error) {
	_, err := s.GetByCode(code)
	return err == nil, nil
}

func (s *memberStoreStub) EmailExists(email string, excludeID uint) (bool, error) {
	for _, member := range s.members {
		if member.ID != excludeID && member.Email != nil && *member.Email == email {
			return true, nil
		}
	}
	return false, nil
}

type openLimiter struct{}

func (openLimiter) CanAddMember() *models.LimitCheck {
	return &models.LimitCheck{Allowed: true}
}

func newMemberApp(store storage.Storage) *fiber.App {
	members := newMemberStoreStub()
	svc := service.NewMemberService(members, openLimiter{}, store, nil, "http://localhost:8080", zap.NewNop().Sugar())
	h := NewMemberHandler(svc, utils.NewValidator())
	uploads := NewUploadHandler(store)

	app := fiber.New()
	app.Post("/api/addUser", h.AddMember)
	app.Get("/api/uploads/passports/:filename", uploads.ServePassport)
	return app
}

func writeFormFile(w *multipart.Writer, field, filename, contentType string, data []byte) error {
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(data)
	return err
}

func TestMemberHandler_AddMemberMultipart(t *testing.T) {
	store := storage.NewMemoryStorage("http://localhost:8080")
	app := newMemberApp(store)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"name":     "Ada Obi",
		"email":    "ada@example.com",
		"password": "s3cret-pass",
		"code":     "abuja-001",
		"state":    "FCT",
		"zone":     "North Central",
	} {
		require.NoError(t, w.WriteField(field, value))
	}
	require.NoError(t, writeFormFile(w, storage.FieldPassportPhoto, "photo.png", "image/png", []byte("photo-bytes")))
	require.NoError(t, writeFormFile(w, storage.FieldSignature, "sig.png", "image/png", []byte("sig-bytes")))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/addUser", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool          `json:"success"`
		Data    models.Member `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, "ABUJA-001", body.Data.Code)
	assert.True(t, body.Data.CardGenerated)
	assert.Regexp(t, regexp.MustCompile(`^passportPhoto-\d+-\d+\.png$`), body.Data.PassportPhoto)

	// The stored blob is immediately servable through the uploads route.
	serveResp, err := app.Test(httptest.NewRequest("GET", "/api/uploads/passports/"+body.Data.PassportPhoto, nil))
	require.NoError(t, err)
	defer serveResp.Body.Close()
	require.Equal(t, fiber.StatusOK, serveResp.StatusCode)
	served, err := io.ReadAll(serveResp.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("photo-bytes"), served)
}

func TestMemberHandler_AddMemberRejectsBadUpload(t *testing.T) {
	app := newMemberApp(storage.NewMemoryStorage("http://localhost:8080"))

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, value := range map[string]string{
		"name":     "Ada Obi",
		"password": "s3cret-pass",
		"code":     "abuja-002",
		"state":    "FCT",
		"zone":     "North Central",
	} {
		require.NoError(t, w.WriteField(field, value))
	}
	require.NoError(t, writeFormFile(w, storage.FieldPassportPhoto, "notes.txt", "text/plain", []byte("not an image")))
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/addUser", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
