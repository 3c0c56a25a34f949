package service

import (
	"strings"

	"github.com/stripe/stripe-go/v74"
	"gorm.io/gorm"

	"github.com/procert/registry-backend/internal/models"
)

// In-memory fakes for the service-layer store interfaces.

type fakeCertStore struct {
	nextID         uint
	certs          map[uint]*models.Certificate
	getByNumberErr error
}

func newFakeCertStore() *fakeCertStore {
	return &fakeCertStore{nextID: 1, certs: map[uint]*models.Certificate{}}
}

func (f *fakeCertStore) Create(cert *models.Certificate) error {
	cert.ID = f.nextID
	f.nextID++
	cp := *cert
	f.certs[cert.ID] = &cp
	return nil
}

func (f *fakeCertStore) GetByID(id uint) (*models.Certificate, error) {
	cert, ok := f.certs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *cert
	return &cp, nil
}

func (f *fakeCertStore) GetByNumber(number string) (*models.Certificate, error) {
	if f.getByNumberErr != nil {
		return nil, f.getByNumberErr
	}
	for _, cert := range f.certs {
		if cert.Number == number {
			cp := *cert
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCertStore) GetAll() ([]models.Certificate, error) {
	out := make([]models.Certificate, 0, len(f.certs))
	for _, cert := range f.certs {
		out = append(out, *cert)
	}
	return out, nil
}

func (f *fakeCertStore) Update(cert *models.Certificate) error {
	cp := *cert
	f.certs[cert.ID] = &cp
	return nil
}

func (f *fakeCertStore) Delete(id uint) error {
	delete(f.certs, id)
	return nil
}

func (f *fakeCertStore) BulkDelete(ids []uint, numbers []string) (int64, error) {
	var deleted int64
	for id, cert := range f.certs {
		match := false
		for _, wanted := range ids {
			if id == wanted {
				match = true
			}
		}
		for _, wanted := range numbers {
			if cert.Number == wanted {
				match = true
			}
		}
		if match {
			delete(f.certs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeCertStore) CountLive() (int64, error) {
	var count int64
	for _, cert := range f.certs {
		if cert.Status != models.CertificateStatusRevoked {
			count++
		}
	}
	return count, nil
}

type fakeMemberStore struct {
	nextID  uint
	members map[uint]*models.Member
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{nextID: 1, members: map[uint]*models.Member{}}
}

func (f *fakeMemberStore) Create(member *models.Member) error {
	member.ID = f.nextID
	f.nextID++
	cp := *member
	f.members[member.ID] = &cp
	return nil
}

func (f *fakeMemberStore) GetByID(id uint) (*models.Member, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *member
	return &cp, nil
}

func (f *fakeMemberStore) GetByCode(code string) (*models.Member, error) {
	for _, member := range f.members {
		if member.Code == code {
			cp := *member
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMemberStore) GetAll() ([]models.Member, error) {
	out := make([]models.Member, 0, len(f.members))
	for _, member := range f.members {
		out = append(out, *member)
	}
	return out, nil
}

func (f *fakeMemberStore) GetActive() ([]models.Member, error) {
	out := []models.Member{}
	for _, member := range f.members {
		if member.IsActive {
			out = append(out, *member)
		}
	}
	return out, nil
}

func (f *fakeMemberStore) Update(member *models.Member) error {
	cp := *member
	f.members[member.ID] = &cp
	return nil
}

func (f *fakeMemberStore) Delete(id uint) error {
	delete(f.members, id)
	return nil
}

func (f *fakeMemberStore) DeleteAll() (int64, error) {
	deleted := int64(len(f.members))
	f.members = map[uint]*models.Member{}
	return deleted, nil
}

func (f *fakeMemberStore) CodeExists(code string) (bool, error) {
	_, err := f.GetByCode(strings.ToUpper(code))
	return err == nil, nil
}

func (f *fakeMemberStore) EmailExists(email string, excludeID uint) (bool, error) {
	for _, member := range f.members {
		if member.ID == excludeID || member.Email == nil {
			continue
		}
		if *member.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeMemberStore) CountActive() (int64, error) {
	var count int64
	for _, member := range f.members {
		if member.IsActive {
			count++
		}
	}
	return count, nil
}

type fakeLimitsStore struct {
	limits *models.SystemLimits
	getErr error
}

func (f *fakeLimitsStore) Get() (*models.SystemLimits, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.limits == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f.limits
	return &cp, nil
}

func (f *fakeLimitsStore) Create(limits *models.SystemLimits) error {
	limits.ID = 1
	cp := *limits
	f.limits = &cp
	return nil
}

func (f *fakeLimitsStore) Update(limits *models.SystemLimits) error {
	cp := *limits
	f.limits = &cp
	return nil
}

type fakeCounter struct {
	count int64
	err   error
}

func (f *fakeCounter) CountActive() (int64, error) { return f.count, f.err }
func (f *fakeCounter) CountLive() (int64, error)   { return f.count, f.err }

type allowAllLimiter struct{}

func (allowAllLimiter) CanAddMember() *models.LimitCheck {
	return &models.LimitCheck{Allowed: true}
}
func (allowAllLimiter) CanAddCertificate() *models.LimitCheck {
	return &models.LimitCheck{Allowed: true}
}

type denyAllLimiter struct{ check models.LimitCheck }

func (d denyAllLimiter) CanAddMember() *models.LimitCheck      { c := d.check; return &c }
func (d denyAllLimiter) CanAddCertificate() *models.LimitCheck { c := d.check; return &c }

type fakeMailer struct {
	welcomes    []string
	revocations []string
	err         error
}

func (f *fakeMailer) SendWelcomeEmail(to, name, code string) error {
	f.welcomes = append(f.welcomes, to)
	return f.err
}

func (f *fakeMailer) SendRevocationNotice(to, number, recipient, reason string) error {
	f.revocations = append(f.revocations, number)
	return f.err
}

type fakePaymentStore struct {
	nextID   uint
	payments map[uint]*models.Payment
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{nextID: 1, payments: map[uint]*models.Payment{}}
}

func (f *fakePaymentStore) Create(payment *models.Payment) error {
	payment.ID = f.nextID
	f.nextID++
	cp := *payment
	f.payments[payment.ID] = &cp
	return nil
}

func (f *fakePaymentStore) GetByReference(reference string) (*models.Payment, error) {
	for _, payment := range f.payments {
		if payment.Reference == reference {
			cp := *payment
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentStore) UpdateStatus(id uint, status string) error {
	payment, ok := f.payments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	payment.Status = status
	return nil
}

func (f *fakePaymentStore) GetHistory() ([]models.Payment, error) {
	out := make([]models.Payment, 0, len(f.payments))
	for _, payment := range f.payments {
		out = append(out, *payment)
	}
	return out, nil
}

func (f *fakePaymentStore) GetLatestByType(paymentType string) (*models.Payment, error) {
	var latest *models.Payment
	for _, payment := range f.payments {
		if payment.PaymentType != paymentType {
			continue
		}
		if latest == nil || payment.ID > latest.ID {
			latest = payment
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *latest
	return &cp, nil
}

type fakeCheckout struct {
	sessions int
	lastMeta map[string]string
}

func (f *fakeCheckout) CreateCheckoutSession(name, description string, amount float64, metadata map[string]string) (*stripe.CheckoutSession, error) {
	f.sessions++
	f.lastMeta = metadata
	return &stripe.CheckoutSession{
		ID:  "cs_test_123",
		URL: "https://checkout.stripe.test/cs_test_123",
	}, nil
}

type fakeLimitRaiser struct {
	memberLimit *int
	certLimit   *int
	calls       int
}

func (f *fakeLimitRaiser) IncreaseLimits(newMemberLimit, newCertificateLimit *int) (*models.SystemLimits, error) {
	f.calls++
	f.memberLimit = newMemberLimit
	f.certLimit = newCertificateLimit
	return &models.SystemLimits{}, nil
}
