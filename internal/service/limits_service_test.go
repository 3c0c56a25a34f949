package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/procert/registry-backend/internal/models"
)

func newLimitsService(store *fakeLimitsStore, members, certs *fakeCounter) *LimitsService {
	return NewLimitsService(store, members, certs, zap.NewNop().Sugar())
}

func TestLimitsService_SeedsFromLiveCounts(t *testing.T) {
	store := &fakeLimitsStore{}
	svc := newLimitsService(store, &fakeCounter{count: 7}, &fakeCounter{count: 3})

	limits, err := svc.Current()
	require.NoError(t, err)
	assert.Equal(t, 7, limits.MemberLimit)
	assert.Equal(t, 3, limits.CertificateLimit)
	assert.True(t, limits.IsActive)

	// A freshly seeded ceiling equals the live count: growth is frozen.
	check := svc.CanAddMember()
	assert.False(t, check.Allowed)
	assert.Equal(t, int64(7), check.CurrentCount)
	assert.Equal(t, 7, check.Limit)
	assert.Equal(t, int64(0), check.Remaining)
}

func TestLimitsService_AllowsBelowCeiling(t *testing.T) {
	store := &fakeLimitsStore{limits: &models.SystemLimits{ID: 1, MemberLimit: 10, CertificateLimit: 5, IsActive: true}}
	svc := newLimitsService(store, &fakeCounter{count: 4}, &fakeCounter{count: 5})

	memberCheck := svc.CanAddMember()
	assert.True(t, memberCheck.Allowed)
	assert.Equal(t, int64(6), memberCheck.Remaining)

	certCheck := svc.CanAddCertificate()
	assert.False(t, certCheck.Allowed)
	assert.Equal(t, int64(0), certCheck.Remaining)
	assert.NotEmpty(t, certCheck.Message)
}

func TestLimitsService_FailsOpenOnStoreError(t *testing.T) {
	store := &fakeLimitsStore{getErr: assert.AnError}
	svc := newLimitsService(store, &fakeCounter{count: 100}, &fakeCounter{count: 100})

	assert.True(t, svc.CanAddMember().Allowed)
	assert.True(t, svc.CanAddCertificate().Allowed)
}

func TestLimitsService_FailsOpenOnCountError(t *testing.T) {
	store := &fakeLimitsStore{limits: &models.SystemLimits{ID: 1, MemberLimit: 1, CertificateLimit: 1, IsActive: true}}
	svc := newLimitsService(store, &fakeCounter{err: gorm.ErrInvalidDB}, &fakeCounter{err: gorm.ErrInvalidDB})

	assert.True(t, svc.CanAddMember().Allowed)
	assert.True(t, svc.CanAddCertificate().Allowed)
}

func TestLimitsService_InactiveDisablesEnforcement(t *testing.T) {
	store := &fakeLimitsStore{limits: &models.SystemLimits{ID: 1, MemberLimit: 0, CertificateLimit: 0, IsActive: false}}
	svc := newLimitsService(store, &fakeCounter{count: 50}, &fakeCounter{count: 50})

	assert.True(t, svc.CanAddMember().Allowed)
	assert.True(t, svc.CanAddCertificate().Allowed)
}

func TestLimitsService_IncreaseLimits(t *testing.T) {
	store := &fakeLimitsStore{limits: &models.SystemLimits{ID: 1, MemberLimit: 5, CertificateLimit: 5, IsActive: true}}
	svc := newLimitsService(store, &fakeCounter{count: 5}, &fakeCounter{count: 5})

	newMembers := 20
	limits, err := svc.IncreaseLimits(&newMembers, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, limits.MemberLimit)
	assert.Equal(t, 5, limits.CertificateLimit)

	check := svc.CanAddMember()
	assert.True(t, check.Allowed)
	assert.Equal(t, int64(15), check.Remaining)
}
