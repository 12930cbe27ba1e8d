package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maeumlog/diary-api/internal/dto"
	"github.com/maeumlog/diary-api/internal/models"
	appErrors "github.com/maeumlog/diary-api/pkg/errors"
)

type rosterStub struct {
	accounts map[string]models.StudentAccount
	err      error
}

func (s *rosterStub) Lookup(ctx context.Context, name string) (*models.StudentAccount, error) {
	if s.err != nil {
		return nil, s.err
	}
	if account, ok := s.accounts[name]; ok {
		return &account, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "")
}

func newAuthService(roster *rosterStub) *AuthService {
	return NewAuthService(roster, nil, nil, AuthConfig{
		TokenSecret: "test_secret",
		TokenExpiry: time.Hour,
		Issuer:      "diary-api-test",
	})
}

func TestLoginIssuesToken(t *testing.T) {
	svc := newAuthService(&rosterStub{accounts: map[string]models.StudentAccount{
		"지우": {Name: "지우", Password: "123456", SheetID: "sheet-jiwoo"},
	}})

	account, res, err := svc.Login(context.Background(), dto.LoginRequest{Name: " 지우 ", Password: " 123456 "})
	require.NoError(t, err)
	assert.Equal(t, "sheet-jiwoo", account.SheetID)
	assert.Equal(t, "지우", res.StudentName)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "지우", claims.StudentName)
	assert.Equal(t, "sheet-jiwoo", claims.SheetID)
}

func TestLoginDoesNotEnumerateAccounts(t *testing.T) {
	svc := newAuthService(&rosterStub{accounts: map[string]models.StudentAccount{
		"지우": {Name: "지우", Password: "123456", SheetID: "sheet-jiwoo"},
	}})
	ctx := context.Background()

	_, _, wrongPassword := svc.Login(ctx, dto.LoginRequest{Name: "지우", Password: "654321"})
	require.Error(t, wrongPassword)

	_, _, unknownName := svc.Login(ctx, dto.LoginRequest{Name: "없는이름", Password: "123456"})
	require.Error(t, unknownName)

	assert.Equal(t, appErrors.FromError(wrongPassword).Code, appErrors.FromError(unknownName).Code)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(unknownName).Code)
}

func TestLoginValidatesPasswordShape(t *testing.T) {
	svc := newAuthService(&rosterStub{})

	_, _, err := svc.Login(context.Background(), dto.LoginRequest{Name: "지우", Password: "12ab56"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLoginPropagatesStoreFailure(t *testing.T) {
	svc := newAuthService(&rosterStub{err: appErrors.Clone(appErrors.ErrStoreUnavailable, "")})

	_, _, err := svc.Login(context.Background(), dto.LoginRequest{Name: "지우", Password: "123456"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrStoreUnavailable.Code, appErrors.FromError(err).Code)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(&rosterStub{})

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
