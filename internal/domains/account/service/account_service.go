package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"person-registry/internal/config"
	"person-registry/internal/domains/account"
	"person-registry/pkg/jwt"
	"person-registry/pkg/logger"
)

const bcryptCost = 12

type accountService struct {
	repo       account.Repository
	jwtManager *jwt.Manager
	operator   config.OperatorConfig
}

func NewAccountService(repo account.Repository, jwtManager *jwt.Manager, operator config.OperatorConfig) account.Service {
	return &accountService{
		repo:       repo,
		jwtManager: jwtManager,
		operator:   operator,
	}
}

func (s *accountService) Register(ctx context.Context, req account.RegisterRequest) (*account.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, account.ErrEmailTaken
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	newAccount := &account.Account{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(passwordHash),
	}

	id, err := s.repo.Create(ctx, newAccount)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateUserToken(id, req.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	logger.Info("account registered", map[string]interface{}{"account_id": id})

	return &account.TokenResponse{Token: token}, nil
}

func (s *accountService) Login(ctx context.Context, req account.LoginRequest) (*account.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		// Do not reveal whether the email exists.
		return nil, account.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, account.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateUserToken(a.ID, a.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &account.TokenResponse{Token: token}, nil
}

func (s *accountService) UpdateSelf(ctx context.Context, accountID int64, req account.UpdateRequest) error {
	if req.Name == nil && req.Password == nil {
		return account.ErrNothingToUpdate
	}
	if err := req.Validate(); err != nil {
		return err
	}

	var passwordHash *string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	}

	return s.repo.UpdateProfile(ctx, accountID, req.Name, passwordHash)
}

func (s *accountService) DeleteSelf(ctx context.Context, accountID int64) error {
	return s.repo.Delete(ctx, accountID)
}

func (s *accountService) OperatorToken(_ context.Context, username, password string) (*account.TokenResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.operator.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.operator.Password)) == 1
	if !userOK || !passOK {
		return nil, account.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateOperatorToken(username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &account.TokenResponse{Token: token}, nil
}
