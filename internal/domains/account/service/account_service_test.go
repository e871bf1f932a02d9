package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"person-registry/internal/config"
	"person-registry/internal/domains/account"
	"person-registry/pkg/jwt"
)

type mockRepo struct {
	accounts map[int64]account.Account
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{accounts: make(map[int64]account.Account), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, a *account.Account) (int64, error) {
	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return 0, account.ErrEmailTaken
		}
	}
	id := m.nextID
	m.nextID++
	stored := *a
	stored.ID = id
	m.accounts[id] = stored
	return id, nil
}

func (m *mockRepo) FindByEmail(_ context.Context, email string) (*account.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			found := a
			return &found, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (m *mockRepo) UpdateProfile(_ context.Context, id int64, name, passwordHash *string) error {
	a, ok := m.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	if name != nil {
		a.Name = *name
	}
	if passwordHash != nil {
		a.PasswordHash = *passwordHash
	}
	m.accounts[id] = a
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.accounts[id]; !ok {
		return account.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

func (m *mockRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newService(repo account.Repository) account.Service {
	manager := jwt.NewManager("test-secret", time.Hour)
	operator := config.OperatorConfig{Username: "admin", Password: "s3cret-op"}
	return NewAccountService(repo, manager, operator)
}

func TestRegisterIssuesToken(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	res, err := svc.Register(context.Background(), account.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@example.com",
		Password: "strongpass1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Len(t, repo.accounts, 1)

	// Password must be stored hashed.
	for _, a := range repo.accounts {
		assert.NotEqual(t, "strongpass1", a.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("strongpass1")))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), account.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "strongpass1",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), account.RegisterRequest{
		Name: "Ana Again", Email: "ana@example.com", Password: "strongpass2",
	})
	assert.ErrorIs(t, err, account.ErrEmailTaken)
}

func TestRegisterRejectsInvalidInput(t *testing.T) {
	svc := newService(newMockRepo())

	_, err := svc.Register(context.Background(), account.RegisterRequest{
		Name: "Ana", Email: "not-an-email", Password: "strongpass1",
	})
	assert.Error(t, err)

	_, err = svc.Register(context.Background(), account.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "short",
	})
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), account.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "strongpass1",
	})
	require.NoError(t, err)

	res, err := svc.Login(context.Background(), account.LoginRequest{
		Email: "ana@example.com", Password: "strongpass1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	// Wrong password and unknown email are indistinguishable.
	_, err = svc.Login(context.Background(), account.LoginRequest{
		Email: "ana@example.com", Password: "wrongpass99",
	})
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), account.LoginRequest{
		Email: "ghost@example.com", Password: "strongpass1",
	})
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
}

func TestUpdateSelfRequiresAField(t *testing.T) {
	svc := newService(newMockRepo())

	err := svc.UpdateSelf(context.Background(), 1, account.UpdateRequest{})
	assert.ErrorIs(t, err, account.ErrNothingToUpdate)
}

func TestUpdateSelfChangesNameAndPassword(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), account.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "strongpass1",
	})
	require.NoError(t, err)

	name := "Ana Maria"
	password := "newpass1234"
	require.NoError(t, svc.UpdateSelf(context.Background(), 1, account.UpdateRequest{
		Name:     &name,
		Password: &password,
	}))

	a := repo.accounts[1]
	assert.Equal(t, "Ana Maria", a.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)))
}

func TestDeleteSelf(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo)

	_, err := svc.Register(context.Background(), account.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "strongpass1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSelf(context.Background(), 1))
	assert.Empty(t, repo.accounts)

	assert.ErrorIs(t, svc.DeleteSelf(context.Background(), 1), account.ErrAccountNotFound)
}

func TestOperatorToken(t *testing.T) {
	svc := newService(newMockRepo())

	res, err := svc.OperatorToken(context.Background(), "admin", "s3cret-op")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	_, err = svc.OperatorToken(context.Background(), "admin", "wrong")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)

	_, err = svc.OperatorToken(context.Background(), "root", "s3cret-op")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)
}
