package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tyrecheck/tyrecheck-go/internal/crypto"
	"github.com/tyrecheck/tyrecheck-go/internal/model"
	"github.com/tyrecheck/tyrecheck-go/internal/repository"
	"github.com/tyrecheck/tyrecheck-go/internal/service"
)

type memUsers map[string]*model.User

func (m memUsers) Create(_ context.Context, u *model.User) error {
	if _, ok := m[u.Name]; ok {
		return repository.ErrDuplicateUser
	}
	u.ID = int64(len(m) + 1)
	m[u.Name] = u
	return nil
}

func (m memUsers) GetByName(_ context.Context, name string) (*model.User, error) {
	if u, ok := m[name]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func useMemUsers(t *testing.T) memUsers {
	t.Helper()
	users := memUsers{}
	prev := openUsers
	openUsers = func() (service.UserStore, io.Closer, error) { return users, nopCloser{}, nil }
	t.Cleanup(func() { openUsers = prev })
	return users
}

func TestRun_Success(t *testing.T) {
	users := useMemUsers(t)
	stdout := new(bytes.Buffer)

	err := run([]string{"-user", "inspector", "-password", "secret", "-cost", "4"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "User inspector created successfully")
	require.Contains(t, users, "inspector")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users["inspector"].PasswordHash), []byte("secret")))
}

func TestRun_DuplicateUser(t *testing.T) {
	useMemUsers(t)
	args := []string{"-user", "inspector", "-password", "secret", "-cost", "4"}

	require.NoError(t, run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer)))

	err := run(args, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestRun_MissingUserFlag(t *testing.T) {
	stdout := new(bytes.Buffer)

	err := run([]string{"-password", "secret"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required flags: user")
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestRun_InteractivePassword(t *testing.T) {
	users := useMemUsers(t)
	stdout := new(bytes.Buffer)

	err := run([]string{"-user", "typed", "-cost", "4"}, bytes.NewBufferString("typed_secret\n"), stdout, new(bytes.Buffer))
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, users, "typed")
}

func TestRun_EmptyPassword(t *testing.T) {
	err := run([]string{"-user", "nobody"}, bytes.NewBufferString("\n"), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password cannot be empty")
}

func TestRun_InvalidCost(t *testing.T) {
	err := run([]string{"-user", "a", "-password", "b", "-cost", "99"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
}

func TestRun_DatabaseUnavailable(t *testing.T) {
	prev := openUsers
	openUsers = func() (service.UserStore, io.Closer, error) { return nil, nil, errors.New("dial tcp: connection refused") }
	t.Cleanup(func() { openUsers = prev })

	err := run([]string{"-user", "a", "-password", "b", "-cost", "4"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open database")
}

func TestRun_InvalidFlag(t *testing.T) {
	err := run([]string{"-invalid"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flag provided but not defined")
}

func TestRun_GeneratePassword(t *testing.T) {
	users := useMemUsers(t)
	stdout := new(bytes.Buffer)

	err := run([]string{"-user", "fresh", "-generate", "16", "-cost", "4"}, new(bytes.Buffer), stdout, new(bytes.Buffer))
	require.NoError(t, err)

	out := stdout.String()
	require.Contains(t, out, "Generated password: ")
	password := strings.TrimSpace(out[strings.Index(out, "Generated password: ")+len("Generated password: "):])
	assert.Len(t, password, 16)

	require.Contains(t, users, "fresh")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users["fresh"].PasswordHash), []byte(password)))
}

func TestRun_GenerateRejectsBadLength(t *testing.T) {
	useMemUsers(t)

	err := run([]string{"-user", "fresh", "-generate", "4"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	assert.ErrorIs(t, err, crypto.ErrGeneratedLength)
}

func TestRun_GenerateAndPasswordConflict(t *testing.T) {
	err := run([]string{"-user", "a", "-password", "b", "-generate", "16"}, new(bytes.Buffer), new(bytes.Buffer), new(bytes.Buffer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
