package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"blog-admin/internal/entities"
	"blog-admin/internal/mocks"
	"blog-admin/internal/repository"
)

func run(t *testing.T, repo repository.UserRepository, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(func() (repository.UserRepository, func(), error) {
		return repo, func() {}, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCreateUserHashesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)

	repo.EXPECT().FindByEmail(gomock.Any(), "admin@x.com").Return(nil, repository.ErrUserNotFound)
	repo.EXPECT().Create(gomock.Any(), "admin@x.com", gomock.Any()).DoAndReturn(
		func(_ any, email, hash string) (*entities.User, error) {
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret-pass")))
			return &entities.User{ID: "u-1", Email: email}, nil
		})

	out, err := run(t, repo, "--email", " Admin@X.com ", "--password", "s3cret-pass")
	require.NoError(t, err)
	assert.Contains(t, out, "created user admin@x.com (u-1)")
}

func TestCreateUserRefusesDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().FindByEmail(gomock.Any(), "admin@x.com").Return(&entities.User{ID: "u-1"}, nil)

	_, err := run(t, repo, "--email", "admin@x.com", "--password", "s3cret-pass")
	assert.ErrorContains(t, err, "already exists")
}

func TestCreateUserValidatesBeforeConnecting(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)

	_, err := run(t, repo, "--email", "not-an-email", "--password", "s3cret-pass")
	assert.ErrorContains(t, err, "invalid email")

	_, err = run(t, repo, "--email", "admin@x.com", "--password", "short")
	assert.ErrorContains(t, err, "at least 8")

	_, err = run(t, repo, "--email", "admin@x.com")
	assert.Error(t, err)
}

func TestPasswd(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	repo.EXPECT().UpdatePassword(gomock.Any(), "admin@x.com", gomock.Any()).Return(nil)

	out, err := run(t, repo, "passwd", "--email", "admin@x.com", "--password", "n3w-password")
	require.NoError(t, err)
	assert.Contains(t, out, "updated password for admin@x.com")
}
