package authsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"librarydesk/apperr"
	"librarydesk/model"
	"librarydesk/storage/memory"
)

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), "test-secret")

	req := model.RegisterReq{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "USER@Example.COM",
		Username:  "ada",
		Password:  "supersecret",
	}

	u, tok, err := svc.Register(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotEmpty(t, tok)
	require.NotZero(t, u.ID)
	require.Equal(t, "user@example.com", u.Email)
	require.Equal(t, "ada", u.Username)
	require.Equal(t, "user", u.Role)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "supersecret", u.PasswordHash)
}

func TestRegister_BadInput(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), "test-secret")

	_, _, err := svc.Register(ctx, model.RegisterReq{
		Email:    " ",
		Username: "u",
		Password: "123",
	})
	require.Error(t, err)
	require.Equal(t, apperr.ErrValidation, apperr.Code(err))
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), "test-secret")

	req := model.RegisterReq{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Username: "ada", Password: "supersecret",
	}
	_, _, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, req)
	require.Equal(t, apperr.ErrConflict, apperr.Code(err))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), "test-secret")

	_, _, err := svc.Register(ctx, model.RegisterReq{
		FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", Username: "ada", Password: "supersecret",
	})
	require.NoError(t, err)

	u, tok, err := svc.Login(ctx, model.LoginReq{Email: "Ada@Example.com", Password: "supersecret"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, "ada", u.Username)

	_, _, err = svc.Login(ctx, model.LoginReq{Email: "ada@example.com", Password: "wrong"})
	require.Error(t, err)

	_, _, err = svc.Login(ctx, model.LoginReq{Email: "nobody@example.com", Password: "supersecret"})
	require.Error(t, err)
}
