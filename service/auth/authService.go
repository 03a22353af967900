package authsvc

import (
	"context"
	"errors"
	"strings"

	"librarydesk/apperr"
	"librarydesk/model"
	"librarydesk/storage"
	"librarydesk/util/hash"
	jwtutil "librarydesk/util/jwt"
)

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type service struct {
	store  storage.Store
	secret string
}

func New(store storage.Store, secret string) Service {
	return &service{store: store, secret: secret}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || len(req.Password) < 6 {
		return nil, "", apperr.Validation("bad registration input")
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}
	u := &model.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		Username:     username,
		Role:         "user",
		PasswordHash: hashed,
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, "", apperr.Conflict("email or username already registered")
		}
		return nil, "", err
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	u, err := s.store.UserByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", apperr.Validation("invalid credentials")
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", apperr.Validation("invalid credentials")
	}
	token, err := jwtutil.Issue(s.secret, u.ID, u.Role, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.ListUsers(ctx)
}
