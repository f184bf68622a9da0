package usecase

import (
	"context"
	"errors"
	"time"

	"hiresight/internal/authz"
	"hiresight/internal/domain/user"
	"hiresight/internal/pkg/jwt"
	ucauth "hiresight/internal/usecase/auth"
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, error)
	Login(ctx context.Context, in ucauth.LoginInput) (LoginResult, error)
	Me(ctx context.Context, p authz.Principal) (user.User, error)
	Authenticate(token string) (authz.Principal, error)
}

type LoginResult struct {
	User      user.User
	Token     string
	ExpiresAt time.Time
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
}

func NewAuthUsecase(authSvc *ucauth.Service, users user.Repository, jwtSvc jwt.Service) *Auth {
	return &Auth{authSvc: authSvc, users: users, jwt: jwtSvc}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, error) {
	return u.authSvc.Register(ctx, in)
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (LoginResult, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return LoginResult{}, err
	}

	token, exp, err := u.jwt.Issue(jwt.Subject{
		UserID: usr.ID,
		Name:   usr.Name,
		Email:  usr.Email,
		Role:   usr.Role,
	})
	if err != nil {
		return LoginResult{}, ErrInternal
	}
	return LoginResult{User: usr, Token: token, ExpiresAt: exp}, nil
}

// Me reloads the caller so the resume link and name reflect the stored row
// rather than the claims captured at login.
func (u *Auth) Me(ctx context.Context, p authz.Principal) (user.User, error) {
	usr, err := u.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrUnauthorized
		}
		return user.User{}, ErrInternal
	}
	usr.PasswordHash = ""
	return usr, nil
}

// Authenticate verifies a credential and returns the caller it names.
func (u *Auth) Authenticate(token string) (authz.Principal, error) {
	c, err := u.jwt.Verify(token)
	if err != nil {
		return authz.Principal{}, err
	}
	return authz.Principal{
		UserID: c.UserID,
		Name:   c.Name,
		Email:  c.Email,
		Role:   c.Role,
	}, nil
}
