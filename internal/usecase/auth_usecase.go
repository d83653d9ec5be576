package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/infrastructure/credential"
	"backoffice-agent/internal/infrastructure/httpclient"
	"backoffice-agent/internal/infrastructure/token"
)

type AuthUsecase interface {
	// Login authenticates and stores the returned token pair
	Login(ctx context.Context, req entity.LoginRequest) (*entity.User, error)

	Register(ctx context.Context, req entity.RegisterRequest) (*entity.User, error)

	// Logout tells the server (best effort) and always clears local state
	Logout(ctx context.Context) error

	// RefreshSession rotates the token pair ahead of expiry
	RefreshSession(ctx context.Context) error

	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req entity.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, req entity.ChangePasswordRequest) error

	Profile(ctx context.Context) (*entity.User, error)

	// Session reports whether a usable session is held, without a network call
	Session(ctx context.Context) entity.Session
}

type authUsecase struct {
	client httpclient.HTTPClient
	tokens token.TokenService
	logger *zap.Logger
}

func NewAuthUsecase(client httpclient.HTTPClient, tokens token.TokenService, logger *zap.Logger) AuthUsecase {
	return &authUsecase{
		client: client,
		tokens: tokens,
		logger: logger,
	}
}

func (u *authUsecase) Login(ctx context.Context, req entity.LoginRequest) (*entity.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	u.logger.Info("Logging in", zap.String("email", req.Email))

	var response entity.AuthResponse
	if err := u.client.Post(ctx, "/auth/login", req, &response); err != nil {
		u.logger.Error("Login failed", zap.Error(err))
		return nil, err
	}

	if err := u.storeTokens(ctx, &response); err != nil {
		return nil, err
	}

	u.logger.Info("Successfully logged in", zap.String("email", req.Email))
	return response.Account(), nil
}

func (u *authUsecase) Register(ctx context.Context, req entity.RegisterRequest) (*entity.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrInvalidInput)
	}

	var response entity.AuthResponse
	if err := u.client.Post(ctx, "/auth/register", req, &response); err != nil {
		return nil, err
	}

	// some deployments sign the user in straight away
	if response.Tokens().Complete() {
		if err := u.storeTokens(ctx, &response); err != nil {
			return nil, err
		}
	}

	u.logger.Info("User registered", zap.String("email", req.Email))
	return response.Account(), nil
}

func (u *authUsecase) storeTokens(ctx context.Context, response *entity.AuthResponse) error {
	pair := response.Tokens()
	if !pair.Complete() {
		return fmt.Errorf("login response: %w", token.ErrIncompleteTokenPair)
	}
	if !credential.ValidShape(pair.AccessToken) || !credential.ValidShape(pair.RefreshToken) {
		return fmt.Errorf("login response: %w", token.ErrMalformedToken)
	}
	if err := u.tokens.Store(ctx, pair); err != nil {
		return fmt.Errorf("failed to store tokens: %w", err)
	}
	return nil
}

func (u *authUsecase) Logout(ctx context.Context) error {
	creds, _ := u.tokens.Credentials(ctx)
	if credential.ValidShape(creds.AccessToken) {
		if err := u.client.Post(ctx, "/auth/logout", map[string]string{"refreshToken": creds.RefreshToken}, nil); err != nil {
			u.logger.Warn("Server logout failed, clearing local session anyway", zap.Error(err))
		}
	}
	return u.tokens.Logout(ctx, "user logout")
}

func (u *authUsecase) RefreshSession(ctx context.Context) error {
	if _, err := u.tokens.ForceRefresh(ctx); err != nil {
		return err
	}
	u.logger.Info("Session refreshed")
	return nil
}

func (u *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	return u.client.Post(ctx, "/auth/forgot-password", entity.ForgotPasswordRequest{Email: email}, nil)
}

func (u *authUsecase) ResetPassword(ctx context.Context, req entity.ResetPasswordRequest) error {
	if req.Token == "" || req.Password == "" {
		return fmt.Errorf("%w: token and password are required", ErrInvalidInput)
	}
	return u.client.Post(ctx, "/auth/reset-password", req, nil)
}

func (u *authUsecase) ChangePassword(ctx context.Context, req entity.ChangePasswordRequest) error {
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fmt.Errorf("%w: current and new password are required", ErrInvalidInput)
	}
	if err := u.client.Post(ctx, "/auth/change-password", req, nil); err != nil {
		return err
	}
	u.logger.Info("Password changed")
	return nil
}

func (u *authUsecase) Profile(ctx context.Context) (*entity.User, error) {
	var response entity.Response[entity.User]
	if err := u.client.Get(ctx, "/auth/profile", nil, &response); err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &response.Data, nil
}

func (u *authUsecase) Session(ctx context.Context) entity.Session {
	creds, err := u.tokens.Credentials(ctx)
	if err != nil {
		return entity.Session{}
	}
	return entity.Session{Authenticated: credential.ValidShape(creds.AccessToken)}
}
