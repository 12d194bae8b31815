package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"innoshop/internal/config"
	"innoshop/internal/logger"
	"innoshop/internal/mailer"
	"innoshop/internal/result"
	"innoshop/internal/token"
	"innoshop/internal/user/model"
	"innoshop/internal/user/repository"
	"innoshop/pkg/utils"
)

// ProductSync pushes owner status changes to the Product service so product
// visibility tracks account state.
type ProductSync interface {
	PushOwnerStatus(ctx context.Context, userID uint, isActive bool) error
}

// UserService orchestrates the account lifecycle: registration, login,
// email confirmation, password reset, token refresh and admin activation.
type UserService struct {
	repo        repository.UserRepository
	tokens      *token.Service
	mail        mailer.Sender
	productSync ProductSync
	config      *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	tokens *token.Service,
	mail mailer.Sender,
	productSync ProductSync,
	cfg *config.Config,
) *UserService {
	return &UserService{
		repo:        repo,
		tokens:      tokens,
		mail:        mail,
		productSync: productSync,
		config:      cfg,
	}
}

func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) result.Result[*model.UserResponse] {
	if messages := utils.ValidateStruct(req); messages != nil {
		return result.FailureList[*model.UserResponse](result.Validation, messages)
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return internalError[*model.UserResponse]("failed to check existing email", err)
	}
	if existing != nil {
		return result.Failure[*model.UserResponse](result.Conflict, "This email already exists")
	}

	existing, err = s.repo.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return internalError[*model.UserResponse]("failed to check existing username", err)
	}
	if existing != nil {
		return result.Failure[*model.UserResponse](result.Conflict, "This username already exists")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return internalError[*model.UserResponse]("failed to hash password", err)
	}

	user := &model.User{
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PasswordHash:   passwordHash,
		Role:           model.RoleUser,
		IsActive:       true,
		EmailConfirmed: false,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return internalError[*model.UserResponse]("failed to create user", err)
	}

	logger.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.String("event", "user_registered"),
	)

	// Fire-and-forget: a failed send must never fail registration.
	go func(id uint) {
		if res := s.SendConfirmationEmail(context.Background(), id); !res.IsSuccess() {
			logger.Warn("Post-registration confirmation email failed",
				zap.Uint("user_id", id),
				zap.Strings("errors", res.Errors),
				zap.String("event", "confirmation_email_failed"),
			)
		}
	}(user.ID)

	return result.Success(model.ToUserResponse(user))
}

func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) result.Result[*model.LoginResponse] {
	if messages := utils.ValidateStruct(req); messages != nil {
		return result.FailureList[*model.LoginResponse](result.Validation, messages)
	}

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Failure[*model.LoginResponse](result.Unauthorized, "Invalid username or password")
		}
		return internalError[*model.LoginResponse]("failed to look up user", err)
	}

	if !user.IsActive {
		logger.Warn("Login attempt for deactivated account",
			zap.Uint("user_id", user.ID),
			zap.String("event", "login_failed_inactive"),
		)
		return result.Failure[*model.LoginResponse](result.Forbidden, "Account is deactivated")
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.Uint("user_id", user.ID),
			zap.String("event", "login_failed_password"),
		)
		return result.Failure[*model.LoginResponse](result.Unauthorized, "Invalid username or password")
	}

	accessToken, refreshToken, res := s.issueTokenPair(ctx, user)
	if res != nil {
		return result.FailureList[*model.LoginResponse](res.Code, res.Errors)
	}

	logger.Info("User logged in",
		zap.Uint("user_id", user.ID),
		zap.String("event", "login_success"),
	)

	return result.Success(&model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
	})
}

func (s *UserService) RefreshToken(ctx context.Context, req *model.RefreshTokenRequest) result.Result[*model.TokenPairResponse] {
	if messages := utils.ValidateStruct(req); messages != nil {
		return result.FailureList[*model.TokenPairResponse](result.Validation, messages)
	}

	// Signature is verified, lifetime deliberately is not: the access token
	// being refreshed is usually expired.
	claims, err := s.tokens.ParseExpiredAccessToken(req.AccessToken)
	if err != nil {
		return result.Failure[*model.TokenPairResponse](result.Validation, "Invalid access token")
	}

	userID, err := claims.UserID()
	if err != nil {
		return result.Failure[*model.TokenPairResponse](result.Validation, "Invalid access token")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Failure[*model.TokenPairResponse](result.Unauthorized, "Invalid refresh token")
		}
		return internalError[*model.TokenPairResponse]("failed to look up user", err)
	}

	if !user.HasValidRefreshToken(req.RefreshToken) {
		logger.Warn("Refresh attempt with stale or unknown refresh token",
			zap.Uint("user_id", user.ID),
			zap.String("event", "refresh_failed_token_mismatch"),
		)
		return result.Failure[*model.TokenPairResponse](result.Unauthorized, "Invalid refresh token")
	}

	if !user.IsActive {
		return result.Failure[*model.TokenPairResponse](result.Forbidden, "Account is deactivated")
	}

	// Rotation: the stored token is overwritten, so the presented one is
	// dead the moment this succeeds.
	accessToken, refreshToken, res := s.issueTokenPair(ctx, user)
	if res != nil {
		return result.FailureList[*model.TokenPairResponse](res.Code, res.Errors)
	}

	return result.Success(&model.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

func (s *UserService) SendConfirmationEmail(ctx context.Context, userID uint) result.Result[result.Empty] {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Failure[result.Empty](result.NotFound, "User not found")
		}
		return internalError[result.Empty]("failed to look up user", err)
	}

	if user.EmailConfirmed {
		return result.Failure[result.Empty](result.Conflict, "Email is already confirmed")
	}

	confirmToken, err := s.tokens.GenerateEmailConfirmationToken(user.ID)
	if err != nil {
		return internalError[result.Empty]("failed to generate confirmation token", err)
	}

	confirmLink := fmt.Sprintf("%s/api/auth/confirm-email?token=%s",
		s.config.Server.BaseURL, url.QueryEscape(confirmToken))
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>Click here to verify your email: <a href=%q>Verify Email</a></p>",
		user.FirstName, confirmLink)

	if err := s.mail.Send(user.Email, "Confirm your email", body); err != nil {
		logger.Error("Failed to send confirmation email",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
			zap.String("event", "confirmation_email_failed"),
		)
		return result.Failure[result.Empty](result.InternalServerError, "Failed to send email")
	}

	return result.OK()
}

func (s *UserService) ConfirmEmail(ctx context.Context, tokenString string) result.Result[result.Empty] {
	userID, err := s.tokens.ValidateEmailConfirmationToken(tokenString)
	if err != nil {
		return result.Failure[result.Empty](result.Validation, "Invalid or expired email confirmation token")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Failure[result.Empty](result.NotFound, "User not found")
		}
		return internalError[result.Empty]("failed to look up user", err)
	}

	// Idempotent: confirming twice is a success, not a conflict.
	if user.EmailConfirmed {
		return result.OK()
	}

	if err := s.repo.SetEmailConfirmed(ctx, user.ID, true); err != nil {
		return internalError[result.Empty]("failed to confirm email", err)
	}

	logger.Info("Email confirmed",
		zap.Uint("user_id", user.ID),
		zap.String("event", "email_confirmed"),
	)

	return result.OK()
}

// ForgotPassword always reports success so the endpoint cannot be used to
// enumerate registered addresses.
func (s *UserService) ForgotPassword(ctx context.Context, req *model.ForgotPasswordRequest) result.Result[result.Empty] {
	if messages := utils.ValidateStruct(req); messages != nil {
		return result.FailureList[result.Empty](result.Validation, messages)
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logger.Info("Password reset requested for unknown email",
				zap.String("event", "password_reset_unknown_email"),
			)
			return result.OK()
		}
		return internalError[result.Empty]("failed to look up user", err)
	}

	resetToken, err := s.tokens.GeneratePasswordResetToken(user.ID)
	if err != nil {
		return internalError[result.Empty]("failed to generate reset token", err)
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s",
		s.config.Server.BaseURL, url.QueryEscape(resetToken))
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>You requested a password reset. <a href=%q>Reset password</a></p><p>The link expires in 15 minutes.</p>",
		user.FirstName, resetLink)

	if err := s.mail.Send(user.Email, "Reset your password", body); err != nil {
		logger.Error("Failed to send password reset email",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
			zap.String("event", "password_reset_email_failed"),
		)
		return result.Failure[result.Empty](result.InternalServerError, "Failed to send email")
	}

	logger.Info("Password reset email sent",
		zap.Uint("user_id", user.ID),
		zap.String("event", "password_reset_email_sent"),
	)

	return result.OK()
}

func (s *UserService) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) result.Result[result.Empty] {
	if messages := utils.ValidateStruct(req); messages != nil {
		return result.FailureList[result.Empty](result.Validation, messages)
	}

	userID, err := s.tokens.ValidatePasswordResetToken(req.Token)
	if err != nil {
		return result.Failure[result.Empty](result.Validation, "Invalid or expired password reset token")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Failure[result.Empty](result.NotFound, "User not found")
		}
		return internalError[result.Empty]("failed to look up user", err)
	}

	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return internalError[result.Empty]("failed to hash password", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return internalError[result.Empty]("failed to update password", err)
	}

	// Outstanding refresh tokens die with the old password.
	if err := s.repo.UpdateRefreshToken(ctx, user.ID, nil, nil); err != nil {
		return internalError[result.Empty]("failed to clear refresh token", err)
	}

	logger.Info("Password reset",
		zap.Uint("user_id", user.ID),
		zap.String("event", "password_reset_success"),
	)

	return result.OK()
}

func (s *UserService) ChangeActiveStatus(ctx context.Context, userID uint, isActive bool) result.Result[result.Empty] {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Failure[result.Empty](result.NotFound, "User not found")
		}
		return internalError[result.Empty]("failed to look up user", err)
	}

	if err := s.repo.UpdateStatus(ctx, user.ID, isActive); err != nil {
		return internalError[result.Empty]("failed to update status", err)
	}

	if !isActive {
		if err := s.repo.UpdateRefreshToken(ctx, user.ID, nil, nil); err != nil {
			return internalError[result.Empty]("failed to clear refresh token", err)
		}
	}

	logger.Info("User active status changed",
		zap.Uint("user_id", user.ID),
		zap.Bool("is_active", isActive),
		zap.String("event", "user_status_changed"),
	)

	// Best-effort push: the Product service hides or reveals this owner's
	// listings. A failed push leaves the views diverged until the next one.
	if err := s.productSync.PushOwnerStatus(ctx, user.ID, isActive); err != nil {
		logger.Error("Failed to push owner status to product service",
			zap.Uint("user_id", user.ID),
			zap.Bool("is_active", isActive),
			zap.Error(err),
			zap.String("event", "owner_status_push_failed"),
		)
	}

	return result.OK()
}

func (s *UserService) GetByID(ctx context.Context, userID uint) result.Result[*model.UserResponse] {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Failure[*model.UserResponse](result.NotFound, "User not found")
		}
		return internalError[*model.UserResponse]("failed to look up user", err)
	}

	return result.Success(model.ToUserResponse(user))
}

// GetStatus serves the internal contract the Product service reads.
func (s *UserService) GetStatus(ctx context.Context, userID uint) result.Result[*model.UserStatusResponse] {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return result.Failure[*model.UserStatusResponse](result.NotFound, "User not found")
		}
		return internalError[*model.UserStatusResponse]("failed to look up user", err)
	}

	return result.Success(&model.UserStatusResponse{
		UserID:         user.ID,
		EmailConfirmed: user.EmailConfirmed,
		IsActive:       user.IsActive,
	})
}

func (s *UserService) GetPaged(ctx context.Context, pageNumber, pageSize int) result.Result[[]*model.UserResponse] {
	users, err := s.repo.GetPaged(ctx, pageNumber, pageSize)
	if err != nil {
		return internalError[[]*model.UserResponse]("failed to list users", err)
	}

	responses := make([]*model.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, model.ToUserResponse(user))
	}
	return result.Success(responses)
}

// issueTokenPair generates and persists a fresh access/refresh pair for the
// user. Returns a failure result pointer when something went wrong.
func (s *UserService) issueTokenPair(ctx context.Context, user *model.User) (string, string, *result.Result[result.Empty]) {
	accessToken, err := s.tokens.GenerateAccessToken(token.UserSnapshot{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		IsActive:       user.IsActive,
		EmailConfirmed: user.EmailConfirmed,
	})
	if err != nil {
		res := internalError[result.Empty]("failed to generate access token", err)
		return "", "", &res
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		res := internalError[result.Empty]("failed to generate refresh token", err)
		return "", "", &res
	}

	expiry := time.Now().Add(time.Duration(s.config.JWT.RefreshExpiryDays) * 24 * time.Hour)
	if err := s.repo.UpdateRefreshToken(ctx, user.ID, &refreshToken, &expiry); err != nil {
		res := internalError[result.Empty]("failed to store refresh token", err)
		return "", "", &res
	}

	return accessToken, refreshToken, nil
}

func internalError[T any](message string, err error) result.Result[T] {
	logger.Error(message, zap.Error(err))
	return result.Failure[T](result.InternalServerError, "internal server error")
}
