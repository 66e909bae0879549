package usersrv

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/Abraxas-365/skillpath/career/user"
	"github.com/Abraxas-365/skillpath/internal/skills"
	"github.com/Abraxas-365/skillpath/pkg/errx"
	"github.com/Abraxas-365/skillpath/pkg/iam/auth"
	"github.com/Abraxas-365/skillpath/pkg/kernel"
	"github.com/Abraxas-365/skillpath/pkg/logx"
	"github.com/google/uuid"
)

const MinPasswordLength = 8

// UserService handles registration, login and profiles
type UserService struct {
	repo   user.Repository
	tokens auth.TokenService
}

func NewUserService(repo user.Repository, tokens auth.TokenService) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
	}
}

// Register creates a user and returns an access token for it
func (s *UserService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, user.ErrInvalidName()
	}

	email := user.NormalizeEmail(req.Email)
	if _, err := mail.ParseAddress(email.String()); err != nil {
		return nil, user.ErrInvalidEmail().WithDetail("email", req.Email)
	}

	if len(req.Password) < MinPasswordLength {
		return nil, user.ErrWeakPassword().WithDetail("min_length", MinPasswordLength)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	now := time.Now()
	u := &user.User{
		ID:           kernel.NewUserID(uuid.NewString()),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         auth.RoleUser,
		Status:       user.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errx.HasCode(err, user.CodeEmailTaken) {
			return nil, err
		}
		return nil, errx.Wrap(err, "failed to create user", errx.TypeInternal)
	}

	logx.Infof("User registered: %s", u.ID)
	return s.issue(u)
}

// Login checks credentials. Unknown emails and wrong passwords fail alike.
func (s *UserService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	u, err := s.repo.GetByEmail(ctx, user.NormalizeEmail(req.Email))
	if err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			return nil, auth.ErrInvalidCredentials()
		}
		return nil, errx.Wrap(err, "failed to load user", errx.TypeInternal)
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		logx.Warnf("Failed login for user %s", u.ID)
		return nil, auth.ErrInvalidCredentials()
	}

	if !u.IsActive() {
		return nil, user.ErrUserSuspended().WithDetail("user_id", u.ID.String())
	}

	u.RecordLogin()
	if err := s.repo.Update(ctx, u); err != nil {
		logx.Warnf("Failed to record login for user %s: %v", u.ID, err)
	}

	return s.issue(u)
}

// GetProfile returns the public view of a user
func (s *UserService) GetProfile(ctx context.Context, id kernel.UserID) (*user.Profile, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := u.ToProfile()
	return &profile, nil
}

// UpdateProfile changes the name and/or target role of a user
func (s *UserService) UpdateProfile(ctx context.Context, id kernel.UserID, req user.UpdateProfileRequest) (*user.Profile, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, user.ErrInvalidName()
		}
		u.Name = name
	}

	if req.TargetRole != nil {
		if !req.TargetRole.IsEmpty() {
			if _, ok := skills.LookupRole(*req.TargetRole); !ok {
				return nil, user.ErrInvalidRole().WithDetail("target_role", *req.TargetRole)
			}
		}
		u.TargetRole = *req.TargetRole
	}

	u.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, errx.Wrap(err, "failed to update profile", errx.TypeInternal)
	}

	profile := u.ToProfile()
	return &profile, nil
}

// ChangePassword verifies the current password, stores the new one and
// returns a fresh access token
func (s *UserService) ChangePassword(ctx context.Context, id kernel.UserID, req user.ChangePasswordRequest) (*user.AuthResponse, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		logx.Warnf("Wrong current password for user %s", u.ID)
		return nil, user.ErrWrongPassword()
	}
	if len(req.NewPassword) < MinPasswordLength {
		return nil, user.ErrWeakPassword().WithDetail("min_length", MinPasswordLength)
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return nil, errx.Wrap(err, "failed to hash password", errx.TypeInternal)
	}

	u.ChangePassword(hash)
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, errx.Wrap(err, "failed to change password", errx.TypeInternal)
	}

	logx.Infof("Password changed for user %s", u.ID)
	return s.issue(u)
}

// DeleteAccount soft-deletes the account after checking the password
func (s *UserService) DeleteAccount(ctx context.Context, id kernel.UserID, req user.DeleteAccountRequest) error {
	u, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return user.ErrWrongPassword()
	}

	u.Deactivate()
	if err := s.repo.Update(ctx, u); err != nil {
		return errx.Wrap(err, "failed to deactivate account", errx.TypeInternal)
	}

	logx.Infof("Account deactivated: %s", u.ID)
	return nil
}

// load returns a user that has not deleted their account
func (s *UserService) load(ctx context.Context, id kernel.UserID) (*user.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Status == user.StatusDeleted {
		return nil, user.ErrUserNotFound().WithDetail("user_id", id.String())
	}
	return u, nil
}

func (s *UserService) issue(u *user.User) (*user.AuthResponse, error) {
	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	return &user.AuthResponse{
		User:        u.ToProfile(),
		AccessToken: token,
		TokenType:   "Bearer",
	}, nil
}
