// Package user provides the application layer for user management
package user

import (
	"context"
	stderrors "errors"

	"github.com/alchemorsel/recipe-explorer/internal/domain/user"
	"github.com/alchemorsel/recipe-explorer/internal/ports/inbound"
	"github.com/alchemorsel/recipe-explorer/internal/ports/outbound"
	"github.com/alchemorsel/recipe-explorer/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService implements user management use cases
type UserService struct {
	userRepo   outbound.UserRepository
	tokens     outbound.TokenService
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo outbound.UserRepository,
	tokens outbound.TokenService,
	bcryptCost int,
	logger *zap.Logger,
) inbound.UserService {
	return &UserService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger.Named("user-service"),
	}
}

// Register creates a new user account
func (s *UserService) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.AuthResponse, error) {
	s.logger.Info("Registering new user", zap.String("username", cmd.Username))

	if _, err := s.userRepo.FindByUsername(ctx, cmd.Username); err == nil {
		return nil, errors.NewUsernameAlreadyExistsError(cmd.Username)
	} else if !stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewDatabaseError("look up username", err)
	}

	if _, err := s.userRepo.FindByEmail(ctx, cmd.Email); err == nil {
		return nil, errors.NewEmailAlreadyExistsError(cmd.Email)
	} else if !stderrors.Is(err, outbound.ErrNotFound) {
		return nil, errors.NewDatabaseError("look up email", err)
	}

	newUser, err := user.NewUser(cmd.Username, cmd.Email, cmd.Password, s.bcryptCost)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.userRepo.Create(ctx, newUser); err != nil {
		if stderrors.Is(err, outbound.ErrDuplicate) {
			return nil, errors.NewUsernameAlreadyExistsError(cmd.Username)
		}
		return nil, errors.NewDatabaseError("create user", err)
	}

	resp, err := s.authResponse(newUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User registered successfully",
		zap.String("user_id", newUser.ID().String()),
		zap.String("username", newUser.Username()),
	)
	return resp, nil
}

// Login authenticates a user by username and password
func (s *UserService) Login(ctx context.Context, cmd inbound.LoginCommand) (*inbound.AuthResponse, error) {
	s.logger.Info("User login attempt", zap.String("username", cmd.Username))

	userEntity, err := s.userRepo.FindByUsername(ctx, cmd.Username)
	if err != nil {
		if !stderrors.Is(err, outbound.ErrNotFound) {
			s.logger.Error("User lookup failed", zap.Error(err))
		}
		return nil, errors.NewInvalidCredentialsError()
	}

	if err := userEntity.CheckPassword(cmd.Password); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("username", cmd.Username))
		return nil, errors.NewInvalidCredentialsError()
	}

	userEntity.RecordLogin()
	if err := s.userRepo.UpdateLastLogin(ctx, userEntity); err != nil {
		s.logger.Error("Failed to update last login", zap.Error(err))
	}

	resp, err := s.authResponse(userEntity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in successfully", zap.String("user_id", userEntity.ID().String()))
	return resp, nil
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, userID uuid.UUID) (*inbound.UserDTO, error) {
	userEntity, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if stderrors.Is(err, outbound.ErrNotFound) {
			return nil, errors.NewUserNotFoundError(userID.String())
		}
		return nil, errors.NewDatabaseError("find user", err)
	}

	dto := entityToDTO(userEntity)
	return &dto, nil
}

func (s *UserService) authResponse(u *user.User) (*inbound.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID(), u.Username())
	if err != nil {
		return nil, errors.NewInternalError("failed to generate token").WithCause(err)
	}
	return &inbound.AuthResponse{
		User:        entityToDTO(u),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func entityToDTO(u *user.User) inbound.UserDTO {
	return inbound.UserDTO{
		ID:        u.ID(),
		Username:  u.Username(),
		Email:     u.Email(),
		CreatedAt: u.CreatedAt(),
	}
}
