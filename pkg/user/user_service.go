package user

import (
	"context"
	"errors"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils"
	"foodgram/internal/utils/logger"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/jwt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Logout(ctx context.Context, token string) error
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		GetUser(ctx context.Context, id string, viewerID string) (domain.UserResponse, error)
		GetUsers(ctx context.Context, page domain.PageRequest, viewerID string) (domain.UserListResponse, error)
		SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
		log            *logger.Logger
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, mailer mailing.Mailer, log *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		mailer:         mailer,
		log:            log,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	email := strings.TrimSpace(req.Email)
	username := strings.TrimSpace(req.Username)

	taken, err := s.userRepository.CheckEmail(ctx, email)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if taken {
		return domain.UserResponse{}, domain.ErrEmailTaken
	}
	if taken, err = s.userRepository.CheckUsername(ctx, username); err != nil {
		return domain.UserResponse{}, err
	}
	if taken {
		return domain.UserResponse{}, domain.ErrUsernameTaken
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		Email:     email,
		Username:  username,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Password:  hashed,
		Role:      domain.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.UserResponse{}, domain.ErrEmailTaken
		}
		return domain.UserResponse{}, err
	}

	if err := s.mailer.SendWelcome(user.Email, user.Username); err != nil {
		s.log.Warn("failed to send welcome mail", "user_id", user.ID.String(), "error", err)
	}
	s.log.Info("user registered", "user_id", user.ID.String())

	return domain.ToUserResponse(user, false), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}
	if !utils.CheckPassword(user.Password, req.Password) {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return domain.LoginResponse{AuthToken: token}, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	return s.jwtService.RevokeToken(ctx, token)
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.UserResponse{}, domain.ErrParseUUID
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return domain.ToUserResponse(user, false), nil
}

func (s *userService) GetUser(ctx context.Context, id string, viewerID string) (domain.UserResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.UserResponse{}, domain.ErrParseUUID
	}
	user, err := s.userRepository.GetUserByID(ctx, uid)
	if err != nil {
		return domain.UserResponse{}, err
	}
	following, err := s.followed(ctx, viewerID, []*entities.User{user})
	if err != nil {
		return domain.UserResponse{}, err
	}
	return domain.ToUserResponse(user, following[user.ID]), nil
}

func (s *userService) GetUsers(ctx context.Context, page domain.PageRequest, viewerID string) (domain.UserListResponse, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit < 1 {
		page.Limit = domain.DefaultPageSize
	}

	users, count, err := s.userRepository.GetUsers(ctx, page)
	if err != nil {
		return domain.UserListResponse{}, err
	}
	following, err := s.followed(ctx, viewerID, users)
	if err != nil {
		return domain.UserListResponse{}, err
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, domain.ToUserResponse(u, following[u.ID]))
	}
	return domain.UserListResponse{
		Users:      res,
		Pagination: domain.NewPagination(page, count),
	}, nil
}

// followed reports which of users the viewer is subscribed to. Anonymous
// viewers follow nobody.
func (s *userService) followed(ctx context.Context, viewerID string, users []*entities.User) (map[uuid.UUID]bool, error) {
	viewer, err := uuid.Parse(viewerID)
	if err != nil || len(users) == 0 {
		return map[uuid.UUID]bool{}, nil
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return s.userRepository.GetFollowedAuthorIDs(ctx, viewer, ids)
}

func (s *userService) SetPassword(ctx context.Context, userID string, req domain.SetPasswordRequest) error {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(user.Password, req.CurrentPassword) {
		return domain.ErrWrongPassword
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepository.UpdatePassword(ctx, id, hashed); err != nil {
		return err
	}
	s.log.Info("password changed", "user_id", userID)
	return nil
}
