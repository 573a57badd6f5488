package service

import (
	"context"
	"strings"

	"socialnet/internal/models"
	"socialnet/internal/validation"

	"golang.org/x/sync/errgroup"
)

// UserStore is the user persistence used by UserService.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailOrNick(ctx context.Context, email, nick string, excludeID uint) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateProfile(ctx context.Context, user *models.User) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Count(ctx context.Context) (int64, error)
}

type UserService struct {
	users    UserStore
	creds    *CredentialService
	graph    *FollowGraph
	pageSize int
}

type RegisterInput struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Nick     string `json:"nick"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	GetToken bool   `json:"getToken"`
}

// LoginResult carries either the token or the user, depending on LoginInput.GetToken.
type LoginResult struct {
	Token string
	User  *models.User
}

// UpdateProfileInput holds the editable profile fields. Empty fields keep
// their current value.
type UpdateProfileInput struct {
	CallerID uint   `json:"-"`
	TargetID uint   `json:"-"`
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Nick     string `json:"nick"`
	Email    string `json:"email"`
}

func NewUserService(users UserStore, creds *CredentialService, graph *FollowGraph, pageSize int) *UserService {
	return &UserService{users: users, creds: creds, graph: graph, pageSize: pageSize}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Nick = strings.TrimSpace(in.Nick)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Surname == "" || in.Nick == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("All fields are required")
	}
	if err := validation.ValidateName("name", in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName("surname", in.Surname); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateNick(in.Nick); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.users.FindByEmailOrNick(ctx, in.Email, in.Nick, 0)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("User already exists")
	}

	hash, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     in.Name,
		Surname:  in.Surname,
		Nick:     in.Nick,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.creds.ComparePassword(user.Password, in.Password) {
		return nil, &models.AppError{Code: models.CodeNotFound, Message: "Invalid email or password"}
	}

	if !in.GetToken {
		return &LoginResult{User: user}, nil
	}

	token, err := s.creds.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// Profile returns targetID together with the follow edges between it and the viewer.
func (s *UserService) Profile(ctx context.Context, viewerID, targetID uint) (*models.Profile, error) {
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	rel, err := s.graph.RelationBetween(ctx, viewerID, targetID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{User: user, Following: rel.Following, Followed: rel.Followed}, nil
}

// ListUsers returns page (1-indexed) of all users ordered by id, plus the
// viewer's following and follower ids.
func (s *UserService) ListUsers(ctx context.Context, viewerID uint, page int) (*models.UsersPage, error) {
	if page < 1 {
		return nil, models.NewValidationError("page must be a positive integer")
	}

	var (
		users []models.User
		total int64
		sets  *models.FollowIDSets
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		users, err = s.users.List(egCtx, s.pageSize, pageOffset(page, s.pageSize))
		return err
	})
	eg.Go(func() error {
		var err error
		total, err = s.users.Count(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		sets, err = s.graph.FollowerAndFollowingIDSets(egCtx, viewerID)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, models.NewAggregationError(opListUsers, err)
	}

	if users == nil {
		users = []models.User{}
	}
	return &models.UsersPage{
		Users:          users,
		UsersFollowing: sets.Following,
		UsersFollowed:  sets.Followers,
		Total:          total,
		Pages:          pageCount(total, s.pageSize),
	}, nil
}

// UpdateProfile changes the caller's own name, surname, nick and email.
// Password, role and image are never touched here.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if in.CallerID != in.TargetID {
		return nil, models.NewForbiddenError("You do not have permission to update this user")
	}

	user, err := s.users.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.Name); v != "" {
		if err := validation.ValidateName("name", v); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = v
	}
	if v := strings.TrimSpace(in.Surname); v != "" {
		if err := validation.ValidateName("surname", v); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Surname = v
	}
	if v := strings.TrimSpace(in.Nick); v != "" {
		if err := validation.ValidateNick(v); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Nick = v
	}
	if v := strings.ToLower(strings.TrimSpace(in.Email)); v != "" {
		if err := validation.ValidateEmail(v); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = v
	}

	clash, err := s.users.FindByEmailOrNick(ctx, user.Email, user.Nick, user.ID)
	if err != nil {
		return nil, err
	}
	if clash != nil {
		return nil, models.NewValidationError("Nick or email already in use")
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Counters returns following, follower and publication counts for userID.
func (s *UserService) Counters(ctx context.Context, userID uint) (*models.FollowCounters, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.graph.CountFollowRelations(ctx, userID)
}
