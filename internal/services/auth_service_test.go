package services

import (
	"testing"
	"time"

	"expenses-api/internal/config"
	"expenses-api/internal/database"
	"expenses-api/internal/dto"
	"expenses-api/internal/models"
	"expenses-api/internal/repositories"

	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db           *database.DB
	categoryRepo repositories.CategoryRepositoryInterface
	userRepo     repositories.UserRepositoryInterface
	service      AuthServiceInterface
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.userRepo = repositories.NewUserRepository(s.db.DB)
	s.categoryRepo = repositories.NewCategoryRepository(s.db.DB)

	privateKey, publicKey, err := config.GenerateRSAKeyPair()
	s.Require().NoError(err)
	tokenService := NewTokenService(&config.JWTConfig{
		PrivateKey:          privateKey,
		PublicKey:           publicKey,
		Issuer:              "test-issuer",
		AccessTokenDuration: time.Hour,
	})

	s.service = NewAuthService(s.userRepo, s.categoryRepo, NewPasswordService(), tokenService, testLogger())
}

func (s *AuthServiceTestSuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) register() *models.User {
	user, err := s.service.Register(&dto.RegisterRequest{
		Email:     "ana@example.com",
		Password:  "correcthorse1",
		FirstName: "Ana",
		LastName:  "García",
	})
	s.Require().NoError(err)
	return user
}

func (s *AuthServiceTestSuite) TestRegister_SeedsDefaultCategories() {
	user := s.register()
	s.Equal(models.RoleCustomer, user.Role)

	categories, err := s.categoryRepo.ListByUser(user.ID)
	s.NoError(err)
	s.Len(categories, len(models.DefaultCategoryNames))
}

func (s *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	s.register()

	_, err := s.service.Register(&dto.RegisterRequest{
		Email:     "ana@example.com",
		Password:  "correcthorse1",
		FirstName: "Ana",
		LastName:  "García",
	})
	s.Equal(ErrUserAlreadyExists, err)
}

func (s *AuthServiceTestSuite) TestRegister_WeakPassword() {
	_, err := s.service.Register(&dto.RegisterRequest{
		Email:     "ana@example.com",
		Password:  "short",
		FirstName: "Ana",
		LastName:  "García",
	})
	s.ErrorIs(err, ErrPasswordTooShort)
}

func (s *AuthServiceTestSuite) TestLogin() {
	user := s.register()

	tokens, err := s.service.Login(&dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "correcthorse1",
	})
	s.Require().NoError(err)
	s.NotEmpty(tokens.AccessToken)
	s.Equal("Bearer", tokens.TokenType)

	// Login stamps last_login_at
	refreshed, err := s.userRepo.GetByID(user.ID)
	s.NoError(err)
	s.NotNil(refreshed.LastLoginAt)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	s.register()

	_, err := s.service.Login(&dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "wronghorse1",
	})
	s.Equal(ErrInvalidCredentials, err)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	_, err := s.service.Login(&dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correcthorse1",
	})
	s.Equal(ErrInvalidCredentials, err)
}
