package services

import (
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"unilib/internal/models"
	"unilib/internal/repositories"
)

var (
	// ErrEmailTaken is returned when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on a failed login. The message never
	// distinguishes a missing account from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

const tokenTTL = 12 * time.Hour

// AuthService handles account registration and bearer-token issuance.
type AuthService interface {
	Register(name, email, password, phone, department, regNo string) (*models.User, error)
	Login(email, password string) (string, *models.User, error)
	GetUser(id uuid.UUID) (*models.User, error)
}

type authService struct {
	users  repositories.UserRepository
	secret string
}

func NewAuthService(users repositories.UserRepository, secret string) AuthService {
	return &authService{users: users, secret: secret}
}

// Register creates a new account with the user role. Admin accounts are only
// created by the seed command.
func (s *authService) Register(name, email, password, phone, department, regNo string) (*models.User, error) {
	if existing, err := s.users.GetByEmail(nil, email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:       name,
		Email:      email,
		Password:   string(hashed),
		Phone:      phone,
		Department: department,
		RegNo:      regNo,
		Role:       models.UserRoleUser,
	}
	if err := s.users.Create(nil, user); err != nil {
		log.Printf("[ERROR] Register: failed to create user %s: %v", email, err)
		return nil, err
	}
	log.Printf("[INFO] Register: user %s created (id=%s)", email, user.ID)
	return user, nil
}

// Login verifies the credentials and returns a signed bearer token carrying
// the user's identity and role.
func (s *authService) Login(email, password string) (string, *models.User, error) {
	user, err := s.users.GetByEmail(nil, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"id":   user.ID.String(),
		"role": string(user.Role),
		"exp":  time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", nil, err
	}
	return signed, user, nil
}

func (s *authService) GetUser(id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
