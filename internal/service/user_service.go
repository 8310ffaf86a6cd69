package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shopmart/shop-backend/internal/apperr"
	"github.com/shopmart/shop-backend/internal/auth"
	"github.com/shopmart/shop-backend/internal/domain"
	"github.com/shopmart/shop-backend/internal/repository"
	"github.com/shopmart/shop-backend/internal/storage"
	"github.com/shopmart/shop-backend/internal/validation"
)

type UserService struct {
	users  repository.UserRepository
	files  storage.FileStore
	tokens *auth.TokenManager
}

func NewUserService(users repository.UserRepository, files storage.FileStore, tokens *auth.TokenManager) *UserService {
	return &UserService{
		users:  users,
		files:  files,
		tokens: tokens,
	}
}

type ProfileImage struct {
	Filename string
	Body     io.Reader
}

type RegisterInput struct {
	Fname    string
	Lname    string
	Email    string
	Phone    string
	Password string
	Address  domain.Address
	Image    *ProfileImage
}

// Register validates the whole registration payload, uploads the profile
// image and stores the user with a hashed password.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	required := map[string]string{
		"fname":    in.Fname,
		"lname":    in.Lname,
		"email":    in.Email,
		"phone":    in.Phone,
		"password": in.Password,
	}
	missing := validation.MissingFields(required, []string{"fname", "lname", "email", "phone", "password"})
	if len(missing) > 0 {
		return nil, apperr.BadRequest(fmt.Sprintf("Enter the following mandatory fields: [%s]", strings.Join(missing, ",")))
	}

	if !validation.IsValidName(in.Fname) {
		return nil, apperr.BadRequest("fname should contain alphabets only.")
	}
	if !validation.IsValidName(in.Lname) {
		return nil, apperr.BadRequest("lname should contain alphabets only.")
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, apperr.BadRequest("Enter email in a valid format.")
	}
	if !validation.IsValidPhone(in.Phone) {
		return nil, apperr.BadRequest("Enter the phone number in a valid Indian format.")
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, apperr.BadRequest("Password should be 8-15 characters long alphanumeric with at least one uppercase, one lowercase and one special character.")
	}

	if err := validateAddressPart("shipping", in.Address.Shipping); err != nil {
		return nil, err
	}
	if err := validateAddressPart("billing", in.Address.Billing); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, apperr.Internal("failed to check email uniqueness", err)
	}
	if exists {
		return nil, apperr.BadRequest("email is not unique.")
	}

	exists, err = s.users.PhoneExists(ctx, in.Phone)
	if err != nil {
		return nil, apperr.Internal("failed to check phone uniqueness", err)
	}
	if exists {
		return nil, apperr.BadRequest("phone number is not unique.")
	}

	if in.Image == nil {
		return nil, apperr.BadRequest("No profileImage found.")
	}
	imageURL, err := s.files.Upload(ctx, in.Image.Filename, in.Image.Body)
	if err != nil {
		return nil, apperr.Internal("failed to upload profile image", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	user := &domain.User{
		Fname:        in.Fname,
		Lname:        in.Lname,
		Email:        in.Email,
		Phone:        in.Phone,
		Password:     hash,
		ProfileImage: imageURL,
		Address:      in.Address,
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, apperr.Internal("failed to create user", err)
	}
	return created, nil
}

type LoginResult struct {
	UserID primitive.ObjectID
	Token  string
}

// Login never reveals whether the email or the password was wrong.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if !validation.IsValid(email) || !validation.IsValid(password) {
		return nil, apperr.BadRequest("Provide the email and password to login.")
	}
	if !validation.IsValidEmail(email) {
		return nil, apperr.BadRequest("Please enter a valid emailId.")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.Unauthorized("Email or password is incorrect.")
		}
		return nil, apperr.Internal("failed to get user", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, apperr.Unauthorized("Email or password is incorrect.")
	}

	token, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}

	return &LoginResult{UserID: user.ID, Token: token}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.NotFound("User doesn't exist.")
		}
		return nil, apperr.Internal("failed to get user", err)
	}
	return user, nil
}

func validateAddressPart(name string, part domain.AddressPart) error {
	required := map[string]string{
		"street":  part.Street,
		"city":    part.City,
		"pincode": part.Pincode,
	}
	missing := validation.MissingFields(required, []string{"street", "city", "pincode"})
	if len(missing) > 0 {
		return apperr.BadRequest(fmt.Sprintf("Enter the following mandatory fields: [%s] in %s address.", strings.Join(missing, ","), name))
	}
	if !validation.IsValidName(part.City) {
		return apperr.BadRequest("city name should contain alphabets only.")
	}
	if !validation.IsValidPincode(part.Pincode) {
		return apperr.BadRequest("pincode should be numeric.")
	}
	return nil
}
