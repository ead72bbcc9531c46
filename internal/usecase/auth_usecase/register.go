package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"
)

// 会員登録の入力
type RegisterInput struct {
	Username string
	Password string
	Fullname string
	Email    string
	Phone    string
}

type RegisterOutput struct {
	User model.User
}

var (
	//入力が不正
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password must be 8-100 chars with upper, lower, digit and special")

	//競合
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

// 平文パスワードからハッシュへ
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// RegisterUsecase は会員登録の処理。
type RegisterUsecase struct {
	users  repo.UserRepository
	hasher PasswordHasher
}

// DI
func NewRegisterUsecase(users repo.UserRepository, hasher PasswordHasher) *RegisterUsecase {
	return &RegisterUsecase{users: users, hasher: hasher}
}

// 会員登録実行
func (u *RegisterUsecase) Execute(ctx context.Context, in RegisterInput) (RegisterOutput, error) {
	var out RegisterOutput

	username := strings.TrimSpace(in.Username)
	if len(username) < 3 || len(username) > 100 {
		return out, ErrInvalidUsername
	}
	if in.Email != "" && !isValidEmailFormat(in.Email) {
		return out, ErrInvalidEmailFormat
	}
	if !isStrongPassword(in.Password) {
		return out, ErrWeakPassword
	}

	//username重複チェック
	_, err := u.users.FindByUsername(ctx, username)
	if err == nil {
		return out, ErrUsernameAlreadyExists
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return out, err
	}

	//平文は保存しない
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	created, err := u.users.Create(ctx, model.User{
		Username:     username,
		PasswordHash: hashed,
		Fullname:     strings.TrimSpace(in.Fullname),
		Email:        strings.TrimSpace(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		Role:         model.RoleUser,
		IsActive:     true,
	})
	if err != nil {
		return out, err
	}

	created.PasswordHash = ""
	out.User = created
	return out, nil
}

func isValidEmailFormat(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	_, err := mail.ParseAddress(trimmed)
	return err == nil
}

// 8〜100文字、英大文字・英小文字・数字・記号を各1つ以上。
func isStrongPassword(password string) bool {
	if len(password) < 8 || len(password) > 100 {
		return false
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSpecial
}
