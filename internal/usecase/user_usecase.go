package usecase

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"fastfood/internal/domain/model"
	repo "fastfood/internal/repository"
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^0\d{9}$`)
)

type UserUsecase struct {
	users repo.UserRepository
}

// DI
func NewUserUsecase(users repo.UserRepository) *UserUsecase {
	return &UserUsecase{users: users}
}

type UpdateProfileInput struct {
	Fullname *string
	Email    *string
	Phone    *string

	//"2006-01-02" 形式
	Birthday *string

	//base64のdata URL
	Image *string
}

func (u *UserUsecase) GetProfile(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

// UpdateProfile は部分更新。nilの項目は触らない。
func (u *UserUsecase) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	if in.Fullname != nil && strings.TrimSpace(*in.Fullname) == "" {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "fullname must not be empty")
	}
	if in.Email != nil && !emailRe.MatchString(*in.Email) {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if in.Phone != nil && !phoneRe.MatchString(*in.Phone) {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "phone must be 10 digits")
	}
	if in.Birthday != nil {
		if _, err := time.Parse("2006-01-02", *in.Birthday); err != nil {
			return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid birthday")
		}
	}

	err := u.users.UpdateProfile(ctx, userID, repo.UserProfilePatch{
		Fullname: in.Fullname,
		Email:    in.Email,
		Phone:    in.Phone,
		Birthday: in.Birthday,
		Image:    in.Image,
	})
	if errors.Is(err, repo.ErrNotFound) {
		return model.User{}, NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.GetProfile(ctx, userID)
}
