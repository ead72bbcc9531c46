package auth

import (
	"context"
	"errors"

	"fastfood/internal/mail"
	"fastfood/internal/otp"
	repo "fastfood/internal/repository"

	"go.uber.org/zap"
)

// OTPが違う・期限切れ
var ErrInvalidOTP = errors.New("invalid or expired code")

// PasswordResetUsecase はOTPによるパスワード再設定。
// コードはRedisにTTL付きで置き、一致したら消費する。
type PasswordResetUsecase struct {
	users  repo.UserRepository
	codes  otp.Store
	mailer mail.Mailer
	hasher PasswordHasher
	log    *zap.Logger
}

// DI
func NewPasswordResetUsecase(
	users repo.UserRepository,
	codes otp.Store,
	mailer mail.Mailer,
	hasher PasswordHasher,
	log *zap.Logger,
) *PasswordResetUsecase {
	return &PasswordResetUsecase{
		users:  users,
		codes:  codes,
		mailer: mailer,
		hasher: hasher,
		log:    log,
	}
}

// RequestReset はOTPを発行してメールで送る。
// アカウントの存在有無を漏らさないため、未登録のemailでも成功を装う。
func (u *PasswordResetUsecase) RequestReset(ctx context.Context, email string) error {
	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		u.log.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	code, err := otp.GenerateCode()
	if err != nil {
		return err
	}
	if err := u.codes.Set(ctx, email, code); err != nil {
		return err
	}

	return u.mailer.SendOTP(ctx, email, user.Fullname, code)
}

// ResetPassword はOTPを検証してパスワードを書き換える。
// 成功時はコードを消費し、同じコードの再利用はできない。
func (u *PasswordResetUsecase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if !isStrongPassword(newPassword) {
		return ErrWeakPassword
	}

	user, err := u.users.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrInvalidOTP
	}
	if err != nil {
		return err
	}

	if err := u.codes.Verify(ctx, email, code); err != nil {
		if errors.Is(err, otp.ErrCodeMismatch) {
			return ErrInvalidOTP
		}
		return err
	}

	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := u.users.UpdatePasswordHash(ctx, user.ID, hashed); err != nil {
		return err
	}

	//使い終わったコードは消す
	if err := u.codes.Delete(ctx, email); err != nil {
		u.log.Warn("otp cleanup failed", zap.Error(err))
	}

	u.log.Info("password reset completed", zap.Int64("user_id", user.ID))
	return nil
}

// ChangePassword はログイン済みユーザーのパスワード変更。
type ChangePasswordUsecase struct {
	users    repo.UserRepository
	verifier PasswordVerifier
	hasher   PasswordHasher
}

// DI
func NewChangePasswordUsecase(users repo.UserRepository, verifier PasswordVerifier, hasher PasswordHasher) *ChangePasswordUsecase {
	return &ChangePasswordUsecase{users: users, verifier: verifier, hasher: hasher}
}

func (u *ChangePasswordUsecase) Execute(ctx context.Context, userID int64, current, newPassword string) error {
	if !isStrongPassword(newPassword) {
		return ErrWeakPassword
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.verifier.Verify(current, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hashed, err := u.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return u.users.UpdatePasswordHash(ctx, userID, hashed)
}
