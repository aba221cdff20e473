package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"artstore/internal/domain/model"
	"artstore/internal/repository"
	"artstore/internal/validator"
)

// 会員登録の入力
type RegisterUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User `json:"user"`
}

var (
	// 入力が不正（validator.ErrInvalidInputを包む）
	ErrInvalidInput = errors.New("validation error")

	// 競合
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RegisterUserUsecaseは会員登録の処理。ユーザーと空のプロフィールを同じtxで作る
type RegisterUserUsecase struct {
	tx     repository.TransactionManager
	hasher PasswordHasher
	clock  Clock
}

// DI
func NewRegisterUserUsecase(
	tx repository.TransactionManager,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		tx:     tx,
		hasher: hasher,
		clock:  clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := validator.ValidateRegister(validator.RegisterInput{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}); err != nil {
		return out, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	now := u.clock.Now()
	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         model.RoleCustomer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		// 重複チェック
		if _, err := r.Users().FindByEmail(ctx, in.Email); err == nil {
			return ErrEmailAlreadyExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if _, err := r.Users().FindByUsername(ctx, in.Username); err == nil {
			return ErrUsernameAlreadyExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		// 同時登録は一意制約で弾かれる
		if err := r.Users().Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return ErrEmailAlreadyExists
			}
			return err
		}

		return r.Profiles().Create(ctx, model.UserProfile{
			UserID:               user.ID,
			NotificationsEnabled: true,
		})
	})
	if err != nil {
		return out, err
	}

	out.User = *user
	return out, nil
}
