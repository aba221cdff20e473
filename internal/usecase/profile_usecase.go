package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"artstore/internal/domain/model"
	repo "artstore/internal/repository"
	"artstore/internal/validator"
)

type ProfileUsecase struct {
	tx       repo.TransactionManager
	users    repo.UserRepository
	profiles repo.ProfileRepository
	artists  repo.ArtistRepository
}

// DI
func NewProfileUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	profiles repo.ProfileRepository,
	artists repo.ArtistRepository,
) *ProfileUsecase {
	return &ProfileUsecase{tx: tx, users: users, profiles: profiles, artists: artists}
}

type ProfileOutput struct {
	User     model.User        `json:"user"`
	Profile  model.UserProfile `json:"profile"`
	FullName string            `json:"full_name"`
	IsArtist bool              `json:"is_artist"`
	Artist   *model.Artist     `json:"artist,omitempty"`
}

// nilは変更しない
type UpdateProfileInput struct {
	FirstName            *string
	LastName             *string
	Phone                *string
	Address              *string
	City                 *string
	Country              *string
	PostalCode           *string
	BirthDate            *string // YYYY-MM-DD、空文字で削除
	AvatarURL            *string
	NotificationsEnabled *bool
	Newsletter           *bool
}

func (u *ProfileUsecase) GetMe(ctx context.Context, userID int64) (ProfileOutput, error) {
	if userID <= 0 {
		return ProfileOutput{}, errUnauthorized()
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return ProfileOutput{}, mapRepoErr(err)
	}

	// 古いユーザーはプロフィールが無いことがある
	profile, err := u.profiles.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		profile = model.UserProfile{UserID: userID, NotificationsEnabled: true}
	} else if err != nil {
		return ProfileOutput{}, errDB()
	}

	out := ProfileOutput{
		User:     *user,
		Profile:  profile,
		FullName: user.FullName(),
	}

	artist, err := u.artists.FindByUserID(ctx, userID)
	switch {
	case err == nil:
		out.Artist = &artist
		out.IsArtist = model.IsArtist(&artist)
	case errors.Is(err, repo.ErrNotFound):
	default:
		return ProfileOutput{}, errDB()
	}

	return out, nil
}

func (u *ProfileUsecase) UpdateMe(ctx context.Context, userID int64, in UpdateProfileInput) (ProfileOutput, error) {
	if userID <= 0 {
		return ProfileOutput{}, errUnauthorized()
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if err != nil {
			return mapRepoErr(err)
		}

		profile, err := r.Profiles().FindByUserID(ctx, userID)
		exists := err == nil
		if errors.Is(err, repo.ErrNotFound) {
			profile = model.UserProfile{UserID: userID, NotificationsEnabled: true}
		} else if err != nil {
			return errDB()
		}

		setString(&profile.Phone, in.Phone)
		setString(&profile.Address, in.Address)
		setString(&profile.City, in.City)
		setString(&profile.Country, in.Country)
		setString(&profile.PostalCode, in.PostalCode)
		setString(&profile.AvatarURL, in.AvatarURL)
		if in.NotificationsEnabled != nil {
			profile.NotificationsEnabled = *in.NotificationsEnabled
		}
		if in.Newsletter != nil {
			profile.Newsletter = *in.Newsletter
		}
		if in.BirthDate != nil {
			bd, err := parseOptionalDate(*in.BirthDate)
			if err != nil {
				return errBadRequest("invalid birth_date")
			}
			if bd != nil && bd.After(time.Now()) {
				return errBadRequest("invalid birth_date")
			}
			profile.BirthDate = bd
		}

		if err := validator.ValidateProfile(validator.ProfileInput{
			Phone:      profile.Phone,
			Address:    profile.Address,
			City:       profile.City,
			Country:    profile.Country,
			PostalCode: profile.PostalCode,
			AvatarURL:  profile.AvatarURL,
		}); err != nil {
			return errBadRequest(err.Error())
		}

		if in.FirstName != nil || in.LastName != nil {
			setString(&user.FirstName, in.FirstName)
			setString(&user.LastName, in.LastName)
			if len(user.FirstName) > 30 || len(user.LastName) > 30 {
				return errBadRequest("name too long")
			}
			if err := r.Users().Update(ctx, user); err != nil {
				return errDB()
			}
		}

		if exists {
			err = r.Profiles().Update(ctx, profile)
		} else {
			err = r.Profiles().Create(ctx, profile)
		}
		if err != nil {
			return errDB()
		}
		return nil
	})
	if err != nil {
		return ProfileOutput{}, err
	}

	return u.GetMe(ctx, userID)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

const dateLayout = "2006-01-02"

// 空文字ならnil
func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
