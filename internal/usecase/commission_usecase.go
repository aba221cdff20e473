package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"artstore/internal/domain/model"
	"artstore/internal/notifier"
	repo "artstore/internal/repository"

	"github.com/labstack/gommon/log"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// CommissionUsecase は依頼（オーダーメイド作品）の受付と進行
type CommissionUsecase struct {
	tx       repo.TransactionManager
	artists  repo.ArtistRepository
	users    repo.UserRepository
	profiles repo.ProfileRepository
	notify   notifier.Notifier
	clock    Clock
}

// DI
func NewCommissionUsecase(
	tx repo.TransactionManager,
	artists repo.ArtistRepository,
	users repo.UserRepository,
	profiles repo.ProfileRepository,
	notify notifier.Notifier,
	clock Clock,
) *CommissionUsecase {
	return &CommissionUsecase{
		tx:       tx,
		artists:  artists,
		users:    users,
		profiles: profiles,
		notify:   notify,
		clock:    clock,
	}
}

type CreateCommissionInput struct {
	WorkType            string
	Description         string
	PreferredArtistID   *int64
	Dimensions          string
	DesiredDeliveryDate string // YYYY-MM-DD
	MaxBudget           string
}

type CommissionListOutput struct {
	Items []model.CommissionRequest `json:"items"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

func (u *CommissionUsecase) Create(ctx context.Context, clientID int64, in CreateCommissionInput) (model.CommissionRequest, error) {
	if clientID <= 0 {
		return model.CommissionRequest{}, errUnauthorized()
	}

	wt := model.WorkType(strings.TrimSpace(in.WorkType))
	if !wt.Valid() {
		return model.CommissionRequest{}, errBadRequest("invalid work_type")
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return model.CommissionRequest{}, errBadRequest("description required")
	}
	dims := strings.TrimSpace(in.Dimensions)
	if len(dims) > 100 {
		return model.CommissionRequest{}, errBadRequest("dimensions too long")
	}

	c := model.CommissionRequest{
		ClientID:    clientID,
		WorkType:    wt,
		Description: desc,
		Dimensions:  dims,
		Status:      model.CommissionPending,
	}

	// 希望納期は今日以降
	due, err := parseOptionalDate(in.DesiredDeliveryDate)
	if err != nil {
		return model.CommissionRequest{}, errBadRequest("invalid desired_delivery_date")
	}
	if due != nil {
		if due.Format(dateLayout) < u.clock.Now().Format(dateLayout) {
			return model.CommissionRequest{}, errBadRequest("desired_delivery_date must not be in the past")
		}
		c.DesiredDeliveryDate = due
	}

	budget, err := optionalAmount(in.MaxBudget, "max_budget")
	if err != nil {
		return model.CommissionRequest{}, err
	}
	c.MaxBudget = budget

	// 希望作家は公開中のみ
	if in.PreferredArtistID != nil {
		a, err := u.artists.FindByID(ctx, *in.PreferredArtistID)
		if errors.Is(err, repo.ErrNotFound) || (err == nil && !a.Active) {
			return model.CommissionRequest{}, errBadRequest("invalid preferred_artist_id")
		}
		if err != nil {
			return model.CommissionRequest{}, errDB()
		}
		c.PreferredArtistID = in.PreferredArtistID
	}

	var out model.CommissionRequest
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		created, err := r.Commissions().Create(ctx, c)
		if err != nil {
			return errDB()
		}
		out = created
		return nil
	})
	if err != nil {
		return model.CommissionRequest{}, err
	}
	return out, nil
}

func (u *CommissionUsecase) ListMine(ctx context.Context, clientID int64, page int, limit int, status string) (CommissionListOutput, error) {
	if clientID <= 0 {
		return CommissionListOutput{}, errUnauthorized()
	}
	return u.list(ctx, repo.CommissionListFilter{Page: page, Limit: limit, ClientID: &clientID, Status: status})
}

// 依頼者本人のみ
func (u *CommissionUsecase) GetMine(ctx context.Context, clientID int64, id int64) (model.CommissionRequest, error) {
	if clientID <= 0 {
		return model.CommissionRequest{}, errUnauthorized()
	}
	var out model.CommissionRequest
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := findOwnCommission(ctx, r, clientID, id)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return model.CommissionRequest{}, err
	}
	return out, nil
}

// 依頼者はキャンセルのみ可能
func (u *CommissionUsecase) CancelMine(ctx context.Context, clientID int64, id int64) (model.CommissionRequest, error) {
	if clientID <= 0 {
		return model.CommissionRequest{}, errUnauthorized()
	}
	return u.change(ctx, clientID, id, model.CommissionCancelled, func(r repo.TxRepos) (model.CommissionRequest, error) {
		return findOwnCommission(ctx, r, clientID, id)
	})
}

// 作家として指名された依頼の一覧
func (u *CommissionUsecase) ListForArtist(ctx context.Context, userID int64, page int, limit int, status string) (CommissionListOutput, error) {
	artist, err := u.activeArtist(ctx, userID)
	if err != nil {
		return CommissionListOutput{}, err
	}
	return u.list(ctx, repo.CommissionListFilter{Page: page, Limit: limit, PreferredArtistID: &artist.ID, Status: status})
}

// 指名された作家が進める
func (u *CommissionUsecase) ArtistUpdateStatus(ctx context.Context, userID int64, id int64, status string) (model.CommissionRequest, error) {
	artist, err := u.activeArtist(ctx, userID)
	if err != nil {
		return model.CommissionRequest{}, err
	}
	next, err := parseCommissionStatus(status)
	if err != nil {
		return model.CommissionRequest{}, err
	}

	return u.change(ctx, userID, id, next, func(r repo.TxRepos) (model.CommissionRequest, error) {
		c, err := r.Commissions().FindByID(ctx, id)
		if err != nil {
			return model.CommissionRequest{}, mapRepoErr(err)
		}
		if c.PreferredArtistID == nil || *c.PreferredArtistID != artist.ID {
			return model.CommissionRequest{}, errNotFound()
		}
		return c, nil
	})
}

func (u *CommissionUsecase) AdminList(ctx context.Context, f repo.CommissionListFilter) (CommissionListOutput, error) {
	return u.list(ctx, f)
}

func (u *CommissionUsecase) AdminUpdateStatus(ctx context.Context, adminUserID int64, id int64, status string) (model.CommissionRequest, error) {
	if adminUserID <= 0 {
		return model.CommissionRequest{}, errUnauthorized()
	}
	next, err := parseCommissionStatus(status)
	if err != nil {
		return model.CommissionRequest{}, err
	}

	return u.change(ctx, adminUserID, id, next, func(r repo.TxRepos) (model.CommissionRequest, error) {
		c, err := r.Commissions().FindByID(ctx, id)
		if err != nil {
			return model.CommissionRequest{}, mapRepoErr(err)
		}
		return c, nil
	})
}

func (u *CommissionUsecase) list(ctx context.Context, f repo.CommissionListFilter) (CommissionListOutput, error) {
	if f.Page < 1 {
		return CommissionListOutput{}, errBadRequest("invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return CommissionListOutput{}, errBadRequest("invalid limit")
	}
	if f.Status != "" && !model.CommissionStatus(f.Status).Valid() {
		return CommissionListOutput{}, errBadRequest("invalid status")
	}

	var out CommissionListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.Commissions().List(ctx, f)
		if err != nil {
			return errDB()
		}
		out = CommissionListOutput{Items: items, Total: total, Page: f.Page, Limit: f.Limit}
		return nil
	})
	if err != nil {
		return CommissionListOutput{}, err
	}
	return out, nil
}

// change は対象を取得→遷移チェック→条件付き更新→監査ログを1つのtxで行い、
// コミット後に依頼者へ通知する
func (u *CommissionUsecase) change(
	ctx context.Context,
	actorUserID int64,
	id int64,
	next model.CommissionStatus,
	load func(r repo.TxRepos) (model.CommissionRequest, error),
) (model.CommissionRequest, error) {
	if id <= 0 {
		return model.CommissionRequest{}, errBadRequest("invalid id")
	}

	var out model.CommissionRequest
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := load(r)
		if err != nil {
			return err
		}

		if err := model.TransitionCommission(c.Status, next); err != nil {
			return errTransition(err)
		}

		if err := r.Commissions().UpdateStatus(ctx, c.ID, c.Status, next); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errTransition(fmt.Errorf("%w: commission was modified concurrently", model.ErrInvalidTransition))
			}
			return errDB()
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorUserID,
			Action:       model.AuditActionUpdateCommissionStatus,
			ResourceType: model.AuditResourceCommission,
			ResourceID:   c.ID,
			BeforeJSON:   `{"status":"` + string(c.Status) + `"}`,
			AfterJSON:    `{"status":"` + string(next) + `"}`,
			CreatedAt:    time.Now(),
		}); err != nil {
			return errDB()
		}

		c.Status = next
		out = c
		return nil
	})
	if err != nil {
		return model.CommissionRequest{}, err
	}

	u.notifyClient(ctx, out)
	return out, nil
}

// 通知の失敗は依頼の更新には影響させない
func (u *CommissionUsecase) notifyClient(ctx context.Context, c model.CommissionRequest) {
	if u.notify == nil {
		return
	}

	profile, err := u.profiles.FindByUserID(ctx, c.ClientID)
	if err == nil && !profile.NotificationsEnabled {
		return
	}
	user, err := u.users.FindByID(ctx, c.ClientID)
	if err != nil {
		log.Warnf("commission %d: notify skipped: %v", c.ID, err)
		return
	}

	if err := u.notify.CommissionUpdated(ctx, notifier.CommissionUpdated{
		Email:        user.Email,
		CustomerName: user.FullName(),
		CommissionID: c.ID,
		Status:       string(c.Status),
	}); err != nil {
		log.Errorf("commission %d: notify failed: %v", c.ID, err)
	}
}

// 作家として有効でなければ403
func (u *CommissionUsecase) activeArtist(ctx context.Context, userID int64) (model.Artist, error) {
	if userID <= 0 {
		return model.Artist{}, errUnauthorized()
	}
	a, err := u.artists.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !model.IsArtist(&a)) {
		return model.Artist{}, NewHTTPError(http.StatusForbidden, "artist only")
	}
	if err != nil {
		return model.Artist{}, errDB()
	}
	return a, nil
}

func findOwnCommission(ctx context.Context, r repo.TxRepos, clientID int64, id int64) (model.CommissionRequest, error) {
	if id <= 0 {
		return model.CommissionRequest{}, errBadRequest("invalid id")
	}
	c, err := r.Commissions().FindByID(ctx, id)
	if err != nil {
		return model.CommissionRequest{}, mapRepoErr(err)
	}
	if c.ClientID != clientID {
		return model.CommissionRequest{}, errNotFound()
	}
	return c, nil
}

func parseCommissionStatus(s string) (model.CommissionStatus, error) {
	st := model.CommissionStatus(strings.TrimSpace(s))
	if !st.Valid() {
		return "", errBadRequest("invalid status")
	}
	return st, nil
}
