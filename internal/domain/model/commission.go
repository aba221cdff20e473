package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type WorkType string

const (
	WorkTypePortrait  WorkType = "portrait"
	WorkTypeLandscape WorkType = "landscape"
	WorkTypeAbstract  WorkType = "abstract"
	WorkTypeOther     WorkType = "other"
)

func (w WorkType) Valid() bool {
	switch w {
	case WorkTypePortrait, WorkTypeLandscape, WorkTypeAbstract, WorkTypeOther:
		return true
	}
	return false
}

type CommissionStatus string

const (
	CommissionPending    CommissionStatus = "pending"
	CommissionInProgress CommissionStatus = "in_progress"
	CommissionCompleted  CommissionStatus = "completed"
	CommissionCancelled  CommissionStatus = "cancelled"
)

var commissionTransitions = map[CommissionStatus][]CommissionStatus{
	CommissionPending:    {CommissionInProgress, CommissionCancelled},
	CommissionInProgress: {CommissionCompleted, CommissionCancelled},
}

func (s CommissionStatus) Valid() bool {
	switch s {
	case CommissionPending, CommissionInProgress, CommissionCompleted, CommissionCancelled:
		return true
	}
	return false
}

func (s CommissionStatus) CanTransitionTo(next CommissionStatus) bool {
	for _, to := range commissionTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

func TransitionCommission(from, to CommissionStatus) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: commission %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// オーダーメイド作品の依頼
type CommissionRequest struct {
	ID                  int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID            int64            `gorm:"not null;index" json:"client_id"`
	WorkType            WorkType         `gorm:"type:varchar(20);not null" json:"work_type"`
	Description         string           `gorm:"type:text;not null" json:"description"`
	PreferredArtistID   *int64           `gorm:"index" json:"preferred_artist_id"`
	Dimensions          string           `gorm:"type:varchar(100)" json:"dimensions"`
	DesiredDeliveryDate *time.Time       `gorm:"type:date" json:"desired_delivery_date"`
	MaxBudget           *decimal.Decimal `gorm:"type:numeric(10,2)" json:"max_budget"`
	Status              CommissionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt           time.Time        `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
