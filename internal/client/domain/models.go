package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status tracks a client through the engagement lifecycle.
type Status string

const (
	StatusLead       Status = "lead"
	StatusOnboarding Status = "onboarding"
	StatusActive     Status = "active"
	StatusPaused     Status = "paused"
	StatusInactive   Status = "inactive"
)

func (s Status) Valid() bool {
	switch s {
	case StatusLead, StatusOnboarding, StatusActive, StatusPaused, StatusInactive:
		return true
	}
	return false
}

// PlanModel is how a client is billed on an ongoing basis.
type PlanModel string

const (
	PlanMonthly  PlanModel = "monthly"
	PlanOneTime  PlanModel = "one-time"
	PlanRetainer PlanModel = "retainer"
)

func (m PlanModel) Valid() bool {
	switch m {
	case PlanMonthly, PlanOneTime, PlanRetainer:
		return true
	}
	return false
}

// BillingPlan is the recurring arrangement agreed with a client. It is
// optional; a zero Model means no plan has been set up.
type BillingPlan struct {
	Model    PlanModel  `gorm:"column:plan_model" json:"model,omitempty"`
	Amount   float64    `gorm:"column:plan_amount" json:"amount,omitempty"`
	Currency string     `gorm:"column:plan_currency" json:"currency,omitempty"`
	NextDue  *time.Time `gorm:"column:plan_next_due" json:"next_due,omitempty"`
}

type Client struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name        string            `gorm:"not null" json:"name"`
	Email       string            `gorm:"not null" json:"email"`
	Phone       string            `json:"phone,omitempty"`
	CompanyName string            `json:"company_name,omitempty"`
	Address     string            `json:"address,omitempty"`
	Status      Status            `gorm:"not null;index;default:lead" json:"status"`
	Notes       string            `json:"notes,omitempty"`
	Plan        BillingPlan       `gorm:"embedded" json:"billing_plan"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// DisplayName prefers the company name on outward-facing surfaces.
func (c Client) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	if c.Name != "" {
		return c.Name
	}
	return "Unknown"
}
