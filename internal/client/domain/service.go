package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
)

type CreateClientRequest struct {
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	CompanyName string       `json:"company_name"`
	Address     string       `json:"address"`
	Status      Status       `json:"status"`
	Notes       string       `json:"notes"`
	Plan        *BillingPlan `json:"billing_plan"`
}

type UpdateClientRequest struct {
	ID          string       `json:"-"`
	Name        *string      `json:"name"`
	Email       *string      `json:"email"`
	Phone       *string      `json:"phone"`
	CompanyName *string      `json:"company_name"`
	Address     *string      `json:"address"`
	Status      *Status      `json:"status"`
	Notes       *string      `json:"notes"`
	Plan        *BillingPlan `json:"billing_plan"`
}

type ListClientRequest struct {
	PageToken string
	PageSize  int32
	Status    Status
	Search    string
}

type ListClientFilter struct {
	Status Status
	Search string
}

type ListClientResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

type GetClientRequest struct {
	ID string
}

type DeleteClientRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateClientRequest) (Client, error)
	List(context.Context, ListClientRequest) (ListClientResponse, error)
	GetByID(context.Context, GetClientRequest) (Client, error)
	Update(context.Context, UpdateClientRequest) (Client, error)
	Delete(context.Context, DeleteClientRequest) error
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidEmail     = errors.New("invalid_email")
	ErrInvalidStatus    = errors.New("invalid_status")
	ErrInvalidPlanModel = errors.New("invalid_plan_model")
	ErrInvalidID        = errors.New("invalid_id")
	ErrNotFound         = errors.New("not_found")
)
