package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/clock"
	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("client.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Client{}, domain.ErrInvalidEmail
	}

	status := req.Status
	if status == "" {
		status = domain.StatusLead
	}
	if !status.Valid() {
		return domain.Client{}, domain.ErrInvalidStatus
	}

	var plan domain.BillingPlan
	if req.Plan != nil {
		if !req.Plan.Model.Valid() {
			return domain.Client{}, domain.ErrInvalidPlanModel
		}
		plan = *req.Plan
	}

	now := s.clock.Now()
	client := domain.Client{
		ID:          s.genID.Generate(),
		Name:        name,
		Email:       email,
		Phone:       strings.TrimSpace(req.Phone),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Address:     strings.TrimSpace(req.Address),
		Status:      status,
		Notes:       req.Notes,
		Plan:        plan,
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		return domain.Client{}, err
	}

	s.log.Info("client created",
		zap.String("client_id", client.ID.String()),
		zap.String("status", string(client.Status)),
	)

	return client, nil
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) (domain.ListClientResponse, error) {
	if req.Status != "" && !req.Status.Valid() {
		return domain.ListClientResponse{}, domain.ErrInvalidStatus
	}

	filter := domain.ListClientFilter{
		Status: req.Status,
		Search: strings.TrimSpace(req.Search),
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListClientResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(client *domain.Client) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        client.ID.String(),
			CreatedAt: client.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	clients := make([]domain.Client, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		clients = append(clients, *item)
	}

	resp := domain.ListClientResponse{Clients: clients}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetClientRequest) (domain.Client, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Client{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateClientRequest) (domain.Client, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Client{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Client{}, err
	}
	if item == nil {
		return domain.Client{}, domain.ErrNotFound
	}

	client := *item
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Client{}, domain.ErrInvalidName
		}
		client.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return domain.Client{}, domain.ErrInvalidEmail
		}
		client.Email = email
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.CompanyName != nil {
		client.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.Address != nil {
		client.Address = strings.TrimSpace(*req.Address)
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return domain.Client{}, domain.ErrInvalidStatus
		}
		client.Status = *req.Status
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}
	if req.Plan != nil {
		if !req.Plan.Model.Valid() {
			return domain.Client{}, domain.ErrInvalidPlanModel
		}
		client.Plan = *req.Plan
	}
	client.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, &client); err != nil {
		return domain.Client{}, err
	}

	return client, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteClientRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.Delete(ctx, s.db, id)
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
