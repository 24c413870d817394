package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
)

type billingPlanRequest struct {
	Model    string  `json:"model"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	NextDue  string  `json:"next_due"`
}

func (r *billingPlanRequest) toDomain() (*clientdomain.BillingPlan, error) {
	if r == nil {
		return nil, nil
	}
	nextDue, err := parseOptionalTime(r.NextDue)
	if err != nil {
		return nil, newValidationError("billing_plan.next_due", "invalid_next_due", "invalid next_due")
	}
	return &clientdomain.BillingPlan{
		Model:    clientdomain.PlanModel(strings.TrimSpace(r.Model)),
		Amount:   r.Amount,
		Currency: strings.TrimSpace(r.Currency),
		NextDue:  nextDue,
	}, nil
}

type createClientRequest struct {
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone"`
	CompanyName string              `json:"company_name"`
	Address     string              `json:"address"`
	Status      string              `json:"status"`
	Notes       string              `json:"notes"`
	Plan        *billingPlanRequest `json:"billing_plan"`
}

func (s *Server) CreateClient(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	plan, err := req.Plan.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.clientSvc.Create(c.Request.Context(), clientdomain.CreateClientRequest{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Address:     strings.TrimSpace(req.Address),
		Status:      clientdomain.Status(strings.TrimSpace(req.Status)),
		Notes:       req.Notes,
		Plan:        plan,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListClients(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
		Search string `form:"search"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.clientSvc.List(c.Request.Context(), clientdomain.ListClientRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Status:    clientdomain.Status(strings.TrimSpace(query.Status)),
		Search:    strings.TrimSpace(query.Search),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetClientByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.clientSvc.GetByID(c.Request.Context(), clientdomain.GetClientRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateClientRequest struct {
	Name        *string             `json:"name"`
	Email       *string             `json:"email"`
	Phone       *string             `json:"phone"`
	CompanyName *string             `json:"company_name"`
	Address     *string             `json:"address"`
	Status      *string             `json:"status"`
	Notes       *string             `json:"notes"`
	Plan        *billingPlanRequest `json:"billing_plan"`
}

func (s *Server) UpdateClient(c *gin.Context) {
	var req updateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	plan, err := req.Plan.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	update := clientdomain.UpdateClientRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
		Address:     req.Address,
		Notes:       req.Notes,
		Plan:        plan,
	}
	if req.Status != nil {
		status := clientdomain.Status(strings.TrimSpace(*req.Status))
		update.Status = &status
	}

	resp, err := s.clientSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteClient(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.clientSvc.Delete(c.Request.Context(), clientdomain.DeleteClientRequest{ID: id}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
