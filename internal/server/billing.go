package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
)

type createBillRequest struct {
	ClientID      string                      `json:"client_id"`
	InvoiceNumber string                      `json:"invoice_number"`
	Amount        float64                     `json:"amount"`
	Currency      string                      `json:"currency"`
	Services      []billingdomain.ServiceLine `json:"services_billed"`
	PaymentStatus string                      `json:"payment_status"`
	BillDate      string                      `json:"bill_date"`
	DueDate       string                      `json:"due_date"`
	PaymentMethod string                      `json:"payment_method"`
	TransactionID string                      `json:"transaction_id"`
	Notes         string                      `json:"notes"`
}

func (s *Server) CreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	billDate, err := parseOptionalTime(req.BillDate)
	if err != nil {
		AbortWithError(c, newValidationError("bill_date", "invalid_bill_date", "invalid bill_date"))
		return
	}
	dueDate, err := parseOptionalTime(req.DueDate)
	if err != nil {
		AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid due_date"))
		return
	}

	resp, err := s.billingSvc.Create(c.Request.Context(), billingdomain.CreateBillingRequest{
		ClientID:      strings.TrimSpace(req.ClientID),
		InvoiceNumber: strings.TrimSpace(req.InvoiceNumber),
		Amount:        req.Amount,
		Currency:      strings.TrimSpace(req.Currency),
		Services:      req.Services,
		PaymentStatus: billingdomain.PaymentStatus(strings.TrimSpace(req.PaymentStatus)),
		BillDate:      billDate,
		DueDate:       dueDate,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		TransactionID: strings.TrimSpace(req.TransactionID),
		Notes:         req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListBills(c *gin.Context) {
	var query struct {
		pagination.Pagination
		ClientID string `form:"client_id"`
		Status   string `form:"status"`
		Currency string `form:"currency"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.List(c.Request.Context(), billingdomain.ListBillingRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		ClientID:  strings.TrimSpace(query.ClientID),
		Status:    billingdomain.PaymentStatus(strings.TrimSpace(query.Status)),
		Currency:  strings.TrimSpace(query.Currency),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetBillByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.billingSvc.GetByID(c.Request.Context(), billingdomain.GetBillingRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateBillRequest struct {
	Amount        *float64                     `json:"amount"`
	Currency      *string                      `json:"currency"`
	Services      *[]billingdomain.ServiceLine `json:"services_billed"`
	PaymentStatus *string                      `json:"payment_status"`
	BillDate      *string                      `json:"bill_date"`
	DueDate       *string                      `json:"due_date"`
	PaymentMethod *string                      `json:"payment_method"`
	TransactionID *string                      `json:"transaction_id"`
	Notes         *string                      `json:"notes"`
}

func (s *Server) UpdateBill(c *gin.Context) {
	var req updateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := billingdomain.UpdateBillingRequest{
		ID:            strings.TrimSpace(c.Param("id")),
		Amount:        req.Amount,
		Currency:      req.Currency,
		Services:      req.Services,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	}
	if req.PaymentStatus != nil {
		status := billingdomain.PaymentStatus(strings.TrimSpace(*req.PaymentStatus))
		update.PaymentStatus = &status
	}
	if req.BillDate != nil {
		billDate, err := parseOptionalTime(*req.BillDate)
		if err != nil {
			AbortWithError(c, newValidationError("bill_date", "invalid_bill_date", "invalid bill_date"))
			return
		}
		update.BillDate = billDate
	}
	if req.DueDate != nil {
		dueDate, err := parseOptionalTime(*req.DueDate)
		if err != nil {
			AbortWithError(c, newValidationError("due_date", "invalid_due_date", "invalid due_date"))
			return
		}
		update.DueDate = dueDate
	}

	resp, err := s.billingSvc.Update(c.Request.Context(), update)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteBill(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.billingSvc.Delete(c.Request.Context(), billingdomain.DeleteBillingRequest{ID: id}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) GetBillPDF(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	record, err := s.billingSvc.GetByID(c.Request.Context(), billingdomain.GetBillingRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.billingSvc.GetPDF(c.Request.Context(), billingdomain.GetBillingRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+record.InvoiceNumber+`.pdf"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}

func (s *Server) SendBillReminder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	outcome, err := s.reminderSvc.SendReminder(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": outcome})
}

type bulkReminderRequest struct {
	InvoiceIDs []string `json:"invoice_ids"`
}

func (s *Server) SendBulkBillReminders(c *gin.Context) {
	var req bulkReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if len(req.InvoiceIDs) == 0 {
		AbortWithError(c, newValidationError("invoice_ids", "invalid_invoice_ids", "invoice_ids must not be empty"))
		return
	}

	result, err := s.reminderSvc.SendBulkReminders(c.Request.Context(), req.InvoiceIDs)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
