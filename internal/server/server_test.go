package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/export"
)

type fakeClientService struct {
	created  *clientdomain.CreateClientRequest
	getErr   error
	lastID   string
	deleted  bool
	updated  bool
	response clientdomain.Client
}

func (f *fakeClientService) Create(ctx context.Context, req clientdomain.CreateClientRequest) (clientdomain.Client, error) {
	f.created = &req
	_ = ctx
	return f.response, nil
}

func (f *fakeClientService) List(ctx context.Context, req clientdomain.ListClientRequest) (clientdomain.ListClientResponse, error) {
	_ = ctx
	_ = req
	return clientdomain.ListClientResponse{Clients: []clientdomain.Client{f.response}}, nil
}

func (f *fakeClientService) GetByID(ctx context.Context, req clientdomain.GetClientRequest) (clientdomain.Client, error) {
	f.lastID = req.ID
	_ = ctx
	if f.getErr != nil {
		return clientdomain.Client{}, f.getErr
	}
	return f.response, nil
}

func (f *fakeClientService) Update(ctx context.Context, req clientdomain.UpdateClientRequest) (clientdomain.Client, error) {
	f.updated = true
	_ = ctx
	_ = req
	return f.response, nil
}

func (f *fakeClientService) Delete(ctx context.Context, req clientdomain.DeleteClientRequest) error {
	f.deleted = true
	_ = ctx
	_ = req
	return nil
}

type fakeExportService struct {
	result export.Result
	err    error
}

func (f *fakeExportService) Export(ctx context.Context, req export.Request) (export.Result, error) {
	_ = ctx
	_ = req
	if f.err != nil {
		return export.Result{}, f.err
	}
	return f.result, nil
}

func newTestRouter(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	srv.engine = router
	srv.registerAPIRoutes()
	return router
}

func TestCreateClientHandler(t *testing.T) {
	clientSvc := &fakeClientService{
		response: clientdomain.Client{ID: snowflake.ID(42), Name: "Asha Rao"},
	}
	router := newTestRouter(&Server{clientSvc: clientSvc})

	body := bytes.NewBufferString(`{"name":" Asha Rao ","email":"asha@example.com","status":"active"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/clients", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if clientSvc.created == nil {
		t.Fatal("expected client service to be called")
	}
	if clientSvc.created.Name != "Asha Rao" {
		t.Fatalf("expected trimmed name, got %q", clientSvc.created.Name)
	}

	var payload struct {
		Data clientdomain.Client `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Data.Name != "Asha Rao" {
		t.Fatalf("unexpected envelope %s", resp.Body.String())
	}
}

func TestCreateClientHandlerRejectsMalformedJSON(t *testing.T) {
	router := newTestRouter(&Server{clientSvc: &fakeClientService{}})

	req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewBufferString(`{"name":`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "validation_error") {
		t.Fatalf("expected validation payload, got %s", resp.Body.String())
	}
}

func TestGetClientHandlerMapsNotFound(t *testing.T) {
	clientSvc := &fakeClientService{getErr: clientdomain.ErrNotFound}
	router := newTestRouter(&Server{clientSvc: clientSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/clients/42", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "not_found") {
		t.Fatalf("expected not_found payload, got %s", resp.Body.String())
	}
	if clientSvc.lastID != "42" {
		t.Fatalf("expected id to be forwarded, got %q", clientSvc.lastID)
	}
}

func TestGetClientHandlerMapsValidation(t *testing.T) {
	clientSvc := &fakeClientService{getErr: clientdomain.ErrInvalidID}
	router := newTestRouter(&Server{clientSvc: clientSvc})

	req := httptest.NewRequest(http.MethodGet, "/api/clients/not-a-number", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "invalid_id") {
		t.Fatalf("expected invalid_id code, got %s", resp.Body.String())
	}
}

func TestExportHandlerSetsAttachmentHeaders(t *testing.T) {
	exportSvc := &fakeExportService{
		result: export.Result{
			Filename: "clients-export-2024-06-01.csv",
			Content:  []byte("name,email\nAsha,asha@example.com\n"),
		},
	}
	router := newTestRouter(&Server{exportSvc: exportSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/export", bytes.NewBufferString(`{"type":"clients"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, "clients-export-2024-06-01.csv") {
		t.Fatalf("unexpected disposition %q", got)
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("unexpected content type %q", resp.Header().Get("Content-Type"))
	}
}

func TestExportHandlerMapsInvalidType(t *testing.T) {
	exportSvc := &fakeExportService{err: export.ErrInvalidType}
	router := newTestRouter(&Server{exportSvc: exportSvc})

	req := httptest.NewRequest(http.MethodPost, "/api/export", bytes.NewBufferString(`{"type":"payments"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "invalid_export_type") {
		t.Fatalf("expected invalid_export_type code, got %s", resp.Body.String())
	}
}
