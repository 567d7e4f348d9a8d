package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/orderdesk/orderdesk/internal/domain/errors"
	"github.com/orderdesk/orderdesk/internal/domain/model"
	"github.com/orderdesk/orderdesk/internal/server/http/dto"
	"github.com/orderdesk/orderdesk/internal/server/http/middleware"
	testhelpers "github.com/orderdesk/orderdesk/internal/test"
	"github.com/orderdesk/orderdesk/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// performRequest mounts the handler at route and issues a request to url so
// path parameters resolve the way they do in the real router.
func performRequest(t *testing.T, method, route, url string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asSession(session model.Session) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.SessionContextKey, session)
	}
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func TestCurrentSession(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentSession(c); got.UserID != 0 {
		t.Fatalf("expected zero session when not set, got %+v", got)
	}

	c.Set(middleware.SessionContextKey, model.Session{UserID: 42, Role: model.RoleAdmin})
	if got := CurrentSession(c); got.UserID != 42 || got.Role != model.RoleAdmin {
		t.Fatalf("unexpected session %+v", got)
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	login := testhelpers.RandomASCIIString(6, 12)
	body, _ := json.Marshal(dto.AuthRequest{Login: login, Password: "pass", Role: "manufacturer"})
	resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(testhelpers.AuthFacadeStub{}).Register, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") == "" {
		t.Fatalf("expected auth header to be set")
	}
	var decoded dto.SessionResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.Role != "manufacturer" {
		t.Fatalf("expected role echoed back, got %q", decoded.Role)
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "unknown role", body: []byte(`{"login":"a","password":"b","role":"overlord"}`), status: http.StatusBadRequest},
		{name: "invalid credentials", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, model.Role, *int64) (*model.User, string, error) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}}, status: http.StatusBadRequest},
		{name: "already exists", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, model.Role, *int64) (*model.User, string, error) {
			return nil, "", domainErrors.ErrAlreadyExists
		}}, status: http.StatusConflict},
		{name: "internal", body: []byte(`{"login":"a","password":"b"}`), facade: testhelpers.AuthFacadeStub{RegisterFn: func(context.Context, string, string, model.Role, *int64) (*model.User, string, error) {
			return nil, "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", "/register", NewAuthHandler(tt.facade).Register, nil, tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.AuthRequest{Login: "user", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(testhelpers.AuthFacadeStub{}).Login, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer token" {
		t.Fatalf("unexpected authorization header %q", resp.Header().Get("Authorization"))
	}
}

func TestAuthHandlerLoginFailures(t *testing.T) {
	invalid := testhelpers.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (*model.User, string, error) {
		return nil, "", domainErrors.ErrInvalidCredentials
	}}
	resp := performRequest(t, http.MethodPost, "/login", "/login", NewAuthHandler(invalid).Login, nil, []byte(`{"login":"a","password":"b"}`), jsonHeaders)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	body, _ := json.Marshal(dto.CreateOrderRequest{
		ClientID: 5,
		Products: []dto.CreateProductRequest{{Name: "chair", Items: []dto.ItemRequest{{Quantity: 3}}}},
	})
	var gotCmd usecase.CreateOrderCommand
	facade := testhelpers.OrderFacadeStub{CreateOrderFn: func(ctx context.Context, session model.Session, cmd usecase.CreateOrderCommand) (*model.Order, error) {
		gotCmd = cmd
		return &model.Order{ID: 1, Number: "ORD-000001", ClientID: cmd.ClientID}, nil
	}}
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(facade).Create, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if len(gotCmd.Products) != 1 || gotCmd.Products[0].Name != "chair" || len(gotCmd.Products[0].Items) != 1 {
		t.Fatalf("unexpected command %+v", gotCmd)
	}
}

func TestOrderHandlerListEmpty(t *testing.T) {
	facade := testhelpers.OrderFacadeStub{OrdersFn: func(context.Context, model.Session) ([]model.Order, error) {
		return nil, nil
	}}
	resp := performRequest(t, http.MethodGet, "/orders", "/orders", NewOrderHandler(facade).List, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestOrderHandlerProductsShapesPrices(t *testing.T) {
	manufacturerPrice := 60.0
	clientPrice := 120.0
	facade := testhelpers.OrderFacadeStub{OrderProductsFn: func(context.Context, model.Session, int64) ([]model.OrderProduct, error) {
		return []model.OrderProduct{{
			ID: 10, OrderID: 1, Name: "chair",
			ManufacturerPrice: &manufacturerPrice,
			ClientPrice:       &clientPrice,
		}}, nil
	}}
	handler := NewOrderHandler(facade)

	tests := []struct {
		role             model.Role
		wantManufacturer bool
		wantClient       bool
	}{
		{model.RoleAdmin, true, true},
		{model.RoleSuperAdmin, true, true},
		{model.RoleManufacturer, true, false},
		{model.RoleClient, false, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/orders/:id/products", "/orders/1/products", handler.Products, asSession(model.Session{UserID: 1, Role: tt.role}), nil, nil)
			if resp.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d", resp.Code)
			}
			var decoded []dto.ProductResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if (decoded[0].ManufacturerPrice != nil) != tt.wantManufacturer {
				t.Fatalf("role %s: manufacturer price visibility wrong: %+v", tt.role, decoded[0])
			}
			if (decoded[0].ClientPrice != nil) != tt.wantClient {
				t.Fatalf("role %s: client price visibility wrong: %+v", tt.role, decoded[0])
			}
		})
	}
}

func TestOrderHandlerGetErrors(t *testing.T) {
	notFound := testhelpers.OrderFacadeStub{OrderFn: func(context.Context, model.Session, int64) (*model.Order, error) {
		return nil, domainErrors.ErrNotFound
	}}
	resp := performRequest(t, http.MethodGet, "/orders/:id", "/orders/7", NewOrderHandler(notFound).Get, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/orders/:id", "/orders/abc", NewOrderHandler(testhelpers.OrderFacadeStub{}).Get, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for bad id, got %d", resp.Code)
	}
}

func TestOrderHandlerEmail(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/orders/:id/email", "/orders/1/email", NewOrderHandler(testhelpers.OrderFacadeStub{}).Email, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), []byte(`{"show_pricing":true}`), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.EmailResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if decoded.MessageID == "" || decoded.Recipient == "" {
		t.Fatalf("unexpected response %+v", decoded)
	}

	disabled := testhelpers.OrderFacadeStub{SendEmailFn: func(context.Context, model.Session, int64, usecase.OrderEmailOptions) (string, string, error) {
		return "", "", domainErrors.ErrMailerNotConfigured
	}}
	resp = performRequest(t, http.MethodPost, "/orders/:id/email", "/orders/1/email", NewOrderHandler(disabled).Email, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), []byte(`{}`), jsonHeaders)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "MAILER_ADDRESS") {
		t.Fatalf("expected instructive error body, got %q", resp.Body.String())
	}
}

func TestRoutingHandlerBulkRoute(t *testing.T) {
	var gotCmd usecase.BulkRouteCommand
	facade := testhelpers.RoutingFacadeStub{BulkRouteFn: func(ctx context.Context, session model.Session, cmd usecase.BulkRouteCommand) (*usecase.BulkRouteResult, error) {
		gotCmd = cmd
		return &usecase.BulkRouteResult{Routed: []int64{10}, Skipped: []usecase.ProductError{{ProductID: 11, Err: domainErrors.ErrProductLocked}}}, nil
	}}
	body := []byte(`{"product_ids":[10,11],"action":"send_to_manufacturer","notes":"go"}`)
	resp := performRequest(t, http.MethodPost, "/orders/:id/route", "/orders/1/route", NewRoutingHandler(facade).BulkRoute, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotCmd.OrderID != 1 || gotCmd.Action != model.RouteActionSendToManufacturer {
		t.Fatalf("unexpected command %+v", gotCmd)
	}
	var decoded dto.BulkRouteResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded.Routed) != 1 || len(decoded.Skipped) != 1 {
		t.Fatalf("unexpected response %+v", decoded)
	}
}

func TestRoutingHandlerBulkRouteFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.RoutingFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("oops"), status: http.StatusBadRequest},
		{name: "unknown action", body: []byte(`{"product_ids":[1],"action":"transmogrify"}`), status: http.StatusUnprocessableEntity},
		{name: "undefined pair", body: []byte(`{"product_ids":[1],"action":"approve"}`), facade: testhelpers.RoutingFacadeStub{BulkRouteFn: func(context.Context, model.Session, usecase.BulkRouteCommand) (*usecase.BulkRouteResult, error) {
			return nil, domainErrors.ErrUnknownRouteAction
		}}, status: http.StatusUnprocessableEntity},
		{name: "forbidden", body: []byte(`{"product_ids":[1],"action":"approve"}`), facade: testhelpers.RoutingFacadeStub{BulkRouteFn: func(context.Context, model.Session, usecase.BulkRouteCommand) (*usecase.BulkRouteResult, error) {
			return nil, domainErrors.ErrForbidden
		}}, status: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/orders/:id/route", "/orders/1/route", NewRoutingHandler(tt.facade).BulkRoute, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestRoutingHandlerBulkRouteEmptySelectionCarriesReasons(t *testing.T) {
	facade := testhelpers.RoutingFacadeStub{BulkRouteFn: func(context.Context, model.Session, usecase.BulkRouteCommand) (*usecase.BulkRouteResult, error) {
		return &usecase.BulkRouteResult{Skipped: []usecase.ProductError{{ProductID: 10, Err: domainErrors.ErrProductLocked}}}, domainErrors.ErrEmptySelection
	}}
	body := []byte(`{"product_ids":[10],"action":"send_to_client"}`)
	resp := performRequest(t, http.MethodPost, "/orders/:id/route", "/orders/1/route", NewRoutingHandler(facade).BulkRoute, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), body, jsonHeaders)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
	var decoded dto.BulkRouteResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded.Skipped) != 1 || decoded.Skipped[0].ProductID != 10 {
		t.Fatalf("expected skip reasons in body, got %+v", decoded)
	}
}

func TestRoutingHandlerRouteSample(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/orders/:id/sample/route", "/orders/1/sample/route", NewRoutingHandler(testhelpers.RoutingFacadeStub{}).RouteSample, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), []byte(`{"target":"manufacturer"}`), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	blocked := testhelpers.RoutingFacadeStub{RouteSampleFn: func(context.Context, model.Session, int64, model.Custodian, string) error {
		return domainErrors.ErrForbiddenTransition
	}}
	resp = performRequest(t, http.MethodPost, "/orders/:id/sample/route", "/orders/1/sample/route", NewRoutingHandler(blocked).RouteSample, asSession(model.Session{UserID: 1, Role: model.RoleClient}), []byte(`{"target":"manufacturer"}`), jsonHeaders)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:id/sample/route", "/orders/1/sample/route", NewRoutingHandler(testhelpers.RoutingFacadeStub{}).RouteSample, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), []byte(`{"target":"warehouse"}`), jsonHeaders)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422 for unknown custodian, got %d", resp.Code)
	}
}

func TestInvoiceHandlerCreate(t *testing.T) {
	body := []byte(`{"order_id":1,"product_ids":[10],"custom_lines":[{"description":"rush","quantity":1,"unit_price":50}]}`)
	resp := performRequest(t, http.MethodPost, "/invoices", "/invoices", NewInvoiceHandler(testhelpers.InvoiceFacadeStub{}).Create, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}

	conflict := testhelpers.InvoiceFacadeStub{CreateFn: func(context.Context, model.Session, usecase.CreateInvoiceCommand) (*model.Invoice, error) {
		return nil, domainErrors.ErrAlreadyInvoiced
	}}
	resp = performRequest(t, http.MethodPost, "/invoices", "/invoices", NewInvoiceHandler(conflict).Create, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), body, jsonHeaders)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestInvoiceHandlerGet(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/invoices/:id", "/invoices/1", NewInvoiceHandler(testhelpers.InvoiceFacadeStub{}).Get, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	var decoded dto.InvoiceDetailResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded.Items) != 1 || decoded.Items[0].Amount != 100 {
		t.Fatalf("unexpected detail %+v", decoded)
	}
}

func TestInvoiceHandlerSend(t *testing.T) {
	resp := performRequest(t, http.MethodPost, "/invoices/:id/send", "/invoices/1/send", NewInvoiceHandler(testhelpers.InvoiceFacadeStub{}).Send, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	disabled := testhelpers.InvoiceFacadeStub{SendFn: func(context.Context, model.Session, int64) (string, string, error) {
		return "", "", domainErrors.ErrMailerNotConfigured
	}}
	resp = performRequest(t, http.MethodPost, "/invoices/:id/send", "/invoices/1/send", NewInvoiceHandler(disabled).Send, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), nil, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "MAILER_ADDRESS") {
		t.Fatalf("expected instructive error body, got %q", resp.Body.String())
	}
}

func TestInvoiceHandlerExport(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/invoices/:id/export", "/invoices/1/export", NewInvoiceHandler(testhelpers.InvoiceFacadeStub{}).Export, asSession(model.Session{UserID: 1, Role: model.RoleAdmin}), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if resp.Body.Len() == 0 {
		t.Fatal("expected workbook bytes")
	}
}

func TestNotificationHandlerList(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/notifications", "/notifications", NewNotificationHandler(testhelpers.NotificationFacadeStub{}).List, asSession(model.Session{UserID: 7, Role: model.RoleClient}), nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	empty := testhelpers.NotificationFacadeStub{NotificationsFn: func(context.Context, int64) ([]model.Notification, error) {
		return nil, nil
	}}
	resp = performRequest(t, http.MethodGet, "/notifications", "/notifications", NewNotificationHandler(empty).List, asSession(model.Session{UserID: 7, Role: model.RoleClient}), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}
