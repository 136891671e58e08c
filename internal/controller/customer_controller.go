// internal/controller/customer_controller.go
package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validatorv10 "github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unclebandit/storefront-backend/internal/auth"
	appErrors "github.com/unclebandit/storefront-backend/internal/errors"
	"github.com/unclebandit/storefront-backend/internal/service"
	"github.com/unclebandit/storefront-backend/internal/validation"
)

const maxBodyBytes = 1 << 20

// CustomerRequest is everything the customer resource needs from one HTTP request.
// Body is only read for PUT, after the method, token and id checks pass.
type CustomerRequest struct {
	Method string
	ID     string
	Header http.Header
	Body   io.Reader
}

// Response is a status code plus a JSON-encodable payload.
type Response struct {
	Status int
	Body   any
}

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type MessageBody struct {
	Message string `json:"message"`
}

type CustomerController struct {
	CustomerService *service.CustomerService
	Verifier        *auth.Verifier
	Validate        *validatorv10.Validate
	Log             *zap.Logger
}

func NewCustomerController(svc *service.CustomerService, verifier *auth.Verifier, log *zap.Logger) *CustomerController {
	return &CustomerController{
		CustomerService: svc,
		Verifier:        verifier,
		Validate:        validation.New(),
		Log:             log,
	}
}

// Handle runs one request against the customer resource. Checks run in order:
// supported method, admin claims, numeric id. Storage is only touched after all pass.
func (c *CustomerController) Handle(ctx context.Context, req CustomerRequest) Response {
	switch req.Method {
	case http.MethodGet, http.MethodPut, http.MethodDelete:
	default:
		return c.errorResponse(appErrors.ErrMethodNotAllowed)
	}

	claims, ok := c.Verifier.ClaimsFromHeader(req.Header)
	if !ok || !claims.IsAdmin() {
		return c.errorResponse(appErrors.ErrForbidden)
	}

	id, err := strconv.Atoi(req.ID)
	if err != nil {
		return c.errorResponse(appErrors.ErrInvalidID)
	}

	switch req.Method {
	case http.MethodGet:
		view, err := c.CustomerService.GetCustomer(ctx, id)
		if err != nil {
			return c.errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: view}

	case http.MethodPut:
		body, err := readBody(req.Body)
		if err != nil {
			return c.errorResponse(err)
		}
		upd, err := validation.ParseCustomerUpdate(body, c.Validate)
		if err != nil {
			return c.errorResponse(err)
		}
		view, err := c.CustomerService.UpdateCustomer(ctx, id, upd)
		if err != nil {
			return c.errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: view}

	default:
		if err := c.CustomerService.DeleteCustomer(ctx, id); err != nil {
			return c.errorResponse(err)
		}
		return Response{Status: http.StatusOK, Body: MessageBody{Message: "Customer deleted successfully"}}
	}
}

// ServeHTTP adapts Handle to chi; the id comes from the {id} route parameter.
func (c *CustomerController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := c.Handle(r.Context(), CustomerRequest{
		Method: r.Method,
		ID:     chi.URLParam(r, "id"),
		Header: r.Header,
		Body:   r.Body,
	})

	if resp.Status == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", "GET, PUT, DELETE")
	}
	c.writeJSON(w, resp.Status, resp.Body)
}

// readBody reads at most maxBodyBytes. A nil reader is an empty body.
func readBody(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrInvalidBody, err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", appErrors.ErrInvalidBody, maxBodyBytes)
	}
	return body, nil
}

func (c *CustomerController) errorResponse(err error) Response {
	status := appErrors.StatusCode(err)

	var ve *appErrors.ValidationError
	switch {
	case errors.As(err, &ve):
		return Response{Status: status, Body: ErrorBody{Error: "validation_failed", Fields: ve.Fields}}
	case errors.Is(err, appErrors.ErrInvalidBody):
		return Response{Status: status, Body: ErrorBody{Error: appErrors.ErrInvalidBody.Error(), Message: err.Error()}}
	case status == http.StatusNotFound:
		return Response{Status: status, Body: ErrorBody{Error: "Customer not found"}}
	case status == http.StatusInternalServerError:
		c.logger().Error("customer request failed", zap.Error(err))
		return Response{Status: status, Body: ErrorBody{Error: "Internal server error", Message: err.Error()}}
	default:
		return Response{Status: status, Body: ErrorBody{Error: err.Error()}}
	}
}

func (c *CustomerController) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		c.logger().Warn("failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

func (c *CustomerController) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
