package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/datatypes"

	"github.com/unclebandit/storefront-backend/internal/auth"
	"github.com/unclebandit/storefront-backend/internal/controller"
	appErrors "github.com/unclebandit/storefront-backend/internal/errors"
	"github.com/unclebandit/storefront-backend/internal/model"
	"github.com/unclebandit/storefront-backend/internal/service"
)

const secret = "controller-test-secret"

// --- Mock Repository ---

type MockCustomerRepo struct {
	mu        sync.Mutex
	customers map[int]*model.Customer
	calls     int
	err       error
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *MockCustomerRepo) Update(ctx context.Context, id int, upd model.CustomerUpdate) (*model.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	c, ok := m.customers[id]
	if !ok {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	if upd.Email != nil {
		for otherID, other := range m.customers {
			if otherID != id && other.Email == *upd.Email {
				return nil, appErrors.ErrEmailExists
			}
		}
	}
	next := *c
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Email != nil {
		next.Email = *upd.Email
	}
	if upd.ClearPhone {
		next.Phone = nil
	} else if upd.Phone != nil {
		p := *upd.Phone
		next.Phone = &p
	}
	if upd.Address != nil {
		next.Address = datatypes.JSONMap(upd.Address)
	}
	m.customers[id] = &next
	cp := next
	return &cp, nil
}

func (m *MockCustomerRepo) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if _, ok := m.customers[id]; !ok {
		return appErrors.NewCustomerNotFound(id)
	}
	delete(m.customers, id)
	return nil
}

// --- Helpers ---

func strPtr(s string) *string { return &s }

func newFixture() (*MockCustomerRepo, http.Handler) {
	created := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	repo := &MockCustomerRepo{customers: map[int]*model.Customer{
		7: {ID: 7, Name: "Ada Lovelace", Email: "ada@example.com", Phone: strPtr("555-0100"), Address: datatypes.JSONMap{"city": "London"}, CreatedAt: created, UpdatedAt: created},
		8: {ID: 8, Name: "Grace Hopper", Email: "grace@example.com", CreatedAt: created, UpdatedAt: created},
	}}

	svc := &service.CustomerService{CustomerRepo: repo}
	ctrl := controller.NewCustomerController(svc, auth.NewVerifier(secret), nil)

	r := chi.NewRouter()
	r.HandleFunc("/customers", ctrl.ServeHTTP)
	r.HandleFunc("/customers/{id}", ctrl.ServeHTTP)
	return repo, r
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := auth.NewIssuer(secret, time.Hour).Issue("tester", role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func do(h http.Handler, method, path, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

// --- Tests ---

func TestNonAdminIsForbidden(t *testing.T) {
	repo, h := newFixture()
	customerToken := token(t, "customer")

	bearers := map[string]string{
		"no token":       "",
		"customer role":  customerToken,
		"garbage token":  "abc.def.ghi",
		"foreign secret": func() string { tok, _ := auth.NewIssuer("other", time.Hour).Issue("x", auth.RoleAdmin); return tok }(),
	}

	for name, bearer := range bearers {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			for _, path := range []string{"/customers/7", "/customers/abc", "/customers"} {
				w := do(h, method, path, bearer, `{"name":"x"}`)
				if w.Code != http.StatusForbidden {
					t.Errorf("%s %s %s: expected 403, got %d", name, method, path, w.Code)
				}
			}
		}
	}

	if repo.calls != 0 {
		t.Errorf("expected no storage access, got %d calls", repo.calls)
	}
}

func TestInvalidIDIsBadRequest(t *testing.T) {
	repo, h := newFixture()
	admin := token(t, auth.RoleAdmin)

	for _, path := range []string{"/customers/abc", "/customers/1.5", "/customers/7x", "/customers"} {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			w := do(h, method, path, admin, `{}`)
			if w.Code != http.StatusBadRequest {
				t.Errorf("%s %s: expected 400, got %d", method, path, w.Code)
				continue
			}
			if got := decode(t, w)["error"]; got != "Missing or invalid customer ID" {
				t.Errorf("%s %s: unexpected error %v", method, path, got)
			}
		}
	}

	if repo.calls != 0 {
		t.Errorf("expected no storage access, got %d calls", repo.calls)
	}
}

func TestUnsupportedMethod(t *testing.T) {
	_, h := newFixture()

	for _, method := range []string{http.MethodPost, http.MethodPatch} {
		w := do(h, method, "/customers/7", token(t, auth.RoleAdmin), `{}`)
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", method, w.Code)
		}
		if w.Header().Get("Allow") == "" {
			t.Errorf("%s: expected Allow header", method)
		}
	}
}

func TestGetCustomer(t *testing.T) {
	_, h := newFixture()
	admin := token(t, auth.RoleAdmin)

	w := do(h, http.MethodGet, "/customers/404", admin, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Customer not found" {
		t.Errorf("unexpected error %v", got)
	}

	w = do(h, http.MethodGet, "/customers/8", admin, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}

	res := decode(t, w)
	want := []string{"id", "name", "email", "phone", "address", "createdAt", "updatedAt"}
	if len(res) != len(want) {
		t.Errorf("expected exactly %v, got %v", want, res)
	}
	for _, key := range want {
		if _, ok := res[key]; !ok {
			t.Errorf("missing field %s", key)
		}
	}
	if res["phone"] != "" {
		t.Errorf("expected phone to default to empty string, got %v", res["phone"])
	}
	if addr, ok := res["address"].(map[string]any); !ok || len(addr) != 0 {
		t.Errorf("expected address to default to {}, got %v", res["address"])
	}
	if res["id"] != float64(8) {
		t.Errorf("unexpected id %v", res["id"])
	}
}

func TestPutNullPhoneClearsIt(t *testing.T) {
	repo, h := newFixture()

	w := do(h, http.MethodPut, "/customers/7", token(t, auth.RoleAdmin), `{"phone":null}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["phone"]; got != "" {
		t.Errorf("expected empty phone in response, got %v", got)
	}
	if repo.customers[7].Phone != nil {
		t.Errorf("expected stored phone to be NULL")
	}
}

func TestPutAbsentPhoneKeepsIt(t *testing.T) {
	repo, h := newFixture()

	w := do(h, http.MethodPut, "/customers/7", token(t, auth.RoleAdmin), `{"name":"Ada King","address":{"city":"Paris"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	res := decode(t, w)
	if res["phone"] != "555-0100" || *repo.customers[7].Phone != "555-0100" {
		t.Errorf("expected phone to be unchanged, got %v", res["phone"])
	}
	if res["name"] != "Ada King" {
		t.Errorf("expected name to change, got %v", res["name"])
	}
	if addr, _ := res["address"].(map[string]any); addr["city"] != "Paris" {
		t.Errorf("expected address to change, got %v", res["address"])
	}
}

func TestPutNormalizesEmail(t *testing.T) {
	repo, h := newFixture()

	w := do(h, http.MethodPut, "/customers/7", token(t, auth.RoleAdmin), `{"email":" USER@Example.com "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["email"]; got != "user@example.com" {
		t.Errorf("expected normalized email in response, got %v", got)
	}
	if repo.customers[7].Email != "user@example.com" {
		t.Errorf("expected normalized email in storage, got %q", repo.customers[7].Email)
	}
}

func TestPutDuplicateEmail(t *testing.T) {
	repo, h := newFixture()

	w := do(h, http.MethodPut, "/customers/7", token(t, auth.RoleAdmin), `{"email":"GRACE@example.com","name":"Changed"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Email already exists" {
		t.Errorf("unexpected error %v", got)
	}
	if repo.customers[7].Email != "ada@example.com" || repo.customers[7].Name != "Ada Lovelace" {
		t.Errorf("expected customer 7 to be unmodified, got %+v", repo.customers[7])
	}
}

func TestPutNotFound(t *testing.T) {
	_, h := newFixture()

	w := do(h, http.MethodPut, "/customers/99", token(t, auth.RoleAdmin), `{"name":"Nobody"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestPutInvalidBody(t *testing.T) {
	repo, h := newFixture()
	admin := token(t, auth.RoleAdmin)

	w := do(h, http.MethodPut, "/customers/7", admin, `{"name":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Invalid request body" {
		t.Errorf("unexpected error %v", got)
	}

	w = do(h, http.MethodPut, "/customers/7", admin, `{"phone":"`+strings.Repeat("5", 51)+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	res := decode(t, w)
	if res["error"] != "validation_failed" {
		t.Errorf("unexpected error %v", res["error"])
	}
	if fields, _ := res["fields"].(map[string]any); fields["phone"] != "max" {
		t.Errorf("expected phone to fail the length rule, got %v", res["fields"])
	}

	w = do(h, http.MethodPut, "/customers/7", admin, strings.Repeat(" ", 1<<20+1))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an oversized body, got %d", w.Code)
	}

	if repo.calls != 0 {
		t.Errorf("expected no storage access for rejected bodies, got %d", repo.calls)
	}
}

func TestPutAcceptsAnyNonEmptyEmail(t *testing.T) {
	repo, h := newFixture()

	w := do(h, http.MethodPut, "/customers/7", token(t, auth.RoleAdmin), `{"email":" FOO "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["email"]; got != "foo" {
		t.Errorf("expected normalized email in response, got %v", got)
	}
	if repo.customers[7].Email != "foo" {
		t.Errorf("expected email to be stored, got %q", repo.customers[7].Email)
	}
}

func TestOversizedBodyDoesNotMaskEarlierChecks(t *testing.T) {
	repo, h := newFixture()
	big := `{"name":"` + strings.Repeat("x", 2<<20) + `"}`

	tests := []struct {
		method string
		path   string
		bearer string
		want   int
	}{
		{http.MethodGet, "/customers/7", "", http.StatusForbidden},
		{http.MethodPut, "/customers/7", "", http.StatusForbidden},
		{http.MethodDelete, "/customers/7", token(t, "customer"), http.StatusForbidden},
		{http.MethodPost, "/customers/7", "", http.StatusMethodNotAllowed},
		{http.MethodPut, "/customers/abc", token(t, auth.RoleAdmin), http.StatusBadRequest},
	}

	for _, tt := range tests {
		w := do(h, tt.method, tt.path, tt.bearer, big)
		if w.Code != tt.want {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.want, w.Code)
		}
	}

	w := do(h, http.MethodPut, "/customers/abc", token(t, auth.RoleAdmin), big)
	if got := decode(t, w)["error"]; got != "Missing or invalid customer ID" {
		t.Errorf("expected the id error, got %v", got)
	}

	if repo.calls != 0 {
		t.Errorf("expected no storage access, got %d calls", repo.calls)
	}
}

func TestDeleteThenGet(t *testing.T) {
	_, h := newFixture()
	admin := token(t, auth.RoleAdmin)

	w := do(h, http.MethodDelete, "/customers/8", admin, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	res := decode(t, w)
	if res["message"] != "Customer deleted successfully" || len(res) != 1 {
		t.Errorf("unexpected delete response %v", res)
	}

	if w := do(h, http.MethodGet, "/customers/8", admin, ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
	if w := do(h, http.MethodDelete, "/customers/8", admin, ""); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for second delete, got %d", w.Code)
	}
}

func TestStorageFailureIsInternalError(t *testing.T) {
	repo, h := newFixture()
	repo.err = errors.New("connection refused")

	w := do(h, http.MethodGet, "/customers/7", token(t, auth.RoleAdmin), "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	res := decode(t, w)
	if res["error"] != "Internal server error" || res["message"] != "connection refused" {
		t.Errorf("unexpected body %v", res)
	}
}

func TestHandleWithoutHTTP(t *testing.T) {
	repo, _ := newFixture()
	ctrl := controller.NewCustomerController(&service.CustomerService{CustomerRepo: repo}, auth.NewVerifier(secret), nil)

	h := http.Header{}
	h.Set("Authorization", "Bearer "+token(t, auth.RoleAdmin))

	resp := ctrl.Handle(context.Background(), controller.CustomerRequest{Method: http.MethodGet, ID: "7", Header: h})
	if resp.Status != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Status)
	}
	view, ok := resp.Body.(*model.CustomerView)
	if !ok {
		t.Fatalf("expected *model.CustomerView, got %T", resp.Body)
	}
	if view.Address["city"] != "London" {
		t.Errorf("unexpected view %+v", view)
	}
}

type failingWriter struct {
	*httptest.ResponseRecorder
}

func (f *failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestResponseWriteFailureIsLogged(t *testing.T) {
	repo, _ := newFixture()
	core, logs := observer.New(zap.WarnLevel)
	ctrl := controller.NewCustomerController(&service.CustomerService{CustomerRepo: repo}, auth.NewVerifier(secret), zap.New(core))

	w := &failingWriter{ResponseRecorder: httptest.NewRecorder()}
	ctrl.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/customers/7", nil))

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	if n := logs.FilterMessage("failed to write response").Len(); n != 1 {
		t.Errorf("expected the write failure to be logged, got %d entries", n)
	}
}
