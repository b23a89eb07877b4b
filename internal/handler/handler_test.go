package handler

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/xenking/stockroom/internal/domain/auth"
	"github.com/xenking/stockroom/internal/domain/order"
	"github.com/xenking/stockroom/internal/domain/product"
	"github.com/xenking/stockroom/internal/domain/report"
	"github.com/xenking/stockroom/internal/domain/user"
)

// --- In-memory repositories ---

type memUsers struct {
	byID map[string]*user.User
}

func (m *memUsers) Create(_ context.Context, u *user.User) error {
	for _, existing := range m.byID {
		if existing.Username == u.Username {
			return user.ErrUsernameTaken
		}
	}
	m.byID[u.ID] = u
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, user.ErrNotFound
}

func (m *memUsers) ListUsernames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(m.byID))
	for _, u := range m.byID {
		names = append(names, u.Username)
	}
	return names, nil
}

type memSessions struct {
	byHash map[string]*auth.Session
}

func (m *memSessions) Create(_ context.Context, s *auth.Session) error {
	m.byHash[s.TokenHash] = s
	return nil
}

func (m *memSessions) FindByHash(_ context.Context, hash string) (*auth.Session, error) {
	s, ok := m.byHash[hash]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return s, nil
}

func (m *memSessions) Delete(_ context.Context, hash string) error {
	if _, ok := m.byHash[hash]; !ok {
		return auth.ErrNotFound
	}
	delete(m.byHash, hash)
	return nil
}

func (m *memSessions) DeleteExpired(_ context.Context) (int64, error) { return 0, nil }

type memProducts struct {
	byID map[string]*product.Product
}

func (m *memProducts) List(_ context.Context) ([]product.Product, error) {
	out := make([]product.Product, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProducts) GetByID(ctx context.Context, id string) (*product.Product, error) {
	return m.GetForUpdate(ctx, id)
}

func (m *memProducts) GetForUpdate(_ context.Context, id string) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) Create(_ context.Context, p *product.Product) error {
	m.byID[p.ID] = p
	return nil
}

func (m *memProducts) Update(_ context.Context, p *product.Product) error {
	if _, ok := m.byID[p.ID]; !ok {
		return product.ErrNotFound
	}
	m.byID[p.ID] = p
	return nil
}

func (m *memProducts) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return product.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memProducts) DecrementStock(_ context.Context, id string, by int) error {
	p, ok := m.byID[id]
	if !ok || p.Quantity < by {
		return product.ErrNotFound
	}
	p.Quantity -= by
	return nil
}

func (m *memProducts) ListLowStock(_ context.Context) ([]product.Product, error) {
	var out []product.Product
	for _, p := range m.byID {
		if p.LowStock() {
			out = append(out, *p)
		}
	}
	return out, nil
}

type memOrders struct {
	orders   []*order.Order
	products *memProducts
	users    *memUsers
}

func (m *memOrders) Create(_ context.Context, o *order.Order) error {
	o.OrderDate = time.Now()
	m.orders = append(m.orders, o)
	return nil
}

func (m *memOrders) ListByDay(_ context.Context, day time.Time) ([]order.DayOrder, error) {
	var out []order.DayOrder
	for _, o := range m.orders {
		if o.OrderDate.Format(time.DateOnly) != day.Format(time.DateOnly) {
			continue
		}
		row := order.DayOrder{
			OrderID:   o.ID,
			Quantity:  o.Quantity,
			OrderDate: o.OrderDate,
		}
		if p, ok := m.products.byID[o.ProductID]; ok {
			row.ProductName = p.Name
			row.UnitPrice = p.Price
		}
		if u, ok := m.users.byID[o.UserID]; ok {
			row.Username = u.Username
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *memOrders) DailyTotals(ctx context.Context, day time.Time) (int, decimal.Decimal, error) {
	rows, _ := m.ListByDay(ctx, day)
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.UnitPrice.Mul(decimal.NewFromInt(int64(r.Quantity))))
	}
	return len(rows), total, nil
}

type memReports struct {
	created []*report.Report
}

func (m *memReports) Create(_ context.Context, r *report.Report) error {
	m.created = append(m.created, r)
	return nil
}

func (m *memReports) List(_ context.Context) ([]report.Report, error) {
	out := make([]report.Report, 0, len(m.created))
	for _, r := range m.created {
		out = append(out, *r)
	}
	return out, nil
}

type passthroughTx struct{}

func (passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- Test fixture ---

type fixture struct {
	srv      *httptest.Server
	users    *memUsers
	products *memProducts
	orders   *memOrders
	reports  *memReports
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := &memUsers{byID: make(map[string]*user.User)}
	sessions := &memSessions{byHash: make(map[string]*auth.Session)}
	products := &memProducts{byID: make(map[string]*product.Product)}
	orders := &memOrders{products: products, users: users}
	reports := &memReports{}

	userSvc := user.NewService(users)
	sessionMgr := auth.NewManager(sessions, users, []byte("test-pepper"), time.Hour)
	orderSvc := order.NewService(passthroughTx{}, products, orders, noop.NewMeterProvider().Meter("test"))
	reportSvc := report.NewService(orders, reports)

	h := New(userSvc, sessionMgr, products, orderSvc, orders, reportSvc)
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)

	return &fixture{srv: srv, users: users, products: products, orders: orders, reports: reports}
}

func (f *fixture) addProduct(name string, price string, quantity, threshold int) *product.Product {
	p := &product.Product{
		ID:                uuid.NewString(),
		Name:              name,
		Price:             decimal.RequireFromString(price),
		Quantity:          quantity,
		LowStockThreshold: threshold,
	}
	f.products.byID[p.ID] = p
	return p
}

func (f *fixture) addUser(t *testing.T, username string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{ID: uuid.NewString(), Username: username, Role: role}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

// postForm posts form values without following redirects and returns the
// response. token, when set, is sent as a bearer header.
func (f *fixture) postForm(t *testing.T, path, token string, form url.Values) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, f.srv.URL+path, strings.NewReader(form.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	return resp
}

func (f *fixture) get(t *testing.T, path, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.srv.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	return resp
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(_ *http.Request, _ []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// register creates the account over HTTP; login returns a session token.
func (f *fixture) register(t *testing.T, username, password string) {
	t.Helper()
	resp := f.postForm(t, "/register", "", url.Values{
		"username":  {username},
		"password1": {password},
		"password2": {password},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func (f *fixture) login(t *testing.T, username, password string) (token, location string) {
	t.Helper()
	resp := f.postForm(t, "/login", "", url.Values{
		"username": {username},
		"password": {password},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			token = c.Value
		}
	}
	require.NotEmpty(t, token, "login must set the session cookie")
	return token, resp.Header.Get("Location")
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// --- Tests ---

func TestPublicDashboard(t *testing.T) {
	f := newFixture(t)

	resp := f.get(t, "/", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "stockroom", body["service"])
}

func TestRegisterLoginLogout(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "password123")

	token, location := f.login(t, "alice", "password123")
	assert.Equal(t, "/dashboard", location, "regular users land on the dashboard")

	resp := f.get(t, "/dashboard", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "alice", body["username"])

	resp = f.postForm(t, "/logout", token, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp.Body.Close()

	// The revoked session no longer grants access.
	resp = f.get(t, "/dashboard", token)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
	resp.Body.Close()
}

func TestRegister_PasswordMismatch(t *testing.T) {
	f := newFixture(t)

	resp := f.postForm(t, "/register", "", url.Values{
		"username":  {"alice"},
		"password1": {"password123"},
		"password2": {"password124"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "password2")
	assert.Empty(t, f.users.byID, "mismatched passwords create no account")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "password123")

	resp := f.postForm(t, "/register", "", url.Values{
		"username":  {"alice"},
		"password1": {"password123"},
		"password2": {"password123"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	errs, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "username")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "password123")

	resp := f.postForm(t, "/login", "", url.Values{
		"username": {"alice"},
		"password": {"wrong-password"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "invalid username or password", body["message"])
}

func TestAdminLoginRedirect(t *testing.T) {
	f := newFixture(t)
	f.register(t, "boss", "password123")
	for _, u := range f.users.byID {
		u.Role = user.RoleAdmin
	}

	_, location := f.login(t, "boss", "password123")
	assert.Equal(t, "/admin/products", location, "administrators land on the product list")
}

func TestAdminDashboardRedirect(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t, f)

	resp := f.get(t, "/dashboard", token)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/products", resp.Header.Get("Location"),
		"administrators are sent to the product list instead of the user dashboard")
}

func TestRequireUser_Anonymous(t *testing.T) {
	f := newFixture(t)

	for _, path := range []string{"/dashboard", "/admin/products", "/admin/alerts"} {
		resp := f.get(t, path, "")
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
		resp.Body.Close()
	}
}

func TestRequireAdmin_RegularUser(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "password123")
	token, _ := f.login(t, "alice", "password123")
	p := f.addProduct("Widget", "10.00", 5, 2)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/admin/products"},
		{http.MethodPost, "/admin/products"},
		{http.MethodPost, "/admin/products/" + p.ID},
		{http.MethodPost, "/admin/products/" + p.ID + "/delete"},
		{http.MethodGet, "/admin/alerts"},
		{http.MethodGet, "/admin/reports"},
		{http.MethodPost, "/admin/reports"},
		{http.MethodGet, "/admin/orders/export"},
	}
	for _, tc := range paths {
		var resp *http.Response
		if tc.method == http.MethodGet {
			resp = f.get(t, tc.path, token)
		} else {
			resp = f.postForm(t, tc.path, token, nil)
		}
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, tc.path)
		body := decodeBody(t, resp)
		assert.Equal(t, "You are not authorized to perform this action.", body["message"], tc.path)
	}

	assert.Equal(t, 5, f.products.byID[p.ID].Quantity, "forbidden requests must not mutate state")
}

func adminToken(t *testing.T, f *fixture) string {
	t.Helper()
	f.register(t, "boss", "password123")
	for _, u := range f.users.byID {
		if u.Username == "boss" {
			u.Role = user.RoleAdmin
		}
	}
	token, _ := f.login(t, "boss", "password123")
	return token
}

func TestProductCRUD(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t, f)

	// Create.
	resp := f.postForm(t, "/admin/products", token, url.Values{
		"name":                {"Widget"},
		"price":               {"10.50"},
		"quantity":            {"25"},
		"low_stock_threshold": {"5"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/products", resp.Header.Get("Location"))
	resp.Body.Close()
	require.Len(t, f.products.byID, 1)

	var id string
	for _, p := range f.products.byID {
		id = p.ID
		assert.Equal(t, "Widget", p.Name)
		assert.Equal(t, 25, p.Quantity)
	}

	// List.
	resp = f.get(t, "/admin/products", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	products, ok := body["products"].([]any)
	require.True(t, ok)
	require.Len(t, products, 1)

	// Update.
	resp = f.postForm(t, "/admin/products/"+id, token, url.Values{
		"name":                {"Widget Pro"},
		"price":               {"12.00"},
		"quantity":            {"30"},
		"low_stock_threshold": {"6"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, "Widget Pro", f.products.byID[id].Name)
	assert.Equal(t, 30, f.products.byID[id].Quantity)

	// Delete.
	resp = f.postForm(t, "/admin/products/"+id+"/delete", token, nil)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()
	assert.Empty(t, f.products.byID)
}

func TestProductValidation(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t, f)

	tests := []struct {
		name  string
		form  url.Values
		field string
	}{
		{"missing name", url.Values{"price": {"1.00"}}, "name"},
		{"negative price", url.Values{"name": {"Widget"}, "price": {"-1.00"}}, "price"},
		{"bad price", url.Values{"name": {"Widget"}, "price": {"abc"}}, "price"},
		{"negative quantity", url.Values{"name": {"Widget"}, "price": {"1.00"}, "quantity": {"-5"}}, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.postForm(t, "/admin/products", token, tt.form)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody(t, resp)
			errs, ok := body["errors"].(map[string]any)
			require.True(t, ok)
			assert.Contains(t, errs, tt.field)
		})
	}
	assert.Empty(t, f.products.byID)
}

func TestProductUpdate_NotFound(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t, f)

	resp := f.postForm(t, "/admin/products/"+uuid.NewString(), token, url.Values{
		"name":  {"Ghost"},
		"price": {"1.00"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPlaceOrder(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "password123")
	token, _ := f.login(t, "alice", "password123")
	p := f.addProduct("Widget", "10.00", 5, 2)

	resp := f.postForm(t, "/orders", token, url.Values{
		"product_id": {p.ID},
		"quantity":   {"3"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/dashboard", resp.Header.Get("Location"))
	body := decodeBody(t, resp)
	assert.Equal(t, "Order placed successfully.", body["message"])

	assert.Equal(t, 2, f.products.byID[p.ID].Quantity)
	require.Len(t, f.orders.orders, 1)
	assert.Equal(t, 3, f.orders.orders[0].Quantity)
}

func TestPlaceOrder_StockRejections(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "password123")
	token, _ := f.login(t, "alice", "password123")

	empty := f.addProduct("Widget", "10.00", 0, 2)
	low := f.addProduct("Gadget", "5.00", 3, 1)

	resp := f.postForm(t, "/orders", token, url.Values{
		"product_id": {empty.ID},
		"quantity":   {"1"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "'Widget' is out of stock.", body["message"])

	resp = f.postForm(t, "/orders", token, url.Values{
		"product_id": {low.ID},
		"quantity":   {"5"},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Only 3 units of 'Gadget' are available.", body["message"])

	assert.Equal(t, 3, f.products.byID[low.ID].Quantity, "rejected orders leave stock untouched")
	assert.Empty(t, f.orders.orders)
}

func TestPlaceOrder_UnknownProduct(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "password123")
	token, _ := f.login(t, "alice", "password123")

	resp := f.postForm(t, "/orders", token, url.Values{
		"product_id": {uuid.NewString()},
		"quantity":   {"1"},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestPlaceOrder_BadQuantity(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice", "password123")
	token, _ := f.login(t, "alice", "password123")
	p := f.addProduct("Widget", "10.00", 5, 2)

	for _, quantity := range []string{"zero", "", "0", "-2"} {
		resp := f.postForm(t, "/orders", token, url.Values{
			"product_id": {p.ID},
			"quantity":   {quantity},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "quantity=%q", quantity)
		resp.Body.Close()
	}
	assert.Equal(t, 5, f.products.byID[p.ID].Quantity)
}

func TestStockAlerts(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t, f)

	f.addProduct("Plenty", "10.00", 50, 5)
	f.addProduct("Scarce", "10.00", 2, 5)
	f.addProduct("AtThreshold", "10.00", 5, 5)

	resp := f.get(t, "/admin/alerts", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	alerts, ok := body["alerts"].([]any)
	require.True(t, ok)

	names := make([]string, 0, len(alerts))
	for _, a := range alerts {
		names = append(names, a.(map[string]any)["name"].(string))
	}
	assert.ElementsMatch(t, []string{"Scarce", "AtThreshold"}, names)
}

func TestGenerateReport(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t, f)

	f.register(t, "alice", "password123")
	userToken, _ := f.login(t, "alice", "password123")
	p := f.addProduct("Widget", "10.00", 10, 2)

	resp := f.postForm(t, "/orders", userToken, url.Values{
		"product_id": {p.ID},
		"quantity":   {"4"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	resp = f.postForm(t, "/admin/reports", token, nil)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["total_orders"])
	assert.Equal(t, float64(40), body["total_sales"])
	require.Len(t, f.reports.created, 1)
}

func TestListReports(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t, f)

	resp := f.get(t, "/admin/reports", token)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["reports"])

	resp = f.postForm(t, "/admin/reports", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = f.get(t, "/admin/reports", token)
	body = decodeBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	reports := body["reports"].([]any)
	require.Len(t, reports, 1)
	first := reports[0].(map[string]any)
	assert.Equal(t, float64(0), first["total_orders"])
}

func TestExportOrders(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t, f)

	f.register(t, "alice", "password123")
	userToken, _ := f.login(t, "alice", "password123")
	p := f.addProduct("Widget", "10.00", 10, 2)

	resp := f.postForm(t, "/orders", userToken, url.Values{
		"product_id": {p.ID},
		"quantity":   {"2"},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	resp.Body.Close()

	// An explicit Accept-Encoding keeps the client from transparently
	// decompressing the body.
	req, err := http.NewRequest(http.MethodGet, f.srv.URL+"/admin/orders/export", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept-Encoding", "gzip")
	resp, err = noRedirectClient().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".csv.gz")

	gz, err := gzip.NewReader(resp.Body)
	require.NoError(t, err)
	records, err := csv.NewReader(gz).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 2, "header plus one order row")
	assert.Equal(t, []string{"order_id", "product", "username", "quantity", "unit_price", "total", "order_date"}, records[0])
	assert.Equal(t, "Widget", records[1][1])
	assert.Equal(t, "alice", records[1][2])
	assert.Equal(t, "2", records[1][3])
	assert.Equal(t, "20.00", records[1][5])
}

func TestExportOrders_BadDate(t *testing.T) {
	f := newFixture(t)
	token := adminToken(t, f)

	resp := f.get(t, "/admin/orders/export?date=June-10", token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
