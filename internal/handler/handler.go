// Package handler exposes the HTTP surface of the inventory service: account
// registration and login, the user dashboard with order placement, and the
// admin views for product management, stock alerts, and reporting.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/xenking/stockroom/internal/domain/auth"
	"github.com/xenking/stockroom/internal/domain/order"
	"github.com/xenking/stockroom/internal/domain/product"
	"github.com/xenking/stockroom/internal/domain/report"
	"github.com/xenking/stockroom/internal/domain/user"
)

// Handler routes HTTP requests to the domain services.
type Handler struct {
	users     *user.Service
	sessions  *auth.Manager
	products  product.Repository
	orders    *order.Service
	dayOrders order.Repository
	reports   *report.Service
}

// New constructs a Handler with the required domain dependencies.
func New(
	users *user.Service,
	sessions *auth.Manager,
	products product.Repository,
	orders *order.Service,
	dayOrders order.Repository,
	reports *report.Service,
) *Handler {
	return &Handler{
		users:     users,
		sessions:  sessions,
		products:  products,
		orders:    orders,
		dayOrders: dayOrders,
		reports:   reports,
	}
}

// Routes builds the router. Authenticated routes sit behind RequireUser;
// admin routes additionally behind RequireAdmin.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.Dashboard)
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)

	r.Group(func(pr chi.Router) {
		pr.Use(h.RequireUser)

		pr.Post("/logout", h.Logout)
		pr.Get("/dashboard", h.UserDashboard)
		pr.Post("/orders", h.PlaceOrder)

		pr.Route("/admin", func(ad chi.Router) {
			ad.Use(h.RequireAdmin)

			ad.Get("/products", h.ListProducts)
			ad.Post("/products", h.CreateProduct)
			ad.Post("/products/{id}", h.UpdateProduct)
			ad.Post("/products/{id}/delete", h.DeleteProduct)
			ad.Get("/alerts", h.StockAlerts)
			ad.Get("/reports", h.ListReports)
			ad.Post("/reports", h.GenerateReport)
			ad.Get("/orders/export", h.ExportOrders)
		})
	})

	return r
}

// Dashboard is the public landing endpoint.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("service")
		e.Str("stockroom")
		e.FieldStart("message")
		e.Str("Welcome. Register or log in to continue.")
		e.ObjEnd()
	})
}

// UserDashboard lists products for regular users. Administrators are
// redirected to the product management list.
func (h *Handler) UserDashboard(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r.Context())
	if u.IsAdmin() {
		redirect(w, "/admin/products", "Administrators manage products here.")
		return
	}

	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("username")
		e.Str(u.Username)
		e.FieldStart("products")
		encodeProducts(e, products)
		e.ObjEnd()
	})
}
