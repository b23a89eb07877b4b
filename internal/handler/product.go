package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/domain/product"
)

// ListProducts returns the full product list for administrators.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("products")
		encodeProducts(e, products)
		e.ObjEnd()
	})
}

// CreateProduct validates and persists a new product, then redirects to the
// product list.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromForm(w, r)
	if !ok {
		return
	}
	p.ID = uuid.New().String()

	if err := h.products.Create(r.Context(), p); err != nil {
		zctx.From(r.Context()).Error("Product create failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create product")
		return
	}
	redirect(w, "/admin/products", "Product created.")
}

// UpdateProduct applies validated field changes to an existing product.
// A missing target yields 404.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := h.productFromForm(w, r)
	if !ok {
		return
	}
	p.ID = chi.URLParam(r, "id")

	if err := h.products.Update(r.Context(), p); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("Product update failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update product")
		return
	}
	redirect(w, "/admin/products", "Product updated.")
}

// DeleteProduct removes a product. A missing target yields 404.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.products.Delete(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		zctx.From(r.Context()).Error("Product delete failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}
	redirect(w, "/admin/products", "Product deleted.")
}

// productFromForm parses and validates the product form. On failure it writes
// the field error itself and reports ok=false.
func (h *Handler) productFromForm(w http.ResponseWriter, r *http.Request) (*product.Product, bool) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form data")
		return nil, false
	}

	price, err := decimal.NewFromString(r.PostFormValue("price"))
	if err != nil {
		writeFieldError(w, "price", "price must be a decimal number")
		return nil, false
	}
	quantity, err := formInt(r, "quantity")
	if err != nil {
		writeFieldError(w, "quantity", "quantity must be an integer")
		return nil, false
	}
	threshold, err := formInt(r, "low_stock_threshold")
	if err != nil {
		writeFieldError(w, "low_stock_threshold", "low stock threshold must be an integer")
		return nil, false
	}

	p := &product.Product{
		Name:              r.PostFormValue("name"),
		Price:             price,
		Quantity:          quantity,
		LowStockThreshold: threshold,
	}
	if err := p.Validate(); err != nil {
		writeFieldError(w, productField(err), err.Error())
		return nil, false
	}
	return p, true
}

func formInt(r *http.Request, field string) (int, error) {
	v := r.PostFormValue(field)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func productField(err error) string {
	switch {
	case errors.Is(err, product.ErrNameRequired):
		return "name"
	case errors.Is(err, product.ErrNegativePrice):
		return "price"
	case errors.Is(err, product.ErrNegativeQuantity):
		return "quantity"
	case errors.Is(err, product.ErrNegativeThreshold):
		return "low_stock_threshold"
	}
	return ""
}
