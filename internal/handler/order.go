package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/stockroom/internal/domain/order"
	"github.com/xenking/stockroom/internal/domain/product"
)

// PlaceOrder runs the order workflow for the authenticated user and maps its
// outcome to a response: success redirects back to the dashboard, stock
// rejections surface the exact availability message.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "malformed form data")
		return
	}

	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if err != nil {
		writeFieldError(w, "quantity", "quantity must be an integer")
		return
	}

	u := userFrom(r.Context())
	_, err = h.orders.Place(r.Context(), order.PlaceRequest{
		ProductID: r.PostFormValue("product_id"),
		UserID:    u.ID,
		Quantity:  quantity,
	})
	if err != nil {
		h.writeOrderError(w, r, err)
		return
	}

	redirect(w, "/dashboard", "Order placed successfully.")
}

// writeOrderError maps order workflow errors to HTTP responses. Stock
// rejections are domain outcomes, not failures: they answer 409 with the
// user-facing message and log nothing.
func (h *Handler) writeOrderError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		iqErr *order.InvalidQuantityError
		osErr *order.OutOfStockError
		isErr *order.InsufficientStockError
	)
	switch {
	case errors.As(err, &iqErr):
		writeFieldError(w, "quantity", iqErr.Error())
	case errors.Is(err, product.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.As(err, &osErr):
		writeError(w, http.StatusConflict, osErr.Error())
	case errors.As(err, &isErr):
		writeError(w, http.StatusConflict, isErr.Error())
	default:
		zctx.From(r.Context()).Error("Order placement failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to place order")
	}
}
