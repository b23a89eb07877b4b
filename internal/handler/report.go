package handler

import (
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockAlerts lists products at or below their low stock threshold.
func (h *Handler) StockAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.products.ListLowStock(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list stock alerts")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("alerts")
		encodeProducts(e, alerts)
		e.ObjEnd()
	})
}

// ListReports returns all generated report snapshots, newest first.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("reports")
		e.ArrStart()
		for i := range reports {
			encodeReport(e, &reports[i])
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// GenerateReport aggregates today's orders into a new report snapshot and
// returns the computed totals. Every invocation persists a fresh row.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.GenerateDaily(r.Context(), time.Now())
	if err != nil {
		zctx.From(r.Context()).Error("Report generation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to generate report")
		return
	}
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		encodeReport(e, rep)
	})
}

// ExportOrders streams a day's orders as gzip-compressed CSV. The day is
// taken from the date query parameter (YYYY-MM-DD) and defaults to today.
func (h *Handler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse(time.DateOnly, v)
		if err != nil {
			writeFieldError(w, "date", "date must be formatted as YYYY-MM-DD")
			return
		}
		day = parsed
	}

	rows, err := h.dayOrders.ListByDay(r.Context(), day)
	if err != nil {
		zctx.From(r.Context()).Error("Order export failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to export orders")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Set("Content-Disposition",
		`attachment; filename="orders-`+day.Format(time.DateOnly)+`.csv.gz"`)

	gz := pgzip.NewWriter(w)
	cw := csv.NewWriter(gz)

	_ = cw.Write([]string{"order_id", "product", "username", "quantity", "unit_price", "total", "order_date"})
	for _, o := range rows {
		total := o.UnitPrice.Mul(decimal.NewFromInt(int64(o.Quantity)))
		_ = cw.Write([]string{
			o.OrderID,
			o.ProductName,
			o.Username,
			strconv.Itoa(o.Quantity),
			o.UnitPrice.StringFixed(2),
			total.StringFixed(2),
			o.OrderDate.Format(time.RFC3339),
		})
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		zctx.From(r.Context()).Error("CSV write failed", zap.Error(err))
	}
	if err := gz.Close(); err != nil {
		zctx.From(r.Context()).Error("Gzip close failed", zap.Error(err))
	}
}
