package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/jx"

	"github.com/xenking/stockroom/internal/domain/product"
	"github.com/xenking/stockroom/internal/domain/report"
)

// writeJSON encodes a response body with jx and writes it with the given
// status code.
func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError writes a {code, message} error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(status)
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}

// writeFieldError writes a validation error body with a field-level message,
// the JSON equivalent of re-rendering a form with errors.
func writeFieldError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusBadRequest, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(http.StatusBadRequest)
		e.FieldStart("message")
		e.Str(msg)
		if field != "" {
			e.FieldStart("errors")
			e.ObjStart()
			e.FieldStart(field)
			e.Str(msg)
			e.ObjEnd()
		}
		e.ObjEnd()
	})
}

// redirect answers with 302 Found, a Location header, and a small JSON body
// carrying the user-facing message. Successful form posts redirect rather
// than render in place.
func redirect(w http.ResponseWriter, location, msg string) {
	w.Header().Set("Location", location)
	writeJSON(w, http.StatusFound, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("message")
		e.Str(msg)
		e.FieldStart("location")
		e.Str(location)
		e.ObjEnd()
	})
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Float64(p.Price.InexactFloat64())
	e.FieldStart("quantity")
	e.Int(p.Quantity)
	e.FieldStart("low_stock_threshold")
	e.Int(p.LowStockThreshold)
	e.ObjEnd()
}

func encodeProducts(e *jx.Encoder, products []product.Product) {
	e.ArrStart()
	for _, p := range products {
		encodeProduct(e, p)
	}
	e.ArrEnd()
}

func encodeReport(e *jx.Encoder, r *report.Report) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(r.ID)
	e.FieldStart("report_date")
	e.Str(r.ReportDate.Format(time.DateOnly))
	e.FieldStart("total_orders")
	e.Int(r.TotalOrders)
	e.FieldStart("total_sales")
	e.Float64(r.TotalSales.InexactFloat64())
	e.ObjEnd()
}
