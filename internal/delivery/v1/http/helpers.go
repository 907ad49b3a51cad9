package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/pricing-engine/internal/domain"
	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PriceResponse — результат расчёта цены продукта.
type PriceResponse struct {
	ProductID          string    `json:"productId"`
	Category           string    `json:"category"`
	OriginalPrice      string    `json:"originalPrice" example:"100.00"`
	DiscountedPrice    string    `json:"discountedPrice" example:"85.00"`
	DiscountPercentage string    `json:"discountPercentage" example:"15.00"`
	HistoryWritten     bool      `json:"historyWritten"`
	CalculatedAt       time.Time `json:"calculatedAt"`
}

type ComputeAllItemResponse struct {
	ProductID string         `json:"productId"`
	Result    *PriceResponse `json:"result,omitempty"`
	Error     *ErrorResponse `json:"error,omitempty"`
}

type ComputeAllResponse struct {
	Items     []ComputeAllItemResponse `json:"items"`
	Succeeded int                      `json:"succeeded"`
	Failed    int                      `json:"failed"`
}

// LatestPriceResponse — действующая цена. fromHistory=false: истории нет, отдана базовая цена.
type LatestPriceResponse struct {
	ProductID          string     `json:"productId"`
	OriginalPrice      string     `json:"originalPrice"`
	DiscountedPrice    string     `json:"discountedPrice"`
	DiscountPercentage string     `json:"discountPercentage"`
	AppliedAt          *time.Time `json:"appliedAt,omitempty"`
	AppliedBy          string     `json:"appliedBy,omitempty"`
	FromHistory        bool       `json:"fromHistory"`
}

type HistoryEntryResponse struct {
	ID                 string    `json:"id"`
	OriginalPrice      string    `json:"originalPrice"`
	DiscountedPrice    string    `json:"discountedPrice"`
	DiscountPercentage string    `json:"discountPercentage"`
	AppliedAt          time.Time `json:"appliedAt"`
	AppliedBy          string    `json:"appliedBy"`
}

type HistoryResponse struct {
	ProductID string                 `json:"productId"`
	Entries   []HistoryEntryResponse `json:"entries"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrInvalidProductID):
		return http.StatusBadRequest, e.ErrInvalidProductID.Error()
	case errors.Is(err, e.ErrInvalidLimit):
		return http.StatusBadRequest, e.ErrInvalidLimit.Error()
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrUnsupportedCategory):
		return http.StatusUnprocessableEntity, e.ErrUnsupportedCategory.Error()
	case errors.Is(err, e.ErrMissingAttachment):
		return http.StatusUnprocessableEntity, e.ErrMissingAttachment.Error()
	case errors.Is(err, e.ErrInvalidAttributeRange):
		return http.StatusUnprocessableEntity, e.ErrInvalidAttributeRange.Error()
	case errors.Is(err, e.ErrMissingBasePrice):
		return http.StatusUnprocessableEntity, e.ErrMissingBasePrice.Error()
	case errors.Is(err, e.ErrHistoryWriteConflict):
		return http.StatusConflict, e.ErrHistoryWriteConflict.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseLimit читает ?limit=N. Пустое значение — 0, то есть лимит по умолчанию.
func parseLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), e.ErrInvalidLimit)
	}
	return limit, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toPriceResponse(res *usecase.ComputePriceRes) *PriceResponse {
	return &PriceResponse{
		ProductID:          res.ProductID,
		Category:           string(res.Category),
		OriginalPrice:      money(res.OriginalPrice),
		DiscountedPrice:    money(res.DiscountedPrice),
		DiscountPercentage: money(res.DiscountPercentage),
		HistoryWritten:     res.HistoryWritten,
		CalculatedAt:       res.CalculatedAt,
	}
}

func toComputeAllResponse(res *usecase.ComputeAllRes) *ComputeAllResponse {
	out := &ComputeAllResponse{
		Items:     make([]ComputeAllItemResponse, len(res.Items)),
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
	}

	for i, item := range res.Items {
		out.Items[i].ProductID = item.ProductID
		if item.Err != nil {
			out.Items[i].Error = NewErrorResponse(ToHTTPResponse(item.Err))
			continue
		}
		out.Items[i].Result = toPriceResponse(item.Result)
	}

	return out
}

func toLatestPriceResponse(lp *usecase.LatestPrice) *LatestPriceResponse {
	return &LatestPriceResponse{
		ProductID:          lp.ProductID,
		OriginalPrice:      money(lp.OriginalPrice),
		DiscountedPrice:    money(lp.DiscountedPrice),
		DiscountPercentage: money(lp.DiscountPercentage),
		AppliedAt:          lp.AppliedAt,
		AppliedBy:          lp.AppliedBy,
		FromHistory:        lp.FromHistory,
	}
}

func toHistoryResponse(res *usecase.GetHistoryRes) *HistoryResponse {
	out := &HistoryResponse{
		ProductID: res.ProductID,
		Entries:   make([]HistoryEntryResponse, len(res.Entries)),
	}
	for i, entry := range res.Entries {
		out.Entries[i] = toHistoryEntryResponse(entry)
	}
	return out
}

func toHistoryEntryResponse(entry *domain.PriceHistoryEntry) HistoryEntryResponse {
	return HistoryEntryResponse{
		ID:                 entry.ID,
		OriginalPrice:      money(entry.OriginalPrice),
		DiscountedPrice:    money(entry.DiscountedPrice),
		DiscountPercentage: money(entry.DiscountPercentage),
		AppliedAt:          entry.AppliedAt,
		AppliedBy:          entry.AppliedBy,
	}
}
