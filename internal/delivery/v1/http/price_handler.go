package http

import (
	"net/http"

	"github.com/DRSN-tech/pricing-engine/internal/usecase"
	"github.com/DRSN-tech/pricing-engine/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type PriceHandler struct {
	pricingUsecase usecase.PricingUC
	logger         logger.Logger
}

func NewPriceHandler(pricingUsecase usecase.PricingUC, logger logger.Logger) *PriceHandler {
	return &PriceHandler{pricingUsecase: pricingUsecase, logger: logger}
}

// computePrice
//
//	@Summary		Расчёт цены продукта
//	@Description	Считает цену со скидкой по категории продукта и записывает её в историю, если она изменилась
//	@Tags			prices
//	@Produce		json
//	@Param			productID	path		string			true	"ID продукта"
//	@Success		200			{object}	PriceResponse	"Цена рассчитана"
//	@Failure		400			{object}	ErrorResponse	"Некорректный ID"
//	@Failure		404			{object}	ErrorResponse	"Продукт не найден"
//	@Failure		409			{object}	ErrorResponse	"Конфликт записи истории"
//	@Failure		422			{object}	ErrorResponse	"Продукт нельзя оценить"
//	@Router			/prices/{productID} [post]
func (h *PriceHandler) computePrice(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	res, err := h.pricingUsecase.ComputeByID(r.Context(), productID)
	if err != nil {
		h.logWarn(err, r)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toPriceResponse(res))
}

// computeAll
//
//	@Summary		Пересчёт цен всего каталога
//	@Description	Ошибка по одному продукту попадает в его элемент ответа и не прерывает пересчёт
//	@Tags			prices
//	@Produce		json
//	@Success		200	{object}	ComputeAllResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/prices [post]
func (h *PriceHandler) computeAll(w http.ResponseWriter, r *http.Request) {
	res, err := h.pricingUsecase.ComputeAll(r.Context())
	if err != nil {
		h.logger.Errorf(err, "compute all failed")
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toComputeAllResponse(res))
}

// getLatestPrice
//
//	@Summary		Действующая цена продукта
//	@Description	Последняя запись истории цен или базовая цена, если истории нет
//	@Tags			prices
//	@Produce		json
//	@Param			productID	path		string				true	"ID продукта"
//	@Success		200			{object}	LatestPriceResponse
//	@Failure		404			{object}	ErrorResponse	"Продукт не найден"
//	@Failure		422			{object}	ErrorResponse	"Нет базовой цены"
//	@Router			/prices/{productID}/latest [get]
func (h *PriceHandler) getLatestPrice(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	res, err := h.pricingUsecase.GetLatestPrice(r.Context(), productID)
	if err != nil {
		h.logWarn(err, r)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toLatestPriceResponse(res))
}

// getHistory
//
//	@Summary		История цен продукта
//	@Description	Записи истории от новых к старым
//	@Tags			prices
//	@Produce		json
//	@Param			productID	path		string	true	"ID продукта"
//	@Param			limit		query		int		false	"Сколько записей вернуть"
//	@Success		200			{object}	HistoryResponse
//	@Failure		400			{object}	ErrorResponse	"Некорректный limit"
//	@Failure		404			{object}	ErrorResponse	"Продукт не найден"
//	@Router			/prices/{productID}/history [get]
func (h *PriceHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	limit, err := parseLimit(r)
	if err != nil {
		h.logWarn(err, r)
		WriteError(w, err)
		return
	}

	res, err := h.pricingUsecase.GetHistory(r.Context(), &usecase.GetHistoryReq{ProductID: productID, Limit: limit})
	if err != nil {
		h.logWarn(err, r)
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toHistoryResponse(res))
}

func (h *PriceHandler) logWarn(err error, r *http.Request) {
	code, msg := ToHTTPResponse(err)
	if code == http.StatusInternalServerError {
		h.logger.Errorf(err, "%s %s", r.Method, r.URL.Path)
		return
	}
	h.logger.Warnf("%d %s: %s", code, msg, err.Error())
}
