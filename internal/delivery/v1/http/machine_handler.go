package http

import (
	"errors"
	"net/http"

	"github.com/DRSN-tech/vending-machine/internal/domain"
	"github.com/DRSN-tech/vending-machine/internal/usecase"
	"github.com/DRSN-tech/vending-machine/pkg/e"
	"github.com/DRSN-tech/vending-machine/pkg/logger"
	"github.com/google/uuid"
)

const idempotencyKeyHeader = "Idempotency-Key"

type MachineHandler struct {
	machineUsecase  usecase.MachineUC
	checkoutUsecase usecase.CheckoutUC
	logger          logger.Logger
}

func NewMachineHandler(machineUsecase usecase.MachineUC, checkoutUsecase usecase.CheckoutUC, logger logger.Logger) *MachineHandler {
	return &MachineHandler{
		machineUsecase:  machineUsecase,
		checkoutUsecase: checkoutUsecase,
		logger:          logger,
	}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает товары в наличии
//	@Tags			products
//	@Produce		json
//	@Success		200	{array}	ProductResponse
//	@Router			/products [get]
func (h *MachineHandler) listProducts(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, toArrProductResponse(h.machineUsecase.ListProducts()))
}

// getTransaction
//
//	@Summary		Текущая транзакция
//	@Tags			transaction
//	@Produce		json
//	@Success		200	{object}	TransactionResponse
//	@Router			/transaction [get]
func (h *MachineHandler) getTransaction(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, toTransactionResponse(h.machineUsecase.Transaction()))
}

// selectProduct
//
//	@Summary		Выбор товара
//	@Description	Выбирает товар в наличии по ID. Повторный выбор в той же транзакции запрещён
//	@Tags			transaction
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SelectProductRequest	true	"ID товара"
//	@Success		200		{object}	TransactionResponse
//	@Failure		400		{object}	ErrorResponse	"Товар недоступен или уже выбран"
//	@Failure		404		{object}	ErrorResponse	"Товар не найден"
//	@Router			/transaction/product [post]
func (h *MachineHandler) selectProduct(w http.ResponseWriter, r *http.Request) {
	var req SelectProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	id, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.logger.Warnf("%d %s: product_id %q", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), req.ProductID)
		WriteError(w, e.Wrap("product_id", e.ErrStatusBadRequest))
		return
	}

	if err := h.machineUsecase.SelectProductByID(id); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toTransactionResponse(h.machineUsecase.Transaction()))
}

// insertCoin
//
//	@Summary		Внесение монеты
//	@Description	Принимает монету одного из номиналов 5.00, 3.00, 2.00, 1.00, 0.50, 0.25
//	@Tags			transaction
//	@Accept			json
//	@Produce		json
//	@Param			request	body		InsertCoinRequest	true	"Номинал монеты"
//	@Success		200		{object}	TransactionResponse
//	@Failure		400		{object}	ErrorResponse	"Неизвестный номинал или товар не выбран"
//	@Router			/transaction/coins [post]
func (h *MachineHandler) insertCoin(w http.ResponseWriter, r *http.Request) {
	var req InsertCoinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warnf("%d %s: %s", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), err.Error())
		WriteError(w, err)
		return
	}

	coin, err := domain.ParseDenomination(req.Coin)
	if err != nil {
		h.logger.Warnf("%d %s: coin %q", http.StatusBadRequest, e.ErrStatusBadRequest.Error(), req.Coin)
		WriteError(w, err)
		return
	}

	if err := h.machineUsecase.InsertCoin(coin); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toTransactionResponse(h.machineUsecase.Transaction()))
}

// confirmPurchase
//
//	@Summary		Подтверждение покупки
//	@Description	Выдаёт товар и сдачу. При нехватке сдачи или средств транзакция отменяется, а внесённые монеты возвращаются
//	@Tags			transaction
//	@Produce		json
//	@Param			Idempotency-Key	header		string				false	"Ключ идемпотентности"
//	@Success		200				{object}	CheckoutResponse	"Покупка совершена или подтверждать нечего"
//	@Failure		402				{object}	CheckoutResponse	"Недостаточно средств, монеты возвращены"
//	@Failure		409				{object}	CheckoutResponse	"Недостаточно сдачи, монеты возвращены"
//	@Failure		500				{object}	ErrorResponse
//	@Router			/transaction/confirm [post]
func (h *MachineHandler) confirmPurchase(w http.ResponseWriter, r *http.Request) {
	res, err := h.checkoutUsecase.Confirm(r.Context(), r.Header.Get(idempotencyKeyHeader))
	if err != nil {
		if errors.Is(err, e.ErrInsufficientFunds) || errors.Is(err, e.ErrRequestInProgress) {
			h.logger.Warnf("%s", err.Error())
		} else {
			h.logger.Errorf(err, "confirm purchase failed")
		}
		WriteError(w, err)
		return
	}

	status := http.StatusOK
	switch res.Outcome {
	case usecase.OutcomeNotEnoughChange:
		status = http.StatusConflict
	case usecase.OutcomeInsufficientFunds:
		status = http.StatusPaymentRequired
	}

	WriteSuccess(w, status, toCheckoutResponse(res))
}

// cancelTransaction
//
//	@Summary		Отмена транзакции
//	@Description	Сбрасывает выбор товара и возвращает внесённые монеты
//	@Tags			transaction
//	@Produce		json
//	@Success		200	{object}	RefundResponse
//	@Router			/transaction [delete]
func (h *MachineHandler) cancelTransaction(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, RefundResponse{Refund: h.machineUsecase.Cancel()})
}

// getVault
//
//	@Summary		Монетный запас
//	@Tags			vault
//	@Produce		json
//	@Success		200	{object}	VaultResponse
//	@Router			/vault [get]
func (h *MachineHandler) getVault(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, toVaultResponse(h.machineUsecase.VaultSnapshot()))
}
