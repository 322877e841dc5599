package e

import "fmt"

var (
	// Нарушение контракта вызывающей стороной (неизвестная монета, отрицательное количество и т.п.)
	ErrInvalidInput = fmt.Errorf("invalid input")

	// Ожидаемый бизнес-исход: сдачу собрать нельзя
	ErrInsufficientChange = fmt.Errorf("not enough change")

	// Внесённой суммы не хватает на выбранный товар
	ErrInsufficientFunds = fmt.Errorf("insufficient funds")

	// Уточнения InvalidInput
	ErrUnknownDenomination = fmt.Errorf("%w: unknown denomination", ErrInvalidInput)
	ErrNegativeCount       = fmt.Errorf("%w: count must be a non-negative integer", ErrInvalidInput)
	ErrInvalidAmount       = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrAmountPrecision     = fmt.Errorf("%w: amount must have at most 2 decimal places", ErrInvalidInput)
	ErrProductNameRequired = fmt.Errorf("%w: product name is required", ErrInvalidInput)
	ErrProductUnavailable  = fmt.Errorf("%w: product is not available", ErrInvalidInput)
	ErrProductNotFound     = fmt.Errorf("%w: product not found", ErrInvalidInput)
	ErrNegativeVaultCount  = fmt.Errorf("%w: vault count would become negative", ErrInvalidInput)
	ErrProductNotSelected  = fmt.Errorf("%w: product is not selected", ErrInvalidInput)
	ErrProductAlreadyTaken = fmt.Errorf("%w: product is already selected", ErrInvalidInput)

	// Запрос с тем же ключом идемпотентности ещё выполняется
	ErrRequestInProgress = fmt.Errorf("request with this idempotency key is in progress")

	// Внутренние ошибки с транзакциями БД
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// HTTP
	ErrStatusBadRequest    = fmt.Errorf("bad request")
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
