package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest = fmt.Errorf("bad request")
	ErrInvalidProductID = fmt.Errorf("invalid product id")
	ErrInvalidLimit     = fmt.Errorf("invalid limit")

	// 404 Not Found
	ErrProductNotFound = fmt.Errorf("product not found")

	// 422 Unprocessable Entity: продукт не может быть оценён
	ErrUnsupportedCategory   = fmt.Errorf("unsupported product category")
	ErrMissingAttachment     = fmt.Errorf("category attachment is missing")
	ErrInvalidAttributeRange = fmt.Errorf("attribute out of range")
	ErrMissingBasePrice      = fmt.Errorf("base price is not recorded")

	// 409 Conflict
	ErrHistoryWriteConflict = fmt.Errorf("price history write conflict")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
