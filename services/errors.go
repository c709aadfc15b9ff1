package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrDomainComputation = errors.New("domain computation error")
	ErrPersistence       = errors.New("persistence failure")
)

// ValidationError 呼叫端給了不合法的參數
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFoundError 查無資料 (product / meal / item / goal / user)
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// DomainComputationError 計算所需的生理資料不足
type DomainComputationError struct {
	Operation string
	Missing   []string
	Reason    string
}

func (e *DomainComputationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("%s: missing %s", e.Operation, strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Reason)
}

func (e *DomainComputationError) Is(target error) bool {
	return target == ErrDomainComputation
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// PersistenceError 包裝資料庫錯誤, 領域錯誤原樣回傳
func PersistenceError(err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) || errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}

func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrDomainComputation)
}
