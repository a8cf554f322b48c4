package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/assessment-scheduler/internal/errors"
	"github.com/SAP-F-2025/assessment-scheduler/internal/scheduler"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrConflict         = errors.New("resource conflict")

	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrAssessmentChanged  = errors.New("assessment was modified concurrently")

	ErrRunNotFound          = errors.New("optimization run not found")
	ErrRunAlreadyApplied    = errors.New("optimization run already applied")
	ErrRunNotPending        = errors.New("optimization run is not pending")
	ErrScheduleChanged      = errors.New("schedule changed since the run was computed")
	ErrOptimizationTooLarge = errors.New("optimization request exceeds configured limits")
	ErrOptimizationTimeout  = errors.New("optimization timed out")
	ErrHorizonTooLarge      = errors.New("horizon exceeds configured maximum")
)

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string         `json:"rule"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	UserID     string `json:"user_id"`
	ResourceID string `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

func (pe *PermissionError) Unwrap() error {
	return ErrForbidden
}

func NewBusinessRuleError(rule, message string, context map[string]any) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(userID, resourceID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAssessmentNotFound) ||
		errors.Is(err, ErrRunNotFound)
}

func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden)
}

// IsValidation also covers the scheduler's input errors.
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, scheduler.ErrInvalidWindow) ||
		errors.Is(err, scheduler.ErrInvalidAssessment) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAssessmentChanged) ||
		errors.Is(err, ErrRunAlreadyApplied) ||
		errors.Is(err, ErrRunNotPending) ||
		errors.Is(err, ErrScheduleChanged)
}
