package service

import (
	"strings"

	"github.com/propdesk/maintenance-service/internal/domain"
	"github.com/propdesk/maintenance-service/internal/projection"
	apperrors "github.com/propdesk/maintenance-service/pkg/util/errorutil"
)

func validateCreate(input TicketCreateInput) error {
	details := map[string]any{}
	if input.Title == "" {
		details["title"] = "required"
	}
	if input.Description == "" {
		details["description"] = "required"
	}
	if !input.Category.Valid() {
		details["category"] = "unknown category"
	}
	if !input.Priority.Valid() {
		details["priority"] = "unknown priority"
	}
	if input.PropertyID == "" {
		details["propertyId"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket", details)
	}
	return nil
}

func validatePatch(patch TicketPatch) error {
	details := map[string]any{}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		details["title"] = "must not be empty"
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		details["description"] = "must not be empty"
	}
	if patch.Category != nil && !patch.Category.Valid() {
		details["category"] = "unknown category"
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		details["priority"] = "unknown priority"
	}
	if patch.PropertyID != nil && strings.TrimSpace(*patch.PropertyID) == "" {
		details["propertyId"] = "must not be empty"
	}
	if patch.Cost != nil && *patch.Cost < 0 {
		details["cost"] = "must not be negative"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket update", details)
	}
	return nil
}

func validateQuery(q projection.TicketQuery) error {
	details := map[string]any{}
	if q.Status != "" && !q.Status.Valid() {
		details["status"] = "unknown status"
	}
	if q.Priority != "" && !q.Priority.Valid() {
		details["priority"] = "unknown priority"
	}
	if q.Category != "" && !q.Category.Valid() {
		details["category"] = "unknown category"
	}
	if !projection.ValidSort(q.Sort) {
		details["sort"] = "expected newest, oldest, priority or status"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket query", details)
	}
	return nil
}

func validateCategory(category domain.TicketCategory) error {
	if category != "" && !category.Valid() {
		return apperrors.NewValidationError("unknown category", map[string]any{"category": category})
	}
	return nil
}
