package validation

import (
	"strings"

	"github.com/cardbinder/cardbinder/internal/models"
	"github.com/cardbinder/cardbinder/internal/types"
)

const MaxNotesLength = 500

// EntryCreate is the validated command for adding a collection entry.
type EntryCreate struct {
	CardID           uint64
	Quantity         int
	ConditionID      *uint64
	GradingCompanyID *uint64
	Grade            *float64
	PurchasePrice    *float64
	Notes            string
}

// EntryUpdate is the validated command for patching a collection entry.
// Nil pointers mean "leave unchanged".
type EntryUpdate struct {
	Quantity         *int
	ConditionID      *uint64
	GradingCompanyID *uint64
	Grade            *float64
	PurchasePrice    *float64
	Notes            *string
}

// EntryCreateBody is the raw JSON body for POST /collection. Unknown fields
// are stripped by the decoder.
type EntryCreateBody struct {
	CardID           uint64         `json:"cardId"`
	Quantity         *types.FlexInt `json:"quantity"`
	ConditionID      *uint64        `json:"conditionId"`
	GradingCompanyID *uint64        `json:"gradingCompanyId"`
	Grade            *float64       `json:"grade"`
	PurchasePrice    *float64       `json:"purchasePrice"`
	Notes            string         `json:"notes"`
}

// EntryUpdateBody is the raw JSON body for PATCH /collection/:entryId.
type EntryUpdateBody struct {
	Quantity         *types.FlexInt `json:"quantity"`
	ConditionID      *uint64        `json:"conditionId"`
	GradingCompanyID *uint64        `json:"gradingCompanyId"`
	Grade            *float64       `json:"grade"`
	PurchasePrice    *float64       `json:"purchasePrice"`
	Notes            *string        `json:"notes"`
}

// ValidateEntryCreate checks a create body against the collection rules.
// The grading company bound check happens later against the looked-up
// company; here the pairing rule is enforced.
func ValidateEntryCreate(body *EntryCreateBody) (*EntryCreate, *types.AppError) {
	fields := map[string]string{}

	if body.CardID == 0 {
		fields["cardId"] = "is required"
	}

	// A missing quantity means a single copy; an explicit zero or negative
	// value is the caller's mistake, never clamped.
	qty := 1
	if body.Quantity != nil {
		qty = body.Quantity.Int()
		if qty <= 0 {
			fields["quantity"] = "must be greater than 0"
		}
	}

	if body.Grade != nil && body.GradingCompanyID == nil {
		fields["grade"] = "requires a grading company"
	}

	if body.PurchasePrice != nil && *body.PurchasePrice < 0 {
		fields["purchasePrice"] = "must not be negative"
	}

	notes := strings.TrimSpace(body.Notes)
	if len([]rune(notes)) > MaxNotesLength {
		fields["notes"] = "must be at most 500 characters"
	}

	if len(fields) > 0 {
		return nil, types.ValidationError("Invalid collection entry", fields)
	}

	return &EntryCreate{
		CardID:           body.CardID,
		Quantity:         qty,
		ConditionID:      body.ConditionID,
		GradingCompanyID: body.GradingCompanyID,
		Grade:            body.Grade,
		PurchasePrice:    body.PurchasePrice,
		Notes:            notes,
	}, nil
}

// ValidateEntryUpdate checks a patch body. Quantity, when present, must be
// positive; zero is a validation error rather than a silent clamp.
func ValidateEntryUpdate(body *EntryUpdateBody) (*EntryUpdate, *types.AppError) {
	fields := map[string]string{}

	var qty *int
	if body.Quantity != nil {
		v := body.Quantity.Int()
		if v <= 0 {
			fields["quantity"] = "must be greater than 0"
		} else {
			qty = &v
		}
	}

	if body.Grade != nil && body.GradingCompanyID == nil {
		fields["grade"] = "requires a grading company"
	}

	if body.PurchasePrice != nil && *body.PurchasePrice < 0 {
		fields["purchasePrice"] = "must not be negative"
	}

	var notes *string
	if body.Notes != nil {
		trimmed := strings.TrimSpace(*body.Notes)
		if len([]rune(trimmed)) > MaxNotesLength {
			fields["notes"] = "must be at most 500 characters"
		} else {
			notes = &trimmed
		}
	}

	if len(fields) > 0 {
		return nil, types.ValidationError("Invalid collection entry update", fields)
	}

	return &EntryUpdate{
		Quantity:         qty,
		ConditionID:      body.ConditionID,
		GradingCompanyID: body.GradingCompanyID,
		Grade:            body.Grade,
		PurchasePrice:    body.PurchasePrice,
		Notes:            notes,
	}, nil
}

// CheckGradeBounds verifies a grade against the company scale once the
// company row has been loaded.
func CheckGradeBounds(grade float64, company *models.GradingCompany) *types.AppError {
	if grade < company.MinGrade || grade > company.MaxGrade {
		return types.ValidationError("Invalid collection entry", map[string]string{
			"grade": "must be within the grading company scale",
		})
	}
	return nil
}
