package dto

import (
	"github.com/acucaradas/delivery-tracking-system/internal/domain/types"
	"github.com/acucaradas/delivery-tracking-system/pkg/validator"
	"github.com/google/uuid"
)

// FocusRequest selects one entity on the console map.
type FocusRequest struct {
	Kind string    `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

func (r *FocusRequest) Validate(v *validator.Validator) {
	v.Check(r.ID != uuid.Nil, "id", "must be provided")
	v.Check(validator.In(r.Kind, string(types.MarkerDriver), string(types.MarkerOrder)),
		"kind", "must be one of: driver, order")
}
