package recipe

import "errors"

// Domain errors for recipe operations

var (
	ErrMissingID        = errors.New("recipe id is required")
	ErrCountMismatch    = errors.New("ingredient counts must match ingredient lists")
	ErrUnknownFoodGroup = errors.New("unknown food group")
	ErrDuplicatePairing = errors.New("recipe already has a pairing of this type")
	ErrInvalidPairing   = errors.New("pairing type must be drink or dessert")
)
