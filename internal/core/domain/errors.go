package domain

import "errors"

// Ошибки-переменные, которые возвращаются из Use Cases.
// REST-слой отображает их в HTTP-статусы.
var (
	ErrListingNotFound    = errors.New("listing not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrRecipientNotFound  = errors.New("recipient user not found")
	ErrNotOwner           = errors.New("caller is not the owner of the listing")
	ErrAlreadyInFavorites = errors.New("listing already in favorites")
	ErrValidation         = errors.New("validation failed")
)
