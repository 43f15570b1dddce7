package repository

import "errors"

// Errores canónicos de la capa de repositorio. Los services los traducen
// a la taxonomía HTTP; acá no hay semántica de transporte.
var (
	// ErrNotFound: la entidad no existe.
	ErrNotFound = errors.New("repository: not found")

	// ErrDuplicateEmail: violación del unique index de email. Es la señal
	// autoritativa de conflicto en el registro (no se confía en un read previo).
	ErrDuplicateEmail = errors.New("repository: email already registered")
)
