package responses

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("response not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ErrInvalidGender se devuelve cuando el filtro no pertenece al conjunto cerrado.
var ErrInvalidGender = invalidInput("gender must be one of Male, Female, Other")

type inputError struct{ msg string }

func invalidInput(msg string) error { return &inputError{msg: msg} }

func (e *inputError) Error() string        { return e.msg }
func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }

// StorageError envuelve cualquier fallo del store subyacente (abrir, leer, escribir).
// errors.Is(err, ErrStorageUnavailable) es true para todo StorageError.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return ErrStorageUnavailable.Error()
	}
	return ErrStorageUnavailable.Error() + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error        { return e.Err }
func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

// Unavailable marca err como StorageUnavailable. nil devuelve nil.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Err: err}
}
