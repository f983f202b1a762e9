package domain

import "errors"

// Нарушения предусловий. Это ошибки вызывающего кода, их нельзя глотать:
// иначе получаем неверный порядок ходов или "фантомную" видимость.
var (
	ErrOutOfBounds    = errors.New("coordinate out of bounds")
	ErrInvalidBounds  = errors.New("grid bounds must be positive")
	ErrNegativeRadius = errors.New("sight radius must be non-negative")

	ErrDuplicateActor = errors.New("actor already scheduled")
	ErrUnknownActor   = errors.New("actor not scheduled")
	ErrEmptySchedule  = errors.New("schedule is empty")
)
