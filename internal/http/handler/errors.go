package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jmadden452/SlotLink/internal/app/repository"
	"github.com/jmadden452/SlotLink/internal/app/service"
)

// statusForError maps the domain error taxonomy onto HTTP statuses. Anything
// unrecognized is an internal error and must not leak details to the caller.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrLinkNotFound):
		return fiber.StatusNotFound, "scheduling link not found"
	case errors.Is(err, repository.ErrWindowNotFound):
		return fiber.StatusNotFound, "scheduling window not found"
	case errors.Is(err, repository.ErrAdvisorNotFound):
		return fiber.StatusNotFound, "advisor not found"
	case errors.Is(err, repository.ErrLinkExpired):
		return fiber.StatusGone, "this scheduling link has expired"
	case errors.Is(err, repository.ErrLinkExhausted):
		return fiber.StatusGone, "this scheduling link has reached its usage limit"
	case errors.Is(err, repository.ErrSlotTaken):
		return fiber.StatusConflict, "the requested slot is no longer available"
	case errors.Is(err, service.ErrInvalidRange):
		return fiber.StatusUnprocessableEntity, "start time must be before end time"
	case errors.Is(err, service.ErrInvalidArgument):
		return fiber.StatusUnprocessableEntity, "invalid argument"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
