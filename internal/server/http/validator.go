// FILE: checkers/internal/server/http/validator.go
package http

import (
	"fmt"
	"reflect"
	"strings"

	"checkers/internal/server/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// validationMiddleware parses and validates JSON bodies of known POST routes
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method != fiber.MethodPost {
		return c.Next()
	}

	path := c.Path()
	var requestType any

	switch {
	case strings.HasSuffix(path, "/moves/legal"), strings.HasSuffix(path, "/evaluate"):
		requestType = &core.PositionRequest{}
	case strings.HasSuffix(path, "/moves/apply"):
		requestType = &core.ApplyMoveRequest{}
	case strings.HasSuffix(path, "/search"), strings.HasSuffix(path, "/analyses"):
		requestType = &core.SearchRequest{}
	case strings.HasSuffix(path, "/board"):
		requestType = &core.BoardRequest{}
	default:
		return c.Next()
	}

	if err := c.BodyParser(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if errs := validate.Struct(requestType); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(errs),
		})
	}

	c.Locals("validatedBody", requestType)
	c.Locals("validated", true)

	return c.Next()
}

// describeValidation turns validator errors into one readable line
func describeValidation(errs error) string {
	verrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return errs.Error()
	}

	var details strings.Builder
	for _, err := range verrs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		// Namespace keeps the index for dive errors, e.g. Board[3]
		field := err.Field()
		if ns := err.Namespace(); strings.Contains(ns, "[") {
			field = ns[strings.Index(ns, ".")+1:]
		}
		switch err.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", field))
		case "oneof":
			details.WriteString(fmt.Sprintf("%s must be one of [%s]", field, err.Param()))
		case "len":
			if err.Kind() == reflect.Slice {
				details.WriteString(fmt.Sprintf("%s must have %s rows", field, err.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be %s characters", field, err.Param()))
			}
		case "min":
			if err.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at least %s characters", field, err.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at least %s", field, err.Param()))
			}
		case "max":
			if err.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at most %s characters", field, err.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at most %s", field, err.Param()))
			}
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", field, err.Tag()))
		}
	}
	return details.String()
}

// validatedBody returns the request parsed by validationMiddleware
func validatedBody[T any](c *fiber.Ctx) (T, bool) {
	var zero T
	if validated, ok := c.Locals("validated").(bool); !ok || !validated {
		return zero, false
	}
	body, ok := c.Locals("validatedBody").(*T)
	if !ok || body == nil {
		return zero, false
	}
	return *body, true
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
