package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"admin-api/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// parsePaginationParams extracts and clamps page/page_size query parameters.
func parsePaginationParams(ctx *gin.Context) (int, int) {
	const MaxPageSize = 100
	const DefaultPage = 1
	const DefaultPageSize = 20

	page, err := strconv.Atoi(ctx.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	pageSize, err := strconv.Atoi(ctx.DefaultQuery("page_size", strconv.Itoa(DefaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter as a UTC
// midnight timestamp. The bool is false when the value was present but
// malformed; a 400 response has already been written in that case.
func parseDateQuery(ctx *gin.Context, name string) (*time.Time, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: expected YYYY-MM-DD", name)})
		return nil, false
	}
	return &t, true
}

// parseUUIDQuery parses an optional uuid query parameter. Same contract as
// parseDateQuery.
func parseUUIDQuery(ctx *gin.Context, name string) (*uuid.UUID, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: expected a UUID", name)})
		return nil, false
	}
	return &id, true
}

// parseUUIDParam parses a required uuid path parameter.
func parseUUIDParam(ctx *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: expected a UUID", name)})
		return uuid.Nil, false
	}
	return id, true
}

// exclusiveEnd converts an inclusive end date into the following midnight.
func exclusiveEnd(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	e := d.AddDate(0, 0, 1)
	return &e
}

// respondError writes a structured service error.
func respondError(ctx *gin.Context, err *apperrors.Error) {
	ctx.JSON(err.Code, gin.H{"error": err.Message, "kind": err.Kind})
}
