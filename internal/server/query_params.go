package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tracera/tracera/internal/revstore"
)

func parsePathID(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.Param("id"))
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, newValidationError("id", "invalid_id", "invalid id")
	}
	return parsed, nil
}

func parseOptionalInt64(value string) (*int64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// parseAsOf reads the as_of query parameter; nil means the current revision.
func parseAsOf(c *gin.Context) (*int64, error) {
	asOf, err := parseOptionalInt64(c.Query("as_of"))
	if err != nil || (asOf != nil && *asOf <= 0) {
		return nil, newValidationError("as_of", "invalid_as_of", "invalid as_of revision")
	}
	return asOf, nil
}

func parseSelection(c *gin.Context) (revstore.Selection, error) {
	selection, err := revstore.ParseSelection(c.Query("selection"))
	if err != nil {
		return "", newValidationError("selection", "invalid_selection", "invalid selection")
	}
	return selection, nil
}

func parseScopeID(c *gin.Context, name string) (int64, error) {
	parsed, err := parseOptionalInt64(c.Query(name))
	if err != nil || (parsed != nil && *parsed <= 0) {
		return 0, newValidationError(name, "invalid_"+name, "invalid "+name)
	}
	if parsed == nil {
		return 0, nil
	}
	return *parsed, nil
}
