package persistence

import "strings"

// ValidateSortOrder normalizes a sort direction, defaulting to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField checks a requested sort column against a whitelist.
// Sort fields are interpolated into SQL, so only whitelisted names pass;
// anything else falls back to defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// AssetRecordSortFields are the columns asset record listings may sort by.
var AssetRecordSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"asset_number":        true,
	"status":              true,
	"due_date":            true,
	"invoice_date":        true,
	"funds_advanced_date": true,
	"invoice_amount":      true,
	"invoice_limit":       true,
}
