package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"DESC uppercase returns DESC", "DESC", "DESC"},
		{"desc lowercase returns DESC", "DESC", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE asset_records;--", "DESC"},
		{"whitespace only returns DESC", "   ", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortOrder(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidateSortField(t *testing.T) {
	allowedFields := map[string]bool{
		"id":           true,
		"created_at":   true,
		"updated_at":   true,
		"asset_number": true,
	}

	tests := []struct {
		name         string
		input        string
		allowedMap   map[string]bool
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", allowedFields, "created_at", "created_at"},
		{"valid field returns field", "asset_number", allowedFields, "created_at", "asset_number"},
		{"valid field id returns field", "id", allowedFields, "created_at", "id"},
		{"invalid field returns default", "invalid_field", allowedFields, "created_at", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE asset_records;--", allowedFields, "created_at", "created_at"},
		{"case sensitive - uppercase invalid", "ASSET_NUMBER", allowedFields, "created_at", "created_at"},
		{"whitespace only returns default", "   ", allowedFields, "created_at", "created_at"},
		{"whitespace around valid field returns field", "  asset_number  ", allowedFields, "created_at", "asset_number"},
		{"field with spaces injection returns default", "asset_number accounts", allowedFields, "created_at", "created_at"},
		{"field with quotes injection returns default", "asset_number'--", allowedFields, "created_at", "created_at"},
		{"empty default with valid field", "asset_number", allowedFields, "", "asset_number"},
		{"empty default with invalid field", "invalid", allowedFields, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateSortField(tt.input, tt.allowedMap, tt.defaultField)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestAssetRecordSortFields(t *testing.T) {
	for _, field := range []string{"id", "created_at", "updated_at", "asset_number", "status", "due_date"} {
		assert.True(t, AssetRecordSortFields[field], "whitelist should contain %q", field)
	}
	assert.False(t, AssetRecordSortFields["settlement_terms"])
}

func TestSQLInjectionPrevention(t *testing.T) {
	injectionPayloads := []string{
		"id; DROP TABLE asset_records;--",
		"id' OR '1'='1",
		"id\"; DROP TABLE asset_records;--",
		"id UNION SELECT * FROM ledger_accounts",
		"id ORDER BY 1",
		"id, (SELECT balance FROM ledger_accounts)",
		"CASE WHEN 1=1 THEN id ELSE asset_number END",
		"id/**/;DROP TABLE asset_records",
		"id\n; DROP TABLE asset_records",
		"id\t; DROP TABLE asset_records",
		"' OR ''='",
		"1; EXEC xp_cmdshell('dir')",
	}

	for _, payload := range injectionPayloads {
		t.Run("field: "+payload[:min(len(payload), 30)], func(t *testing.T) {
			result := ValidateSortField(payload, AssetRecordSortFields, "created_at")
			assert.Equal(t, "created_at", result, "SQL injection payload should be rejected: %s", payload)
		})

		t.Run("order: "+payload[:min(len(payload), 30)], func(t *testing.T) {
			result := ValidateSortOrder(payload)
			assert.Equal(t, "DESC", result, "SQL injection payload should be rejected: %s", payload)
		})
	}
}
