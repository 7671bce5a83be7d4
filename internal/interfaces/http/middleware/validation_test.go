package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/factoring/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	assert.NotPanics(t, SetupValidator)

	v, ok := binding.Validator.Engine().(*validator.Validate)
	assert.True(t, ok)
	assert.NotNil(t, v)
}

func TestFormatValidationErrors(t *testing.T) {
	type createAssetInput struct {
		AssetNumber uint64 `json:"asset_number" binding:"required,min=1"`
		Recipient   string `json:"recipient" binding:"required,uuid"`
	}

	SetupValidator()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/assets", func(c *gin.Context) {
		var req createAssetInput
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("returns per-field details for invalid input", func(t *testing.T) {
		body := strings.NewReader(`{"asset_number": 0, "recipient": "not-a-uuid"}`)
		req := httptest.NewRequest("POST", "/assets", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		require.NoError(t, err)

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 2)

		// Field names come from json tags, not Go struct fields
		fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
		assert.Contains(t, fields, "asset_number")
		assert.Contains(t, fields, "recipient")
	})

	t.Run("passes valid input through", func(t *testing.T) {
		body := strings.NewReader(`{"asset_number": 7, "recipient": "550e8400-e29b-41d4-a716-446655440000"}`)
		req := httptest.NewRequest("POST", "/assets", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("includes request ID when present", func(t *testing.T) {
		idRouter := gin.New()
		idRouter.Use(RequestID())
		idRouter.POST("/assets", func(c *gin.Context) {
			var req createAssetInput
			if err := c.ShouldBindJSON(&req); err != nil {
				HandleValidationError(c, err)
				return
			}
		})

		body := strings.NewReader(`{}`)
		req := httptest.NewRequest("POST", "/assets", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-ID", "req-validate-1")
		w := httptest.NewRecorder()
		idRouter.ServeHTTP(w, req)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, "req-validate-1", resp.Error.RequestID)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type terms struct {
		Required string `binding:"required"`
		Email    string `binding:"email"`
		Min      string `binding:"min=5"`
		Max      string `binding:"max=10"`
		Len      string `binding:"len=5"`
		UUID     string `binding:"uuid"`
		OneOf    string `binding:"oneof=OPEN SETTLED"`
		GTE      int    `binding:"gte=10"`
		URL      string `binding:"url"`
	}

	// The fixture uses gin's binding tags, which a bare validator ignores.
	v := validator.New()
	v.SetTagName("binding")

	expectations := map[string]string{
		"Required": "This field is required",
		"Email":    "Invalid email format",
		"Min":      "Must be at least 5 characters",
		"Max":      "Must be at most 10 characters",
		"Len":      "Must be exactly 5 characters",
		"UUID":     "Invalid UUID format",
		"OneOf":    "Must be one of: OPEN SETTLED",
		"URL":      "Invalid URL format",
	}

	err := v.Struct(terms{Email: "bad", Min: "ab", Max: "this is way too long", Len: "ab", UUID: "bad", OneOf: "CLOSED", GTE: 1, URL: "bad"})
	require.Error(t, err)

	for _, e := range err.(validator.ValidationErrors) {
		if expected, ok := expectations[e.StructField()]; ok {
			assert.Equal(t, expected, getValidationMessage(e), "field %s", e.StructField())
		}
	}
}

func TestHandleValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type input struct {
		Name string `json:"name" binding:"required"`
	}

	router := gin.New()
	router.POST("/assets", func(c *gin.Context) {
		var in input
		if err := c.ShouldBindJSON(&in); err != nil {
			HandleValidationError(c, err)
			return
		}
	})

	body := strings.NewReader(`{}`)
	req := httptest.NewRequest("POST", "/assets", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeValidation)
}
