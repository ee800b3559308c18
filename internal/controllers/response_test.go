package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/franciscosanchezn/gin-menu-api/internal/models"
	"github.com/franciscosanchezn/gin-menu-api/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		err          error
		expectedCode int
		expectedMsg  string
	}{
		{fmt.Errorf("%w: name", services.ErrValidation), http.StatusBadRequest, models.ErrValidationFailed},
		{fmt.Errorf("%w: menu", services.ErrNotFound), http.StatusNotFound, models.ErrNotFound},
		{services.ErrConflict, http.StatusConflict, models.ErrConflict},
		{services.ErrTransactionAborted, http.StatusConflict, models.ErrTransactionAborted},
		{services.ErrEmailInUse, http.StatusBadRequest, models.MsgEmailAlreadyInUse},
		{services.ErrInvalidCredentials, http.StatusUnauthorized, models.MsgInvalidCredentials},
		{services.ErrInvalidResetToken, http.StatusUnauthorized, models.MsgInvalidOrExpiredToken},
		{services.ErrInvalidSessionToken, http.StatusUnauthorized, models.MsgInvalidCookie},
		{services.ErrSessionExpired, http.StatusForbidden, models.MsgExpiredCookie},
		{services.ErrStoreUnavailable, http.StatusInternalServerError, models.ErrInternalServer},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, models.ErrInternalServer},
	}

	for _, tt := range testCases {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := errorStatus(tt.err)
			assert.Equal(t, tt.expectedCode, status)
			assert.Equal(t, tt.expectedMsg, code)
		})
	}
}
