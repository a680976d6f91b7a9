package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"trading_dashboard/internal/platform/mongodb"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		status         int
		err            error
		expectedStatus int
		expectedKind   string
	}{
		{name: "plain error keeps status", status: http.StatusNotFound, err: errors.New("not found"), expectedStatus: http.StatusNotFound},
		{name: "network", status: http.StatusInternalServerError, err: fmt.Errorf("%w: refused", mongodb.ErrNetwork), expectedStatus: http.StatusServiceUnavailable, expectedKind: "network"},
		{name: "authentication", status: http.StatusBadRequest, err: fmt.Errorf("%w: bad auth", mongodb.ErrAuthentication), expectedStatus: http.StatusServiceUnavailable, expectedKind: "authentication"},
		{name: "closed", status: http.StatusInternalServerError, err: mongodb.ErrClosed, expectedStatus: http.StatusServiceUnavailable, expectedKind: "closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			Error(c, tt.status, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedKind == "" {
				assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.err.Error()), w.Body.String())
				return
			}
			assert.Contains(t, w.Body.String(), fmt.Sprintf(`"kind":%q`, tt.expectedKind))
			assert.Contains(t, w.Body.String(), `"remediation":`)
		})
	}
}
