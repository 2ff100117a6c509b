package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backupCodesRouter(h *UserHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) { c.Set("user_id", "user-1") })
	router.POST("/user/2fa/backup-codes", h.RegenerateBackupCodes)
	return router
}

func postCode(router *gin.Engine, code string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"code": code})
	req := httptest.NewRequest("POST", "/user/2fa/backup-codes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func totpSecretAndCode(t *testing.T) (string, string) {
	t.Helper()
	key, err := totp.Generate(totp.GenerateOpts{Issuer: "Gift Planner", AccountName: "a@b.c"})
	require.NoError(t, err)
	code, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)
	return key.Secret(), code
}

func TestRegenerateBackupCodes_ReplacesAllCodesInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	secret, code := totpSecretAndCode(t)

	mock.ExpectQuery(`SELECT totp_secret, totp_enabled FROM users`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"totp_secret", "totp_enabled"}).AddRow(secret, true))
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM totp_backup_codes`).
		WithArgs("user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	for i := 0; i < 8; i++ {
		mock.ExpectExec(`INSERT INTO totp_backup_codes`).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	w := postCode(backupCodesRouter(&UserHandler{DB: db}), code)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		BackupCodes []string `json:"backup_codes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.BackupCodes, 8)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegenerateBackupCodes_RejectsInvalidCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	secret, _ := totpSecretAndCode(t)

	mock.ExpectQuery(`SELECT totp_secret, totp_enabled FROM users`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"totp_secret", "totp_enabled"}).AddRow(secret, true))
	// Aucune transaction : les anciens codes restent valides.

	w := postCode(backupCodesRouter(&UserHandler{DB: db}), "000000")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegenerateBackupCodes_RequiresEnabledTOTP(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT totp_secret, totp_enabled FROM users`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"totp_secret", "totp_enabled"}).AddRow(nil, false))

	w := postCode(backupCodesRouter(&UserHandler{DB: db}), "123456")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
