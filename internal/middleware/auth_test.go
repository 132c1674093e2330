package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoUserID отвечает user_id из контекста или 401.
func echoUserID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := GetUserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(strconv.FormatInt(uid, 10)))
	})
}

// Тест: SetLoginCookie + WithAuth — user_id попадает в контекст
func TestWithAuth_ValidCookieSetsUserID(t *testing.T) {
	const secret = "test-secret"
	h := WithAuth(secret)(echoUserID())

	rrCookie := httptest.NewRecorder()
	require.NoError(t, SetLoginCookie(rrCookie, 77, secret))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rrCookie.Result().Cookies() {
		assert.Equal(t, AuthCookieName, c.Name)
		assert.True(t, c.HttpOnly)
		req.AddCookie(c)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "77", rr.Body.String())
}

// Тест: токен в заголовке Authorization: Bearer
func TestWithAuth_BearerHeader(t *testing.T) {
	const secret = "test-secret"
	token, err := GenerateToken(12, secret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	WithAuth(secret)(echoUserID()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "12", rr.Body.String())
}

// Тест: отсутствие токена — запрос проходит анонимно
func TestWithAuth_NoCookieLeavesAnonymous(t *testing.T) {
	rr := httptest.NewRecorder()
	WithAuth("any-secret")(echoUserID()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// Тест: токен, подписанный другим секретом, игнорируется
func TestWithAuth_InvalidToken(t *testing.T) {
	rrCookie := httptest.NewRecorder()
	require.NoError(t, SetLoginCookie(rrCookie, 5, "secret-A"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rrCookie.Result().Cookies() {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	WithAuth("secret-B")(echoUserID()).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestParseToken_Expired(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	claims := Claims{
		UserID: 3,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(tokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)

	_, err = ParseToken(token, "s")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 3}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(token, "s")
	assert.Error(t, err)
}
