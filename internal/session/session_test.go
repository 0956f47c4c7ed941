package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestWithCookies replays the cookies set on rr into a new request.
func requestWithCookies(rr *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestManager_CreateAndGetUsername(t *testing.T) {
	m := New(WithSecretKey("test-secret"), WithExpiration(time.Minute))
	ctx := context.Background()

	rr := httptest.NewRecorder()
	require.NoError(t, m.Create(ctx, rr, "alice"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 60, cookies[0].MaxAge)

	username, err := m.GetUsername(ctx, requestWithCookies(rr))
	assert.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestManager_GetUsername_NoCookie(t *testing.T) {
	m := New(WithSecretKey("test-secret"))

	_, err := m.GetUsername(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestManager_GetUsername_Rejected(t *testing.T) {
	ctx := context.Background()
	signer := New(WithSecretKey("test-secret"), WithExpiration(time.Minute))

	validToken, err := signer.Generate(ctx, "alice")
	require.NoError(t, err)

	expiredToken, err := New(WithSecretKey("test-secret"), WithExpiration(-time.Minute)).Generate(ctx, "alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		reader *Manager
		value  string
	}{
		{name: "wrong secret", reader: New(WithSecretKey("other-secret")), value: validToken},
		{name: "expired", reader: signer, value: expiredToken},
		{name: "tampered", reader: signer, value: validToken + "x"},
		{name: "garbage", reader: signer, value: "invalid.token.string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: tt.value})

			username, err := tt.reader.GetUsername(ctx, req)
			assert.Error(t, err)
			assert.Empty(t, username)
		})
	}
}

func TestManager_CustomCookie(t *testing.T) {
	m := New(WithSecretKey("s"), WithCookieName("sid"), WithSecureCookie(true))

	rr := httptest.NewRecorder()
	require.NoError(t, m.Create(context.Background(), rr, "bob"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].Secure)
}

func TestManager_Destroy_ClearsCookie(t *testing.T) {
	m := New(WithSecretKey("test-secret"))
	ctx := context.Background()

	created := httptest.NewRecorder()
	require.NoError(t, m.Create(ctx, created, "alice"))

	rr := httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, rr, requestWithCookies(created)))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestManager_WithRevoker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	revoker := NewMockRevoker(ctrl)
	m := New(WithSecretKey("test-secret"), WithExpiration(time.Hour), WithRevoker(revoker))
	ctx := context.Background()

	created := httptest.NewRecorder()
	require.NoError(t, m.Create(ctx, created, "alice"))
	req := requestWithCookies(created)

	claims, err := m.GetClaims(ctx, req.Cookies()[0].Value)
	require.NoError(t, err)

	t.Run("active session", func(t *testing.T) {
		revoker.EXPECT().IsRevoked(gomock.Any(), claims.ID).Return(false, nil)
		revoker.EXPECT().UserRevokedAt(gomock.Any(), "alice").Return(time.Time{}, nil)

		username, err := m.GetUsername(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, "alice", username)
	})

	t.Run("destroy revokes for the remaining lifetime", func(t *testing.T) {
		revoker.EXPECT().
			Revoke(gomock.Any(), claims.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, ttl time.Duration) error {
				assert.Greater(t, ttl, 59*time.Minute)
				assert.LessOrEqual(t, ttl, time.Hour)
				return nil
			})

		assert.NoError(t, m.Destroy(ctx, httptest.NewRecorder(), req))
	})

	t.Run("revoked session", func(t *testing.T) {
		revoker.EXPECT().IsRevoked(gomock.Any(), claims.ID).Return(true, nil)

		_, err := m.GetUsername(ctx, req)
		assert.ErrorIs(t, err, ErrRevokedSession)
	})

	t.Run("revoker failure", func(t *testing.T) {
		revoker.EXPECT().IsRevoked(gomock.Any(), claims.ID).Return(false, errors.New("redis down"))

		_, err := m.GetUsername(ctx, req)
		assert.Error(t, err)
	})

	t.Run("destroy without session skips revoker", func(t *testing.T) {
		err := m.Destroy(ctx, httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NoError(t, err)
	})
}

func TestManager_DestroyAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	revoker := NewMockRevoker(ctrl)
	m := New(WithSecretKey("test-secret"), WithExpiration(time.Hour), WithRevoker(revoker))
	ctx := context.Background()

	created := httptest.NewRecorder()
	require.NoError(t, m.Create(ctx, created, "alice"))
	otherDevice := requestWithCookies(created)

	var revokedAt time.Time
	revoker.EXPECT().
		RevokeUser(gomock.Any(), "alice", gomock.Any(), time.Hour).
		DoAndReturn(func(_ context.Context, _ string, at time.Time, _ time.Duration) error {
			revokedAt = at
			return nil
		})

	rr := httptest.NewRecorder()
	require.NoError(t, m.DestroyAll(ctx, rr, "alice"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Less(t, cookies[0].MaxAge, 0)
	assert.WithinDuration(t, time.Now(), revokedAt, 2*time.Second)

	t.Run("tokens issued before are refused", func(t *testing.T) {
		revoker.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
		revoker.EXPECT().UserRevokedAt(gomock.Any(), "alice").Return(revokedAt, nil)

		_, err := m.GetUsername(ctx, otherDevice)
		assert.ErrorIs(t, err, ErrRevokedSession)
	})

	t.Run("tokens issued after are accepted", func(t *testing.T) {
		revoker.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
		revoker.EXPECT().UserRevokedAt(gomock.Any(), "alice").Return(time.Now().Add(-time.Minute), nil)

		username, err := m.GetUsername(ctx, otherDevice)
		assert.NoError(t, err)
		assert.Equal(t, "alice", username)
	})

	t.Run("lookup failure", func(t *testing.T) {
		revoker.EXPECT().IsRevoked(gomock.Any(), gomock.Any()).Return(false, nil)
		revoker.EXPECT().UserRevokedAt(gomock.Any(), "alice").Return(time.Time{}, errors.New("redis down"))

		_, err := m.GetUsername(ctx, otherDevice)
		assert.Error(t, err)
	})
}

func TestManager_DestroyAll_WithoutRevoker(t *testing.T) {
	m := New(WithSecretKey("test-secret"))

	rr := httptest.NewRecorder()
	require.NoError(t, m.DestroyAll(context.Background(), rr, "alice"))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
}
