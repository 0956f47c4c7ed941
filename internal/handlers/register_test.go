package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/sbilibin2017/gw-feedback/internal/models"
	"github.com/sbilibin2017/gw-feedback/internal/services"
)

func validRegisterValues() url.Values {
	return url.Values{
		"username":   {" alice "},
		"password":   {" pw1 "},
		"email":      {"alice@example.com"},
		"first_name": {"Alice"},
		"last_name":  {"Liddell"},
	}
}

func TestRegisterFormHandler(t *testing.T) {
	w := httptest.NewRecorder()
	NewRegisterFormHandler(newRenderer(t)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/register", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	for _, field := range []string{"username", "password", "email", "first_name", "last_name"} {
		assert.Contains(t, w.Body.String(), `name="`+field+`"`)
	}
}

func TestRegisterHandler(t *testing.T) {
	wantForm := models.RegisterForm{
		Username:  "alice",
		Password:  " pw1 ",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Liddell",
	}

	tests := []struct {
		name         string
		values       func() url.Values
		mockSetup    func(svc *MockRegisterer, sessions *MockSessionCreator)
		expectedCode int
		location     string
		bodyContains string
	}{
		{
			name:   "success",
			values: validRegisterValues,
			mockSetup: func(svc *MockRegisterer, sessions *MockSessionCreator) {
				svc.EXPECT().Register(gomock.Any(), wantForm).Return(nil)
				sessions.EXPECT().Create(gomock.Any(), gomock.Any(), "alice").Return(nil)
			},
			expectedCode: http.StatusSeeOther,
			location:     "/users/alice",
		},
		{
			name: "missing fields",
			values: func() url.Values {
				v := validRegisterValues()
				v.Del("email")
				v.Set("first_name", "   ")
				return v
			},
			mockSetup:    func(svc *MockRegisterer, sessions *MockSessionCreator) {},
			expectedCode: http.StatusBadRequest,
			bodyContains: "This field is required.",
		},
		{
			name: "username too long",
			values: func() url.Values {
				v := validRegisterValues()
				v.Set("username", strings.Repeat("a", 21))
				return v
			},
			mockSetup:    func(svc *MockRegisterer, sessions *MockSessionCreator) {},
			expectedCode: http.StatusBadRequest,
			bodyContains: "Field cannot be longer than 20 characters.",
		},
		{
			name:   "username taken",
			values: validRegisterValues,
			mockSetup: func(svc *MockRegisterer, sessions *MockSessionCreator) {
				svc.EXPECT().Register(gomock.Any(), wantForm).Return(services.ErrUserAlreadyExists)
			},
			expectedCode: http.StatusBadRequest,
			bodyContains: "Username is already taken.",
		},
		{
			name:   "password too long",
			values: validRegisterValues,
			mockSetup: func(svc *MockRegisterer, sessions *MockSessionCreator) {
				svc.EXPECT().Register(gomock.Any(), wantForm).Return(services.ErrPasswordTooLong)
			},
			expectedCode: http.StatusBadRequest,
			bodyContains: "Password cannot be longer than 72 bytes.",
		},
		{
			name:   "internal server error",
			values: validRegisterValues,
			mockSetup: func(svc *MockRegisterer, sessions *MockSessionCreator) {
				svc.EXPECT().Register(gomock.Any(), wantForm).Return(errors.New("database failure"))
			},
			expectedCode: http.StatusInternalServerError,
			bodyContains: "Something went wrong.",
		},
		{
			name:   "session error",
			values: validRegisterValues,
			mockSetup: func(svc *MockRegisterer, sessions *MockSessionCreator) {
				svc.EXPECT().Register(gomock.Any(), wantForm).Return(nil)
				sessions.EXPECT().Create(gomock.Any(), gomock.Any(), "alice").Return(errors.New("sign error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := NewMockRegisterer(ctrl)
			sessions := NewMockSessionCreator(ctrl)
			tt.mockSetup(svc, sessions)

			handler := NewRegisterHandler(svc, sessions, newRenderer(t))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newRequest(http.MethodPost, "/register", tt.values(), nil, ""))

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, w.Header().Get("Location"))
			}
			if tt.bodyContains != "" {
				assert.Contains(t, w.Body.String(), tt.bodyContains)
			}
			assert.NotContains(t, w.Body.String(), "pw1")
		})
	}
}

func TestRegisterHandler_UsernameMustBePathSafe(t *testing.T) {
	for _, username := range []string{"a/b", "a?b", "a#b", "a%b", `a\b`, ".."} {
		t.Run(username, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			// No service or session calls are expected.
			handler := NewRegisterHandler(NewMockRegisterer(ctrl), NewMockSessionCreator(ctrl), newRenderer(t))

			v := validRegisterValues()
			v.Set("username", username)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, newRequest(http.MethodPost, "/register", v, nil, ""))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, w.Header().Get("Location"))
			assert.Contains(t, w.Body.String(), `<span class="error">`)
		})
	}
}
