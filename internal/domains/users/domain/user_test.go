package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCookieMaxAge(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		expires string
		want    time.Duration
	}{
		{"empty", "", time.Hour},
		{"garbage", "tomorrow", time.Hour},
		{"past", "2024-05-01T09:00:00Z", time.Hour},
		{"future", "2024-05-01T12:30:00.500Z", 2*time.Hour + 30*time.Minute},
		{"capped", "2024-06-01T10:00:00Z", 7 * 24 * time.Hour},
		{"date only", "2024-05-02", 14 * time.Hour},
		{"date only past", "2024-05-01", time.Hour},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, CookieMaxAge(tc.expires, now))
		})
	}
}

func TestNewCookie(t *testing.T) {
	_, err := NewCookie("  ", "", time.Now())
	require.ErrorIs(t, err, ErrEmptyToken)

	cookie, err := NewCookie("tok", "", time.Now())
	require.NoError(t, err)
	require.Equal(t, Cookie{Name: "ps_access_token", Value: "tok", MaxAge: time.Hour}, cookie)
}

func TestRegistrationDefaults(t *testing.T) {
	reg := Registration{Name: " Asha ", Email: "asha@example.com", Password: "secret1"}
	reg.ApplyDefaults()
	require.Equal(t, "Asha", reg.Name)
	require.Equal(t, "user", reg.Role)
	require.Equal(t, []string{"seller"}, reg.UserType)
	require.Equal(t, "individual", reg.SellerType)

	reg.UserType[0] = "buyer"
	require.Equal(t, []string{"seller"}, DefaultUserType)
}

func TestValidator(t *testing.T) {
	v := NewValidator()
	require.Empty(t, v.Check(Credentials{Email: "a@b.co", Password: "x"}))

	errs := v.Check(Credentials{Email: "nope"})
	require.Equal(t, FieldErrors{"email": "Invalid email", "password": "Password required"}, errs)

	errs = v.Check(Registration{Name: "A", Email: "a@b.co", Password: "123"})
	require.Equal(t, FieldErrors{"name": "Name too short", "password": "Min 6 chars"}, errs)
}
