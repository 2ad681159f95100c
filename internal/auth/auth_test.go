package auth

import (
	"testing"
	"time"

	"store_rating_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Admin@123!", nil},
		{"Abcdefg!", nil},
		{"Ab!", ErrPasswordLength},
		{"Abcdefghijklmnop!", ErrPasswordLength},
		{"abcdefg!1", ErrPasswordComplexity},
		{"Abcdefgh1", ErrPasswordComplexity},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePassword(tt.password))
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("User@123!")
	require.NoError(t, err)
	assert.NotEqual(t, "User@123!", hash)
	assert.True(t, CheckPasswordHash("User@123!", hash))
	assert.False(t, CheckPasswordHash("User@124!", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Generate(42, models.UserRoleOwner)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.UserRoleOwner, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenRejected(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	token, err := m.Generate(1, models.UserRoleUser)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenManager("other", time.Hour).Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenManager("secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := Claims{
			UserID: 1,
			Role:   models.UserRoleAdmin,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = m.Parse(unsigned)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		claims := Claims{
			UserID: 1,
			Role:   "superuser",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = m.Parse(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestCheck(t *testing.T) {
	admin := &Principal{UserID: 1, Role: models.UserRoleAdmin}
	user := &Principal{UserID: 2, Role: models.UserRoleUser}
	owner := &Principal{UserID: 3, Role: models.UserRoleOwner}

	tests := []struct {
		name   string
		p      *Principal
		action Action
		facts  Facts
		want   error
	}{
		{"anonymous lists stores", nil, ActionListStores, Facts{}, nil},
		{"anonymous views store", nil, ActionViewStore, Facts{}, nil},
		{"anonymous cannot rate", nil, ActionCreateRating, Facts{}, ErrUnauthenticated},
		{"admin creates store", admin, ActionCreateStore, Facts{}, nil},
		{"user cannot create store", user, ActionCreateStore, Facts{}, ErrForbidden},
		{"owner cannot delete store", owner, ActionDeleteStore, Facts{}, ErrForbidden},
		{"user rates", user, ActionCreateRating, Facts{}, nil},
		{"owner rates", owner, ActionCreateRating, Facts{}, nil},
		{"admin cannot rate", admin, ActionCreateRating, Facts{}, ErrForbidden},
		{"admin sees any raters", admin, ActionViewRaters, Facts{}, nil},
		{"owner sees own raters", owner, ActionViewRaters, Facts{OwnsResource: true}, nil},
		{"owner cannot see foreign raters", owner, ActionViewRaters, Facts{}, ErrForbidden},
		{"user cannot see raters", user, ActionViewRaters, Facts{OwnsResource: true}, ErrForbidden},
		{"anyone changes password", owner, ActionChangeOwnPwd, Facts{}, nil},
		{"anonymous cannot change password", nil, ActionChangeOwnPwd, Facts{}, ErrUnauthenticated},
		{"admin deletes other", admin, ActionDeleteUser, Facts{}, nil},
		{"admin cannot delete self", admin, ActionDeleteUser, Facts{TargetsSelf: true}, ErrSelfTarget},
		{"user cannot list users", user, ActionListUsers, Facts{}, ErrForbidden},
		{"owner cannot view metrics", owner, ActionViewMetrics, Facts{}, ErrForbidden},
		{"unknown action denied", admin, Action("stores:burn"), Facts{}, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.p, tt.action, tt.facts))
		})
	}
}

func TestCheckRoleIgnoresOwnership(t *testing.T) {
	owner := &Principal{UserID: 3, Role: models.UserRoleOwner}
	assert.NoError(t, CheckRole(owner, ActionViewRaters))
	assert.ErrorIs(t, Check(owner, ActionViewRaters, Facts{}), ErrForbidden)

	admin := &Principal{UserID: 1, Role: models.UserRoleAdmin}
	assert.NoError(t, CheckRole(admin, ActionDeleteUser))
}

func TestRaterScopedActions(t *testing.T) {
	assert.True(t, IsRaterScoped(ActionUpdateRating))
	assert.True(t, IsRaterScoped(ActionDeleteRating))
	assert.False(t, IsRaterScoped(ActionCreateRating))
}
