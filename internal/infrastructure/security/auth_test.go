package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key-for-testing-only-32-bytes"

// TokenServiceTestSuite provides a test suite for TokenService
type TokenServiceTestSuite struct {
	suite.Suite
	service *TokenService
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.service = NewTokenService(testSecret, time.Hour, zap.NewNop())
}

func (suite *TokenServiceTestSuite) TestIssueAndValidate() {
	// Arrange
	userID := uuid.New()

	// Act
	token, expiresAt, err := suite.service.Issue(userID, "ChefAnna")
	require.NoError(suite.T(), err)
	identity, err := suite.service.Validate(token)

	// Assert
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), userID.String(), identity.UserID)
	assert.Equal(suite.T(), "ChefAnna", identity.Username)
	assert.WithinDuration(suite.T(), time.Now().Add(time.Hour), expiresAt, 5*time.Second)
}

func (suite *TokenServiceTestSuite) TestValidate_Rejections() {
	suite.Run("WrongSecret", func() {
		other := NewTokenService("another-secret-another-secret-000", time.Hour, zap.NewNop())
		token, _, err := other.Issue(uuid.New(), "chef")
		require.NoError(suite.T(), err)

		_, err = suite.service.Validate(token)
		assert.ErrorIs(suite.T(), err, ErrInvalidToken)
	})

	suite.Run("Expired", func() {
		token, _, err := suite.service.Issue(uuid.New(), "chef")
		require.NoError(suite.T(), err)

		later := NewTokenService(testSecret, time.Hour, zap.NewNop())
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err = later.Validate(token)
		assert.ErrorIs(suite.T(), err, ErrInvalidToken)
	})

	suite.Run("Garbage", func() {
		_, err := suite.service.Validate("not.a.token")
		assert.ErrorIs(suite.T(), err, ErrInvalidToken)
	})

	suite.Run("NoneAlgorithm", func() {
		claims := &Claims{UserID: uuid.NewString(), TokenType: AccessToken}
		token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(suite.T(), err)

		_, err = suite.service.Validate(signed)
		assert.ErrorIs(suite.T(), err, ErrInvalidToken)
	})
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
