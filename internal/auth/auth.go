package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/conduit/internal/utils/collectionutils"
	"github.com/siahsang/conduit/internal/web"
)

const (
	UserCtxKey = "user_data"
)

var (
	NotAuthenticatedUser = xerrors.Message("Not authenticated user")
)

type Auth struct {
	secret             []byte
	tokenTTL           time.Duration
	authenticatedUsers *collectionutils.SafeMap[string, *User]
}

func New(secret string, tokenTTL time.Duration) *Auth {
	return &Auth{
		secret:             []byte(secret),
		tokenTTL:           tokenTTL,
		authenticatedUsers: collectionutils.New[string, *User](),
	}
}

func (auth *Auth) GenerateToken(user *User) (string, error) {
	expireAt := time.Now().Add(auth.tokenTTL)
	claim := UserClaim{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signedString, err := token.SignedString(auth.secret)
	if err != nil {
		return "", xerrors.New(err)
	}
	return signedString, nil
}

func (auth *Auth) Authenticate(tokenString string) (*UserClaim, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &UserClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.New("unexpected signing method")
		}
		return auth.secret, nil
	})

	if err != nil {
		return nil, xerrors.New(err)
	}

	if !parsedToken.Valid {
		return nil, xerrors.New("invalid token")
	}

	if claim, ok := parsedToken.Claims.(*UserClaim); ok {
		return claim, nil
	} else {
		return nil, xerrors.New("could not parse claims")
	}
}

func (auth *Auth) GetAuthenticatedUser(r *http.Request) (*User, error) {
	user, ok := web.GetValueFromContext[*User](r, UserCtxKey)
	if !ok {
		return nil, NotAuthenticatedUser
	}

	return user, nil
}

func (auth *Auth) SetAuthenticatedUser(r *http.Request, user *User) *http.Request {
	return web.AddValueToContext(r, UserCtxKey, user)
}

// CacheAuthenticatedUser remembers the resolved user under its session token
// so subsequent requests with the same token skip the database lookup. Tokens
// are verified before the cache is consulted, so an expired token never
// resolves a cached user.
func (auth *Auth) CacheAuthenticatedUser(user *User) {
	auth.authenticatedUsers.Store(user.Token, user)
}

func (auth *Auth) CachedAuthenticatedUser(token string) (*User, bool) {
	return auth.authenticatedUsers.Get(token)
}

func (auth *Auth) IsUserAuthenticated(r *http.Request) bool {
	_, err := auth.GetAuthenticatedUser(r)
	return err == nil
}
