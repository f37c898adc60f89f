package github

import (
	"crypto/rsa"
	"strconv"

	"github.com/golang-jwt/jwt/v4"
)

// AppIdentity is what the App signs its JWT assertions with.
type AppIdentity struct {
	ID  int64
	Key *rsa.PrivateKey
}

// LoadAppIdentity parses the App ID and its PEM encoded RSA private key.
func LoadAppIdentity(appID, appKey string) (*AppIdentity, error) {
	id, err := strconv.ParseInt(appID, 10, 64)
	if err == nil && id <= 0 {
		err = strconv.ErrRange
	}
	if err != nil {
		return nil, &IdentityError{Kind: ErrAppIDInvalid, AppID: appID, Err: err}
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(appKey))
	if err != nil {
		return nil, &IdentityError{Kind: ErrAppKeyInvalid, AppID: appID, Err: err}
	}

	return &AppIdentity{ID: id, Key: key}, nil
}

// Username is the credential username git presents: the App ID in decimal.
func (a *AppIdentity) Username() string {
	return strconv.FormatInt(a.ID, 10)
}
