package tokens

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Pair struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer takes its lifetimes from cfg; zero or inverted values fall back
// to the defaults.
func NewIssuer(codec *Codec, cfg Config) *Issuer {
	accessTTL, refreshTTL := cfg.AccessTTL, cfg.RefreshTTL
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= accessTTL {
		refreshTTL = DefaultRefreshTTL
	}
	if refreshTTL <= accessTTL {
		refreshTTL = accessTTL + DefaultRefreshTTL
	}
	return &Issuer{codec: codec, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (i *Issuer) Now() time.Time {
	return i.codec.Now()
}

func (i *Issuer) IssueAccess(userID uint) (string, time.Time, error) {
	return i.issue(userID, KindAccess, i.codec.Now(), i.accessTTL)
}

func (i *Issuer) IssueRefresh(userID uint) (string, time.Time, error) {
	return i.issue(userID, KindRefresh, i.codec.Now(), i.refreshTTL)
}

// IssuePair signs both tokens against the same instant.
func (i *Issuer) IssuePair(userID uint) (*Pair, error) {
	now := i.codec.Now()

	access, accessExp, err := i.issue(userID, KindAccess, now, i.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := i.issue(userID, KindRefresh, now, i.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (i *Issuer) issue(userID uint, kind Kind, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := jwt.NewNumericDate(now.Add(ttl))
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: exp,
		},
	}

	token, err := i.codec.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp.Time, nil
}
