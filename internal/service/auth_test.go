package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/taskhub/internal/domain"
	"github.com/Skotchmaster/taskhub/internal/hash"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/mykafka"
	"github.com/Skotchmaster/taskhub/internal/tokens"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

func TestAuthService_LoginScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Login(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	alice := env.register(t, "alice", "secret1")

	pair, err := env.auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)

	user, err := env.resolver.Resolve(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = env.auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Register(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	u := env.register(t, "alice", "secret1")
	assert.True(t, u.IsActive)
	assert.NotEqual(t, "secret1", u.PasswordHash)
	assert.Equal(t, []string{mykafka.EventUserRegistered}, env.events.types())
	assert.Equal(t, u.ID, env.events.events[0].UserID)

	tests := []struct {
		name string
		req  transport.RegisterRequest
		want error
	}{
		{"bad email", transport.RegisterRequest{Email: "nope", Username: "bobby", Password: "secret1"}, domain.ErrValidation},
		{"short username", transport.RegisterRequest{Email: "b@x.io", Username: "bo", Password: "secret1"}, domain.ErrValidation},
		{"long username", transport.RegisterRequest{Email: "b@x.io", Username: strings.Repeat("a", 51), Password: "secret1"}, domain.ErrValidation},
		{"short password", transport.RegisterRequest{Email: "b@x.io", Username: "bobby", Password: "12345"}, domain.ErrValidation},
		{"email taken", transport.RegisterRequest{Email: "alice@example.com", Username: "bobby", Password: "secret1"}, domain.ErrConflict},
		{"username taken", transport.RegisterRequest{Email: "b@x.io", Username: "alice", Password: "secret1"}, domain.ErrConflict},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAuthService_Register_PublishFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.events.err = errBroker

	u := env.register(t, "alice", "secret1")
	assert.NotZero(t, u.ID)
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice", "secret1")
	pair, err := env.auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	env.deactivate(t, alice.ID)

	_, err = env.auth.Login(ctx, "alice", "secret1")
	assert.ErrorIs(t, err, domain.ErrAccountInactive)

	_, err = env.auth.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = env.auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrAccountInactive)

	_, err = env.resolver.Resolve(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestAuthService_Login_MalformedStoredHash(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.repo.CreateUser(ctx, &models.User{
		Email: "m@example.com", Username: "mallory", PasswordHash: "not-a-bcrypt-hash", IsActive: true,
	}))

	_, err := env.auth.Login(ctx, "mallory", "whatever")
	require.Error(t, err)
	assert.ErrorIs(t, err, hash.ErrMalformedHash)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Refresh_RotatesToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice", "secret1")

	first, err := env.auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	second, err := env.auth.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, "bearer", second.TokenType)

	_, err = env.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	_, err = env.auth.Refresh(ctx, second.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)

	_, err = env.auth.Refresh(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestAuthService_Refresh_AfterExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice", "secret1")

	pair, err := env.auth.Login(ctx, "alice", "secret1")
	require.NoError(t, err)

	env.clock.Advance(tokens.DefaultRefreshTTL)

	_, err = env.auth.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
}

func TestRefreshStore_SaveReplaces(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	t1, exp1, err := env.issuer.IssueRefresh(alice.ID)
	require.NoError(t, err)
	t2, exp2, err := env.issuer.IssueRefresh(alice.ID)
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)

	require.NoError(t, env.store.Save(ctx, alice.ID, t1, exp1))
	require.NoError(t, env.store.Save(ctx, alice.ID, t2, exp2))

	u, err := env.store.ConsumeAndValidate(ctx, t1)
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = env.store.ConsumeAndValidate(ctx, t2)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, alice.ID, u.ID)

	// a successful lookup leaves the record in place
	u, err = env.store.ConsumeAndValidate(ctx, t2)
	require.NoError(t, err)
	assert.NotNil(t, u)
}

func TestRefreshStore_StoresFingerprintOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	tok, exp, err := env.issuer.IssueRefresh(alice.ID)
	require.NoError(t, err)
	require.NoError(t, env.store.Save(ctx, alice.ID, tok, exp))

	_, err = env.repo.FindRefresh(ctx, tok)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rec, err := env.repo.FindRefresh(ctx, tokens.Fingerprint(tok))
	require.NoError(t, err)
	assert.Len(t, rec.Token, 64)
}

func TestRefreshStore_ExpiredRecordIsLazilyDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	tok, _, err := env.issuer.IssueRefresh(alice.ID)
	require.NoError(t, err)
	require.NoError(t, env.store.Save(ctx, alice.ID, tok, env.clock.Now().Add(-time.Second)))

	u, err := env.store.ConsumeAndValidate(ctx, tok)
	require.NoError(t, err)
	assert.Nil(t, u)

	_, err = env.repo.FindRefresh(ctx, tokens.Fingerprint(tok))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	u, err = env.store.ConsumeAndValidate(ctx, tok)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestRefreshStore_RejectsAccessToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	access, exp, err := env.issuer.IssueAccess(alice.ID)
	require.NoError(t, err)
	require.NoError(t, env.store.Save(ctx, alice.ID, access, exp))

	u, err := env.store.ConsumeAndValidate(ctx, access)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestRefreshStore_ConcurrentSavesLeaveOneRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, exp, err := env.issuer.IssueRefresh(alice.ID)
			if assert.NoError(t, err) {
				assert.NoError(t, env.store.Save(ctx, alice.ID, tok, exp))
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, env.refreshRows(t, alice.ID))
}

func TestRefreshStore_PurgeExpired(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")
	bob := env.register(t, "bob", "secret1")

	require.NoError(t, env.store.Save(ctx, alice.ID, "a", env.clock.Now().Add(time.Minute)))
	require.NoError(t, env.store.Save(ctx, bob.ID, "b", env.clock.Now().Add(time.Hour)))

	env.clock.Advance(10 * time.Minute)

	n, err := env.store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.EqualValues(t, 1, env.refreshRows(t, bob.ID))
}

func TestIdentityResolver_Resolve(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	access, _, err := env.issuer.IssueAccess(alice.ID)
	require.NoError(t, err)
	refresh, _, err := env.issuer.IssueRefresh(alice.ID)
	require.NoError(t, err)
	ghost, _, err := env.issuer.IssueAccess(9999)
	require.NoError(t, err)
	badSubject, err := env.codec.Encode(tokens.Claims{
		Kind:             tokens.KindAccess,
		RegisteredClaims: claimsFor("not-a-number", env.clock.Now().Add(time.Minute)),
	})
	require.NoError(t, err)
	noKind, err := env.codec.Encode(tokens.Claims{
		RegisteredClaims: claimsFor(strconv.FormatUint(uint64(alice.ID), 10), env.clock.Now().Add(time.Minute)),
	})
	require.NoError(t, err)
	otherKind, err := env.codec.Encode(tokens.Claims{
		Kind:             "session",
		RegisteredClaims: claimsFor(strconv.FormatUint(uint64(alice.ID), 10), env.clock.Now().Add(time.Minute)),
	})
	require.NoError(t, err)

	u, err := env.resolver.Resolve(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, u.ID)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"garbage", "x.y.z", domain.ErrInvalidToken},
		{"refresh token", refresh, domain.ErrWrongTokenKind},
		{"missing kind", noKind, domain.ErrWrongTokenKind},
		{"unknown kind", otherKind, domain.ErrWrongTokenKind},
		{"unknown user", ghost, domain.ErrUserNotFound},
		{"non-numeric subject", badSubject, domain.ErrUserNotFound},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.resolver.Resolve(ctx, tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	env.clock.Advance(tokens.DefaultAccessTTL)
	_, err = env.resolver.Resolve(ctx, access)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRefreshStore_RejectsTokenWithoutRefreshKind(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "secret1")

	exp := env.clock.Now().Add(time.Hour)
	noKind, err := env.codec.Encode(tokens.Claims{
		RegisteredClaims: claimsFor(strconv.FormatUint(uint64(alice.ID), 10), exp),
	})
	require.NoError(t, err)
	require.NoError(t, env.store.Save(ctx, alice.ID, noKind, exp))

	u, err := env.store.ConsumeAndValidate(ctx, noKind)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestIdentityResolver_AccessTokenSubjectIsUserID(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "secret1")

	pair, err := env.auth.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	claims, err := env.codec.Decode(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, strconv.FormatUint(uint64(alice.ID), 10), claims.Subject)
	assert.Equal(t, tokens.KindAccess, claims.Kind)
}
