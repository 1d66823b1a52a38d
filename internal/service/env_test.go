package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/taskhub/internal/access"
	"github.com/Skotchmaster/taskhub/internal/db"
	"github.com/Skotchmaster/taskhub/internal/hash"
	"github.com/Skotchmaster/taskhub/internal/models"
	"github.com/Skotchmaster/taskhub/internal/mykafka"
	"github.com/Skotchmaster/taskhub/internal/repo"
	"github.com/Skotchmaster/taskhub/internal/tokens"
	"github.com/Skotchmaster/taskhub/internal/transport"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []mykafka.Event
	topics []string
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, _ string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event.(mykafka.Event))
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testEnv struct {
	repo     *repo.GormRepo
	clock    *testClock
	codec    *tokens.Codec
	issuer   *tokens.Issuer
	store    *RefreshStore
	auth     *AuthService
	resolver *IdentityResolver
	projects *ProjectService
	tasks    *TaskService
	events   *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := repo.NewGormRepo(gdb)
	clock := &testClock{t: time.Now().UTC().Truncate(time.Second)}
	codec, err := tokens.NewCodec(tokens.Config{Secret: []byte("test-secret")}, clock.Now)
	require.NoError(t, err)
	issuer := tokens.NewIssuer(codec, tokens.Config{})
	store := NewRefreshStore(r, r, codec)
	events := &recordingPublisher{}
	evaluator := access.NewEvaluator(r)

	return &testEnv{
		repo:   r,
		clock:  clock,
		codec:  codec,
		issuer: issuer,
		store:  store,
		auth: &AuthService{
			Users:  r,
			Store:  store,
			Issuer: issuer,
			Hasher: hash.NewHasher(bcrypt.MinCost),
			Events: events,
		},
		resolver: &IdentityResolver{Codec: codec, Users: r},
		projects: &ProjectService{Repo: r, Access: evaluator, Events: events},
		tasks:    &TaskService{Repo: r, Access: evaluator, Events: events, Now: clock.Now},
		events:   events,
	}
}

func (e *testEnv) deactivate(t *testing.T, userID uint) {
	t.Helper()
	require.NoError(t, e.repo.DB.Model(&models.User{}).Where("id = ?", userID).Update("is_active", false).Error)
}

func (e *testEnv) refreshRows(t *testing.T, userID uint) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.repo.DB.Model(&models.RefreshToken{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func (e *testEnv) register(t *testing.T, username, password string) *models.User {
	t.Helper()

	u, err := e.auth.Register(context.Background(), transport.RegisterRequest{
		Email:    username + "@example.com",
		Username: username,
		Password: password,
	})
	require.NoError(t, err)
	return u
}

func claimsFor(subject string, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: subject, ExpiresAt: jwt.NewNumericDate(exp)}
}

var errBroker = errors.New("broker down")
