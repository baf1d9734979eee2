package auth

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/taskflow/internal/activity"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/store"
)

const goodPassword = "Correct-Horse-42"

func newService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	db, err := store.OpenSQLite(filepath.Join(dir, "taskflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := NewService(db, Options{
		Secret:      "test-secret",
		TTL:         time.Hour,
		SessionPath: filepath.Join(dir, "session.json"),
		Log:         activity.New(filepath.Join(dir, "activity.jsonl")),
	})
	return svc, dir
}

func TestCheckPassword(t *testing.T) {
	c := CheckPassword(goodPassword, goodPassword)
	assert.True(t, c.OK())
	assert.Empty(t, c.Failing())

	c = CheckPassword("short", "other")
	assert.False(t, c.OK())
	assert.Equal(t, []string{"length", "upper", "digit", "special", "match"}, c.Failing())
	assert.Len(t, c.Lines(), 6)

	c = CheckPassword("", "")
	assert.False(t, c.Match, "empty passwords never match")
}

func TestValidatePassword(t *testing.T) {
	err := ValidatePassword(goodPassword, "different")
	require.Error(t, err)
	assert.True(t, clierr.Is(err, clierr.WeakPassword))
	assert.Equal(t, "passwords do not match", err.Error())

	err = ValidatePassword("alllowercase!!1", "alllowercase!!1")
	assert.True(t, clierr.Is(err, clierr.WeakPassword))
}

func TestPasswordCharacterClassesAreASCII(t *testing.T) {
	c := CheckPassword("ÄÖÜäöü١٢٣!!!!!!", "")
	assert.False(t, c.Lower)
	assert.False(t, c.Upper)
	assert.False(t, c.Digit)
	assert.True(t, c.Special)
}

func TestPasswordLongerThanBcryptLimit(t *testing.T) {
	long := "Aa1!" + strings.Repeat("x", 84)

	c := CheckPassword(long, long)
	assert.False(t, c.OK())
	assert.Equal(t, []string{"maxLength"}, c.Failing())
	assert.Contains(t, c.Lines(), "✗ At most 72 bytes")

	_, err := HashPassword(long)
	assert.True(t, clierr.Is(err, clierr.WeakPassword))

	svc, _ := newService(t)
	_, err = svc.Register(context.Background(), "long@example.com", long, long)
	assert.True(t, clierr.Is(err, clierr.WeakPassword))

	exact := "Aa1!" + strings.Repeat("x", MaxPasswordBytes-4)
	assert.True(t, CheckPassword(exact, exact).OK())
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("me@example.com"))
	assert.True(t, clierr.Is(ValidateEmail("me.example.com"), clierr.InvalidEmail))
	assert.True(t, clierr.Is(ValidateEmail("me@localhost"), clierr.InvalidEmail))
	assert.Equal(t, "me@example.com", NormalizeEmail("  Me@Example.COM "))
}

func TestRegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	svc, dir := newService(t)

	id, err := svc.Register(ctx, "Me@Example.com", goodPassword, goodPassword)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", id.Email)
	assert.NotEmpty(t, id.Token)

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, id.UserID, cur.UserID)

	_, err = svc.Register(ctx, "me@example.com", goodPassword, goodPassword)
	assert.True(t, clierr.Is(err, clierr.EmailTaken))

	require.NoError(t, svc.Logout())
	cur, err = svc.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur)
	require.NoError(t, svc.Logout(), "logout is idempotent")

	_, err = svc.Require(ctx)
	assert.True(t, clierr.Is(err, clierr.NotLoggedIn))

	_, err = svc.Login(ctx, "me@example.com", "wrong-Password-1")
	assert.True(t, clierr.Is(err, clierr.InvalidCredentials))
	_, err = svc.Login(ctx, "nobody@example.com", goodPassword)
	assert.True(t, clierr.Is(err, clierr.InvalidCredentials))

	again, err := svc.Login(ctx, "ME@example.com", goodPassword)
	require.NoError(t, err)
	assert.Equal(t, id.UserID, again.UserID)

	entries, err := activity.New(filepath.Join(dir, "activity.jsonl")).Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, activity.ActionRegister, entries[0].Action)
	assert.Equal(t, activity.ActionLogout, entries[1].Action)
	assert.Equal(t, activity.ActionLogin, entries[2].Action)
}

func TestExpiredSessionIsLoggedOut(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Register(ctx, "me@example.com", goodPassword, goodPassword)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur)
}

func TestCorruptSessionFile(t *testing.T) {
	svc, dir := newService(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "session.json"), []byte("{not json"), 0o600))

	_, err := svc.Current(context.Background())
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	secret := []byte("s3cret")

	tok, exp, err := IssueToken(secret, "user-1", "a@b.co", time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := ParseToken(secret, tok, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.Equal(t, "a@b.co", claims.Email)

	_, err = ParseToken([]byte("other"), tok, now)
	assert.Error(t, err)
	_, err = ParseToken(secret, tok, now.Add(2*time.Hour))
	assert.Error(t, err)

	_, _, err = IssueToken(nil, "u", "e", time.Hour, now)
	assert.Error(t, err)
}

func TestServiceWithoutSessionFile(t *testing.T) {
	ctx := context.Background()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "taskflow.db"))
	require.NoError(t, err)
	defer db.Close()

	svc := NewService(db, Options{Secret: "k", TTL: time.Hour})
	id, err := svc.Register(ctx, "api@example.com", goodPassword, goodPassword)
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, id.Token)
	require.NoError(t, err)
	assert.Equal(t, id.UserID, got.UserID)

	cur, err := svc.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, cur)

	_, err = svc.Authenticate(ctx, "garbage")
	assert.True(t, clierr.Is(err, clierr.NotLoggedIn))
}
