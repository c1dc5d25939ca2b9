package rbac

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	perms map[string][]string
	calls int
}

func (s *stubSource) RolePermissions(_ context.Context, roleName string) ([]string, error) {
	s.calls++
	return s.perms[roleName], nil
}

func newTestCache(t *testing.T, source PermissionSource) (*PermissionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPermissionCache(client, source, nil, time.Minute), mr
}

func TestRolePermissionsCachesSourceReads(t *testing.T) {
	source := &stubSource{perms: map[string][]string{
		"HR": {"employees:read", "employees:write"},
	}}
	cache, _ := newTestCache(t, source)
	ctx := context.Background()

	perms, err := cache.RolePermissions(ctx, "HR")
	require.NoError(t, err)
	assert.Equal(t, []string{"employees:read", "employees:write"}, perms)
	assert.Equal(t, 1, source.calls)

	perms, err = cache.RolePermissions(ctx, "HR")
	require.NoError(t, err)
	assert.Equal(t, []string{"employees:read", "employees:write"}, perms)
	assert.Equal(t, 1, source.calls, "second read must be served from cache")
}

func TestRolePermissionsCacheExpires(t *testing.T) {
	source := &stubSource{perms: map[string][]string{"PM": {"timesheets:approve"}}}
	cache, mr := newTestCache(t, source)
	ctx := context.Background()

	_, err := cache.RolePermissions(ctx, "PM")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.RolePermissions(ctx, "PM")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestInvalidateDropsRole(t *testing.T) {
	source := &stubSource{perms: map[string][]string{"ADMIN": {"*"}}}
	cache, _ := newTestCache(t, source)
	ctx := context.Background()

	_, err := cache.RolePermissions(ctx, "ADMIN")
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx, "ADMIN"))

	_, err = cache.RolePermissions(ctx, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestRolePermissionsDegradesWhenRedisDown(t *testing.T) {
	source := &stubSource{perms: map[string][]string{"HR": {"employees:read"}}}
	cache, mr := newTestCache(t, source)
	mr.Close()

	perms, err := cache.RolePermissions(context.Background(), "HR")
	require.NoError(t, err)
	assert.Equal(t, []string{"employees:read"}, perms)
}
