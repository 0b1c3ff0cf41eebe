package cache

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/goliatone/go-langtheme/resource"
)

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestKeyString(t *testing.T) {
	if got := MemberKey(resource.KindThemeSetting, 3, 12).String(); got != "theme_settings-3:12" {
		t.Fatalf("unexpected member key: %s", got)
	}
	if got := ThemeKey(resource.KindThemeSetting, 3).String(); got != "theme_settings-3" {
		t.Fatalf("unexpected theme key: %s", got)
	}
	if got := NamedKey("known_languages").String(); got != "known_languages" {
		t.Fatalf("unexpected named key: %s", got)
	}
}

func TestGetOrLoadHonoursWatermark(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Unix(1_000_000, 0)}
	watermark := NewMemoryWatermark(clk.now.Add(-100 * time.Second))
	backend := NewMemoryBackend(WithMemoryClock(clk.Now))
	layer := New(WithBackend(backend), WithWatermark(watermark), WithClock(clk.Now))
	key := ThemeKey(resource.KindThemeSetting, 1)

	calls := 0
	load := func(context.Context) (map[string]string, error) {
		calls++
		return map[string]string{"call": strconv.Itoa(calls)}, nil
	}

	if _, hit, err := GetOrLoad(ctx, layer, key, TierShort, load); err != nil || hit {
		t.Fatalf("expected initial miss, hit=%v err=%v", hit, err)
	}
	value, hit, err := GetOrLoad(ctx, layer, key, TierShort, load)
	if err != nil || !hit || value["call"] != "1" || calls != 1 {
		t.Fatalf("expected cached value, got %v hit=%v calls=%d err=%v", value, hit, calls, err)
	}

	clk.Advance(10 * time.Second)
	watermark.Touch(clk.now.Add(-5 * time.Second))
	value, hit, _ = GetOrLoad(ctx, layer, key, TierShort, load)
	if hit || calls != 2 || value["call"] != "2" {
		t.Fatalf("expected recompute after watermark advanced, hit=%v calls=%d", hit, calls)
	}

	clk.Advance(58 * time.Second)
	value, hit, _ = GetOrLoad(ctx, layer, key, TierShort, load)
	if !hit || value["call"] != "2" {
		t.Fatalf("expected recomputed entry to be served once the window passed, hit=%v value=%v", hit, value)
	}
}

func TestGetOrLoadNamedKeyIgnoresWatermark(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Unix(1_000_000, 0)}
	watermark := NewMemoryWatermark(clk.now.Add(-100 * time.Second))
	backend := NewMemoryBackend(WithMemoryClock(clk.Now))
	layer := New(WithBackend(backend), WithWatermark(watermark), WithClock(clk.Now))
	key := NamedKey("known_languages")

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}
	if _, _, err := GetOrLoad(ctx, layer, key, TierCatalog, load); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	clk.Advance(10 * time.Second)
	watermark.Touch(clk.now)
	value, hit, _ := GetOrLoad(ctx, layer, key, TierCatalog, load)
	if !hit || value != 1 || calls != 1 {
		t.Fatalf("expected catalog entry served after a settings write, hit=%v value=%d calls=%d", hit, value, calls)
	}

	clk.Advance(time.Hour)
	if _, hit, _ := GetOrLoad(ctx, layer, key, TierCatalog, load); hit || calls != 2 {
		t.Fatalf("expected reload once the catalog TTL elapsed, hit=%v calls=%d", hit, calls)
	}
}

func TestGetOrLoadDisabledCallsLoader(t *testing.T) {
	layer := Disabled()
	calls := 0
	for i := 0; i < 2; i++ {
		_, hit, err := GetOrLoad(context.Background(), layer, NamedKey("x"), TierLong, func(context.Context) (int, error) {
			calls++
			return calls, nil
		})
		if err != nil || hit {
			t.Fatalf("expected direct load, hit=%v err=%v", hit, err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected loader on every call, got %d", calls)
	}
	if layer.Enabled() {
		t.Fatalf("expected disabled layer")
	}
}

func TestGetOrLoadLevelZeroBypassesBackend(t *testing.T) {
	backend := NewMemoryBackend()
	layer := New(WithBackend(backend), WithConfig(Config{Level: 0}))
	_, _, _ = GetOrLoad(context.Background(), layer, NamedKey("x"), TierLong, func(context.Context) (int, error) {
		return 1, nil
	})
	if backend.Size() != 0 {
		t.Fatalf("expected nothing stored at level 0")
	}
}

func TestGetOrLoadErrorNotStored(t *testing.T) {
	backend := NewMemoryBackend()
	layer := New(WithBackend(backend))
	boom := errors.New("boom")
	_, _, err := GetOrLoad(context.Background(), layer, NamedKey("x"), TierLong, func(context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if backend.Size() != 0 {
		t.Fatalf("expected failed load not to be stored")
	}
}

func TestMemoryBackendExpires(t *testing.T) {
	clk := &clock{now: time.Unix(0, 0)}
	backend := NewMemoryBackend(WithMemoryClock(clk.Now))
	ctx := context.Background()

	backend.Put(ctx, "k", "v", time.Minute)
	if value, ok := backend.Get(ctx, "k", time.Minute); !ok || value != "v" {
		t.Fatalf("expected hit, got %v %v", value, ok)
	}
	clk.Advance(time.Minute)
	if _, ok := backend.Get(ctx, "k", time.Minute); ok {
		t.Fatalf("expected entry to expire")
	}

	backend.Put(ctx, "k", "v", time.Minute)
	backend.Delete(ctx, "k")
	if _, ok := backend.Get(ctx, "k", time.Minute); ok {
		t.Fatalf("expected entry to be deleted")
	}
}

func TestTTLTiers(t *testing.T) {
	layer := New(WithConfig(Config{Level: 2, ShortTTL: 5 * time.Second}))
	if layer.TTL(TierShort) != 5*time.Second {
		t.Fatalf("unexpected short ttl: %s", layer.TTL(TierShort))
	}
	if layer.TTL(TierLong) != 90*time.Second || layer.TTL(TierCatalog) != time.Hour {
		t.Fatalf("expected default long and catalog ttl")
	}
	if layer.Level() != 2 {
		t.Fatalf("unexpected level: %d", layer.Level())
	}
}
