package cache_test

import (
	"testing"
	"time"

	"github.com/ecamposv/mkt-performance-go/internal/domain"
	"github.com/ecamposv/mkt-performance-go/internal/infra/cache"
)

func TestCache_SetAndGet(t *testing.T) {
	c := cache.New[*domain.DashboardResult](5 * time.Minute)

	c.Set("dashboard:1:daily", &domain.DashboardResult{Granularity: domain.GranularityDaily})

	got, ok := c.Get("dashboard:1:daily")
	if !ok {
		t.Fatal("expected key to exist")
	}
	if got.Granularity != domain.GranularityDaily {
		t.Errorf("unexpected cached value: %+v", got)
	}
}

func TestCache_GetMiss(t *testing.T) {
	c := cache.New[*domain.DashboardResult](5 * time.Minute)

	if _, ok := c.Get("nonexistent"); ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCache_Expiration(t *testing.T) {
	c := cache.New[*domain.DashboardResult](50 * time.Millisecond)

	c.Set("k", &domain.DashboardResult{})
	time.Sleep(100 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected cache entry to be expired")
	}
}

func TestCache_Delete(t *testing.T) {
	c := cache.New[*domain.DashboardResult](5 * time.Minute)

	c.Set("k", &domain.DashboardResult{})
	c.Delete("k")

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected key to be deleted")
	}
}
