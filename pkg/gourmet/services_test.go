package gourmet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/mode"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"
	healthuc "github.com/kailas-cloud/gourmet/internal/usecase/health"
	restaurantuc "github.com/kailas-cloud/gourmet/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/gourmet/internal/usecase/search"
)

func TestRestaurants_Create(t *testing.T) {
	var got domrest.Attributes
	uc := &mockRestaurantUC{
		createFn: func(_ context.Context, attrs domrest.Attributes) (domrest.Restaurant, error) {
			got = attrs
			return testRestaurant("r-1"), nil
		},
	}
	c := testClient(uc, nil, nil)

	created, err := c.Restaurants().Create(context.Background(), Restaurant{
		ID:            "ignored",
		Name:          "焼肉 牛角",
		Address:       "東京都新宿区歌舞伎町1-2-3",
		Area:          "新宿",
		Location:      &Location{Lat: 35.6938, Lng: 139.7034},
		PriceCategory: "￥￥",
		OpeningHours:  map[string]Hours{"friday": {Open: "17:00", Close: "26:00"}},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got.PriceCategory != domrest.PriceModerate {
		t.Errorf("price category = %q, want %q", got.PriceCategory, domrest.PriceModerate)
	}
	if got.Location == nil || got.Location.Lat != 35.6938 {
		t.Errorf("location = %+v", got.Location)
	}
	if h := got.OpeningHours[domrest.Friday]; h.Close != "26:00" {
		t.Errorf("friday hours = %+v", h)
	}

	if created.ID != "r-1" {
		t.Errorf("id = %q, want r-1", created.ID)
	}
	if created.PriceCategory != "¥¥" || created.PriceMin == nil || *created.PriceMin != 3000 {
		t.Errorf("price = %q %v", created.PriceCategory, created.PriceMin)
	}
	if created.Location == nil || created.Location.Lng != 139.7034 {
		t.Errorf("location = %+v", created.Location)
	}
	if !created.CreatedAt.Equal(testTime) {
		t.Errorf("created_at = %v", created.CreatedAt)
	}
}

func TestRestaurants_Create_InvalidLocation(t *testing.T) {
	uc := &mockRestaurantUC{
		createFn: func(context.Context, domrest.Attributes) (domrest.Restaurant, error) {
			t.Fatal("use case must not be called")
			return domrest.Restaurant{}, nil
		},
	}
	c := testClient(uc, nil, nil)

	_, err := c.Restaurants().Create(context.Background(), Restaurant{
		Name:     "x",
		Location: &Location{Lat: 91, Lng: 0},
	})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("err = %v, want ErrInvalidRecord", err)
	}
}

func TestRestaurants_Create_UnknownPriceKeptForValidation(t *testing.T) {
	var got domrest.PriceCategory
	uc := &mockRestaurantUC{
		createFn: func(_ context.Context, attrs domrest.Attributes) (domrest.Restaurant, error) {
			got = attrs.PriceCategory
			return domrest.Restaurant{}, domain.ErrInvalidRecord
		},
	}
	c := testClient(uc, nil, nil)

	_, err := c.Restaurants().Create(context.Background(), Restaurant{Name: "x", PriceCategory: "cheap"})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("err = %v, want ErrInvalidRecord", err)
	}
	if got != "cheap" {
		t.Errorf("price category = %q, want raw value", got)
	}
}

func TestRestaurants_GetNotFound(t *testing.T) {
	uc := &mockRestaurantUC{
		getFn: func(context.Context, string) (domrest.Restaurant, error) {
			return domrest.Restaurant{}, domain.ErrNotFound
		},
	}
	c := testClient(uc, nil, nil)

	_, err := c.Restaurants().Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRestaurants_List(t *testing.T) {
	uc := &mockRestaurantUC{
		listFn: func(_ context.Context, offset, limit int) (restaurantuc.Page, error) {
			if offset != 2 || limit != 2 {
				t.Errorf("offset, limit = %d, %d", offset, limit)
			}
			return restaurantuc.Page{
				Items: []domrest.Restaurant{testRestaurant("c"), testRestaurant("d")},
				Total: 5,
			}, nil
		},
	}
	c := testClient(uc, nil, nil)

	page, err := c.Restaurants().List(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 5 || len(page.Restaurants) != 2 {
		t.Fatalf("page = %d items of %d", len(page.Restaurants), page.Total)
	}
	if page.Restaurants[1].ID != "d" {
		t.Errorf("second id = %q, want d", page.Restaurants[1].ID)
	}
}

func TestRestaurants_UpdateAndDelete(t *testing.T) {
	var updatedID, deletedID string
	uc := &mockRestaurantUC{
		updateFn: func(_ context.Context, id string, _ domrest.Attributes) (domrest.Restaurant, error) {
			updatedID = id
			return testRestaurant(id), nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	c := testClient(uc, nil, nil)
	ctx := context.Background()

	r, err := c.Restaurants().Update(ctx, "r-9", Restaurant{Name: "焼肉 牛角"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updatedID != "r-9" || r.ID != "r-9" {
		t.Errorf("updated %q, got %q", updatedID, r.ID)
	}
	if err := c.Restaurants().Delete(ctx, "r-9"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deletedID != "r-9" {
		t.Errorf("deleted %q, want r-9", deletedID)
	}
}

func TestSearch(t *testing.T) {
	dist := 0.4
	var got searchuc.Request
	uc := &mockSearchUC{
		searchFn: func(_ context.Context, req searchuc.Request) (result.Result, error) {
			got = req
			hit := result.NewHit(testRestaurant("r-1"), 3, []string{"焼肉"}, &dist)
			return result.New([]result.Hit{hit}, "1件見つかりました", mode.KeywordStructured, []string{"normalize"}), nil
		},
	}
	c := testClient(nil, uc, nil)

	res, err := c.Search(context.Background(), SearchRequest{
		Query: "近くの焼肉",
		Near:  &Location{Lat: 35.69, Lng: 139.70},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if got.Query != "近くの焼肉" || got.Target == nil || got.Target.Lat != 35.69 {
		t.Errorf("request = %+v", got)
	}
	if res.Message != "1件見つかりました" || res.Strategy != string(mode.KeywordStructured) {
		t.Errorf("result = %+v", res)
	}
	if len(res.Hits) != 1 || res.Hits[0].Restaurant.ID != "r-1" || *res.Hits[0].DistanceKm != dist {
		t.Errorf("hits = %+v", res.Hits)
	}
	if len(res.Fallbacks) != 1 || res.Fallbacks[0] != "normalize" {
		t.Errorf("fallbacks = %v", res.Fallbacks)
	}
}

func TestSearch_InvalidLocation(t *testing.T) {
	uc := &mockSearchUC{
		searchFn: func(context.Context, searchuc.Request) (result.Result, error) {
			t.Fatal("use case must not be called")
			return result.Result{}, nil
		},
	}
	c := testClient(nil, uc, nil)

	_, err := c.Search(context.Background(), SearchRequest{Query: "寿司", Near: &Location{Lat: 0, Lng: 200}})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("err = %v, want ErrInvalidQuery", err)
	}
}

func TestSearch_StoreUnavailable(t *testing.T) {
	uc := &mockSearchUC{
		searchFn: func(context.Context, searchuc.Request) (result.Result, error) {
			return result.Result{}, domain.ErrStoreUnavailable
		},
	}
	c := testClient(nil, uc, nil)

	_, err := c.Search(context.Background(), SearchRequest{Query: "寿司"})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
}

func TestAsk(t *testing.T) {
	uc := &mockAssistantUC{
		answerFn: func(_ context.Context, prompt string) (string, error) {
			return "## おすすめ\n" + prompt, nil
		},
	}
	c := testClient(nil, nil, uc)

	answer, err := c.Ask(context.Background(), "デートに良い店")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer != "## おすすめ\nデートに良い店" {
		t.Errorf("answer = %q", answer)
	}
}

func TestRecentQueries(t *testing.T) {
	c := testClient(nil, nil, nil)
	entries, err := c.RecentQueries(context.Background(), 10)
	if err != nil || entries != nil {
		t.Fatalf("disabled log = (%v, %v), want (nil, nil)", entries, err)
	}

	c.queries = &mockQueryLog{
		recentFn: func(_ context.Context, limit int) ([]query.LogEntry, error) {
			return []query.LogEntry{{ID: "q-1", Text: "渋谷 ラーメン", ResultCount: 3, CreatedAt: testTime}}, nil
		},
	}
	entries, err = c.RecentQueries(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentQueries: %v", err)
	}
	if len(entries) != 1 || entries[0].Text != "渋谷 ラーメン" || entries[0].ResultCount != 3 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestHealth(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK, "llm": healthuc.CheckError},
	}}}

	h := c.Health(context.Background())
	if h.Status != HealthDegraded {
		t.Errorf("status = %q, want degraded", h.Status)
	}
	if h.Checks["database"] != "ok" || h.Checks["llm"] != "error" {
		t.Errorf("checks = %v", h.Checks)
	}
	if !h.Ready() {
		t.Error("model outage alone must not make the client unready")
	}
}

func TestHealth_StoreDownNotReady(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckError, "llm": healthuc.CheckOK},
	}}}
	if h := c.Health(context.Background()); h.Ready() {
		t.Errorf("Ready() = true with database down: %+v", h)
	}
}

func TestUsage(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	var gotPeriod domusage.Period
	c := &Client{usageSvc: &mockUsageUC{
		reportFn: func(_ context.Context, p domusage.Period) domusage.Report {
			gotPeriod = p
			return domusage.NewReport(p, start, end, 12, 3400,
				domusage.Budget{TokensLimit: 3400, TokensRemaining: 0, Exhausted: true, ResetsAt: end})
		},
	}}

	u, err := c.Usage(context.Background(), "month")
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if gotPeriod != domusage.PeriodMonth {
		t.Errorf("period = %q, want month", gotPeriod)
	}
	if u.Period != "month" || u.Requests != 12 || u.Tokens != 3400 {
		t.Errorf("usage = %+v", u)
	}
	if !u.Exhausted || u.Remaining != 0 || u.Limit != 3400 {
		t.Errorf("budget = (%v, %d, %d)", u.Exhausted, u.Remaining, u.Limit)
	}
	if !u.End.Equal(end) {
		t.Errorf("end = %v, want %v", u.End, end)
	}
}

func TestUsage_InvalidPeriod(t *testing.T) {
	c := &Client{usageSvc: &mockUsageUC{}}
	if _, err := c.Usage(context.Background(), "week"); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("err = %v, want ErrInvalidQuery", err)
	}
}
