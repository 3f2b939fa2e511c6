package gourmet

import (
	"context"
	"time"

	"github.com/kailas-cloud/gourmet/internal/domain/geo"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"
	healthuc "github.com/kailas-cloud/gourmet/internal/usecase/health"
	restaurantuc "github.com/kailas-cloud/gourmet/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/gourmet/internal/usecase/search"
)

// --- usageUseCase mock ---

type mockUsageUC struct {
	reportFn func(ctx context.Context, period domusage.Period) domusage.Report
}

func (m *mockUsageUC) Report(ctx context.Context, period domusage.Period) domusage.Report {
	return m.reportFn(ctx, period)
}

// --- restaurantUseCase mock ---

type mockRestaurantUC struct {
	createFn func(ctx context.Context, attrs domrest.Attributes) (domrest.Restaurant, error)
	getFn    func(ctx context.Context, id string) (domrest.Restaurant, error)
	listFn   func(ctx context.Context, offset, limit int) (restaurantuc.Page, error)
	updateFn func(ctx context.Context, id string, attrs domrest.Attributes) (domrest.Restaurant, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockRestaurantUC) Create(ctx context.Context, attrs domrest.Attributes) (domrest.Restaurant, error) {
	return m.createFn(ctx, attrs)
}

func (m *mockRestaurantUC) Get(ctx context.Context, id string) (domrest.Restaurant, error) {
	return m.getFn(ctx, id)
}

func (m *mockRestaurantUC) List(ctx context.Context, offset, limit int) (restaurantuc.Page, error) {
	return m.listFn(ctx, offset, limit)
}

func (m *mockRestaurantUC) Update(
	ctx context.Context, id string, attrs domrest.Attributes,
) (domrest.Restaurant, error) {
	return m.updateFn(ctx, id, attrs)
}

func (m *mockRestaurantUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, req searchuc.Request) (result.Result, error)
}

func (m *mockSearchUC) Search(ctx context.Context, req searchuc.Request) (result.Result, error) {
	return m.searchFn(ctx, req)
}

// --- assistantUseCase mock ---

type mockAssistantUC struct {
	answerFn func(ctx context.Context, prompt string) (string, error)
}

func (m *mockAssistantUC) Answer(ctx context.Context, prompt string) (string, error) {
	return m.answerFn(ctx, prompt)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- queryLogReader mock ---

type mockQueryLog struct {
	recentFn func(ctx context.Context, limit int) ([]query.LogEntry, error)
}

func (m *mockQueryLog) Recent(ctx context.Context, limit int) ([]query.LogEntry, error) {
	return m.recentFn(ctx, limit)
}

// --- helpers ---

var testTime = time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func testRestaurant(id string) domrest.Restaurant {
	return domrest.Reconstruct(id, domrest.Attributes{
		Name:          "焼肉 牛角",
		Address:       "東京都新宿区歌舞伎町1-2-3",
		Area:          "新宿",
		Location:      &geo.Point{Lat: 35.6938, Lng: 139.7034},
		Cuisine:       []string{"焼肉"},
		PriceCategory: domrest.PriceModerate,
		PriceMin:      intPtr(3000),
		RatingAverage: 4.1,
		RatingCount:   120,
		OpeningHours: map[domrest.Weekday]domrest.Hours{
			domrest.Friday: {Open: "17:00", Close: "26:00"},
		},
	}, testTime, testTime)
}

func testClient(restSvc restaurantUseCase, searchSvc searchUseCase, assistSvc assistantUseCase) *Client {
	return &Client{
		restSvc:   restSvc,
		searchSvc: searchSvc,
		assistSvc: assistSvc,
	}
}
