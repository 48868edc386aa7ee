package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"

	"github.com/bigkaa/foodwagen/internal/domain/model"
	"github.com/bigkaa/foodwagen/internal/foodclient"
	"github.com/bigkaa/foodwagen/internal/validation"
)

// --- Mock Food API ---

// mockFoodAPI — мок FoodAPI для unit-тестов. Считает вызовы каждого метода.
type mockFoodAPI struct {
	listFn   func(ctx context.Context) ([]model.Food, error)
	searchFn func(ctx context.Context, query string) ([]model.Food, error)
	createFn func(ctx context.Context, food model.Food) (model.Food, error)
	updateFn func(ctx context.Context, id string, d model.FoodDraft) (model.Food, error)
	deleteFn func(ctx context.Context, id string) error

	listCalls, searchCalls, createCalls, updateCalls, deleteCalls atomic.Int32
}

func (m *mockFoodAPI) List(ctx context.Context) ([]model.Food, error) {
	m.listCalls.Add(1)
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockFoodAPI) Search(ctx context.Context, query string) ([]model.Food, error) {
	m.searchCalls.Add(1)
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return nil, nil
}

func (m *mockFoodAPI) Create(ctx context.Context, food model.Food) (model.Food, error) {
	m.createCalls.Add(1)
	if m.createFn != nil {
		return m.createFn(ctx, food)
	}
	return food, nil
}

func (m *mockFoodAPI) Update(ctx context.Context, id string, d model.FoodDraft) (model.Food, error) {
	m.updateCalls.Add(1)
	if m.updateFn != nil {
		return m.updateFn(ctx, id, d)
	}
	return d.Food(), nil
}

func (m *mockFoodAPI) Delete(ctx context.Context, id string) error {
	m.deleteCalls.Add(1)
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// testLogger создаёт logger для тестов.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// makeFoods создаёт n валидных записей с id "1".."n".
func makeFoods(n int) []model.Food {
	foods := make([]model.Food, n)
	for i := range foods {
		foods[i] = model.Food{
			ID:               fmt.Sprintf("%d", i+1),
			FoodName:         fmt.Sprintf("Food %d", i+1),
			FoodRating:       4,
			FoodImage:        "https://x.com/f.png",
			RestaurantName:   "R",
			RestaurantImage:  "https://x.com/r.png",
			RestaurantStatus: model.StatusOpenNow,
			Price:            "5.00",
		}
	}
	return foods
}

// validDraft возвращает черновик, проходящий валидацию.
func validDraft() model.FoodDraft {
	return model.DraftOf(makeFoods(1)[0])
}

// --- Тесты Load / Search / LoadMore ---

func TestCatalog_InitialState(t *testing.T) {
	c := NewCatalog(&mockFoodAPI{}, 0, testLogger())

	snap := c.Snapshot()
	if snap.Status != StatusIdle {
		t.Errorf("Status = %q, ожидался idle", snap.Status)
	}
	if c.PageSize() != DefaultPageSize {
		t.Errorf("PageSize = %d, ожидался %d", c.PageSize(), DefaultPageSize)
	}
}

func TestCatalog_Load(t *testing.T) {
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) { return makeFoods(20), nil },
	}
	c := NewCatalog(api, 8, testLogger())

	snap := c.Load(context.Background())

	if snap.Status != StatusReady || snap.Error != "" {
		t.Errorf("Status = %q, Error = %q", snap.Status, snap.Error)
	}
	if len(snap.Collection) != 20 || len(snap.Window) != 8 || snap.WindowSize != 8 {
		t.Errorf("коллекция %d, окно %d (%d)", len(snap.Collection), len(snap.Window), snap.WindowSize)
	}
	if !snap.HasMore {
		t.Error("HasMore должен быть true")
	}
}

func TestCatalog_LoadFailureKeepsCollection(t *testing.T) {
	fail := false
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) {
			if fail {
				return nil, &foodclient.Error{Kind: foodclient.KindTransport, Op: "list", StatusCode: 500}
			}
			return makeFoods(3), nil
		},
	}
	c := NewCatalog(api, 8, testLogger())
	c.Load(context.Background())

	fail = true
	snap := c.Load(context.Background())

	if snap.Status != StatusError {
		t.Errorf("Status = %q, ожидался error", snap.Status)
	}
	if snap.Error != MsgLoadFailed {
		t.Errorf("Error = %q, ожидалось %q", snap.Error, MsgLoadFailed)
	}
	if len(snap.Collection) != 3 {
		t.Errorf("коллекция должна сохраниться, получено %d записей", len(snap.Collection))
	}
}

func TestCatalog_LoadClearsPreviousError(t *testing.T) {
	calls := 0
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("сеть")
			}
			return makeFoods(1), nil
		},
	}
	c := NewCatalog(api, 8, testLogger())

	c.Load(context.Background())
	snap := c.Load(context.Background())

	if snap.Status != StatusReady || snap.Error != "" {
		t.Errorf("после успешной загрузки: Status = %q, Error = %q", snap.Status, snap.Error)
	}
}

func TestCatalog_SearchEmptyBehavesLikeLoad(t *testing.T) {
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) { return makeFoods(12), nil },
	}
	c := NewCatalog(api, 8, testLogger())

	for _, q := range []string{"", "   "} {
		c.LoadMore()
		snap := c.Search(context.Background(), q)

		if len(snap.Collection) != 12 || len(snap.Window) != 8 {
			t.Errorf("Search(%q): коллекция %d, окно %d", q, len(snap.Collection), len(snap.Window))
		}
		if snap.Query != "" {
			t.Errorf("Search(%q): Query = %q, ожидалась пустая строка", q, snap.Query)
		}
	}
	if api.searchCalls.Load() != 0 {
		t.Errorf("пустой запрос не должен вызывать Search, вызовов: %d", api.searchCalls.Load())
	}
	if api.listCalls.Load() != 2 {
		t.Errorf("ожидалось 2 вызова List, получено %d", api.listCalls.Load())
	}
}

func TestCatalog_Search(t *testing.T) {
	api := &mockFoodAPI{
		searchFn: func(_ context.Context, q string) ([]model.Food, error) {
			if q != "pizza" {
				t.Errorf("query = %q, ожидался pizza", q)
			}
			return makeFoods(2), nil
		},
	}
	c := NewCatalog(api, 8, testLogger())

	snap := c.Search(context.Background(), "pizza")
	if snap.Status != StatusReady || snap.Query != "pizza" || len(snap.Window) != 2 || snap.HasMore {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestCatalog_SearchFailure(t *testing.T) {
	api := &mockFoodAPI{
		searchFn: func(context.Context, string) ([]model.Food, error) { return nil, errors.New("сеть") },
	}
	c := NewCatalog(api, 8, testLogger())

	snap := c.Search(context.Background(), "x")
	if snap.Status != StatusError || snap.Error != MsgSearchFailed {
		t.Errorf("Status = %q, Error = %q", snap.Status, snap.Error)
	}
}

func TestCatalog_LoadMore(t *testing.T) {
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) { return makeFoods(20), nil },
	}
	c := NewCatalog(api, 8, testLogger())
	c.Load(context.Background())

	snap := c.LoadMore()
	if len(snap.Window) != 16 || !snap.HasMore {
		t.Errorf("после первого LoadMore: окно %d, HasMore %v", len(snap.Window), snap.HasMore)
	}

	snap = c.LoadMore()
	if len(snap.Window) != 20 || snap.HasMore {
		t.Errorf("после второго LoadMore: окно %d, HasMore %v", len(snap.Window), snap.HasMore)
	}

	before := snap.WindowSize
	snap = c.LoadMore()
	if snap.WindowSize != before {
		t.Errorf("LoadMore без оставшихся записей не должен расширять окно: %d → %d", before, snap.WindowSize)
	}

	if api.listCalls.Load() != 1 {
		t.Errorf("LoadMore не должен обращаться к сети, вызовов List: %d", api.listCalls.Load())
	}
}

func TestCatalog_SnapshotIsCopy(t *testing.T) {
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) { return makeFoods(2), nil },
	}
	c := NewCatalog(api, 8, testLogger())
	snap := c.Load(context.Background())

	snap.Collection[0].FoodName = "changed"

	if f, _ := c.Find("1"); f.FoodName != "Food 1" {
		t.Errorf("изменение snapshot повлияло на каталог: %q", f.FoodName)
	}
}

// --- Тесты Add / Edit / Remove ---

func TestCatalog_AddInvalidDoesNotCallAPI(t *testing.T) {
	api := &mockFoodAPI{}
	c := NewCatalog(api, 8, testLogger())

	d := validDraft()
	d.FoodName = model.Ptr("")

	m := c.Add(context.Background(), d)

	if m.Outcome != OutcomeInvalid {
		t.Fatalf("Outcome = %q, ожидался invalid", m.Outcome)
	}
	if len(m.Errors) != 1 || m.Errors[validation.FieldFoodName] != "Food Name is required" {
		t.Errorf("Errors = %v", m.Errors)
	}
	if api.createCalls.Load() != 0 {
		t.Errorf("Create не должен вызываться, вызовов: %d", api.createCalls.Load())
	}
}

func TestCatalog_AddSuccessReloads(t *testing.T) {
	var created model.Food
	api := &mockFoodAPI{
		createFn: func(_ context.Context, food model.Food) (model.Food, error) {
			created = food
			food.ID = "100"
			return food, nil
		},
		listFn: func(context.Context) ([]model.Food, error) { return makeFoods(4), nil },
	}
	c := NewCatalog(api, 8, testLogger())

	d := validDraft()
	d.RestaurantImage = nil
	d.RestaurantLogo = model.Ptr("https://x.com/alias.png")

	m := c.Add(context.Background(), d)

	if m.Outcome != OutcomeOK {
		t.Fatalf("Outcome = %q, ожидался ok", m.Outcome)
	}
	if m.Record == nil || m.Record.ID != "100" {
		t.Errorf("Record = %+v", m.Record)
	}
	if created.RestaurantImage != "https://x.com/alias.png" {
		t.Errorf("restaurant_logo должен попасть в RestaurantImage: %+v", created)
	}
	if api.listCalls.Load() != 1 || len(m.Snapshot.Collection) != 4 {
		t.Errorf("после успешного Add ожидалась перезагрузка: List %d, коллекция %d",
			api.listCalls.Load(), len(m.Snapshot.Collection))
	}
}

func TestCatalog_AddFailureKeepsState(t *testing.T) {
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) { return makeFoods(3), nil },
		createFn: func(context.Context, model.Food) (model.Food, error) {
			return model.Food{}, &foodclient.Error{Kind: foodclient.KindCreate, Op: "create", StatusCode: 500}
		},
	}
	c := NewCatalog(api, 8, testLogger())
	before := c.Load(context.Background())

	m := c.Add(context.Background(), validDraft())

	if m.Outcome != OutcomeFailed || m.Message != MsgAddFailed {
		t.Errorf("Outcome = %q, Message = %q", m.Outcome, m.Message)
	}
	if m.Snapshot.Status != before.Status || len(m.Snapshot.Collection) != len(before.Collection) {
		t.Errorf("состояние изменилось: %+v", m.Snapshot)
	}
	if api.listCalls.Load() != 1 {
		t.Errorf("после ошибки Add перезагрузки быть не должно, вызовов List: %d", api.listCalls.Load())
	}
}

func TestCatalog_EditValidatesMergedRecord(t *testing.T) {
	var sent model.FoodDraft
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) { return makeFoods(2), nil },
		updateFn: func(_ context.Context, id string, d model.FoodDraft) (model.Food, error) {
			if id != "2" {
				t.Errorf("id = %q, ожидался 2", id)
			}
			sent = d
			return d.Food(), nil
		},
	}
	c := NewCatalog(api, 8, testLogger())
	c.Load(context.Background())

	m := c.Edit(context.Background(), "2", model.FoodDraft{FoodRating: model.Ptr(3.0)})

	if m.Outcome != OutcomeOK {
		t.Fatalf("Outcome = %q, Errors = %v", m.Outcome, m.Errors)
	}
	if sent.FoodName != nil || sent.FoodRating == nil || *sent.FoodRating != 3 {
		t.Errorf("в Update должны уходить только переданные поля: %+v", sent)
	}
	if api.listCalls.Load() != 2 {
		t.Errorf("после успешного Edit ожидалась перезагрузка, вызовов List: %d", api.listCalls.Load())
	}
}

func TestCatalog_EditInvalid(t *testing.T) {
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) { return makeFoods(1), nil },
	}
	c := NewCatalog(api, 8, testLogger())
	c.Load(context.Background())

	m := c.Edit(context.Background(), "1", model.FoodDraft{FoodRating: model.Ptr(5.1)})

	if m.Outcome != OutcomeInvalid || m.Errors[validation.FieldFoodRating] != validation.MsgFoodRatingRange {
		t.Errorf("Outcome = %q, Errors = %v", m.Outcome, m.Errors)
	}
	if api.updateCalls.Load() != 0 {
		t.Error("Update не должен вызываться для невалидного черновика")
	}
}

func TestCatalog_EditFailure(t *testing.T) {
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) { return makeFoods(1), nil },
		updateFn: func(context.Context, string, model.FoodDraft) (model.Food, error) {
			return model.Food{}, &foodclient.Error{Kind: foodclient.KindUpdate, Op: "update", StatusCode: 404}
		},
	}
	c := NewCatalog(api, 8, testLogger())
	c.Load(context.Background())

	m := c.Edit(context.Background(), "1", model.FoodDraft{FoodName: model.Ptr("New")})
	if m.Outcome != OutcomeFailed || m.Message != MsgUpdateFailed {
		t.Errorf("Outcome = %q, Message = %q", m.Outcome, m.Message)
	}
	if f, _ := c.Find("1"); f.FoodName != "Food 1" {
		t.Errorf("запись изменилась после ошибки: %+v", f)
	}
}

func TestCatalog_RemoveMissingID(t *testing.T) {
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) { return makeFoods(5), nil },
		deleteFn: func(_ context.Context, id string) error {
			return &foodclient.Error{Kind: foodclient.KindDelete, Op: "delete", StatusCode: 404}
		},
	}
	c := NewCatalog(api, 8, testLogger())
	before := c.Load(context.Background())

	m := c.Remove(context.Background(), "missing")

	if m.Outcome != OutcomeFailed || m.Message != MsgDeleteFailed {
		t.Errorf("Outcome = %q, Message = %q", m.Outcome, m.Message)
	}
	if len(m.Snapshot.Collection) != len(before.Collection) || m.Snapshot.Status != StatusReady {
		t.Errorf("состояние изменилось: %+v", m.Snapshot)
	}
	if api.listCalls.Load() != 1 {
		t.Errorf("после ошибки Remove перезагрузки быть не должно, вызовов List: %d", api.listCalls.Load())
	}
}

func TestCatalog_RemoveSuccessReloads(t *testing.T) {
	calls := 0
	api := &mockFoodAPI{
		listFn: func(context.Context) ([]model.Food, error) {
			calls++
			return makeFoods(3 - calls + 1), nil
		},
	}
	c := NewCatalog(api, 8, testLogger())
	c.Load(context.Background())

	m := c.Remove(context.Background(), "3")

	if m.Outcome != OutcomeOK {
		t.Fatalf("Outcome = %q", m.Outcome)
	}
	if len(m.Snapshot.Collection) != 2 {
		t.Errorf("после удаления ожидалось 2 записи, получено %d", len(m.Snapshot.Collection))
	}
}
