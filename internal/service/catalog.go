// Пакет service — бизнес-логика FoodWagen.
// Catalog — состояние каталога одной UI-сессии: коллекция записей,
// окно отображения (пагинация срезом), статус и сообщение об ошибке.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/foodwagen/internal/domain/model"
	"github.com/bigkaa/foodwagen/internal/validation"
)

// Сообщения для пользователя. Ошибки Food API дальше Catalog не уходят.
const (
	MsgLoadFailed   = "Failed to load food items. Please try again later."
	MsgSearchFailed = "Search failed. Please try again."
	MsgAddFailed    = "Failed to add food"
	MsgUpdateFailed = "Failed to update food"
	MsgDeleteFailed = "Failed to delete food"
)

// DefaultPageSize — размер страницы окна отображения.
const DefaultPageSize = 8

var catalogOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fw_catalog_operations_total",
		Help: "Общее количество операций над каталогом",
	},
	[]string{"op", "outcome"},
)

// FoodAPI — операции внешнего сервиса, нужные каталогу (реализуется foodclient.Client).
type FoodAPI interface {
	List(ctx context.Context) ([]model.Food, error)
	Search(ctx context.Context, query string) ([]model.Food, error)
	Create(ctx context.Context, food model.Food) (model.Food, error)
	Update(ctx context.Context, id string, d model.FoodDraft) (model.Food, error)
	Delete(ctx context.Context, id string) error
}

// Status — наблюдаемое состояние каталога.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusReady   Status = "ready"
)

// Snapshot — копия состояния каталога только для чтения.
type Snapshot struct {
	// Collection — все загруженные записи
	Collection []model.Food `json:"collection"`
	// Window — видимая часть коллекции (первые WindowSize записей)
	Window []model.Food `json:"window"`
	// WindowSize — текущий размер окна
	WindowSize int `json:"window_size"`
	// HasMore — в коллекции есть записи за пределами окна
	HasMore bool   `json:"has_more"`
	Status  Status `json:"status"`
	// Error — сообщение для пользователя; пустое, если ошибки нет
	Error string `json:"error"`
	// Query — запрос последнего успешного поиска; пустой после load
	Query string `json:"query"`
}

// Outcome — результат мутации.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

// Mutation — результат add/edit/remove.
type Mutation struct {
	Outcome Outcome `json:"outcome"`
	// Errors — ошибки валидации по полям (только для OutcomeInvalid)
	Errors validation.Errors `json:"errors,omitempty"`
	// Message — сообщение для пользователя (только для OutcomeFailed)
	Message string `json:"message,omitempty"`
	// Record — запись из ответа Food API (add/edit)
	Record *model.Food `json:"record,omitempty"`
	// Snapshot — состояние каталога после операции
	Snapshot Snapshot `json:"snapshot"`
}

// Catalog — контроллер состояния каталога.
// Мьютекс защищает только память: сетевые вызовы выполняются без блокировки,
// параллельные load/search не отменяются, побеждает последний завершившийся.
type Catalog struct {
	api      FoodAPI
	pageSize int
	logger   *slog.Logger

	mu         sync.RWMutex
	items      []model.Food
	windowSize int
	status     Status
	errMsg     string
	query      string
}

// NewCatalog создаёт пустой каталог в состоянии idle.
// pageSize <= 0 заменяется на DefaultPageSize.
func NewCatalog(api FoodAPI, pageSize int, logger *slog.Logger) *Catalog {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Catalog{
		api:      api,
		pageSize: pageSize,
		logger:   logger.With(slog.String("component", "catalog")),
		status:   StatusIdle,
	}
}

// PageSize возвращает размер страницы.
func (c *Catalog) PageSize() int {
	return c.pageSize
}

// Load загружает всю коллекцию. При успехе окно сбрасывается на первую страницу,
// при ошибке коллекция сохраняется, статус — error.
func (c *Catalog) Load(ctx context.Context) Snapshot {
	return c.fetch(ctx, "load", "", MsgLoadFailed, c.api.List)
}

// Search загружает записи по запросу. Пустой запрос эквивалентен Load.
func (c *Catalog) Search(ctx context.Context, query string) Snapshot {
	if strings.TrimSpace(query) == "" {
		return c.Load(ctx)
	}
	return c.fetch(ctx, "search", query, MsgSearchFailed, func(ctx context.Context) ([]model.Food, error) {
		return c.api.Search(ctx, query)
	})
}

func (c *Catalog) fetch(
	ctx context.Context,
	op, query, failMsg string,
	call func(context.Context) ([]model.Food, error),
) Snapshot {
	c.mu.Lock()
	c.status = StatusLoading
	c.errMsg = ""
	c.mu.Unlock()

	foods, err := call(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.status = StatusError
		c.errMsg = failMsg
		c.logger.Warn("Не удалось загрузить каталог",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		catalogOperationsTotal.WithLabelValues(op, string(OutcomeFailed)).Inc()
		return c.snapshotLocked()
	}

	c.items = foods
	c.windowSize = c.pageSize
	c.query = query
	c.status = StatusReady
	catalogOperationsTotal.WithLabelValues(op, string(OutcomeOK)).Inc()

	c.logger.Debug("Каталог загружен",
		slog.String("op", op),
		slog.Int("items", len(foods)),
	)
	return c.snapshotLocked()
}

// LoadMore расширяет окно на одну страницу. Сетевых вызовов нет.
// Если за окном записей не осталось, ничего не меняется.
func (c *Catalog) LoadMore() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.windowSize < len(c.items) {
		c.windowSize += c.pageSize
	}
	catalogOperationsTotal.WithLabelValues("more", string(OutcomeOK)).Inc()
	return c.snapshotLocked()
}

// Add валидирует черновик и создаёт запись. Невалидный черновик в сеть не уходит.
// При успехе каталог перезагружается целиком.
func (c *Catalog) Add(ctx context.Context, d model.FoodDraft) Mutation {
	if errs := validation.Validate(d); !errs.Valid() {
		return c.invalid("add", errs)
	}

	created, err := c.api.Create(ctx, d.Food())
	if err != nil {
		return c.failed(ctx, "add", MsgAddFailed, err)
	}

	return c.succeeded(ctx, "add", &created)
}

// Edit валидирует запись с наложенными изменениями и отправляет
// в Food API только переданные поля.
func (c *Catalog) Edit(ctx context.Context, id string, d model.FoodDraft) Mutation {
	base, _ := c.Find(id)
	if errs := validation.Validate(d.Merge(base)); !errs.Valid() {
		return c.invalid("edit", errs)
	}

	updated, err := c.api.Update(ctx, id, d)
	if err != nil {
		return c.failed(ctx, "edit", MsgUpdateFailed, err)
	}

	return c.succeeded(ctx, "edit", &updated)
}

// Remove удаляет запись. При ошибке состояние каталога не меняется.
func (c *Catalog) Remove(ctx context.Context, id string) Mutation {
	if err := c.api.Delete(ctx, id); err != nil {
		return c.failed(ctx, "remove", MsgDeleteFailed, err)
	}
	return c.succeeded(ctx, "remove", nil)
}

// Find возвращает запись из коллекции по id.
func (c *Catalog) Find(id string) (model.Food, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, f := range c.items {
		if f.ID == id {
			return f, true
		}
	}
	return model.Food{}, false
}

// Snapshot возвращает копию текущего состояния.
func (c *Catalog) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Catalog) snapshotLocked() Snapshot {
	collection := make([]model.Food, len(c.items))
	copy(collection, c.items)

	visible := min(c.windowSize, len(collection))

	return Snapshot{
		Collection: collection,
		Window:     collection[:visible:visible],
		WindowSize: c.windowSize,
		HasMore:    visible < len(collection),
		Status:     c.status,
		Error:      c.errMsg,
		Query:      c.query,
	}
}

func (c *Catalog) invalid(op string, errs validation.Errors) Mutation {
	catalogOperationsTotal.WithLabelValues(op, string(OutcomeInvalid)).Inc()
	c.logger.Debug("Черновик не прошёл валидацию",
		slog.String("op", op),
		slog.Any("fields", errs.Keys()),
	)
	return Mutation{Outcome: OutcomeInvalid, Errors: errs, Snapshot: c.Snapshot()}
}

func (c *Catalog) failed(ctx context.Context, op, msg string, err error) Mutation {
	catalogOperationsTotal.WithLabelValues(op, string(OutcomeFailed)).Inc()
	c.logger.WarnContext(ctx, "Операция над каталогом не выполнена",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return Mutation{Outcome: OutcomeFailed, Message: msg, Snapshot: c.Snapshot()}
}

func (c *Catalog) succeeded(ctx context.Context, op string, record *model.Food) Mutation {
	catalogOperationsTotal.WithLabelValues(op, string(OutcomeOK)).Inc()
	return Mutation{Outcome: OutcomeOK, Record: record, Snapshot: c.Load(ctx)}
}
