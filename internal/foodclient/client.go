// Пакет foodclient — HTTP-клиент внешнего Food API (mock REST, ресурс /Food).
// Все ответы проходят через mapper: наружу отдаются только канонические записи model.Food.
// Повторов нет: любая ошибка логируется и возвращается вызывающему.
package foodclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bigkaa/foodwagen/internal/domain/model"
	"github.com/bigkaa/foodwagen/internal/mapper"
	"github.com/bigkaa/foodwagen/internal/requestid"
)

// ResourcePath — базовый путь ресурса во внешнем сервисе.
const ResourcePath = "/Food"

const (
	// maxBodySize — ограничение на размер читаемого тела ответа.
	maxBodySize = 10 << 20
	// errorSnippetSize — сколько байт тела ошибки попадает в лог.
	errorSnippetSize = 512
)

// Метрики вызовов Food API.
var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fw_food_api_requests_total",
			Help: "Общее количество запросов к внешнему Food API",
		},
		[]string{"op", "outcome"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fw_food_api_request_duration_seconds",
			Help:    "Длительность запросов к внешнему Food API в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

// Client — HTTP-клиент Food API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// New создаёт клиент Food API.
// baseURL — адрес сервиса без /Food (например, https://xxx.mockapi.io).
// caCertPath — путь к CA-сертификату для TLS (пустая строка — стандартный пул).
// timeout — таймаут HTTP-запросов; 0 — без таймаута, отмена через context.
func New(baseURL, caCertPath string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	httpClient := &http.Client{Timeout: timeout}

	if caCertPath != "" {
		tlsConfig, err := buildTLSConfig(caCertPath)
		if err != nil {
			return nil, fmt.Errorf("загрузка CA-сертификата Food API: %w", err)
		}
		httpClient.Transport = &http.Transport{
			TLSClientConfig: tlsConfig,
		}
		logger.Info("CA-сертификат Food API добавлен в пул доверия",
			slog.String("ca_cert", caCertPath),
		)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With(slog.String("component", "food_client")),
	}, nil
}

// BaseURL возвращает адрес сервиса (без /Food).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List запрашивает все записи.
// GET /Food
func (c *Client) List(ctx context.Context) ([]model.Food, error) {
	return c.fetchList(ctx, "list", c.baseURL+ResourcePath)
}

// Search запрашивает записи, отфильтрованные по имени.
// Семантика фильтра (точное совпадение, подстрока) определяется внешним сервисом.
// GET /Food?name={query}
func (c *Client) Search(ctx context.Context, query string) ([]model.Food, error) {
	reqURL := c.baseURL + ResourcePath + "?" + url.Values{"name": {query}}.Encode()
	return c.fetchList(ctx, "search", reqURL)
}

// Create создаёт запись. Поля, отсутствующие в ответе, берутся из переданной записи.
// POST /Food
func (c *Client) Create(ctx context.Context, food model.Food) (model.Food, error) {
	payload := mapper.ToExternal(model.DraftOf(food), false)

	body, err := c.do(ctx, "create", KindCreate, http.MethodPost, c.baseURL+ResourcePath, payload)
	if err != nil {
		return model.Food{}, err
	}

	return mapper.ToCanonicalWithFallback(c.decodeRecord("create", body), food), nil
}

// Update частично обновляет запись: отправляются только переданные поля черновика.
// Поля, отсутствующие в ответе, берутся из черновика, затем из placeholder-значений.
// PUT /Food/{id}
func (c *Client) Update(ctx context.Context, id string, d model.FoodDraft) (model.Food, error) {
	payload := mapper.ToExternal(d, true)

	body, err := c.do(ctx, "update", KindUpdate, http.MethodPut, c.recordURL(id), payload)
	if err != nil {
		return model.Food{}, err
	}

	fallback := d.Apply(mapper.Placeholders())
	fallback.ID = id
	return mapper.ToCanonicalWithFallback(c.decodeRecord("update", body), fallback), nil
}

// Delete удаляет запись. Тело ответа не анализируется.
// DELETE /Food/{id}
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := c.do(ctx, "delete", KindDelete, http.MethodDelete, c.recordURL(id), nil)
	return err
}

// fetchList выполняет GET и маппит массив внешних записей.
func (c *Client) fetchList(ctx context.Context, op, reqURL string) ([]model.Food, error) {
	body, err := c.do(ctx, op, KindTransport, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	var raw []mapper.External
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.Error("Некорректный ответ Food API",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		return nil, &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf("декодирование ответа: %w", err)}
	}

	foods := make([]model.Food, 0, len(raw))
	for _, ext := range raw {
		foods = append(foods, mapper.ToCanonical(ext))
	}
	return foods, nil
}

// decodeRecord разбирает одиночную запись из ответа create/update.
// Пустое или некорректное тело даёт пустую запись: всё возьмётся из fallback.
func (c *Client) decodeRecord(op string, body []byte) mapper.External {
	if len(bytes.TrimSpace(body)) == 0 {
		return mapper.External{}
	}
	var ext mapper.External
	if err := json.Unmarshal(body, &ext); err != nil {
		c.logger.Warn("Ответ Food API не является объектом, используются переданные поля",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		return mapper.External{}
	}
	return ext
}

// do выполняет запрос и возвращает тело успешного (2xx) ответа.
func (c *Client) do(ctx context.Context, op string, kind Kind, method, reqURL string, payload any) ([]byte, error) {
	start := time.Now()
	body, err := c.roundTrip(ctx, op, kind, method, reqURL, payload)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	apiRequestsTotal.WithLabelValues(op, outcome).Inc()
	apiRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	return body, err
}

func (c *Client) roundTrip(ctx context.Context, op string, kind Kind, method, reqURL string, payload any) ([]byte, error) {
	var reqBody io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Kind: kind, Op: op, Err: fmt.Errorf("сериализация запроса: %w", err)}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, &Error{Kind: kind, Op: op, Err: fmt.Errorf("создание запроса: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.Header, id)
	}

	resp, err := c.httpClient.Do(req) //nolint:gosec // G704: URL из конфигурации
	if err != nil {
		c.logger.Error("Food API недоступен",
			slog.String("op", op),
			slog.String("method", method),
			slog.String("error", err.Error()),
		)
		return nil, &Error{Kind: kind, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetSize))
		c.logger.Warn("Food API вернул ошибку",
			slog.String("op", op),
			slog.String("method", method),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(snippet)),
		)
		return nil, &Error{Kind: kind, Op: op, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		c.logger.Error("Ошибка чтения ответа Food API",
			slog.String("op", op),
			slog.String("error", err.Error()),
		)
		return nil, &Error{Kind: kind, Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	c.logger.Debug("Запрос к Food API выполнен",
		slog.String("op", op),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
	)
	return body, nil
}

func (c *Client) recordURL(id string) string {
	return c.baseURL + ResourcePath + "/" + url.PathEscape(id)
}

// buildTLSConfig создаёт TLS-конфигурацию с кастомным CA-сертификатом.
func buildTLSConfig(caCertPath string) (*tls.Config, error) {
	caCert, err := os.ReadFile(caCertPath)
	if err != nil {
		return nil, fmt.Errorf("чтение CA-сертификата: %w", err)
	}

	caCertPool, err := x509.SystemCertPool()
	if err != nil {
		caCertPool = x509.NewCertPool()
	}
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("CA-сертификат %s не содержит PEM-блоков", caCertPath)
	}

	return &tls.Config{
		RootCAs:    caCertPool,
		MinVersion: tls.VersionTLS12,
	}, nil
}
