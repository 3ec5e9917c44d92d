package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

const cachePrefix = "catalog:"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент каталога бизнесов, услуг и сотрудников (ServiceCatalog и StaffDirectory).
// Успешные ответы опционально кэшируются в Redis, методы *Fresh читают каталог напрямую.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger

	redis    redis.Cmdable
	cacheTTL time.Duration
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// UseRedisCache включает кэширование ответов на ttl
func (c *Client) UseRedisCache(redisClient redis.Cmdable, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// GetBusiness получает бизнес по ID
func (c *Client) GetBusiness(ctx context.Context, businessID int64) (*domain.Business, error) {
	return c.getBusiness(ctx, businessID, true)
}

// GetBusinessFresh получает бизнес по ID в обход кэша
func (c *Client) GetBusinessFresh(ctx context.Context, businessID int64) (*domain.Business, error) {
	return c.getBusiness(ctx, businessID, false)
}

// GetService получает услугу бизнеса
func (c *Client) GetService(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	return c.getService(ctx, businessID, serviceID, true)
}

// GetServiceFresh получает услугу в обход кэша: активность и длительность берутся из каталога на момент вызова
func (c *Client) GetServiceFresh(ctx context.Context, businessID, serviceID int64) (*domain.Service, error) {
	return c.getService(ctx, businessID, serviceID, false)
}

// GetStaff получает сотрудника бизнеса вместе со списком услуг, которые он оказывает
func (c *Client) GetStaff(ctx context.Context, businessID, staffID int64) (*domain.Staff, error) {
	return c.getStaff(ctx, businessID, staffID, true)
}

// GetStaffFresh получает сотрудника в обход кэша
func (c *Client) GetStaffFresh(ctx context.Context, businessID, staffID int64) (*domain.Staff, error) {
	return c.getStaff(ctx, businessID, staffID, false)
}

func (c *Client) getBusiness(ctx context.Context, businessID int64, cached bool) (*domain.Business, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d", c.baseURL, businessID)
	key := fmt.Sprintf("%sbusiness:%d", cachePrefix, businessID)

	var business Business
	if err := c.fetch(ctx, key, url, ErrBusinessNotFound, &business, cached); err != nil {
		return nil, err
	}
	return business.toDomain(), nil
}

func (c *Client) getService(ctx context.Context, businessID, serviceID int64, cached bool) (*domain.Service, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/services/%d", c.baseURL, businessID, serviceID)
	key := fmt.Sprintf("%sservice:%d:%d", cachePrefix, businessID, serviceID)

	var service Service
	if err := c.fetch(ctx, key, url, ErrServiceNotFound, &service, cached); err != nil {
		return nil, err
	}
	return service.toDomain(), nil
}

func (c *Client) getStaff(ctx context.Context, businessID, staffID int64, cached bool) (*domain.Staff, error) {
	url := fmt.Sprintf("%s/internal/businesses/%d/staff/%d", c.baseURL, businessID, staffID)
	key := fmt.Sprintf("%sstaff:%d:%d", cachePrefix, businessID, staffID)

	var staff Staff
	if err := c.fetch(ctx, key, url, ErrStaffNotFound, &staff, cached); err != nil {
		return nil, err
	}
	return staff.toDomain(), nil
}

// fetch читает ответ из кэша, если cached, иначе идет в каталог.
// Свежий ответ всегда перезаписывает запись в кэше.
func (c *Client) fetch(ctx context.Context, key, url string, notFound error, out interface{}, cached bool) error {
	if cached && c.readCache(ctx, key, out) {
		return nil
	}

	if err := c.get(ctx, url, notFound, out); err != nil {
		return err
	}

	c.writeCache(ctx, key, out)
	return nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out interface{}) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}

	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Catalog cache read failed for key=%s: %v", key, err)
		}
		return false
	}

	if err := json.Unmarshal(val, out); err != nil {
		c.log.Warn("Catalog cache entry key=%s is corrupted: %v", key, err)
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val interface{}) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(val)
	if err != nil {
		return
	}

	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.log.Warn("Catalog cache write failed for key=%s: %v", key, err)
	}
}
