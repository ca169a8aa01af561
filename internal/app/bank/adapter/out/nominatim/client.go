// Package nominatim 透過 OpenStreetMap Nominatim 將地址換算成座標。
// 查無結果回傳 (nil, nil)，使用者一樣可以建立，只是沒有座標。
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/domain"
	"github.com/JoeShih716/go-bank-ledger/internal/app/bank/usecase"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Config Nominatim 客戶端配置
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"` // Nominatim 要求帶有識別的 User-Agent
	Timeout   time.Duration `yaml:"timeout"`
}

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "go-bank-ledger"
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// searchResult Nominatim /search 回應的單筆結果 (只取用得到的欄位)
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode 查詢地址座標，取第一筆結果
func (c *Client) Geocode(ctx context.Context, address string) (*domain.Coordinates, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim returned status %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		c.log.Debug().Str("address", address).Msg("no geocoding result")
		return nil, nil
	}

	latitude, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim latitude %q: %w", results[0].Lat, err)
	}
	longitude, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("nominatim longitude %q: %w", results[0].Lon, err)
	}
	return &domain.Coordinates{Latitude: latitude, Longitude: longitude}, nil
}

var _ usecase.Geocoder = (*Client)(nil)
