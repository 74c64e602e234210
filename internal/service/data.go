package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"krishimitra/internal/model"
)

// DataService wraps the remaining REST endpoints: farming context,
// notifications, community, market data, schemes and sensors.
type DataService struct {
	b *Backend
}

func NewDataService(b *Backend) *DataService { return &DataService{b: b} }

// --- Farming context ---

func (s *DataService) FarmingContext(ctx context.Context) (*model.FarmingContext, error) {
	var resp struct {
		Success bool                 `json:"success"`
		Error   string               `json:"error"`
		Context model.FarmingContext `json:"context"`
	}
	if err := s.b.doJSON(ctx, http.MethodGet, "/api/context/farming", nil, &resp); err != nil {
		return nil, fmt.Errorf("get farming context: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("get farming context: %s", resp.Error)
	}
	return &resp.Context, nil
}

func (s *DataService) SaveFarmingContext(ctx context.Context, fc *model.FarmingContext) error {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := s.b.doJSON(ctx, http.MethodPost, "/api/context/farming", fc, &resp); err != nil {
		return fmt.Errorf("save farming context: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("save farming context: %s", resp.Error)
	}
	return nil
}

// --- Notifications ---

func (s *DataService) Notifications(ctx context.Context, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	var resp struct {
		Success       bool                 `json:"success"`
		Error         string               `json:"error"`
		Notifications []model.Notification `json:"notifications"`
	}
	path := "/api/notifications?limit=" + strconv.Itoa(limit)
	if err := s.b.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("list notifications: %s", resp.Error)
	}
	return resp.Notifications, nil
}

func (s *DataService) MarkNotificationRead(ctx context.Context, id string) error {
	var resp struct {
		Success bool `json:"success"`
	}
	path := "/api/notifications/" + url.PathEscape(id) + "/read"
	if err := s.b.doJSON(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// --- Community ---

func (s *DataService) CommunityPosts(ctx context.Context, postType, location string, limit, offset int) ([]model.CommunityPost, error) {
	q := url.Values{}
	if postType != "" {
		q.Set("post_type", postType)
	}
	if location != "" {
		q.Set("location", location)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/community/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		Success bool                  `json:"success"`
		Error   string                `json:"error"`
		Posts   []model.CommunityPost `json:"posts"`
	}
	if err := s.b.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("list posts: %s", resp.Error)
	}
	return resp.Posts, nil
}

func (s *DataService) CreatePost(ctx context.Context, post *model.CommunityPost) (*model.CommunityPost, error) {
	var resp struct {
		Success bool                `json:"success"`
		Error   string              `json:"error"`
		Post    model.CommunityPost `json:"post"`
	}
	if err := s.b.doJSON(ctx, http.MethodPost, "/api/community/posts", post, &resp); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("create post: %s", resp.Error)
	}
	return &resp.Post, nil
}

func (s *DataService) AddComment(ctx context.Context, postID, content string) error {
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	body := map[string]string{"content": content}
	path := "/api/community/posts/" + url.PathEscape(postID) + "/comments"
	if err := s.b.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("add comment: %s", resp.Error)
	}
	return nil
}

func (s *DataService) LikePost(ctx context.Context, postID string) (bool, error) {
	var resp struct {
		Success bool `json:"success"`
		Liked   bool `json:"liked"`
	}
	path := "/api/community/posts/" + url.PathEscape(postID) + "/like"
	if err := s.b.doJSON(ctx, http.MethodPost, path, map[string]string{}, &resp); err != nil {
		return false, fmt.Errorf("like post: %w", err)
	}
	return resp.Liked, nil
}

func (s *DataService) TrendingPosts(ctx context.Context, days, limit int) ([]model.CommunityPost, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/community/trending"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		Success bool                  `json:"success"`
		Error   string                `json:"error"`
		Posts   []model.CommunityPost `json:"posts"`
	}
	if err := s.b.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("trending posts: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("trending posts: %s", resp.Error)
	}
	return resp.Posts, nil
}

// --- Market data ---

func (s *DataService) MarketPrices(ctx context.Context, crops []string, location string) ([]model.MarketPrice, error) {
	q := url.Values{}
	if len(crops) > 0 {
		q.Set("crops", strings.Join(crops, ","))
	}
	if location != "" {
		q.Set("location", location)
	}
	path := "/api/market/prices"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		Success bool                `json:"success"`
		Error   string              `json:"error"`
		Prices  []model.MarketPrice `json:"prices"`
	}
	if err := s.b.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("market prices: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("market prices: %s", resp.Error)
	}
	return resp.Prices, nil
}

func (s *DataService) PriceTrends(ctx context.Context, crops []string, days int) ([]model.PriceTrend, error) {
	q := url.Values{}
	if len(crops) > 0 {
		q.Set("crops", strings.Join(crops, ","))
	}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}
	path := "/api/market/trends"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp struct {
		Success bool               `json:"success"`
		Error   string             `json:"error"`
		Trends  []model.PriceTrend `json:"trends"`
	}
	if err := s.b.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("price trends: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("price trends: %s", resp.Error)
	}
	return resp.Trends, nil
}

// --- Schemes ---

func (s *DataService) Schemes(ctx context.Context) ([]model.Scheme, error) {
	var resp struct {
		Success bool           `json:"success"`
		Error   string         `json:"error"`
		Schemes []model.Scheme `json:"schemes"`
	}
	if err := s.b.doJSON(ctx, http.MethodGet, "/api/government-schemes", nil, &resp); err != nil {
		return nil, fmt.Errorf("schemes: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("schemes: %s", resp.Error)
	}
	return resp.Schemes, nil
}

// --- Sensors ---

func (s *DataService) SensorData(ctx context.Context, farmID string, sensorTypes []string) ([]model.SensorReading, error) {
	path := "/api/sensors/" + url.PathEscape(farmID)
	if len(sensorTypes) > 0 {
		path += "?sensor_types=" + url.QueryEscape(strings.Join(sensorTypes, ","))
	}
	var resp struct {
		Success  bool                  `json:"success"`
		Error    string                `json:"error"`
		Readings []model.SensorReading `json:"readings"`
	}
	if err := s.b.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("sensor data: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("sensor data: %s", resp.Error)
	}
	return resp.Readings, nil
}

// --- Status ---

func (s *DataService) Status(ctx context.Context) (*model.StatusResponse, error) {
	var resp model.StatusResponse
	if err := s.b.doJSON(ctx, http.MethodGet, "/api/status", nil, &resp); err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	return &resp, nil
}
