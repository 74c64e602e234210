package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"krishimitra/internal/model"
)

func newDataService(t *testing.T, h http.HandlerFunc) *DataService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewDataService(NewBackend(srv.URL, 5*time.Second))
}

func TestFarmingContextRoundTrip(t *testing.T) {
	var saved model.FarmingContext
	s := newDataService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/context/farming" {
			t.Errorf("path = %q", r.URL.Path)
		}
		switch r.Method {
		case http.MethodPost:
			json.NewDecoder(r.Body).Decode(&saved)
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "context": saved})
		}
	})

	in := &model.FarmingContext{
		Location:         "Nashik",
		PrimaryCrops:     []string{"grape", "onion"},
		FarmSizeAcres:    3.5,
		SoilType:         "black",
		IrrigationMethod: "drip",
	}
	if err := s.SaveFarmingContext(context.Background(), in); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.FarmingContext(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Location != "Nashik" || len(got.PrimaryCrops) != 2 || got.FarmSizeAcres != 3.5 {
		t.Errorf("context = %+v", got)
	}
}

func TestFarmingContextEnvelopeError(t *testing.T) {
	s := newDataService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": "not logged in"})
	})
	if _, err := s.FarmingContext(context.Background()); err == nil {
		t.Fatal("expected error from success:false envelope")
	}
}

func TestNotifications(t *testing.T) {
	s := newDataService(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/notifications":
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("limit = %q", got)
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": true,
				"notifications": []model.Notification{
					{ID: "n1", Type: "weather_alert", Title: "Heavy rain expected"},
				},
			})
		case r.URL.Path == "/api/notifications/n1/read" && r.Method == http.MethodPost:
			json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})

	list, err := s.Notifications(context.Background(), 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "Heavy rain expected" {
		t.Errorf("notifications = %+v", list)
	}
	if err := s.MarkNotificationRead(context.Background(), "n1"); err != nil {
		t.Fatalf("mark read: %v", err)
	}
}

func TestCommunityPostsQuery(t *testing.T) {
	s := newDataService(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("post_type") != "question" || q.Get("location") != "Pune" || q.Get("limit") != "10" {
			t.Errorf("query = %v", q)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"posts":   []model.CommunityPost{{ID: "p1", Title: "Pest on tomato"}},
		})
	})
	posts, err := s.CommunityPosts(context.Background(), "question", "Pune", 10, 0)
	if err != nil {
		t.Fatalf("posts: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Errorf("posts = %+v", posts)
	}
}

func TestLikePost(t *testing.T) {
	liked := false
	s := newDataService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/community/posts/p1/like" {
			t.Errorf("path = %q", r.URL.Path)
		}
		liked = !liked
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "liked": liked})
	})

	got, err := s.LikePost(context.Background(), "p1")
	if err != nil || !got {
		t.Fatalf("first like = %v, %v", got, err)
	}
	got, err = s.LikePost(context.Background(), "p1")
	if err != nil || got {
		t.Fatalf("second like = %v, %v", got, err)
	}
}

func TestMarketPrices(t *testing.T) {
	s := newDataService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("crops"); got != "wheat,onion" {
			t.Errorf("crops = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"prices": []model.MarketPrice{
				{Crop: "wheat", Market: "Pune APMC", PricePerKg: 24.5, Currency: "INR"},
			},
		})
	})
	prices, err := s.MarketPrices(context.Background(), []string{"wheat", "onion"}, "")
	if err != nil {
		t.Fatalf("prices: %v", err)
	}
	if len(prices) != 1 || prices[0].PricePerKg != 24.5 {
		t.Errorf("prices = %+v", prices)
	}
}

func TestSensorData(t *testing.T) {
	s := newDataService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sensors/farm-7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("sensor_types"); got != "soil_moisture,temperature" {
			t.Errorf("sensor_types = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"readings": []model.SensorReading{
				{SensorType: "soil_moisture", Value: 38.2, Unit: "%"},
			},
		})
	})
	readings, err := s.SensorData(context.Background(), "farm-7", []string{"soil_moisture", "temperature"})
	if err != nil {
		t.Fatalf("sensors: %v", err)
	}
	if len(readings) != 1 || readings[0].Value != 38.2 {
		t.Errorf("readings = %+v", readings)
	}
}

func TestStatus(t *testing.T) {
	s := newDataService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.StatusResponse{Status: "operational", Version: "4.0.0"})
	})
	st, err := s.Status(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.Status != "operational" {
		t.Errorf("status = %+v", st)
	}
}
