package model

import "time"

// Sender identifies who produced a chat message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatMessage is one entry in the conversation transcript. Messages are
// append-only: once created they are never mutated.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  Metadata  `json:"metadata,omitempty"`
}

// Metadata carries the optional fields of an AI response. Absent fields
// decode to zero values so display code never needs nil checks.
type Metadata struct {
	Confidence          float64  `json:"confidence,omitempty"`
	DataSources         []string `json:"data_sources,omitempty"`
	Recommendations     []string `json:"recommendations,omitempty"`
	FollowUpSuggestions []string `json:"follow_up_suggestions,omitempty"`
	IsError             bool     `json:"is_error,omitempty"`
}

// Submission is one user query. At least one of Text or Image must be set.
type Submission struct {
	Text       string
	Image      []byte
	ImageName  string
	SensorData map[string]interface{}
	Location   string
	Language   string
}

// QueryResult mirrors the unified-query endpoint's JSON response.
type QueryResult struct {
	Success             bool     `json:"success"`
	Response            string   `json:"response"`
	Error               string   `json:"error"`
	ConfidenceScore     float64  `json:"confidence_score"`
	DataSources         []string `json:"data_sources"`
	Recommendations     []string `json:"recommendations"`
	FollowUpSuggestions []string `json:"follow_up_suggestions"`
	IntentDetected      string   `json:"intent_detected"`
	ContextApplied      bool     `json:"context_applied"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type SendOTPRequest struct {
	PhoneNumber string `json:"phone_number"`
	CountryCode string `json:"country_code"`
}

type SendOTPResponse struct {
	Success          bool   `json:"success"`
	SessionID        string `json:"session_id"`
	ExpiresInMinutes int    `json:"expires_in_minutes"`
	Error            string `json:"error,omitempty"`
}

type VerifyOTPRequest struct {
	SessionID string `json:"session_id"`
	OTPCode   string `json:"otp_code"`
}

type VerifyOTPResponse struct {
	Success     bool   `json:"success"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
	NewUser     bool   `json:"new_user,omitempty"`
	Error       string `json:"error,omitempty"`
}

// FarmingContext describes a user's farm. It is kept server-side and applied
// to unified queries for personalization.
type FarmingContext struct {
	Location                string            `json:"location"`
	PrimaryCrops            []string          `json:"primary_crops"`
	SecondaryCrops          []string          `json:"secondary_crops,omitempty"`
	FarmSizeAcres           float64           `json:"farm_size_acres"`
	SoilType                string            `json:"soil_type"`
	IrrigationMethod        string            `json:"irrigation_method"`
	LastIrrigation          *time.Time        `json:"last_irrigation,omitempty"`
	IrrigationFrequencyDays int               `json:"irrigation_frequency_days,omitempty"`
	CropStages              map[string]string `json:"crop_stages,omitempty"`
	FarmingExperience       string            `json:"farming_experience,omitempty"`
	PreferredLanguage       string            `json:"preferred_language,omitempty"`
}

type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type CommunityPost struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	PostType  string    `json:"post_type"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Location  string    `json:"location,omitempty"`
	Likes     int       `json:"likes"`
	Comments  []Comment `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type MarketPrice struct {
	Crop       string  `json:"crop"`
	Market     string  `json:"market"`
	State      string  `json:"state,omitempty"`
	PricePerKg float64 `json:"price_per_kg"`
	Currency   string  `json:"currency"`
	Date       string  `json:"date"`
	Source     string  `json:"source,omitempty"`
	ChangePct  float64 `json:"change_pct,omitempty"`
}

type PriceTrend struct {
	Crop   string    `json:"crop"`
	Days   int       `json:"days"`
	Prices []float64 `json:"prices"`
	Trend  string    `json:"trend"`
}

type Scheme struct {
	SchemeID           string   `json:"scheme_id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	SchemeType         string   `json:"scheme_type"`
	ImplementingAgency string   `json:"implementing_agency"`
	EligibilityStatus  string   `json:"eligibility_status"`
	EligibilityScore   float64  `json:"eligibility_score"`
	Benefits           []string `json:"benefits,omitempty"`
	RequiredDocuments  []string `json:"required_documents,omitempty"`
	WebsiteURL         string   `json:"website_url,omitempty"`
}

type SensorReading struct {
	SensorType string    `json:"sensor_type"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Timestamp  time.Time `json:"timestamp"`
}

type StatusResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Version   string            `json:"version,omitempty"`
}
