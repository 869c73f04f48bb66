package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/crowdpredictor/trafficmap/core/session"
)

// ID is a backend entity id, sent as a number or a string.
type ID = session.ID

// Credentials are the login form values.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration are the register form values.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	Token string       `json:"token"`
	User  session.User `json:"user"`
}

// PredictRequest asks for a traffic prediction at a moment in time.
type PredictRequest struct {
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Datetime    time.Time `json:"-"`
}

// MarshalJSON sends the datetime as RFC 3339 in UTC with milliseconds.
func (p PredictRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
		Datetime    string `json:"datetime"`
	}{p.Origin, p.Destination, FormatDatetime(p.Datetime)})
}

// FormatDatetime renders t the way the backend expects datetimes.
func FormatDatetime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// TrafficInfo describes a traffic level.
type TrafficInfo struct {
	Level        string   `json:"level,omitempty"`
	Color        string   `json:"color,omitempty"`
	Description  string   `json:"description,omitempty"`
	AvgSpeed     *float64 `json:"avg_speed,omitempty"`
	VehicleCount *int     `json:"vehicle_count,omitempty"`
}

// UnknownLevel is the traffic level of a prediction whose traffic_level is
// missing, null or not an integer. It renders gray.
const UnknownLevel = -1

// Prediction is the backend's traffic prediction. The raw JSON is kept so it
// can be stored in history exactly as received.
type Prediction struct {
	TrafficLevel  int             `json:"traffic_level"`
	TrafficInfo   TrafficInfo     `json:"traffic_info"`
	InputFeatures json.RawMessage `json:"input_features,omitempty"`
	Timestamp     string          `json:"timestamp,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the prediction and keeps the original bytes.
// A prediction stored as a JSON string is decoded as well.
func (p *Prediction) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		return p.UnmarshalJSON([]byte(inner))
	}

	type plain Prediction
	var v struct {
		plain
		TrafficLevel json.RawMessage `json:"traffic_level"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Prediction(v.plain)
	p.TrafficLevel = decodeLevel(v.TrafficLevel)
	p.raw = append(json.RawMessage(nil), data...)
	return nil
}

func decodeLevel(raw json.RawMessage) int {
	var n *float64
	if err := json.Unmarshal(raw, &n); err != nil || n == nil || *n != math.Trunc(*n) {
		return UnknownLevel
	}
	return int(*n)
}

// decodeStored decodes a prediction_result of a listed row. A value that is
// not a prediction yields nil while its bytes are still returned, so one bad
// row does not fail the whole list.
func decodeStored(raw json.RawMessage) (*Prediction, json.RawMessage) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	raw = append(json.RawMessage(nil), raw...)
	var p Prediction
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, raw
	}
	return &p, raw
}

// MarshalJSON writes the original bytes when available.
func (p Prediction) MarshalJSON() ([]byte, error) {
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	type plain Prediction
	return json.Marshal(plain(p))
}

// Raw returns the prediction as received, or nil for locally built values.
func (p Prediction) Raw() json.RawMessage { return p.raw }

// Description returns the human readable description of the level.
func (p Prediction) Description() string { return p.TrafficInfo.Description }

// SearchHistoryEntry is one past search.
type SearchHistoryEntry struct {
	ID               ID          `json:"id"`
	Origin           string      `json:"origin"`
	Destination      string      `json:"destination"`
	Datetime         string      `json:"datetime"`
	PredictionResult *Prediction `json:"prediction_result,omitempty"`
	CreatedAt        string      `json:"created_at,omitempty"`

	// RawPrediction is prediction_result as received, kept even when it
	// could not be decoded.
	RawPrediction json.RawMessage `json:"-"`
}

func (e *SearchHistoryEntry) UnmarshalJSON(data []byte) error {
	type plain SearchHistoryEntry
	var v struct {
		plain
		PredictionResult json.RawMessage `json:"prediction_result"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = SearchHistoryEntry(v.plain)
	e.PredictionResult, e.RawPrediction = decodeStored(v.PredictionResult)
	return nil
}

// PredictionUnreadable reports whether the entry carries a prediction that
// could not be decoded.
func (e SearchHistoryEntry) PredictionUnreadable() bool {
	return e.PredictionResult == nil && len(e.RawPrediction) > 0
}

// NewHistoryEntry is the body of a history write.
type NewHistoryEntry struct {
	Origin           string     `json:"origin"`
	Destination      string     `json:"destination"`
	Datetime         time.Time  `json:"-"`
	PredictionResult Prediction `json:"prediction_result"`
}

// MarshalJSON formats the datetime like PredictRequest.
func (e NewHistoryEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Origin           string     `json:"origin"`
		Destination      string     `json:"destination"`
		Datetime         string     `json:"datetime"`
		PredictionResult Prediction `json:"prediction_result"`
	}{e.Origin, e.Destination, FormatDatetime(e.Datetime), e.PredictionResult})
}

// FavoriteRoute is a saved route.
type FavoriteRoute struct {
	ID               ID          `json:"id"`
	Origin           string      `json:"origin"`
	Destination      string      `json:"destination"`
	RouteName        string      `json:"route_name,omitempty"`
	CreatedAt        string      `json:"created_at,omitempty"`
	SearchID         *ID         `json:"search_id,omitempty"`
	SearchDatetime   string      `json:"search_datetime,omitempty"`
	PredictionResult *Prediction `json:"prediction_result,omitempty"`

	RawPrediction json.RawMessage `json:"-"`
}

func (f *FavoriteRoute) UnmarshalJSON(data []byte) error {
	type plain FavoriteRoute
	var v struct {
		plain
		PredictionResult json.RawMessage `json:"prediction_result"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = FavoriteRoute(v.plain)
	f.PredictionResult, f.RawPrediction = decodeStored(v.PredictionResult)
	return nil
}

// PredictionUnreadable reports whether the linked prediction could not be decoded.
func (f FavoriteRoute) PredictionUnreadable() bool {
	return f.PredictionResult == nil && len(f.RawPrediction) > 0
}

// Name returns the route name, derived from the endpoints when unset.
func (f FavoriteRoute) Name() string {
	if f.RouteName != "" {
		return f.RouteName
	}
	return RouteName(f.Origin, f.Destination)
}

// NewFavorite is the body of a favorite write: either a link to a history
// entry or a manual origin/destination pair.
type NewFavorite struct {
	SearchID    *ID    `json:"search_id,omitempty"`
	RouteName   string `json:"route_name,omitempty"`
	Origin      string `json:"origin,omitempty"`
	Destination string `json:"destination,omitempty"`
}

// FavoriteFromHistory links a favorite to a past search.
func FavoriteFromHistory(e SearchHistoryEntry) NewFavorite {
	id := e.ID
	return NewFavorite{SearchID: &id, RouteName: RouteName(e.Origin, e.Destination)}
}

// ManualFavorite creates a favorite from an origin and destination.
func ManualFavorite(origin, destination string) NewFavorite {
	return NewFavorite{
		Origin:      origin,
		Destination: destination,
		RouteName:   RouteName(origin, destination),
	}
}

// RouteName is "<origin> - <destination>", or "<origin> - no destination".
func RouteName(origin, destination string) string {
	if destination == "" {
		destination = "no destination"
	}
	return fmt.Sprintf("%s - %s", origin, destination)
}

// Health is the backend health report.
type Health struct {
	Status         string `json:"status"`
	ModelAvailable bool   `json:"model_available"`
	Timestamp      string `json:"timestamp,omitempty"`
}

// Healthy reports whether the backend can serve predictions.
func (h Health) Healthy() bool { return h.Status == "healthy" }

// LevelInfo describes one traffic level in the model info.
type LevelInfo struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// ModelInfo describes the prediction model.
type ModelInfo struct {
	ModelType      string               `json:"model_type"`
	FeatureCount   int                  `json:"feature_count"`
	TrafficLevels  map[string]LevelInfo `json:"traffic_levels"`
	RequiredFields []string             `json:"required_fields"`
}
