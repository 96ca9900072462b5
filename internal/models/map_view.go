package models

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type MapMarker struct {
	ID         string    `json:"id"`
	Position   LatLng    `json:"position"`
	Color      string    `json:"color"`
	Zone       string    `json:"zone"`
	Date       string    `json:"date"`
	RiskLevel  RiskLevel `json:"riskLevel"`
	CrimeType  CrimeType `json:"crimeType"`
	CrimeCount int       `json:"crimeCount"`
}

type MapCircle struct {
	Center       LatLng  `json:"center"`
	RadiusMeters float64 `json:"radiusMeters"`
	Color        string  `json:"color"`
	FillOpacity  float64 `json:"fillOpacity"`
	Opacity      float64 `json:"opacity"`
}

type HeatmapPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"`
}

type ZoneBoundary struct {
	ZoneID string   `json:"zoneId"`
	Name   string   `json:"name"`
	Code   string   `json:"code"`
	Center LatLng   `json:"center"`
	Points []LatLng `json:"points"`
}

type MapBounds struct {
	SouthWest LatLng `json:"southWest"`
	NorthEast LatLng `json:"northEast"`
}

// MapView is the payload of the map page. Layers switched off in Settings
// are returned empty.
type MapView struct {
	Center   LatLng         `json:"center"`
	Zoom     int            `json:"zoom"`
	Settings MapSettings    `json:"settings"`
	Markers  []MapMarker    `json:"markers"`
	Circles  []MapCircle    `json:"circles"`
	Heatmap  []HeatmapPoint `json:"heatmap"`
	Zones    []ZoneBoundary `json:"zones"`
	Bounds   *MapBounds     `json:"bounds,omitempty"`
}
