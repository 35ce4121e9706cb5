package models

// Marker is one pin on the rendered map. Order matters: the polyline is
// drawn through markers in slice order.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Popup string  `json:"popup"`
}

// MapPage is the template payload for the device map view.
type MapPage struct {
	DeviceID    string
	Markers     []Marker
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	RouteMeters float64
	Error       string
}
