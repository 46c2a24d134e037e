package models

// GlobalDate is one entry of parametrage.globalHoraires.dates, the public
// opening hours banner source.
type GlobalDate struct {
	Date      string `json:"date"`
	Is24h     bool   `json:"is24h"`
	Closed    bool   `json:"closed"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

// GlobalHoraires is the subset of the parametrage document the timeline
// consumes. The full document is stored and served verbatim.
type GlobalHoraires struct {
	Dates []GlobalDate `json:"dates"`
}

// ScheduleWindow is one open/close span for a controlled access point.
// Is24h and Closed both suppress vignette generation for the day.
type ScheduleWindow struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Is24h  bool   `json:"is24h"`
	Closed bool   `json:"closed"`
}

// VenueDate carries the per-day windows of a gate, parking or camping.
// Gates and parkings distinguish an organisation window from a public
// one; campings only have a public window.
type VenueDate struct {
	Date         string          `json:"date"`
	Is24h        bool            `json:"is24h"`
	Organisation *ScheduleWindow `json:"organisation,omitempty"`
	Public       *ScheduleWindow `json:"public,omitempty"`
}

// PorteHoraires describes one named gate; the map key in the parametrage
// document is the gate's display name.
type PorteHoraires struct {
	ID    string      `json:"id"`
	Dates []VenueDate `json:"dates"`
}

// VenueHoraires describes one parking or camping area.
type VenueHoraires struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Dates []VenueDate `json:"dates"`
}

// Parametrage is the typed view of the sections the service derives
// vignettes and opening-hours banners from. Sections the service does
// not consume survive untouched in the stored raw document.
type Parametrage struct {
	GlobalHoraires   GlobalHoraires           `json:"globalHoraires"`
	PortesHoraires   map[string]PorteHoraires `json:"portesHoraires,omitempty"`
	ParkingsHoraires []VenueHoraires          `json:"parkingsHoraires,omitempty"`
	CampingsHoraires []VenueHoraires          `json:"campingsHoraires,omitempty"`
}
