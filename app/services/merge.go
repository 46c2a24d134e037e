package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/framboises/cockpit/app/database"
	"github.com/framboises/cockpit/app/models"
	"github.com/framboises/cockpit/app/timeline"
)

// SyncParametrage derives the access-control vignettes from the scope's
// parametrage document and upserts them into the timetable: one
// Ouverture/Fermeture pair per gate, parking, camping and public day.
// Derived rows carry origin "paramétrage" and a stable param_id, so the
// sync converges when run again over the same document. Returns how many
// vignettes were written.
func SyncParametrage(db *sql.DB, event, year string) (int, error) {
	raw, err := database.GetParametrage(db, event, year)
	if err != nil {
		return 0, err
	}
	if raw == nil {
		log.Printf("[merge] no parametrage for %s/%s, nothing to derive", event, year)
		return 0, nil
	}
	var doc models.Parametrage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("malformed parametrage for %s/%s: %w", event, year, err)
	}

	vignettes := deriveVignettes(doc)
	for i := range vignettes {
		v := &vignettes[i]
		v.Event = event
		v.Year = year
		if err := database.UpsertParamVignette(db, v); err != nil {
			return i, fmt.Errorf("upsert vignette %q on %s: %w", v.Activity, v.Date, err)
		}
	}
	log.Printf("[merge] %d vignettes written for %s/%s", len(vignettes), event, year)
	return len(vignettes), nil
}

func deriveVignettes(doc models.Parametrage) []models.TimetableEvent {
	var out []models.TimetableEvent

	// Public opening days. 24h and closed days carry no transition.
	for _, gd := range doc.GlobalHoraires.Dates {
		if gd.Is24h || gd.Closed || gd.OpenTime == "" || gd.CloseTime == "" {
			continue
		}
		paramID := fmt.Sprintf("dates_%s_%s", gd.Date, gd.OpenTime)
		out = append(out, vignettePair(gd.Date, gd.OpenTime, gd.CloseTime,
			"au public", "General", "Controle", paramID, "Timetable")...)
	}

	for name, porte := range doc.PortesHoraires {
		paramID := porte.ID
		if paramID == "" {
			paramID = name
		}
		for _, vd := range porte.Dates {
			out = append(out, venueDateVignettes(vd, "Porte "+name, "Porte", name, paramID)...)
		}
	}

	for _, parking := range doc.ParkingsHoraires {
		name := parking.Name
		if name == "" {
			name = "Parking"
		}
		paramID := parking.ID
		if paramID == "" {
			paramID = name
		}
		for _, vd := range parking.Dates {
			out = append(out, venueDateVignettes(vd, "Parking "+name, "Parking", name, paramID)...)
		}
	}

	for _, camping := range doc.CampingsHoraires {
		name := camping.Name
		if name == "" {
			name = "Camping"
		}
		paramID := camping.ID
		if paramID == "" {
			paramID = name
		}
		out = append(out, campingVignettes(camping.Dates, "Camping "+name, name, paramID)...)
	}

	return out
}

// venueDateVignettes handles a gate or parking day. When the
// organisation and public windows coincide they merge into a single
// pair; otherwise each valid window yields its own pair.
func venueDateVignettes(vd models.VenueDate, baseActivity, category, place, paramID string) []models.TimetableEvent {
	org := vd.Organisation
	pub := vd.Public
	validOrg := windowValid(org)
	validPub := windowValid(pub)

	if validOrg && validPub && org.Open == pub.Open && org.Close == pub.Close {
		return vignettePair(vd.Date, org.Open, org.Close,
			baseActivity, category, place, paramID, "Organization")
	}

	var out []models.TimetableEvent
	if validOrg {
		out = append(out, vignettePair(vd.Date, org.Open, org.Close,
			baseActivity+" - Organisation", "Controle", place, paramID, "Organization")...)
	}
	if validPub {
		out = append(out, vignettePair(vd.Date, pub.Open, pub.Close,
			baseActivity+" - Public", category, place, paramID, "Organization")...)
	}
	return out
}

// campingVignettes handles a camping's day list, which is special-cased
// for long continuous stays: a midnight opening after a 24h day, or a
// 23:59 close before one, is not a real transition and is dropped.
func campingVignettes(dates []models.VenueDate, baseActivity, place, paramID string) []models.TimetableEvent {
	var out []models.TimetableEvent
	for i, vd := range dates {
		pub := vd.Public
		if vd.Is24h || !windowValid(pub) {
			continue
		}
		skipOpen := pub.Open == "00:00" && i > 0 && dates[i-1].Is24h
		skipClose := pub.Close == "23:59" && i < len(dates)-1 && dates[i+1].Is24h

		pair := vignettePair(vd.Date, pub.Open, pub.Close,
			baseActivity, "AA", place, paramID, "Organization")
		if !skipOpen {
			out = append(out, pair[0])
		}
		if !skipClose {
			out = append(out, pair[1])
		}
	}
	return out
}

func windowValid(w *models.ScheduleWindow) bool {
	return w != nil && w.Open != "" && w.Close != "" && !w.Is24h && !w.Closed
}

// vignettePair builds the Ouverture/Fermeture vignettes for one window.
// A close at or before the open belongs to the next calendar day; the
// open vignette then carries no end time and announces the closing in
// its remark.
func vignettePair(date, openTime, closeTime, baseActivity, category, place, paramID, vType string) []models.TimetableEvent {
	duration := computeDuration(openTime, closeTime)

	closingDate := date
	openMin := timeline.TimeToMinutes(openTime)
	closeMin := timeline.TimeToMinutes(closeTime)
	if !math.IsInf(openMin, 1) && !math.IsInf(closeMin, 1) && closeMin <= openMin {
		closingDate = addDays(date, 1)
	}

	openEnd := ""
	if closingDate == date && closeTime != "23:59" {
		openEnd = closeTime
	}
	remark := ""
	if openTime != closeTime && closingDate != date {
		remark = fmt.Sprintf("Fermeture prévue: %s %s", closingDate, closeTime)
	}

	openV := models.TimetableEvent{
		Date:       date,
		Start:      openTime,
		End:        openEnd,
		Duration:   duration,
		Category:   category,
		Activity:   "Ouverture " + baseActivity,
		Place:      place,
		Department: "SAFE",
		Type:       vType,
		Origin:     "paramétrage",
		Remark:     remark,
		ParamID:    paramID,
	}
	closeV := models.TimetableEvent{
		Date:       closingDate,
		End:        closeTime,
		Duration:   duration,
		Category:   category,
		Activity:   "Fermeture " + baseActivity,
		Place:      place,
		Department: "SAFE",
		Type:       vType,
		Origin:     "paramétrage",
		ParamID:    paramID,
	}
	return []models.TimetableEvent{openV, closeV}
}

// computeDuration formats the span between two clock strings as "HH:MM",
// wrapping past midnight when the close is not after the open. Empty on
// unparseable input.
func computeDuration(openTime, closeTime string) string {
	o := timeline.TimeToMinutes(openTime)
	c := timeline.TimeToMinutes(closeTime)
	if math.IsInf(o, 1) || math.IsInf(c, 1) {
		return ""
	}
	delta := c - o
	if delta <= 0 {
		delta += 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", int(delta)/60, int(delta)%60)
}

func addDays(date string, n int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format("2006-01-02")
}
