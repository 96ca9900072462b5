package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Zone is an LAPD patrol division. Predictions reference zones by Name.
type Zone struct {
	ZoneID string `json:"id" gorm:"primaryKey;column:zone_id;size:50"`
	Name   string `json:"name" gorm:"column:name;size:100;not null;uniqueIndex"`
	Code   string `json:"code" gorm:"column:code;size:10;not null"`

	// Boundaries is a closed polygon of [lat, lng] pairs, persisted as JSON.
	Boundaries     [][2]float64 `json:"boundaries" gorm:"-"`
	BoundariesJSON string       `json:"-" gorm:"column:boundaries_json;type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Zone) TableName() string {
	return "zones"
}

func (z *Zone) BeforeSave(tx *gorm.DB) error {
	raw, err := json.Marshal(z.Boundaries)
	if err != nil {
		return err
	}
	z.BoundariesJSON = string(raw)
	return nil
}

func (z *Zone) AfterFind(tx *gorm.DB) error {
	if z.BoundariesJSON == "" {
		z.Boundaries = nil
		return nil
	}
	return json.Unmarshal([]byte(z.BoundariesJSON), &z.Boundaries)
}

// ZoneData is the per-zone summary served next to the catalog entry.
type ZoneData struct {
	ID         string             `json:"id"`
	Statistics ZoneDataStatistics `json:"statistics"`
}

type ZoneDataStatistics struct {
	CrimeCount      int       `json:"crimeCount"`
	HighRiskAreas   int       `json:"highRiskAreas"`
	MostCommonCrime CrimeType `json:"mostCommonCrime"`
}

// LAPDDivisions is the seed catalog of the divisions covered by the model.
// Boundaries are coarse boxes around each station area. The generator draws
// zones by index, so the order is part of the seeded output.
var LAPDDivisions = []Zone{
	divisionBox("central", "Central", "01", 34.0441, -118.2470),
	divisionBox("rampart", "Rampart", "02", 34.0617, -118.2783),
	divisionBox("southwest", "Southwest", "03", 34.0108, -118.3050),
	divisionBox("hollywood", "Hollywood", "06", 34.0980, -118.3300),
	divisionBox("harbor", "Harbor", "05", 33.7580, -118.2890),
	divisionBox("west-la", "West LA", "08", 34.0430, -118.4500),
	divisionBox("van-nuys", "Van Nuys", "09", 34.1867, -118.4490),
	divisionBox("northeast", "Northeast", "11", 34.1190, -118.2490),
}

// DivisionNames returns the names of LAPDDivisions in catalog order.
func DivisionNames() []string {
	names := make([]string, len(LAPDDivisions))
	for i, z := range LAPDDivisions {
		names[i] = z.Name
	}
	return names
}

const divisionHalfSpan = 0.03

func divisionBox(id, name, code string, lat, lng float64) Zone {
	d := divisionHalfSpan
	return Zone{
		ZoneID: id,
		Name:   name,
		Code:   code,
		Boundaries: [][2]float64{
			{lat - d, lng - d},
			{lat - d, lng + d},
			{lat + d, lng + d},
			{lat + d, lng - d},
			{lat - d, lng - d},
		},
	}
}
