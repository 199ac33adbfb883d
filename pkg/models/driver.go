package models

import "time"

// DriverOffice is the driver's registered office location; lat/lng stay
// nil until the driver registers, and the nearby search requires both.
type DriverOffice struct {
	DriverID       int64    `json:"driver_id"`
	Sido           string   `json:"sido"`
	SidoEnglish    string   `json:"sido_english"`
	Sigungu        string   `json:"sigungu"`
	SigunguEnglish string   `json:"sigungu_english"`
	ZoneCode       string   `json:"zone_code"`
	Address        string   `json:"address"`
	AddressEnglish string   `json:"address_english"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DriverSummary is one row of the read-optimized per-driver aggregate
// (driver_stats). This service reads it for listing and sorting; the
// refresh pipeline that maintains it lives elsewhere.
type DriverSummary struct {
	DriverID       int64   `json:"driver_id"`
	Nickname       string  `json:"nickname"`
	Region         Region  `json:"region"`
	ServiceType    string  `json:"service_type"`
	ReviewCount    int     `json:"review_count"`
	AvgRating      float64 `json:"avg_rating"`
	ConfirmedCount int     `json:"confirmed_count"`
	FavoriteCount  int     `json:"favorite_count"`
}
