package models

import "time"

type EstimateRequest struct {
	ID                 int64         `json:"id"`
	RequesterID        int64         `json:"requester_id"`
	MovingType         MovingType    `json:"moving_type"`
	MovingDate         time.Time     `json:"moving_date"`
	DesignatedDriverID *int64        `json:"designated_driver_id"`
	Status             RequestStatus `json:"status"`
	SoftDeleted        bool          `json:"-"`
	From               *Address      `json:"from,omitempty"`
	To                 *Address      `json:"to,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

type Address struct {
	ID             int64       `json:"id"`
	RequestID      int64       `json:"request_id"`
	Type           AddressType `json:"type"`
	Sido           string      `json:"sido"`
	SidoEnglish    string      `json:"sido_english"`
	Sigungu        string      `json:"sigungu"`
	SigunguEnglish string      `json:"sigungu_english"`
	ZoneCode       string      `json:"zone_code"`
	Address        string      `json:"address"`
	AddressEnglish string      `json:"address_english"`
	Lat            float64     `json:"lat"`
	Lng            float64     `json:"lng"`
}

// NearbyRequest is one row of the driver-facing nearby search:
// an open request plus its great-circle distance from the office.
type NearbyRequest struct {
	RequestID  int64      `json:"request_id"`
	DistanceKm float64    `json:"distance_km"`
	MovingType MovingType `json:"moving_type"`
	MovingDate time.Time  `json:"moving_date"`
	CreatedAt  time.Time  `json:"created_at"`
	From       Address    `json:"from"`
}
