package models

// RequestStatus and EstimateStatus are kept as two distinct types on
// purpose: a single driver's decline (EstimateStatus REJECTED) never
// implies anything about the overall request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestConfirmed RequestStatus = "CONFIRMED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestCancelled RequestStatus = "CANCELLED"
)

type EstimateStatus string

const (
	EstimatePending   EstimateStatus = "PENDING"
	EstimateConfirmed EstimateStatus = "CONFIRMED"
	EstimateRejected  EstimateStatus = "REJECTED"
	EstimateCancelled EstimateStatus = "CANCELLED"
)

type MovingType string

const (
	MovingSmall  MovingType = "SMALL"
	MovingHome   MovingType = "HOME"
	MovingOffice MovingType = "OFFICE"
)

func ValidMovingType(v string) bool {
	switch MovingType(v) {
	case MovingSmall, MovingHome, MovingOffice:
		return true
	}
	return false
}

type AddressType string

const (
	AddressFrom AddressType = "FROM"
	AddressTo   AddressType = "TO"
)

type Role string

const (
	RoleUser   Role = "USER"
	RoleDriver Role = "DRIVER"
	RoleAdmin  Role = "ADMIN"
)

func ValidRole(v string) bool {
	switch Role(v) {
	case RoleUser, RoleDriver, RoleAdmin:
		return true
	}
	return false
}

// Region is the province-level filter on driver listings.
type Region string

var Regions = []Region{
	"SEOUL", "BUSAN", "DAEGU", "INCHEON", "GWANGJU", "DAEJEON", "ULSAN",
	"SEJONG", "GYEONGGI", "GANGWON", "CHUNGBUK", "CHUNGNAM", "JEONBUK",
	"JEONNAM", "GYEONGBUK", "GYEONGNAM", "JEJU",
}

func ValidRegion(v string) bool {
	for _, r := range Regions {
		if r == Region(v) {
			return true
		}
	}
	return false
}

type NotificationType string

const (
	NotifyEstimateReceived  NotificationType = "ESTIMATE_RECEIVED"
	NotifyRequestRejected   NotificationType = "REQUEST_REJECTED"
	NotifyEstimateConfirmed NotificationType = "ESTIMATE_CONFIRMED"
)
