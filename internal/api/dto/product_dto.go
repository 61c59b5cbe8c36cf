package dto

// AdvertiseRequest payload for PATCH /advertise/:id.
type AdvertiseRequest struct {
	IsAdvertised *bool `json:"isAdvertised"`
}

// ReportRequest payload for PATCH /reports/:id.
type ReportRequest struct {
	Reported *bool `json:"reported"`
}
