package booking

import "time"

type ParticipantInput struct {
	Name string `json:"name" binding:"required"`
	Age  *int   `json:"age"`
}

type CreateBookingRequest struct {
	ActivityID      int64              `json:"activity_id" binding:"required"`
	Date            time.Time          `json:"date" binding:"required"`
	TimeSlot        string             `json:"time_slot" binding:"required"`
	Participants    int                `json:"participants" binding:"required,gt=0"`
	ParticipantList []ParticipantInput `json:"participant_list"`
	CouponCode      string             `json:"coupon_code"`
	SpecialRequests string             `json:"special_requests"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type CheckAvailabilityRequest struct {
	ActivityID   int64     `json:"activity_id" binding:"required"`
	Date         time.Time `json:"date" binding:"required"`
	TimeSlot     string    `json:"time_slot" binding:"required"`
	Participants int       `json:"participants" binding:"required,gt=0"`
}
