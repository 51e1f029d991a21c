package review

type CreateRequest struct {
	ActivityID int64  `json:"activity_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}
