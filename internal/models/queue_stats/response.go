package models

type QueueStatsResponse struct {
	Pending       int `json:"pending"`
	Replayed      int `json:"replayed"`
	DroppedRetry  int `json:"droppedRetry"`
	DroppedExpiry int `json:"droppedExpiry"`
}
