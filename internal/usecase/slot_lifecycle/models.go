package slot_lifecycle

// OccupancyResponse загрузка парковки и действующий срок ожидания занятия места
type OccupancyResponse struct {
	Booked      int     `json:"booked"`
	Total       int     `json:"total"`
	Ratio       float64 `json:"ratio"`
	WaitMinutes float64 `json:"waitMinutes"`
}
