package model

// CheckRequest тело запроса POST /api/check.
type CheckRequest struct {
	URLs []string `json:"urls"`
}

// Report представляет ответ на запрос проверки пакета URL.
type Report struct {
	Message        string                   `json:"message"`
	BatchID        string                   `json:"batch_id"`
	ProcessedAt    string                   `json:"processed_at"`
	Results        []ProbeResult            `json:"results"`
	Summary        map[string]*StatusBucket `json:"summary"`
	CategoryCounts map[Category]int         `json:"category_counts"`
}

// ErrorResponse тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
