package model

// StatusBucket группа результатов с одинаковым кодом.
type StatusBucket struct {
	Count   int      `json:"count"`
	Message string   `json:"message"`
	URLs    []string `json:"Urls"`
}

// BatchSummary сводка по пакету проверок.
type BatchSummary struct {
	ByStatusCode   map[string]*StatusBucket `json:"summary"`
	CategoryCounts map[Category]int         `json:"category_counts"`
}

// BatchResult результаты пакета в порядке входных URL и сводка по ним.
type BatchResult struct {
	Results []ProbeResult
	Summary BatchSummary
}
