package batch

import "github.com/Totarae/URLProbe/internal/model"

// Summarize группирует результаты по коду ответа и категории.
// Сообщение группы берётся из первого результата с этим кодом.
func Summarize(results []model.ProbeResult) model.BatchSummary {
	summary := model.BatchSummary{
		ByStatusCode:   make(map[string]*model.StatusBucket),
		CategoryCounts: make(map[model.Category]int),
	}

	for _, res := range results {
		code := res.StatusCode.String()
		bucket, ok := summary.ByStatusCode[code]
		if !ok {
			bucket = &model.StatusBucket{Message: res.Message}
			summary.ByStatusCode[code] = bucket
		}
		bucket.Count++
		bucket.URLs = append(bucket.URLs, res.URL)

		summary.CategoryCounts[res.Category]++
	}

	return summary
}
