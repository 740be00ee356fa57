package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Category грубая классификация результата проверки.
type Category string

const (
	CategoryActive   Category = "active"
	CategoryInactive Category = "inactive"
	CategoryError    Category = "error"
)

// StatusNA выводится вместо кода, если ответ так и не был получен.
const StatusNA = "N/A"

// StatusCode HTTP-код ответа. Нулевое значение означает, что ответа не было.
type StatusCode int

// Received сообщает, был ли получен HTTP-ответ.
func (c StatusCode) Received() bool {
	return c > 0
}

// String возвращает код в виде строки либо "N/A".
func (c StatusCode) String() string {
	if !c.Received() {
		return StatusNA
	}
	return strconv.Itoa(int(c))
}

// MarshalJSON пишет код числом, а отсутствие ответа строкой "N/A".
func (c StatusCode) MarshalJSON() ([]byte, error) {
	if !c.Received() {
		return json.Marshal(StatusNA)
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalJSON принимает число или строку "N/A".
func (c *StatusCode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != StatusNA {
			return fmt.Errorf("unexpected status code %q", s)
		}
		*c = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("status code: %w", err)
	}
	*c = StatusCode(n)
	return nil
}

// ProbeResult результат проверки одного URL.
type ProbeResult struct {
	URL          string     `json:"url"`
	StatusCode   StatusCode `json:"status_code"`
	Message      string     `json:"message"`
	ResponseTime float64    `json:"response_time_sec"`
	Category     Category   `json:"category"`
}
