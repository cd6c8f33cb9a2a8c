package export

import (
	"encoding/json"

	"workforce/internal/domain/reports"
)

func JSON(d reports.Downloadable) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
