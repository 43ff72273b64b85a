package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aquamate/hydration-helper/internal/domain"
)

const csvHeader = "Date,Intake (ml),Goal (ml),Completed"

// ExportService serializes day records to CSV for download. Output is
// deterministic: same records in, byte-identical text out.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// ToCSV renders one row per record, ascending by date. Dates use the
// locale-independent YYYY-MM-DD form; volumes are rounded to whole ml. No
// field can contain the delimiter, so no escaping is needed.
func (s *ExportService) ToCSV(records []domain.DayRecord) string {
	sorted := make([]domain.DayRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteString("\n")
	for _, record := range sorted {
		completed := "No"
		if record.Completed {
			completed = "Yes"
		}
		fmt.Fprintf(&b, "%s,%.0f,%.0f,%s\n",
			record.Date.Format("2006-01-02"),
			record.AchievedML,
			record.TargetML,
			completed)
	}
	return b.String()
}
