package storage

import "fmt"

// Object keys per work item. One report per WorkItem, keyed by its identifier.

func ReportKey(id string) string {
	return fmt.Sprintf("%s/report.txt", id)
}

func WorkbookKey(id string) string {
	return fmt.Sprintf("%s/report.xlsx", id)
}

const (
	ReportContentType   = "text/plain; charset=utf-8"
	WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
