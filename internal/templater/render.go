package templater

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/papapumpkin/stencil/internal/output"
	"github.com/papapumpkin/stencil/internal/template"
)

const timestampLayout = "2006-01-02 15:04:05"

// RenderTable formats records as the list view table.
func RenderTable(recs []template.Record) string {
	t := output.NewTable("Name", "Description", "Size", "Created", "Last Used")
	for _, rec := range recs {
		t.Row(
			rec.Name,
			descriptionOrPlaceholder(rec.Description),
			humanize.Bytes(uint64(rec.CompressedSize)),
			formatStamp(rec.Created),
			formatLastUsed(rec.Used),
		)
	}
	return t.String()
}

func descriptionOrPlaceholder(desc string) string {
	if desc == "" {
		return "No description"
	}
	return desc
}

func formatStamp(t time.Time) string {
	return t.Local().Format(timestampLayout)
}

func formatLastUsed(t *time.Time) string {
	if t == nil {
		return "Never"
	}
	return formatStamp(*t)
}
