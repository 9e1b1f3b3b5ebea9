package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/EXPORTER-DEV/fsp-api-client/config"
	"github.com/EXPORTER-DEV/fsp-api-client/fsp"
)

// ConsoleFormatter provides console output formatting for records
type ConsoleFormatter struct {
	ShowDetails bool
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(showDetails bool) *ConsoleFormatter {
	return &ConsoleFormatter{ShowDetails: showDetails}
}

// FormatRecordList formats a list of records for console display
func (f *ConsoleFormatter) FormatRecordList(records []fsp.EnrichedRecord) string {
	if len(records) == 0 {
		return "No records found"
	}

	var sb strings.Builder

	sb.WriteString("\nRecord")
	if len(records) != 1 {
		sb.WriteString("s")
	}
	fmt.Fprintf(&sb, " (%d):\n\n", len(records))

	for i, record := range records {
		isLast := i == len(records)-1
		f.formatRecord(&sb, record, isLast)

		if !isLast {
			sb.WriteString("│\n")
		}
	}

	sb.WriteString("\n")
	return sb.String()
}

func (f *ConsoleFormatter) formatRecord(sb *strings.Builder, record fsp.EnrichedRecord, isLast bool) {
	prefix := "├"
	indent := "│   "
	if isLast {
		prefix = "╰"
		indent = "    "
	}

	name := record.Entity.DisplayName
	if name == "" {
		name = record.Entity.ID
	}
	fmt.Fprintf(sb, "%s── #%d %s [%s/%s]\n", prefix, record.ID, name, record.Source, record.Type)

	if record.Description != "" {
		fmt.Fprintf(sb, "%sDescription: %s\n", indent, record.Description)
	}
	if record.Entity.Link != "" {
		fmt.Fprintf(sb, "%sLink: %s\n", indent, record.Entity.Link)
	}

	if record.IsDeleted() {
		fmt.Fprintf(sb, "%sDeleted: %s\n", indent, describeAuthor(record.DeletedBy))
	}

	if !f.ShowDetails {
		return
	}

	fmt.Fprintf(sb, "%sEntity ID: %s\n", indent, record.Entity.ID)
	if len(record.Photos) > 0 {
		fmt.Fprintf(sb, "%sPhotos: %d\n", indent, len(record.Photos))
	}
	if record.CreatedBy != nil {
		fmt.Fprintf(sb, "%sCreated: %s\n", indent, describeAuthor(record.CreatedBy))
	}
	if record.UpdatedBy != nil {
		fmt.Fprintf(sb, "%sUpdated: %s\n", indent, describeAuthor(record.UpdatedBy))
	}
}

func describeAuthor(author *fsp.AuthorUser) string {
	if author == nil {
		return "unknown"
	}

	name := author.DisplayName
	if name == "" {
		name = author.ID
	}

	if t := author.Time(); !t.IsZero() {
		return fmt.Sprintf("%s (%s) %s", name, author.Source, t.Format(time.DateTime))
	}
	return fmt.Sprintf("%s (%s)", name, author.Source)
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printRecords prints records in the configured output format
func printRecords(cmd *cobra.Command, records []fsp.EnrichedRecord) error {
	out := cmd.OutOrStdout()

	output := config.OutputConfig{}
	if cfg != nil {
		output = cfg.Output
	}

	if output.JSON {
		if records == nil {
			records = []fsp.EnrichedRecord{}
		}
		return writeJSON(out, records)
	}

	fmt.Fprintln(out, NewConsoleFormatter(output.ShowDetails).FormatRecordList(records))
	return nil
}

// describeError turns client errors into a message for the terminal
func describeError(err error) string {
	var apiErr *fsp.Error
	if !errors.As(err, &apiErr) {
		return fmt.Sprintf("Error: %v", err)
	}

	var hint string
	switch {
	case apiErr.IsDuplicate():
		hint = "a record for this entity already exists"
	case apiErr.IsValidation():
		hint = "the service rejected the request parameters"
	case apiErr.IsEnrich():
		hint = "the service could not resolve the entity, try again later"
	case apiErr.IsParseFailed():
		hint = "the service returned a malformed response"
	case apiErr.IsAuthorization():
		hint = "check api.username and api.password"
	case apiErr.IsInternal():
		hint = "the service failed internally"
	}

	if hint == "" {
		return fmt.Sprintf("Error: %v", err)
	}
	return fmt.Sprintf("Error: %v\nHint: %s", err, hint)
}
