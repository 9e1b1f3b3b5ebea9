package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EXPORTER-DEV/fsp-api-client/config"
	"github.com/EXPORTER-DEV/fsp-api-client/fsp"
)

func sampleRecords() []fsp.EnrichedRecord {
	return []fsp.EnrichedRecord{
		{
			ID:          1,
			Entity:      fsp.Entity{ID: "12345", DisplayName: "Pavel Durov", Link: "https://vk.com/id12345", Type: fsp.RecordTypeUser},
			Type:        fsp.RecordTypeUser,
			Source:      fsp.RecordSourceVK,
			Description: "spam",
			Photos:      []string{"a.jpg", "b.jpg"},
			CreatedBy:   &fsp.AuthorUser{DisplayName: "admin", ID: "1", Source: fsp.RecordSourceVK},
		},
		{
			ID:        2,
			Entity:    fsp.Entity{ID: "club1"},
			Type:      fsp.RecordTypeGroup,
			Source:    fsp.RecordSourceTelegram,
			DeletedBy: &fsp.AuthorUser{ID: "9", Source: fsp.RecordSourceTelegram},
		},
	}
}

func TestFormatRecordList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No records found", NewConsoleFormatter(false).FormatRecordList(nil))
	})

	t.Run("summary", func(t *testing.T) {
		out := NewConsoleFormatter(false).FormatRecordList(sampleRecords())

		assert.Contains(t, out, "Records (2):")
		assert.Contains(t, out, "├── #1 Pavel Durov [vk/user]")
		assert.Contains(t, out, "╰── #2 club1 [telegram/group]")
		assert.Contains(t, out, "│   Description: spam")
		assert.Contains(t, out, "    Deleted: 9 (telegram)")
		assert.NotContains(t, out, "Photos:")
	})

	t.Run("details", func(t *testing.T) {
		out := NewConsoleFormatter(true).FormatRecordList(sampleRecords()[:1])

		assert.Contains(t, out, "Record (1):")
		assert.Contains(t, out, "Entity ID: 12345")
		assert.Contains(t, out, "Photos: 2")
		assert.Contains(t, out, "Created: admin (vk)")
	})
}

func TestPrintRecordsJSON(t *testing.T) {
	prev := cfg
	t.Cleanup(func() { cfg = prev })
	cfg = &config.Config{Output: config.OutputConfig{JSON: true}}

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, printRecords(cmd, sampleRecords()))

	var decoded []fsp.EnrichedRecord
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleRecords(), decoded)

	buf.Reset()
	require.NoError(t, printRecords(cmd, nil))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{name: "plain error", err: errors.New("boom")},
		{name: "duplicate", err: fsp.NewDuplicateError(406, ""), wantHint: "already exists"},
		{name: "validation", err: fsp.NewValidationError(400, ""), wantHint: "request parameters"},
		{name: "enrich", err: fsp.NewEnrichError(503, ""), wantHint: "try again later"},
		{name: "parse", err: fsp.NewParseFailedError(200, "<html>", errors.New("invalid character")), wantHint: "malformed"},
		{name: "authorization", err: fsp.NewAuthorizationError(401, ""), wantHint: "api.username"},
		{name: "internal", err: fsp.NewInternalError(500, ""), wantHint: "failed internally"},
		{name: "wrapped", err: fmt.Errorf("create record for 1: %w", fsp.NewDuplicateError(406, "")), wantHint: "already exists"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := describeError(tt.err)
			assert.Contains(t, msg, "Error: "+tt.err.Error())
			if tt.wantHint == "" {
				assert.NotContains(t, msg, "Hint:")
				return
			}
			assert.Contains(t, msg, "Hint: ")
			assert.Contains(t, msg, tt.wantHint)
		})
	}
}

func TestNormalizeVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "v1.2.3", want: "1.2.3"},
		{in: "1.2.3", want: "1.2.3"},
		{in: "v1.2", want: "1.2.0"},
		{in: "dev", want: "dev"},
		{in: "", want: "dev"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeVersion(tt.in))
		})
	}

	assert.True(t, isReleaseVersion("1.2.3"))
	assert.False(t, isReleaseVersion("dev"))
}
