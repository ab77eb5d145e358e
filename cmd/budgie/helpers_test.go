package main

import (
	"testing"
	"time"

	"github.com/Veraticus/budgie/internal/common"
	"github.com/Veraticus/budgie/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "day first with slashes", input: "05/03/2024"},
		{name: "iso", input: "2024-03-05"},
		{name: "day first with dashes", input: "05-03-2024"},
		{name: "surrounding spaces", input: " 2024-03-05 "},
		{name: "month name", input: "March 5 2024", wantErr: true},
		{name: "impossible day", input: "31/02/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				var ue *common.UserError
				assert.ErrorAs(t, err, &ue)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParseDate_EmptyIsToday(t *testing.T) {
	got, err := parseDate("")
	require.NoError(t, err)
	now := time.Now()
	assert.Equal(t, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), got)
}

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input   string
		want    model.MonthYear
		wantErr bool
	}{
		{input: "12/2024", want: model.MonthYear{Month: 12, Year: 2024}},
		{input: "2024-03", want: model.MonthYear{Month: 3, Year: 2024}},
		{input: "3/2024", want: model.MonthYear{Month: 3, Year: 2024}},
		{input: "13/2024", wantErr: true},
		{input: "12/1800", wantErr: true},
		{input: "december", wantErr: true},
		{input: "ab/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePeriod(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}
	self := func(s string) string { return s }

	tests := []struct {
		name    string
		id      string
		want    string
		wantErr error
	}{
		{name: "exact", id: "xyz789", want: "xyz789"},
		{name: "unique prefix", id: "abc", want: "abc123"},
		{name: "ambiguous prefix", id: "ab", wantErr: &common.UserError{}},
		{name: "no match", id: "zzz", wantErr: common.ErrNotFound},
		{name: "empty", id: " ", wantErr: &common.UserError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveID("entry", tt.id, ids, self)
			switch want := tt.wantErr.(type) {
			case nil:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			case *common.UserError:
				var ue *common.UserError
				assert.ErrorAs(t, err, &ue)
			default:
				assert.ErrorIs(t, err, want)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", formatFileSize(512))
	assert.Equal(t, "1.5 KB", formatFileSize(1536))
	assert.Equal(t, "2.0 MB", formatFileSize(2*1024*1024))
}

func TestValidateOutput(t *testing.T) {
	for _, ok := range []string{"table", "json", "yaml"} {
		assert.NoError(t, validateOutput(ok))
	}
	assert.Error(t, validateOutput("csv"))
}
