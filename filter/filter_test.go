package filter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/EXPORTER-DEV/fsp-api-client/fsp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecords() []fsp.EnrichedRecord {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []fsp.EnrichedRecord{
		{
			ID:          1,
			Entity:      fsp.Entity{ID: "durov", DisplayName: "Pavel Durov", Link: "https://vk.com/durov", Type: fsp.RecordTypeUser},
			Type:        fsp.RecordTypeUser,
			Source:      fsp.RecordSourceVK,
			Description: "Scam account selling fake tickets",
			Photos:      []string{"a.jpg", "b.jpg"},
			CreatedBy:   &fsp.AuthorUser{ID: "42", DisplayName: "Moderator", Timestamp: created.UnixMilli()},
		},
		{
			ID:          2,
			Entity:      fsp.Entity{ID: "club1", DisplayName: "Club", Link: "https://vk.com/club1", Type: fsp.RecordTypeGroup},
			Type:        fsp.RecordTypeGroup,
			Source:      fsp.RecordSourceTelegram,
			Description: "spam",
			CreatedBy:   &fsp.AuthorUser{ID: "7", DisplayName: "Helper", Timestamp: created.AddDate(0, 1, 0).UnixMilli()},
			UpdatedBy:   &fsp.AuthorUser{ID: "42", DisplayName: "Moderator"},
		},
		{
			ID:        3,
			Entity:    fsp.Entity{ID: "channel", Type: fsp.RecordTypeTelegram},
			Type:      fsp.RecordTypeTelegram,
			Source:    fsp.RecordSourceTelegram,
			DeletedBy: &fsp.AuthorUser{ID: "42"},
		},
	}
}

func ids(records []fsp.EnrichedRecord) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `Type == "user"`,
		},
		{
			name:        "empty expression",
			expression:  "   ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `contains(Description, "unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown variable",
			expression: `Title == "x"`,
			wantErr:    true,
		},
		{
			name:       "non boolean result",
			expression: `PhotoCount + 1`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `Source == "vk" and hasPhotos() and createdAfter(parseDate("2024-01-01"))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewExprCompiler().Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expression, f.Expression())
		})
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		expression string
		want       []int64
	}{
		{`Type == "user"`, []int64{1}},
		{`Source == "telegram"`, []int64{2, 3}},
		{`hasPhotos()`, []int64{1}},
		{`PhotoCount >= 2`, []int64{1}},
		{`contains(Description, "SCAM")`, []int64{1}},
		{`createdBy("moderator")`, []int64{1}},
		{`createdBy("7") or updatedBy("42")`, []int64{2}},
		{`createdAfter(parseDate("2024-03-15"))`, []int64{2}},
		{`createdBefore(parseDate("2024-03-15"))`, []int64{1}},
		{`Deleted`, []int64{3}},
		{`not Deleted and startsWith(Link, "https://vk.com")`, []int64{1, 2}},
		{`ID > 100`, []int64{}},
	}

	records := testRecords()
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			f, err := CompileFilter(tt.expression)
			require.NoError(t, err)

			matches, err := Apply(context.Background(), f, records)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(matches))
		})
	}
}

func TestApplyCanceled(t *testing.T) {
	f, err := CompileFilter(`true`)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	matches, err := Apply(ctx, f, testRecords())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, matches)
}

func TestApplyEvaluationError(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"boom": func(id int64) (bool, error) {
			if id == 2 {
				return false, errors.New("boom")
			}
			return true, nil
		},
	}))
	f, err := compiler.Compile(`boom(ID)`)
	require.NoError(t, err)

	matches, err := Apply(context.Background(), f, testRecords())
	require.Error(t, err)
	assert.Equal(t, []int64{1, 3}, ids(matches))

	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, int64(2), evalErr.RecordID)
	assert.False(t, f.Evaluate(testRecords()[1]))
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`Type == "user"`)
	require.NoError(t, err)
	second, err := compiler.Compile(`Type == "user"`)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`Type == "group"`)
	require.NoError(t, err)
	_, err = compiler.Compile(`Type == "telegram"`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	compiler.Clear()
	assert.Equal(t, 0, compiler.Size())

	uncached := NewExprCompiler()
	_, err = uncached.Compile(`Deleted`)
	require.NoError(t, err)
	assert.Equal(t, 0, uncached.Size())
}
