package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"plain value", "The Trial", true},
		{"literal zero", "0", true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			assert.Equal(t, tt.want, v.Required(tt.value, "title"))
			assert.Equal(t, tt.want, v.Valid())
		})
	}
}

func TestLength(t *testing.T) {
	v := New()
	assert.True(t, v.Length("abc", 1, 255, "title"))
	assert.False(t, v.Length("", 1, 255, "title"))
	assert.False(t, New().Length(string(make([]byte, 256)), 1, 255, "title"))
}

func TestNumeric(t *testing.T) {
	v := New()
	assert.True(t, v.Numeric("42", "pages"))
	assert.True(t, v.Numeric("-3.5", "pages"))
	assert.False(t, v.Numeric("forty", "pages"))
	assert.Equal(t, "pages must be a number", v.FirstError())
}

func TestMinMax(t *testing.T) {
	v := New()
	assert.True(t, v.Min(0, 0, "pages"))
	assert.False(t, v.Min(-1, 0, "pages"))
	assert.True(t, v.Max(100, 100, "pages"))
	assert.False(t, v.Max(101, 100, "pages"))
}

func TestDate(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"2024-02-29", true}, // leap day
		{"2024-02-30", false},
		{"2023-02-29", false},
		{"2024-2-3", false}, // not zero-padded
		{"2024-13-01", false},
		{"yesterday", false},
		{"2025-03-01", true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, New().Date(tt.value, "date_start"))
		})
	}
}

func TestDateRange(t *testing.T) {
	v := New()
	assert.True(t, v.DateRange("2025-01-01", "2025-03-01", "date_range"))
	assert.True(t, v.DateRange("", "2025-03-01", "date_range"), "missing side skips the check")
	assert.True(t, v.DateRange("2025-01-01", "", "date_range"))
	assert.True(t, v.DateRange("2025-01-01", "2025-01-01", "date_range"), "equal dates are valid")
	assert.False(t, v.DateRange("2025-03-01", "2025-01-01", "date_range"))
	assert.Equal(t, "start date cannot be after finish date", v.FirstError())
}

func TestEmail(t *testing.T) {
	v := New()
	assert.True(t, v.Email("", "email"), "empty email passes when optional")
	assert.True(t, v.Email("kafka@example.com", "email"))
	assert.False(t, v.Email("not-an-email", "email"))
	assert.False(t, New().Email("a@b", "email"))
}

func TestIn(t *testing.T) {
	v := New()
	assert.True(t, v.In("ASC", []string{"ASC", "DESC"}, "order"))
	assert.False(t, v.In("SIDEWAYS", []string{"ASC", "DESC"}, "order"))
}

func TestErrorAccumulation(t *testing.T) {
	v := New()
	v.Required("", "title")
	v.Min(-5, 0, "pages")
	v.AddError("title", "second message must not overwrite")

	errs := v.Errs()
	require.Equal(t, 2, errs.Len())
	assert.Equal(t, []string{"title", "pages"}, errs.Fields())
	assert.Equal(t, "title is required", errs.Get("title"))
	assert.Equal(t, "title is required", errs.First())
	assert.EqualError(t, errs, "validation failed: title is required")

	v.Clear()
	assert.True(t, v.Valid())
	assert.Equal(t, "", v.FirstError())
}
