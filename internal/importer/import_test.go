package importer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex/internal/domain/model"
)

func TestImport(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Problem,Link,Topics\n")
	for i := 1; i <= 8; i++ {
		fmt.Fprintf(&sb, "P%d,https://example.com/p/%d,Graphs\n", i, i)
	}

	res, err := Import(strings.NewReader(sb.String()), "/tmp/uploads/Blind 75.csv")
	require.NoError(t, err)

	assert.Equal(t, "Blind 75", res.Title)
	assert.Equal(t, FormatCSV, res.Format)
	require.Len(t, res.Questions, 8)
	assert.Len(t, res.Preview(), PreviewSize)
	assert.Equal(t, "P1", res.Preview()[0].Title)
	assert.Equal(t, []string{"Graphs"}, res.Questions[7].Topics)
	assert.Equal(t, model.DefaultDifficulty, res.Questions[7].Difficulty)
}

func TestImportShortPreview(t *testing.T) {
	res, err := Import(strings.NewReader("Title\nOnly\n"), "one.csv")
	require.NoError(t, err)
	assert.Len(t, res.Preview(), 1)
}

func TestTitleFromFilename(t *testing.T) {
	tests := map[string]string{
		"Striver SDE Sheet.xlsx":  "Striver SDE Sheet",
		"dir/sub/love.babbar.csv": "love.babbar",
		"noext":                   "noext",
		".hidden":                 ".hidden",
	}
	for in, want := range tests {
		assert.Equal(t, want, TitleFromFilename(in), in)
	}
}
