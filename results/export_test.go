package results

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sample = []models.Result{
	{Score: 500, EnemyScore: 484, Enemy: "Alpha", Date: "2024-05-01 21:00:00"},
	{Score: 480, EnemyScore: 504, Enemy: "Beta, Inc", Date: "2024-05-03 22:00:00"},
}

func TestExportCSV(t *testing.T) {
	data, err := ExportCSV(sample, "Team")
	require.NoError(t, err)
	assert.Equal(t,
		"Team,500,484,Alpha,2024-05-01 21:00:00\n"+
			"Team,480,504,\"Beta, Inc\",2024-05-03 22:00:00\n",
		string(data))

	_, err = ExportCSV(nil, "Team")
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestParseCSV_RoundTrip(t *testing.T) {
	data, err := ExportCSV(sample, "Team")
	require.NoError(t, err)

	parsed, err := ParseCSV(data)
	require.NoError(t, err)
	assert.Equal(t, sample, parsed)
}

func TestParseCSV_AcceptsLooseInput(t *testing.T) {
	input := "X, 500, 484, Alpha, 2024/05/01\nX,480,504,Beta,2024-04-30 20:00:00,extra\n"

	parsed, err := ParseCSV([]byte(input))
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "Beta", parsed[0].Enemy)
	assert.Equal(t, "2024-05-01 00:00:00", parsed[1].Date)
}

func TestParseCSV_Rejects(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"short row":   "X,500,484\n",
		"bad score":   "X,abc,484,Alpha,2024-05-01 21:00:00\n",
		"bad date":    "X,500,484,Alpha,yesterday\n",
		"broken csv":  "X,500,484,\"Alpha,2024-05-01\n",
		"second line": "X,500,484,Alpha,2024-05-01 21:00:00\nnope\n",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV([]byte(input))
			assert.ErrorIs(t, err, ErrNotAcceptableContent)
		})
	}
}

func TestValidateCSVName(t *testing.T) {
	assert.NoError(t, ValidateCSVName("result.csv"))
	assert.NoError(t, ValidateCSVName("RESULT.CSV"))
	assert.ErrorIs(t, ValidateCSVName("result.xlsx"), ErrNotCSVFile)
	assert.ErrorIs(t, ValidateCSVName("result"), ErrNotCSVFile)
}

func TestExportXLSX(t *testing.T) {
	data, err := ExportXLSX(sample, "Team")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("results")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"team", "score", "enemyScore", "enemy", "date"}, rows[0])
	assert.Equal(t, []string{"Team", "500", "484", "Alpha", "2024-05-01 21:00:00"}, rows[1])
}

func TestRenderChart(t *testing.T) {
	png, err := RenderChart(sample)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	png, err = RenderChart(sample[:1])
	require.NoError(t, err)
	assert.NotEmpty(t, png)

	_, err = RenderChart(nil)
	assert.ErrorIs(t, err, ErrEmptyResult)
}

func TestCumulativeDiff(t *testing.T) {
	_, ys := CumulativeDiff(sample)
	assert.Equal(t, []float64{16, -8}, ys)
}

func TestListPages(t *testing.T) {
	pages := ListPages(entries(sample))
	require.Len(t, pages, 1)
	assert.True(t, strings.HasPrefix(pages[0], "```ID"))
	assert.Contains(t, pages[0], "500 - 484")
	assert.Contains(t, pages[0], "Win")
	assert.True(t, strings.HasSuffix(pages[0], "__**Win**__:  1  __**Lose**__:  1  __**Draw**__:  0  [2]"))

	var many []models.Result
	for i := 0; i < 40; i++ {
		many = append(many, models.Result{Score: 500, EnemyScore: 484, Enemy: "Alpha", Date: "2024-05-01 21:00:00"})
		many[i].Score += i
	}
	assert.Greater(t, len(ListPages(entries(many))), 1)
}

func TestSearchPages(t *testing.T) {
	pages := SearchPages("Alpha", entries(sample[:1]))
	require.Len(t, pages, 1)
	assert.True(t, strings.HasPrefix(pages[0], "vs **Alpha**```"))
	assert.Contains(t, pages[0], "2024/05/01")
}
