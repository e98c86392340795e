package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) results(t *testing.T) []models.Result {
	t.Helper()
	results, err := f.repo.GetResults(context.Background(), testGuild)
	require.NoError(t, err)
	return results
}

func TestResultRegister(t *testing.T) {
	f := newFixture(t)

	f.send("!result register Foe 500 2024 3 5")

	date := time.Date(2024, 3, 5, 0, 0, 0, 0, utils.JST)
	want := fmt.Sprintf("Successfully sent result.\n500 : 484  vs. **Foe** <t:%d:F>", date.Unix())
	assert.Equal(t, want, f.last(t))

	results := f.results(t)
	require.Len(t, results, 1)
	assert.Equal(t, models.Result{Score: 500, EnemyScore: 484, Enemy: "Foe", Date: "2024-03-05 00:00:00"}, results[0])

	f.send("!result r Rival 510 474")
	assert.True(t, strings.HasPrefix(f.last(t), "Successfully sent result.\n510 : 474  vs. **Rival** <t:"))
	assert.Len(t, f.results(t), 2)
}

func TestResultRegister_InvalidInput(t *testing.T) {
	f := newFixture(t)

	f.send("!result register Foe today")
	assert.Equal(t, constants.EmojiError+" Invalid scores input\n `score (enemy_score; optional)`", f.last(t))

	f.send("!result register Foe 500 2024 13 40")
	assert.Equal(t, constants.EmojiError+" Invalid date input.\n `(year) (month) day`", f.last(t))

	f.send("!result register")
	assert.Equal(t, constants.EmojiError+" "+constants.MsgResultUsage, f.last(t))
	assert.Empty(t, f.results(t))
}

func TestResultMogi_RegistersCurrentTotal(t *testing.T) {
	f := newFixture(t)
	f.send("!start Foe")
	f.send("!race add 123456")

	f.send("!result mogi")
	assert.True(t, strings.HasPrefix(f.last(t), "Successfully sent result.\n61 : 21  vs. **Foe** <t:"))

	results := f.results(t)
	require.Len(t, results, 1)
	assert.Equal(t, 61, results[0].Score)
	assert.Equal(t, 21, results[0].EnemyScore)
}

func TestResultSearch(t *testing.T) {
	f := newFixture(t)
	f.send("!result register Foe 500 2024 3 5")
	f.send("!result register Fire 480 2024 3 6")

	f.send("!result search Foe")
	assert.Contains(t, f.last(t), "vs **Foe**")
	assert.Contains(t, f.last(t), "500 - 484")

	f.send("!result search fx")
	last := f.last(t)
	assert.True(t, strings.HasPrefix(last, "Result not found.\nSimilar name:  "))
	assert.Contains(t, last, "Foe")
	assert.Contains(t, last, "Fire")

	f.send("!result search Zeta")
	assert.Equal(t, constants.EmojiError+" Result not Found.", f.last(t))
}

func TestResultList_Empty(t *testing.T) {
	f := newFixture(t)

	f.send("!results")
	assert.Equal(t, constants.EmojiError+" Result not Found.", f.last(t))
}

func TestResultDeleteAndEdit(t *testing.T) {
	f := newFixture(t)
	f.send("!result register Foe 500 2024 3 5")
	f.send("!result register Rival 510 474 2024 3 6")

	f.send("!result edit 1 - 520 2024 3 7")
	assert.True(t, strings.HasPrefix(f.last(t), "Successfully edited result.\n520 : 474  vs. **Rival** <t:"))

	f.send("!result edit x Foe")
	assert.Equal(t, constants.EmojiError+" Invalid ID input.", f.last(t))

	f.send("!result edit 9 Foe 500")
	assert.Equal(t, constants.EmojiError+" This ID does not exist.", f.last(t))

	f.send("!result delete 0")
	assert.True(t, strings.HasPrefix(f.last(t), "Deleted results.\n```"))
	assert.Contains(t, f.last(t), "Foe")

	results := f.results(t)
	require.Len(t, results, 1)
	assert.Equal(t, "Rival", results[0].Enemy)
	assert.Equal(t, 520, results[0].Score)
}

func TestResultExportAndLoad(t *testing.T) {
	f := newFixture(t)
	f.send("!result register Foe 500 2024 3 5")

	f.send("!result export")
	require.NotEmpty(t, f.session.Files)
	exported := f.session.Files[len(f.session.Files)-1]
	assert.Equal(t, "result.csv", exported.Name)
	assert.Equal(t, "Home,500,484,Foe,2024-03-05 00:00:00\n", string(exported.Data))

	f.send("!result export xlsx")
	assert.Equal(t, "result.xlsx", f.session.Files[len(f.session.Files)-1].Name)

	f.files.data["https://cdn.example.com/war.csv"] = []byte(
		"Home,470,514,Lion,2024-04-01 21:00:00\nHome,530,454,Tiger,2024-04-02 22:00:00\n")
	f.send("!result load", withAttachment("war.csv", "https://cdn.example.com/war.csv"))
	assert.Equal(t, constants.EmojiSuccess+" Loaded result file.", f.last(t))

	results := f.results(t)
	require.Len(t, results, 2)
	assert.Equal(t, "Lion", results[0].Enemy)
	assert.Equal(t, "Tiger", results[1].Enemy)

	f.send("!result load", withAttachment("war.txt", "https://cdn.example.com/war.txt"))
	assert.Equal(t, constants.EmojiError+" Only CSV file is available.", f.last(t))

	f.files.data["https://cdn.example.com/bad.csv"] = []byte("Home,abc,1,Foe,2024-04-01\n")
	f.send("!result load", withAttachment("bad.csv", "https://cdn.example.com/bad.csv"))
	assert.Equal(t, constants.EmojiError+" Not acceptable content.", f.last(t))
	assert.Len(t, f.results(t), 2)
}

func TestResultGraph(t *testing.T) {
	f := newFixture(t)
	f.send("!result register Foe 500 2024 3 5")
	f.send("!result register Rival 470 2024 3 6")

	f.send("!result graph")
	require.NotEmpty(t, f.session.Files)
	chart := f.session.Files[len(f.session.Files)-1]
	assert.Equal(t, "results.png", chart.Name)
	assert.True(t, strings.HasPrefix(string(chart.Data), "\x89PNG"))
}
