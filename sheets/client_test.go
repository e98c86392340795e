package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeValues struct {
	sheets  map[string][][]interface{}
	readErr error
	writes  int
}

func newFakeValues() *fakeValues {
	return &fakeValues{sheets: map[string][][]interface{}{}}
}

func (f *fakeValues) Read(_ context.Context, sheet string) ([][]interface{}, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	rows := make([][]interface{}, len(f.sheets[sheet]))
	copy(rows, f.sheets[sheet])
	return rows, nil
}

func (f *fakeValues) Overwrite(_ context.Context, sheet string, rows [][]interface{}) error {
	f.writes++
	f.sheets[sheet] = rows
	return nil
}

func TestTeamRegistry_TeamName(t *testing.T) {
	ctx := context.Background()
	store := newFakeValues()
	store.sheets["team"] = [][]interface{}{{"g0"}, {"g1", "Old"}}
	reg := newTeamRegistry(store)

	name, err := reg.GetTeamName(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Old", name)

	name, err = reg.GetTeamName(ctx, "g0")
	require.NoError(t, err)
	assert.Empty(t, name, "a row without a name is not a registration")

	require.NoError(t, reg.SetTeamName(ctx, "g1", "New"))
	require.NoError(t, reg.SetTeamName(ctx, "g2", "Other"))
	assert.Equal(t, [][]interface{}{{"g0"}, {"g1", "New"}, {"g2", "Other"}}, store.sheets["team"])

	require.NoError(t, reg.ResetTeamName(ctx, "g1"))
	name, err = reg.GetTeamName(ctx, "g1")
	require.NoError(t, err)
	assert.Empty(t, name)
	assert.Len(t, store.sheets["team"], 2)
}

func TestTeamRegistry_LinkedIDs(t *testing.T) {
	ctx := context.Background()
	store := newFakeValues()
	store.sheets["link_account"] = [][]interface{}{
		{"user_id", "lounge_disco"},
		{"100", "900"},
		{"200", ""},
	}
	reg := newTeamRegistry(store)

	ids, err := reg.LinkedIDs(ctx, []string{"100", "200", "300"})
	require.NoError(t, err)
	assert.Equal(t, []string{"900", "200", "300"}, ids)

	require.NoError(t, reg.SetLinkedID(ctx, "300", "901"))
	require.NoError(t, reg.SetLinkedID(ctx, "100", "902"))
	assert.Equal(t, [][]interface{}{
		{"user_id", "lounge_disco"},
		{"100", "902"},
		{"200", ""},
		{"300", "901"},
	}, store.sheets["link_account"])
}

func TestTeamRegistry_LinkSheetErrors(t *testing.T) {
	ctx := context.Background()
	store := newFakeValues()
	reg := newTeamRegistry(store)

	ids, err := reg.LinkedIDs(ctx, []string{"1"})
	require.NoError(t, err, "empty sheet means no links")
	assert.Equal(t, []string{"1"}, ids)

	store.sheets["link_account"] = [][]interface{}{{"id", "other"}}
	_, err = reg.LinkedIDs(ctx, []string{"1"})
	assert.Error(t, err)

	store.readErr = errors.New("quota")
	_, err = reg.GetTeamName(ctx, "g")
	assert.Error(t, err)
	assert.Error(t, reg.SetTeamName(ctx, "g", "x"))
	assert.Zero(t, store.writes)
}

func TestSheetsClient_ReadAndOverwrite(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-id/values/"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"range":  "team!A1:B2",
				"values": [][]string{{"g1", "Team"}},
			})
		case http.MethodPut:
			var body struct {
				Values [][]interface{} `json:"values"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "RAW", r.URL.Query().Get("valueInputOption"))
			assert.Len(t, body.Values, 1)
			_, _ = w.Write([]byte(`{}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	client, err := NewSheetsClient(ctx, "sheet-id", "",
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	reg := NewTeamRegistry(client)
	name, err := reg.GetTeamName(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Team", name)

	require.NoError(t, client.Overwrite(ctx, "team", [][]interface{}{{"g1", "Renamed"}}))
	assert.Equal(t, []string{http.MethodGet, http.MethodPost, http.MethodPut}, methods)
}

func TestNewSheetsClient_RequiresSpreadsheet(t *testing.T) {
	_, err := NewSheetsClient(context.Background(), "", "")
	assert.Error(t, err)
}
