package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/utils"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// valueStore 시트 단위로 셀 값을 읽고 덮어씁니다
type valueStore interface {
	Read(ctx context.Context, sheet string) ([][]interface{}, error)
	Overwrite(ctx context.Context, sheet string, rows [][]interface{}) error
}

// SheetsClient Google Sheets API 클라이언트
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewSheetsClient 새로운 Google Sheets 클라이언트를 생성합니다
func NewSheetsClient(ctx context.Context, spreadsheetID, credentialsJSON string, opts ...option.ClientOption) (*SheetsClient, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is required")
	}
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	utils.Info("Google Sheets client initialized successfully")
	return &SheetsClient{service: service, spreadsheetID: spreadsheetID}, nil
}

// Read 시트 전체 값을 읽습니다
func (c *SheetsClient) Read(ctx context.Context, sheet string) ([][]interface{}, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return resp.Values, nil
}

// Overwrite 시트를 비우고 주어진 행으로 다시 채웁니다
func (c *SheetsClient) Overwrite(ctx context.Context, sheet string, rows [][]interface{}) error {
	if _, err := c.service.Spreadsheets.Values.Clear(c.spreadsheetID, sheet, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil
	}

	body := &sheets.ValueRange{Values: rows}
	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, sheet+"!A1", body).
		ValueInputOption(constants.SheetValueOption).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write sheet %s: %w", sheet, err)
	}
	return nil
}

// TeamRegistry 팀 이름 시트와 계정 연결 시트를 다룹니다
type TeamRegistry struct {
	store valueStore
	mu    sync.Mutex
}

// NewTeamRegistry 시트 클라이언트 위에 레지스트리를 만듭니다
func NewTeamRegistry(client *SheetsClient) *TeamRegistry {
	return &TeamRegistry{store: client}
}

func newTeamRegistry(store valueStore) *TeamRegistry {
	return &TeamRegistry{store: store}
}

// GetTeamName 서버에 등록된 팀 이름을 반환합니다. 없으면 빈 문자열입니다
func (r *TeamRegistry) GetTeamName(ctx context.Context, guildID string) (string, error) {
	rows, err := r.store.Read(ctx, constants.TeamSheetName)
	if err != nil {
		return "", err
	}
	for _, row := range rows {
		if cell(row, 0) == guildID && cell(row, 1) != "" {
			return cell(row, 1), nil
		}
	}
	return "", nil
}

// SetTeamName 팀 이름을 등록하거나 덮어씁니다
func (r *TeamRegistry) SetTeamName(ctx context.Context, guildID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.store.Read(ctx, constants.TeamSheetName)
	if err != nil {
		return err
	}

	found := false
	for i, row := range rows {
		if len(row) < 2 || cell(row, 0) != guildID {
			continue
		}
		rows[i] = []interface{}{guildID, name}
		found = true
		break
	}
	if !found {
		rows = append(rows, []interface{}{guildID, name})
	}

	utils.Info("Setting team name for guild %s to %s", guildID, name)
	return r.store.Overwrite(ctx, constants.TeamSheetName, rows)
}

// ResetTeamName 팀 이름 등록을 지웁니다
func (r *TeamRegistry) ResetTeamName(ctx context.Context, guildID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.store.Read(ctx, constants.TeamSheetName)
	if err != nil {
		return err
	}

	kept := rows[:0]
	for _, row := range rows {
		if cell(row, 0) != guildID {
			kept = append(kept, row)
		}
	}
	return r.store.Overwrite(ctx, constants.TeamSheetName, kept)
}

// LinkedIDs 연결된 Lounge용 Discord ID로 바꿉니다. 연결이 없으면 원래 ID를 그대로 둡니다
func (r *TeamRegistry) LinkedIDs(ctx context.Context, discordIDs []string) ([]string, error) {
	links, err := r.links(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(discordIDs))
	for i, id := range discordIDs {
		if linked, ok := links[id]; ok && linked != "" {
			out[i] = linked
		} else {
			out[i] = id
		}
	}
	return out, nil
}

// SetLinkedID 계정 연결을 저장합니다
func (r *TeamRegistry) SetLinkedID(ctx context.Context, discordID, loungeDiscordID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.store.Read(ctx, constants.LinkSheetName)
	if err != nil {
		return err
	}

	out := [][]interface{}{{constants.SheetKeyColumn, constants.SheetLinkColumn}}
	found := false
	for i, row := range rows {
		id := cell(row, 0)
		if (i == 0 && id == constants.SheetKeyColumn) || id == "" {
			continue
		}
		if id == discordID {
			out = append(out, []interface{}{id, loungeDiscordID})
			found = true
			continue
		}
		out = append(out, []interface{}{id, cell(row, 1)})
	}
	if !found {
		out = append(out, []interface{}{discordID, loungeDiscordID})
	}

	utils.Info("Linking %s to lounge account %s", discordID, loungeDiscordID)
	return r.store.Overwrite(ctx, constants.LinkSheetName, out)
}

// links 헤더 행의 열 이름으로 user_id와 lounge_disco 열을 찾습니다
func (r *TeamRegistry) links(ctx context.Context) (map[string]string, error) {
	rows, err := r.store.Read(ctx, constants.LinkSheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		utils.Warn("Link sheet is empty")
		return map[string]string{}, nil
	}

	keyCol, linkCol := -1, -1
	for i := range rows[0] {
		switch cell(rows[0], i) {
		case constants.SheetKeyColumn:
			keyCol = i
		case constants.SheetLinkColumn:
			linkCol = i
		}
	}
	if keyCol == -1 || linkCol == -1 {
		return nil, fmt.Errorf("link sheet is missing %s or %s column", constants.SheetKeyColumn, constants.SheetLinkColumn)
	}

	links := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		if id := cell(row, keyCol); id != "" {
			links[id] = cell(row, linkCol)
		}
	}
	return links, nil
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}
