package results

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/utils"
	"github.com/xuri/excelize/v2"
)

const (
	CSVFileName  = "result.csv"
	XLSXFileName = "result.xlsx"
	xlsxSheet    = "results"
)

var xlsxHeader = []interface{}{"team", "score", "enemyScore", "enemy", "date"}

// ExportCSV "team,score,enemyScore,enemy,date" 행으로 내보냅니다. 헤더는 없습니다
func ExportCSV(results []models.Result, team string) ([]byte, error) {
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, r := range results {
		record := []string{team, strconv.Itoa(r.Score), strconv.Itoa(r.EnemyScore), r.Enemy, r.Date}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportXLSX 같은 내용을 헤더가 있는 엑셀 시트로 내보냅니다
func ExportXLSX(results []models.Result, team string) ([]byte, error) {
	if len(results) == 0 {
		return nil, ErrEmptyResult
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &xlsxHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, r := range results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{team, r.Score, r.EnemyScore, r.Enemy, r.Date}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// ValidateCSVName 읽어들일 파일이 CSV인지 확인합니다
func ValidateCSVName(filename string) error {
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return ErrNotCSVFile
	}
	return nil
}

// ParseCSV ExportCSV 형식의 파일을 읽습니다. 2~5번째 열(score, enemyScore, enemy, date)만 사용합니다.
// 어떤 행이든 해석할 수 없으면 ErrNotAcceptableContent를 반환합니다
func ParseCSV(data []byte) ([]models.Result, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var results []models.Result
	for line := 1; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotAcceptableContent, err)
		}

		result, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrNotAcceptableContent, line, err)
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, ErrNotAcceptableContent
	}
	return models.NormalizeResults(results), nil
}

func parseRecord(record []string) (models.Result, error) {
	if len(record) < 5 {
		return models.Result{}, fmt.Errorf("expected 5 columns, got %d", len(record))
	}

	score, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return models.Result{}, fmt.Errorf("invalid score %q", record[1])
	}
	enemyScore, err := strconv.Atoi(strings.TrimSpace(record[2]))
	if err != nil {
		return models.Result{}, fmt.Errorf("invalid enemy score %q", record[2])
	}
	date, err := utils.ParseDateTime(record[4])
	if err != nil {
		return models.Result{}, err
	}

	return models.Result{
		Score:      score,
		EnemyScore: enemyScore,
		Enemy:      strings.TrimSpace(record[3]),
		Date:       utils.FormatDateTime(date),
	}, nil
}
