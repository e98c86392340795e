package models

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"gopkg.in/yaml.v3"
)

//go:embed tracks.yaml
var tracksYAML []byte

// Track 마리오 카트 8 DX 코스 정보입니다
type Track struct {
	ID      int      `yaml:"id"`
	Abbr    string   `yaml:"abbr"`
	Name    string   `yaml:"name"`
	NickJA  string   `yaml:"ja"`
	Aliases []string `yaml:"aliases"`
}

// Nick 언어에 맞는 짧은 표시 이름을 반환합니다
func (t *Track) Nick(lang constants.Lang) string {
	if lang == constants.LangJA && t.NickJA != "" {
		return t.NickJA
	}
	return t.Abbr
}

// TrackTable 이름과 별칭으로 코스를 찾는 조회 테이블입니다
type TrackTable struct {
	tracks []*Track
	lookup map[string]*Track
	byID   map[int]*Track
}

var defaultTracks = mustLoadTracks(tracksYAML)

func mustLoadTracks(data []byte) *TrackTable {
	table, err := LoadTracks(data)
	if err != nil {
		panic(err)
	}
	return table
}

// LoadTracks YAML 문서에서 코스 테이블을 만듭니다. 별칭이 겹치면 오류를 반환합니다
func LoadTracks(data []byte) (*TrackTable, error) {
	var tracks []*Track
	if err := yaml.Unmarshal(data, &tracks); err != nil {
		return nil, fmt.Errorf("failed to parse track table: %w", err)
	}

	table := &TrackTable{tracks: tracks, lookup: make(map[string]*Track), byID: make(map[int]*Track)}
	for _, track := range tracks {
		if _, ok := table.byID[track.ID]; ok {
			return nil, fmt.Errorf("duplicate track id %d", track.ID)
		}
		table.byID[track.ID] = track
		keys := append([]string{track.Abbr, track.Name, track.NickJA}, track.Aliases...)
		for _, key := range keys {
			normalized := normalizeTrackKey(key)
			if normalized == "" {
				continue
			}
			if existing, ok := table.lookup[normalized]; ok && existing != track {
				return nil, fmt.Errorf("duplicate track key %q (%s, %s)", key, existing.Abbr, track.Abbr)
			}
			table.lookup[normalized] = track
		}
	}
	return table, nil
}

// Find 입력 전체가 코스 이름이나 별칭과 일치하면 해당 코스를 반환합니다
func (table *TrackTable) Find(text string) *Track {
	return table.lookup[normalizeTrackKey(text)]
}

// ByID 코스 번호로 코스를 찾습니다
func (table *TrackTable) ByID(id int) *Track {
	return table.byID[id]
}

// All 모든 코스를 정의 순서대로 반환합니다
func (table *TrackTable) All() []*Track {
	return table.tracks
}

// FindTrack 기본 코스 테이블에서 코스를 찾습니다
func FindTrack(text string) *Track {
	return defaultTracks.Find(text)
}

// TrackByID 기본 코스 테이블에서 번호로 코스를 찾습니다
func TrackByID(id int) *Track {
	return defaultTracks.ByID(id)
}

// Tracks 기본 코스 테이블의 모든 코스를 반환합니다
func Tracks() []*Track {
	return defaultTracks.All()
}

func normalizeTrackKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "　", "")
	s = strings.ReplaceAll(s, "'", "")
	return strings.ToLower(s)
}
