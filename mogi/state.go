package mogi

import (
	"encoding/json"
	"fmt"

	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
	"github.com/Yumax-panda/Mario-Kart/scoring"
)

// Status 즉시 집계의 진행 상태입니다
type Status int

const (
	StatusOngoing Status = iota
	StatusFinished
	StatusArchive
)

func (s Status) String() string {
	switch s {
	case StatusFinished:
		return "finished"
	case StatusArchive:
		return "archive"
	default:
		return "ongoing"
	}
}

// Banner 메시지 작성자 영역에 표시할 상태 이름입니다. 진행 중이면 빈 문자열입니다
func (s Status) Banner(lang constants.Lang) string {
	switch s {
	case StatusFinished:
		return constants.Localize(constants.MsgStatusFinished, lang)
	case StatusArchive:
		return constants.Localize(constants.MsgStatusArchived, lang)
	default:
		return ""
	}
}

func parseStatus(s string) Status {
	switch s {
	case "finished":
		return StatusFinished
	case "archive":
		return StatusArchive
	default:
		return StatusOngoing
	}
}

// statusFromBanner 두 언어의 배너 이름 중 어느 것이든 상태로 되돌립니다
func statusFromBanner(name string) Status {
	for _, status := range []Status{StatusFinished, StatusArchive} {
		for _, lang := range []constants.Lang{constants.LangEN, constants.LangJA} {
			if name == status.Banner(lang) {
				return status
			}
		}
	}
	return StatusOngoing
}

// Race 한 레이스의 순위와 (선택) 코스입니다
type Race struct {
	Rank  models.Rank
	Track *models.Track
}

// Point 순위로 계산한 점수입니다
func (r Race) Point() models.Point {
	return scoring.RacePoints(r.Rank)
}

// State 진행 중인 교류전 한 경기의 집계 상태입니다
type State struct {
	Tags    [2]string // 우리 팀, 상대 팀
	Races   []Race
	Members []string
	Penalty models.Point
	Repick  models.Point
	Lang    constants.Lang
	Status  Status
}

// New 새 집계를 시작합니다
func New(ours, theirs string, members []string, lang constants.Lang) *State {
	return &State{
		Tags:    [2]string{ours, theirs},
		Members: dedupe(members),
		Lang:    lang,
		Status:  StatusOngoing,
	}
}

// Total 모든 레이스 점수와 페널티, 리픽을 합한 점수입니다
func (s *State) Total() models.Point {
	total := models.Point{}
	for _, race := range s.Races {
		total = total.Add(race.Point())
	}
	return total.Add(s.Penalty).Add(s.Repick)
}

// Remaining 남은 레이스 수입니다
func (s *State) Remaining() int {
	return constants.MaxRaces - len(s.Races)
}

// AddRace 진행 중일 때만 레이스를 추가합니다. 12번째 레이스가 들어가면 종료 상태가 됩니다
func (s *State) AddRace(race Race) error {
	switch s.Status {
	case StatusFinished:
		return reject(NotAddable)
	case StatusArchive:
		return reject(MogiArchived)
	}

	s.Races = append(s.Races, race)
	if len(s.Races) >= constants.MaxRaces {
		s.Status = StatusFinished
	}
	return nil
}

// Back 마지막 레이스를 제거해 반환합니다
func (s *State) Back() (Race, error) {
	if len(s.Races) == 0 {
		return Race{}, reject(NotBackable)
	}
	if s.Status == StatusArchive {
		return Race{}, reject(MogiArchived)
	}

	last := s.Races[len(s.Races)-1]
	s.Races = s.Races[:len(s.Races)-1]
	s.Status = StatusOngoing
	return last, nil
}

// End 레이스 수와 관계없이 보관 상태로 만듭니다
func (s *State) End() {
	s.Status = StatusArchive
}

// Resume 보관 상태를 해제합니다. 12레이스면 종료, 아니면 진행 중이 됩니다
func (s *State) Resume() {
	if len(s.Races) == constants.MaxRaces {
		s.Status = StatusFinished
		return
	}
	s.Status = StatusOngoing
}

// EditRace number번째(1부터) 레이스를 교체합니다. rank나 track이 nil이면 기존 값을 유지합니다
func (s *State) EditRace(number int, rank models.Rank, track *models.Track) error {
	index := number - 1
	if index < 0 || index >= len(s.Races) {
		return ErrOutOfRange
	}

	prev := s.Races[index]
	if rank == nil {
		rank = prev.Rank
	}
	if track == nil {
		track = prev.Track
	}
	s.Races[index] = Race{Rank: rank, Track: track}
	return nil
}

// Adjustment 점수 보정 종류입니다
type Adjustment int

const (
	AdjustRepick Adjustment = iota
	AdjustPenalty
)

// ParseAdjustment "penalty"/"repick"을 해석합니다
func ParseAdjustment(s string) (Adjustment, bool) {
	switch s {
	case "penalty", "Penalty", "pen", "p":
		return AdjustPenalty, true
	case "repick", "Repick", "r":
		return AdjustRepick, true
	default:
		return AdjustRepick, false
	}
}

// AddAdjustment tag 팀에 amount 점을 더합니다. tag는 두 팀 이름 중 하나여야 합니다
func (s *State) AddAdjustment(kind Adjustment, tag string, amount int) error {
	var point models.Point
	switch tag {
	case s.Tags[0]:
		point = models.Point{Ally: amount}
	case s.Tags[1]:
		point = models.Point{Enemy: amount}
	default:
		return ErrInvalidTag
	}

	if kind == AdjustPenalty {
		s.Penalty = s.Penalty.Add(point)
	} else {
		s.Repick = s.Repick.Add(point)
	}
	return nil
}

// ClearAdjustment 보정을 초기화합니다. kind가 nil이면 둘 다 초기화합니다
func (s *State) ClearAdjustment(kind *Adjustment) {
	if kind == nil || *kind == AdjustPenalty {
		s.Penalty = models.Point{}
	}
	if kind == nil || *kind == AdjustRepick {
		s.Repick = models.Point{}
	}
}

// SetMembers 참가자 목록을 교체합니다
func (s *State) SetMembers(members []string) {
	s.Members = dedupe(members)
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

type raceJSON struct {
	Rank  []int `json:"rank"`
	Track int   `json:"track,omitempty"`
}

type stateJSON struct {
	Tags    [2]string    `json:"tags"`
	Races   []raceJSON   `json:"races"`
	Members []string     `json:"members"`
	Penalty models.Point `json:"penalty"`
	Repick  models.Point `json:"repick"`
	Lang    string       `json:"lang"`
	Status  string       `json:"status"`
}

// MarshalJSON 코스는 번호로 저장합니다
func (s *State) MarshalJSON() ([]byte, error) {
	out := stateJSON{
		Tags:    s.Tags,
		Races:   make([]raceJSON, len(s.Races)),
		Members: s.Members,
		Penalty: s.Penalty,
		Repick:  s.Repick,
		Lang:    s.Lang.String(),
		Status:  s.Status.String(),
	}
	if out.Members == nil {
		out.Members = []string{}
	}
	for i, race := range s.Races {
		out.Races[i] = raceJSON{Rank: race.Rank}
		if race.Track != nil {
			out.Races[i].Track = race.Track.ID
		}
	}
	return json.Marshal(out)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var in stateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	races := make([]Race, len(in.Races))
	for i, r := range in.Races {
		if len(r.Rank) != constants.RankSize {
			return fmt.Errorf("race %d has %d placements", i+1, len(r.Rank))
		}
		races[i] = Race{Rank: models.Rank(r.Rank)}
		if r.Track != 0 {
			races[i].Track = models.TrackByID(r.Track)
		}
	}

	*s = State{
		Tags:    in.Tags,
		Races:   races,
		Members: in.Members,
		Penalty: in.Penalty,
		Repick:  in.Repick,
		Lang:    constants.ParseLang(in.Lang, constants.LangEN),
		Status:  parseStatus(in.Status),
	}
	return nil
}
