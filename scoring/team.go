package scoring

import (
	"github.com/Yumax-panda/Mario-Kart/api"
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
)

// TeamRating 팀 멤버들의 Lounge MMR 집계 결과입니다
type TeamRating struct {
	Average float64
	Counted int // MMR이 있는 플레이어 수
	Tier    *models.TierInfo
}

// TeamCalculator Lounge 플레이어 목록으로 팀 평균 MMR을 계산합니다
type TeamCalculator struct {
	tierManager *models.TierManager
}

// NewTeamCalculator 새로운 TeamCalculator를 생성합니다
func NewTeamCalculator(tierManager *models.TierManager) *TeamCalculator {
	return &TeamCalculator{tierManager: tierManager}
}

// Rate MMR이 공개된 플레이어만으로 평균을 구합니다. 해당 플레이어가 없으면 false를 반환합니다
func (tc *TeamCalculator) Rate(players []*api.Player) (TeamRating, bool) {
	total, counted := 0, 0
	for _, player := range players {
		if player == nil || player.MMR == nil {
			continue
		}
		total += *player.MMR
		counted++
	}
	if counted == 0 {
		return TeamRating{}, false
	}

	average := float64(total) / float64(counted)
	return TeamRating{
		Average: average,
		Counted: counted,
		Tier:    tc.tierManager.GetTierInfo(average),
	}, true
}

// RoundedAverage mkmg 모집 문구에 쓰는 500 단위 내림 평균입니다
func (rating TeamRating) RoundedAverage() int {
	step := constants.MkmgMMRStep
	return int(rating.Average) / step * step
}
