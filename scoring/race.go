package scoring

import (
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/models"
)

// placementPoints 1위부터 12위까지의 획득 점수입니다
var placementPoints = [constants.MaxPlacement]int{15, 12, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}

// PlacementPoint 순위 하나의 점수를 반환합니다. 범위를 벗어나면 0입니다
func PlacementPoint(placement int) int {
	if placement < 1 || placement > constants.MaxPlacement {
		return 0
	}
	return placementPoints[placement-1]
}

// RacePoints 한 레이스의 순위로 양 팀 점수를 계산합니다. 상대 점수는 82에서 우리 점수를 뺀 값입니다
func RacePoints(rank models.Rank) models.Point {
	ally := 0
	for _, placement := range rank {
		ally += PlacementPoint(placement)
	}
	return models.Point{Ally: ally, Enemy: constants.RacePointPool - ally}
}
