package models

import "sync"

// TierInfo Lounge 랭크 구간에 대한 정보를 포함합니다
type TierInfo struct {
	MinMMR    int          // 구간 하한 MMR (포함)
	Name      string       // 표시 이름 (예: "Ruby 2")
	Category  TierCategory // 주요 카테고리
	ColorCode int          // Discord embed 색상 코드
	IconURL   string       // 랭크 아이콘 이미지
}

// TierCategory 주요 랭크 카테고리를 나타냅니다
type TierCategory int

const (
	CategoryIron TierCategory = iota
	CategoryBronze
	CategorySilver
	CategoryGold
	CategoryPlatinum
	CategorySapphire
	CategoryRuby
	CategoryDiamond
	CategoryMaster
	CategoryGrandmaster
)

type categoryStyle struct {
	name  string
	color int
	icon  string
}

var categoryStyles = map[TierCategory]categoryStyle{
	CategoryGrandmaster: {"Grandmaster", 0xA3022C, "https://i.imgur.com/EWXzu2U.png"},
	CategoryMaster:      {"Master", 0xD9E1F2, "https://i.imgur.com/3yBab63.png"},
	CategoryDiamond:     {"Diamond", 0xBDD7EE, "https://i.imgur.com/RDlvdvA.png"},
	CategoryRuby:        {"Ruby", 0xD51C5E, "https://i.imgur.com/WU2NlJQ.png"},
	CategorySapphire:    {"Sapphire", 0x286CD3, "https://i.imgur.com/bXEfUSV.png"},
	CategoryPlatinum:    {"Platinum", 0x3FABB8, "https://i.imgur.com/8v8IjHE.png"},
	CategoryGold:        {"Gold", 0xFFD966, "https://i.imgur.com/6yAatOq.png"},
	CategorySilver:      {"Silver", 0xD9D9D9, "https://i.imgur.com/xgFyiYa.png"},
	CategoryBronze:      {"Bronze", 0xC65911, "https://i.imgur.com/DxFLvtO.png"},
	CategoryIron:        {"Iron", 0x817876, "https://i.imgur.com/AYRMVEu.png"},
}

// String 카테고리 이름을 반환합니다
func (c TierCategory) String() string {
	return categoryStyles[c].name
}

// TierManager 모든 랭크 관련 기능을 관리합니다
type TierManager struct {
	tiers []*TierInfo // MinMMR 내림차순
}

var (
	globalTierManager *TierManager
	once              sync.Once
)

// GetTierManager 전역 TierManager 인스턴스를 반환합니다 (싱글톤)
func GetTierManager() *TierManager {
	once.Do(func() {
		globalTierManager = &TierManager{}
		globalTierManager.initializeTiers()
	})
	return globalTierManager
}

func (tm *TierManager) add(minMMR int, category TierCategory, division string) {
	style := categoryStyles[category]
	name := style.name
	if division != "" {
		name += " " + division
	}
	tm.tiers = append(tm.tiers, &TierInfo{
		MinMMR:    minMMR,
		Name:      name,
		Category:  category,
		ColorCode: style.color,
		IconURL:   style.icon,
	})
}

// initializeTiers 시즌 8 기준 랭크 구간을 초기화합니다
func (tm *TierManager) initializeTiers() {
	tm.add(17000, CategoryGrandmaster, "")
	tm.add(16000, CategoryMaster, "")
	tm.add(15000, CategoryDiamond, "2")
	tm.add(14000, CategoryDiamond, "1")
	tm.add(13000, CategoryRuby, "2")
	tm.add(12000, CategoryRuby, "1")
	tm.add(11000, CategorySapphire, "2")
	tm.add(10000, CategorySapphire, "1")
	tm.add(9000, CategoryPlatinum, "2")
	tm.add(8000, CategoryPlatinum, "1")
	tm.add(7000, CategoryGold, "2")
	tm.add(6000, CategoryGold, "1")
	tm.add(5000, CategorySilver, "2")
	tm.add(4000, CategorySilver, "1")
	tm.add(3000, CategoryBronze, "2")
	tm.add(2000, CategoryBronze, "1")
	tm.add(1000, CategoryIron, "2")
	tm.add(0, CategoryIron, "1")
}

// GetTierInfo MMR에 해당하는 랭크 정보를 반환합니다
func (tm *TierManager) GetTierInfo(mmr float64) *TierInfo {
	for _, tier := range tm.tiers {
		if mmr >= float64(tier.MinMMR) {
			return tier
		}
	}
	// 음수 MMR은 최하위 랭크로 처리
	return tm.tiers[len(tm.tiers)-1]
}
