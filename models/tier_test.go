package models

import (
	"testing"
)

func TestTierManager_GetTierInfo(t *testing.T) {
	tm := GetTierManager()

	tests := []struct {
		mmr           float64
		expectedName  string
		expectedColor int
	}{
		{25000, "Grandmaster", 0xA3022C},
		{17000, "Grandmaster", 0xA3022C},
		{16999, "Master", 0xD9E1F2},
		{15000, "Diamond 2", 0xBDD7EE},
		{14000, "Diamond 1", 0xBDD7EE},
		{13500, "Ruby 2", 0xD51C5E},
		{12000, "Ruby 1", 0xD51C5E},
		{11000, "Sapphire 2", 0x286CD3},
		{10999.9, "Sapphire 1", 0x286CD3},
		{9000, "Platinum 2", 0x3FABB8},
		{8000, "Platinum 1", 0x3FABB8},
		{7000, "Gold 2", 0xFFD966},
		{6000, "Gold 1", 0xFFD966},
		{5000, "Silver 2", 0xD9D9D9},
		{4000, "Silver 1", 0xD9D9D9},
		{3000, "Bronze 2", 0xC65911},
		{2000, "Bronze 1", 0xC65911},
		{1000, "Iron 2", 0x817876},
		{999, "Iron 1", 0x817876},
		{0, "Iron 1", 0x817876},
		{-50, "Iron 1", 0x817876},
	}

	for _, test := range tests {
		t.Run(test.expectedName, func(t *testing.T) {
			tierInfo := tm.GetTierInfo(test.mmr)
			if tierInfo.Name != test.expectedName {
				t.Errorf("Expected name '%s' for mmr %.1f, got '%s'", test.expectedName, test.mmr, tierInfo.Name)
			}
			if tierInfo.ColorCode != test.expectedColor {
				t.Errorf("Expected color %#x for mmr %.1f, got %#x", test.expectedColor, test.mmr, tierInfo.ColorCode)
			}
		})
	}
}

func TestTierManager_Category(t *testing.T) {
	tm := GetTierManager()

	tests := []struct {
		mmr      float64
		expected TierCategory
	}{
		{17500, CategoryGrandmaster},
		{16000, CategoryMaster},
		{14500, CategoryDiamond},
		{12500, CategoryRuby},
		{10500, CategorySapphire},
		{8500, CategoryPlatinum},
		{6500, CategoryGold},
		{4500, CategorySilver},
		{2500, CategoryBronze},
		{500, CategoryIron},
	}

	for _, test := range tests {
		if got := tm.GetTierInfo(test.mmr).Category; got != test.expected {
			t.Errorf("Expected category %s for mmr %.0f, got %s", test.expected, test.mmr, got)
		}
	}
}

func TestGetTierManagerIsSingleton(t *testing.T) {
	if GetTierManager() != GetTierManager() {
		t.Error("GetTierManager should always return the same instance")
	}
}
