package bot

import (
	"github.com/Yumax-panda/Mario-Kart/constants"
	"github.com/Yumax-panda/Mario-Kart/handsup"
	"github.com/Yumax-panda/Mario-Kart/interfaces"
	"github.com/Yumax-panda/Mario-Kart/mogi"
	"github.com/Yumax-panda/Mario-Kart/results"
	"github.com/Yumax-panda/Mario-Kart/scoring"
	"github.com/Yumax-panda/Mario-Kart/telemetry"
)

// CommandDependencies 명령어 핸들러가 필요로 하는 모든 의존성을 묶어서 관리합니다
type CommandDependencies struct {
	Mogi       *mogi.Service
	Handsup    *handsup.Service
	Results    *results.Service
	Lounge     interfaces.LoungeClient
	Teams      interfaces.TeamRegistry // nil이면 스프레드시트 연동 없이 서버 이름을 사용
	Calculator *scoring.TeamCalculator
	Files      mogi.ImageFetcher // 첨부 파일 다운로더
	Metrics    telemetry.Recorder
	Language   constants.Lang
}

// NewCommandDependencies 새로운 CommandDependencies 인스턴스를 생성합니다
func NewCommandDependencies(
	mogiService *mogi.Service,
	handsupService *handsup.Service,
	resultService *results.Service,
	lounge interfaces.LoungeClient,
	teams interfaces.TeamRegistry,
	calculator *scoring.TeamCalculator,
	metrics telemetry.Recorder,
	lang constants.Lang,
) *CommandDependencies {
	return &CommandDependencies{
		Mogi:       mogiService,
		Handsup:    handsupService,
		Results:    resultService,
		Lounge:     lounge,
		Teams:      teams,
		Calculator: calculator,
		Files:      mogi.NewHTTPImageFetcher(),
		Metrics:    metrics,
		Language:   lang,
	}
}
