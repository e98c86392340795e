package constants

// 사용자 인터페이스 메시지
const (
	MsgPong = "Pong! 🏓"

	MsgRaceUsage    = "Usage: `!race add <rank> [track]` | `!race back` | `!race edit <no> <rank|-> [track]`"
	MsgPenaltyUsage = "Usage: `!penalty add <tag> [amount] [penalty|repick]` | `!penalty clear [penalty|repick]`"
	MsgImageUsage   = "Usage: `!image set` (attach .png/.jpg) | `!image remove`"
	MsgResultUsage  = "Usage: `!result list|search|register|mogi|delete|edit|export|load|graph`"
	MsgTeamUsage    = "Usage: `!team name [set <name>|reset]` | `!team mmr [@role]` | `!team mkc [@role]`"
	MsgWhoUsage     = "Usage: `!who <name|@user|fc>`"
	MsgLinkUsage    = "Usage: `!link <discord id>`"
	MsgMkmgUsage    = "Usage: `!mkmg <time> [host]`"
	MsgEditUsage    = "Usage: `!edit <enemy> [@members]`"
	MsgLangUsage    = "Usage: `!language <en|ja>`"
	MsgChannelUsage = "Usage: `!channel set` | `!channel reset`"
)

// mkmg 외교문 템플릿
const (
	MkmgHeader       = "%s 交流戦お相手募集します\nこちら%s\n"
	MkmgAverageMMR   = "平均MMR %d程度\n"
	MkmgHostable     = "主催持てます\n"
	MkmgNotHostable  = "主催持っていただきたいです\n"
	MkmgFooter       = "Sorry, Japanese clan only\n#mkmg"
	MkmgMMRStep      = 500
)

// HelpMessage 도움말 메시지
const HelpMessage = `🏁 **Mario Kart War Bot**

**Sokuji (live scoring)**
` + "`!start <enemy> [en|ja] [@members]`" + ` start a mogi in this channel
` + "`!edit <enemy> [@members]`" + ` change enemy tag / members
` + "`!end`" + ` | ` + "`!resume`" + ` | ` + "`!language <en|ja>`" + `
` + "`!race add <rank> [track]`" + ` | ` + "`!race back`" + ` | ` + "`!race edit <no> <rank|-> [track]`" + `
` + "`!penalty add <tag> [amount] [penalty|repick]`" + ` | ` + "`!penalty clear [penalty|repick]`" + `
` + "`!image set`" + ` | ` + "`!image remove`" + `
Typing a rank such as ` + "`1234-5`" + ` adds a race, ` + "`back`" + ` undoes it.

**War list**
` + "`!can [@members] <hours>`" + ` | ` + "`!tentatively [@members] <hours>`" + ` | ` + "`!drop [@members] <hours>`" + `
` + "`!now`" + ` | ` + "`!out <hours>`" + ` | ` + "`!clear`" + ` | ` + "`!channel set|reset`" + `

**Results**
` + "`!result list|search|register|mogi|delete|edit|export|load|graph`" + `

**Team / Lounge**
` + "`!team name|mmr|mkc`" + ` | ` + "`!mkmg <time> [host]`" + ` | ` + "`!who <name>`" + ` | ` + "`!link <id>`" + `

**Etc**
` + "`!help`" + ` | ` + "`!ping`" + ` | ` + "`!cache [clear]`"
