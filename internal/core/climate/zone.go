// Package climate 將自由文字地點對應到耐寒區
package climate

import (
	"fmt"
	"strings"
)

// Zone 耐寒區 7..10，0 表示未提供
type Zone int

// DefaultZone 查無資料時的預設耐寒區
const DefaultZone Zone = 8

const (
	MinZone Zone = 7
	MaxZone Zone = 10
)

// Valid 是否為支援的耐寒區
func (z Zone) Valid() bool {
	return z >= MinZone && z <= MaxZone
}

// Info 耐寒區說明與最低溫範圍（攝氏）
type Info struct {
	Zone        Zone    `json:"zone"`
	Description string  `json:"description"`
	MinTempC    float64 `json:"min_temp_c"`
	MaxTempC    float64 `json:"max_temp_c"`
}

var zoneInfo = map[Zone]Info{
	7:  {Zone: 7, Description: "Cold: upland and northern areas with hard, prolonged frosts", MinTempC: -17.7, MaxTempC: -12.3},
	8:  {Zone: 8, Description: "Moderate: most inland lowland gardens with regular winter frost", MinTempC: -12.2, MaxTempC: -6.7},
	9:  {Zone: 9, Description: "Mild: coastal and urban gardens with light, short frosts", MinTempC: -6.6, MaxTempC: -1.2},
	10: {Zone: 10, Description: "Very mild: sheltered islands and peninsulas, frost rare", MinTempC: -1.1, MaxTempC: 4.4},
}

// LookupInfo 取得耐寒區資訊，無效值回傳預設區
func LookupInfo(z Zone) Info {
	if info, ok := zoneInfo[z]; ok {
		return info
	}
	return zoneInfo[DefaultZone]
}

// String 例如 "zone 9"
func (z Zone) String() string {
	return fmt.Sprintf("zone %d", int(z))
}

type placeRule struct {
	place string
	zone  Zone
}

// cityZones 城鎮表，順序決定子字串比對的優先權
var cityZones = []placeRule{
	{"penzance", 9},
	{"st ives", 9},
	{"falmouth", 9},
	{"truro", 9},
	{"newquay", 9},
	{"plymouth", 9},
	{"torquay", 9},
	{"exeter", 9},
	{"bournemouth", 9},
	{"southampton", 9},
	{"brighton", 9},
	{"london", 9},
	{"bristol", 9},
	{"cardiff", 9},
	{"swansea", 9},
	{"aberystwyth", 9},
	{"belfast", 9},
	{"tresco", 10},
	{"st mary's", 10},
	{"st helier", 10},
	{"st peter port", 10},
	{"oxford", 8},
	{"cambridge", 8},
	{"norwich", 8},
	{"birmingham", 8},
	{"nottingham", 8},
	{"leicester", 8},
	{"manchester", 8},
	{"liverpool", 8},
	{"sheffield", 8},
	{"leeds", 8},
	{"york", 8},
	{"newcastle", 8},
	{"edinburgh", 8},
	{"glasgow", 8},
	{"aberdeen", 8},
	{"inverness", 7},
	{"aviemore", 7},
	{"braemar", 7},
	{"buxton", 7},
}

// regionZones 地區表，城鎮表沒有命中才使用
var regionZones = []placeRule{
	{"isles of scilly", 10},
	{"scilly", 10},
	{"channel islands", 10},
	{"jersey", 10},
	{"guernsey", 10},
	{"cornwall", 9},
	{"devon", 9},
	{"dorset", 9},
	{"pembrokeshire", 9},
	{"south west", 9},
	{"south east", 9},
	{"greater london", 9},
	{"wales", 9},
	{"northern ireland", 9},
	{"isle of man", 9},
	{"east anglia", 8},
	{"midlands", 8},
	{"north west", 8},
	{"north east", 8},
	{"yorkshire", 8},
	{"lake district", 8},
	{"scotland", 8},
	{"cairngorms", 7},
	{"highlands", 7},
	{"pennines", 7},
}

// ResolveZone 將地點轉為耐寒區；查無資料時回傳 DefaultZone。
// 比對順序：城鎮完全相符、地區完全相符、城鎮子字串、地區子字串。
func ResolveZone(location string) Zone {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return DefaultZone
	}

	if z, ok := exactMatch(cityZones, loc); ok {
		return z
	}
	if z, ok := exactMatch(regionZones, loc); ok {
		return z
	}
	if z, ok := containsMatch(cityZones, loc); ok {
		return z
	}
	if z, ok := containsMatch(regionZones, loc); ok {
		return z
	}
	return DefaultZone
}

func exactMatch(rules []placeRule, loc string) (Zone, bool) {
	for _, r := range rules {
		if r.place == loc {
			return r.zone, true
		}
	}
	return 0, false
}

func containsMatch(rules []placeRule, loc string) (Zone, bool) {
	for _, r := range rules {
		if strings.Contains(loc, r.place) || strings.Contains(r.place, loc) {
			return r.zone, true
		}
	}
	return 0, false
}
