package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"garden-assistant/internal/pkg/common"
)

// keySeparator 欄位分隔字元（ASCII Unit Separator），組鍵前會先從名稱中移除
const keySeparator = "\x1f"

const (
	unspecifiedPlantedIn = "unspecified"
	defaultZoneToken     = "zone-default"
)

// KeyContext 參與快取鍵計算的欄位
type KeyContext struct {
	Name          string
	PlantedIn     common.PlantedIn
	Zone          int // 0 表示未提供
	SchemaVersion int
}

// Key 依欄位計算快取鍵
func (k KeyContext) Key() string {
	return DeriveKey(k.Name, string(k.PlantedIn), k.Zone, k.SchemaVersion)
}

// DeriveKey 以 SHA-256 計算內容定址的快取鍵（64 字元小寫 hex）。
// 組成：[小寫名稱, 種植方式或 "unspecified", "zone-N" 或 "zone-default", "v"+版本]
func DeriveKey(normalizedName, plantedIn string, zone, schemaVersion int) string {
	name := strings.ToLower(strings.ReplaceAll(normalizedName, keySeparator, ""))

	placement := strings.ReplaceAll(strings.TrimSpace(plantedIn), keySeparator, "")
	if placement == "" {
		placement = unspecifiedPlantedIn
	}

	zoneToken := defaultZoneToken
	if zone != 0 {
		zoneToken = "zone-" + strconv.Itoa(zone)
	}

	tuple := strings.Join([]string{
		name,
		placement,
		zoneToken,
		"v" + strconv.Itoa(schemaVersion),
	}, keySeparator)

	hash := sha256.Sum256([]byte(tuple))
	return hex.EncodeToString(hash[:])
}
